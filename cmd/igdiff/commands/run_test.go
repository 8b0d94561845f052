package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRunMissingConfig(t *testing.T) {
	err := HandleRun([]string{"-c", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestHandleRunEmptyComparison(t *testing.T) {
	root := t.TempDir()
	prev := filepath.Join(root, "v1")
	curr := filepath.Join(root, "v2")
	require.NoError(t, os.MkdirAll(filepath.Join(prev, "output"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(curr, "output"), 0o755))

	configPath := filepath.Join(root, "config.yaml")
	config := fmt.Sprintf(`
comparison:
  previous_version: "1.0.0"
  current_version: "2.0.0"
  previous_folder: %q
  current_folder: %q
  fsh_path: input/fsh
`, prev, curr)
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	// No schema sources on either side: the run completes with nothing to do.
	err := HandleRun([]string{"-c", configPath})
	assert.NoError(t, err)
}
