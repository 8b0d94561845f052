package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhirtools/igdiff/composer"
	"github.com/fhirtools/igdiff/igerrors"
)

const sampleConfig = `
comparison:
  previous_version: "1.0.0"
  current_version: "2.0.0"
  previous_folder: "/data/ig-v1"
  current_folder: "/data/ig-v2"
  fsh_path: "input/fsh"
tables:
  - tbl-snap-inner
  - tbl-diff-inner
tabs:
  - tabs-all
suppress_child_changes: false
workers: 2
mappings:
  global:
    - old_path: Patient.animal
      new_path: ""
      change_type: removed
      description: Dropped in R4.
  my-profile:
    - old_path: Patient.careProvider
      new_path: Patient.generalPractitioner
      change_type: renamed
      description: Renamed.
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", cfg.Comparison.PreviousVersion)
	assert.Equal(t, "2.0.0", cfg.Comparison.CurrentVersion)
	assert.Equal(t, []string{"tbl-snap-inner", "tbl-diff-inner"}, cfg.Tables)
	assert.Equal(t, []string{"tabs-all"}, cfg.Tabs)
	assert.False(t, cfg.SuppressChildren())
	assert.Equal(t, 2, cfg.WorkerCount())

	assert.Equal(t, filepath.Join("/data/ig-v1", "output"), cfg.PreviousOutputDir())
	assert.Equal(t, filepath.Join("/data/ig-v2", "input/fsh"), cfg.CurrentFSHDir())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, igerrors.ErrConfig))
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		config string
		option string
	}{
		{
			name: "missing current folder",
			config: `
comparison:
  previous_version: "1.0.0"
  current_version: "2.0.0"
  previous_folder: "/data/ig-v1"
`,
			option: "comparison.current_folder",
		},
		{
			name: "missing version labels",
			config: `
comparison:
  previous_folder: "/data/ig-v1"
  current_folder: "/data/ig-v2"
`,
			option: "comparison.previous_version",
		},
		{
			name: "negative workers",
			config: `
comparison:
  previous_version: "1.0.0"
  current_version: "2.0.0"
  previous_folder: "/data/ig-v1"
  current_folder: "/data/ig-v2"
workers: -1
`,
			option: "workers",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.config))
			require.Error(t, err)
			var cfgErr *igerrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	assert.True(t, cfg.SuppressChildren(), "child suppression defaults on")
	assert.Equal(t, defaultWorkers, cfg.WorkerCount())
	assert.Nil(t, cfg.MappingsFor("anything"))
}

func TestMappingsForFallsBackToGlobal(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	specific := cfg.MappingsFor("my-profile")
	require.Len(t, specific, 1)
	assert.Equal(t, "Patient.careProvider", specific[0].OldPath)

	fallback := cfg.MappingsFor("other-profile")
	require.Len(t, fallback, 1)
	assert.Equal(t, composer.ManualMapping{
		OldPath:     "Patient.animal",
		NewPath:     "",
		ChangeType:  "removed",
		Description: "Dropped in R4.",
	}, fallback[0])
}
