package htmldoc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhirtools/igdiff/igerrors"
)

const samplePage = `<html><body>
<h2 id="root">Resource Profile: MyPatient</h2>
<div class="col-12">
  <p>breadcrumb</p>
  <p>A constrained patient profile.</p>
</div>
<div id="tbl-snap-inner"><table><tr><td>cell</td></tr></table></div>
</body></html>`

func TestParseAndRegion(t *testing.T) {
	doc, err := Parse(strings.NewReader(samplePage))
	require.NoError(t, err)

	region := doc.Region("tbl-snap-inner")
	assert.Equal(t, 1, region.Length())
	assert.Equal(t, 1, region.Find("table").Length())

	assert.Equal(t, 0, doc.Region("tbl-diff-inner").Length(), "absent regions yield an empty selection")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.html"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, igerrors.ErrDocument))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadAndWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(in, []byte(samplePage), 0o644))

	doc, err := Load(in)
	require.NoError(t, err)
	assert.Equal(t, in, doc.Path())

	out := filepath.Join(dir, "out.html")
	require.NoError(t, doc.WriteFile(out))

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(written), `id="tbl-snap-inner"`)
}

func TestNameAndDescription(t *testing.T) {
	doc, err := Parse(strings.NewReader(samplePage))
	require.NoError(t, err)

	name, description := doc.NameAndDescription()
	assert.Equal(t, " MyPatient", name)
	assert.Equal(t, "A constrained patient profile.", description)
}

func TestNameAndDescriptionFallbacks(t *testing.T) {
	doc, err := Parse(strings.NewReader("<html><body><p>nothing here</p></body></html>"))
	require.NoError(t, err)

	name, description := doc.NameAndDescription()
	assert.Equal(t, "Unknown", name)
	assert.Equal(t, "No description found.", description)
}

func TestFragmentElement(t *testing.T) {
	node, err := FragmentElement("\n  <div class=\"merged\"><span>x</span></div>\n")
	require.NoError(t, err)
	assert.Equal(t, "div", node.Data)

	_, err = FragmentElement("   ")
	assert.Error(t, err)
}

func TestStrippedText(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<html><body><table><tr><td>  0..1  <span> </span></td></tr></table></body></html>`))
	require.NoError(t, err)

	cell := doc.Find("td")
	assert.Equal(t, "0..1", StrippedText(cell))
	assert.Equal(t, []string{"0..1"}, TextFragments(cell))
}
