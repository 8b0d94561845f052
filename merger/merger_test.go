package merger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhirtools/igdiff/htmldoc"
)

const tablePage = `<html><body>
<div id="tbl-key"><table>
  <tr><td id="cell-name" style="white-space: nowrap">Patient.name</td><td>0..1</td></tr>
</table></div>
</body></html>`

func parsePage(t *testing.T, page string) *htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestMergeTablesSideBySide(t *testing.T) {
	prev := parsePage(t, tablePage)
	curr := parsePage(t, tablePage)

	m := New("1.0.0", "2.0.0")
	require.NoError(t, m.MergeTables(prev, curr, []string{"tbl-key"}))

	merged := curr.Find("div.merged-table-container")
	require.Equal(t, 1, merged.Length(), "current region must be replaced by the composite block")

	// Both version columns are present and labeled.
	columns := merged.Find("div.col-6")
	require.Equal(t, 2, columns.Length())
	headings := merged.Find("h4")
	require.Equal(t, 2, headings.Length())
	assert.Equal(t, "Version: 1.0.0", headings.Eq(0).Text())
	assert.Equal(t, "Version: 2.0.0", headings.Eq(1).Text())

	// Each side carries a prefixed copy of the table region.
	assert.Equal(t, 1, merged.Find(`div.prev-container [id="prev-cell-name"]`).Length())
	assert.Equal(t, 1, merged.Find(`div.curr-container [id="curr-cell-name"]`).Length())

	// Round trip: both sides still contain the original cell content.
	assert.Contains(t, merged.Find("div.prev-container").Text(), "Patient.name")
	assert.Contains(t, merged.Find("div.curr-container").Text(), "Patient.name")

	// The previous document was only read, never mutated.
	assert.Equal(t, 1, prev.Region("tbl-key").Length())
	assert.Equal(t, 1, prev.Find(`[id="cell-name"]`).Length())
}

func TestMergeTablesNormalizesCellStyles(t *testing.T) {
	prev := parsePage(t, tablePage)
	curr := parsePage(t, tablePage)

	m := New("1.0.0", "2.0.0")
	require.NoError(t, m.MergeTables(prev, curr, []string{"tbl-key"}))

	style, ok := curr.Find(`[id="curr-cell-name"]`).Attr("style")
	require.True(t, ok)
	assert.Contains(t, style, "max-width: 150px")
	assert.Contains(t, style, "white-space: normal")
	assert.NotContains(t, style, "nowrap")
}

func TestMergeTablesMissingBothSidesIsSilent(t *testing.T) {
	prev := parsePage(t, "<html><body></body></html>")
	curr := parsePage(t, "<html><body></body></html>")

	var logBuf bytes.Buffer
	m := New("1.0.0", "2.0.0")
	m.Logger = zerolog.New(&logBuf)

	require.NoError(t, m.MergeTables(prev, curr, []string{"tbl-key"}))
	assert.Empty(t, logBuf.String())
}

func TestMergeTablesMissingOneSideWarnsAndSkips(t *testing.T) {
	prev := parsePage(t, "<html><body></body></html>")
	curr := parsePage(t, tablePage)

	var logBuf bytes.Buffer
	m := New("1.0.0", "2.0.0")
	m.Logger = zerolog.New(&logBuf)

	require.NoError(t, m.MergeTables(prev, curr, []string{"tbl-key"}))

	assert.Contains(t, logBuf.String(), "tbl-key")
	assert.Contains(t, logBuf.String(), "previous")
	// No partial merge: the current region stays as it was.
	assert.Equal(t, 1, curr.Region("tbl-key").Length())
	assert.Equal(t, 0, curr.Find("div.merged-table-container").Length())
}

const tabPage = `<html><body>
<div id="tabs-all">
  <p>All elements described here.</p>
</div>
</body></html>`

func TestMergeTabsStacked(t *testing.T) {
	prev := parsePage(t, strings.Replace(tabPage, "described here", "described previously", 1))
	curr := parsePage(t, tabPage)

	m := New("1.0.0", "2.0.0")
	require.NoError(t, m.MergeTabs(prev, curr, []string{"tabs-all"}))

	// The panel keeps the tab's original identifier.
	panel := curr.Region("tabs-all")
	require.Equal(t, 1, panel.Length())
	assert.Contains(t, panel.AttrOr("class", ""), "merged-tab-content")

	prevContent := panel.Find("div.version-prev-content")
	currContent := panel.Find("div.version-curr-content")
	require.Equal(t, 1, prevContent.Length())
	require.Equal(t, 1, currContent.Length())
	assert.Contains(t, prevContent.Text(), "described previously")
	assert.Contains(t, currContent.Text(), "described here")

	// Previous content is stacked above current content.
	html, err := goquery.OuterHtml(panel)
	require.NoError(t, err)
	assert.Less(t, strings.Index(html, "version-prev-content"), strings.Index(html, "version-curr-content"))
}

func TestMergeTabsMissingOneSideWarnsAndSkips(t *testing.T) {
	prev := parsePage(t, tabPage)
	curr := parsePage(t, "<html><body></body></html>")

	var logBuf bytes.Buffer
	m := New("1.0.0", "2.0.0")
	m.Logger = zerolog.New(&logBuf)

	require.NoError(t, m.MergeTabs(prev, curr, []string{"tabs-all"}))
	assert.Contains(t, logBuf.String(), "current")
}
