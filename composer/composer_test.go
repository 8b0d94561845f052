package composer

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/htmldoc"
	"github.com/fhirtools/igdiff/igerrors"
)

func renderGuide(t *testing.T, changes []differ.Change, mappings []ManualMapping) *goquery.Document {
	t.Helper()
	guide, err := New("1.0.0", "2.0.0").Compose(changes, mappings)
	require.NoError(t, err)
	doc := goquery.NewDocumentFromNode(guide)
	return doc
}

func TestComposeEmptyTablesRenderPlaceholders(t *testing.T) {
	doc := renderGuide(t, nil, nil)

	text := doc.Text()
	assert.Contains(t, text, "No critical structural changes detected automatically.")
	assert.Contains(t, text, "No manual mappings defined.")
	assert.Contains(t, text, "Migration Guide (1.0.0 → 2.0.0)")
}

func TestComposeChangeRows(t *testing.T) {
	changes := []differ.Change{
		{Path: "Patient.contact", Kind: differ.ChangeKindRemoved, Severity: differ.SeverityCritical, Message: "CRITICAL: Mandatory element removed!"},
		{Path: "Patient.photo", Kind: differ.ChangeKindNew, Severity: differ.SeverityInfo, Message: "New element added."},
		{Path: "Patient.name", Kind: differ.ChangeKindChanged, Severity: differ.SeverityInfo, Message: "Cardinality changed: 0..1 → 0..2"},
	}

	doc := renderGuide(t, changes, nil)

	rows := doc.Find("table").First().Find("tbody tr")
	require.Equal(t, 3, rows.Length())

	// Kind badges are title-cased and colored by severity.
	critical := rows.Eq(0).Find("span")
	assert.Equal(t, "Removed", critical.Text())
	assert.Contains(t, critical.AttrOr("style", ""), "#dc3545")

	added := rows.Eq(1).Find("span")
	assert.Equal(t, "New", added.Text())
	assert.Contains(t, added.AttrOr("style", ""), "#28a745")

	changed := rows.Eq(2).Find("span")
	assert.Equal(t, "Changed", changed.Text())
	assert.Contains(t, changed.AttrOr("style", ""), "#ffc107")

	assert.Equal(t, "Patient.contact", rows.Eq(0).Find("code").Text())
}

func TestComposeMappingRows(t *testing.T) {
	mappings := []ManualMapping{
		{OldPath: "Patient.animal", NewPath: "", ChangeType: "removed", Description: "Dropped in R4."},
		{OldPath: "Patient.careProvider", NewPath: "Patient.generalPractitioner", ChangeType: "renamed", Description: "Renamed."},
		{OldPath: "Patient.x", NewPath: "Patient.y", ChangeType: "something-else", Description: "Unknown tag."},
	}

	doc := renderGuide(t, nil, mappings)

	rows := doc.Find("table").Eq(1).Find("tbody tr")
	require.Equal(t, 3, rows.Length())

	// Change-type tags are upper-cased for display and color lookup.
	removed := rows.Eq(0).Find("span")
	assert.Equal(t, "REMOVED", removed.Text())
	assert.Contains(t, removed.AttrOr("style", ""), "#dc3545")
	assert.Equal(t, "-", rows.Eq(0).Find("td").Eq(1).Text(), "missing new path renders as dash")

	renamed := rows.Eq(1).Find("span")
	assert.Equal(t, "RENAMED", renamed.Text())
	assert.Contains(t, renamed.AttrOr("style", ""), "#ffc107")

	// Unknown tags fall back to the INFO pair.
	unknown := rows.Eq(2).Find("span")
	assert.Contains(t, unknown.AttrOr("style", ""), "#ffc107")
}

const tabbedPage = `<html><body>
<div id="tabs">
  <ul>
    <li><a href="#tabs-all">All</a></li>
    <li><a href="#tabs-snap">Snapshot</a></li>
  </ul>
  <div id="tabs-all"><p>all</p></div>
  <div id="tabs-snap"><p>snap</p></div>
</div>
</body></html>`

func composeGuide(t *testing.T) *html.Node {
	t.Helper()
	guide, err := New("1.0.0", "2.0.0").Compose(nil, nil)
	require.NoError(t, err)
	return guide
}

func TestInjectGuideAppendsPanelAndNavEntry(t *testing.T) {
	doc, err := htmldoc.Parse(strings.NewReader(tabbedPage))
	require.NoError(t, err)

	require.NoError(t, InjectGuide(doc, composeGuide(t)))

	assert.Equal(t, 1, doc.Region(GuideID).Length())
	assert.Equal(t, 1, doc.Find(`ul a[href="#tabs-migration"]`).Length())
}

func TestInjectGuideIsIdempotent(t *testing.T) {
	doc, err := htmldoc.Parse(strings.NewReader(tabbedPage))
	require.NoError(t, err)

	require.NoError(t, InjectGuide(doc, composeGuide(t)))
	require.NoError(t, InjectGuide(doc, composeGuide(t)))

	assert.Equal(t, 1, doc.Region(GuideID).Length(), "re-runs replace the guide in place")
	assert.Equal(t, 1, doc.Find(`ul a[href="#tabs-migration"]`).Length(), "nav entry is inserted once")
}

func TestInjectGuideMissingTabs(t *testing.T) {
	doc, err := htmldoc.Parse(strings.NewReader("<html><body><p>no tabs</p></body></html>"))
	require.NoError(t, err)

	err = InjectGuide(doc, composeGuide(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, igerrors.ErrRegion))
}
