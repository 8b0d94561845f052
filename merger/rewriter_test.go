package merger

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhirtools/igdiff/htmldoc"
)

const isolationPage = `<html><body>
<div id="region">
  <a name="top"></a>
  <h3 id="heading">Elements</h3>
  <input id="filter" onkeyup="applyFilter(this.value, 'heading')"/>
  <span id="row2"></span>
  <a href="#heading">jump to heading</a>
  <a href="#elsewhere">external target</a>
  <a href="other.html#heading">different document</a>
</div>
</body></html>`

func regionOf(t *testing.T, page, id string) *goquery.Selection {
	t.Helper()
	doc, err := htmldoc.Parse(strings.NewReader(page))
	require.NoError(t, err)
	region := doc.Region(id)
	require.Equal(t, 1, region.Length())
	return region
}

func TestRewritePrefixesIdentifiers(t *testing.T) {
	region := regionOf(t, isolationPage, "region")

	idMap := Isolate(region, "prev-")

	assert.Equal(t, "prev-top", idMap["top"])
	assert.Equal(t, "prev-heading", idMap["heading"])
	assert.Equal(t, "prev-filter", idMap["filter"])

	assert.Equal(t, 1, region.Find(`[id="prev-heading"]`).Length())
	assert.Equal(t, 1, region.Find(`a[name="prev-top"]`).Length())
	assert.Equal(t, 0, region.Find(`[id="heading"]`).Length(), "original id must be gone")
}

func TestRewriteIsInjective(t *testing.T) {
	region := regionOf(t, isolationPage, "region")

	idMap := Isolate(region, "prev-")

	seen := map[string]string{}
	for original, prefixed := range idMap {
		if prior, ok := seen[prefixed]; ok {
			t.Fatalf("identifiers %q and %q both map to %q", prior, original, prefixed)
		}
		seen[prefixed] = original
	}
}

func TestRewriteSameDocumentLinks(t *testing.T) {
	region := regionOf(t, isolationPage, "region")

	Isolate(region, "prev-")

	var hrefs []string
	region.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		hrefs = append(hrefs, s.AttrOr("href", ""))
	})

	assert.Contains(t, hrefs, "#prev-heading", "mapped same-document link must be rewritten")
	assert.Contains(t, hrefs, "#elsewhere", "unmapped targets stay as they are")
	assert.Contains(t, hrefs, "other.html#heading", "cross-document links stay as they are")
}

func TestRewriteLinksResolveAfterIsolation(t *testing.T) {
	region := regionOf(t, isolationPage, "region")

	Isolate(region, "curr-")

	region.Find(`a[href^="#"]`).Each(func(_ int, s *goquery.Selection) {
		target := strings.TrimPrefix(s.AttrOr("href", ""), "#")
		if target == "elsewhere" {
			// Was not resolvable inside the fragment before isolation either.
			return
		}
		resolved := region.Find(`[id="`+target+`"]`).Length() + region.Find(`a[name="`+target+`"]`).Length()
		assert.Equal(t, 1, resolved, "link target %q must resolve after isolation", target)
	})
}

func TestRewriteHandlerIdentifierTokens(t *testing.T) {
	region := regionOf(t, isolationPage, "region")

	Isolate(region, "prev-")

	handler := region.Find("input").AttrOr("onkeyup", "")
	assert.Equal(t, "applyFilter(this.value.toLowerCase(), 'prev-heading')", handler)
}

func TestRewriteHandlerValueLowercasing(t *testing.T) {
	r := NewIDRewriter("prev-")

	got := r.rewriteHandler("applyFilter(this.value, 'x')")
	assert.Equal(t, "applyFilter(this.value.toLowerCase(), 'x')", got)

	// Already lowercased reads stay untouched.
	got = r.rewriteHandler("applyFilter(this.value.toLowerCase(), 'x')")
	assert.Equal(t, "applyFilter(this.value.toLowerCase(), 'x')", got)

	got = r.rewriteHandler("check(event.target.value)")
	assert.Equal(t, "check(event.target.value.toLowerCase())", got)
}

func TestRewriteHandlerTokenReplacement(t *testing.T) {
	r := NewIDRewriter("curr-")
	r.idMap["heading"] = "curr-heading"
	r.idMap["row"] = "curr-row"

	got := r.rewriteHandler(`show('heading'); hide("heading"); mark( heading );`)
	assert.Equal(t, `show('curr-heading'); hide("curr-heading"); mark( curr-heading );`, got)

	// Substrings of longer tokens must not be corrupted.
	got = r.rewriteHandler(`select('row2'); pick('rowing')`)
	assert.Equal(t, `select('row2'); pick('rowing')`, got)
}

func TestRewriteEmptyHandler(t *testing.T) {
	r := NewIDRewriter("prev-")
	assert.Equal(t, "", r.rewriteHandler(""))
}
