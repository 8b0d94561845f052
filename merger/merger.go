// Package merger combines equivalent regions of the previous and current
// version of a page into one composite region, either side-by-side (tables) or
// stacked (tab panels).
//
// Before composition, each region copy is isolated with a version prefix (see
// IDRewriter) so the two fragments can share one document without identifier
// collisions. The input documents' regions are deep-copied before any
// mutation; only the current document's region is replaced.
package merger

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/fhirtools/igdiff/htmldoc"
)

// PreviousPrefix and CurrentPrefix disambiguate the identifiers of the two
// isolated region copies.
const (
	PreviousPrefix = "prev-"
	CurrentPrefix  = "curr-"
)

// Merger merges regions of a previous/current document pair.
type Merger struct {
	// PreviousLabel and CurrentLabel are the version labels shown above each
	// side of a merged region.
	PreviousLabel string
	CurrentLabel  string
	// Logger receives missing-region warnings. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// New creates a Merger for the given version labels.
func New(previousLabel, currentLabel string) *Merger {
	return &Merger{
		PreviousLabel: previousLabel,
		CurrentLabel:  currentLabel,
		Logger:        zerolog.Nop(),
	}
}

// MergeTables merges each named table region side-by-side into the current
// document. A region absent from both documents is skipped silently; a region
// absent from exactly one side is logged and skipped, since a partial merge
// would misrepresent that version.
func (m *Merger) MergeTables(previous, current *htmldoc.Document, regionIDs []string) error {
	for _, id := range regionIDs {
		prevRegion := previous.Region(id)
		currRegion := current.Region(id)

		if prevRegion.Length() == 0 && currRegion.Length() == 0 {
			continue
		}
		if prevRegion.Length() == 0 || currRegion.Length() == 0 {
			m.warnMissing("table", id, prevRegion.Length() == 0)
			continue
		}

		prevCopy := prevRegion.First().Clone()
		currCopy := currRegion.First().Clone()

		normalizeCellWidths(prevCopy)
		normalizeCellWidths(currCopy)
		Isolate(prevCopy, PreviousPrefix)
		Isolate(currCopy, CurrentPrefix)

		prevHTML, err := goquery.OuterHtml(prevCopy)
		if err != nil {
			return fmt.Errorf("serializing previous region %q: %w", id, err)
		}
		currHTML, err := goquery.OuterHtml(currCopy)
		if err != nil {
			return fmt.Errorf("serializing current region %q: %w", id, err)
		}

		merged := fmt.Sprintf(`
<div class="row no-gutters merged-table-container" style="border: 1px solid #DEE2E6; border-radius: 4px; margin-top: 15px;">
    <div class="col-6" style="padding: 15px; background-color: #F8F9FA;">
        <h4 style="color: #333; border-bottom: 1px solid #DEE2E6; padding-bottom: 5px; margin-bottom: 15px;">Version: %s</h4>
        <div class="prev-container">%s</div>
    </div>
    <div class="col-6" style="padding: 15px; border-left: 1px solid #DEE2E6; background-color: #FFFFFF;">
        <h4 style="color: #333; border-bottom: 1px solid #DEE2E6; padding-bottom: 5px; margin-bottom: 15px;">Version: %s</h4>
        <div class="curr-container">%s</div>
    </div>
</div>`, m.PreviousLabel, prevHTML, m.CurrentLabel, currHTML)

		node, err := htmldoc.FragmentElement(merged)
		if err != nil {
			return fmt.Errorf("building merged table %q: %w", id, err)
		}
		currRegion.First().ReplaceWithNodes(node)
	}
	return nil
}

// MergeTabs merges each named tab-panel region into a stacked view in the
// current document: previous content above current content, both under their
// version heading. The panel keeps the tab's original identifier so the
// hosting tab navigation keeps working. The same missing-region policy as
// MergeTables applies.
func (m *Merger) MergeTabs(previous, current *htmldoc.Document, regionIDs []string) error {
	for _, id := range regionIDs {
		prevRegion := previous.Region(id)
		currRegion := current.Region(id)

		if prevRegion.Length() == 0 && currRegion.Length() == 0 {
			continue
		}
		if prevRegion.Length() == 0 || currRegion.Length() == 0 {
			m.warnMissing("tab", id, prevRegion.Length() == 0)
			continue
		}

		prevHTML, err := prevRegion.First().Clone().Html()
		if err != nil {
			return fmt.Errorf("serializing previous tab %q: %w", id, err)
		}
		currHTML, err := currRegion.First().Clone().Html()
		if err != nil {
			return fmt.Errorf("serializing current tab %q: %w", id, err)
		}

		stacked := fmt.Sprintf(`
<div id="%s" class="tab-pane active merged-tab-content" style="padding: 15px; border: 1px solid #DEE2E6; border-radius: 4px; background-color: #FFFFFF;">
    <div class="container-fluid p-0">
        <h4 style="color: #333; border-bottom: 1px solid #DEE2E6; padding-bottom: 5px; margin-bottom: 15px;">Version: %s</h4>
        <div class="version-prev-content" style="margin-bottom: 30px; padding: 15px; border: 1px dashed #ccc; border-radius: 4px; background-color: #F8F9FA;">%s</div>
        <hr style="margin: 2rem 0; border-top: 1px solid #ccc;">
        <h4 style="color: #333; border-bottom: 1px solid #DEE2E6; padding-bottom: 5px; margin-bottom: 15px;">Version: %s</h4>
        <div class="version-curr-content" style="padding: 15px; border: 1px dashed #ccc; border-radius: 4px; background-color: #F8F9FA;">%s</div>
    </div>
</div>`, id, m.PreviousLabel, prevHTML, m.CurrentLabel, currHTML)

		node, err := htmldoc.FragmentElement(stacked)
		if err != nil {
			return fmt.Errorf("building merged tab %q: %w", id, err)
		}
		currRegion.First().ReplaceWithNodes(node)
	}
	return nil
}

func (m *Merger) warnMissing(kind, id string, missingFromPrevious bool) {
	side := "current"
	if missingFromPrevious {
		side = "previous"
	}
	m.Logger.Warn().
		Str("region", id).
		Str("kind", kind).
		Str("missing_from", side).
		Msg("region missing in one version, skipping merge")
}

// normalizeCellWidths bounds cell width and converts no-wrap whitespace to
// normal wrapping, so long content cannot overflow the half-width columns of
// a merged table.
func normalizeCellWidths(fragment *goquery.Selection) {
	fragment.Find("td").Each(func(_ int, cell *goquery.Selection) {
		style := cell.AttrOr("style", "")
		if !strings.Contains(style, "max-width") {
			style += "; max-width: 150px"
		}
		if strings.Contains(style, "white-space") && strings.Contains(style, "nowrap") {
			style = strings.ReplaceAll(style, "nowrap", "normal")
		}
		cell.SetAttr("style", strings.Trim(style, "; "))
	})
}
