// Package composer renders the migration guide: a self-contained HTML block
// combining the differ's automated analysis with manually configured element
// mappings, spliced into the current page's tab set.
package composer

import (
	"fmt"
	stdhtml "html"
	"strings"
	"text/template"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/htmldoc"
	"github.com/fhirtools/igdiff/igerrors"
)

// GuideID is the element id of the composed migration guide region and the
// target of its tab-navigation entry.
const GuideID = "tabs-migration"

// TabsID is the element id of the page's jQuery-UI tab container the guide is
// spliced into.
const TabsID = "tabs"

// ManualMapping is an externally configured override record describing how an
// element of the previous version maps onto the current one. The composer only
// renders these, it never derives them.
type ManualMapping struct {
	// OldPath is the element path in the previous version
	OldPath string `yaml:"old_path" json:"old_path"`
	// NewPath is the element path in the current version
	NewPath string `yaml:"new_path" json:"new_path"`
	// ChangeType is a free-case tag: BREAKING, REMOVED, RENAMED, MOVED,
	// MERGED, STRUCTURE, NEW, or INFO. Unknown tags render with the INFO badge.
	ChangeType string `yaml:"change_type" json:"change_type"`
	// Description is free text shown next to the mapping
	Description string `yaml:"description" json:"description"`
}

var (
	titleCaser = cases.Title(language.Und)
	upperCaser = cases.Upper(language.Und)
)

// guideTemplate is the outer shell of the migration guide. All styling is
// inline-scoped so the block has no external dependency.
var guideTemplate = template.Must(template.New("guide").Parse(`
<div id="{{.GuideID}}">
    <style>
        #{{.GuideID}} { padding: 20px; border: 1px solid #DEE2E6; background: #FFF; }
        #{{.GuideID}} .info-box { background: #f8f9fa; border-left: 5px solid #6c757d; padding: 15px; margin-bottom: 25px; }
        #{{.GuideID}} .label { padding: 3px 8px; border-radius: 4px; font-weight: bold; color: white; margin-right: 10px; }
        #{{.GuideID}} .label-critical { background-color: #dc3545; }
        #{{.GuideID}} .label-new { background-color: #28a745; }
        #{{.GuideID}} .label-info { background-color: #ffc107; color: #212529; }
        #{{.GuideID}} table { width: 100%; border-collapse: collapse; margin-bottom: 25px; }
        #{{.GuideID}} th, #{{.GuideID}} td { padding: 8px; border: 1px solid #dee2e6; }
        #{{.GuideID}} th { background: #f8f9fa; }
    </style>
    <div class="container-fluid">
        <h3>Migration Guide ({{.PreviousLabel}} → {{.CurrentLabel}})</h3>
        <div class="info-box">
            <h5>How to read this guide:</h5>
            <p>Highlights structural differences between the two versions.</p>
            <ul>
                <li><span class="label label-critical">CRITICAL</span> Code break likely.</li>
                <li><span class="label label-new">New</span> New features.</li>
                <li><span class="label label-info">Info</span> Non-breaking.</li>
            </ul>
        </div>
        <h4>Automated Analysis</h4>
        <table class="grid table table-bordered table-striped">
            <thead><tr><th style="width: 150px;">Type</th><th style="width: 350px;">Element</th><th>Impact</th></tr></thead>
            <tbody>{{.ChangesBody}}</tbody>
        </table>
        <h4>Manual Mappings</h4>
        <table class="grid table table-bordered table-hover">
            <thead><tr><th>Old Path</th><th>New Path</th><th style="width: 120px;">Change Type</th><th>Description</th></tr></thead>
            <tbody>{{.MappingsBody}}</tbody>
        </table>
    </div>
</div>`))

// Composer renders migration guides for one previous/current version pair.
type Composer struct {
	// PreviousLabel and CurrentLabel are the version labels shown in the
	// guide heading.
	PreviousLabel string
	CurrentLabel  string
}

// New creates a Composer for the given version labels.
func New(previousLabel, currentLabel string) *Composer {
	return &Composer{
		PreviousLabel: previousLabel,
		CurrentLabel:  currentLabel,
	}
}

// Compose renders the migration guide fragment from the classified changes and
// the configured manual mappings.
func (c *Composer) Compose(changes []differ.Change, mappings []ManualMapping) (*html.Node, error) {
	var buf strings.Builder
	err := guideTemplate.Execute(&buf, map[string]string{
		"GuideID":       GuideID,
		"PreviousLabel": stdhtml.EscapeString(c.PreviousLabel),
		"CurrentLabel":  stdhtml.EscapeString(c.CurrentLabel),
		"ChangesBody":   changesBody(changes),
		"MappingsBody":  mappingsBody(mappings),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering migration guide: %w", err)
	}
	return htmldoc.FragmentElement(buf.String())
}

// changesBody renders the automated-analysis table body.
func changesBody(changes []differ.Change) string {
	if len(changes) == 0 {
		return `<tr><td colspan="3"><i>No critical structural changes detected automatically.</i></td></tr>`
	}

	var b strings.Builder
	for _, change := range changes {
		style := changeBadge(change)
		fmt.Fprintf(&b, `<tr>
            <td style="vertical-align: middle;"><span style="%s">%s</span></td>
            <td style="vertical-align: middle;"><code>%s</code></td>
            <td style="vertical-align: middle;">%s</td>
        </tr>`,
			badgeCSS(style, "4px 8px"),
			titleCaser.String(string(change.Kind)),
			stdhtml.EscapeString(change.Path),
			stdhtml.EscapeString(change.Message))
	}
	return b.String()
}

// changeBadge picks the badge colors for an automated change: breaking and
// critical changes in red, additions in green, everything else in yellow.
func changeBadge(change differ.Change) badgeStyle {
	switch {
	case change.Severity == differ.SeverityCritical || change.Severity == differ.SeverityBreaking:
		return redBadge
	case change.Kind == differ.ChangeKindNew:
		return greenBadge
	default:
		return yellowBadge
	}
}

// mappingsBody renders the manual-mapping table body.
func mappingsBody(mappings []ManualMapping) string {
	if len(mappings) == 0 {
		return `<tr><td colspan="4"><i>No manual mappings defined.</i></td></tr>`
	}

	var b strings.Builder
	for _, mapping := range mappings {
		changeType := upperCaser.String(mapping.ChangeType)
		if changeType == "" {
			changeType = "INFO"
		}
		style, ok := changeTypeStyles[changeType]
		if !ok {
			style = changeTypeStyles["INFO"]
		}
		fmt.Fprintf(&b, `<tr>
            <td style="font-family: monospace; color: #d9534f;">%s</td>
            <td style="font-family: monospace; color: #28a745;">%s</td>
            <td><span style="%s">%s</span></td>
            <td>%s</td>
        </tr>`,
			mappingPath(mapping.OldPath),
			mappingPath(mapping.NewPath),
			badgeCSS(style, "3px 8px"),
			changeType,
			stdhtml.EscapeString(mapping.Description))
	}
	return b.String()
}

// mappingPath renders a mapping's path cell, with "-" standing in for a side
// the element does not exist on.
func mappingPath(path string) string {
	if path == "" {
		return "-"
	}
	return stdhtml.EscapeString(path)
}

func badgeCSS(style badgeStyle, padding string) string {
	return fmt.Sprintf("background-color: %s; color: %s; padding: %s; border-radius: 4px; font-weight: bold; font-size: 0.9em;",
		style.background, style.foreground, padding)
}

// InjectGuide splices the composed guide into the page's tab container. On a
// re-run the existing guide region is replaced in place; otherwise the guide
// is appended as a new panel and a navigation entry is added if not already
// present, so the operation is idempotent.
func InjectGuide(doc *htmldoc.Document, guide *html.Node) error {
	tabs := doc.Region(TabsID)
	if tabs.Length() == 0 {
		return &igerrors.RegionError{ID: TabsID, MissingFrom: "current"}
	}

	nav := tabs.Find("ul").First()
	if nav.Length() > 0 && nav.Find(fmt.Sprintf(`a[href="#%s"]`, GuideID)).Length() == 0 {
		nav.AppendHtml(fmt.Sprintf(`<li><a href="#%s">Migration Guide</a></li>`, GuideID))
	}

	if existing := tabs.Find(fmt.Sprintf(`div[id=%q]`, GuideID)); existing.Length() > 0 {
		existing.First().ReplaceWithNodes(guide)
	} else {
		tabs.First().AppendNodes(guide)
	}
	return nil
}
