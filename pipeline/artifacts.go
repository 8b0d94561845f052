package pipeline

import (
	"fmt"
	stdhtml "html"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/fhirtools/igdiff/htmldoc"
)

// artifactIndexPage is the publisher's artifact index file name.
const artifactIndexPage = "artifacts.html"

// versionCellID marks the version annotation cells added by AnnotateVersions.
const versionCellID = "IG-version"

// artifactPage returns the page file name of a StructureDefinition artifact.
func artifactPage(artifactID string) string {
	return fmt.Sprintf("StructureDefinition-%s.html", artifactID)
}

// UpdateArtifactIndex carries artifacts that exist only in the previous
// version over into the current output: their pages are copied alongside the
// current ones and the artifact index table gets a row for each, cloned from
// the last existing row so the publisher's styling is preserved. Artifacts
// without a page (mappings, extensions rendered elsewhere) are skipped
// silently.
func UpdateArtifactIndex(cfg *Config, previousIDs, currentIDs map[string]struct{}, logger zerolog.Logger) error {
	indexPath := filepath.Join(cfg.CurrentOutputDir(), artifactIndexPage)
	doc, err := htmldoc.Load(indexPath)
	if err != nil {
		logger.Warn().Str("path", indexPath).Err(err).Msg("artifact index not available, skipping update")
		return nil
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	changed := false
	for _, artifactID := range sortedDifference(previousIDs, currentIDs) {
		src := filepath.Join(cfg.PreviousOutputDir(), artifactPage(artifactID))
		dst := filepath.Join(cfg.CurrentOutputDir(), artifactPage(artifactID))
		if err := copyFile(src, dst); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("carrying over artifact %s: %w", artifactID, err)
		}

		name, description := "Unknown", "No description found."
		if page, err := htmldoc.Load(dst); err == nil {
			name, description = page.NameAndDescription()
		}

		lastRow := table.Find("tr").Last()
		newRow := lastRow.Clone()
		cells := newRow.Find("td")
		if cells.Length() == 0 {
			continue
		}
		link := cells.First().Find("a").First()
		link.SetAttr("href", artifactPage(artifactID))
		link.SetAttr("title", "StructureDefinition/"+artifactID)
		link.SetText(name)
		cells.Last().Find("p").First().SetText(description)
		lastRow.AfterSelection(newRow)

		logger.Info().Str("artifact", artifactID).Msg("carried removed artifact into current index")
		changed = true
	}

	if !changed {
		return nil
	}
	return doc.WriteFile(indexPath)
}

// AnnotateVersions adds a version cell after the name cell of every linked row
// in the artifact index tables, labeling each artifact with the versions it
// exists in. A second run is a no-op: annotation is skipped when the first
// table already carries a version cell.
func AnnotateVersions(cfg *Config, previousIDs, currentIDs map[string]struct{}) error {
	indexPath := filepath.Join(cfg.CurrentOutputDir(), artifactIndexPage)
	doc, err := htmldoc.Load(indexPath)
	if err != nil {
		return nil
	}

	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil
	}
	if tables.First().Find(fmt.Sprintf(`td[id=%q]`, versionCellID)).Length() > 0 {
		return nil
	}

	prevLabel := cfg.Comparison.PreviousVersion
	currLabel := cfg.Comparison.CurrentVersion

	tables.Find("tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a").First()
		if link.Length() == 0 {
			return
		}
		title := link.AttrOr("title", "")
		artifactID := title[strings.LastIndex(title, "/")+1:]

		_, inPrev := previousIDs[artifactID]
		_, inCurr := currentIDs[artifactID]
		var label string
		switch {
		case inPrev && inCurr:
			label = prevLabel + "/" + currLabel
		case inPrev:
			label = prevLabel
		default:
			label = currLabel
		}

		row.Find("td").First().AfterHtml(fmt.Sprintf(`<td id=%q>%s</td>`,
			versionCellID, stdhtml.EscapeString(label)))
	})

	return doc.WriteFile(indexPath)
}

// sortedDifference returns the members of a that are not in b, sorted for
// deterministic processing order.
func sortedDifference(a, b map[string]struct{}) []string {
	var out []string
	for id := range a {
		if _, ok := b[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// copyFile copies src to dst, replacing any existing file.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
