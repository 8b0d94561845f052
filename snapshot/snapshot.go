// Package snapshot extracts the element hierarchy from a rendered snapshot
// table into a flat, path-keyed structure.
//
// The IG publisher renders the hierarchy visually: each table row carries one
// element, and the nesting depth is encoded as a run of tree-drawing marker
// images in the name cell. The extractor reconstructs dotted element paths from
// that indentation with a depth stack, without needing the original schema
// source.
package snapshot

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fhirtools/igdiff/htmldoc"
)

// DefaultContainerID is the element id of the snapshot table container on a
// StructureDefinition page.
const DefaultContainerID = "tbl-snap-inner"

// markerPattern matches the tree-drawing images (tbl_vline.png, tbl_vjoin.png,
// ...) the publisher uses to indent the name cell.
var markerPattern = regexp.MustCompile(`tbl_.*\.png`)

// Element is one row of a parsed snapshot: a schema element with its rendered
// constraints. Elements are immutable once extracted.
type Element struct {
	// Path is the dotted element path, e.g. "Patient.name.given"
	Path string
	// Cardinality is the rendered "min..max" constraint, max possibly "*"
	Cardinality string
	// Type is the rendered type label, carried through unchanged
	Type string
	// Mandatory is true when the minimum occurrence is not zero
	Mandatory bool
}

// Structure maps dotted element paths to their elements for one document
// version. Two structures (previous and current) are always diffed as a pair.
type Structure map[string]Element

// Extractor parses snapshot tables. The zero value is not usable; call New.
type Extractor struct {
	// ContainerID is the element id of the snapshot table container.
	// Defaults to DefaultContainerID.
	ContainerID string
}

// New creates an Extractor with default settings.
func New() *Extractor {
	return &Extractor{ContainerID: DefaultContainerID}
}

// Extract parses doc's snapshot table using the default container id.
func Extract(doc *htmldoc.Document) Structure {
	return New().Extract(doc)
}

// Extract parses the snapshot table of doc into a Structure. A page without a
// snapshot container yields an empty Structure: some artifacts have no
// snapshot view, which is not an error.
func (e *Extractor) Extract(doc *htmldoc.Document) Structure {
	structure := Structure{}

	container := doc.Region(e.ContainerID)
	table := container.Find("table").First()
	if table.Length() == 0 {
		return structure
	}

	// stack holds the segment names of the current ancestry; its length always
	// equals the depth of the most recently accepted row.
	var stack []string

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		nameCell := cells.Eq(0)
		depth := markerDepth(nameCell)
		if depth == 0 {
			// Header or non-element row.
			return
		}

		name := elementName(nameCell)
		if name == "" {
			// Never push an empty segment: it would corrupt every descendant path.
			return
		}

		for len(stack) >= depth {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, name)
		path := strings.Join(stack, ".")

		cardinality := htmldoc.StrippedText(cells.Eq(2))
		structure[path] = Element{
			Path:        path,
			Cardinality: cardinality,
			Type:        htmldoc.StrippedText(cells.Eq(3)),
			Mandatory:   IsMandatory(cardinality),
		}
	})

	return structure
}

// markerDepth counts the hierarchy marker images in the row's name cell.
func markerDepth(nameCell *goquery.Selection) int {
	depth := 0
	nameCell.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && markerPattern.MatchString(src) {
			depth++
		}
	})
	return depth
}

// elementName resolves the row's local element name: the text of its hyperlink
// when one is present, otherwise the last non-empty text fragment of the cell.
func elementName(nameCell *goquery.Selection) string {
	if anchor := nameCell.Find("a").First(); anchor.Length() > 0 {
		return strings.TrimSpace(anchor.Text())
	}
	fragments := htmldoc.TextFragments(nameCell)
	if len(fragments) == 0 {
		return ""
	}
	return fragments[len(fragments)-1]
}
