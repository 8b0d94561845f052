// Package htmldoc loads, queries, and serializes the HTML pages produced by the
// IG publisher. It wraps goquery for selection and mutation and exposes the
// small set of document operations the rest of igdiff needs: region lookup by
// element id, fragment parsing, and round-trip serialization.
package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/fhirtools/igdiff/igerrors"
)

// Document is a parsed HTML page.
//
// A Document is owned exclusively by the processing of one artifact and is not
// safe for concurrent mutation.
type Document struct {
	doc  *goquery.Document
	path string
}

// Load reads and parses the HTML document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &igerrors.DocumentError{Path: path, Cause: err}
	}
	d, err := ParseBytes(data)
	if err != nil {
		return nil, &igerrors.DocumentError{Path: path, Message: "invalid HTML", Cause: err}
	}
	d.path = path
	return d, nil
}

// Parse parses an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &igerrors.DocumentError{Message: "invalid HTML", Cause: err}
	}
	return &Document{doc: gq}, nil
}

// ParseBytes parses an HTML document from an in-memory buffer.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Path returns the file path the document was loaded from, if any.
func (d *Document) Path() string {
	return d.path
}

// Find returns the selection matching the given CSS selector.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Region returns the div carrying the given element id. The returned selection
// is empty when the page has no such region, which is a normal case: not every
// artifact page has every region.
func (d *Document) Region(id string) *goquery.Selection {
	return d.doc.Find(fmt.Sprintf(`div[id=%q]`, id))
}

// Render serializes the document to w.
func (d *Document) Render(w io.Writer) error {
	for _, node := range d.doc.Nodes {
		if err := html.Render(w, node); err != nil {
			return fmt.Errorf("rendering document: %w", err)
		}
	}
	return nil
}

// HTML returns the serialized document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile serializes the document to the given path, replacing any existing
// file.
func (d *Document) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &igerrors.DocumentError{Path: path, Message: "writing document", Cause: err}
	}
	return nil
}

// NameAndDescription extracts the artifact's display name and description from
// a StructureDefinition page. The publisher renders the name as "Resource
// Profile: <name>" in the root heading and the description as the second
// paragraph of the main column. Pages that deviate from that layout get
// placeholder values rather than an error.
func (d *Document) NameAndDescription() (name, description string) {
	name = "Unknown"
	description = "No description found."

	heading := d.doc.Find(`h2[id="root"]`).First()
	if heading.Length() > 0 {
		if parts := strings.SplitN(heading.Text(), ":", 2); len(parts) == 2 {
			name = parts[1]
		}
	}

	paragraphs := d.doc.Find("div.col-12").First().Find("p")
	if paragraphs.Length() >= 2 {
		description = paragraphs.Eq(1).Text()
	}
	return name, description
}

// ParseFragment parses an HTML fragment in body context and returns its nodes.
func ParseFragment(fragment string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, &igerrors.DocumentError{Message: "invalid HTML fragment", Cause: err}
	}
	return nodes, nil
}

// FragmentElement parses an HTML fragment and returns its first element node,
// skipping inter-element whitespace.
func FragmentElement(fragment string) (*html.Node, error) {
	nodes, err := ParseFragment(fragment)
	if err != nil {
		return nil, err
	}
	for _, node := range nodes {
		if node.Type == html.ElementNode {
			return node, nil
		}
	}
	return nil, &igerrors.DocumentError{Message: "fragment contains no element"}
}

// TextFragments returns the trimmed, non-empty text segments of the selection
// in document order.
func TextFragments(s *goquery.Selection) []string {
	var fragments []string
	for _, node := range s.Nodes {
		collectText(node, &fragments)
	}
	return fragments
}

// StrippedText returns the selection's text with each segment trimmed and all
// segments concatenated, mirroring how cell contents read once inter-tag
// whitespace is dropped.
func StrippedText(s *goquery.Selection) string {
	return strings.Join(TextFragments(s), "")
}

func collectText(node *html.Node, out *[]string) {
	if node.Type == html.TextNode {
		if text := strings.TrimSpace(node.Data); text != "" {
			*out = append(*out, text)
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, out)
	}
}
