package merger

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IDRewriter handles namespace isolation of a document fragment: every
// internal identifier is rewritten with a disambiguating prefix so two
// independently authored fragments can coexist in one document.
type IDRewriter struct {
	prefix string
	idMap  map[string]string // original identifier → prefixed identifier
}

// NewIDRewriter creates a rewriter for the given prefix.
func NewIDRewriter(prefix string) *IDRewriter {
	return &IDRewriter{
		prefix: prefix,
		idMap:  make(map[string]string),
	}
}

// valueReadPattern matches reads of an input's live value in inline handlers,
// together with an optional lowercasing call already present.
var valueReadPattern = regexp.MustCompile(`(this\.value|event\.target\.value)(\s*\.\s*toLowerCase\s*\(\s*\))?`)

// Rewrite isolates the fragment in place and returns the identifier map. The
// caller owns the fragment: deep-copy it before calling if the source document
// must stay untouched.
//
// Prefixing is injective, so distinct identifiers never collide after
// isolation, and every same-document link resolvable before isolation still
// resolves afterwards.
func (r *IDRewriter) Rewrite(fragment *goquery.Selection) map[string]string {
	// Element ids and anchor names share one namespace: both can be targets
	// of same-document links.
	fragment.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		original, _ := s.Attr("id")
		prefixed := r.prefix + original
		r.idMap[original] = prefixed
		s.SetAttr("id", prefixed)
	})

	fragment.Find("a[name]").Each(func(_ int, s *goquery.Selection) {
		original, _ := s.Attr("name")
		prefixed := r.prefix + original
		r.idMap[original] = prefixed
		s.SetAttr("name", prefixed)
	})

	r.rewriteHandlers(fragment)
	r.rewriteLinks(fragment)

	return r.idMap
}

// rewriteHandlers updates inline event-handler attributes: value reads get a
// lowercasing call appended so comparisons stay case-insensitive after the
// merge, and identifier tokens are replaced with their prefixed forms.
func (r *IDRewriter) rewriteHandlers(fragment *goquery.Selection) {
	fragment.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		for i, attr := range node.Attr {
			if !strings.HasPrefix(strings.ToLower(attr.Key), "on") {
				continue
			}
			node.Attr[i].Val = r.rewriteHandler(attr.Val)
		}
	})
}

// rewriteHandler applies the two independent handler rewrites to one
// attribute value.
func (r *IDRewriter) rewriteHandler(handler string) string {
	if handler == "" {
		return handler
	}

	handler = valueReadPattern.ReplaceAllStringFunc(handler, func(match string) string {
		groups := valueReadPattern.FindStringSubmatch(match)
		if groups[2] != "" {
			// Already lowercased.
			return match
		}
		return match + ".toLowerCase()"
	})

	// Only exact token matches bounded by quotes or spaces are replaced, so
	// identifiers that happen to be substrings of other tokens stay intact.
	// Sorted iteration keeps the rewrite deterministic.
	for _, original := range sortedKeys(r.idMap) {
		prefixed := r.idMap[original]
		handler = strings.ReplaceAll(handler, "'"+original+"'", "'"+prefixed+"'")
		handler = strings.ReplaceAll(handler, `"`+original+`"`, `"`+prefixed+`"`)
		handler = strings.ReplaceAll(handler, " "+original+" ", " "+prefixed+" ")
	}
	return handler
}

// rewriteLinks repoints same-document links whose target was prefixed.
func (r *IDRewriter) rewriteLinks(fragment *goquery.Selection) {
	fragment.Find(`a[href^="#"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		target := strings.TrimPrefix(href, "#")
		if target == "" {
			return
		}
		if prefixed, ok := r.idMap[target]; ok {
			s.SetAttr("href", "#"+prefixed)
		}
	})
}

// Isolate rewrites all internal identifiers of the fragment with the given
// prefix and returns the identifier map. Convenience wrapper around
// NewIDRewriter.
func Isolate(fragment *goquery.Selection, prefix string) map[string]string {
	return NewIDRewriter(prefix).Rewrite(fragment)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
