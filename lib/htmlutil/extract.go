package htmlutil

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type queryKind int

const (
	kindNode queryKind = iota
	kindText
	kindAttr
)

// Query says what to pull out of the first node a selector matches.
type Query struct {
	kind queryKind
	attr string
}

var (
	// Node resolves to the matched node itself.
	Node = Query{kind: kindNode}
	// Text resolves to the combined text of the matched node.
	Text = Query{kind: kindText}
)

// Attr resolves to the named attribute of the matched node, it is absent when
// the node doesn't carry the attribute.
func Attr(name string) Query {
	return Query{kind: kindAttr, attr: name}
}

// Value is the result of a single-node query, it is either present or absent.
type Value struct {
	present bool
	text    string
}

func (v Value) Present() bool {
	return v.present
}

// String returns the text or attribute value.
func (v Value) String() (string, bool) {
	return v.text, v.present
}

func (v Value) OrEmpty() string {
	return v.text
}

// Ptr returns the raw value or absent.
func (v Value) Ptr() *string {
	if !v.present {
		return nil
	}
	text := v.text
	return &text
}

// Extractor runs selector queries over a document or fragment, turning every
// kind of miss (no match, malformed selector, missing attribute) into an
// absent value or an empty list instead of a fault.
type Extractor struct {
	sel *goquery.Selection
}

func FromDocument(doc *goquery.Document) Extractor {
	if doc == nil {
		return Extractor{}
	}
	return Extractor{sel: doc.Selection}
}

func (e Extractor) find(selector string) (found *goquery.Selection) {
	if e.sel == nil || selector == "" {
		return nil
	}
	// goquery ignores invalid selectors, this guards the rest of the
	// matcher machinery all the same
	defer func() {
		if recover() != nil {
			found = nil
		}
	}()
	return e.sel.Find(selector)
}

// One resolves q against the first node matching selector.
func (e Extractor) One(selector string, q Query) Value {
	found := e.find(selector)
	if found == nil || found.Length() == 0 {
		return Value{}
	}
	first := found.First()
	return resolve(first, q)
}

// Node returns the extractor's root node, nil when it matches nothing.
func (e Extractor) Node() *html.Node {
	if e.sel == nil || e.sel.Length() == 0 {
		return nil
	}
	return e.sel.Get(0)
}

// Self resolves q against the extractor's own root node.
func (e Extractor) Self(q Query) Value {
	if e.sel == nil || e.sel.Length() == 0 {
		return Value{}
	}
	return resolve(e.sel.First(), q)
}

func resolve(node *goquery.Selection, q Query) Value {
	switch q.kind {
	case kindText:
		return Value{present: true, text: node.Text()}
	case kindAttr:
		val, ok := node.Attr(q.attr)
		if !ok {
			return Value{}
		}
		return Value{present: true, text: val}
	default:
		return Value{present: true}
	}
}

// Has reports whether selector matches anything.
func (e Extractor) Has(selector string) bool {
	return e.One(selector, Node).Present()
}

// All returns an extractor per node matching selector, never nil.
func (e Extractor) All(selector string) []Extractor {
	found := e.find(selector)
	if found == nil {
		return []Extractor{}
	}
	out := make([]Extractor, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Extractor{sel: s})
	})
	return out
}

// AllValues resolves q against every node matching selector, nodes for which q
// is absent are skipped.
func (e Extractor) AllValues(selector string, q Query) []string {
	out := []string{}
	for _, item := range e.All(selector) {
		if text, ok := item.Self(q).String(); ok {
			out = append(out, text)
		}
	}
	return out
}
