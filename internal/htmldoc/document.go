// Package htmldoc wraps a parsed HTML page behind the handful of queries the
// inspection extractor needs.
package htmldoc

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is used when the caller passes an empty encoding name.
const DefaultEncoding = "utf-8"

// cleanCutset is stripped from both ends of cell text.
const cleanCutset = " \n:-"

// Document is a parsed, read-only HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse decodes raw using the named character encoding and parses it.
// Malformed markup is parsed best-effort and never fails; only an unknown
// encoding name is an error.
func Parse(raw []byte, encoding string) (*Document, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, eris.Wrapf(err, "htmldoc: unsupported encoding %q", encoding)
	}

	doc, err := goquery.NewDocumentFromReader(enc.NewDecoder().Reader(bytes.NewReader(raw)))
	if err != nil {
		return nil, eris.Wrap(err, "htmldoc: parse")
	}
	return &Document{doc: doc}, nil
}

// Supported reports whether encoding names a character encoding Parse can
// decode.
func Supported(encoding string) bool {
	_, err := htmlindex.Get(encoding)
	return err == nil
}

// Root returns the document node.
func (d *Document) Root() Node {
	return Node{sel: d.doc.Selection}
}

// Node is a single element (or the document root) inside a Document.
type Node struct {
	sel *goquery.Selection
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, Node{sel: s})
	})
	return nodes
}

// Tag returns the lower-case element name, or "" for non-element nodes.
func (n Node) Tag() string {
	if n.sel == nil || len(n.sel.Nodes) == 0 || n.sel.Nodes[0].Type != html.ElementNode {
		return ""
	}
	return goquery.NodeName(n.sel)
}

// Attr returns the value of the named attribute.
func (n Node) Attr(name string) (string, bool) {
	if n.sel == nil {
		return "", false
	}
	return n.sel.Attr(name)
}

// ID returns the id attribute, or "".
func (n Node) ID() string {
	id, _ := n.Attr("id")
	return id
}

// FindAllMatching returns every descendant tag element whose attr value
// contains a match of pattern, in document order.
func (n Node) FindAllMatching(tag, attr string, pattern *regexp.Regexp) []Node {
	if n.sel == nil {
		return nil
	}
	matched := n.sel.Find(tag + "[" + attr + "]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr(attr)
		return pattern.MatchString(v)
	})
	return wrap(matched)
}

// FindFirst returns the first descendant tag element whose attr equals value.
func (n Node) FindFirst(tag, attr, value string) (Node, bool) {
	if n.sel == nil {
		return Node{}, false
	}
	found := n.sel.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr(attr)
		return ok && v == value
	}).First()
	if found.Length() == 0 {
		return Node{}, false
	}
	return Node{sel: found}, true
}

// FindFirstTag returns the first descendant element named tag.
func (n Node) FindFirstTag(tag string) (Node, bool) {
	if n.sel == nil {
		return Node{}, false
	}
	found := n.sel.Find(tag).First()
	if found.Length() == 0 {
		return Node{}, false
	}
	return Node{sel: found}, true
}

// Children returns the direct element children named tag. Nested
// descendants are never included.
func (n Node) Children(tag string) []Node {
	if n.sel == nil {
		return nil
	}
	return wrap(n.sel.ChildrenFiltered(tag))
}

// Descendants returns every descendant element named tag, in document order.
func (n Node) Descendants(tag string) []Node {
	if n.sel == nil {
		return nil
	}
	return wrap(n.sel.Find(tag))
}

// Text returns the concatenated text of the node and its descendants.
func (n Node) Text() string {
	if n.sel == nil {
		return ""
	}
	return n.sel.Text()
}

// CleanText returns Clean(n.Text()).
func (n Node) CleanText() string {
	return Clean(n.Text())
}

// Clean strips spaces, newlines, colons and hyphens from both ends of s.
// Interior occurrences and other whitespace are kept.
func Clean(s string) string {
	return strings.Trim(s, cleanCutset)
}
