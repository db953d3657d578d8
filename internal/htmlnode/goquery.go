package htmlnode

import (
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParseWithGoquery parses r into a goquery document.
func ParseWithGoquery(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return goqueryDocument{doc: doc}, nil
}

type goqueryDocument struct {
	doc *goquery.Document
}

func (d goqueryDocument) Root() Node {
	return goqueryNode{s: d.doc.Selection}
}

// goqueryNode adapts a single-node *goquery.Selection to Node.
type goqueryNode struct {
	s *goquery.Selection
}

func (g goqueryNode) Tag() string {
	if g.s.Length() == 0 || g.s.Get(0).Type != html.ElementNode {
		return ""
	}
	return goquery.NodeName(g.s)
}

func (g goqueryNode) Children() []Node {
	var children []Node
	g.s.Children().Each(func(_ int, c *goquery.Selection) {
		children = append(children, goqueryNode{s: c})
	})
	return children
}

func (g goqueryNode) Text() string {
	return g.s.Text()
}

func (g goqueryNode) Attr(key string) (string, bool) {
	return g.s.Attr(key)
}

func (g goqueryNode) Remove() {
	if g.s.Length() == 0 || g.s.Get(0).Parent == nil {
		return
	}
	g.s.Remove()
}
