package htmlnode

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse parses r with golang.org/x/net/html.
func Parse(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return xnetDocument{root: root}, nil
}

type xnetDocument struct {
	root *html.Node
}

func (d xnetDocument) Root() Node {
	return xnetNode{n: d.root}
}

// xnetNode adapts *html.Node to Node.
type xnetNode struct {
	n *html.Node
}

func (x xnetNode) Tag() string {
	if x.n.Type != html.ElementNode {
		return ""
	}
	return x.n.Data
}

func (x xnetNode) Children() []Node {
	var children []Node
	for c := x.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, xnetNode{n: c})
		}
	}
	return children
}

func (x xnetNode) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(x.n)
	return sb.String()
}

func (x xnetNode) Attr(key string) (string, bool) {
	for _, attr := range x.n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func (x xnetNode) Remove() {
	if x.n.Parent != nil {
		x.n.Parent.RemoveChild(x.n)
	}
}
