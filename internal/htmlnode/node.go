package htmlnode

import (
	"errors"
	"fmt"
	"io"
)

// Backend names accepted by ParserFor.
const (
	// BackendHTML selects the golang.org/x/net/html tree.
	BackendHTML = "html"

	// BackendGoquery selects the goquery selection backend.
	BackendGoquery = "goquery"
)

// ErrUnknownBackend is returned by ParserFor for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown html parser backend")

// Node is a single node of a parsed HTML tree.
//
// Design decision: The interface only carries the five capabilities the
// extractor needs. Keeping it this narrow means a new backend is a small
// adapter and the extractor never sees backend types.
type Node interface {
	// Tag returns the lower-case element name, or "" for non-element nodes
	// such as the document root.
	Tag() string

	// Children returns the element children in document order.
	Children() []Node

	// Text returns the text of all descendant text nodes, unmodified.
	Text() string

	// Attr returns the value of the named attribute and whether it is present.
	Attr(key string) (string, bool)

	// Remove detaches the node (and its subtree) from the tree.
	// Removing a detached node or the root is a no-op.
	Remove()
}

// Document is a parsed HTML document.
type Document interface {
	// Root returns the document node.
	Root() Node
}

// ParseFunc parses an HTML document from r.
type ParseFunc func(r io.Reader) (Document, error)

// ParserFor returns the parse function for the named backend.
// An empty name selects BackendHTML.
func ParserFor(backend string) (ParseFunc, error) {
	switch backend {
	case "", BackendHTML:
		return Parse, nil
	case BackendGoquery:
		return ParseWithGoquery, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// FindAll returns every descendant of root (root itself excluded) whose tag
// is one of tags, in document order.
func FindAll(root Node, tags ...string) []Node {
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}

	var found []Node
	var walk func(Node)
	walk = func(n Node) {
		for _, c := range n.Children() {
			if want[c.Tag()] {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(root)

	return found
}

// Find returns the first descendant of root in document order for which
// match returns true, or nil.
func Find(root Node, match func(Node) bool) Node {
	for _, c := range root.Children() {
		if match(c) {
			return c
		}
		if n := Find(c, match); n != nil {
			return n
		}
	}
	return nil
}

// HasTag returns a matcher for Find that selects elements by tag name.
func HasTag(tag string) func(Node) bool {
	return func(n Node) bool {
		return n.Tag() == tag
	}
}

// HasAttr returns a matcher for Find that selects elements whose attribute
// key equals value.
func HasAttr(key, value string) func(Node) bool {
	return func(n Node) bool {
		v, ok := n.Attr(key)
		return ok && v == value
	}
}
