package extract

import (
	"strings"

	"github.com/nao1215/sitescrape/internal/htmlnode"
)

// DescriptionPrefix starts the block emitted for a meta description.
const DescriptionPrefix = "BESKRIVNING: "

// blockSeparator joins emitted blocks.
const blockSeparator = "\n\n"

// removedTags are page chrome and non-content elements whose subtrees never
// contribute text.
var removedTags = []string{"script", "style", "nav", "footer", "header", "iframe", "noscript"}

// blockTags are the elements walked inside the content root.
var blockTags = []string{"h1", "h2", "h3", "h4", "h5", "h6", "p", "ul", "ol"}

// Extractor turns an HTML document into structured plain text.
// It holds no state, so one value may be shared by every page of a crawl.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract removes non-content elements from doc and returns its text
// blocks joined by a blank line. The document is modified in place: links
// inside removed elements are gone afterwards.
func (e *Extractor) Extract(doc htmlnode.Document) string {
	root := doc.Root()

	for _, n := range htmlnode.FindAll(root, removedTags...) {
		n.Remove()
	}

	var blocks []string

	if meta := htmlnode.Find(root, isDescriptionMeta); meta != nil {
		if content, _ := meta.Attr("content"); content != "" {
			blocks = append(blocks, DescriptionPrefix+content)
		}
	}

	for _, n := range htmlnode.FindAll(contentRoot(root), blockTags...) {
		blocks = append(blocks, renderBlock(n)...)
	}

	return strings.Join(blocks, blockSeparator)
}

// contentRoot prefers <main>, then the element with id "main", then the
// whole document.
func contentRoot(root htmlnode.Node) htmlnode.Node {
	if n := htmlnode.Find(root, htmlnode.HasTag("main")); n != nil {
		return n
	}
	if n := htmlnode.Find(root, htmlnode.HasAttr("id", "main")); n != nil {
		return n
	}
	return root
}

func isDescriptionMeta(n htmlnode.Node) bool {
	if n.Tag() != "meta" {
		return false
	}
	name, ok := n.Attr("name")
	return ok && name == "description"
}

// renderBlock returns the blocks a single walked element contributes.
func renderBlock(n htmlnode.Node) []string {
	tag := n.Tag()
	switch tag {
	case "ul", "ol":
		var items []string
		for _, li := range n.Children() {
			if li.Tag() != "li" {
				continue
			}
			if text := strings.TrimSpace(li.Text()); text != "" {
				items = append(items, "- "+text)
			}
		}
		return items
	case "p":
		if text := strings.TrimSpace(n.Text()); text != "" {
			return []string{text}
		}
	default:
		// h1..h6
		level := int(tag[1] - '0')
		if text := strings.TrimSpace(n.Text()); text != "" {
			return []string{strings.Repeat("#", level) + " " + text}
		}
	}
	return nil
}
