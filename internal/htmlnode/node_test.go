package htmlnode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head><title>Sample</title><meta name="description" content="desc"></head>
<body>
<nav><a href="/nav">Nav</a></nav>
<div id="main">
<h1>Title</h1>
<p>First <b>bold</b> paragraph</p>
<ul><li>One</li><li>Two<ul><li>Nested</li></ul></li></ul>
<a href="/page">Page</a>
<a>no href</a>
</div>
<!-- a comment -->
</body>
</html>`

func backends() map[string]ParseFunc {
	return map[string]ParseFunc{
		BackendHTML:    Parse,
		BackendGoquery: ParseWithGoquery,
	}
}

func TestBackends(t *testing.T) {
	t.Parallel()

	for name, parse := range backends() {
		t.Run(name+" finds elements in document order", func(t *testing.T) {
			t.Parallel()

			doc, err := parse(strings.NewReader(sampleHTML))
			require.NoError(t, err)

			// The list nested inside the first item is found as well.
			nodes := FindAll(doc.Root(), "h1", "p", "ul")
			require.Len(t, nodes, 4)
			assert.Equal(t, "h1", nodes[0].Tag())
			assert.Equal(t, "p", nodes[1].Tag())
			assert.Equal(t, "ul", nodes[2].Tag())
			assert.Equal(t, "ul", nodes[3].Tag())
			assert.Equal(t, "Nested", nodes[3].Text())
		})

		t.Run(name+" returns descendant text without comments", func(t *testing.T) {
			t.Parallel()

			doc, err := parse(strings.NewReader(sampleHTML))
			require.NoError(t, err)

			p := Find(doc.Root(), HasTag("p"))
			require.NotNil(t, p)
			assert.Equal(t, "First bold paragraph", p.Text())
			assert.NotContains(t, doc.Root().Text(), "a comment")
		})

		t.Run(name+" reports attribute presence", func(t *testing.T) {
			t.Parallel()

			doc, err := parse(strings.NewReader(sampleHTML))
			require.NoError(t, err)

			anchors := FindAll(doc.Root(), "a")
			require.Len(t, anchors, 3)

			href, ok := anchors[1].Attr("href")
			assert.True(t, ok)
			assert.Equal(t, "/page", href)

			_, ok = anchors[2].Attr("href")
			assert.False(t, ok)
		})

		t.Run(name+" removes subtrees", func(t *testing.T) {
			t.Parallel()

			doc, err := parse(strings.NewReader(sampleHTML))
			require.NoError(t, err)

			for _, n := range FindAll(doc.Root(), "nav") {
				n.Remove()
			}

			assert.Empty(t, FindAll(doc.Root(), "nav"))
			assert.NotContains(t, doc.Root().Text(), "Nav")
			assert.Len(t, FindAll(doc.Root(), "a"), 2)
		})

		t.Run(name+" root has no tag and removing it is a no-op", func(t *testing.T) {
			t.Parallel()

			doc, err := parse(strings.NewReader(sampleHTML))
			require.NoError(t, err)

			root := doc.Root()
			assert.Empty(t, root.Tag())
			root.Remove()
			assert.NotEmpty(t, FindAll(doc.Root(), "p"))
		})

		t.Run(name+" finds element by id", func(t *testing.T) {
			t.Parallel()

			doc, err := parse(strings.NewReader(sampleHTML))
			require.NoError(t, err)

			content := Find(doc.Root(), HasAttr("id", "main"))
			require.NotNil(t, content)
			assert.Equal(t, "div", content.Tag())
			assert.Nil(t, Find(doc.Root(), HasTag("main")))
		})
	}
}

func TestParserFor(t *testing.T) {
	t.Parallel()

	t.Run("empty name selects the default backend", func(t *testing.T) {
		t.Parallel()

		parse, err := ParserFor("")
		require.NoError(t, err)
		assert.NotNil(t, parse)
	})

	t.Run("known names resolve", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{BackendHTML, BackendGoquery} {
			_, err := ParserFor(name)
			assert.NoError(t, err, name)
		}
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ParserFor("lxml")
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})
}
