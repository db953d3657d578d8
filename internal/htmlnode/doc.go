// Package htmlnode defines the small HTML tree interface the extractor and
// the crawler work against, together with two parsing backends.
//
// # Backends
//
//   - Parse: golang.org/x/net/html node tree (default)
//   - ParseWithGoquery: github.com/PuerkitoBio/goquery selections
//
// Both backends expose element nodes only through Children, while Text
// returns the concatenated text of every descendant text node. Extraction
// output is identical for the same input regardless of the backend.
//
// # Usage
//
//	doc, err := htmlnode.Parse(strings.NewReader(body))
//	if err != nil {
//		return err
//	}
//	for _, a := range htmlnode.FindAll(doc.Root(), "a") {
//		href, ok := a.Attr("href")
//		...
//	}
package htmlnode
