package crawler

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/nao1215/sitescrape/internal/htmlnode"
)

// parsedPage is what the engine keeps from one fetched page.
type parsedPage struct {
	// content is the extracted text, possibly empty.
	content string

	// links are the resolved anchor targets in document order.
	links []string

	// unresolved counts hrefs that failed to parse.
	unresolved int
}

// parsePage parses resp, extracts its text and then collects the anchors
// left in the document. A panic anywhere in parsing or extraction is
// returned as ErrPageFault.
func (s *Spider) parsePage(pageURL string, resp *Response) (page *parsedPage, err error) {
	defer func() {
		if r := recover(); r != nil {
			page = nil
			err = fmt.Errorf("%w: %v", ErrPageFault, r)
		}
	}()

	doc, err := s.parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Extraction removes page chrome first, so anchors in nav, header and
	// footer are not discovered.
	content := s.extractor.Extract(doc)

	links, unresolved, err := discoverLinks(doc, pageURL)
	if err != nil {
		return nil, err
	}

	return &parsedPage{
		content:    content,
		links:      links,
		unresolved: unresolved,
	}, nil
}

// discoverLinks returns the href of every <a> element that has one,
// resolved against pageURL, in document order. Hrefs that do not parse are
// skipped and counted.
func discoverLinks(doc htmlnode.Document, pageURL string) ([]string, int, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid page URL: %w", err)
	}

	var links []string
	unresolved := 0
	for _, a := range htmlnode.FindAll(doc.Root(), "a") {
		href, ok := a.Attr("href")
		if !ok {
			continue
		}
		link, err := ResolveLink(base, href)
		if err != nil {
			unresolved++
			continue
		}
		links = append(links, link)
	}

	return links, unresolved, nil
}
