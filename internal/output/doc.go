// Package output writes crawled page text to disk.
//
// ChunkedWriter drains a model.ContentStore into one or more plain-text
// files under a fresh timestamped directory. Every file starts with the
// same Swedish summary header, followed by one block per page:
//
//	KÄLLA: https://example.com/om
//	DJUP: 1
//	<extracted text>
//
// A new file is started before a block would push the running word count
// of the current file past the word limit. The limit is soft: a single
// block larger than the limit still gets a file of its own.
package output
