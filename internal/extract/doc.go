// Package extract flattens a parsed HTML page into ordered plain text.
//
// The output is a sequence of blocks separated by a blank line: an optional
// "BESKRIVNING: ..." block from the meta description, then headings
// rendered with leading '#' characters, paragraphs, and one "- " block per
// top-level list item, all in document order.
package extract
