package model

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCount formats n with its thousands grouped by single spaces,
// e.g. 1234567 becomes "1 234 567".
func FormatCount(n int) string {
	// English grouping uses ',' which is then swapped for a plain space.
	p := message.NewPrinter(language.English)
	return strings.ReplaceAll(p.Sprintf("%d", n), ",", " ")
}
