package database

// PageDiff lists how the stored pages of a site changed between two runs.
type PageDiff struct {
	// Added are URLs stored only in the newer run.
	Added []string `json:"added"`

	// Removed are URLs stored only in the older run.
	Removed []string `json:"removed"`

	// Changed are URLs stored in both runs with different text.
	Changed []string `json:"changed"`

	// Unchanged is the number of URLs whose text is identical in both runs.
	Unchanged int `json:"unchanged"`
}

// HasChanges reports whether any page was added, removed or changed.
func (d *PageDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// ComparePages compares the pages of an older and a newer run by URL and
// content hash. Added and Changed keep the newer run's order, Removed keeps
// the older run's order.
func ComparePages(older, newer []PageSummary) *PageDiff {
	oldHashes := make(map[string]string, len(older))
	for _, p := range older {
		oldHashes[p.URL] = p.ContentHash
	}

	diff := &PageDiff{
		Added:   []string{},
		Removed: []string{},
		Changed: []string{},
	}

	seen := make(map[string]bool, len(newer))
	for _, p := range newer {
		seen[p.URL] = true
		oldHash, ok := oldHashes[p.URL]
		switch {
		case !ok:
			diff.Added = append(diff.Added, p.URL)
		case oldHash != p.ContentHash:
			diff.Changed = append(diff.Changed, p.URL)
		default:
			diff.Unchanged++
		}
	}

	for _, p := range older {
		if !seen[p.URL] {
			diff.Removed = append(diff.Removed, p.URL)
		}
	}

	return diff
}
