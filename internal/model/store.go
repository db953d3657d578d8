package model

import (
	"maps"
	"slices"
)

// ContentStore holds page records grouped by depth.
// Within a depth, records keep insertion order, which is discovery order.
// Only the crawl engine appends; everything else reads.
type ContentStore struct {
	buckets map[int][]PageRecord
	count   int
}

// NewContentStore returns an empty store.
func NewContentStore() *ContentStore {
	return &ContentStore{
		buckets: make(map[int][]PageRecord),
	}
}

// Append adds rec to the bucket for rec.Depth.
func (s *ContentStore) Append(rec PageRecord) {
	s.buckets[rec.Depth] = append(s.buckets[rec.Depth], rec)
	s.count++
}

// Depths returns the depths that hold at least one record, ascending.
func (s *ContentStore) Depths() []int {
	return slices.Sorted(maps.Keys(s.buckets))
}

// Pages returns a copy of the records stored at depth.
func (s *ContentStore) Pages(depth int) []PageRecord {
	return slices.Clone(s.buckets[depth])
}

// Records returns every record, depth ascending, then insertion order.
func (s *ContentStore) Records() []PageRecord {
	records := make([]PageRecord, 0, s.count)
	for _, depth := range s.Depths() {
		records = append(records, s.buckets[depth]...)
	}
	return records
}

// Len returns the total number of records.
func (s *ContentStore) Len() int {
	return s.count
}

// TotalWords returns the sum of the word counts of all records.
func (s *ContentStore) TotalWords() int {
	total := 0
	for _, pages := range s.buckets {
		for _, p := range pages {
			total += p.WordCount()
		}
	}
	return total
}
