package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/sitescrape/internal/model"
)

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func fixedClock() time.Time {
	return fixedTime
}

func words(n int, word string) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path) //nolint:gosec // test reads its own output
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// splitFile separates a written file into its header and page blocks.
func splitFile(t *testing.T, body string) (string, []string) {
	t.Helper()

	idx := strings.Index(body, headerRule+"\n")
	if idx < 0 {
		t.Fatalf("file has no header rule: %q", body)
	}
	end := idx + len(headerRule) + 1
	header, rest := body[:end], body[end:]

	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "\n"), "\n")
	if rest == "" {
		return header, nil
	}

	parts := strings.Split(rest, "\n\nKÄLLA: ")
	for i := 1; i < len(parts); i++ {
		parts[i] = "KÄLLA: " + parts[i]
	}
	return header, parts
}

func TestChunkedWriter(t *testing.T) {
	t.Parallel()

	t.Run("oversized page gets a file of its own", func(t *testing.T) {
		t.Parallel()

		store := model.NewContentStore()
		store.Append(model.PageRecord{URL: "https://example.com", Depth: 0, Content: words(600000, "ord")})
		store.Append(model.PageRecord{URL: "https://example.com/liten", Depth: 1, Content: words(10, "kort")})

		w := NewChunkedWriter(t.TempDir(), WithClock(fixedClock))
		result, err := w.Write(store, Summary{BaseURL: "https://example.com", PagesVisited: 2, MaxDepth: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Files) != 2 {
			t.Fatalf("expected 2 files, got %d", len(result.Files))
		}

		header1, blocks1 := splitFile(t, readFile(t, result.Files[0]))
		header2, blocks2 := splitFile(t, readFile(t, result.Files[1]))

		if header1 != header2 {
			t.Error("every file must start with the same header")
		}
		if !strings.Contains(header1, "Innehållet är uppdelat på 2 filer\n") {
			t.Errorf("expected split note, got header:\n%s", header1)
		}
		if !strings.Contains(header1, "Totalt antal ord: 600 010\n") {
			t.Errorf("expected grouped total, got header:\n%s", header1)
		}
		if len(blocks1) != 1 || !strings.HasPrefix(blocks1[0], "KÄLLA: https://example.com\nDJUP: 0\n") {
			t.Errorf("expected the large page alone in file 1, got %d blocks", len(blocks1))
		}
		if len(blocks2) != 1 || !strings.HasPrefix(blocks2[0], "KÄLLA: https://example.com/liten\nDJUP: 1\n") {
			t.Errorf("expected the small page in file 2, got %v", blocks2)
		}
	})

	t.Run("small crawl fits one file", func(t *testing.T) {
		t.Parallel()

		store := model.NewContentStore()
		store.Append(model.PageRecord{URL: "https://example.com", Depth: 0, Content: "# Hem\n\nVälkommen hit"})

		w := NewChunkedWriter(t.TempDir(), WithClock(fixedClock))
		result, err := w.Write(store, Summary{BaseURL: "https://example.com", PagesVisited: 1, MaxDepth: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "Skrapning av: https://example.com\n" +
			"Tidpunkt: 20240102_030405\n" +
			"Antal skrapade sidor: 1\n" +
			"Skrapningsdjup: 10\n" +
			"Totalt antal ord: 4\n" +
			"All data i en fil\n" +
			"-------------------\n" +
			"\n" +
			"KÄLLA: https://example.com\n" +
			"DJUP: 0\n" +
			"# Hem\n\nVälkommen hit\n"

		if len(result.Files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(result.Files))
		}
		if got := readFile(t, result.Files[0]); got != want {
			t.Errorf("unexpected file content:\n%q\nwant:\n%q", got, want)
		}
		if result.TotalWords != 4 {
			t.Errorf("expected 4 words, got %d", result.TotalWords)
		}
	})

	t.Run("single page above the limit keeps the one file note", func(t *testing.T) {
		t.Parallel()

		store := model.NewContentStore()
		store.Append(model.PageRecord{URL: "https://example.com", Depth: 0, Content: words(150, "ord")})

		w := NewChunkedWriter(t.TempDir(), WithClock(fixedClock), WithWordLimit(100))
		result, err := w.Write(store, Summary{BaseURL: "https://example.com", PagesVisited: 1, MaxDepth: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(result.Files))
		}
		header, _ := splitFile(t, readFile(t, result.Files[0]))
		if !strings.Contains(header, "All data i en fil\n") {
			t.Errorf("expected one file note, got header:\n%s", header)
		}
	})

	t.Run("split caused by block prefixes is reported in the note", func(t *testing.T) {
		t.Parallel()

		// 90 content words stay under the limit, but the header (21 words)
		// and two 49-word blocks do not.
		store := model.NewContentStore()
		store.Append(model.PageRecord{URL: "https://example.com", Depth: 0, Content: words(45, "a")})
		store.Append(model.PageRecord{URL: "https://example.com/b", Depth: 1, Content: words(45, "b")})

		w := NewChunkedWriter(t.TempDir(), WithClock(fixedClock), WithWordLimit(100))
		result, err := w.Write(store, Summary{BaseURL: "https://example.com", PagesVisited: 2, MaxDepth: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.TotalWords != 90 {
			t.Errorf("expected 90 words, got %d", result.TotalWords)
		}
		if len(result.Files) != 2 {
			t.Fatalf("expected 2 files, got %d", len(result.Files))
		}
		for _, path := range result.Files {
			header, _ := splitFile(t, readFile(t, path))
			if !strings.Contains(header, "Innehållet är uppdelat på 2 filer\n") {
				t.Errorf("expected split note in %s, got header:\n%s", filepath.Base(path), header)
			}
		}
	})

	t.Run("blocks are conserved across files in output order", func(t *testing.T) {
		t.Parallel()

		store := model.NewContentStore()
		// Appended out of depth order on purpose.
		store.Append(model.PageRecord{URL: "https://example.com/b", Depth: 1, Content: words(25, "b")})
		store.Append(model.PageRecord{URL: "https://example.com", Depth: 0, Content: words(5, "start")})
		store.Append(model.PageRecord{URL: "https://example.com/c", Depth: 1, Content: words(60, "c")})
		store.Append(model.PageRecord{URL: "https://example.com/b/1", Depth: 2, Content: words(8, "d")})
		store.Append(model.PageRecord{URL: "https://example.com/b/2", Depth: 2, Content: "first\n\nsecond"})

		const limit = 50
		w := NewChunkedWriter(t.TempDir(), WithClock(fixedClock), WithWordLimit(limit))
		result, err := w.Write(store, Summary{BaseURL: "https://example.com", PagesVisited: 5, MaxDepth: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got []string
		for i, path := range result.Files {
			if want := fmt.Sprintf("scraped_content_%d.txt", i+1); filepath.Base(path) != want {
				t.Errorf("expected file name %s, got %s", want, filepath.Base(path))
			}

			header, blocks := splitFile(t, readFile(t, path))
			if len(blocks) == 0 {
				t.Errorf("file %s holds no page", path)
			}
			if !strings.Contains(header, fmt.Sprintf("Innehållet är uppdelat på %d filer", len(result.Files))) {
				t.Errorf("header does not name the actual file count:\n%s", header)
			}

			// Only a lone block may push a file past the limit.
			count := model.CountWords(header)
			for _, b := range blocks {
				count += model.CountWords(b)
			}
			if len(blocks) > 1 && count > limit {
				t.Errorf("file %s has %d words over the limit with %d blocks", path, count, len(blocks))
			}
			got = append(got, blocks...)
		}

		var want []string
		for _, rec := range store.Records() {
			want = append(want, FormatBlock(rec))
		}
		if !slices.Equal(got, want) {
			t.Errorf("blocks not conserved:\ngot  %q\nwant %q", got, want)
		}
		if len(result.Files) < 3 {
			t.Errorf("expected the content to be split, got %d files", len(result.Files))
		}
	})

	t.Run("creates the run directory from the host and timestamp", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		w := NewChunkedWriter(filepath.Join(root, "scraped_content"), WithClock(fixedClock))
		result, err := w.Write(model.NewContentStore(), Summary{BaseURL: "https://www.example.se/start", MaxDepth: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantDir := filepath.Join(root, "scraped_content", "www_example_se_20240102_030405")
		if result.Dir != wantDir {
			t.Errorf("expected dir %s, got %s", wantDir, result.Dir)
		}
		if result.Timestamp != "20240102_030405" {
			t.Errorf("unexpected timestamp %q", result.Timestamp)
		}

		if len(result.Files) != 1 {
			t.Fatalf("expected a header-only file, got %d files", len(result.Files))
		}
		info, err := os.Stat(result.Files[0])
		if err != nil {
			t.Fatalf("failed to stat file: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}

		_, blocks := splitFile(t, readFile(t, result.Files[0]))
		if len(blocks) != 0 {
			t.Errorf("expected no blocks, got %v", blocks)
		}
	})

	t.Run("rejects base URL without host", func(t *testing.T) {
		t.Parallel()

		w := NewChunkedWriter(t.TempDir())
		_, err := w.Write(model.NewContentStore(), Summary{BaseURL: "not a url"})
		if !errors.Is(err, ErrInvalidBaseURL) {
			t.Errorf("expected ErrInvalidBaseURL, got %v", err)
		}
	})
}

func TestDirName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		want string
	}{
		{"example.com", "example_com_20240102_030405"},
		{"www.example.co.uk", "www_example_co_uk_20240102_030405"},
		{"127.0.0.1:8080", "127_0_0_1_8080_20240102_030405"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			t.Parallel()

			if got := DirName(tt.host, "20240102_030405"); got != tt.want {
				t.Errorf("DirName(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}
