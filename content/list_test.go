package content

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func makeItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: fmt.Sprint(i), Title: fmt.Sprintf("Item %d", i), Source: "test"}
	}
	return items
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		n     int
		want  int
	}{
		{name: "max items 2 of 5", items: makeItems(5), n: 2, want: 2},
		{name: "limit larger than list", items: makeItems(3), n: 10, want: 3},
		{name: "zero means unlimited", items: makeItems(4), n: 0, want: 4},
		{name: "empty list", items: nil, n: 3, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.items, tt.n)
			assert.Len(t, got, tt.want)
			if diff := cmp.Diff(tt.items[:tt.want], got); tt.want > 0 && diff != "" {
				t.Errorf("Truncate() prefix mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTruncateIdempotent(t *testing.T) {
	items := makeItems(7)
	for n := 0; n <= 8; n++ {
		once := Truncate(items, n)
		twice := Truncate(once, n)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("n=%d: truncate not idempotent (-once +twice):\n%s", n, diff)
		}
	}
}

func TestTruncateDoesNotExposeTail(t *testing.T) {
	items := makeItems(5)
	got := Truncate(items, 2)
	got = append(got, Item{ID: "new"})
	assert.Equal(t, "2", items[2].ID, "appending to a truncated list must not overwrite the source")
}

func TestDedupe(t *testing.T) {
	items := []Item{
		{ID: "1", Source: "tmdb", TMDBID: 10, MediaType: MediaTypeMovie},
		{ID: "2", Source: "tmdb", TMDBID: 11, MediaType: MediaTypeMovie},
		{ID: "3", Source: "tmdb", TMDBID: 10, MediaType: MediaTypeMovie},
		{ID: "4", Source: "tmdb", TMDBID: 10, MediaType: MediaTypeShow},
		{ID: "5", Source: "plex"},
		{ID: "5", Source: "plex"},
	}

	got := Dedupe(items)
	ids := make([]string, len(got))
	for i, item := range got {
		ids[i] = item.ID
	}
	assert.Equal(t, []string{"1", "2", "4", "5"}, ids)
}

func TestShortOverview(t *testing.T) {
	assert.Equal(t, "short", ShortOverview("  short "))

	long := strings.Repeat("a", 150)
	got := ShortOverview(long)
	assert.Equal(t, 100, len(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	exact := strings.Repeat("b", 100)
	assert.Equal(t, exact, ShortOverview(exact))
}

func TestYearFromDate(t *testing.T) {
	tests := map[string]int{
		"2021-05-01":           2021,
		"1999":                 1999,
		"2020-01-01T00:00:00Z": 2020,
		"":                     0,
		"soon":                 0,
		"20":                   0,
	}
	for in, want := range tests {
		assert.Equal(t, want, YearFromDate(in), "input %q", in)
	}
}

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		in   string
		want MediaType
		ok   bool
	}{
		{"movie", MediaTypeMovie, true},
		{"TV", MediaTypeShow, true},
		{"Series", MediaTypeShow, true},
		{"episode", MediaTypeShow, true},
		{"person", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMediaType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
