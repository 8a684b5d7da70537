package content

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Truncate returns the first n items of the list in their original order.
// n <= 0 means no limit.
func Truncate(items []Item, n int) []Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n:n]
}

// Dedupe drops later items whose Key was already seen, keeping order
func Dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

const overviewLimit = 100

// ShortOverview cuts an overview down for display, marking the cut with "..."
func ShortOverview(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= overviewLimit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:overviewLimit-3])) + "..."
}

// YearFromDate extracts the year from "2006-01-02"-style dates. Returns 0 when unparseable.
func YearFromDate(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}
