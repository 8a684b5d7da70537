package trakt

import (
	"encoding/json"
	"fmt"
)

// Kind selects movies or shows
type Kind string

const (
	KindMovies Kind = "movies"
	KindShows  Kind = "shows"
)

// ListType selects the public list
type ListType string

const (
	ListTrending    ListType = "trending"
	ListPopular     ListType = "popular"
	ListAnticipated ListType = "anticipated"
)

// ParseKind validates a configured media_type. Empty means movies.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "movie", "movies":
		return KindMovies, nil
	case "show", "shows", "tv":
		return KindShows, nil
	default:
		return "", fmt.Errorf("unknown trakt media type %q", s)
	}
}

// ParseListType validates a configured trending_type. Empty means trending.
func ParseListType(s string) (ListType, error) {
	switch ListType(s) {
	case "":
		return ListTrending, nil
	case ListTrending, ListPopular, ListAnticipated:
		return ListType(s), nil
	default:
		return "", fmt.Errorf("unknown trakt list %q", s)
	}
}

// IDs holds external identifiers for a media item
type IDs struct {
	Trakt int    `json:"trakt,omitempty"`
	Slug  string `json:"slug,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int64  `json:"tmdb,omitempty"`
	TVDB  int    `json:"tvdb,omitempty"`
}

// Media is a movie or show with extended=full fields
type Media struct {
	Title      string   `json:"title"`
	Year       int      `json:"year"`
	IDs        IDs      `json:"ids"`
	Overview   string   `json:"overview,omitempty"`
	Language   string   `json:"language,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Released   string   `json:"released,omitempty"`
	FirstAired string   `json:"first_aired,omitempty"`
}

// Entry is one row of a list. Trending and anticipated rows wrap the media
// with a counter; popular rows are the bare media.
type Entry struct {
	Kind      Kind
	Media     Media
	Watchers  int
	ListCount int
}

type wrappedEntry struct {
	Watchers  int    `json:"watchers"`
	ListCount int    `json:"list_count"`
	Movie     *Media `json:"movie"`
	Show      *Media `json:"show"`
}

// decodeEntries handles both row shapes
func decodeEntries(kind Kind, body []byte) ([]Entry, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		var w wrappedEntry
		if err := json.Unmarshal(row, &w); err != nil {
			return nil, fmt.Errorf("failed to decode entry: %w", err)
		}

		e := Entry{Kind: kind, Watchers: w.Watchers, ListCount: w.ListCount}
		switch {
		case w.Movie != nil:
			e.Media = *w.Movie
		case w.Show != nil:
			e.Media = *w.Show
		default:
			if err := json.Unmarshal(row, &e.Media); err != nil {
				return nil, fmt.Errorf("failed to decode entry: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}
