package content

import (
	"strconv"
	"strings"
	"time"
)

// MediaType is the normalized kind of a content item
type MediaType string

const (
	// MediaTypeMovie represents a movie
	MediaTypeMovie MediaType = "movie"
	// MediaTypeShow represents a TV show
	MediaTypeShow MediaType = "show"
)

// ParseMediaType maps provider spellings ("tv", "series", "episode", ...) onto a MediaType
func ParseMediaType(s string) (MediaType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies", "film":
		return MediaTypeMovie, true
	case "show", "shows", "tv", "series", "episode", "season":
		return MediaTypeShow, true
	default:
		return "", false
	}
}

// IsMovie checks if the media type is a movie
func (mt MediaType) IsMovie() bool {
	return mt == MediaTypeMovie
}

// RequestStatus is the Seer request state of an item
type RequestStatus string

const (
	RequestStatusNone      RequestStatus = "none"
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusAvailable RequestStatus = "available"
)

// Item is the normalized record every provider is mapped onto.
// Items are built once per fetch cycle and never mutated afterwards.
type Item struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	MediaType     MediaType     `json:"media_type"`
	Year          int           `json:"year,omitempty"`
	PosterURL     string        `json:"poster_url,omitempty"`
	BackdropURL   string        `json:"backdrop_url,omitempty"`
	GenreIDs      []int         `json:"genre_ids,omitempty"`
	Language      string        `json:"language,omitempty"`
	Overview      string        `json:"overview,omitempty"`
	Source        string        `json:"source"`
	RequestStatus RequestStatus `json:"request_status"`
	TMDBID        int64         `json:"tmdb_id,omitempty"`
	Detail        string        `json:"detail,omitempty"`
	Added         time.Time     `json:"added,omitzero"`
	Release       time.Time     `json:"release,omitzero"`
}

// HasGenre reports whether the item is tagged with the given genre id
func (i Item) HasGenre(id int) bool {
	for _, g := range i.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// Key identifies an item across providers for deduplication
func (i Item) Key() string {
	if i.TMDBID > 0 {
		return string(i.MediaType) + ":tmdb:" + strconv.FormatInt(i.TMDBID, 10)
	}
	return i.Source + ":" + i.ID
}
