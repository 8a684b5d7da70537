package tmdb

import (
	"context"
	"strconv"

	"github.com/s0up4200/mediarr/content"
)

// Lister is the part of Client a list sensor needs
type Lister interface {
	List(ctx context.Context, list ListType) ([]Result, error)
}

// ListSource feeds a sensor from one TMDB list
type ListSource struct {
	Client Lister
	List   ListType
	Label  string
}

// FetchRaw retrieves the list
func (s *ListSource) FetchRaw(ctx context.Context) ([]Result, error) {
	results, err := s.Client.List(ctx, s.List)
	if err != nil {
		return nil, content.NewFetchError(s.Label, string(s.List), err)
	}
	return results, nil
}

// Normalize implements the sensor source contract
func (s *ListSource) Normalize(r Result) (content.Item, bool) {
	return NormalizeResult(r, s.Label)
}

// NormalizeResult maps a list entry onto a content item. People, unknown
// media types and entries without an id or title are skipped.
func NormalizeResult(r Result, source string) (content.Item, bool) {
	if r.ID <= 0 {
		return content.Item{}, false
	}

	var mediaType content.MediaType
	var title, date string
	switch r.MediaType {
	case "movie":
		mediaType, title, date = content.MediaTypeMovie, r.Title, r.ReleaseDate
	case "tv":
		mediaType, title, date = content.MediaTypeShow, r.Name, r.FirstAirDate
	default:
		return content.Item{}, false
	}
	if title == "" {
		return content.Item{}, false
	}

	return content.Item{
		ID:          strconv.FormatInt(r.ID, 10),
		Title:       title,
		MediaType:   mediaType,
		Year:        content.YearFromDate(date),
		PosterURL:   PosterURL(r.PosterPath),
		BackdropURL: BackdropURL(r.BackdropPath),
		GenreIDs:    r.GenreIDs,
		Language:    r.OriginalLanguage,
		Overview:    content.ShortOverview(r.Overview),
		Source:      source,
		TMDBID:      r.ID,
	}, true
}
