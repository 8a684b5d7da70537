package trakt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/s0up4200/mediarr/content"
)

// ListSource feeds a sensor from one Trakt list
type ListSource struct {
	Client *Client
	Kind   Kind
	List   ListType
	Limit  int
	Label  string
}

// FetchRaw retrieves the list
func (s *ListSource) FetchRaw(ctx context.Context) ([]Entry, error) {
	entries, err := s.Client.List(ctx, s.Kind, s.List, s.Limit)
	if err != nil {
		return nil, content.NewFetchError(s.Label, string(s.Kind)+"/"+string(s.List), err)
	}
	return entries, nil
}

// Normalize implements the sensor source contract
func (s *ListSource) Normalize(e Entry) (content.Item, bool) {
	return Normalize(e, s.Label)
}

// Normalize maps a list entry onto a content item keyed by the Trakt id.
// Trakt has no artwork; the poster resolver fills it from ids.tmdb.
func Normalize(e Entry, source string) (content.Item, bool) {
	m := e.Media
	if m.Title == "" || m.IDs.Trakt <= 0 {
		return content.Item{}, false
	}

	item := content.Item{
		ID:       strconv.Itoa(m.IDs.Trakt),
		Title:    m.Title,
		Year:     m.Year,
		Overview: content.ShortOverview(m.Overview),
		Language: strings.ToLower(m.Language),
		Source:   source,
		TMDBID:   m.IDs.TMDB,
	}

	if e.Kind == KindShows {
		item.MediaType = content.MediaTypeShow
	} else {
		item.MediaType = content.MediaTypeMovie
	}

	switch {
	case e.Watchers > 0:
		item.Detail = fmt.Sprintf("%d watching", e.Watchers)
	case e.ListCount > 0:
		item.Detail = fmt.Sprintf("on %d lists", e.ListCount)
	}
	return item, true
}
