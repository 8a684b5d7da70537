package radarr

import (
	"context"
	"time"

	"golift.io/starr/radarr"

	"github.com/s0up4200/mediarr/content"
)

// DefaultDaysToCheck is the calendar window when none is configured
const DefaultDaysToCheck = 60

// CalendarSource feeds a sensor with upcoming movie releases
type CalendarSource struct {
	Client *Client
	Days   int
	Label  string
	Now    func() time.Time
}

func (s *CalendarSource) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// FetchRaw retrieves the calendar window starting today
func (s *CalendarSource) FetchRaw(ctx context.Context) ([]*radarr.Movie, error) {
	days := s.Days
	if days <= 0 {
		days = DefaultDaysToCheck
	}

	movies, err := s.Client.Upcoming(ctx, s.now(), days)
	if err != nil {
		return nil, content.NewFetchError(s.Label, "calendar", err)
	}
	return movies, nil
}

// Normalize implements the sensor source contract
func (s *CalendarSource) Normalize(m *radarr.Movie) (content.Item, bool) {
	return Normalize(m, s.Label, s.now())
}

// LibraryItems lists every movie for library matching
func (c *Client) LibraryItems(ctx context.Context) ([]content.Item, error) {
	movies, err := c.GetAllMovies(ctx)
	if err != nil {
		return nil, content.NewFetchError("radarr", "library", err)
	}

	items := make([]content.Item, 0, len(movies))
	for _, m := range movies {
		if item, ok := Normalize(m, "radarr", time.Time{}); ok {
			items = append(items, item)
		}
	}
	return items, nil
}
