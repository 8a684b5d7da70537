package sonarr

import (
	"context"
	"time"

	"golift.io/starr/sonarr"

	"github.com/s0up4200/mediarr/content"
)

// DefaultDaysToCheck is the calendar window when none is configured
const DefaultDaysToCheck = 60

// CalendarSource feeds a sensor with upcoming episodes
type CalendarSource struct {
	Client *Client
	Days   int
	Label  string
	Now    func() time.Time
}

// FetchRaw retrieves the calendar window starting now
func (s *CalendarSource) FetchRaw(ctx context.Context) ([]*sonarr.Episode, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	days := s.Days
	if days <= 0 {
		days = DefaultDaysToCheck
	}

	episodes, err := s.Client.Upcoming(ctx, now(), days)
	if err != nil {
		return nil, content.NewFetchError(s.Label, "calendar", err)
	}
	return episodes, nil
}

// Normalize implements the sensor source contract
func (s *CalendarSource) Normalize(e *sonarr.Episode) (content.Item, bool) {
	return NormalizeEpisode(e, s.Label)
}

// LibraryItems lists every series for library matching
func (c *Client) LibraryItems(ctx context.Context) ([]content.Item, error) {
	series, err := c.GetAllSeries(ctx)
	if err != nil {
		return nil, content.NewFetchError("sonarr", "library", err)
	}

	items := make([]content.Item, 0, len(series))
	for _, s := range series {
		if item, ok := NormalizeSeries(s, "sonarr"); ok {
			items = append(items, item)
		}
	}
	return items, nil
}
