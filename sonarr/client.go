package sonarr

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/sonarr"
)

// Client wraps the starr Sonarr client
type Client struct {
	api    SonarrAPI
	logger zerolog.Logger
}

// NewClient creates a new Sonarr client without contacting the server
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	if url == "" || apiKey == "" {
		return nil, fmt.Errorf("sonarr url and api_key are required")
	}
	return NewClientWithAPI(sonarr.New(starr.New(apiKey, url, 30*time.Second)), logger), nil
}

// NewClientWithAPI creates a new Sonarr client with a custom API implementation (for testing)
func NewClientWithAPI(api SonarrAPI, logger zerolog.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// TestConnection pings the server
func (c *Client) TestConnection(ctx context.Context) error {
	if err := c.api.Ping(); err != nil {
		return fmt.Errorf("failed to connect to Sonarr: %w", err)
	}
	return nil
}

// GetAllSeries retrieves every series
func (c *Client) GetAllSeries(ctx context.Context) ([]*sonarr.Series, error) {
	series, err := c.api.GetAllSeriesContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get series: %w", err)
	}

	c.logger.Debug().Msgf("Retrieved %d series from Sonarr", len(series))
	return series, nil
}

// Upcoming retrieves monitored episodes airing between from and from+days,
// with their series attached
func (c *Client) Upcoming(ctx context.Context, from time.Time, days int) ([]*sonarr.Episode, error) {
	episodes, err := c.api.GetCalendarContext(ctx, sonarr.Calendar{
		Start:         from,
		End:           from.AddDate(0, 0, days),
		IncludeSeries: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	c.logger.Debug().Int("days", days).Msgf("Retrieved %d upcoming episodes from Sonarr", len(episodes))
	return episodes, nil
}
