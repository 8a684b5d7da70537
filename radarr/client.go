package radarr

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"
)

// Client wraps the starr Radarr client
type Client struct {
	api    RadarrAPI
	logger zerolog.Logger
}

// NewClient creates a new Radarr client. The connection is checked by
// TestConnection, not here, so an offline server does not block startup.
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	if url == "" || apiKey == "" {
		return nil, fmt.Errorf("radarr url and api_key are required")
	}
	config := starr.New(apiKey, url, 30*time.Second)
	return NewClientWithAPI(radarr.New(config), logger), nil
}

// NewClientWithAPI creates a new Radarr client with a custom API implementation (for testing)
func NewClientWithAPI(api RadarrAPI, logger zerolog.Logger) *Client {
	return &Client{
		api:    api,
		logger: logger,
	}
}

// TestConnection pings the server
func (c *Client) TestConnection(ctx context.Context) error {
	if err := c.api.Ping(); err != nil {
		return fmt.Errorf("failed to connect to Radarr: %w", err)
	}
	return nil
}

// GetAllMovies retrieves all movies from Radarr
func (c *Client) GetAllMovies(ctx context.Context) ([]*radarr.Movie, error) {
	movies, err := c.api.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	c.logger.Debug().Msgf("Retrieved %d movies from Radarr", len(movies))
	return movies, nil
}

// Upcoming retrieves monitored movies with a release between from and from+days
func (c *Client) Upcoming(ctx context.Context, from time.Time, days int) ([]*radarr.Movie, error) {
	movies, err := c.api.GetCalendarContext(ctx, radarr.Calendar{
		Start: from,
		End:   from.AddDate(0, 0, days),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	c.logger.Debug().Int("days", days).Msgf("Retrieved %d upcoming movies from Radarr", len(movies))
	return movies, nil
}
