package radarr

import (
	"context"

	"golift.io/starr/radarr"
)

// RadarrAPI defines the Radarr API operations the sensors use
type RadarrAPI interface {
	// Library
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)

	// Upcoming releases
	GetCalendarContext(ctx context.Context, filter radarr.Calendar) ([]*radarr.Movie, error)

	// Health check
	Ping() error
}
