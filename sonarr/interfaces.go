package sonarr

import (
	"context"

	"golift.io/starr/sonarr"
)

// SonarrAPI defines the Sonarr API operations the sensors use
type SonarrAPI interface {
	GetAllSeriesContext(ctx context.Context) ([]*sonarr.Series, error)
	GetCalendarContext(ctx context.Context, filter sonarr.Calendar) ([]*sonarr.Episode, error)
	Ping() error
}
