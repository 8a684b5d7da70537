package radarr

import (
	"fmt"
	"strconv"
	"time"

	"golift.io/starr"
	"golift.io/starr/radarr"

	"github.com/s0up4200/mediarr/content"
)

// Normalize maps a Radarr movie onto a content item. When now is set the
// next release after it is reported in Detail.
func Normalize(m *radarr.Movie, source string, now time.Time) (content.Item, bool) {
	if m == nil || m.ID <= 0 || m.Title == "" {
		return content.Item{}, false
	}

	item := content.Item{
		ID:          strconv.FormatInt(m.ID, 10),
		Title:       m.Title,
		MediaType:   content.MediaTypeMovie,
		Year:        m.Year,
		PosterURL:   imageURL(m.Images, "poster"),
		BackdropURL: imageURL(m.Images, "fanart"),
		Overview:    content.ShortOverview(m.Overview),
		Source:      source,
		TMDBID:      m.TmdbID,
		Added:       m.Added,
	}

	if !now.IsZero() {
		if kind, at := nextRelease(m, now); !at.IsZero() {
			item.Release = at
			item.Detail = fmt.Sprintf("%s %s", kind, at.Format(time.DateOnly))
		}
	}
	return item, true
}

// nextRelease picks the earliest release date that is not before now
func nextRelease(m *radarr.Movie, now time.Time) (string, time.Time) {
	candidates := []struct {
		kind string
		at   time.Time
	}{
		{"In cinemas", m.InCinemas},
		{"Digital", m.DigitalRelease},
		{"Physical", m.PhysicalRelease},
	}

	var kind string
	var best time.Time
	cutoff := now.Truncate(24 * time.Hour)
	for _, c := range candidates {
		if c.at.IsZero() || c.at.Before(cutoff) {
			continue
		}
		if best.IsZero() || c.at.Before(best) {
			kind, best = c.kind, c.at
		}
	}
	return kind, best
}

func imageURL(images []*starr.Image, coverType string) string {
	for _, img := range images {
		if img == nil || img.CoverType != coverType {
			continue
		}
		if img.RemoteURL != "" {
			return img.RemoteURL
		}
	}
	return ""
}
