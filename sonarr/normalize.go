package sonarr

import (
	"fmt"
	"strconv"

	"golift.io/starr"
	"golift.io/starr/sonarr"

	"github.com/s0up4200/mediarr/content"
)

// NormalizeEpisode maps an upcoming episode onto an item for its series.
// Episodes without series data carry no title and are skipped.
func NormalizeEpisode(e *sonarr.Episode, source string) (content.Item, bool) {
	if e == nil || e.ID <= 0 || e.Series == nil || e.Series.Title == "" {
		return content.Item{}, false
	}

	detail := fmt.Sprintf("S%02dE%02d", e.SeasonNumber, e.EpisodeNumber)
	if e.Title != "" {
		detail += " - " + e.Title
	}

	return content.Item{
		ID:          strconv.FormatInt(e.ID, 10),
		Title:       e.Series.Title,
		MediaType:   content.MediaTypeShow,
		Year:        e.Series.Year,
		PosterURL:   imageURL(e.Series.Images, "poster"),
		BackdropURL: imageURL(e.Series.Images, "fanart"),
		Overview:    content.ShortOverview(e.Overview),
		Source:      source,
		Detail:      detail,
		Release:     e.AirDateUtc,
	}, true
}

// NormalizeSeries maps a library series onto a content item
func NormalizeSeries(s *sonarr.Series, source string) (content.Item, bool) {
	if s == nil || s.ID <= 0 || s.Title == "" {
		return content.Item{}, false
	}
	return content.Item{
		ID:        strconv.FormatInt(s.ID, 10),
		Title:     s.Title,
		MediaType: content.MediaTypeShow,
		Year:      s.Year,
		PosterURL: imageURL(s.Images, "poster"),
		Overview:  content.ShortOverview(s.Overview),
		Source:    source,
	}, true
}

func imageURL(images []*starr.Image, coverType string) string {
	for _, img := range images {
		if img != nil && img.CoverType == coverType && img.RemoteURL != "" {
			return img.RemoteURL
		}
	}
	return ""
}
