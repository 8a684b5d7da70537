package jellyfin

import (
	"fmt"

	"github.com/s0up4200/mediarr/content"
)

// ImageFunc builds an image URL from an item id and image tag
type ImageFunc func(itemID, tag string) string

// Normalize maps a Jellyfin item onto a content item. Episodes and seasons
// are reported as their series.
func Normalize(i Item, source string, image ImageFunc) (content.Item, bool) {
	item := content.Item{
		Source: source,
		Added:  i.DateCreated,
	}

	switch i.Type {
	case TypeMovie, TypeSeries:
		item.ID = i.ID
		item.Title = i.Name
		item.Year = i.ProductionYear
		item.Overview = content.ShortOverview(i.Overview)
		item.TMDBID = i.TMDBID()
		item.Release = i.PremiereDate
		item.MediaType = content.MediaTypeMovie
		if i.Type == TypeSeries {
			item.MediaType = content.MediaTypeShow
			if i.ChildCount > 1 {
				item.Detail = fmt.Sprintf("%d new episodes", i.ChildCount)
			}
		}
		if image != nil {
			item.PosterURL = image(i.ID, i.ImageTags["Primary"])
		}
	case TypeEpisode, TypeSeason:
		item.ID = i.SeriesID
		item.Title = i.SeriesName
		item.MediaType = content.MediaTypeShow
		if i.Type == TypeEpisode {
			item.Detail = fmt.Sprintf("S%02dE%02d - %s", i.ParentIndexNumber, i.IndexNumber, i.Name)
		} else {
			item.Detail = i.Name
		}
		if image != nil {
			item.PosterURL = image(i.SeriesID, i.SeriesPrimaryImageTag)
		}
	default:
		return content.Item{}, false
	}

	if item.ID == "" || item.Title == "" {
		return content.Item{}, false
	}
	return item, true
}
