package plex

import (
	"fmt"
	"sort"
	"time"

	"github.com/s0up4200/mediarr/content"
)

// Entry is a recently added row after episodes are grouped per show.
// For a show group Metadata is the most recently added episode.
type Entry struct {
	Metadata
	Episodes int
}

// Group folds episodes of the same show into one entry and sorts the result
// by addedAt, newest first
func Group(entries []Metadata) []Entry {
	out := make([]Entry, 0, len(entries))
	shows := make(map[string]int)

	for _, m := range entries {
		if m.Type != "episode" {
			out = append(out, Entry{Metadata: m})
			continue
		}

		key := m.GrandparentRatingKey
		if key == "" {
			key = m.GrandparentTitle
		}
		idx, seen := shows[key]
		if !seen {
			shows[key] = len(out)
			out = append(out, Entry{Metadata: m, Episodes: 1})
			continue
		}
		out[idx].Episodes++
		if m.AddedAt > out[idx].AddedAt {
			out[idx].Metadata = m
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AddedAt > out[j].AddedAt
	})
	return out
}

// Normalize maps an entry onto a content item. Episodes and seasons become
// an item for their show; the show's TMDB id is left for the poster resolver
// because episode guids point at the episode.
func Normalize(e Entry, source string) (content.Item, bool) {
	item := content.Item{
		Source: source,
		Added:  e.AddedTime(),
	}

	switch e.Type {
	case "movie", "show":
		item.ID = e.RatingKey
		item.Title = e.Title
		item.Year = e.Year
		item.TMDBID = e.TMDBID()
		item.Overview = content.ShortOverview(e.Summary)
		item.Release = parseDate(e.OriginallyAvailableAt)
		item.MediaType = content.MediaTypeMovie
		if e.Type == "show" {
			item.MediaType = content.MediaTypeShow
		}
	case "episode":
		item.ID = firstNonEmpty(e.GrandparentRatingKey, e.RatingKey)
		item.Title = e.GrandparentTitle
		item.MediaType = content.MediaTypeShow
		if e.Episodes > 1 {
			item.Detail = fmt.Sprintf("%d new episodes (%s)", e.Episodes, e.EpisodeNumber())
		} else {
			item.Detail = e.EpisodeNumber()
			if e.Title != "" {
				item.Detail += " - " + e.Title
			}
		}
	case "season":
		item.ID = firstNonEmpty(e.ParentRatingKey, e.RatingKey)
		item.Title = e.ParentTitle
		item.MediaType = content.MediaTypeShow
		item.Detail = e.Title
	default:
		return content.Item{}, false
	}

	if item.ID == "" || item.Title == "" {
		return content.Item{}, false
	}
	return item, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
