package plex

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Section types that hold video
const (
	SectionMovie = "movie"
	SectionShow  = "show"
)

// Directory is a library section
type Directory struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// Tag is a Plex tag entry (genre, guid, ...)
type Tag struct {
	ID  string `json:"id,omitempty"`
	Tag string `json:"tag,omitempty"`
}

// Metadata is one library entry: a movie, show, season or episode
type Metadata struct {
	RatingKey             string `json:"ratingKey"`
	GUID                  string `json:"guid"`
	Type                  string `json:"type"`
	Title                 string `json:"title"`
	Year                  int    `json:"year,omitempty"`
	Summary               string `json:"summary,omitempty"`
	OriginallyAvailableAt string `json:"originallyAvailableAt,omitempty"`
	AddedAt               int64  `json:"addedAt"`
	Index                 int    `json:"index,omitempty"`
	ParentIndex           int    `json:"parentIndex,omitempty"`
	ParentRatingKey       string `json:"parentRatingKey,omitempty"`
	ParentTitle           string `json:"parentTitle,omitempty"`
	GrandparentRatingKey  string `json:"grandparentRatingKey,omitempty"`
	GrandparentTitle      string `json:"grandparentTitle,omitempty"`
	Guids                 []Tag  `json:"Guid,omitempty"`
	Genres                []Tag  `json:"Genre,omitempty"`
}

// MediaContainer wraps every Plex JSON response
type MediaContainer struct {
	MediaContainer struct {
		Size      int         `json:"size"`
		Directory []Directory `json:"Directory,omitempty"`
		Metadata  []Metadata  `json:"Metadata,omitempty"`
	} `json:"MediaContainer"`
}

// AddedTime converts the addedAt epoch
func (m Metadata) AddedTime() time.Time {
	if m.AddedAt <= 0 {
		return time.Time{}
	}
	return time.Unix(m.AddedAt, 0)
}

// EpisodeNumber formats the episode as SxxEyy
func (m Metadata) EpisodeNumber() string {
	return fmt.Sprintf("S%02dE%02d", m.ParentIndex, m.Index)
}

var tmdbGUIDPrefixes = []string{"tmdb://", "themoviedb://"}

// TMDBID extracts the TMDB id from the entry's guids. Both the current agent
// form (tmdb://123) and the legacy one (com.plexapp.agents.themoviedb://123?lang=en)
// are understood.
func (m Metadata) TMDBID() int64 {
	candidates := make([]string, 0, len(m.Guids)+1)
	for _, g := range m.Guids {
		candidates = append(candidates, g.ID)
	}
	candidates = append(candidates, m.GUID)

	for _, guid := range candidates {
		for _, prefix := range tmdbGUIDPrefixes {
			_, rest, ok := strings.Cut(guid, prefix)
			if !ok {
				continue
			}
			rest, _, _ = strings.Cut(rest, "?")
			if id, err := strconv.ParseInt(rest, 10, 64); err == nil && id > 0 {
				return id
			}
		}
	}
	return 0
}
