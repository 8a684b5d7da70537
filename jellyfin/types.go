package jellyfin

import (
	"strconv"
	"time"
)

// Item types returned by the API
const (
	TypeMovie   = "Movie"
	TypeSeries  = "Series"
	TypeSeason  = "Season"
	TypeEpisode = "Episode"
)

// Item is the subset of BaseItemDto the sensors use
type Item struct {
	ID                    string            `json:"Id"`
	Name                  string            `json:"Name"`
	Type                  string            `json:"Type"`
	ProductionYear        int               `json:"ProductionYear,omitempty"`
	Overview              string            `json:"Overview,omitempty"`
	Genres                []string          `json:"Genres,omitempty"`
	ProviderIDs           map[string]string `json:"ProviderIds,omitempty"`
	SeriesID              string            `json:"SeriesId,omitempty"`
	SeriesName            string            `json:"SeriesName,omitempty"`
	SeriesPrimaryImageTag string            `json:"SeriesPrimaryImageTag,omitempty"`
	ParentIndexNumber     int               `json:"ParentIndexNumber,omitempty"`
	IndexNumber           int               `json:"IndexNumber,omitempty"`
	ChildCount            int               `json:"ChildCount,omitempty"`
	DateCreated           time.Time         `json:"DateCreated,omitzero"`
	PremiereDate          time.Time         `json:"PremiereDate,omitzero"`
	ImageTags             map[string]string `json:"ImageTags,omitempty"`
	BackdropImageTags     []string          `json:"BackdropImageTags,omitempty"`
}

// ItemsResponse is the envelope of /Items
type ItemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
}

// TMDBID returns the Tmdb provider id, or 0
func (i Item) TMDBID() int64 {
	id, err := strconv.ParseInt(i.ProviderIDs["Tmdb"], 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
