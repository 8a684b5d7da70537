package seer

import (
	"strconv"

	"github.com/s0up4200/mediarr/content"
	"github.com/s0up4200/mediarr/tmdb"
)

// NormalizeDiscover maps a discovery result onto a content item.
// People and entries without an id or title are skipped.
func NormalizeDiscover(r DiscoverResult, source string) (content.Item, bool) {
	if r.ID <= 0 {
		return content.Item{}, false
	}

	var mediaType content.MediaType
	var title, date string
	switch r.MediaType {
	case MediaTypeMovie:
		mediaType, title, date = content.MediaTypeMovie, r.Title, r.ReleaseDate
	case MediaTypeTV:
		mediaType, title, date = content.MediaTypeShow, r.Name, r.FirstAirDate
	default:
		return content.Item{}, false
	}
	if title == "" {
		return content.Item{}, false
	}

	return content.Item{
		ID:            strconv.FormatInt(r.ID, 10),
		Title:         title,
		MediaType:     mediaType,
		Year:          content.YearFromDate(date),
		PosterURL:     tmdb.PosterURL(r.PosterPath),
		BackdropURL:   tmdb.BackdropURL(r.BackdropPath),
		GenreIDs:      r.GenreIDs,
		Language:      r.OriginalLanguage,
		Overview:      content.ShortOverview(r.Overview),
		Source:        source,
		RequestStatus: statusFromMedia(r.MediaInfo),
		TMDBID:        r.ID,
	}, true
}

// RequestEntry pairs a request with the details used to label it
type RequestEntry struct {
	Request MediaRequest
	Details *MediaDetails
}

// NormalizeRequest maps a request onto a content item keyed by the request id,
// which is what approve and deny expect. Requests whose details could not be
// loaded have no title and are skipped.
func NormalizeRequest(e RequestEntry, source string) (content.Item, bool) {
	if e.Request.ID <= 0 || e.Details == nil {
		return content.Item{}, false
	}
	title := e.Details.DisplayTitle()
	if title == "" {
		return content.Item{}, false
	}

	mediaType := content.MediaTypeMovie
	date := e.Details.ReleaseDate
	if e.Request.Type == MediaTypeTV {
		mediaType = content.MediaTypeShow
		date = e.Details.FirstAirDate
	}

	genres := make([]int, 0, len(e.Details.Genres))
	for _, g := range e.Details.Genres {
		genres = append(genres, g.ID)
	}

	var detail string
	if name := e.Request.RequestedBy.GetDisplayName(); name != "" {
		detail = "Requested by " + name
	}

	return content.Item{
		ID:            strconv.FormatInt(e.Request.ID, 10),
		Title:         title,
		MediaType:     mediaType,
		Year:          content.YearFromDate(date),
		PosterURL:     tmdb.PosterURL(e.Details.PosterPath),
		BackdropURL:   tmdb.BackdropURL(e.Details.BackdropPath),
		GenreIDs:      genres,
		Language:      e.Details.OriginalLanguage,
		Overview:      content.ShortOverview(e.Details.Overview),
		Source:        source,
		RequestStatus: statusFromRequest(e.Request),
		TMDBID:        e.Request.Media.TmdbID,
		Detail:        detail,
		Added:         e.Request.CreatedAt,
	}, true
}

func statusFromMedia(m *Media) content.RequestStatus {
	if m == nil {
		return content.RequestStatusNone
	}
	switch m.Status {
	case MediaStatusPending:
		return content.RequestStatusPending
	case MediaStatusProcessing:
		return content.RequestStatusApproved
	case MediaStatusPartiallyAvailable, MediaStatusAvailable:
		return content.RequestStatusAvailable
	default:
		return content.RequestStatusNone
	}
}

func statusFromRequest(r MediaRequest) content.RequestStatus {
	if r.Media.Status == MediaStatusAvailable || r.Status == RequestStatusCompleted {
		return content.RequestStatusAvailable
	}
	switch r.Status {
	case RequestStatusPending:
		return content.RequestStatusPending
	case RequestStatusApproved:
		return content.RequestStatusApproved
	default:
		return content.RequestStatusNone
	}
}
