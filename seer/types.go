package seer

import (
	"fmt"
	"time"
)

// RequestStatus represents the status of a media request
type RequestStatus int

const (
	// RequestStatusUnknown represents an unknown request status
	RequestStatusUnknown RequestStatus = iota
	// RequestStatusPending indicates a request awaiting approval
	RequestStatusPending
	// RequestStatusApproved indicates an approved request
	RequestStatusApproved
	// RequestStatusDeclined indicates a declined request
	RequestStatusDeclined
	// RequestStatusFailed indicates a request the download client rejected
	RequestStatusFailed
	// RequestStatusCompleted indicates a fulfilled request
	RequestStatusCompleted
)

// String returns the string representation of a RequestStatus
func (rs RequestStatus) String() string {
	switch rs {
	case RequestStatusPending:
		return "PENDING"
	case RequestStatusApproved:
		return "APPROVED"
	case RequestStatusDeclined:
		return "DECLINED"
	case RequestStatusFailed:
		return "FAILED"
	case RequestStatusCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// MediaStatus is the availability of a title on the media server
type MediaStatus int

const (
	MediaStatusUnknown MediaStatus = iota + 1
	MediaStatusPending
	MediaStatusProcessing
	MediaStatusPartiallyAvailable
	MediaStatusAvailable
)

// String returns the string representation of a MediaStatus
func (ms MediaStatus) String() string {
	switch ms {
	case MediaStatusPending:
		return "PENDING"
	case MediaStatusProcessing:
		return "PROCESSING"
	case MediaStatusPartiallyAvailable:
		return "PARTIALLY_AVAILABLE"
	case MediaStatusAvailable:
		return "AVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// MediaType represents the type of media
type MediaType string

const (
	// MediaTypeMovie represents a movie
	MediaTypeMovie MediaType = "movie"
	// MediaTypeTV represents a TV show
	MediaTypeTV MediaType = "tv"
	// MediaTypePerson shows up in trending results and is never a content item
	MediaTypePerson MediaType = "person"
)

// IsMovie checks if the media type is a movie
func (mt MediaType) IsMovie() bool {
	return mt == MediaTypeMovie
}

// ParseMediaType accepts "movie", "movies", "tv", "show" and "shows"
func ParseMediaType(s string) (MediaType, error) {
	switch s {
	case "movie", "movies":
		return MediaTypeMovie, nil
	case "tv", "show", "shows", "series":
		return MediaTypeTV, nil
	default:
		return "", fmt.Errorf("unknown media type %q", s)
	}
}

// DiscoverList names a Seer discovery endpoint
type DiscoverList string

const (
	DiscoverTrending      DiscoverList = "trending"
	DiscoverPopularMovies DiscoverList = "popular_movies"
	DiscoverPopularTV     DiscoverList = "popular_tv"
	DiscoverMovies        DiscoverList = "movies"
	DiscoverTV            DiscoverList = "tv"
)

// User represents a Seer user
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username,omitempty"`
	PlexUsername string `json:"plexUsername,omitempty"`
	DisplayName  string `json:"displayName"`
	Avatar       string `json:"avatar,omitempty"`
}

// GetDisplayName returns the best available display name for the user
func (u *User) GetDisplayName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != "" {
		return u.Username
	}
	if u.PlexUsername != "" {
		return u.PlexUsername
	}
	return u.Email
}

// Media represents media information attached to requests and discover results
type Media struct {
	ID        int         `json:"id"`
	TmdbID    int64       `json:"tmdbId"`
	TvdbID    int64       `json:"tvdbId,omitempty"`
	Status    MediaStatus `json:"status"`
	Status4k  MediaStatus `json:"status4k"`
	MediaType MediaType   `json:"mediaType"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// MediaRequest represents a media request in Seer
type MediaRequest struct {
	ID            int64         `json:"id"`
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	Type          MediaType     `json:"type"`
	Is4k          bool          `json:"is4k"`
	IsAutoRequest bool          `json:"isAutoRequest"`
	RequestedBy   User          `json:"requestedBy"`
	ModifiedBy    *User         `json:"modifiedBy,omitempty"`
	Media         Media         `json:"media"`
	SeasonCount   int           `json:"seasonCount,omitempty"`
}

// IsMovieRequest checks if this is a movie request
func (mr *MediaRequest) IsMovieRequest() bool {
	return mr.Type.IsMovie()
}

// GetApprover returns the user who approved the request, if available
func (mr *MediaRequest) GetApprover() *User {
	if mr.ModifiedBy != nil && (mr.Status == RequestStatusApproved || mr.Status == RequestStatusCompleted) {
		return mr.ModifiedBy
	}
	return nil
}

// RequestsResponse represents the paginated response from the requests endpoint
type RequestsResponse struct {
	PageInfo PageInfo       `json:"pageInfo"`
	Results  []MediaRequest `json:"results"`
}

// HasMorePages checks if there are more pages to fetch
func (rr *RequestsResponse) HasMorePages() bool {
	return rr.PageInfo.Page < rr.PageInfo.Pages
}

// PageInfo contains pagination information
type PageInfo struct {
	Pages    int `json:"pages"`
	PageSize int `json:"pageSize"`
	Results  int `json:"results"`
	Page     int `json:"page"`
}

// NextPage returns the next page number, or an error if there are no more pages
func (pi *PageInfo) NextPage() (int, error) {
	if pi.Page >= pi.Pages {
		return 0, fmt.Errorf("no more pages available")
	}
	return pi.Page + 1, nil
}

// DiscoverResult is one entry of a discovery list
type DiscoverResult struct {
	ID               int64     `json:"id"`
	MediaType        MediaType `json:"mediaType"`
	Title            string    `json:"title,omitempty"`
	Name             string    `json:"name,omitempty"`
	ReleaseDate      string    `json:"releaseDate,omitempty"`
	FirstAirDate     string    `json:"firstAirDate,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	BackdropPath     string    `json:"backdropPath,omitempty"`
	GenreIDs         []int     `json:"genreIds,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	Popularity       float64   `json:"popularity,omitempty"`
	VoteAverage      float64   `json:"voteAverage,omitempty"`
	MediaInfo        *Media    `json:"mediaInfo,omitempty"`
}

// DiscoverResponse is one page of a discovery list
type DiscoverResponse struct {
	Page         int              `json:"page"`
	TotalPages   int              `json:"totalPages"`
	TotalResults int              `json:"totalResults"`
	Results      []DiscoverResult `json:"results"`
}

// Genre is a TMDB genre as reported by Seer
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MediaDetails is the subset of /movie/{id} and /tv/{id} used to label requests
type MediaDetails struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	ReleaseDate      string  `json:"releaseDate,omitempty"`
	FirstAirDate     string  `json:"firstAirDate,omitempty"`
	PosterPath       string  `json:"posterPath,omitempty"`
	BackdropPath     string  `json:"backdropPath,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	OriginalLanguage string  `json:"originalLanguage,omitempty"`
	Genres           []Genre `json:"genres,omitempty"`
	MediaInfo        *Media  `json:"mediaInfo,omitempty"`
}

// DisplayTitle returns the movie title or the show name
func (d *MediaDetails) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// createRequestBody is the payload for POST /request
type createRequestBody struct {
	MediaType MediaType `json:"mediaType"`
	MediaID   int64     `json:"mediaId"`
	Seasons   string    `json:"seasons,omitempty"`
}
