package tmdb

// ListType names a TMDB list a sensor can follow
type ListType string

const (
	ListTrending      ListType = "trending"
	ListNowPlaying    ListType = "now_playing"
	ListUpcoming      ListType = "upcoming"
	ListOnAir         ListType = "on_air"
	ListAiringToday   ListType = "airing_today"
	ListPopularMovies ListType = "popular_movies"
	ListPopularTV     ListType = "popular_tv"
)

var listEndpoints = map[ListType]string{
	ListTrending:      "trending/all/week",
	ListNowPlaying:    "movie/now_playing",
	ListUpcoming:      "movie/upcoming",
	ListOnAir:         "tv/on_the_air",
	ListAiringToday:   "tv/airing_today",
	ListPopularMovies: "movie/popular",
	ListPopularTV:     "tv/popular",
}

// popularTVEndpoints are merged, in this order, for the popular_tv list
var popularTVEndpoints = []string{"tv/popular", "trending/tv/week", "tv/top_rated"}

const popularTVPages = 2

// ParseListType validates a configured trending_type. Empty means trending.
func ParseListType(s string) (ListType, bool) {
	if s == "" {
		return ListTrending, true
	}
	l := ListType(s)
	_, ok := listEndpoints[l]
	return l, ok
}

// Endpoint returns the API path for the list
func (l ListType) Endpoint() string {
	return listEndpoints[l]
}

// mediaType is the media type every result of the list has, or "" when
// results carry their own media_type (trending).
func (l ListType) mediaType() string {
	switch l {
	case ListNowPlaying, ListUpcoming, ListPopularMovies:
		return "movie"
	case ListOnAir, ListAiringToday, ListPopularTV:
		return "tv"
	default:
		return ""
	}
}

// Result is one entry of a TMDB list response
type Result struct {
	ID               int64   `json:"id"`
	MediaType        string  `json:"media_type,omitempty"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
}

// Page is one page of a list response
type Page struct {
	Page         int      `json:"page"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
	Results      []Result `json:"results"`
}
