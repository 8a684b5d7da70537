package seer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mediarr/content"
)

func TestNormalizeDiscover(t *testing.T) {
	t.Run("movie", func(t *testing.T) {
		item, ok := NormalizeDiscover(DiscoverResult{
			ID:               603,
			MediaType:        MediaTypeMovie,
			Title:            "The Matrix",
			ReleaseDate:      "1999-03-30",
			PosterPath:       "/poster.jpg",
			GenreIDs:         []int{28, 878},
			OriginalLanguage: "en",
			MediaInfo:        &Media{Status: MediaStatusAvailable},
		}, "seer_trending")
		require.True(t, ok)
		assert.Equal(t, "603", item.ID)
		assert.Equal(t, int64(603), item.TMDBID)
		assert.Equal(t, content.MediaTypeMovie, item.MediaType)
		assert.Equal(t, 1999, item.Year)
		assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", item.PosterURL)
		assert.Equal(t, content.RequestStatusAvailable, item.RequestStatus)
		assert.Equal(t, "seer_trending", item.Source)
	})

	t.Run("tv uses name and first air date", func(t *testing.T) {
		item, ok := NormalizeDiscover(DiscoverResult{
			ID: 1399, MediaType: MediaTypeTV, Name: "Game of Thrones", FirstAirDate: "2011-04-17",
		}, "seer")
		require.True(t, ok)
		assert.Equal(t, content.MediaTypeShow, item.MediaType)
		assert.Equal(t, "Game of Thrones", item.Title)
		assert.Equal(t, 2011, item.Year)
		assert.Equal(t, content.RequestStatusNone, item.RequestStatus)
		assert.Empty(t, item.PosterURL)
	})

	t.Run("skips", func(t *testing.T) {
		_, ok := NormalizeDiscover(DiscoverResult{ID: 1, MediaType: MediaTypeMovie}, "seer")
		assert.False(t, ok, "missing title")
		_, ok = NormalizeDiscover(DiscoverResult{MediaType: MediaTypeMovie, Title: "X"}, "seer")
		assert.False(t, ok, "missing id")
		_, ok = NormalizeDiscover(DiscoverResult{ID: 2, MediaType: MediaTypePerson, Name: "Keanu"}, "seer")
		assert.False(t, ok, "people are not content")
	})
}

func TestNormalizeRequest(t *testing.T) {
	entry := RequestEntry{
		Request: MediaRequest{
			ID:          42,
			Status:      RequestStatusPending,
			Type:        MediaTypeTV,
			RequestedBy: User{DisplayName: "sam"},
			Media:       Media{TmdbID: 1399},
		},
		Details: &MediaDetails{
			Name:         "Game of Thrones",
			FirstAirDate: "2011-04-17",
			Genres:       []Genre{{ID: 18, Name: "Drama"}},
		},
	}

	item, ok := NormalizeRequest(entry, "seer_requests")
	require.True(t, ok)
	assert.Equal(t, "42", item.ID)
	assert.Equal(t, int64(1399), item.TMDBID)
	assert.Equal(t, content.RequestStatusPending, item.RequestStatus)
	assert.Equal(t, []int{18}, item.GenreIDs)
	assert.Equal(t, "Requested by sam", item.Detail)

	entry.Details = nil
	_, ok = NormalizeRequest(entry, "seer_requests")
	assert.False(t, ok)
}

type fakeAPI struct {
	discover map[DiscoverList][]DiscoverResult
	requests []MediaRequest
	details  map[int64]*MediaDetails
	err      error
}

func (f *fakeAPI) TestConnection(ctx context.Context) error { return f.err }

func (f *fakeAPI) Discover(ctx context.Context, list DiscoverList, page int) (*DiscoverResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &DiscoverResponse{Page: page, Results: f.discover[list]}, nil
}

func (f *fakeAPI) GetRequests(ctx context.Context, filter string) ([]MediaRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.requests, nil
}

func (f *fakeAPI) GetMediaDetails(ctx context.Context, mediaType MediaType, tmdbID int64) (*MediaDetails, error) {
	if d, ok := f.details[tmdbID]; ok {
		return d, nil
	}
	return nil, &APIError{StatusCode: 404}
}

func TestDiscoverSourceOrder(t *testing.T) {
	api := &fakeAPI{discover: map[DiscoverList][]DiscoverResult{
		DiscoverMovies: {{ID: 1, MediaType: MediaTypeMovie, Title: "M"}},
		DiscoverTV:     {{ID: 2, MediaType: MediaTypeTV, Name: "T"}},
	}}
	lists, ok := ListsFor("discover")
	require.True(t, ok)

	src := &DiscoverSource{Client: api, Lists: lists, Label: "seer_discover"}
	raw, err := src.FetchRaw(context.Background())
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, int64(1), raw[0].ID)
	assert.Equal(t, int64(2), raw[1].ID)
}

func TestDiscoverSourceError(t *testing.T) {
	src := &DiscoverSource{Client: &fakeAPI{err: errors.New("boom")}, Lists: []DiscoverList{DiscoverTrending}, Label: "seer"}
	_, err := src.FetchRaw(context.Background())

	var fe *content.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "seer", fe.Source)
}

func TestRequestsSourceDetailFailureDropsOnlyThatRequest(t *testing.T) {
	api := &fakeAPI{
		requests: []MediaRequest{
			{ID: 1, Type: MediaTypeMovie, Status: RequestStatusPending, Media: Media{TmdbID: 10}},
			{ID: 2, Type: MediaTypeMovie, Status: RequestStatusPending, Media: Media{TmdbID: 20}},
		},
		details: map[int64]*MediaDetails{10: {Title: "Found"}},
	}
	src := &RequestsSource{Client: api, Label: "seer_requests"}

	raw, err := src.FetchRaw(context.Background())
	require.NoError(t, err)
	require.Len(t, raw, 2)

	var items []content.Item
	for _, e := range raw {
		if item, ok := src.Normalize(e); ok {
			items = append(items, item)
		}
	}
	require.Len(t, items, 1)
	assert.Equal(t, "Found", items[0].Title)
}

func TestListsFor(t *testing.T) {
	lists, ok := ListsFor("popular_tv")
	require.True(t, ok)
	assert.Equal(t, []DiscoverList{DiscoverPopularTV}, lists)

	_, ok = ListsFor("upcoming")
	assert.False(t, ok)
}
