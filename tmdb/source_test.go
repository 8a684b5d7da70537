package tmdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mediarr/content"
)

type fakeLister struct {
	results []Result
	err     error
}

func (f *fakeLister) List(ctx context.Context, list ListType) ([]Result, error) {
	return f.results, f.err
}

func TestNormalizeResult(t *testing.T) {
	movie, ok := NormalizeResult(Result{
		ID:               27205,
		MediaType:        "movie",
		Title:            "Inception",
		ReleaseDate:      "2010-07-15",
		PosterPath:       "/p.jpg",
		BackdropPath:     "/b.jpg",
		OriginalLanguage: "en",
		GenreIDs:         []int{28},
	}, "tmdb_trending")
	require.True(t, ok)
	assert.Equal(t, content.Item{
		ID:          "27205",
		Title:       "Inception",
		MediaType:   content.MediaTypeMovie,
		Year:        2010,
		PosterURL:   "https://image.tmdb.org/t/p/w500/p.jpg",
		BackdropURL: "https://image.tmdb.org/t/p/original/b.jpg",
		GenreIDs:    []int{28},
		Language:    "en",
		Source:      "tmdb_trending",
		TMDBID:      27205,
	}, movie)

	show, ok := NormalizeResult(Result{ID: 1, MediaType: "tv", Name: "Severance", FirstAirDate: "2022-02-18"}, "tmdb")
	require.True(t, ok)
	assert.Equal(t, content.MediaTypeShow, show.MediaType)
	assert.Equal(t, 2022, show.Year)

	for name, r := range map[string]Result{
		"person":        {ID: 2, MediaType: "person", Name: "Someone"},
		"missing title": {ID: 3, MediaType: "movie"},
		"missing id":    {MediaType: "movie", Title: "X"},
	} {
		_, ok := NormalizeResult(r, "tmdb")
		assert.False(t, ok, name)
	}
}

func TestListSource(t *testing.T) {
	src := &ListSource{
		Client: &fakeLister{results: []Result{{ID: 1, MediaType: "movie", Title: "A"}}},
		List:   ListUpcoming,
		Label:  "tmdb_upcoming",
	}
	raw, err := src.FetchRaw(context.Background())
	require.NoError(t, err)
	require.Len(t, raw, 1)

	item, ok := src.Normalize(raw[0])
	require.True(t, ok)
	assert.Equal(t, "tmdb_upcoming", item.Source)

	src.Client = &fakeLister{err: errors.New("timeout")}
	_, err = src.FetchRaw(context.Background())
	var fe *content.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "upcoming", fe.Op)
}
