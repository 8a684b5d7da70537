package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, key string, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(key, zerolog.Nop(), append([]Option{WithBaseURL(server.URL)}, opts...)...)
	require.NoError(t, err)
	return client
}

func writePage(w http.ResponseWriter, results ...Result) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Page{Page: 1, TotalPages: 1, Results: results})
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("", zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestListLanguage(t *testing.T) {
	client := newTestClient(t, "v3key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "de-DE", r.URL.Query().Get("language"))
		writePage(w)
	}, WithLanguage("de-DE"))

	_, err := client.List(context.Background(), ListTrending)
	require.NoError(t, err)
}

func TestAuthentication(t *testing.T) {
	const token = "eyJhbGciOiJIUzI1NiJ9.eyJhdWQiOiJ4In0.c2ln"

	t.Run("api key goes in the query", func(t *testing.T) {
		client := newTestClient(t, "v3key", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "v3key", r.URL.Query().Get("api_key"))
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Equal(t, "en-US", r.URL.Query().Get("language"))
			writePage(w)
		})
		_, err := client.List(context.Background(), ListTrending)
		require.NoError(t, err)
	})

	t.Run("read access token is a bearer header", func(t *testing.T) {
		client := newTestClient(t, token, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			assert.Empty(t, r.URL.Query().Get("api_key"))
			writePage(w)
		})
		_, err := client.List(context.Background(), ListTrending)
		require.NoError(t, err)
	})
}

func TestListEndpoints(t *testing.T) {
	tests := []struct {
		list      ListType
		wantPath  string
		wantMedia string
	}{
		{ListTrending, "/trending/all/week", ""},
		{ListNowPlaying, "/movie/now_playing", "movie"},
		{ListUpcoming, "/movie/upcoming", "movie"},
		{ListOnAir, "/tv/on_the_air", "tv"},
		{ListAiringToday, "/tv/airing_today", "tv"},
		{ListPopularMovies, "/movie/popular", "movie"},
	}

	for _, tt := range tests {
		t.Run(string(tt.list), func(t *testing.T) {
			client := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				writePage(w, Result{ID: 1, MediaType: "person", Name: "x"})
			})

			results, err := client.List(context.Background(), tt.list)
			require.NoError(t, err)
			require.Len(t, results, 1)
			if tt.wantMedia == "" {
				assert.Equal(t, "person", results[0].MediaType, "trending keeps per-item media types")
			} else {
				assert.Equal(t, tt.wantMedia, results[0].MediaType)
			}
		})
	}
}

func TestListPopularTVMergesInOrder(t *testing.T) {
	var calls atomic.Int32
	ids := map[string]int64{"/tv/popular": 100, "/trending/tv/week": 200, "/tv/top_rated": 300}

	client := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		base, ok := ids[r.URL.Path]
		if !assert.True(t, ok, "unexpected path %s", r.URL.Path) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		page := int64(1)
		if r.URL.Query().Get("page") == "2" {
			page = 2
		}
		writePage(w, Result{ID: base + page, Name: fmt.Sprintf("show %d", base+page)})
	})

	results, err := client.List(context.Background(), ListPopularTV)
	require.NoError(t, err)
	assert.Equal(t, int32(6), calls.Load())

	got := make([]int64, len(results))
	for i, r := range results {
		got[i] = r.ID
		assert.Equal(t, "tv", r.MediaType)
	}
	assert.Equal(t, []int64{101, 102, 201, 202, 301, 302}, got)
}

func TestListPopularTVSkipsFailedPages(t *testing.T) {
	client := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tv/top_rated" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		id := int64(1)
		if r.URL.Query().Get("page") == "2" {
			id = 2
		}
		writePage(w, Result{ID: id, Name: "x"})
	})

	results, err := client.List(context.Background(), ListPopularTV)
	require.NoError(t, err)
	assert.Len(t, results, 4, "two endpoints with two pages each survive")
}

func TestListPopularTVAllPagesFail(t *testing.T) {
	client := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.List(context.Background(), ListPopularTV)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestListErrors(t *testing.T) {
	client := newTestClient(t, "bad", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.List(context.Background(), ListTrending)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.List(context.Background(), ListType("weekly_top"))
	assert.ErrorIs(t, err, ErrUnknownList)
}

func TestParseListType(t *testing.T) {
	l, ok := ParseListType("")
	assert.True(t, ok)
	assert.Equal(t, ListTrending, l)

	l, ok = ParseListType("airing_today")
	assert.True(t, ok)
	assert.Equal(t, "tv/airing_today", l.Endpoint())

	_, ok = ParseListType("nope")
	assert.False(t, ok)
}

func TestImageURLs(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/a.jpg", PosterURL("/a.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/b.jpg", BackdropURL("/b.jpg"))
	assert.Empty(t, PosterURL(""))
	assert.Empty(t, BackdropURL(""))
}
