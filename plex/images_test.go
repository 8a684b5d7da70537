package plex

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mediarr/content"
)

func TestImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testToken, r.Header.Get("X-Plex-Token"))
		switch r.URL.Path {
		case "/library/metadata/10/thumb":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("poster-bytes"))
		case "/library/metadata/10/art":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testToken, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	img, err := client.Image(ctx, "10", ImagePoster)
	require.NoError(t, err)
	body, err := io.ReadAll(img.Body)
	img.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "poster-bytes", string(body))
	assert.Equal(t, "image/jpeg", img.ContentType)

	_, err = client.Image(ctx, "10", ImageBackdrop)
	assert.ErrorIs(t, err, ErrImageNotFound)

	_, err = client.Image(ctx, "11", ImagePoster)
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)

	_, err = client.Image(ctx, "../../sections", ImagePoster)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = client.Image(ctx, "10", ImageKind("clearlogo"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestImageLinks(t *testing.T) {
	items := []content.Item{
		{ID: "10", Title: "Dune", PosterURL: "https://image.tmdb.org/t/p/w500/dune.jpg"},
		{ID: "20", Title: "Severance"},
		{ID: "plex-odd", Title: "Odd"},
	}

	got := ImageLinks{BaseURL: "http://mediarr:7979/", Sensor: "plex main"}.ResolveAll(context.Background(), items)

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/dune.jpg", got[0].PosterURL, "TMDB artwork wins")
	assert.Equal(t, "http://mediarr:7979/api/images/plex%20main/10/backdrop", got[0].BackdropURL)
	assert.Equal(t, "http://mediarr:7979/api/images/plex%20main/20/poster", got[1].PosterURL)
	assert.Empty(t, got[2].PosterURL)

	assert.Equal(t, "/api/images/plex/20/poster", ImageURL("", "plex", "20", ImagePoster))
}
