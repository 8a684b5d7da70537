package radarr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/starr"
	"golift.io/starr/radarr"

	"github.com/s0up4200/mediarr/content"
)

// mockRadarrAPI implements RadarrAPI for testing
type mockRadarrAPI struct {
	movies   []*radarr.Movie
	calendar []*radarr.Movie
	err      error

	// Track calls for verification
	getMovieCalls int
	lastCalendar  radarr.Calendar
}

func (m *mockRadarrAPI) GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error) {
	m.getMovieCalls++
	return m.movies, m.err
}

func (m *mockRadarrAPI) GetCalendarContext(ctx context.Context, filter radarr.Calendar) ([]*radarr.Movie, error) {
	m.lastCalendar = filter
	return m.calendar, m.err
}

func (m *mockRadarrAPI) Ping() error {
	return m.err
}

func TestCalendarSourceWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	mockAPI := &mockRadarrAPI{
		calendar: []*radarr.Movie{
			{ID: 1, Title: "Mickey 17", Year: 2025, TmdbID: 696506, InCinemas: now.AddDate(0, 0, 6), DigitalRelease: now.AddDate(0, 1, 0)},
			{ID: 2, Title: "", Year: 2025},
			{ID: 3, Title: "Sinners", Year: 2025, DigitalRelease: now.AddDate(0, 0, 40), InCinemas: now.AddDate(0, 0, -10)},
		},
	}
	client := NewClientWithAPI(mockAPI, zerolog.Nop())
	src := &CalendarSource{Client: client, Days: 45, Label: "radarr", Now: func() time.Time { return now }}

	raw, err := src.FetchRaw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now, mockAPI.lastCalendar.Start)
	assert.Equal(t, now.AddDate(0, 0, 45), mockAPI.lastCalendar.End)

	var items []content.Item
	for _, m := range raw {
		if item, ok := src.Normalize(m); ok {
			items = append(items, item)
		}
	}
	require.Len(t, items, 2, "untitled movie is dropped")

	assert.Equal(t, int64(696506), items[0].TMDBID)
	assert.Equal(t, "In cinemas 2025-03-07", items[0].Detail)
	assert.Equal(t, "Digital 2025-04-10", items[1].Detail, "past cinema date is ignored")
}

func TestCalendarSourceDefaultDays(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mockAPI := &mockRadarrAPI{}
	src := &CalendarSource{Client: NewClientWithAPI(mockAPI, zerolog.Nop()), Label: "radarr", Now: func() time.Time { return now }}

	_, err := src.FetchRaw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, DefaultDaysToCheck), mockAPI.lastCalendar.End)
}

func TestCalendarSourceError(t *testing.T) {
	mockAPI := &mockRadarrAPI{err: errors.New("connection refused")}
	src := &CalendarSource{Client: NewClientWithAPI(mockAPI, zerolog.Nop()), Label: "radarr2"}

	_, err := src.FetchRaw(context.Background())
	var fe *content.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "radarr2", fe.Source)
	assert.Error(t, NewClientWithAPI(mockAPI, zerolog.Nop()).TestConnection(context.Background()))
}

func TestLibraryItems(t *testing.T) {
	mockAPI := &mockRadarrAPI{
		movies: []*radarr.Movie{
			{ID: 1, Title: "Arrival", Year: 2016, TmdbID: 329865, Images: []*starr.Image{
				{CoverType: "poster", RemoteURL: "https://image.tmdb.org/t/p/original/arrival.jpg"},
				{CoverType: "fanart", RemoteURL: "https://image.tmdb.org/t/p/original/fanart.jpg"},
			}},
			nil,
		},
	}
	client := NewClientWithAPI(mockAPI, zerolog.Nop())

	items, err := client.LibraryItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, mockAPI.getMovieCalls)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/arrival.jpg", items[0].PosterURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/fanart.jpg", items[0].BackdropURL)
	assert.Empty(t, items[0].Detail)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "key", zerolog.Nop())
	assert.Error(t, err)

	client, err := NewClient("http://radarr:7878", "key", zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, client)
}
