package sensor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mediarr/content"
	"github.com/s0up4200/mediarr/filter"
	"github.com/s0up4200/mediarr/seer"
	"github.com/s0up4200/mediarr/store"
)

type raw struct {
	id    string
	title string
}

type fakeSource struct {
	entries []raw
	err     error
}

func (f *fakeSource) FetchRaw(ctx context.Context) ([]raw, error) {
	return f.entries, f.err
}

func (f *fakeSource) Normalize(r raw) (content.Item, bool) {
	if r.title == "" {
		return content.Item{}, false
	}
	return content.Item{ID: r.id, Title: r.title, Source: "fake", MediaType: content.MediaTypeMovie}, true
}

type fakeStore struct {
	mu    sync.Mutex
	saved map[string][]content.Item
}

func (f *fakeStore) Save(ctx context.Context, name string, items []content.Item, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = make(map[string][]content.Item)
	}
	f.saved[name] = items
	return nil
}

func (f *fakeStore) Load(ctx context.Context, name string) (*store.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, ok := f.saved[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.State{Name: name, Items: items, UpdatedAt: time.Unix(0, 0)}, nil
}

type posterStub struct{}

func (posterStub) ResolveAll(ctx context.Context, items []content.Item) []content.Item {
	out := make([]content.Item, len(items))
	for i, item := range items {
		item.PosterURL = "https://image.tmdb.org/t/p/w500/" + item.ID + ".jpg"
		out[i] = item
	}
	return out
}

func entries(n int) []raw {
	out := make([]raw, n)
	for i := range out {
		out[i] = raw{id: fmt.Sprint(i + 1), title: fmt.Sprintf("Title %d", i+1)}
	}
	return out
}

func TestRunCycleDropsUntitled(t *testing.T) {
	src := &fakeSource{entries: []raw{{"1", "A"}, {"2", ""}, {"3", "C"}}}

	items, err := RunCycle(context.Background(), Normalized[raw](src), CycleOptions{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "3", items[1].ID)
	assert.Equal(t, content.RequestStatusNone, items[0].RequestStatus)
}

func TestRunCycleMaxItems(t *testing.T) {
	src := &fakeSource{entries: entries(5)}

	items, err := RunCycle(context.Background(), Normalized[raw](src), CycleOptions{MaxItems: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, []string{items[0].ID, items[1].ID})
	assert.Len(t, items, 2)
}

func TestRunCycleDefaultMaxItems(t *testing.T) {
	src := &fakeSource{entries: entries(25)}
	items, err := RunCycle(context.Background(), Normalized[raw](src), CycleOptions{})
	require.NoError(t, err)
	assert.Len(t, items, DefaultMaxItems)
}

func TestRunCycleFilterAndPosters(t *testing.T) {
	f := FetcherFunc(func(ctx context.Context) ([]content.Item, error) {
		return []content.Item{
			{ID: "1", Title: "Old", Year: 2019, Source: "tmdb"},
			{ID: "2", Title: "News", Year: 2021, GenreIDs: []int{10763}, Source: "tmdb"},
			{ID: "3", Title: "New", Year: 2022, Source: "tmdb"},
			{ID: "3", Title: "New", Year: 2022, Source: "tmdb"},
		}, nil
	})
	engine, err := filter.NewEngine(filter.Spec{MinYear: 2020, ExcludeGenres: []int{10763}})
	require.NoError(t, err)

	items, err := RunCycle(context.Background(), f, CycleOptions{Filter: engine, Posters: posterStub{}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2022, items[0].Year)
	assert.NotEmpty(t, items[0].PosterURL)
}

func TestUpdateFailureKeepsPreviousList(t *testing.T) {
	src := &fakeSource{entries: entries(10)}
	st := &fakeStore{}
	s := New("radarr", "radarr", Normalized[raw](src), WithStore(st), WithLogger(zerolog.Nop()))

	require.NoError(t, s.Update(context.Background()))
	before := s.Items()
	require.Len(t, before, 10)
	assert.False(t, s.Status().Stale)

	src.err = content.NewFetchError("radarr", "calendar", errors.New("connection refused"))
	err := s.Update(context.Background())
	require.Error(t, err)

	var fe *content.FetchError
	assert.ErrorAs(t, err, &fe)
	if diff := cmp.Diff(before, s.Items()); diff != "" {
		t.Errorf("list changed after failed cycle (-want +got):\n%s", diff)
	}

	status := s.Status()
	assert.True(t, status.Stale)
	assert.Equal(t, 10, status.State)
	assert.Contains(t, status.LastError, "connection refused")
	assert.Len(t, st.saved["radarr"], 10)
}

func TestUpdateTimeout(t *testing.T) {
	f := FetcherFunc(func(ctx context.Context) ([]content.Item, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s := New("slow", "trakt", f, WithTimeout(10*time.Millisecond))

	err := s.Update(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, s.Items())
}

func TestUpdateOverlapIsReported(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := New("slow", "trakt", FetcherFunc(func(ctx context.Context) ([]content.Item, error) {
		close(started)
		<-release
		return []content.Item{{ID: "1", Title: "Dune"}}, nil
	}))

	done := make(chan error, 1)
	go func() { done <- s.Update(context.Background()) }()
	<-started

	assert.ErrorIs(t, s.Update(context.Background()), ErrUpdateInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, s.Items(), 1)
}

func TestRestore(t *testing.T) {
	st := &fakeStore{saved: map[string][]content.Item{"plex": {{ID: "1", Title: "Dune"}}}}
	s := New("plex", "plex", FetcherFunc(func(ctx context.Context) ([]content.Item, error) {
		return nil, errors.New("offline")
	}), WithStore(st))

	require.NoError(t, s.Restore(context.Background()))
	state := s.State()
	assert.Equal(t, 1, state.State)
	assert.Equal(t, "Dune", state.Attributes.Data[0].Title)
	assert.True(t, s.Status().Stale)

	missing := New("jellyfin", "jellyfin", nil, WithStore(st))
	assert.NoError(t, missing.Restore(context.Background()))
	assert.Equal(t, 0, missing.State().State)
}

type fakeRequester struct {
	err      error
	lastID   int64
	lastType seer.MediaType
	calls    []string
}

func (f *fakeRequester) Request(ctx context.Context, mt seer.MediaType, id int64) (*seer.MediaRequest, error) {
	f.calls = append(f.calls, "request")
	f.lastID, f.lastType = id, mt
	return &seer.MediaRequest{ID: 99}, f.err
}

func (f *fakeRequester) Approve(ctx context.Context, id int64) (*seer.MediaRequest, error) {
	f.calls = append(f.calls, "approve")
	f.lastID = id
	return &seer.MediaRequest{ID: id}, f.err
}

func (f *fakeRequester) Deny(ctx context.Context, id int64) (*seer.MediaRequest, error) {
	f.calls = append(f.calls, "deny")
	f.lastID = id
	return &seer.MediaRequest{ID: id}, f.err
}

func TestActions(t *testing.T) {
	req := &fakeRequester{}
	s := New("seer", "seer", nil, WithRequester(req))
	ctx := context.Background()

	r, err := s.Do(ctx, ActionRequest, "603", "movie")
	require.NoError(t, err)
	assert.Equal(t, int64(99), r.ID)
	assert.Equal(t, int64(603), req.lastID)
	assert.Equal(t, seer.MediaTypeMovie, req.lastType)

	_, err = s.Do(ctx, ActionApprove, "12", "")
	require.NoError(t, err)
	_, err = s.Do(ctx, ActionDeny, "13", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"request", "approve", "deny"}, req.calls)
}

func TestActionErrors(t *testing.T) {
	ctx := context.Background()
	var ae *ActionError

	plain := New("sonarr", "sonarr", nil)
	_, err := plain.Do(ctx, ActionApprove, "1", "")
	require.ErrorAs(t, err, &ae)
	assert.ErrorIs(t, err, ErrActionsUnsupported)

	req := &fakeRequester{err: seer.ErrNotFound}
	s := New("seer", "seer", nil, WithRequester(req))

	_, err = s.Do(ctx, ActionApprove, "7", "")
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, ActionApprove, ae.Action)
	assert.Equal(t, "7", ae.ID)
	assert.ErrorIs(t, err, seer.ErrNotFound)

	_, err = s.Do(ctx, ActionRequest, "abc", "movie")
	assert.ErrorAs(t, err, &ae)

	_, err = s.Do(ctx, ActionRequest, "5", "book")
	assert.ErrorAs(t, err, &ae)

	_, err = ParseAction("delete")
	assert.Error(t, err)
}

func TestSchedulerUpdateAll(t *testing.T) {
	sched := NewScheduler(time.Minute, 2, zerolog.Nop())
	ok := New("ok", "tmdb", Normalized[raw](&fakeSource{entries: entries(3)}))
	bad := New("bad", "trakt", Normalized[raw](&fakeSource{err: errors.New("boom")}))

	require.NoError(t, sched.Add(ok))
	require.NoError(t, sched.Add(bad))
	assert.Error(t, sched.Add(New("ok", "tmdb", nil)))

	assert.Equal(t, 1, sched.UpdateAll(context.Background()))
	assert.Len(t, ok.Items(), 3)
	assert.True(t, bad.Status().Stale)
	assert.Equal(t, []string{"bad", "ok"}, sched.Names())

	got, found := sched.Get("ok")
	require.True(t, found)
	assert.Same(t, ok, got)
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	sched := NewScheduler(5*time.Millisecond, 1, zerolog.Nop())
	src := &fakeSource{entries: entries(1)}
	require.NoError(t, sched.Add(New("tick", "tmdb", Normalized[raw](src))))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestConsoleFormatter(t *testing.T) {
	f := NewConsoleFormatter()
	out := f.FormatState(Status{Name: "seer", Type: "seer", Stale: true}, []content.Item{
		{ID: "1", Title: "Dune", Year: 2021, RequestStatus: content.RequestStatusPending, Detail: "Requested by alice"},
		{ID: "2", Title: "Arrival", MediaType: content.MediaTypeMovie, TMDBID: 329865},
	}, FormatOptions{ShowDetails: true})

	assert.Contains(t, out, "seer [seer] (2) [STALE]")
	assert.Contains(t, out, "├── Dune (2021) [PENDING]")
	assert.Contains(t, out, "│   Requested by alice")
	assert.Contains(t, out, "╰── Arrival")
	assert.Contains(t, out, "TMDB: 329865")

	empty := f.FormatState(Status{Name: "x", Type: "plex"}, nil, FormatOptions{})
	assert.Contains(t, empty, "No items")
}
