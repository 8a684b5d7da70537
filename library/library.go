package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/s0up4200/mediarr/content"
)

const (
	DefaultRefresh        = time.Hour
	DefaultFuzzyThreshold = 0.92
	DefaultFailureBackoff = time.Minute
	defaultConcurrency    = 4
	defaultAttempts       = 3
)

// ErrNoSnapshot is returned when no library could be read yet
var ErrNoSnapshot = errors.New("library snapshot unavailable")

// Fetcher lists everything a media server or manager already holds
type Fetcher interface {
	LibraryItems(ctx context.Context) ([]content.Item, error)
}

// Library answers filter.Library lookups from a periodically refreshed
// snapshot of every configured library.
type Library struct {
	fetchers  []namedFetcher
	refresh   time.Duration
	threshold float32
	attempts  uint
	delay     time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	backoff   time.Duration

	// sem serializes refreshes; waiting on it honours the caller's context
	sem       chan struct{}
	mu        sync.RWMutex
	snap      *Snapshot
	fetchedAt time.Time
	failedAt  time.Time
	failErr   error
}

type namedFetcher struct {
	name    string
	fetcher Fetcher
}

// Option configures a Library
type Option func(*Library)

// WithRefresh sets how long a snapshot stays valid
func WithRefresh(d time.Duration) Option {
	return func(l *Library) {
		if d > 0 {
			l.refresh = d
		}
	}
}

// WithFuzzyThreshold sets the Jaro-Winkler similarity needed for a title match
func WithFuzzyThreshold(t float64) Option {
	return func(l *Library) {
		if t > 0 && t <= 1 {
			l.threshold = float32(t)
		}
	}
}

// WithRetry sets per-fetcher retry attempts and delay
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(l *Library) {
		l.attempts = attempts
		l.delay = delay
	}
}

// WithFailureBackoff sets how long a failed refresh is remembered before
// lookups try the sources again
func WithFailureBackoff(d time.Duration) Option {
	return func(l *Library) {
		if d >= 0 {
			l.backoff = d
		}
	}
}

// New creates an empty library. Register sources with Add.
func New(logger zerolog.Logger, opts ...Option) *Library {
	l := &Library{
		refresh:   DefaultRefresh,
		threshold: DefaultFuzzyThreshold,
		attempts:  defaultAttempts,
		delay:     time.Second,
		backoff:   DefaultFailureBackoff,
		sem:       make(chan struct{}, 1),
		logger:    logger.With().Str("component", "library").Logger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add registers a library source under a sensor name
func (l *Library) Add(name string, f Fetcher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fetchers = append(l.fetchers, namedFetcher{name: name, fetcher: f})
}

// Len reports how many sources are registered
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.fetchers)
}

// Contains implements filter.Library
func (l *Library) Contains(ctx context.Context, item content.Item) (bool, error) {
	snap, err := l.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return snap.Match(item, l.threshold), nil
}

// Snapshot returns the current snapshot, refreshing it when expired. After a
// failed refresh the sources are left alone for the failure backoff: the
// previous snapshot is served if there is one, ErrNoSnapshot otherwise.
func (l *Library) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap, ok, err := l.cached(); ok {
		return snap, err
	}

	if err := l.lock(ctx); err != nil {
		return nil, err
	}
	defer l.unlock()

	// Another caller may have refreshed, or failed, while we waited
	if snap, ok, err := l.cached(); ok {
		return snap, err
	}

	if err := l.refreshLocked(ctx); err != nil {
		if stale := l.previous(); stale != nil {
			l.logger.Warn().Err(err).Dur("backoff", l.backoff).Msg("Library refresh failed, using previous snapshot")
			return stale, nil
		}
		l.logger.Warn().Err(err).Dur("backoff", l.backoff).Msg("Library refresh failed")
		return nil, err
	}
	return l.previous(), nil
}

// Refresh rebuilds the snapshot immediately, ignoring any failure backoff
func (l *Library) Refresh(ctx context.Context) error {
	if err := l.lock(ctx); err != nil {
		return err
	}
	defer l.unlock()
	return l.refreshLocked(ctx)
}

func (l *Library) lock(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Library) unlock() {
	<-l.sem
}

// cached answers from memory when the snapshot is fresh or a recent refresh
// failed. ok is false when the sources should be read.
func (l *Library) cached() (*Snapshot, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	now := l.now()
	if l.snap != nil && now.Sub(l.fetchedAt) < l.refresh {
		return l.snap, true, nil
	}
	if l.failErr != nil && now.Sub(l.failedAt) < l.backoff {
		if l.snap != nil {
			return l.snap, true, nil
		}
		return nil, true, l.failErr
	}
	return nil, false, nil
}

func (l *Library) previous() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

func (l *Library) refreshLocked(ctx context.Context) error {
	l.mu.RLock()
	fetchers := slices.Clone(l.fetchers)
	l.mu.RUnlock()
	if len(fetchers) == 0 {
		return ErrNoSnapshot
	}

	results := make([][]content.Item, len(fetchers))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(defaultConcurrency)

	for i, nf := range fetchers {
		p.Go(func(ctx context.Context) error {
			items, err := l.fetchWithRetry(ctx, nf.fetcher)
			if err != nil {
				l.logger.Warn().Err(err).Str("source", nf.name).Msg("Failed to read library")
				return fmt.Errorf("%s: %w", nf.name, err)
			}
			results[i] = items
			return nil
		})
	}

	err := p.Wait()

	snap := NewSnapshot()
	ok := 0
	for i, items := range results {
		if items == nil {
			continue
		}
		ok++
		snap.Add(items...)
		l.logger.Debug().Str("source", fetchers[i].name).Int("items", len(items)).Msg("Library read")
	}

	if ok == 0 {
		if err == nil {
			err = ErrNoSnapshot
		}
		err = fmt.Errorf("%w: %w", ErrNoSnapshot, err)
		// A cancelled caller says nothing about the sources
		if ctx.Err() == nil {
			l.mu.Lock()
			l.failedAt = l.now()
			l.failErr = err
			l.mu.Unlock()
		}
		return err
	}

	l.mu.Lock()
	l.snap = snap
	l.fetchedAt = l.now()
	l.failErr = nil
	l.mu.Unlock()

	l.logger.Info().Int("sources", ok).Int("titles", snap.Len()).Msg("Library snapshot refreshed")
	return nil
}

func (l *Library) fetchWithRetry(ctx context.Context, f Fetcher) ([]content.Item, error) {
	attempts := l.attempts
	if attempts == 0 {
		attempts = 1
	}
	return retry.DoWithData(
		func() ([]content.Item, error) {
			items, err := f.LibraryItems(ctx)
			if items == nil && err == nil {
				items = []content.Item{}
			}
			return items, err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(l.delay),
		retry.LastErrorOnly(true),
	)
}

// Snapshot is an immutable index of library contents
type Snapshot struct {
	tmdb   map[int64]struct{}
	titles map[string]struct{}
	byYear map[int][]string
}

// NewSnapshot returns an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		tmdb:   make(map[int64]struct{}),
		titles: make(map[string]struct{}),
		byYear: make(map[int][]string),
	}
}

// Add indexes items by TMDB id and cleaned title
func (s *Snapshot) Add(items ...content.Item) {
	for _, item := range items {
		if item.TMDBID > 0 {
			s.tmdb[item.TMDBID] = struct{}{}
		}
		clean := CleanTitle(item.Title)
		if clean == "" {
			continue
		}
		if _, seen := s.titles[clean]; !seen {
			s.titles[clean] = struct{}{}
		}
		if item.Year > 0 {
			s.byYear[item.Year] = append(s.byYear[item.Year], clean)
		}
	}
}

// Len returns the number of distinct cleaned titles
func (s *Snapshot) Len() int {
	return len(s.titles)
}

// Match reports whether item is in the snapshot: by TMDB id, then by exact
// cleaned title, then by fuzzy title among entries of the same year.
func (s *Snapshot) Match(item content.Item, threshold float32) bool {
	if item.TMDBID > 0 {
		if _, ok := s.tmdb[item.TMDBID]; ok {
			return true
		}
	}

	clean := CleanTitle(item.Title)
	if clean == "" {
		return false
	}
	if _, ok := s.titles[clean]; ok {
		return true
	}

	if item.Year == 0 || threshold <= 0 {
		return false
	}
	for _, candidate := range s.byYear[item.Year] {
		if edlib.JaroWinklerSimilarity(clean, candidate) >= threshold {
			return true
		}
	}
	return false
}
