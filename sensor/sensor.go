package sensor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/mediarr/content"
	"github.com/s0up4200/mediarr/store"
)

// DefaultTimeout bounds a single cycle
const DefaultTimeout = 30 * time.Second

// ErrUpdateInProgress is returned by Update when another cycle of the same
// sensor is still running
var ErrUpdateInProgress = errors.New("update already in progress")

// StateStore persists the last good list of a sensor
type StateStore interface {
	Save(ctx context.Context, name string, items []content.Item, updatedAt time.Time) error
	Load(ctx context.Context, name string) (*store.State, error)
}

// Sensor is a named, polled list of content items
type Sensor struct {
	name      string
	kind      string
	fetcher   Fetcher
	cycle     CycleOptions
	timeout   time.Duration
	interval  time.Duration
	store     StateStore
	requester Requester
	logger    zerolog.Logger
	now       func() time.Time

	updating sync.Mutex

	mu        sync.RWMutex
	items     []content.Item
	updatedAt time.Time
	stale     bool
	lastErr   error
}

// Option configures a Sensor
type Option func(*Sensor)

// WithCycle sets poster resolution, filtering and max items
func WithCycle(opts CycleOptions) Option {
	return func(s *Sensor) {
		s.cycle = opts
	}
}

// WithTimeout bounds each cycle
func WithTimeout(d time.Duration) Option {
	return func(s *Sensor) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithInterval sets the polling interval used by the scheduler
func WithInterval(d time.Duration) Option {
	return func(s *Sensor) {
		s.interval = d
	}
}

// WithStore persists successful cycles
func WithStore(st StateStore) Option {
	return func(s *Sensor) {
		s.store = st
	}
}

// WithRequester enables the request, approve and deny actions
func WithRequester(r Requester) Option {
	return func(s *Sensor) {
		s.requester = r
	}
}

// WithLogger sets the sensor logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Sensor) {
		s.logger = logger
	}
}

// New creates a sensor. The list starts empty until Restore or Update.
func New(name, kind string, fetcher Fetcher, opts ...Option) *Sensor {
	s := &Sensor{
		name:    name,
		kind:    kind,
		fetcher: fetcher,
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
		now:     time.Now,
		items:   []content.Item{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("sensor", name).Logger()
	return s
}

// Name returns the sensor name
func (s *Sensor) Name() string { return s.name }

// Kind returns the provider type
func (s *Sensor) Kind() string { return s.kind }

// Interval returns the polling interval, zero meaning the scheduler default
func (s *Sensor) Interval() time.Duration { return s.interval }

// Restore loads the persisted list, if any
func (s *Sensor) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	state, err := s.store.Load(ctx, s.name)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = state.Items
	s.updatedAt = state.UpdatedAt
	// Served from cache until the first live cycle
	s.stale = true

	s.logger.Debug().Int("items", len(state.Items)).Time("updated_at", state.UpdatedAt).Msg("Restored sensor state")
	return nil
}

// Update runs one cycle. On failure the previous list is kept and the
// sensor is marked stale. Overlapping calls return ErrUpdateInProgress
// without running.
func (s *Sensor) Update(ctx context.Context) error {
	if !s.updating.TryLock() {
		s.logger.Debug().Msg("Update already running, skipping")
		return ErrUpdateInProgress
	}
	defer s.updating.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := s.now()
	items, err := RunCycle(ctx, s.fetcher, s.cycle)
	if err != nil {
		s.mu.Lock()
		s.stale = true
		s.lastErr = err
		kept := len(s.items)
		s.mu.Unlock()

		s.logger.Error().Err(err).Int("kept", kept).Msg("Update failed, keeping previous list")
		return err
	}

	s.mu.Lock()
	s.items = items
	s.updatedAt = start
	s.stale = false
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Debug().Int("items", len(items)).Dur("took", s.now().Sub(start)).Msg("Sensor updated")

	if s.store != nil {
		if err := s.store.Save(ctx, s.name, items, start); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to persist sensor state")
		}
	}
	return nil
}

// Items returns the current list
func (s *Sensor) Items() []content.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// Status summarises a sensor for listings
type Status struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	State     int       `json:"state"`
	Stale     bool      `json:"stale"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	LastError string    `json:"last_error,omitempty"`
}

// Status returns the sensor summary
func (s *Sensor) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Name:      s.name,
		Type:      s.kind,
		State:     len(s.items),
		Stale:     s.stale,
		UpdatedAt: s.updatedAt,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// Attributes is the attribute payload of a sensor
type Attributes struct {
	Data []content.Item `json:"data"`
}

// State is the entity view: state is the item count, attributes carry the list
type State struct {
	Name       string     `json:"name"`
	State      int        `json:"state"`
	Attributes Attributes `json:"attributes"`
}

// State returns the entity view of the sensor
func (s *Sensor) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Name:       s.name,
		State:      len(s.items),
		Attributes: Attributes{Data: s.items},
	}
}
