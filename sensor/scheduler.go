package sensor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
)

const (
	DefaultInterval    = 10 * time.Minute
	DefaultConcurrency = 4
)

// Scheduler polls every registered sensor on its own ticker. Cycles run in
// a bounded pool so a slow provider never delays the others beyond the limit.
type Scheduler struct {
	interval    time.Duration
	concurrency int
	logger      zerolog.Logger

	mu      sync.RWMutex
	sensors map[string]*Sensor
	order   []string
}

// NewScheduler creates a scheduler
func NewScheduler(interval time.Duration, concurrency int, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Scheduler{
		interval:    interval,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "scheduler").Logger(),
		sensors:     make(map[string]*Sensor),
	}
}

// Add registers a sensor. Names must be unique.
func (s *Scheduler) Add(sensor *Sensor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sensors[sensor.Name()]; exists {
		return fmt.Errorf("duplicate sensor %q", sensor.Name())
	}
	s.sensors[sensor.Name()] = sensor
	s.order = append(s.order, sensor.Name())
	return nil
}

// Get returns a sensor by name
func (s *Scheduler) Get(name string) (*Sensor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sensor, ok := s.sensors[name]
	return sensor, ok
}

// Sensors returns all sensors in registration order
func (s *Scheduler) Sensors() []*Sensor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Sensor, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.sensors[name])
	}
	return out
}

// Names returns sorted sensor names
func (s *Scheduler) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := slices.Clone(s.order)
	slices.Sort(names)
	return names
}

// UpdateAll runs one cycle of every sensor and waits for them. Failures are
// logged per sensor and returned as a count.
func (s *Scheduler) UpdateAll(ctx context.Context) int {
	sensors := s.Sensors()
	failed := make([]bool, len(sensors))

	p := pool.New().WithMaxGoroutines(s.concurrency)
	for i, sensor := range sensors {
		p.Go(func() {
			err := sensor.Update(ctx)
			failed[i] = err != nil && !errors.Is(err, ErrUpdateInProgress)
		})
	}
	p.Wait()

	n := 0
	for _, f := range failed {
		if f {
			n++
		}
	}
	return n
}

// Run performs an initial update of every sensor, then polls until ctx is done
func (s *Scheduler) Run(ctx context.Context) {
	sensors := s.Sensors()
	s.logger.Info().Int("sensors", len(sensors)).Dur("interval", s.interval).Msg("Starting scheduler")

	if failed := s.UpdateAll(ctx); failed > 0 {
		s.logger.Warn().Int("failed", failed).Msg("Initial update incomplete")
	}

	work := pool.New().WithMaxGoroutines(s.concurrency)
	var loops conc.WaitGroup

	for _, sensor := range sensors {
		interval := sensor.Interval()
		if interval <= 0 {
			interval = s.interval
		}
		loops.Go(func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					work.Go(func() {
						_ = sensor.Update(ctx)
					})
				}
			}
		})
	}

	loops.Wait()
	work.Wait()
	s.logger.Info().Msg("Scheduler stopped")
}
