package lab

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/terrain"
)

// Rain control range and increment.
const (
	RainMin     = 0.0
	RainMax     = 0.05
	RainStep    = 0.005
	DefaultRain = 0.01

	// DefaultInterval is the tick period of Run.
	DefaultInterval = 100 * time.Millisecond
)

// ErrRaiseDisabled is returned by Raise while the raise toggle is off.
var ErrRaiseDisabled = errors.New("lab: raise mode is off")

// Session owns the live terrain. Writers are serialized by a mutex so two
// grid passes never interleave; Snapshot is lock-free.
type Session struct {
	mu        sync.Mutex
	stepper   *erosion.Stepper
	params    erosion.Params
	seed      int64
	rain      float64
	history   *History
	observers []Observer

	snap    atomic.Pointer[terrain.Terrain]
	tick    atomic.Int64
	running atomic.Bool
	raise   atomic.Bool
}

// NewSession builds the initial terrain from p and seed.
func NewSession(p erosion.Params, seed int64, rain float64) (*Session, error) {
	if err := checkRain(rain); err != nil {
		return nil, err
	}
	stepper, err := erosion.NewStepper(p)
	if err != nil {
		return nil, err
	}
	s := &Session{
		stepper: stepper,
		params:  p,
		rain:    rain,
		history: NewHistory(HistoryCapacity),
	}
	if err := s.Reset(seed); err != nil {
		return nil, err
	}
	s.running.Store(true)
	return s, nil
}

func checkRain(rain float64) error {
	if math.IsNaN(rain) || rain < RainMin || rain > RainMax {
		return &erosion.ParamError{Name: "rain", Value: rain, Wrapped: erosion.ErrInvalidRain}
	}
	return nil
}

func (s *Session) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Snapshot returns the current terrain. Callers must not retain assumptions
// about it beyond the returned value; it is never modified.
func (s *Session) Snapshot() *terrain.Terrain { return s.snap.Load() }

func (s *Session) Ticks() int             { return int(s.tick.Load()) }
func (s *Session) Params() erosion.Params { return s.params }

func (s *Session) Seed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed
}

// Tick advances the terrain by one step at the current rain rate.
func (s *Session) Tick() (erosion.StepStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, stats, err := s.stepper.StepWithStats(s.snap.Load(), s.rain)
	if err != nil {
		return stats, err
	}
	s.snap.Store(next)
	tick := int(s.tick.Add(1))
	s.history.Push(Snapshot{Tick: tick, Terrain: next, Stats: stats})
	s.notify(tick, next, stats)
	return stats, nil
}

// Raise lifts the ground at (x, y). It fails with ErrRaiseDisabled unless
// raise mode is on.
func (s *Session) Raise(x, y int) error {
	if !s.raise.Load() {
		return ErrRaiseDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.stepper.Raise(s.snap.Load(), x, y)
	if err != nil {
		return err
	}
	s.snap.Store(next)
	return nil
}

// Reset regenerates the terrain from seed and clears tick count and history.
func (s *Session) Reset(seed int64) error {
	t, err := erosion.NewTerrain(s.params, erosion.NewSource(seed))
	if err != nil {
		return fmt.Errorf("reset terrain: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed = seed
	s.snap.Store(t)
	s.tick.Store(0)
	s.history.Reset()
	s.notify(0, t, erosion.StepStats{})
	return nil
}

func (s *Session) notify(tick int, t *terrain.Terrain, stats erosion.StepStats) {
	for _, o := range s.observers {
		o.OnTick(tick, t, stats)
	}
}

func (s *Session) Rain() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rain
}

// SetRain sets the rain rate; values outside [RainMin, RainMax] are rejected.
func (s *Session) SetRain(rain float64) error {
	if err := checkRain(rain); err != nil {
		return err
	}
	s.mu.Lock()
	s.rain = rain
	s.mu.Unlock()
	return nil
}

// AdjustRain moves the rain rate by steps increments of RainStep, clamped to
// the valid range, and returns the new rate.
func (s *Session) AdjustRain(steps int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rain + float64(steps)*RainStep
	// snap to the slider grid so repeated adjustments do not drift
	r = math.Round(r/RainStep) * RainStep
	s.rain = math.Max(RainMin, math.Min(RainMax, r))
	return s.rain
}

func (s *Session) Running() bool        { return s.running.Load() }
func (s *Session) SetRunning(on bool)   { s.running.Store(on) }
func (s *Session) RaiseMode() bool      { return s.raise.Load() }
func (s *Session) SetRaiseMode(on bool) { s.raise.Store(on) }

// Toggle flips between running and paused and returns the new state.
func (s *Session) Toggle() bool {
	for {
		cur := s.running.Load()
		if s.running.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

// History returns copies of the recorded snapshots, oldest first.
func (s *Session) History() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, s.history.Len())
	copy(out, s.history.items)
	return out
}

// Run ticks the session every interval until ctx is cancelled. Ticks are
// skipped while paused. onFrame, if non-nil, receives the snapshot after each
// interval whether or not a tick ran.
func (s *Session) Run(ctx context.Context, interval time.Duration, onFrame func(*terrain.Terrain)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.Running() {
				if _, err := s.Tick(); err != nil {
					return err
				}
			}
			if onFrame != nil {
				onFrame(s.Snapshot())
			}
		}
	}
}
