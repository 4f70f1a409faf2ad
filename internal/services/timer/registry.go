package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/model"
)

// Kind distinguishes single-shot timers from repeating ones
type Kind string

const (
	KindTimeout  Kind = "timeout"
	KindInterval Kind = "interval"
)

// Handle identifies one started timer. A handle goes stale as soon as the
// timer is cancelled or replaced by another timer for the same room.
type Handle struct {
	Code model.RoomCode
	gen  uint64
}

// Func is invoked when a timer fires. It runs outside the registry lock.
type Func func(h Handle)

type entry struct {
	gen    uint64
	kind   Kind
	period time.Duration
	timer  clock.Timer
}

// Registry holds at most one active timer per room code.
// Starting a timer for a room cancels whatever that room had before.
type Registry struct {
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	entries map[model.RoomCode]*entry
	nextGen uint64
}

// NewRegistry creates an empty timer registry
func NewRegistry(clock clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		clock:   clock,
		logger:  logger.With(slog.String("component", "timer_registry")),
		entries: make(map[model.RoomCode]*entry),
	}
}

// StartTimeout replaces the room's timer with one that fires fn once after d
func (r *Registry) StartTimeout(code model.RoomCode, d time.Duration, fn Func) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, h := r.replaceLocked(code, KindTimeout, 0)
	e.timer = r.clock.AfterFunc(d, func() {
		fn(h)
	})

	r.logger.Debug("timeout started",
		slog.String("room_code", string(code)),
		slog.Duration("after", d),
	)
	return h
}

// StartInterval replaces the room's timer with one that fires fn every period
// until cancelled or replaced
func (r *Registry) StartInterval(code model.RoomCode, period time.Duration, fn Func) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, h := r.replaceLocked(code, KindInterval, period)
	r.armLocked(e, h, fn)

	r.logger.Debug("interval started",
		slog.String("room_code", string(code)),
		slog.Duration("period", period),
	)
	return h
}

// armLocked schedules the next tick of an interval. The next tick is armed
// before fn runs so a slow callback does not drift the schedule.
func (r *Registry) armLocked(e *entry, h Handle, fn Func) {
	e.timer = r.clock.AfterFunc(e.period, func() {
		r.mu.Lock()
		if !r.currentLocked(h) {
			r.mu.Unlock()
			return
		}
		r.armLocked(e, h, fn)
		r.mu.Unlock()

		fn(h)
	})
}

func (r *Registry) replaceLocked(code model.RoomCode, kind Kind, period time.Duration) (*entry, Handle) {
	r.cancelLocked(code)

	r.nextGen++
	e := &entry{gen: r.nextGen, kind: kind, period: period}
	r.entries[code] = e
	return e, Handle{Code: code, gen: e.gen}
}

// Cancel stops and discards the room's timer. It is safe to call when the
// timer already fired or nothing is registered.
func (r *Registry) Cancel(code model.RoomCode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelLocked(code)
}

func (r *Registry) cancelLocked(code model.RoomCode) bool {
	e, ok := r.entries[code]
	if !ok {
		return false
	}
	delete(r.entries, code)
	if e.timer != nil {
		e.timer.Stop()
	}
	r.logger.Debug("timer cancelled",
		slog.String("room_code", string(code)),
		slog.String("kind", string(e.kind)),
	)
	return true
}

// CancelAll stops every registered timer
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code := range r.entries {
		r.cancelLocked(code)
	}
}

// Acquire reports whether h is still the room's live timer. Callers check it
// after taking the room lock so that a callback racing a cancellation does
// nothing. Acquiring a timeout consumes it.
func (r *Registry) Acquire(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.currentLocked(h) {
		return false
	}
	if e := r.entries[h.Code]; e.kind == KindTimeout {
		delete(r.entries, h.Code)
	}
	return true
}

func (r *Registry) currentLocked(h Handle) bool {
	e, ok := r.entries[h.Code]
	return ok && e.gen == h.gen
}

// Active returns the kind of the room's live timer, if any
func (r *Registry) Active(code model.RoomCode) (Kind, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[code]
	if !ok {
		return "", false
	}
	return e.kind, true
}

// Count returns the number of rooms with a live timer
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
