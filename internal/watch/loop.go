// Package watch repeats an export on a fixed interval.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/joshuapare/regjson/internal/logger"
)

// DefaultInterval is the pause between two cycles.
const DefaultInterval = time.Second

// CycleFunc performs one export. A returned error is logged and does not
// stop the loop.
type CycleFunc func(ctx context.Context) error

// Loop runs Cycle, waits Interval, and repeats.
type Loop struct {
	Cycle     CycleFunc
	Interval  time.Duration   // 0 means DefaultInterval
	MaxCycles int             // 0 means until the context is cancelled
	Clock     clockwork.Clock // nil means the real clock
	Logger    *slog.Logger    // nil means logger.L
}

// Result summarizes a finished loop.
type Result struct {
	Cycles int
	Failed int
}

// Run blocks until ctx is cancelled or MaxCycles cycles have run. It
// returns ctx.Err() on cancellation and nil when MaxCycles was reached.
// The wait happens after each cycle, so the first export starts at once.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	var res Result
	if l.Cycle == nil {
		return res, errors.New("watch: no cycle function")
	}
	clock := l.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log := l.Logger
	if log == nil {
		log = logger.L
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		res.Cycles++
		if err := l.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Failed++
			log.Error("export failed", "cycle", res.Cycles, "error", err)
		}

		if l.MaxCycles > 0 && res.Cycles >= l.MaxCycles {
			return res, nil
		}

		timer := clock.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return res, ctx.Err()
		case <-timer.Chan():
		}
	}
}
