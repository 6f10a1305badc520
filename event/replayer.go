package event

import (
	"context"
	"time"
)

// ReplayConfig configures a Replayer's pacing and optional filtering.
type ReplayConfig struct {
	SpeedMultiplier   float64
	RespectTimestamps bool
	Filter            Expr
	Context           context.Context
}

// Replayer re-delivers a recorded, insertion-ordered slice of events to a
// callback, optionally pacing delivery to the original inter-arrival
// timing. Non-monotonic timestamps in the source buffer are not special
// cased — Replay assumes the buffer is already time-ordered.
type Replayer struct {
	events []Event
	cfg    ReplayConfig
	cursor int
}

// NewReplayer wraps events (not copied) with cfg, defaulting
// SpeedMultiplier to 1 when unset.
func NewReplayer(events []Event, cfg ReplayConfig) *Replayer {
	if cfg.SpeedMultiplier <= 0 {
		cfg.SpeedMultiplier = 1
	}
	return &Replayer{events: events, cfg: cfg}
}

// Reset rewinds the cursor to the start of the buffer.
func (r *Replayer) Reset() { r.cursor = 0 }

// SeekToTime positions the cursor at the first event with
// timestamp >= ts (milliseconds since epoch).
func (r *Replayer) SeekToTime(ts int64) {
	for i, e := range r.events {
		if e.Metadata().TimestampMS >= ts {
			r.cursor = i
			return
		}
	}
	r.cursor = len(r.events)
}

// ReplayNext returns the next event matching cfg.Filter and advances the
// cursor past it. ok is false once the buffer is exhausted.
func (r *Replayer) ReplayNext() (e Event, ok bool) {
	for r.cursor < len(r.events) {
		candidate := r.events[r.cursor]
		r.cursor++
		if matchesFilter(candidate, r.cfg.Filter) {
			return candidate, true
		}
	}
	return Event{}, false
}

// Replay iterates from the cursor to the end of the buffer, invoking
// callback for each matching event. When RespectTimestamps is set, it
// sleeps between deliveries so that wall-clock delta from the first
// delivered event equals (event.timestamp - first.timestamp) / speed.
// Returns early if ctx is cancelled.
func (r *Replayer) Replay(ctx context.Context, callback func(context.Context, Event) error) error {
	var firstTS int64
	var replayStart time.Time
	haveFirst := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		e, ok := r.ReplayNext()
		if !ok {
			return nil
		}

		if r.cfg.RespectTimestamps {
			ts := e.Metadata().TimestampMS
			if !haveFirst {
				firstTS = ts
				replayStart = time.Now()
				haveFirst = true
			} else {
				deltaMS := float64(ts-firstTS) / r.cfg.SpeedMultiplier
				targetDelta := time.Duration(deltaMS * float64(time.Millisecond))
				elapsed := time.Since(replayStart)
				if wait := targetDelta - elapsed; wait > 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-time.After(wait):
					}
				}
			}
		}

		cbCtx := r.cfg.Context
		if cbCtx == nil {
			cbCtx = ctx
		}
		if err := callback(cbCtx, e); err != nil {
			return err
		}
	}
}
