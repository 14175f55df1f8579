// Package wait provides a fixed-interval poll-until-done primitive used for
// engine readiness and scan status loops.
package wait

import (
	"context"
	"errors"
	"time"
)

// ErrDeadline is returned when the condition does not complete in time.
var ErrDeadline = errors.New("wait: deadline exceeded")

// Config controls a polling loop.
type Config struct {
	Interval time.Duration // Sleep between condition checks.
	Deadline time.Duration // Overall bound. Zero means wait forever.
}

// Condition is checked once per poll. Returning done=true stops the loop
// successfully; returning an error stops it with that error.
type Condition func(ctx context.Context) (done bool, err error)

// sleeper abstracts the inter-poll sleep so tests can run without timers.
type sleeper interface {
	sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Until polls cond every cfg.Interval until it reports done, fails, the
// context is cancelled, or cfg.Deadline elapses (ErrDeadline). The final
// sleep is shortened so that one last check lands on the deadline itself.
func Until(ctx context.Context, cfg Config, cond Condition) error {
	return untilWithSleeper(ctx, cfg, cond, realSleeper{})
}

func untilWithSleeper(ctx context.Context, cfg Config, cond Condition, s sleeper) error {
	var deadline time.Time
	if cfg.Deadline > 0 {
		deadline = time.Now().Add(cfg.Deadline)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		pause := cfg.Interval
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return ErrDeadline
			}
			if remaining < pause {
				pause = remaining
			}
		}
		if err := s.sleep(ctx, pause); err != nil {
			return err
		}
	}
}
