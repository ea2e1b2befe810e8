package canopy

import (
	"context"
	"fmt"
	"time"

	"github.com/petrijr/canopy/pkg/api"
)

// DrivePolicy controls how Drive re-invokes a tree that keeps returning
// RUNNING.
type DrivePolicy struct {
	// MaxTicks caps the number of evaluation calls. Zero means no cap.
	MaxTicks int

	// Interval is the delay before the second call. Zero polls without
	// sleeping.
	Interval time.Duration

	// Multiplier grows the delay after each call. Values <= 1 keep it
	// constant.
	Multiplier float64

	// MaxInterval caps the delay. Zero means no cap.
	MaxInterval time.Duration
}

// PollBuilder provides a fluent way to construct DrivePolicy values.
type PollBuilder struct {
	policy DrivePolicy
}

// Poll creates a PollBuilder allowing at most maxTicks evaluation calls.
//
// maxTicks <= 0 means no cap; the caller's context then bounds the drive.
func Poll(maxTicks int) PollBuilder {
	if maxTicks < 0 {
		maxTicks = 0
	}
	return PollBuilder{policy: DrivePolicy{MaxTicks: maxTicks}}
}

// WithConstantInterval sleeps delay between calls.
func (p PollBuilder) WithConstantInterval(delay time.Duration) PollBuilder {
	pol := p.policy
	pol.Interval = delay
	pol.Multiplier = 1.0
	pol.MaxInterval = 0
	return PollBuilder{policy: pol}
}

// WithExponentialBackoff configures a growing delay between calls:
//
//   - initial is the delay before the second call.
//   - multiplier > 1 grows the delay each call (default 2.0 if <= 0).
//   - max caps the delay; if <= 0, there is no cap.
//
// Example:
//
//	Poll(50).WithExponentialBackoff(10*time.Millisecond, 2.0, time.Second)
func (p PollBuilder) WithExponentialBackoff(initial time.Duration, multiplier float64, max time.Duration) PollBuilder {
	pol := p.policy
	pol.Interval = initial
	pol.MaxInterval = max
	if multiplier <= 0 {
		multiplier = 2.0
	}
	pol.Multiplier = multiplier
	return PollBuilder{policy: pol}
}

// Immediate disables any sleep between calls.
func (p PollBuilder) Immediate() PollBuilder {
	pol := p.policy
	pol.Interval = 0
	pol.MaxInterval = 0
	pol.Multiplier = 0
	return PollBuilder{policy: pol}
}

// Policy returns the underlying DrivePolicy to be passed to Drive.
func (p PollBuilder) Policy() DrivePolicy {
	return p.policy
}

// Drive evaluates the tree for the run tracked by cur until it returns
// SUCCESS or FAILURE. A nil cur uses the tree's default cursor.
//
// When ctx is done Drive returns StatusRunning and ctx.Err(). After
// MaxTicks calls that all returned RUNNING it returns StatusRunning and an
// error wrapping ErrTickLimit. In both cases the cursor keeps its
// suspension, so the run can be continued later.
func Drive[C any](ctx context.Context, t *Tree[C], cur *Cursor, c *C, policy DrivePolicy) (Status, error) {
	if cur == nil {
		cur = t.Cursor()
	}

	delay := policy.Interval
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return StatusRunning, err
		}

		st := t.ProcessWith(cur, c)
		if st != StatusRunning {
			return st, nil
		}
		if policy.MaxTicks > 0 && n >= policy.MaxTicks {
			return st, fmt.Errorf("canopy: drive %q: %d ticks: %w", t.name, n, api.ErrTickLimit)
		}

		if delay <= 0 {
			continue
		}
		wait := delay
		if policy.MaxInterval > 0 && wait > policy.MaxInterval {
			wait = policy.MaxInterval
		}
		select {
		case <-ctx.Done():
			return StatusRunning, ctx.Err()
		case <-time.After(wait):
		}

		if policy.Multiplier > 1 {
			next := time.Duration(float64(delay) * policy.Multiplier)
			if policy.MaxInterval > 0 && next > policy.MaxInterval {
				next = policy.MaxInterval
			}
			delay = next
		}
	}
}
