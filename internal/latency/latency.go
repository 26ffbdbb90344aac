// Package latency simulates the round trip of a remote backend that does
// not exist yet. Store operations wait once before touching state; after
// the wait the mutation runs to completion regardless of the caller.
package latency

import (
	"context"
	"time"
)

// Simulator delays operations by a scaled duration. Scale 0 disables
// delays entirely, which is what tests use.
type Simulator struct {
	scale float64
}

// New creates a simulator. Negative scales are treated as 0.
func New(scale float64) *Simulator {
	if scale < 0 {
		scale = 0
	}
	return &Simulator{scale: scale}
}

// Wait blocks for d scaled by the simulator's factor, or until ctx is
// cancelled, in which case it returns ctx.Err().
func (s *Simulator) Wait(ctx context.Context, d time.Duration) error {
	scaled := time.Duration(float64(d) * s.scale)
	if scaled <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(scaled)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
