package youtube

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out calls by a fixed interval using a token bucket with a
// burst of one. The first call never waits.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer releasing one call per interval.
// An interval <= 0 disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return nil
	}

	if p.limiter.Allow() {
		return nil
	}

	reservation := p.limiter.Reserve()
	if !reservation.OK() {
		return fmt.Errorf("youtube: pacer cannot reserve token")
	}

	select {
	case <-time.After(reservation.Delay()):
		return nil
	case <-ctx.Done():
		reservation.Cancel()
		return ctx.Err()
	}
}
