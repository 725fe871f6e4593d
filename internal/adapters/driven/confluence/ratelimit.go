package confluence

import (
	"golang.org/x/time/rate"
)

const (
	// DefaultRate is the proactive throttle in requests per second.
	// Cloud installations reject sustained bursts well below their
	// documented limits, so the default stays conservative.
	DefaultRate = 5.0

	// DefaultBurst allows short bursts during stub fan-out.
	DefaultBurst = 5
)

// newLimiter builds the proactive request limiter. A non-positive
// requests-per-second disables throttling.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), DefaultBurst)
}
