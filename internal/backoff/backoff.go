package backoff

import (
	"math"
	"time"
)

// Exponential doubles the delay per attempt, starting at base and capped at max.
type Exponential struct {
	Base time.Duration
	Max  time.Duration
}

func (e Exponential) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(e.Base) * math.Pow(2, float64(attempt))
	if d >= float64(e.Max) {
		return e.Max
	}
	return Max(time.Duration(d), 0)
}

func Max(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
