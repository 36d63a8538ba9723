package xclient

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	headerRateLimit     = "x-rate-limit-limit"
	headerRateRemaining = "x-rate-limit-remaining"
	headerRateReset     = "x-rate-limit-reset"
	headerRetryAfter    = "Retry-After"
)

// newLimiter creates the proactive client-side token bucket.
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		rps = 2.0
	}
	if burst <= 0 {
		burst = 10
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// rateWindow tracks the server-side window reported by x-rate-limit-* headers.
type rateWindow struct {
	mu        sync.Mutex
	limit     int
	remaining int
	resetAt   time.Time
}

func (r *rateWindow) update(resp *http.Response) {
	if resp == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, err := strconv.Atoi(resp.Header.Get(headerRateLimit)); err == nil {
		r.limit = v
	}
	if v, err := strconv.Atoi(resp.Header.Get(headerRateRemaining)); err == nil {
		r.remaining = v
	}
	if v, err := strconv.ParseInt(resp.Header.Get(headerRateReset), 10, 64); err == nil {
		r.resetAt = time.Unix(v, 0).UTC()
	}
}

func (r *rateWindow) snapshot() (limit, remaining int, resetAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit, r.remaining, r.resetAt
}

// waitFor returns how long to sleep before retrying a 429: Retry-After when present,
// otherwise until the reported window reset, otherwise the fallback.
func (r *rateWindow) waitFor(resp *http.Response, now time.Time, fallback time.Duration) time.Duration {
	if ra := resp.Header.Get(headerRetryAfter); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			return time.Duration(secs) * time.Second
		}
		if t, err := http.ParseTime(ra); err == nil {
			if d := t.Sub(now); d > 0 {
				return d
			}
			return 0
		}
	}
	_, _, resetAt := r.snapshot()
	if !resetAt.IsZero() {
		if d := resetAt.Sub(now); d > 0 {
			// reset is second-granular
			return d + time.Second
		}
		return 0
	}
	return fallback
}
