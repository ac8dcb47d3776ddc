package limiter

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"

	// Below this many remaining calls the limiter waits for the reset instead of spending the rest.
	minRemaining = 5
)

// RateLimiter throttles calls to the source platform: a token bucket caps requests
// per second, and the X-RateLimit headers of the last response pause calls near the hourly quota.
type RateLimiter struct {
	bucket    *rate.Limiter
	mu        sync.Mutex
	remaining int
	resetTime time.Time
	known     bool
}

func NewRateLimiter(maxRequests int) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(maxRequests), maxRequests),
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	resetTime := r.resetTime
	r.mu.Unlock()

	if r.exhausted(time.Now()) {
		timer := time.NewTimer(time.Until(resetTime))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// Observe reads the rate limit headers of a response.
func (r *RateLimiter) Observe(resp *http.Response) {
	if resp == nil {
		return
	}
	remaining, errRemaining := strconv.Atoi(resp.Header.Get(HeaderRateRemaining))
	reset, errReset := strconv.ParseInt(resp.Header.Get(HeaderRateReset), 10, 64)
	if errRemaining != nil || errReset != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = remaining
	r.resetTime = time.Unix(reset, 0)
	r.known = true
}

func (r *RateLimiter) Remaining() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining, r.known
}

func (r *RateLimiter) exhausted(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.known && r.remaining < minRemaining && now.Before(r.resetTime)
}
