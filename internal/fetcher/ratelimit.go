package fetcher

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"gdoc-latex/internal/models"

	"golang.org/x/time/rate"
)

// RateLimitBackoff is how long a RateLimited fetcher pauses after a 429.
const RateLimitBackoff = 10 * time.Second

// RateLimited throttles a Fetcher with a token bucket so batch runs stay
// under Google's per-user quotas.
type RateLimited struct {
	next    Fetcher
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// NewRateLimited wraps next. A non-positive rate disables throttling.
func NewRateLimited(next Fetcher, requestsPerSecond float64, burst int) *RateLimited {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (r *RateLimited) Name() string { return r.next.Name() }

// Fetch waits for a token, then delegates.
func (r *RateLimited) Fetch(ctx context.Context, src models.Source) (models.Document, error) {
	if err := r.wait(ctx); err != nil {
		return models.Document{}, err
	}

	doc, err := r.next.Fetch(ctx, src)
	var httpErr *models.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		r.mu.Lock()
		r.retryAt = time.Now().Add(RateLimitBackoff)
		r.mu.Unlock()
	}
	return doc, err
}

func (r *RateLimited) wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return r.limiter.Wait(ctx)
}
