package llm

import (
	"math"
	"math/rand"
	"time"

	"github.com/gitweekly/gitweekly/internal/redact"
)

// Policy retries a single external call with category-aware exponential
// backoff. Authentication, not-found, and payload-too-large failures are
// never retried: credentials need human intervention, and an oversized
// payload is a structural signal to shrink the batch, not a transient
// condition. Every surfaced message passes through the redaction filter.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration

	// Filter redacts credentials from surfaced messages. Required.
	Filter *redact.Filter

	// sleep is swappable in tests.
	sleep func(time.Duration)
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithSleeper overrides how the policy waits between attempts. Tests use
// this to avoid real backoff sleeps.
func WithSleeper(fn func(time.Duration)) PolicyOption {
	return func(p *Policy) {
		p.sleep = fn
	}
}

// NewPolicy creates a retry policy with the given attempt budget and
// base delay.
func NewPolicy(maxRetries int, baseDelay time.Duration, filter *redact.Filter, opts ...PolicyOption) *Policy {
	if maxRetries < 1 {
		// Zero retries still means one attempt.
		maxRetries = 1
	}
	p := &Policy{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		Filter:     filter,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Do invokes fn until it succeeds, fails non-retryably, or the attempt
// budget is exhausted. The returned error is category-labeled and
// redacted.
func (p *Policy) Do(fn func() (string, error)) (string, error) {
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		category := Classify(err)
		if !category.Retryable() {
			return "", p.labeled(category, err)
		}
		if attempt == p.MaxRetries-1 {
			break
		}

		sleep(p.backoff(category, attempt))
	}

	return "", p.labeled(Classify(lastErr), lastErr)
}

// backoff computes the wait before the next attempt. Rate-limit backoff
// grows with base 3 where other transient failures grow with base 2,
// since provider-side limits typically need longer cool-downs. Jitter
// spreads concurrent retries apart.
func (p *Policy) backoff(category Category, attempt int) time.Duration {
	var factor float64
	var jitter time.Duration

	switch category {
	case RateLimit:
		factor = math.Pow(3, float64(attempt))
		jitter = randDuration(1*time.Second, 5*time.Second)
	case Network:
		factor = math.Pow(2, float64(attempt))
		jitter = randDuration(500*time.Millisecond, 2*time.Second)
	default:
		factor = math.Pow(2, float64(attempt))
		jitter = randDuration(100*time.Millisecond, time.Second)
	}

	return time.Duration(float64(p.BaseDelay)*factor) + jitter
}

// labeled wraps err with its category label, redacting credentials.
func (p *Policy) labeled(category Category, err error) error {
	msg := err.Error()
	if apiErr, ok := AsAPIError(err); ok {
		// Avoid stacking the category label twice.
		msg = apiErr.Message
	}
	if p.Filter != nil {
		msg = p.Filter.Redact(msg)
	}
	return &APIError{Category: category, Message: msg}
}

// randDuration returns a uniformly random duration in [lo, hi).
func randDuration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo)))
}
