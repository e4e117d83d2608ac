package remote

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/felixgeelhaar/fortify/retry"
)

// ResilienceConfig holds the fault-tolerance settings of the client
type ResilienceConfig struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int

	// InitialDelay and MaxDelay bound the exponential backoff
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// CircuitBreaker opens after BreakerThreshold consecutive transient failures
	CircuitBreaker   bool
	BreakerThreshold int

	// MaxConcurrent caps in-flight calls (0 disables the bulkhead)
	MaxConcurrent int

	// RatePerSecond caps calls per second (0 disables rate limiting)
	RatePerSecond int
}

// DefaultResilienceConfig returns the defaults: three retries with
// exponential backoff and a bulkhead sized for the three-stream fan-out.
func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		MaxRetries:       3,
		InitialDelay:     200 * time.Millisecond,
		MaxDelay:         2 * time.Second,
		CircuitBreaker:   true,
		BreakerThreshold: 5,
		MaxConcurrent:    8,
	}
}

// policy applies fortify patterns around one raw exchange
type policy struct {
	retrier        retry.Retry[*rawResponse]
	circuitBreaker circuitbreaker.CircuitBreaker[*rawResponse]
	bulkhead       bulkhead.Bulkhead[*rawResponse]
	rateLimit      ratelimit.RateLimiter
}

func newPolicy(cfg ResilienceConfig, logger *slog.Logger) *policy {
	p := &policy{}

	if cfg.MaxRetries > 0 {
		initial := cfg.InitialDelay
		if initial <= 0 {
			initial = 200 * time.Millisecond
		}
		maxDelay := cfg.MaxDelay
		if maxDelay < initial {
			maxDelay = initial
		}
		p.retrier = retry.New[*rawResponse](retry.Config{
			MaxAttempts:   cfg.MaxRetries + 1,
			InitialDelay:  initial,
			MaxDelay:      maxDelay,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable:   IsTransient,
		})
	}

	if cfg.CircuitBreaker {
		threshold := cfg.BreakerThreshold
		if threshold <= 0 {
			threshold = 5
		}
		p.circuitBreaker = circuitbreaker.New[*rawResponse](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return int(counts.ConsecutiveFailures) >= threshold
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				logger.Warn("remote circuit breaker state change",
					"from", from.String(),
					"to", to.String())
			},
		})
	}

	if cfg.MaxConcurrent > 0 {
		p.bulkhead = bulkhead.New[*rawResponse](bulkhead.Config{
			MaxConcurrent: cfg.MaxConcurrent,
			MaxQueue:      cfg.MaxConcurrent * 4,
			QueueTimeout:  10 * time.Second,
		})
	}

	if cfg.RatePerSecond > 0 {
		p.rateLimit = ratelimit.New(&ratelimit.Config{
			Rate:     cfg.RatePerSecond,
			Burst:    cfg.RatePerSecond * 2,
			Interval: time.Second,
		})
	}

	return p
}

// execute runs op under bulkhead and circuit breaker, retrying transient
// failures unless once is set.
func (p *policy) execute(ctx context.Context, once bool, op func(context.Context) (*rawResponse, error)) (*rawResponse, error) {
	if p.rateLimit != nil && !p.rateLimit.Allow(ctx, "api") {
		return nil, ErrRateLimited
	}

	attempt := op
	if p.bulkhead != nil {
		attempt = func(ctx context.Context) (*rawResponse, error) {
			return p.bulkhead.Execute(ctx, op)
		}
	}
	if p.circuitBreaker != nil {
		guarded := attempt
		attempt = func(ctx context.Context) (*rawResponse, error) {
			return p.circuitBreaker.Execute(ctx, guarded)
		}
	}

	if once || p.retrier == nil {
		return attempt(ctx)
	}
	return p.retrier.Do(ctx, attempt)
}

func (p *policy) close() error {
	if p.rateLimit != nil {
		return p.rateLimit.Close()
	}
	return nil
}
