package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a token budget per minute for model API calls.
// The budget refills fully at the start of each minute window.
type TokenLimiter struct {
	mu           sync.Mutex
	maxPerMinute int
	remaining    int
	windowStart  time.Time
}

// NewTokenLimiter creates a TokenLimiter with the given per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMinute: maxPerMinute,
		remaining:    maxPerMinute,
		windowStart:  time.Now(),
	}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill(time.Now())
	return l.remaining
}

// Wait blocks until the given number of tokens can be consumed, or the
// context is canceled. A request larger than the whole budget is allowed
// through once the window is fresh, to avoid blocking forever.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		l.mu.Lock()
		now := time.Now()
		l.refill(now)

		if tokens >= l.maxPerMinute {
			if l.remaining == l.maxPerMinute {
				l.remaining = 0
				l.mu.Unlock()
				return nil
			}
		} else if l.remaining >= tokens {
			l.remaining -= tokens
			l.mu.Unlock()
			return nil
		}

		wait := l.windowStart.Add(time.Minute).Sub(now)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (l *TokenLimiter) refill(now time.Time) {
	if now.Sub(l.windowStart) >= time.Minute {
		l.windowStart = now
		l.remaining = l.maxPerMinute
	}
}
