package middleware

import (
	"context"
	"sync"
	"time"
)

const (
	maxInvalidAttempts = 5
	attemptWindow      = time.Minute
)

// InvalidAuthRateLimiter counts failed logins per IP.
type InvalidAuthRateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	now      func() time.Time
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

func NewInvalidAuthRateLimiter() *InvalidAuthRateLimiter {
	return &InvalidAuthRateLimiter{
		attempts: make(map[string]*attemptInfo),
		now:      time.Now,
	}
}

// Allow records a failed attempt and reports whether the IP is still under
// the limit of 5 attempts per minute.
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > attemptWindow {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	if info.count >= maxInvalidAttempts {
		return false
	}
	info.count++
	return true
}

// Blocked reports whether the IP has used up its attempts in the current window.
func (r *InvalidAuthRateLimiter) Blocked(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.attempts[ip]
	return ok && r.now().Sub(info.firstAt) <= attemptWindow && info.count >= maxInvalidAttempts
}

// Cleanup drops expired windows every interval until ctx is done.
func (r *InvalidAuthRateLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			now := r.now()
			for ip, info := range r.attempts {
				if now.Sub(info.firstAt) > attemptWindow {
					delete(r.attempts, ip)
				}
			}
			r.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}
