// Package ratelimit bounds operator login attempts per client to blunt
// credential guessing. It is a single-process, in-memory design: a
// horizontally scaled deployment would need a shared counter store instead.
package ratelimit

import (
	"sync"
	"time"
)

// Fixed thresholds; deliberately not configurable.
const (
	attemptThreshold = 5
	attemptWindow    = 15 * time.Minute
	lockoutDuration  = 30 * time.Minute
	sweepInterval    = time.Hour

	maxUserAgentLen = 48
)

// entry は 1 クライアント分の試行カウンタ
type entry struct {
	count        int
	firstAttempt time.Time
	lockoutUntil time.Time // zero when no lockout is active
}

// Result is the outcome of a single attempt check.
type Result struct {
	Allowed bool
	// Remaining is how many attempts are left in the current window.
	Remaining int
	// RetryAfter is how long the caller must wait when rejected.
	RetryAfter time.Duration
	// LockedUntil is the lockout expiry when a lockout is active.
	LockedUntil time.Time
}

// ClientID derives the limiter key from the client address and a truncated
// user-agent string.
func ClientID(ip, userAgent string) string {
	if len(userAgent) > maxUserAgentLen {
		userAgent = userAgent[:maxUserAgentLen]
	}
	return ip + "|" + userAgent
}

// LoginLimiter tracks failed login attempts per client identifier.
// All mutations are short single-key read-modify-write operations under one
// mutex; there are no cross-key invariants.
type LoginLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	now    func() time.Time
	stopCh chan struct{}
}

// NewLoginLimiter creates a limiter and starts the background sweep that
// drops expired entries.
func NewLoginLimiter() *LoginLimiter {
	l := &LoginLimiter{
		entries: make(map[string]*entry),
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Stop はバックグラウンドの掃除ゴルーチンを停止する
func (l *LoginLimiter) Stop() {
	close(l.stopCh)
}

// Check records one login attempt for clientID and reports whether it may
// proceed. It must be called before the credentials are evaluated, so every
// attempt counts whether or not the password turns out to be correct.
func (l *LoginLimiter) Check(clientID string) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[clientID]
	if !ok {
		l.entries[clientID] = &entry{count: 1, firstAttempt: now}
		return Result{Allowed: true, Remaining: attemptThreshold - 1}
	}

	if !e.lockoutUntil.IsZero() {
		if now.Before(e.lockoutUntil) {
			return Result{
				Allowed:     false,
				RetryAfter:  e.lockoutUntil.Sub(now),
				LockedUntil: e.lockoutUntil,
			}
		}
		// Lockout expired: this attempt opens a fresh window.
		e.count = 1
		e.firstAttempt = now
		e.lockoutUntil = time.Time{}
		return Result{Allowed: true, Remaining: attemptThreshold - 1}
	}

	if now.Sub(e.firstAttempt) >= attemptWindow {
		e.count = 1
		e.firstAttempt = now
		return Result{Allowed: true, Remaining: attemptThreshold - 1}
	}

	e.count++
	if e.count > attemptThreshold {
		e.lockoutUntil = now.Add(lockoutDuration)
		return Result{
			Allowed:     false,
			RetryAfter:  lockoutDuration,
			LockedUntil: e.lockoutUntil,
		}
	}
	return Result{Allowed: true, Remaining: attemptThreshold - e.count}
}

// Reset clears the entry for clientID. Called once on successful login.
func (l *LoginLimiter) Reset(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, clientID)
}

// Len returns the number of tracked clients. For tests and metrics.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *LoginLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stopCh:
			return
		}
	}
}

// sweep drops entries whose lockout has passed, or whose window has expired
// with no lockout active, bounding memory growth.
func (l *LoginLimiter) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, e := range l.entries {
		if !e.lockoutUntil.IsZero() {
			if now.After(e.lockoutUntil) {
				delete(l.entries, id)
			}
			continue
		}
		if now.Sub(e.firstAttempt) >= attemptWindow {
			delete(l.entries, id)
		}
	}
}
