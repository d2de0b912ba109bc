package ratelimit

import (
	"strings"
	"testing"
	"time"
)

// newTestLimiter returns a limiter with a controllable clock. The returned
// advance function moves the clock forward.
func newTestLimiter(t *testing.T) (*LoginLimiter, func(time.Duration)) {
	t.Helper()
	l := NewLoginLimiter()
	t.Cleanup(l.Stop)

	now := time.Now()
	l.now = func() time.Time { return now }
	return l, func(d time.Duration) { now = now.Add(d) }
}

func TestLoginLimiter_FirstAttemptAllowed(t *testing.T) {
	l, _ := newTestLimiter(t)

	res := l.Check("1.2.3.4|agent")
	if !res.Allowed {
		t.Fatal("expected first attempt to be allowed")
	}
	if res.Remaining != 4 {
		t.Errorf("expected 4 remaining attempts, got %d", res.Remaining)
	}
}

func TestLoginLimiter_LockoutAfterThreshold(t *testing.T) {
	l, _ := newTestLimiter(t)
	const id = "1.2.3.4|agent"

	for i := 0; i < 5; i++ {
		if res := l.Check(id); !res.Allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	// 6th attempt within the window triggers the lockout.
	res := l.Check(id)
	if res.Allowed {
		t.Fatal("expected 6th attempt to be rejected")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("expected positive retry-after, got %v", res.RetryAfter)
	}
	if res.LockedUntil.IsZero() {
		t.Error("expected a lockout expiry to be set")
	}
}

func TestLoginLimiter_RejectedWhileLocked(t *testing.T) {
	l, advance := newTestLimiter(t)
	const id = "1.2.3.4|agent"

	for i := 0; i < 6; i++ {
		l.Check(id)
	}

	advance(10 * time.Minute)
	res := l.Check(id)
	if res.Allowed {
		t.Fatal("expected attempt during lockout to be rejected")
	}
	// 30 minute lockout minus the 10 elapsed.
	if res.RetryAfter > 20*time.Minute || res.RetryAfter <= 19*time.Minute {
		t.Errorf("expected retry-after around 20m, got %v", res.RetryAfter)
	}
}

func TestLoginLimiter_LockoutExpires(t *testing.T) {
	l, advance := newTestLimiter(t)
	const id = "1.2.3.4|agent"

	for i := 0; i < 6; i++ {
		l.Check(id)
	}

	advance(31 * time.Minute)
	res := l.Check(id)
	if !res.Allowed {
		t.Fatal("expected attempt after lockout expiry to be allowed")
	}
	if res.Remaining != 4 {
		t.Errorf("expected a fresh window with 4 remaining, got %d", res.Remaining)
	}
}

func TestLoginLimiter_WindowResetsCounter(t *testing.T) {
	l, advance := newTestLimiter(t)
	const id = "1.2.3.4|agent"

	for i := 0; i < 4; i++ {
		l.Check(id)
	}

	advance(16 * time.Minute)
	res := l.Check(id)
	if !res.Allowed {
		t.Fatal("expected attempt after window expiry to be allowed")
	}
	if res.Remaining != 4 {
		t.Errorf("expected counter reset to 1 (4 remaining), got %d remaining", res.Remaining)
	}
}

func TestLoginLimiter_ResetClearsEntry(t *testing.T) {
	l, _ := newTestLimiter(t)
	const id = "1.2.3.4|agent"

	for i := 0; i < 4; i++ {
		l.Check(id)
	}
	l.Reset(id)

	if l.Len() != 0 {
		t.Fatalf("expected no entries after reset, got %d", l.Len())
	}
	res := l.Check(id)
	if !res.Allowed || res.Remaining != 4 {
		t.Errorf("expected fresh counter after reset, got %+v", res)
	}
}

func TestLoginLimiter_IndependentClients(t *testing.T) {
	l, _ := newTestLimiter(t)

	for i := 0; i < 6; i++ {
		l.Check("1.2.3.4|agent")
	}

	if res := l.Check("5.6.7.8|agent"); !res.Allowed {
		t.Error("expected a different client to be unaffected by the lockout")
	}
}

func TestLoginLimiter_SweepDropsExpiredEntries(t *testing.T) {
	l, advance := newTestLimiter(t)

	l.Check("a|x")
	for i := 0; i < 6; i++ {
		l.Check("b|x") // locked out
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", l.Len())
	}

	// Window for "a" expired, lockout for "b" still active.
	advance(16 * time.Minute)
	l.sweep()
	if l.Len() != 1 {
		t.Fatalf("expected lockout entry to survive the sweep, got %d entries", l.Len())
	}

	// Lockout passed as well.
	advance(20 * time.Minute)
	l.sweep()
	if l.Len() != 0 {
		t.Fatalf("expected all entries swept, got %d", l.Len())
	}
}

func TestClientID_TruncatesUserAgent(t *testing.T) {
	ua := strings.Repeat("x", 200)
	id := ClientID("1.2.3.4", ua)
	if len(id) != len("1.2.3.4|")+48 {
		t.Errorf("expected user-agent truncated to 48 chars, got id of length %d", len(id))
	}

	if ClientID("1.2.3.4", "short") != "1.2.3.4|short" {
		t.Error("expected short user-agent to pass through unchanged")
	}
}
