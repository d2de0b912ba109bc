package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SecurityHeaders adds security response headers (CSP, X-Frame-Options, etc.)
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-XSS-Protection", "0")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// ClientIP extracts the real client IP, reading from the rightmost trusted
// proxy position in X-Forwarded-For to prevent spoofing.
func ClientIP(r *http.Request, trustedProxyCount int) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		// The rightmost entry added by our infrastructure is at
		// index len(parts) - trustedProxyCount.
		idx := len(parts) - trustedProxyCount
		if idx >= 0 && idx < len(parts) {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// ipLimiter は IP ごとのトークンバケットとアクセス時刻を保持する
type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// ContactThrottle provides per-IP token-bucket rate limiting for the public
// contact endpoint.
type ContactThrottle struct {
	rate           rate.Limit
	burst          int
	trustedProxies int

	mu      sync.Mutex
	clients map[string]*ipLimiter

	stopCh chan struct{}
}

// NewContactThrottle creates a throttle allowing perMinute submissions per IP
// with the given burst, and starts a background cleanup of idle entries.
func NewContactThrottle(perMinute, burst, trustedProxies int) *ContactThrottle {
	t := &ContactThrottle{
		rate:           rate.Limit(float64(perMinute) / 60.0),
		burst:          burst,
		trustedProxies: trustedProxies,
		clients:        make(map[string]*ipLimiter),
		stopCh:         make(chan struct{}),
	}
	go t.cleanupLoop()
	return t
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する
func (t *ContactThrottle) Stop() {
	close(t.stopCh)
}

// Middleware returns an http.Handler that enforces the throttle.
func (t *ContactThrottle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, t.trustedProxies)

		if !t.limiterFor(ip).Allow() {
			retry := time.Duration(float64(time.Second) / float64(t.rate))
			w.Header().Set("Retry-After", retryAfterSeconds(retry))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate_limit_exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (t *ContactThrottle) limiterFor(ip string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if il, ok := t.clients[ip]; ok {
		il.lastAccess = time.Now()
		return il.limiter
	}

	limiter := rate.NewLimiter(t.rate, t.burst)
	t.clients[ip] = &ipLimiter{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

// cleanupLoop periodically removes stale entries from the clients map.
func (t *ContactThrottle) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			t.mu.Lock()
			for ip, il := range t.clients {
				if il.lastAccess.Before(cutoff) {
					delete(t.clients, ip)
				}
			}
			t.mu.Unlock()
		case <-t.stopCh:
			return
		}
	}
}
