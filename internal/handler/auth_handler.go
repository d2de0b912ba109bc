package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/kirei/backend/internal/metrics"
	"github.com/kirei/backend/internal/ratelimit"
	"github.com/kirei/backend/internal/service"
	"github.com/kirei/backend/pkg/auth"
)

// AuthHandler は管理者認証関連の HTTP ハンドラ
type AuthHandler struct {
	authService    service.AuthService
	limiter        *ratelimit.LoginLimiter
	collector      *metrics.Collector
	sessionSecret  []byte
	cookieSecure   bool
	trustedProxies int
}

// AuthConfig は AuthHandler の設定
type AuthConfig struct {
	SessionSecret  string
	CookieSecure   bool
	TrustedProxies int
}

// NewAuthHandler は AuthHandler を生成する（DI: AuthService とリミッターを注入）
func NewAuthHandler(authService service.AuthService, limiter *ratelimit.LoginLimiter, collector *metrics.Collector, cfg AuthConfig) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		limiter:        limiter,
		collector:      collector,
		sessionSecret:  auth.SessionSecretBytes(cfg.SessionSecret),
		cookieSecure:   cfg.CookieSecure,
		trustedProxies: cfg.TrustedProxies,
	}
}

// loginRequest is the expected JSON body for POST /admin/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /admin/login.
// The attempt limiter is consulted before the credentials are evaluated, so a
// locked-out client is rejected even with the correct password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	clientID := ratelimit.ClientID(ClientIP(r, h.trustedProxies), r.UserAgent())

	res := h.limiter.Check(clientID)
	if !res.Allowed {
		h.collector.RecordRateLimited()
		slog.Warn("login rate limited", "client_id", clientID, "locked_until", res.LockedUntil)
		w.Header().Set("Retry-After", retryAfterSeconds(res.RetryAfter))
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":       "too_many_attempts",
			"retry_after": int(res.RetryAfter.Seconds()) + 1,
		})
		return
	}

	if err := h.authService.Login(req.Username, req.Password); err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("login check failed", "error", err)
		}
		h.collector.RecordLoginFailure()
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":              "invalid_credentials",
			"remaining_attempts": res.Remaining,
		})
		return
	}

	// 成功したらこのクライアントの試行カウンタを消す
	h.limiter.Reset(clientID)

	token := auth.CreateSessionToken(req.Username, time.Now().Add(auth.SessionTTL), h.sessionSecret)
	auth.SetSessionCookie(w, token, h.cookieSecure)
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Logout handles DELETE /admin/login. It clears the cookie unconditionally
// and is idempotent: logging out twice succeeds both times.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Session handles GET /admin/login, the session probe used by the admin UI.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	cookie, err := r.Cookie(auth.SessionCookieName())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]bool{"authenticated": false})
		return
	}

	username, err := auth.VerifySessionToken(cookie.Value, h.sessionSecret)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]bool{"authenticated": false})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"authenticated": true,
		"username":      username,
	})
}
