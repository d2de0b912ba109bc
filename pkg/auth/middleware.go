package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const operatorKey contextKey = "operator"

// OperatorFromContext は context から認証済みオペレーター名を取得する
func OperatorFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(operatorKey).(string)
	return v, ok
}

// WithOperator は context にオペレーター名をセットする
func WithOperator(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, operatorKey, username)
}

// RequireAuth は認証必須ミドルウェア。セッションクッキーを検証し、
// オペレーター名を context にセットする。検証前に他の処理は一切行わない。
func RequireAuth(sessionSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName())
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}

			username, err := VerifySessionToken(cookie.Value, sessionSecret)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_session"})
				return
			}

			ctx := WithOperator(r.Context(), username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
