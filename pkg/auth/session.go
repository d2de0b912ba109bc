package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrExpired はセッショントークンの有効期限切れ
var ErrExpired = errors.New("session expired")

// SessionTTL はセッションクッキーの有効期間
const SessionTTL = 7 * 24 * time.Hour

// CreateSessionToken はユーザー名と有効期限から署名付きセッショントークンを生成する。
// ペイロードは "username|expiryUnix"、署名は HMAC-SHA256。
func CreateSessionToken(username string, expiresAt time.Time, secret []byte) string {
	payload := []byte(username + "|" + strconv.FormatInt(expiresAt.Unix(), 10))
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	sig := hex.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString(payload) + "." + sig
}

// VerifySessionToken はトークンの署名と有効期限を検証しユーザー名を返す
func VerifySessionToken(token string, secret []byte) (string, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", errors.New("invalid token format")
	}
	payload, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return "", errors.New("invalid signature")
	}

	fields := strings.SplitN(string(payload), "|", 2)
	if len(fields) != 2 {
		return "", errors.New("invalid payload")
	}
	expiry, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return "", errors.New("invalid expiry")
	}
	if time.Now().After(time.Unix(expiry, 0)) {
		return "", ErrExpired
	}
	return fields[0], nil
}

const sessionCookieName = "kirei_admin_session"
const minSecretLen = 32

// SessionCookieName はセッションクッキー名
func SessionCookieName() string {
	return sessionCookieName
}

// SessionSecretBytes は文字列からセッション署名用のバイト列を生成する（最低32バイト）
func SessionSecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < minSecretLen {
		out := make([]byte, minSecretLen)
		copy(out, b)
		return out
	}
	return b
}

// SetSessionCookie はセッショントークンを HttpOnly クッキーに保存する
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// ClearSessionCookie はセッションクッキーを削除する。常に成功する（冪等）
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}
