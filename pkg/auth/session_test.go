package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var testSecret = SessionSecretBytes("test-secret")

func TestSessionToken_RoundTrip(t *testing.T) {
	token := CreateSessionToken("admin", time.Now().Add(time.Hour), testSecret)

	username, err := VerifySessionToken(token, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if username != "admin" {
		t.Errorf("expected username=admin, got %q", username)
	}
}

func TestSessionToken_TamperedSignature(t *testing.T) {
	token := CreateSessionToken("admin", time.Now().Add(time.Hour), testSecret)
	tampered := token[:len(token)-2] + "zz"

	if _, err := VerifySessionToken(tampered, testSecret); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token := CreateSessionToken("admin", time.Now().Add(time.Hour), testSecret)

	other := SessionSecretBytes("another-secret")
	if _, err := VerifySessionToken(token, other); err == nil {
		t.Error("expected token signed with a different secret to be rejected")
	}
}

func TestSessionToken_Expired(t *testing.T) {
	token := CreateSessionToken("admin", time.Now().Add(-time.Minute), testSecret)

	_, err := VerifySessionToken(token, testSecret)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestSessionToken_MalformedInput(t *testing.T) {
	for _, token := range []string{"", "no-dot", "not-base64!.abcdef", "YWRtaW4=.deadbeef"} {
		if _, err := VerifySessionToken(token, testSecret); err == nil {
			t.Errorf("expected malformed token %q to be rejected", token)
		}
	}
}

func TestSessionSecretBytes_PadsShortSecrets(t *testing.T) {
	b := SessionSecretBytes("short")
	if len(b) != 32 {
		t.Errorf("expected short secret padded to 32 bytes, got %d", len(b))
	}

	long := strings.Repeat("a", 40)
	if len(SessionSecretBytes(long)) != 40 {
		t.Error("expected long secret to pass through unchanged")
	}
}

func TestSessionCookie_SetAndClear(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "token-value", false)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != sessionCookieName || c.Value != "token-value" {
		t.Errorf("unexpected cookie: %+v", c)
	}
	if !c.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite=Lax, got %v", c.SameSite)
	}
	if c.MaxAge != int(SessionTTL.Seconds()) {
		t.Errorf("expected MaxAge=%d, got %d", int(SessionTTL.Seconds()), c.MaxAge)
	}

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec)
	cookies = rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Error("expected clearing cookie with negative MaxAge")
	}
}
