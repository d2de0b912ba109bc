package config

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// clearEnv blanks every variable Load reads so ambient values cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "PORT", "FRONTEND_URL", "SESSION_SECRET",
		"COOKIE_SECURE", "ENV", "ADMIN_USERNAME", "ADMIN_PASSWORD_HASH",
		"TRUSTED_PROXIES", "CONTACT_RATE_PER_MIN", "CONTACT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("expected default admin username, got %q", cfg.AdminUsername)
	}
	if cfg.CookieSecure {
		t.Error("expected insecure cookies outside production by default")
	}
	if cfg.TrustedProxies != 1 {
		t.Errorf("expected one trusted proxy by default, got %d", cfg.TrustedProxies)
	}
	if cfg.SessionSecret == "" {
		t.Error("expected a development fallback session secret")
	}

	// The default credentials must be a usable bcrypt hash of the
	// documented default password.
	if err := bcrypt.CompareHashAndPassword(cfg.AdminPasswordHash, []byte(defaultAdminPassword)); err != nil {
		t.Errorf("default password hash does not verify: %v", err)
	}
}

func TestLoad_ExplicitPasswordHash(t *testing.T) {
	clearEnv(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(cfg.AdminPasswordHash, []byte("s3cret")); err != nil {
		t.Errorf("configured hash does not verify: %v", err)
	}
}

func TestLoad_RejectsMalformedPasswordHash(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_PASSWORD_HASH", "plaintext-password")

	if _, err := Load(); err == nil {
		t.Error("expected an error for a non-bcrypt ADMIN_PASSWORD_HASH")
	}
}

func TestLoad_ProductionEnablesSecureCookies(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.CookieSecure {
		t.Error("expected secure cookies in production")
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "not-a-number")
	t.Setenv("CONTACT_RATE_PER_MIN", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TrustedProxies != 1 {
		t.Errorf("expected fallback for invalid integer, got %d", cfg.TrustedProxies)
	}
	if cfg.ContactRatePerMin != 20 {
		t.Errorf("expected parsed rate 20, got %d", cfg.ContactRatePerMin)
	}
}
