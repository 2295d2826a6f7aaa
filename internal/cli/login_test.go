package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "test",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func TestLoginWithTokenFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	token := signedToken(t, time.Now().Add(time.Hour))
	out, err := executeCommand("login", "--token", token, "--server", "http://myhost:9090/")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Expires:") {
		t.Errorf("output = %q, want expiry", out)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != token {
		t.Error("token not stored")
	}
	if cfg.ExpiresAt.IsZero() {
		t.Error("expiry not stored")
	}
	if cfg.ServerURL != "http://myhost:9090" {
		t.Errorf("server_url = %q", cfg.ServerURL)
	}
}

func TestLoginReadsStdin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	root := NewRootCmd()
	root.SetArgs([]string{"login"})
	root.SetIn(strings.NewReader("opaque-token\n"))
	root.SetOut(new(strings.Builder))
	root.SetErr(new(strings.Builder))
	if err := root.Execute(); err != nil {
		t.Fatalf("login: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "opaque-token" {
		t.Errorf("token = %q", cfg.Token)
	}
	if !cfg.ExpiresAt.IsZero() {
		t.Errorf("opaque token has no expiry, got %v", cfg.ExpiresAt)
	}
}

func TestLoginRejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"expired", "expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			clearEnv(t)

			token := tt.token
			if token == "expired" {
				token = signedToken(t, time.Now().Add(-time.Hour))
			}
			if _, err := executeCommand("login", "--token", token); err == nil {
				t.Fatal("expected error")
			}
			cfg, err := loadConfig()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.Token != "" {
				t.Error("rejected token was stored")
			}
		})
	}
}
