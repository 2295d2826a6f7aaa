package cli

import (
	"testing"

	"github.com/evcraddock/garage/internal/session"
)

func TestLogoutClearsToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	// Save a config with a session
	cfg := CLIConfig{Session: session.Session{Token: "tok-123"}, ServerURL: "http://myhost:9090"}
	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := executeCommand("logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if out == "" {
		t.Error("expected confirmation output")
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Token != "" {
		t.Errorf("token = %q, want empty after logout", loaded.Token)
	}
	// Server URL should be preserved
	if loaded.ServerURL != "http://myhost:9090" {
		t.Errorf("server_url = %q, want preserved after logout", loaded.ServerURL)
	}
}

func TestLogoutWhenNotLoggedIn(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	// No config file, should not error
	out, err := executeCommand("logout")
	if err != nil {
		t.Fatalf("logout with no config: %v", err)
	}
	if out != "Not logged in.\n" {
		t.Errorf("output = %q", out)
	}
}
