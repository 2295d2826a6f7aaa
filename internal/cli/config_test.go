package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/evcraddock/garage/internal/currency"
	"github.com/evcraddock/garage/internal/session"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GARAGE_SERVER_URL", "GARAGE_TOKEN", "GARAGE_CURRENCY_URL", "GARAGE_CURRENCY_API_KEY",
		"GARAGE_BASE_CURRENCY", "GARAGE_LOG_LEVEL", "GARAGE_DEV_MODE", "GARAGE_SIGNING_KEY", "APP_ENV",
	} {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatalf("unsetenv %s: %v", k, err)
		}
	}
}

func TestConfigSaveAndLoad(t *testing.T) {
	// Use a temp dir as home
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	cfg := CLIConfig{
		Session:      session.Session{Token: "tok-123", ExpiresAt: exp},
		ServerURL:    "http://myhost:9090",
		BaseCurrency: "EUR",
		Currencies:   []string{"EUR", "USD"},
	}

	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Verify file exists
	path := filepath.Join(tmp, ".config", "garage", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not found: %v", err)
	}
	for _, key := range []string{"server_url:", "token:", "token_expires_at:", "base_currency:"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("config file missing %s:\n%s", key, data)
		}
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ServerURL != cfg.ServerURL {
		t.Errorf("server_url = %q, want %q", loaded.ServerURL, cfg.ServerURL)
	}
	if loaded.Token != "tok-123" || !loaded.ExpiresAt.Equal(exp) {
		t.Errorf("session = %+v", loaded.Session)
	}
	if len(loaded.Currencies) != 2 {
		t.Errorf("currencies = %v", loaded.Currencies)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg.ServerURL != "" || cfg.Token != "" {
		t.Error("expected zero-value config for missing file")
	}
}

func TestSettingsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	s, err := loadSettings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.ServerURL != defaultServerURL {
		t.Errorf("server url = %q", s.ServerURL)
	}
	if s.CurrencyURL != currency.DefaultURL {
		t.Errorf("currency url = %q", s.CurrencyURL)
	}
	if s.BaseCurrency != currency.DefaultBase {
		t.Errorf("base currency = %q", s.BaseCurrency)
	}
	if len(s.Currencies) != len(defaultCurrencies) {
		t.Errorf("currencies = %v", s.Currencies)
	}
}

func TestSettingsEnvOverridesConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	if err := saveConfig(CLIConfig{ServerURL: "http://fromconfig:1", BaseCurrency: "eur"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	s, err := loadSettings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.ServerURL != "http://fromconfig:1" {
		t.Errorf("server url = %q, want config value", s.ServerURL)
	}
	if s.BaseCurrency != "EUR" {
		t.Errorf("base currency = %q, want EUR", s.BaseCurrency)
	}

	t.Setenv("GARAGE_SERVER_URL", "http://fromenv:2")
	t.Setenv("GARAGE_DEV_MODE", "true")
	s, err = loadSettings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.ServerURL != "http://fromenv:2" {
		t.Errorf("server url = %q, want env value", s.ServerURL)
	}
	if !s.DevMode {
		t.Error("expected dev mode from env")
	}
}

func TestSettingsBadEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("GARAGE_DEV_MODE", "maybe")

	if _, err := loadSettings(); err == nil {
		t.Fatal("expected error for unparsable GARAGE_DEV_MODE")
	}
}

func TestSettingsDotenvWhenLocal(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GARAGE_SERVER_URL=http://dotenv:3\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	s, err := loadSettings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.ServerURL != defaultServerURL {
		t.Errorf("server url = %q, .env must be ignored outside APP_ENV=local", s.ServerURL)
	}

	t.Setenv("APP_ENV", "local")
	s, err = loadSettings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.ServerURL != "http://dotenv:3" {
		t.Errorf("server url = %q, want value from .env", s.ServerURL)
	}
	if err := os.Unsetenv("GARAGE_SERVER_URL"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}
}

func TestPersisterKeepsOtherSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := saveConfig(CLIConfig{ServerURL: "http://myhost:9090", CurrencyAPIKey: "k"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := (configPersister{}).SaveSession(session.Session{Token: "abc"}); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Token != "abc" || loaded.ServerURL != "http://myhost:9090" || loaded.CurrencyAPIKey != "k" {
		t.Errorf("config = %+v", loaded)
	}
}

func TestTokenProviderPrefersEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	if err := (configPersister{}).SaveSession(session.Session{Token: "stored"}); err != nil {
		t.Fatalf("save session: %v", err)
	}

	s, err := loadSettings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	tok, err := s.tokenProvider().Token(t.Context())
	if err != nil || tok != "stored" {
		t.Errorf("token = %q, %v; want stored", tok, err)
	}

	t.Setenv("GARAGE_TOKEN", "from-env")
	s, err = loadSettings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	tok, err = s.tokenProvider().Token(t.Context())
	if err != nil || tok != "from-env" {
		t.Errorf("token = %q, %v; want from-env", tok, err)
	}
}
