package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/evcraddock/garage/internal/currency"
	"github.com/evcraddock/garage/internal/session"
)

const defaultServerURL = "http://localhost:8080"

// defaultCurrencies are offered for price display when the config lists none.
var defaultCurrencies = []string{"BGN", "EUR", "USD", "GBP"}

// CLIConfig holds CLI configuration persisted to disk.
type CLIConfig struct {
	session.Session `yaml:",inline"`

	ServerURL      string   `yaml:"server_url,omitempty"`
	CurrencyURL    string   `yaml:"currency_url,omitempty"`
	CurrencyAPIKey string   `yaml:"currency_api_key,omitempty"`
	BaseCurrency   string   `yaml:"base_currency,omitempty"`
	Currencies     []string `yaml:"currencies,omitempty"`
}

// envConfig holds the GARAGE_* environment overrides.
type envConfig struct {
	ServerURL      string `env:"GARAGE_SERVER_URL"`
	Token          string `env:"GARAGE_TOKEN"`
	CurrencyURL    string `env:"GARAGE_CURRENCY_URL"`
	CurrencyAPIKey string `env:"GARAGE_CURRENCY_API_KEY"`
	BaseCurrency   string `env:"GARAGE_BASE_CURRENCY"`
	LogLevel       string `env:"GARAGE_LOG_LEVEL"`
	DevMode        bool   `env:"GARAGE_DEV_MODE"`
	SigningKey     string `env:"GARAGE_SIGNING_KEY"`
}

// settings is the effective configuration: environment over config file over defaults.
type settings struct {
	ServerURL      string
	Token          string // from the environment only; the stored session is read through the session store
	CurrencyURL    string
	CurrencyAPIKey string
	BaseCurrency   string
	Currencies     []string
	LogLevel       string
	DevMode        bool
	SigningKey     string
}

// configPath returns the path to the CLI config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "garage", "config.yaml"), nil
}

// loadConfig reads the CLI config from disk.
// Returns a zero-value config if the file doesn't exist.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CLIConfig{}, nil
	}
	if err != nil {
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// saveConfig writes the CLI config to disk.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// loadSettings resolves the effective configuration. With APP_ENV=local a
// .env file in the working directory is loaded first.
func loadSettings() (settings, error) {
	if os.Getenv("APP_ENV") == "local" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return settings{}, fmt.Errorf("loading .env: %w", err)
		}
	}

	var e envConfig
	if err := env.Parse(&e); err != nil {
		return settings{}, fmt.Errorf("parsing environment: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return settings{}, err
	}

	s := settings{
		ServerURL:      firstNonEmpty(e.ServerURL, cfg.ServerURL, defaultServerURL),
		Token:          e.Token,
		CurrencyURL:    firstNonEmpty(e.CurrencyURL, cfg.CurrencyURL, currency.DefaultURL),
		CurrencyAPIKey: firstNonEmpty(e.CurrencyAPIKey, cfg.CurrencyAPIKey),
		BaseCurrency:   strings.ToUpper(firstNonEmpty(e.BaseCurrency, cfg.BaseCurrency, currency.DefaultBase)),
		Currencies:     cfg.Currencies,
		LogLevel:       e.LogLevel,
		DevMode:        e.DevMode,
		SigningKey:     e.SigningKey,
	}
	if len(s.Currencies) == 0 {
		s.Currencies = defaultCurrencies
	}
	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// configPersister stores the session in the config file, preserving the
// other settings.
type configPersister struct{}

func (configPersister) LoadSession() (session.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return session.Session{}, err
	}
	return cfg.Session, nil
}

func (configPersister) SaveSession(s session.Session) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Session = s
	return saveConfig(cfg)
}

// tokenProvider returns the bearer token source: a GARAGE_TOKEN override, or
// the stored session.
func (s settings) tokenProvider() session.Provider {
	if s.Token != "" {
		return session.Static(s.Token)
	}
	return session.NewStore(configPersister{})
}
