// Package config loads rfidash settings. Later sources override earlier ones:
// built-in defaults, an optional YAML file, a .env file, RFIDASH_* environment
// variables and finally command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds dashboard and stand-in settings.
type Config struct {
	Addr                 string        `yaml:"addr"`
	APIURL               string        `yaml:"api_url"`
	APITimeout           time.Duration `yaml:"api_timeout"`
	SessionSecret        string        `yaml:"session_secret"`
	LegacyDeleteReenters bool          `yaml:"legacy_delete_reenters"`
	SecureCookies        bool          `yaml:"secure_cookies"`
	RFIDRateLimit        string        `yaml:"rfid_rate_limit"`
	Log                  string        `yaml:"log"`
	Standin              Standin       `yaml:"standin"`
}

// Standin holds settings of the development service stand-in.
type Standin struct {
	Addr         string        `yaml:"addr"`
	DB           string        `yaml:"db"`
	ReadInterval time.Duration `yaml:"read_interval"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:          ":8080",
		APIURL:        "http://localhost:8000",
		APITimeout:    15 * time.Second,
		RFIDRateLimit: "30-M",
		Standin: Standin{
			Addr:         ":8000",
			DB:           "standin.sqlite3",
			ReadInterval: time.Second,
		},
	}
}

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "RFIDASH_"

// Load builds the configuration from defaults, the YAML file at path (if
// non-empty) and the environment. dotenv lists .env files to load into the
// environment first; when empty, ".env" is loaded if present. Variables
// already set in the environment win over .env files.
func Load(path string, dotenv ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if len(dotenv) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			dotenv = []string{".env"}
		}
	}
	if len(dotenv) > 0 {
		if err := godotenv.Load(dotenv...); err != nil {
			return Config{}, fmt.Errorf("loading env file: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = d
		return nil
	}

	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("ADDR", &cfg.Addr)
	str("API_URL", &cfg.APIURL)
	str("SESSION_SECRET", &cfg.SessionSecret)
	str("RFID_RATE_LIMIT", &cfg.RFIDRateLimit)
	str("LOG", &cfg.Log)
	str("STANDIN_ADDR", &cfg.Standin.Addr)
	str("STANDIN_DB", &cfg.Standin.DB)

	if err := dur("API_TIMEOUT", &cfg.APITimeout); err != nil {
		return err
	}
	if err := dur("STANDIN_READ_INTERVAL", &cfg.Standin.ReadInterval); err != nil {
		return err
	}

	if err := boolean("LEGACY_DELETE_REENTERS", &cfg.LegacyDeleteReenters); err != nil {
		return err
	}
	return boolean("SECURE_COOKIES", &cfg.SecureCookies)
}

// Validate checks the dashboard settings.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}
	if c.APITimeout <= 0 {
		return errors.New("api_timeout must be positive")
	}
	if strings.TrimSpace(c.RFIDRateLimit) == "" {
		return errors.New("rfid_rate_limit is required")
	}
	return nil
}

// ValidateStandin checks the stand-in settings.
func (c Config) ValidateStandin() error {
	if c.Standin.Addr == "" {
		return errors.New("standin.addr is required")
	}
	if c.Standin.DB == "" {
		return errors.New("standin.db is required")
	}
	if c.Standin.ReadInterval <= 0 {
		return errors.New("standin.read_interval must be positive")
	}
	return nil
}
