package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/venuehub/internal/flagx"
)

const (
	BackendSupabase = "supabase"
	BackendS3       = "s3"
)

// Config holds runtime settings for the venuehub CLI.
type Config struct {
	ProviderURL string `env:"PROVIDER_URL"`
	AnonKey     string `env:"ANON_KEY"`

	// DataDir holds the local database with the cached session.
	DataDir string `env:"DATA_DIR"`
	// CacheSecret seals the cached session. The anon key is used when empty.
	CacheSecret string `env:"CACHE_SECRET"`

	AvatarBucket   string `env:"AVATAR_BUCKET"`
	StorageBackend string `env:"STORAGE_BACKEND"`
	S3Region       string `env:"S3_REGION"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3PublicURL    string `env:"S3_PUBLIC_URL"`

	// ProfilesDSN switches profile reads and writes to a direct Postgres
	// connection when set.
	ProfilesDSN string `env:"PROFILES_DSN"`

	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND"`
	LogLevel          string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.AvatarBucket = "avatars"
	c.StorageBackend = BackendSupabase
	c.S3Region = "us-east-1"
	c.RequestTimeout = 15 * time.Second
	c.RequestsPerSecond = 10
	c.LogLevel = "info"
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".venuehub"
	}
	return filepath.Join(dir, "venuehub")
}

// Secret returns the key material for the session cache.
func (c *Config) Secret() []byte {
	if c.CacheSecret != "" {
		return []byte(c.CacheSecret)
	}
	return []byte(c.AnonKey)
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.ProviderURL == "" {
		return errors.New("provider url is required (-u or VENUEHUB_PROVIDER_URL)")
	}
	if u, err := url.Parse(c.ProviderURL); err != nil || u.Host == "" {
		return fmt.Errorf("invalid provider url %q", c.ProviderURL)
	}
	if c.AnonKey == "" {
		return errors.New("anon key is required (-k or VENUEHUB_ANON_KEY)")
	}
	switch c.StorageBackend {
	case BackendSupabase:
	case BackendS3:
		if c.S3Region == "" {
			return errors.New("s3 region is required for the s3 storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file, the environment and command-line flags, in that order.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], nil)
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFileFrom(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
