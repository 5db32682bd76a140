package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding the config file. Absent
// keys stay nil and do not override earlier values.
type FileConfig struct {
	ProviderURL       *string  `json:"provider_url" yaml:"provider_url"`
	AnonKey           *string  `json:"anon_key" yaml:"anon_key"`
	DataDir           *string  `json:"data_dir" yaml:"data_dir"`
	CacheSecret       *string  `json:"cache_secret" yaml:"cache_secret"`
	AvatarBucket      *string  `json:"avatar_bucket" yaml:"avatar_bucket"`
	StorageBackend    *string  `json:"storage_backend" yaml:"storage_backend"`
	ProfilesDSN       *string  `json:"profiles_dsn" yaml:"profiles_dsn"`
	RequestTimeout    *string  `json:"request_timeout" yaml:"request_timeout"`
	RequestsPerSecond *float64 `json:"requests_per_second" yaml:"requests_per_second"`
	LogLevel          *string  `json:"log_level" yaml:"log_level"`

	S3 *struct {
		Region    *string `json:"region" yaml:"region"`
		Endpoint  *string `json:"endpoint" yaml:"endpoint"`
		AccessKey *string `json:"access_key" yaml:"access_key"`
		SecretKey *string `json:"secret_key" yaml:"secret_key"`
		PublicURL *string `json:"public_url" yaml:"public_url"`
	} `json:"s3" yaml:"s3"`
}

// parseFile overlays cfg with the values present in the file at path.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("config file %s: unsupported format", path)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	return fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.ProviderURL, fc.ProviderURL)
	set(&cfg.AnonKey, fc.AnonKey)
	set(&cfg.DataDir, fc.DataDir)
	set(&cfg.CacheSecret, fc.CacheSecret)
	set(&cfg.AvatarBucket, fc.AvatarBucket)
	set(&cfg.StorageBackend, fc.StorageBackend)
	set(&cfg.ProfilesDSN, fc.ProfilesDSN)
	set(&cfg.LogLevel, fc.LogLevel)

	if fc.S3 != nil {
		set(&cfg.S3Region, fc.S3.Region)
		set(&cfg.S3Endpoint, fc.S3.Endpoint)
		set(&cfg.S3AccessKey, fc.S3.AccessKey)
		set(&cfg.S3SecretKey, fc.S3.SecretKey)
		set(&cfg.S3PublicURL, fc.S3.PublicURL)
	}

	if fc.RequestTimeout != nil {
		d, err := time.ParseDuration(*fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if fc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *fc.RequestsPerSecond
	}
	return nil
}
