// Package config loads runtime configuration for the venuehub CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .json are decoded as JSON, .yaml and .yml as YAML.
//  3. Environment variables prefixed with VENUEHUB_ (VENUEHUB_PROVIDER_URL,
//     VENUEHUB_ANON_KEY, VENUEHUB_DATA_DIR, ...).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-u string   provider base URL
//	-k string   provider anon (publishable) key
//	-d string   local data directory
//	-b string   avatar storage backend: supabase or s3
//	-l string   log level: debug, info, warn, error
//
// # File schema
//
// Durations are strings accepted by time.ParseDuration:
//
//	{
//	  "provider_url": "https://abc.supabase.co",
//	  "anon_key": "eyJ...",
//	  "data_dir": "~/.config/venuehub",
//	  "storage_backend": "s3",
//	  "s3": {"region": "eu-north-1", "endpoint": "http://localhost:9000"},
//	  "request_timeout": "15s",
//	  "requests_per_second": 10
//	}
package config
