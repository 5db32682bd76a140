package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/venuehub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   provider base URL
//	-k string   provider anon key
//	-d string   local data directory
//	-b string   storage backend (supabase|s3)
//	-l string   log level
//
// args are filtered with flagx.FilterArgs first, so flags owned by other
// components (-c) do not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-u", "-k", "-d", "-b", "-l"})

	fs := flag.NewFlagSet("venuehub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ProviderURL, "u", cfg.ProviderURL, "provider base url")
	fs.StringVar(&cfg.AnonKey, "k", cfg.AnonKey, "provider anon key")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	fs.StringVar(&cfg.StorageBackend, "b", cfg.StorageBackend, "avatar storage backend (supabase|s3)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	return fs.Parse(args)
}
