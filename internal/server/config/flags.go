package config

import (
	"flag"
	"os"
	"time"

	"github.com/mlukyanov/userd/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret key
//	-t int      session token validity, hours
//	-l int      token verification cache TTL, minutes
//	-n int      token verification cache size, entries
//	-g string   third-party provider base URL
//	-o int      third-party provider timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-l", "-n", "-g", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token validity duration (in hours)")
	cacheTTL := fs.Int("l", int(config.TokenCacheTTL.Minutes()), "token cache TTL (in minutes)")
	fs.IntVar(&config.TokenCacheSize, "n", config.TokenCacheSize, "token cache size (entries)")

	fs.StringVar(&config.ProviderBaseURL, "g", config.ProviderBaseURL, "provider base URL")
	providerTimeout := fs.Int("o", int(config.ProviderTimeout.Seconds()), "provider timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
	config.TokenCacheTTL = time.Duration(*cacheTTL) * time.Minute
	config.ProviderTimeout = time.Duration(*providerTimeout) * time.Second
}
