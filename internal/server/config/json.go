package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mlukyanov/userd/internal/flagx"
	"github.com/mlukyanov/userd/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration files.
// It uses timex.Duration for interval fields, which accepts both string
// values such as "1h" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	TokenCacheTTL         timex.Duration `json:"token_cache_ttl"`
	TokenCacheSize        int            `json:"token_cache_size"`
	ProviderBaseURL       string         `json:"provider_base_url"`
	ProviderTimeout       timex.Duration `json:"provider_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no file is named, nothing
// happens; if the file cannot be read or parsed, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	config.TokenCacheTTL = time.Duration(c.TokenCacheTTL.Duration)
	config.TokenCacheSize = c.TokenCacheSize
	config.ProviderBaseURL = c.ProviderBaseURL
	config.ProviderTimeout = time.Duration(c.ProviderTimeout.Duration)
}
