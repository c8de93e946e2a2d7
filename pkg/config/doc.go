// Package config loads SDK configuration from environment variables and
// optional YAML profile files.
//
// Environment loading wraps github.com/joho/godotenv and
// github.com/caarlos0/env/v11: the default .env file is read once per process,
// then env tags on any struct are parsed into it. Each configuration type is
// parsed at most once and cached, so components can call Load freely without
// re-reading the environment.
//
//	type GatewayConfig struct {
//	    BaseURL string        `env:"PROMPTPAL_API_URL" envDefault:"https://promptpal.app/api"`
//	    Timeout time.Duration `env:"PROMPTPAL_API_TIMEOUT" envDefault:"15s"`
//	}
//
//	var cfg GatewayConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Profile files complement the environment for CLI use: LoadProfile reads a
// YAML file (by convention ~/.promptpal/config.yaml) into a struct using yaml
// tags. A missing profile file is not an error; explicit values from the
// environment are expected to win, so callers should apply the profile first
// and Load afterwards.
package config
