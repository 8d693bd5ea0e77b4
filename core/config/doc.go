// Package config provides type-safe environment variable loading with
// per-type caching. Parsing is handled by the caarlos0/env library; a
// .env file is loaded automatically on first use.
//
//	type AppConfig struct {
//		Addr    string        `env:"ADDR" envDefault:":8080"`
//		Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg) // panic on error, fine at startup
//
// Each configuration type is loaded only once per application lifetime;
// repeated Load calls for the same type return the cached value.
package config
