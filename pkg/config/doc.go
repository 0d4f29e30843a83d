// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Struct fields are annotated with `env` tags as understood by
// github.com/caarlos0/env:
//
//	type SessionConfig struct {
//	    TTL        time.Duration `env:"SESSION_TTL" envDefault:"30m"`
//	    CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
//	}
//
//	var cfg SessionConfig
//	if err := config.Load(&cfg); err != nil { ... }
package config
