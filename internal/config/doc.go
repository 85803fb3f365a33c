// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env
// struct tags. All fields default to the public endpoints; REDIS_URL is the
// only purely optional value.
package config
