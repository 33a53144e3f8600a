// Package config parses environment variables into tagged structs. Every
// runtime knob of the service comes through here; there are no config files.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg, which must be a pointer to a
// struct with `env` tags:
//
//	type Config struct {
//	    HTTPPort    int    `env:"POS_HTTP_PORT" envDefault:"8080"`
//	    StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
