package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultTimeout         = 5 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
)

// Config defines the timeouts and address for the HTTP server.
type Config struct {
	Addr string `env:"WARP_ADDR" envDefault:":8080"`

	ReadTimeout     time.Duration `env:"WARP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WARP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"WARP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"WARP_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	MaxHeaderBytes int `env:"WARP_MAX_HEADER_BYTES" envDefault:"1048576"` // 1MB
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("server: loading config: %w", err)
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaultIdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	return c
}
