// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	DatabaseURL     string
	ShutdownTimeout time.Duration
	TxTimeout       time.Duration
}

// FromEnv builds a Server config from CRUDLANDIA_* environment variables.
// An empty database URL selects the in-memory stores.
func FromEnv() Server {
	v := viper.New()
	v.SetEnvPrefix("CRUDLANDIA")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("tx_timeout", "5s")

	return Server{
		Addr:            v.GetString("addr"),
		DatabaseURL:     v.GetString("database_url"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		TxTimeout:       v.GetDuration("tx_timeout"),
	}
}
