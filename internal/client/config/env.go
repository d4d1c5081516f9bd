package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const envPrefix = "GOPHSHOP_"

// parseEnv overlays cfg with GOPHSHOP_* variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process win over it. Unset variables leave fields untouched.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}
}
