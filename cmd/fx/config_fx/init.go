package config_fx

import (
	"os"

	"go.uber.org/fx"

	"wedplan/internal/config"
)

var Module = fx.Provide(provideConfig)

func provideConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	return config.Load(path)
}
