package config

import (
	"strings"

	"go.uber.org/zap"
)

// setLogger picks the zap configuration for the environment. Anything not
// recognised gets the example logger used for local runs.
func setLogger(env string) (*zap.Logger, error) {
	switch strings.ToLower(env) {
	case "production", "prod":
		return zap.NewProduction()
	case "development", "dev":
		return zap.NewDevelopment()
	default:
		return zap.NewExample(), nil
	}
}
