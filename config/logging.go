package config

import "go.uber.org/zap"

// setLogger picks the zap preset for env
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "production", "prod":
		return zap.NewProduction()
	case "development", "dev":
		return zap.NewDevelopment()
	default:
		return zap.NewExample(), nil
	}
}
