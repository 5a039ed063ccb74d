package config

import (
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	CorsConfig
	ProviderConfig
	CoreAPIConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetRedisAddr() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Providers
	CoreAPI
	Security
}

func New() Config {
	// A missing .env file is fine; plain environment variables still apply.
	_ = godotenv.Load()
	return mainConfig{}
}
