package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	AuthServiceConfig
	CookieConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetLogLevel() string
	GetLogFormat() string
}

type AuthServiceConfig interface {
	GetAuthServiceURL() string
	GetAuthClientID() string
	GetAuthClientSecret() string
	GetTokenIssuer() string
	GetJWKSURL() string
	GetAuthRequestTimeout() time.Duration
	GetTokenLeeway() time.Duration
	GetFakeAuthPort() string
}

type mainConfig struct {
	EnvVars
	AuthService
	Cookies
	Security
}

// New loads .env files when present and returns the environment backed config.
func New() Config {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
	return mainConfig{}
}
