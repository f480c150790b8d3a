package config

import (
	"fmt"
	"strings"
	"time"
)

type AuthService struct{}

var _ AuthServiceConfig = AuthService{}

// GetAuthServiceURL is the base URL of the external authentication service.
// Empty means "run the in-process fake" (DEV only).
func (AuthService) GetAuthServiceURL() string {
	return strings.TrimRight(GetEnv("AUTH_SERVICE_URL", ""), "/")
}

func (AuthService) GetAuthClientID() string {
	return GetEnv("AUTH_CLIENT_ID", "admin-console")
}

func (AuthService) GetAuthClientSecret() string {
	return GetEnv("AUTH_CLIENT_SECRET", "")
}

// GetTokenIssuer enables signature verification of access tokens when set.
func (AuthService) GetTokenIssuer() string {
	return GetEnv("AUTH_TOKEN_ISSUER", "")
}

func (AuthService) GetJWKSURL() string {
	return GetEnv("AUTH_JWKS_URL", "")
}

func (AuthService) GetAuthRequestTimeout() time.Duration {
	return GetDuration("AUTH_REQUEST_TIMEOUT", 10*time.Second)
}

// GetTokenLeeway is subtracted from access token expiry so nearly expired tokens are refreshed early
func (AuthService) GetTokenLeeway() time.Duration {
	return GetDuration("AUTH_TOKEN_LEEWAY", 30*time.Second)
}

func (AuthService) GetFakeAuthPort() string {
	port := GetEnv("AUTH_FAKE_PORT", "8081")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}
