package token

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// AccessClaims are the claims carried by access tokens issued by the auth service
type AccessClaims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwtlib.RegisteredClaims
}

// ParseUnverified decodes claims without checking the signature. Only use the
// result for scheduling decisions (e.g. refresh before expiry), never for access.
func ParseUnverified(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// StillValid reports whether an access token has an expiry further than leeway
// in the future. Tokens without an expiry claim are treated as expired.
func StillValid(raw string, leeway time.Duration) bool {
	claims, err := ParseUnverified(raw)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return NowTimeFunc().Add(leeway).Before(claims.ExpiresAt.Time)
}
