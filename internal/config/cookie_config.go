package config

import "time"

type CookieConfig interface {
	GetCookieMaxAge() time.Duration
	GetCookieSecure() bool
}

type Cookies struct{}

var _ CookieConfig = Cookies{}

func (Cookies) GetCookieMaxAge() time.Duration {
	return GetDuration("COOKIE_MAX_AGE", 7*24*time.Hour) // matches the refresh token lifetime
}

// GetCookieSecure forces the Secure flag; otherwise it follows the request scheme
func (Cookies) GetCookieSecure() bool {
	return GetBool("COOKIE_SECURE", false)
}
