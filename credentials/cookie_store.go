package credentials

import (
	"net/http"
	"time"
)

// CookieStore keeps the token pair in two HttpOnly cookies. It is bound to a
// single request/response and must not be shared between requests.
type CookieStore struct {
	w      http.ResponseWriter
	pair   TokenPair
	secure bool
	maxAge time.Duration
}

var _ Store = (*CookieStore)(nil)

// NewCookieStore snapshots the request cookies. forceSecure sets the Secure flag
// even when the request did not arrive over TLS (e.g. behind a proxy).
func NewCookieStore(w http.ResponseWriter, r *http.Request, maxAge time.Duration, forceSecure bool) *CookieStore {
	s := &CookieStore{
		w:      w,
		secure: forceSecure || r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
		maxAge: maxAge,
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		s.pair.AccessToken = c.Value
	}
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		s.pair.RefreshToken = c.Value
	}
	return s
}

func (s *CookieStore) Load() TokenPair {
	return s.pair
}

func (s *CookieStore) Save(pair TokenPair) {
	s.pair = pair
	maxAge := int(s.maxAge.Seconds())
	s.setCookie(AccessTokenCookie, pair.AccessToken, maxAge)
	s.setCookie(RefreshTokenCookie, pair.RefreshToken, maxAge)
}

func (s *CookieStore) Clear() {
	s.pair = TokenPair{}
	s.setCookie(AccessTokenCookie, "", -1)
	s.setCookie(RefreshTokenCookie, "", -1)
}

func (s *CookieStore) setCookie(name, value string, maxAge int) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     CookiePath,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}
