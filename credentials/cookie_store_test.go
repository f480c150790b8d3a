package credentials_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-console/credentials"
	"github.com/stretchr/testify/require"
)

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestCookieStore_Load(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: credentials.AccessTokenCookie, Value: "access"})
	r.AddCookie(&http.Cookie{Name: credentials.RefreshTokenCookie, Value: "refresh"})

	s := credentials.NewCookieStore(httptest.NewRecorder(), r, time.Hour, false)
	require.Equal(t, credentials.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, s.Load())
}

func TestCookieStore_LoadMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	s := credentials.NewCookieStore(httptest.NewRecorder(), r, time.Hour, false)
	require.True(t, s.Load().IsEmpty())
}

func TestCookieStore_Save(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	s := credentials.NewCookieStore(rec, r, time.Hour, false)

	s.Save(credentials.TokenPair{AccessToken: "a2", RefreshToken: "r2"})

	cookies := cookiesByName(rec)
	require.Equal(t, "a2", cookies[credentials.AccessTokenCookie].Value)
	require.Equal(t, "r2", cookies[credentials.RefreshTokenCookie].Value)
	for _, c := range cookies {
		require.Equal(t, "/", c.Path)
		require.True(t, c.HttpOnly)
		require.False(t, c.Secure)
		require.Equal(t, 3600, c.MaxAge)
	}
	require.Equal(t, "a2", s.Load().AccessToken)
}

func TestCookieStore_ClearRemovesBothAtRootPath(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: credentials.AccessTokenCookie, Value: "access"})
	s := credentials.NewCookieStore(rec, r, time.Hour, false)

	s.Clear()

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 2)
	for _, name := range []string{credentials.AccessTokenCookie, credentials.RefreshTokenCookie} {
		c := cookies[name]
		require.NotNil(t, c, name)
		require.Equal(t, "/", c.Path)
		require.Equal(t, -1, c.MaxAge)
		require.Empty(t, c.Value)
	}
	require.True(t, s.Load().IsEmpty())
}

func TestCookieStore_SecureOverTLS(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://admin.example.com/", nil)
	r.TLS = &tls.ConnectionState{}
	s := credentials.NewCookieStore(rec, r, time.Hour, false)

	s.Save(credentials.TokenPair{AccessToken: "a", RefreshToken: "r"})
	for _, c := range rec.Result().Cookies() {
		require.True(t, c.Secure)
	}
}
