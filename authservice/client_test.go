package authservice_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-console/authfake"
	"github.com/jrsteele09/go-admin-console/authservice"
	"github.com/jrsteele09/go-admin-console/credentials"
	"github.com/jrsteele09/go-admin-console/credentials/storefake"
	apperrors "github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "authfake-test"
	testEmail    = "admin@example.com"
	testPassword = "correct-horse"
)

type testEnv struct {
	fake   *authfake.Service
	server *httptest.Server
	client *authservice.Client
}

func newTestEnv(t *testing.T, verifySignatures bool) *testEnv {
	t.Helper()
	fake, err := authfake.New(testIssuer)
	require.NoError(t, err)
	_, err = fake.AddUser(testEmail, testPassword, users.RoleAdmin)
	require.NoError(t, err)

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	opts := authservice.Options{
		BaseURL:  server.URL,
		ClientID: "admin-console",
		Timeout:  5 * time.Second,
	}
	if verifySignatures {
		opts.Issuer = testIssuer
	}
	client, err := authservice.New(context.Background(), opts)
	require.NoError(t, err)
	return &testEnv{fake: fake, server: server, client: client}
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := authservice.New(context.Background(), authservice.Options{})
	require.Error(t, err)
}

func TestSignin(t *testing.T) {
	env := newTestEnv(t, false)

	pair, err := env.client.Signin(context.Background(), authservice.Credentials{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
}

func TestSigninRejected(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.client.Signin(context.Background(), authservice.Credentials{Email: testEmail, Password: "wrong"})

	var rejection *authservice.RejectionError
	require.ErrorAs(t, err, &rejection)
	require.Equal(t, 400, rejection.StatusCode)
	require.Equal(t, []authservice.FieldMessage{{Message: "Invalid credentials"}}, rejection.Errors)
}

func TestSigninRejectedWithFieldErrors(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.client.Signin(context.Background(), authservice.Credentials{Email: "nobody"})

	var rejection *authservice.RejectionError
	require.ErrorAs(t, err, &rejection)
	require.Len(t, rejection.Errors, 2)
	require.Equal(t, "email", rejection.Errors[0].Field)
	require.Equal(t, "password", rejection.Errors[1].Field)
}

func TestSigninServiceUnavailable(t *testing.T) {
	env := newTestEnv(t, false)
	env.fake.SetUnavailable(true)

	_, err := env.client.Signin(context.Background(), authservice.Credentials{Email: testEmail, Password: testPassword})
	require.ErrorIs(t, err, apperrors.ErrUnexpectedStatus)

	env.server.Close()
	_, err = env.client.Signin(context.Background(), authservice.Credentials{Email: testEmail, Password: testPassword})
	require.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t, false)
	pair, err := env.fake.IssueTokens(testEmail)
	require.NoError(t, err)

	user, err := env.client.CurrentUser(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, testEmail, user.Email)
	require.True(t, user.IsAdmin())

	user, err = env.client.CurrentUser(context.Background(), "garbage")
	require.NoError(t, err)
	require.Nil(t, user)

	user, err = env.client.CurrentUser(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestCurrentUserReflectsRemovedAccount(t *testing.T) {
	env := newTestEnv(t, false)
	pair, err := env.fake.IssueTokens(testEmail)
	require.NoError(t, err)
	env.fake.RemoveUser(testEmail)

	user, err := env.client.CurrentUser(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestCurrentUserServiceUnavailable(t *testing.T) {
	env := newTestEnv(t, false)
	env.fake.SetUnavailable(true)

	_, err := env.client.CurrentUser(context.Background(), "token")
	require.ErrorIs(t, err, apperrors.ErrUnexpectedStatus)
}

func TestVerify(t *testing.T) {
	for _, verifySignatures := range []bool{false, true} {
		name := "expiry only"
		if verifySignatures {
			name = "signature checked"
		}
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, verifySignatures)
			pair, err := env.fake.IssueTokens(testEmail)
			require.NoError(t, err)

			got, ok, err := env.client.Verify(context.Background(), pair)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, pair, got)
		})
	}
}

func TestVerifyNoTokens(t *testing.T) {
	env := newTestEnv(t, false)

	_, ok, err := env.client.Verify(context.Background(), credentials.TokenPair{})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyRefreshesExpiredAccessToken(t *testing.T) {
	env := newTestEnv(t, true)
	env.fake.SetAccessTokenTTL(-time.Minute)
	expired, err := env.fake.IssueTokens(testEmail)
	require.NoError(t, err)
	env.fake.SetAccessTokenTTL(authfake.DefaultAccessTokenTTL)

	rotated, ok, err := env.client.Verify(context.Background(), expired)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, expired.AccessToken, rotated.AccessToken)
	require.NotEqual(t, expired.RefreshToken, rotated.RefreshToken)

	// refresh tokens are single use
	_, ok, err = env.client.Verify(context.Background(), credentials.TokenPair{RefreshToken: expired.RefreshToken})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	env := newTestEnv(t, true)
	other, err := authfake.New(testIssuer)
	require.NoError(t, err)
	_, err = other.AddUser(testEmail, testPassword, users.RoleAdmin)
	require.NoError(t, err)
	forged, err := other.IssueTokens(testEmail)
	require.NoError(t, err)

	_, ok, err := env.client.Verify(context.Background(), forged)
	require.NoError(t, err)
	require.False(t, ok)
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })
	return &buf
}

func TestVerifyWarnsWhenKeySetUnreachable(t *testing.T) {
	fake, err := authfake.New(testIssuer)
	require.NoError(t, err)
	_, err = fake.AddUser(testEmail, testPassword, users.RoleAdmin)
	require.NoError(t, err)
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	gone := httptest.NewServer(http.NotFoundHandler())
	gone.Close()

	client, err := authservice.New(context.Background(), authservice.Options{
		BaseURL:  server.URL,
		ClientID: "admin-console",
		Issuer:   testIssuer,
		JWKSURL:  gone.URL + "/jwks",
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)
	pair, err := fake.IssueTokens(testEmail)
	require.NoError(t, err)
	buf := captureLog(t)

	_, ok, err := client.Verify(context.Background(), pair)
	require.NoError(t, err)
	require.True(t, ok, "the refresh grant still succeeds")
	require.Contains(t, buf.String(), `"level":"warn"`)
	require.Contains(t, buf.String(), "access token could not be verified")
}

func TestVerifyExpiredAccessTokenDoesNotWarn(t *testing.T) {
	env := newTestEnv(t, true)
	env.fake.SetAccessTokenTTL(-time.Minute)
	expired, err := env.fake.IssueTokens(testEmail)
	require.NoError(t, err)
	env.fake.SetAccessTokenTTL(authfake.DefaultAccessTokenTTL)
	buf := captureLog(t)

	_, ok, err := env.client.Verify(context.Background(), expired)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotContains(t, buf.String(), `"level":"warn"`)
}

func TestVerifyRefreshUnavailable(t *testing.T) {
	env := newTestEnv(t, false)
	env.fake.SetUnavailable(true)

	_, ok, err := env.client.Verify(context.Background(), credentials.TokenPair{RefreshToken: "r"})
	require.False(t, ok)
	require.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestSessionSavesRotatedTokens(t *testing.T) {
	env := newTestEnv(t, false)
	env.fake.SetAccessTokenTTL(-time.Minute)
	expired, err := env.fake.IssueTokens(testEmail)
	require.NoError(t, err)
	env.fake.SetAccessTokenTTL(authfake.DefaultAccessTokenTTL)
	store := storefake.NewMemoryStore(expired)
	session := env.client.Session(store)

	ok, err := session.VerifyTokens(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, store.Saves())
	require.NotEqual(t, expired, store.Load())

	user, err := session.GetCurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, testEmail, user.Email)
}

func TestSessionLeavesValidTokensAlone(t *testing.T) {
	env := newTestEnv(t, false)
	pair, err := env.fake.IssueTokens(testEmail)
	require.NoError(t, err)
	store := storefake.NewMemoryStore(pair)

	ok, err := env.client.Session(store).VerifyTokens(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, store.Saves())
	require.Zero(t, store.Clears())
}
