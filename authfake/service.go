// Package authfake is an in-memory stand-in for the authentication service.
// It serves the same HTTP API as the real service and is used for local
// development and tests.
package authfake

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-admin-console/authservice"
	"github.com/jrsteele09/go-admin-console/credentials"
	apperrors "github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/token"
	"github.com/jrsteele09/go-admin-console/token/keys"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

type account struct {
	user         users.User
	passwordHash string
}

type Service struct {
	lock            sync.RWMutex
	accounts        map[string]*account // email -> account
	refreshSessions *refreshSessionRepo
	signer          *keys.Signer
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	unavailable     bool
	mux             *http.ServeMux
}

var _ http.Handler = (*Service)(nil)

// New creates a fake service issuing tokens for issuer
func New(issuer string) (*Service, error) {
	keyPair, err := keys.GenerateRSAKeyPair(uuid.NewString(), 2048)
	if err != nil {
		return nil, fmt.Errorf("[authfake New] %w", err)
	}
	s := &Service{
		accounts:        make(map[string]*account),
		refreshSessions: newRefreshSessionRepo(),
		signer:          keys.NewSigner(keyPair),
		issuer:          issuer,
		accessTokenTTL:  DefaultAccessTokenTTL,
		refreshTokenTTL: DefaultRefreshTokenTTL,
		mux:             http.NewServeMux(),
	}
	s.mux.HandleFunc("POST "+authservice.RouteSignin, s.signinHandler)
	s.mux.HandleFunc("GET "+authservice.RouteCurrentUser, s.currentUserHandler)
	s.mux.HandleFunc("POST "+authservice.RouteToken, s.tokenHandler)
	s.mux.HandleFunc("GET "+authservice.RouteJWKS, s.jwksHandler)
	return s, nil
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	unavailable := s.unavailable
	s.lock.RUnlock()
	if unavailable {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Service) Issuer() string {
	return s.issuer
}

// SetUnavailable makes every endpoint answer 503
func (s *Service) SetUnavailable(unavailable bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.unavailable = unavailable
}

func (s *Service) SetAccessTokenTTL(ttl time.Duration) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.accessTokenTTL = ttl
}

// AddUser registers (or replaces) an account
func (s *Service) AddUser(email, password string, roles ...users.RoleType) (*users.User, error) {
	email = normaliseEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "[authfake AddUser] email and password are required")
	}
	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[authfake AddUser] hash password: %w", err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	id := uuid.NewString()
	if existing, ok := s.accounts[email]; ok {
		id = existing.user.ID
	}
	acc := &account{
		user:         users.User{ID: id, Email: email, Roles: users.NewRoleSet(roles...)},
		passwordHash: hash,
	}
	s.accounts[email] = acc
	u := acc.user
	return &u, nil
}

// RemoveUser deletes an account. Tokens already issued stop resolving to a user.
func (s *Service) RemoveUser(email string) {
	email = normaliseEmail(email)
	s.lock.Lock()
	delete(s.accounts, email)
	s.lock.Unlock()
	s.refreshSessions.DeleteForEmail(email)
}

// ActiveSessions is the number of refresh tokens that can still be exchanged
func (s *Service) ActiveSessions() int {
	return s.refreshSessions.Len()
}

// IssueTokens creates a session for an existing account without a password check
func (s *Service) IssueTokens(email string) (credentials.TokenPair, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	acc, ok := s.accounts[normaliseEmail(email)]
	if !ok {
		return credentials.TokenPair{}, apperrors.Wrapf(apperrors.ErrUserNotFound, "[authfake IssueTokens] %s", email)
	}
	return s.issueLocked(acc)
}

func (s *Service) authenticate(email, password string) (*account, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	acc, ok := s.accounts[normaliseEmail(email)]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	if !users.CheckPasswordHash(password, acc.passwordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return acc, nil
}

func (s *Service) issueLocked(acc *account) (credentials.TokenPair, error) {
	now := token.NowTimeFunc()
	roles := make([]string, 0, len(acc.user.Roles))
	for _, r := range acc.user.Roles.Sorted() {
		roles = append(roles, string(r))
	}
	access, err := s.signer.Sign(token.AccessClaims{
		Email: acc.user.Email,
		Roles: roles,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   acc.user.ID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.accessTokenTTL)),
			ID:        uuid.NewString(),
		},
	})
	if err != nil {
		return credentials.TokenPair{}, err
	}

	refresh := generateRandomString(32)
	err = s.refreshSessions.Upsert(refresh, refreshSession{
		Email:     acc.user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTokenTTL),
	})
	if err != nil {
		return credentials.TokenPair{}, err
	}
	return credentials.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// rotate swaps a refresh token for a new pair. The old token is consumed.
func (s *Service) rotate(refresh string) (credentials.TokenPair, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	session, err := s.refreshSessions.Take(refresh)
	if err != nil {
		return credentials.TokenPair{}, err
	}
	if token.NowTimeFunc().After(session.ExpiresAt) {
		return credentials.TokenPair{}, apperrors.ErrTokenExpired
	}
	acc, ok := s.accounts[session.Email]
	if !ok {
		return credentials.TokenPair{}, apperrors.ErrUserNotFound
	}
	return s.issueLocked(acc)
}

// userForAccessToken returns the current state of the account the token was issued to
func (s *Service) userForAccessToken(raw string) *users.User {
	claims := &token.AccessClaims{}
	_, err := jwtlib.ParseWithClaims(raw, claims, s.signer.VerificationKey,
		jwtlib.WithIssuer(s.issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(token.NowTimeFunc),
	)
	if err != nil {
		log.Debug().Err(apperrors.Wrapf(apperrors.ErrInvalidToken, "%v", err)).Msg("authfake: access token rejected")
		return nil
	}

	s.lock.RLock()
	defer s.lock.RUnlock()
	acc, ok := s.accounts[normaliseEmail(claims.Email)]
	if !ok || acc.user.ID != claims.Subject {
		return nil
	}
	u := acc.user
	return &u
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
