package authfake

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-admin-console/internal/errors"
)

// refreshSession is what the service remembers about an issued refresh token
type refreshSession struct {
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// refreshSessionRepo is an in-memory store of refresh sessions keyed by token
type refreshSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]refreshSession
}

func newRefreshSessionRepo() *refreshSessionRepo {
	return &refreshSessionRepo{
		sessions: make(map[string]refreshSession),
	}
}

func (r *refreshSessionRepo) Upsert(refreshToken string, session refreshSession) error {
	if refreshToken == "" {
		return fmt.Errorf("refreshToken is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[refreshToken] = session
	return nil
}

// Take removes and returns a session. Refresh tokens are single use.
func (r *refreshSessionRepo) Take(refreshToken string) (refreshSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[refreshToken]
	if !ok {
		return refreshSession{}, apperrors.ErrInvalidRefreshToken
	}
	delete(r.sessions, refreshToken)
	return session, nil
}

// DeleteForEmail ends every session of an account
func (r *refreshSessionRepo) DeleteForEmail(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for t, session := range r.sessions {
		if session.Email == email {
			delete(r.sessions, t)
		}
	}
}

func (r *refreshSessionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
