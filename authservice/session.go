package authservice

import (
	"context"

	"github.com/jrsteele09/go-admin-console/credentials"
	"github.com/jrsteele09/go-admin-console/users"
)

// Session binds the client to one caller's stored tokens
type Session struct {
	client *Client
	store  credentials.Store
}

func (c *Client) Session(store credentials.Store) *Session {
	return &Session{client: c, store: store}
}

// VerifyTokens checks the stored pair and saves it back when it was refreshed
func (s *Session) VerifyTokens(ctx context.Context) (bool, error) {
	current := s.store.Load()
	pair, ok, err := s.client.Verify(ctx, current)
	if err != nil || !ok {
		return false, err
	}
	if pair != current {
		s.store.Save(pair)
	}
	return true, nil
}

func (s *Session) GetCurrentUser(ctx context.Context) (*users.User, error) {
	return s.client.CurrentUser(ctx, s.store.Load().AccessToken)
}
