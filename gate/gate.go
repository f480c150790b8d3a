// Package gate decides whether the caller of a protected view is an
// authenticated administrator.
package gate

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-admin-console/users"
	"github.com/rs/zerolog/log"
)

// SigninPath is where callers with invalid tokens are sent
const SigninPath = "/auth/signin"

type TokenVerifier interface {
	// VerifyTokens reports whether the stored tokens identify a session. An error
	// means validity could not be determined.
	VerifyTokens(ctx context.Context) (bool, error)
}

type UserSource interface {
	// GetCurrentUser returns nil when no user is signed in
	GetCurrentUser(ctx context.Context) (*users.User, error)
}

type CredentialClearer interface {
	Clear()
}

type Navigator interface {
	// RedirectTo navigates replacing the current location
	RedirectTo(path string)
}

type Gate struct {
	verifier TokenVerifier
	users    UserSource
	clearer  CredentialClearer
	nav      Navigator
}

func New(verifier TokenVerifier, users UserSource, clearer CredentialClearer, nav Navigator) *Gate {
	return &Gate{
		verifier: verifier,
		users:    users,
		clearer:  clearer,
		nav:      nav,
	}
}

// Start begins a new evaluation in the background. Every call is independent.
func (g *Gate) Start(ctx context.Context) *Evaluation {
	e := newEvaluation()
	go g.run(ctx, e)
	return e
}

// Evaluate runs an evaluation to completion
func (g *Gate) Evaluate(ctx context.Context) *Evaluation {
	e := g.Start(ctx)
	e.Wait()
	return e
}

func (g *Gate) run(ctx context.Context, e *Evaluation) {
	defer e.finish()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("gate evaluation panicked")
			e.fail(ctx, fmt.Errorf("[gate Evaluate] panic: %v", r))
		}
	}()

	valid, err := g.verifier.VerifyTokens(ctx)
	if e.abandoned(ctx) {
		return
	}
	if err != nil {
		e.fail(ctx, fmt.Errorf("[gate Evaluate] verify tokens: %w", err))
		return
	}
	if !valid {
		g.clearer.Clear()
		g.nav.RedirectTo(SigninPath)
		e.markRedirected()
		return
	}

	user, err := g.users.GetCurrentUser(ctx)
	if e.abandoned(ctx) {
		return
	}
	if err != nil {
		e.fail(ctx, fmt.Errorf("[gate Evaluate] current user: %w", err))
		return
	}
	if user.IsAdmin() {
		e.authorize(user)
	}
}
