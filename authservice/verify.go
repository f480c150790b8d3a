package authservice

import (
	"context"
	"errors"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-admin-console/credentials"
	apperrors "github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Verify reports whether the pair still identifies a session. A usable access
// token is accepted as is; otherwise the refresh token is exchanged and the
// rotated pair is returned. (false, nil) means the tokens are invalid; an error
// means validity could not be determined.
func (c *Client) Verify(ctx context.Context, pair credentials.TokenPair) (credentials.TokenPair, bool, error) {
	if pair.AccessToken != "" && c.accessTokenValid(ctx, pair.AccessToken) {
		return pair, true, nil
	}
	if pair.RefreshToken == "" {
		return pair, false, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	refreshed, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: pair.RefreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && isClientError(retrieveErr.Response.StatusCode) {
			log.Debug().Int("status", retrieveErr.Response.StatusCode).Msg("refresh token rejected")
			return pair, false, nil
		}
		return pair, false, apperrors.Wrapf(apperrors.ErrTransport, "[authservice Verify] refresh: %v", err)
	}

	log.Debug().Msg("access token refreshed")
	return credentials.TokenPair{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: refreshed.RefreshToken,
	}, true, nil
}

func (c *Client) accessTokenValid(ctx context.Context, raw string) bool {
	if c.verifier != nil {
		if _, err := c.verifier.Verify(ctx, raw); err != nil {
			var expired *oidc.TokenExpiredError
			if errors.As(err, &expired) {
				log.Debug().Time("expiry", expired.Expiry).Msg("access token expired")
				return false
			}
			// includes an unreachable key set, which would otherwise look like a bad token
			log.Warn().Err(err).Msg("access token could not be verified")
			return false
		}
	}
	return token.StillValid(raw, c.leeway)
}

func isClientError(status int) bool {
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError
}
