package authservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-admin-console/credentials"
	"github.com/jrsteele09/go-admin-console/internal/config"
	apperrors "github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/token"
	"github.com/jrsteele09/go-admin-console/users"
	"golang.org/x/oauth2"
)

const maxBodyBytes = 1 << 20

type Options struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	// Issuer and JWKSURL enable signature verification of access tokens.
	// Without them only the expiry claim is inspected and the service remains
	// the authority (via RouteCurrentUser).
	Issuer     string
	JWKSURL    string
	Timeout    time.Duration
	Leeway     time.Duration
	HTTPClient *http.Client
}

// OptionsFromConfig builds client options for the given service URL
func OptionsFromConfig(cfg config.AuthServiceConfig, baseURL string) Options {
	return Options{
		BaseURL:      baseURL,
		ClientID:     cfg.GetAuthClientID(),
		ClientSecret: cfg.GetAuthClientSecret(),
		Issuer:       cfg.GetTokenIssuer(),
		JWKSURL:      cfg.GetJWKSURL(),
		Timeout:      cfg.GetAuthRequestTimeout(),
		Leeway:       cfg.GetTokenLeeway(),
	}
}

// Client talks to the external authentication service
type Client struct {
	baseURL    string
	httpClient *http.Client
	oauth      *oauth2.Config
	verifier   *oidc.IDTokenVerifier
	leeway     time.Duration
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("[authservice New] base URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		leeway:     opts.Leeway,
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  opts.BaseURL + RouteToken,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}

	if opts.Issuer != "" {
		jwksURL := opts.JWKSURL
		if jwksURL == "" {
			jwksURL = opts.BaseURL + RouteJWKS
		}
		keySet := oidc.NewRemoteKeySet(oidc.ClientContext(ctx, httpClient), jwksURL)
		c.verifier = oidc.NewVerifier(opts.Issuer, keySet, &oidc.Config{
			SkipClientIDCheck: true,
			Now:               token.NowTimeFunc,
		})
	}
	return c, nil
}

// Signin submits credentials. A *RejectionError is returned when the service
// refuses them; any other error means the service could not be reached.
func (c *Client) Signin(ctx context.Context, creds Credentials) (credentials.TokenPair, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return credentials.TokenPair{}, fmt.Errorf("[authservice Signin] encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RouteSignin, bytes.NewReader(body))
	if err != nil {
		return credentials.TokenPair{}, fmt.Errorf("[authservice Signin] build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return credentials.TokenPair{}, apperrors.Wrapf(apperrors.ErrTransport, "[authservice Signin] %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return credentials.TokenPair{}, apperrors.Wrapf(apperrors.ErrTransport, "[authservice Signin] read body: %v", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var pair credentials.TokenPair
		if err := json.Unmarshal(data, &pair); err != nil || pair.AccessToken == "" {
			return credentials.TokenPair{}, apperrors.Wrapf(apperrors.ErrMalformedPayload, "[authservice Signin]")
		}
		return pair, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var payload ErrorResponse
		_ = json.Unmarshal(data, &payload)
		return credentials.TokenPair{}, &RejectionError{StatusCode: resp.StatusCode, Errors: payload.Errors}
	default:
		return credentials.TokenPair{}, apperrors.Wrapf(apperrors.ErrUnexpectedStatus, "[authservice Signin] status %d", resp.StatusCode)
	}
}

// CurrentUser returns the user identified by the access token, or nil when the
// service does not recognise it.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*users.User, error) {
	if accessToken == "" {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+RouteCurrentUser, nil)
	if err != nil {
		return nil, fmt.Errorf("[authservice CurrentUser] build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrTransport, "[authservice CurrentUser] %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrUnexpectedStatus, "[authservice CurrentUser] status %d", resp.StatusCode)
	}

	var payload CurrentUserResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedPayload, "[authservice CurrentUser] %v", err)
	}
	return payload.CurrentUser, nil
}
