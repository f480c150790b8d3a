package authfake

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-admin-console/authservice"
	apperrors "github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgEmailInvalid       = "Email must be valid"
	msgPasswordRequired   = "You must supply a password"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *Service) signinHandler(w http.ResponseWriter, r *http.Request) {
	var creds authservice.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeErrors(w, http.StatusBadRequest, authservice.FieldMessage{Message: "Invalid request body"})
		return
	}

	var fieldErrs []authservice.FieldMessage
	if validate.Var(creds.Email, "required,email") != nil {
		fieldErrs = append(fieldErrs, authservice.FieldMessage{Field: "email", Message: msgEmailInvalid})
	}
	if validate.Var(creds.Password, "required") != nil {
		fieldErrs = append(fieldErrs, authservice.FieldMessage{Field: "password", Message: msgPasswordRequired})
	}
	if len(fieldErrs) > 0 {
		writeErrors(w, http.StatusBadRequest, fieldErrs...)
		return
	}

	acc, err := s.authenticate(creds.Email, creds.Password)
	if err != nil {
		log.Debug().Err(err).Str("email", creds.Email).Msg("authfake: sign in refused")
		writeErrors(w, http.StatusBadRequest, authservice.FieldMessage{Message: msgInvalidCredentials})
		return
	}

	s.lock.Lock()
	pair, err := s.issueLocked(acc)
	s.lock.Unlock()
	if err != nil {
		log.Err(err).Msg("authfake: failed to issue tokens")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Service) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		writeJSON(w, http.StatusOK, authservice.CurrentUserResponse{})
		return
	}
	writeJSON(w, http.StatusOK, authservice.CurrentUserResponse{CurrentUser: s.userForAccessToken(raw)})
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// tokenHandler implements the refresh_token grant only
func (s *Service) tokenHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, "invalid_request")
		return
	}
	if r.PostFormValue("grant_type") != "refresh_token" {
		writeOAuthError(w, "unsupported_grant_type")
		return
	}

	pair, err := s.rotate(r.PostFormValue("refresh_token"))
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidRefreshToken),
		apperrors.Is(err, apperrors.ErrTokenExpired),
		apperrors.Is(err, apperrors.ErrUserNotFound):
		writeOAuthError(w, "invalid_grant")
		return
	case err != nil:
		log.Err(err).Msg("authfake: failed to rotate refresh token")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.lock.RLock()
	ttl := s.accessTokenTTL
	s.lock.RUnlock()
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(ttl.Seconds()),
	})
}

func (s *Service) jwksHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, s.signer.JWKS())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrors(w http.ResponseWriter, status int, errs ...authservice.FieldMessage) {
	writeJSON(w, status, authservice.ErrorResponse{Errors: errs})
}

func writeOAuthError(w http.ResponseWriter, code string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": code})
}
