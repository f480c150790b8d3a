package server

import (
	"context"
	"html/template"
	"net/http"

	"github.com/jrsteele09/go-admin-console/credentials"
	"github.com/jrsteele09/go-admin-console/gate"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the administrator admitted by RequireAdmin
const ContextKeyUser ContextKey = "user"

// CurrentUser returns the administrator admitted by RequireAdmin
func CurrentUser(ctx context.Context) *users.User {
	u, _ := ctx.Value(ContextKeyUser).(*users.User)
	return u
}

// pendingRedirect holds the gate's navigation until the evaluation is over, so
// that only the handler goroutine writes the response.
type pendingRedirect struct {
	path string
}

func (p *pendingRedirect) RedirectTo(path string) {
	if p.path == "" {
		p.path = path
	}
}

func (s *Server) cookieStore(w http.ResponseWriter, r *http.Request) *credentials.CookieStore {
	return credentials.NewCookieStore(w, r, s.config.GetCookieMaxAge(), s.config.GetCookieSecure())
}

// RequireAdmin only lets authenticated administrators through. Every request
// runs its own gate evaluation against the auth service.
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			store := s.cookieStore(w, r)
			session := s.auth.Session(store)
			nav := &pendingRedirect{}

			evaluation := gate.New(session, session, store, nav).Evaluate(r.Context())

			switch evaluation.State() {
			case gate.Error:
				log.Err(evaluation.Err()).Str("path", r.URL.Path).Msg("Failed to authorize request")
				s.renderGatePage(w, s.pages.gateError, http.StatusInternalServerError)
			case gate.Loading:
				s.renderGatePage(w, s.pages.gateLoading, http.StatusAccepted)
			case gate.Authorized:
				ctx := context.WithValue(r.Context(), ContextKeyUser, evaluation.User())
				next(w, r.WithContext(ctx))
			default:
				if evaluation.Err() != nil {
					// the caller went away before the evaluation finished
					return
				}
				if nav.path != "" {
					redirectSuccess(w, r, nav.path)
					return
				}
				s.renderGatePage(w, s.pages.unauthorized, http.StatusForbidden)
			}
		}
	}
}

func (s *Server) renderGatePage(w http.ResponseWriter, tmpl *template.Template, status int) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := tmpl.Execute(w, map[string]any{"AppName": s.config.GetAppName()}); err != nil {
		log.Err(err).Msg("Failed to render gate page")
	}
}
