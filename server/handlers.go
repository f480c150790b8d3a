package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// IndexHandler renders the home page
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"AppName":   s.config.GetAppName(),
			"SignedIn":  !s.cookieStore(w, r).Load().IsEmpty(),
			"Dashboard": RouteAdminDashboard,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := s.pages.index.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render index template")
		}
	}
}

// HealthHandler reports that the process is serving requests
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// redirectSuccess helper for htmx-aware success redirects. The redirect
// replaces the current location.
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
