package server

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-admin-console/users"
	"github.com/rs/zerolog/log"
)

// renderAdminPage renders a page with the admin layout
func (s *Server) renderAdminPage(w http.ResponseWriter, r *http.Request, activePage, pageTitle string, content *template.Template) {
	// Set by RequireAdmin
	user := CurrentUser(r.Context())
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	data := map[string]any{
		"User":       user,
		"UserName":   displayName(user),
		"Roles":      user.Roles.Sorted(),
		"AppName":    s.config.GetAppName(),
		"Env":        s.env,
		"ActivePage": activePage,
		"PageTitle":  pageTitle,
	}

	// Render content to string
	var contentBuf strings.Builder
	if err := content.Execute(&contentBuf, data); err != nil {
		log.Err(err).Str("page", activePage).Msg("Failed to render content")
		http.Error(w, "Failed to render content", http.StatusInternalServerError)
		return
	}
	data["Content"] = template.HTML(contentBuf.String())

	w.Header().Set("Content-Type", contentTypeHTML)
	if err := s.pages.adminLayout.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render admin layout")
	}
}

func displayName(u *users.User) string {
	if name, _, ok := strings.Cut(u.Email, "@"); ok && name != "" {
		return name
	}
	return u.Email
}

// AdminDashboardHandler renders the admin dashboard
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderAdminPage(w, r, "dashboard", "Dashboard", s.pages.dashboard)
	}
}

// AdminProfileHandler shows the signed in administrator
func (s *Server) AdminProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderAdminPage(w, r, "profile", "Profile", s.pages.profile)
	}
}
