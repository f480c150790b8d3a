package server

import (
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex+"{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	// SIGN IN
	s.RegisterRouteHandler("GET "+RouteSignin, ChainMiddleware(s.SigninPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignin, ChainMiddleware(s.SigninSubmitHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSigninValidate, ChainMiddleware(s.SigninValidateHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSignout, ChainMiddleware(s.SignoutHandler(), s.HTMLMiddleWare()...))

	// Admin routes are only shown to administrators
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, ChainMiddleware(s.AdminDashboardHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware, s.RequireAdmin())...))
	s.RegisterRouteHandler("GET "+RouteAdminProfile, ChainMiddleware(s.AdminProfileHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware, s.RequireAdmin())...))

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
