package server

import "github.com/jrsteele09/go-admin-console/gate"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Auth Routes - Sign in & Sign out
	RouteSignin         = gate.SigninPath
	RouteSigninValidate = "/auth/signin/validate"
	RouteSignout        = "/auth/signout"

	// Admin Routes
	RouteAdminDashboard = "/admin/dashboard"
	RouteAdminProfile   = "/admin/profile"

	RouteHealth = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)
