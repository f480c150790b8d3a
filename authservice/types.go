package authservice

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-admin-console/users"
)

// Paths served by the authentication service
const (
	RouteSignin      = "/api/users/signin"
	RouteCurrentUser = "/api/users/currentuser"
	RouteToken       = "/oauth/token"
	RouteJWKS        = "/.well-known/jwks.json"
)

// Credentials are submitted by the sign-in form
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FieldMessage is one entry of the service's error payload. Field is empty for
// errors that concern the whole submission.
type FieldMessage struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the body returned by the service with a 4xx status
type ErrorResponse struct {
	Errors []FieldMessage `json:"errors"`
}

// CurrentUserResponse is the body of RouteCurrentUser; CurrentUser is null when
// the token does not identify anybody.
type CurrentUserResponse struct {
	CurrentUser *users.User `json:"currentUser"`
}

// RejectionError is returned when the service refuses a submission
type RejectionError struct {
	StatusCode int
	Errors     []FieldMessage
}

func (e *RejectionError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, m := range e.Errors {
		if m.Field != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", m.Field, m.Message))
			continue
		}
		msgs = append(msgs, m.Message)
	}
	if len(msgs) == 0 {
		return fmt.Sprintf("rejected with status %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return "rejected: " + strings.Join(msgs, "; ")
}
