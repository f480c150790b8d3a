package server

import (
	"net/http"

	"github.com/jrsteele09/go-admin-console/credentials"
	"github.com/jrsteele09/go-admin-console/signin"
	"github.com/rs/zerolog/log"
)

// SigninField is the template model of one input of the sign-in form
type SigninField struct {
	Name         string
	Label        string
	Type         string
	Value        string
	Error        string
	Autocomplete string
}

// SigninPageData contains data for rendering the sign-in page
type SigninPageData struct {
	AppName  string
	Message  string // whole-form error shown as a banner
	Email    SigninField
	Password SigninField
}

func (s *Server) signinPageData(form *signin.Form) SigninPageData {
	return SigninPageData{
		AppName:  s.config.GetAppName(),
		Message:  form.Errors[signin.FieldMessage],
		Email:    signinField(form, signin.FieldEmail),
		Password: signinField(form, signin.FieldPassword),
	}
}

func signinField(form *signin.Form, name string) SigninField {
	f := SigninField{Name: name, Error: form.Errors[name]}
	switch name {
	case signin.FieldEmail:
		f.Label, f.Type, f.Autocomplete = "Email Address", "email", "email"
		f.Value = form.Email
	case signin.FieldPassword:
		// The password is never echoed back
		f.Label, f.Type, f.Autocomplete = "Password", "password", "current-password"
	}
	return f
}

func (s *Server) renderSignin(w http.ResponseWriter, form *signin.Form, status int) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := s.pages.signin.Execute(w, s.signinPageData(form)); err != nil {
		log.Err(err).Msg("Failed to render signin template")
	}
}

// SigninPageHandler displays the sign-in page (GET /auth/signin)
func (s *Server) SigninPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderSignin(w, signin.New(), http.StatusOK)
	}
}

// SigninSubmitHandler processes the sign-in form submission
func (s *Server) SigninSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := signin.New()
		form.Email = r.PostFormValue(signin.FieldEmail)
		form.Password = r.PostFormValue(signin.FieldPassword)

		form.Submit(r.Context(), s.auth, signin.Callbacks{
			OnSuccess: func(pair credentials.TokenPair) {
				s.cookieStore(w, r).Save(pair)
			},
			OnError: func(errs signin.FieldErrors) {
				if errs[signin.FieldMessage] == signin.MsgGeneric {
					log.Warn().Str("email", form.Email).Msg("Sign in failed")
				}
			},
		})

		// a failed validation or a refused submission both leave errors behind
		if !form.HasErrors() {
			redirectSuccess(w, r, RouteIndex)
			return
		}
		s.renderSignin(w, form, http.StatusUnprocessableEntity)
	}
}

// SigninValidateHandler validates the field that changed and returns its
// helper text fragment
func (s *Server) SigninValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		name := r.Header.Get("HX-Trigger-Name")
		if name == "" {
			name = r.PostFormValue("field")
		}
		if name != signin.FieldEmail && name != signin.FieldPassword {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		form := signin.New()
		form.Change(name, r.PostFormValue(name))

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := s.pages.signin.ExecuteTemplate(w, "field_error", signinField(form, name)); err != nil {
			log.Err(err).Msg("Failed to render field fragment")
		}
	}
}

// SignoutHandler removes the stored tokens and returns to the sign-in page
func (s *Server) SignoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.cookieStore(w, r).Clear()
		redirectSuccess(w, r, RouteSignin)
	}
}
