// Package signin holds the state of the sign-in form: submitted values,
// validation messages and the submission to the authentication service.
package signin

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-admin-console/authservice"
	"github.com/jrsteele09/go-admin-console/credentials"
)

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	// FieldMessage is the reserved key for errors about the whole form
	FieldMessage = "message"
)

const (
	MsgEmailRequired    = "email is required"
	MsgEmailInvalid     = "please enter a valid email"
	MsgPasswordRequired = "password is required"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldErrors maps a field name to its message
type FieldErrors map[string]string

// Signer submits credentials to the authentication service
type Signer interface {
	Signin(ctx context.Context, creds authservice.Credentials) (credentials.TokenPair, error)
}

// Callbacks receive the outcome of a submission. Exactly one is invoked.
type Callbacks struct {
	OnSuccess func(pair credentials.TokenPair)
	OnError   func(errs FieldErrors)
}

type Form struct {
	Email    string
	Password string
	Errors   FieldErrors
}

func New() *Form {
	return &Form{Errors: FieldErrors{}}
}

// Change stores the value of one field and revalidates only that field.
// Unknown fields are ignored.
func (f *Form) Change(field, value string) {
	switch field {
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	default:
		return
	}
	f.ValidateField(field, value)
}

// ValidateField checks a single field and adds or removes its message.
// It returns true when the field is in error.
func (f *Form) ValidateField(field, value string) bool {
	var msg string
	switch field {
	case FieldEmail:
		msg = emailMessage(value)
	case FieldPassword:
		msg = passwordMessage(value)
	default:
		return false
	}
	f.setError(field, msg)
	return msg != ""
}

// Validate checks every field. It returns true when any field is in error.
func (f *Form) Validate() bool {
	emailErr := f.ValidateField(FieldEmail, f.Email)
	passwordErr := f.ValidateField(FieldPassword, f.Password)
	return emailErr || passwordErr
}

// Submit validates the form and, when it is clean, sends the credentials once.
// It returns whether a submission was made.
func (f *Form) Submit(ctx context.Context, signer Signer, cb Callbacks) bool {
	if f.Validate() {
		return false
	}

	pair, err := signer.Signin(ctx, authservice.Credentials{Email: f.Email, Password: f.Password})
	if err != nil {
		f.Errors = FormatErrors(err)
		if cb.OnError != nil {
			cb.OnError(f.Errors)
		}
		return true
	}
	if cb.OnSuccess != nil {
		cb.OnSuccess(pair)
	}
	return true
}

func (f *Form) HasErrors() bool {
	return len(f.Errors) > 0
}

func (f *Form) setError(field, msg string) {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	if msg == "" {
		delete(f.Errors, field)
		return
	}
	f.Errors[field] = msg
}

func emailMessage(value string) string {
	if validate.Var(value, "required") != nil {
		return MsgEmailRequired
	}
	if validate.Var(value, "email") != nil {
		return MsgEmailInvalid
	}
	return ""
}

func passwordMessage(value string) string {
	if validate.Var(value, "required") != nil {
		return MsgPasswordRequired
	}
	return ""
}
