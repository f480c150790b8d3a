package signin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-admin-console/authservice"
	"github.com/jrsteele09/go-admin-console/credentials"
	"github.com/jrsteele09/go-admin-console/signin"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	pair  credentials.TokenPair
	err   error
	calls []authservice.Credentials
}

func (s *fakeSigner) Signin(_ context.Context, creds authservice.Credentials) (credentials.TokenPair, error) {
	s.calls = append(s.calls, creds)
	return s.pair, s.err
}

type outcome struct {
	successes []credentials.TokenPair
	failures  []signin.FieldErrors
}

func (o *outcome) callbacks() signin.Callbacks {
	return signin.Callbacks{
		OnSuccess: func(p credentials.TokenPair) { o.successes = append(o.successes, p) },
		OnError:   func(e signin.FieldErrors) { o.failures = append(o.failures, e) },
	}
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		isError bool
		message string
	}{
		{"empty email", signin.FieldEmail, "", true, signin.MsgEmailRequired},
		{"malformed email", signin.FieldEmail, "not-an-email", true, signin.MsgEmailInvalid},
		{"valid email", signin.FieldEmail, "a@b.co", false, ""},
		{"empty password", signin.FieldPassword, "", true, signin.MsgPasswordRequired},
		{"password", signin.FieldPassword, "x", false, ""},
		{"unknown field", "nickname", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := signin.New()
			require.Equal(t, tt.isError, f.ValidateField(tt.field, tt.value))
			require.Equal(t, tt.message, f.Errors[tt.field])
		})
	}
}

func TestChangeOnlyTouchesThatField(t *testing.T) {
	f := signin.New()
	f.Change(signin.FieldEmail, "bad")
	require.Equal(t, signin.FieldErrors{signin.FieldEmail: signin.MsgEmailInvalid}, f.Errors)

	f.Change(signin.FieldPassword, "secret")
	require.Equal(t, signin.MsgEmailInvalid, f.Errors[signin.FieldEmail])
	require.NotContains(t, f.Errors, signin.FieldPassword)

	f.Change(signin.FieldEmail, "user@example.com")
	require.Empty(t, f.Errors)
	require.Equal(t, "user@example.com", f.Email)
	require.Equal(t, "secret", f.Password)
}

func TestChangeLeavesWholeFormMessage(t *testing.T) {
	f := signin.New()
	f.Errors[signin.FieldMessage] = "Invalid credentials"
	f.Change(signin.FieldEmail, "user@example.com")
	require.Equal(t, "Invalid credentials", f.Errors[signin.FieldMessage])
}

func TestSubmitWithInvalidFormDoesNotCallService(t *testing.T) {
	signer := &fakeSigner{}
	var o outcome
	f := signin.New()
	f.Email = "user@example.com"

	submitted := f.Submit(context.Background(), signer, o.callbacks())

	require.False(t, submitted)
	require.Empty(t, signer.calls)
	require.Empty(t, o.successes)
	require.Empty(t, o.failures)
	require.Equal(t, signin.FieldErrors{signin.FieldPassword: signin.MsgPasswordRequired}, f.Errors)
}

func TestSubmitWithMalformedEmailDoesNotCallService(t *testing.T) {
	signer := &fakeSigner{}
	var o outcome
	f := signin.New()
	f.Email = "not-an-email"
	f.Password = "secret"

	submitted := f.Submit(context.Background(), signer, o.callbacks())

	require.False(t, submitted)
	require.Empty(t, signer.calls)
	require.Empty(t, o.successes)
	require.Empty(t, o.failures)
	require.Equal(t, signin.FieldErrors{signin.FieldEmail: signin.MsgEmailInvalid}, f.Errors)
	require.True(t, f.HasErrors())
}

func TestSubmitSuccess(t *testing.T) {
	pair := credentials.TokenPair{AccessToken: "a", RefreshToken: "r"}
	signer := &fakeSigner{pair: pair}
	var o outcome
	f := signin.New()
	f.Change(signin.FieldEmail, "user@example.com")
	f.Change(signin.FieldPassword, "secret")

	require.True(t, f.Submit(context.Background(), signer, o.callbacks()))

	require.Equal(t, []authservice.Credentials{{Email: "user@example.com", Password: "secret"}}, signer.calls)
	require.Equal(t, []credentials.TokenPair{pair}, o.successes)
	require.Empty(t, o.failures)
	require.False(t, f.HasErrors())
}

func TestSubmitRejected(t *testing.T) {
	signer := &fakeSigner{err: &authservice.RejectionError{
		StatusCode: 400,
		Errors:     []authservice.FieldMessage{{Message: "Invalid credentials"}},
	}}
	var o outcome
	f := signin.New()
	f.Email, f.Password = "user@example.com", "wrong"

	require.True(t, f.Submit(context.Background(), signer, o.callbacks()))

	require.Len(t, signer.calls, 1)
	require.Empty(t, o.successes)
	require.Equal(t, []signin.FieldErrors{{signin.FieldMessage: "Invalid credentials"}}, o.failures)
	require.Equal(t, "Invalid credentials", f.Errors[signin.FieldMessage])
}

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want signin.FieldErrors
	}{
		{
			name: "field and form errors",
			err: &authservice.RejectionError{Errors: []authservice.FieldMessage{
				{Field: "email", Message: "Email in use"},
				{Message: "first"},
				{Message: "second"},
			}},
			want: signin.FieldErrors{"email": "Email in use", signin.FieldMessage: "first"},
		},
		{
			name: "wrapped rejection",
			err: errors.Join(errors.New("ctx"), &authservice.RejectionError{Errors: []authservice.FieldMessage{
				{Field: "password", Message: "too short"},
			}}),
			want: signin.FieldErrors{"password": "too short"},
		},
		{
			name: "rejection without payload",
			err:  &authservice.RejectionError{StatusCode: 400},
			want: signin.FieldErrors{signin.FieldMessage: signin.MsgGeneric},
		},
		{
			name: "transport failure",
			err:  errors.New("connection refused"),
			want: signin.FieldErrors{signin.FieldMessage: signin.MsgGeneric},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, signin.FormatErrors(tt.err))
		})
	}
}
