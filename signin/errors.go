package signin

import (
	"errors"

	"github.com/jrsteele09/go-admin-console/authservice"
)

// MsgGeneric is shown when a submission fails without a usable payload
const MsgGeneric = "Something went wrong"

// FormatErrors turns a failed submission into form messages. Entries without a
// field become the whole-form message; the first one wins.
func FormatErrors(err error) FieldErrors {
	var rejection *authservice.RejectionError
	if !errors.As(err, &rejection) || len(rejection.Errors) == 0 {
		return FieldErrors{FieldMessage: MsgGeneric}
	}

	errs := FieldErrors{}
	for _, e := range rejection.Errors {
		field := e.Field
		if field == "" {
			field = FieldMessage
		}
		if _, exists := errs[field]; exists {
			continue
		}
		errs[field] = e.Message
	}
	return errs
}
