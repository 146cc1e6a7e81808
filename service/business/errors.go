package business

import (
	"errors"
	"fmt"

	"github.com/agriconnect/service-payments/service/validate"
)

var (
	ErrInitializationFail = errors.New("internal configuration is invalid")

	ErrInvalidPaymentRequest = errors.New("invalid payment request")

	ErrPaymentDoesNotExist = errors.New("specified payment does not exist")

	ErrPaymentNotProcessing = errors.New("specified payment is not awaiting verification")

	ErrPaymentAlreadyCanceled = errors.New("specified payment has already been canceled")

	ErrPaymentNotCancellable = errors.New("specified payment cannot be canceled")

	ErrAccountDoesNotExist = errors.New("specified farmer account does not exist")

	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted")
)

// ValidationError carries per-field failures from submission checks so
// handlers can surface them inline.
type ValidationError struct {
	Fields map[string]validate.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %d field(s) failed validation", ErrInvalidPaymentRequest, len(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPaymentRequest
}
