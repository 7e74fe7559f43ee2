package cash

import (
	"errors"
	"fmt"
)

var (
	ErrMissingOrganization = errors.New("organization is required")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrSessionNotFound     = errors.New("cash session not found")
	ErrSessionNotOpen      = errors.New("cash session is not open")
	ErrMovementNotFound    = errors.New("cash movement not found")

	// ErrAuthorizationDenied is wrapped by stores when the database rejects
	// a statement on policy grounds. The wrapping error keeps the policy
	// message.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrDuplicateMovement is returned by stores when the reference pair of
	// a new movement already exists in its session.
	ErrDuplicateMovement = errors.New("movement already exists")
)

// Kind names a class of validation failure.
type Kind string

const (
	KindInvalidAmount        Kind = "InvalidAmount"
	KindAmountTooLarge       Kind = "AmountTooLarge"
	KindZeroAmountNotAllowed Kind = "ZeroAmountNotAllowed"
	KindReturnMustBeNegative Kind = "ReturnMustBeNegative"
	KindAmountMustBePositive Kind = "AmountMustBePositive"
	KindInvalidMovementType  Kind = "InvalidMovementType"
	KindMissingRequiredField Kind = "MissingRequiredField"
	KindInvalidIdentifier    Kind = "InvalidIdentifier"
	KindInvalidDate          Kind = "InvalidDate"
	KindFieldTooLong         Kind = "FieldTooLong"
	KindInvalidField         Kind = "InvalidField"
)

// ValidationError is returned for input rejected before any write.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches any ValidationError of the same kind, so field-specific errors
// still satisfy errors.Is against the package sentinels.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

var (
	ErrInvalidAmount        = &ValidationError{Kind: KindInvalidAmount, Message: "amount must be a finite number"}
	ErrAmountTooLarge       = &ValidationError{Kind: KindAmountTooLarge, Message: "amount must not exceed 10,000,000"}
	ErrZeroAmountNotAllowed = &ValidationError{Kind: KindZeroAmountNotAllowed, Message: "amount must not be zero"}
	ErrReturnMustBeNegative = &ValidationError{Kind: KindReturnMustBeNegative, Message: "return amount must be negative"}
	ErrAmountMustBePositive = &ValidationError{Kind: KindAmountMustBePositive, Message: "amount must be positive"}
	ErrInvalidMovementType  = &ValidationError{Kind: KindInvalidMovementType, Message: "type must be one of IN, OUT, SALE, RETURN, ADJUSTMENT"}
	ErrMissingRequiredField = &ValidationError{Kind: KindMissingRequiredField, Message: "missing required field"}
	ErrInvalidIdentifier    = &ValidationError{Kind: KindInvalidIdentifier, Message: "invalid identifier"}
	ErrInvalidDate          = &ValidationError{Kind: KindInvalidDate, Message: "invalid date"}
	ErrFieldTooLong         = &ValidationError{Kind: KindFieldTooLong, Message: "field too long"}
	ErrInvalidField         = &ValidationError{Kind: KindInvalidField, Message: "invalid field"}
)

// MissingField reports a required field that was not supplied.
func MissingField(name string) error {
	return &ValidationError{
		Kind:    KindMissingRequiredField,
		Message: fmt.Sprintf("%s is required", name),
	}
}

// InvalidIdentifier reports a field that should hold a UUID but does not.
func InvalidIdentifier(name string) error {
	return &ValidationError{
		Kind:    KindInvalidIdentifier,
		Message: fmt.Sprintf("%s must be a valid UUID", name),
	}
}

// FieldTooLong reports a text field longer than max characters.
func FieldTooLong(name string, max int) error {
	return &ValidationError{
		Kind:    KindFieldTooLong,
		Message: fmt.Sprintf("%s must be at most %d characters", name, max),
	}
}

// InvalidField reports a field whose value is not text.
func InvalidField(name string) error {
	return &ValidationError{
		Kind:    KindInvalidField,
		Message: fmt.Sprintf("%s must be a string", name),
	}
}

func invalidDate(name, value string) error {
	return &ValidationError{
		Kind:    KindInvalidDate,
		Message: fmt.Sprintf("%s: %q is not a date or timestamp", name, value),
	}
}
