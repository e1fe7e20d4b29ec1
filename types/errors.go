package types

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure so callers can always tell an
// authorization denial from a transport problem.
type Kind string

const (
	KindInput     Kind = "input"
	KindDenied    Kind = "denied"
	KindNotFound  Kind = "not_found"
	KindTransient Kind = "transient"
	KindInternal  Kind = "internal"
)

// Denial and input reason codes.
const (
	ReasonMissingFields           = "missing_fields"
	ReasonTransactionUnresolvable = "transaction_unresolvable"
	ReasonTransactionFailed       = "transaction_failed"
	ReasonWrongContract           = "wrong_contract"
	ReasonNoPaymentEvent          = "no_payment_event"
	ReasonEntityMismatch          = "entity_mismatch"
	ReasonPayerMismatch           = "payer_mismatch"
	ReasonReferenceReplayed       = "reference_replayed"
	ReasonInsufficientAmount      = "insufficient_amount"
	ReasonLeafInactive            = "leaf_inactive"
)

// GateError carries a failure kind, a machine-readable code and a
// human-readable message across package boundaries.
type GateError struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *GateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GateError) Unwrap() error { return e.Err }

func NewInputError(code, message string) *GateError {
	return &GateError{Kind: KindInput, Code: code, Message: message}
}

func NewDenied(code, message string) *GateError {
	return &GateError{Kind: KindDenied, Code: code, Message: message}
}

func NewNotFound(message string) *GateError {
	return &GateError{Kind: KindNotFound, Code: "not_found", Message: message}
}

func NewTransient(message string, err error) *GateError {
	return &GateError{Kind: KindTransient, Code: "unavailable", Message: message, Err: err}
}

func NewInternal(message string, err error) *GateError {
	return &GateError{Kind: KindInternal, Code: "internal_error", Message: message, Err: err}
}

// KindOf extracts the failure kind from err. Errors that do not carry a
// GateError are treated as internal.
func KindOf(err error) Kind {
	var ge *GateError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindInternal
}

// CodeOf extracts the machine-readable code from err, if any.
func CodeOf(err error) string {
	var ge *GateError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}
