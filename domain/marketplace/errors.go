package marketplace

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidPrice        ErrorKind = "InvalidPrice"
	KindItemNotFound        ErrorKind = "ItemNotFound"
	KindInsufficientPayment ErrorKind = "InsufficientPayment"
	KindAlreadySold         ErrorKind = "AlreadySold"
	KindTransferRejected    ErrorKind = "TransferRejected"
	KindPaymentRejected     ErrorKind = "PaymentRejected"
)

// Error is a ledger failure a caller can act on. The call that returned it changed nothing.
type Error struct {
	Kind   ErrorKind `json:"kind"`
	Reason string    `json:"reason"`
	// Err is the collaborator failure behind TransferRejected and PaymentRejected
	Err error `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrAlreadySold) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidPrice        = &Error{Kind: KindInvalidPrice, Reason: "Price must be greater than zero"}
	ErrItemNotFound        = &Error{Kind: KindItemNotFound, Reason: "Item does not exist."}
	ErrInsufficientPayment = &Error{Kind: KindInsufficientPayment, Reason: "Not enough Ether to cover item price and market fee."}
	ErrAlreadySold         = &Error{Kind: KindAlreadySold, Reason: "Item has already been sold."}
	ErrTransferRejected    = &Error{Kind: KindTransferRejected}
	ErrPaymentRejected     = &Error{Kind: KindPaymentRejected}
)

// TransferRejected keeps the registry's reason unchanged
func TransferRejected(err error) *Error {
	return &Error{Kind: KindTransferRejected, Reason: err.Error(), Err: err}
}

// PaymentRejected keeps the bank's reason unchanged
func PaymentRejected(err error) *Error {
	return &Error{Kind: KindPaymentRejected, Reason: err.Error(), Err: err}
}

// KindOf returns the ledger kind of err, empty for other errors
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
