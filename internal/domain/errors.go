package domain

import "errors"

// Kind is the closed set of business error categories produced by the
// engine and surfaced over the API. The HTTP boundary matches on Kind
// explicitly; nothing maps numeric codes to types at runtime.
type Kind int

const (
	KindGeneric Kind = iota
	KindInvalidInstrument
	KindUnknownInstrument
	KindDuplicateOrder
	KindNotFound
)

// Wire codes, stable across releases. Serialized in the error envelope as
// {"errors":[{"code":..,"message":..}]}.
const (
	CodeGeneric           = 1000
	CodeInvalidInstrument = 1001
	CodeUnknownInstrument = 1002
	CodeDuplicateOrder    = 1003
	CodeNotFound          = 1004
)

// APIError is a business error with a fixed kind. A rejected order is NOT
// an APIError: rejection is a valid outcome carried by the Order record.
type APIError struct {
	Kind    Kind
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

var (
	// ErrInvalidInstrument is returned when an instrument name cannot be
	// decomposed into base/quote/type.
	ErrInvalidInstrument = &APIError{Kind: KindInvalidInstrument, Message: "invalid instrument"}

	// ErrUnknownInstrument is returned when no reference price exists for
	// the instrument.
	ErrUnknownInstrument = &APIError{Kind: KindUnknownInstrument, Message: "no such instrument found"}

	// ErrDuplicateOrder is returned when a client order id was already used.
	ErrDuplicateOrder = &APIError{Kind: KindDuplicateOrder, Message: "an order with this id already exists"}

	// ErrNotFound is returned on lookups for unknown order or trade ids.
	ErrNotFound = &APIError{Kind: KindNotFound, Message: "not found"}
)

// KindOf extracts the error kind, defaulting to KindGeneric for errors
// that did not originate from the engine.
func KindOf(err error) Kind {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindGeneric
}

// CodeFor returns the wire code for a kind.
func CodeFor(k Kind) int {
	switch k {
	case KindInvalidInstrument:
		return CodeInvalidInstrument
	case KindUnknownInstrument:
		return CodeUnknownInstrument
	case KindDuplicateOrder:
		return CodeDuplicateOrder
	case KindNotFound:
		return CodeNotFound
	default:
		return CodeGeneric
	}
}

// KindForCode is the inverse of CodeFor, used by the client to rebuild a
// typed error from the envelope.
func KindForCode(code int) Kind {
	switch code {
	case CodeInvalidInstrument:
		return KindInvalidInstrument
	case CodeUnknownInstrument:
		return KindUnknownInstrument
	case CodeDuplicateOrder:
		return KindDuplicateOrder
	case CodeNotFound:
		return KindNotFound
	default:
		return KindGeneric
	}
}
