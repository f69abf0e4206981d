package model

import "errors"

// Kind groups pawpad failures by what went wrong with the input.
type Kind string

const (
	// KindRange: a number outside its domain (selector byte, fingerprint length).
	KindRange Kind = "Range"
	// KindFormat: text that does not parse (fingerprint hex).
	KindFormat Kind = "Format"
	// KindEmptyCarrier: a message needs at least one carrier character.
	KindEmptyCarrier Kind = "EmptyCarrier"
	// KindInvalidCarrier: single-character mode got zero or several characters.
	KindInvalidCarrier Kind = "InvalidCarrier"
	KindKey            Kind = "Key"
	KindConfig         Kind = "Config"
	KindInternal       Kind = "Internal"
)

// Error carries a Kind plus a RuleID of the form PAWPAD-<AREA>-<NNN>.
// Tampered or unsigned text is reported through verification results and never
// produces an Error.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

// Error renders "<RuleID>: <Message>", followed by the cause when present.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.RuleID != "" {
		msg = e.RuleID + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError is NewError with a cause; a nil cause is dropped.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsKind looks through wrapping for a pawpad error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := asError(err)
	return ok && e.Kind == kind
}

// RuleID returns the rule behind err, or "" for foreign errors.
func RuleID(err error) string {
	if e, ok := asError(err); ok {
		return e.RuleID
	}
	return ""
}
