package nostr

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure reported by this package.
type ErrorKind uint8

// The six failure kinds.
const (
	KindInvalidPublicKey ErrorKind = iota + 1
	KindInvalidEventID
	KindValidationFail
	KindInvalidSignatureFormat
	KindUnknownKey
	KindJSON
)

// String returns the variant name.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidPublicKey:
		return "InvalidPublicKey"
	case KindInvalidEventID:
		return "InvalidEventId"
	case KindValidationFail:
		return "ValidationFail"
	case KindInvalidSignatureFormat:
		return "InvalidSignatureFormat"
	case KindUnknownKey:
		return "UnknownKey"
	case KindJSON:
		return "Json"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Error is the value returned by every fallible operation in this package.
// Two errors are equal (==) iff they have the same kind and payload. Only
// KindUnknownKey and KindJSON carry a payload.
type Error struct {
	kind    ErrorKind
	payload string
}

// Values for the kinds that carry no payload.
var (
	ErrInvalidPublicKey       = Error{kind: KindInvalidPublicKey}
	ErrInvalidEventID         = Error{kind: KindInvalidEventID}
	ErrValidationFail         = Error{kind: KindValidationFail}
	ErrInvalidSignatureFormat = Error{kind: KindInvalidSignatureFormat}
)

// ErrInvalidSecretKey is returned when building signing keys. Signing keys are
// local material, so this is not part of the ErrorKind taxonomy.
var ErrInvalidSecretKey = errors.New("invalid secret key")

// UnknownKey reports a JSON object field that the target structure does not recognise.
func UnknownKey(name string) Error {
	return Error{kind: KindUnknownKey, payload: name}
}

// JSON reports any other (de)serialization failure. The message is kept verbatim.
func JSON(message string) Error {
	return Error{kind: KindJSON, payload: message}
}

// Kind returns the failure kind.
func (e Error) Kind() ErrorKind {
	return e.kind
}

// Payload returns the offending key for KindUnknownKey, the diagnostic for
// KindJSON and the empty string otherwise.
func (e Error) Payload() string {
	return e.payload
}

// Equal reports structural equality, the same as ==.
func (e Error) Equal(other Error) bool {
	return e == other
}

// Error returns a message that identifies the kind and includes any payload.
func (e Error) Error() string {
	switch e.kind {
	case KindInvalidPublicKey:
		return "invalid public key"
	case KindInvalidEventID:
		return "invalid event id"
	case KindValidationFail:
		return "signature validation failed"
	case KindInvalidSignatureFormat:
		return "invalid signature format"
	case KindUnknownKey:
		return "unknown JSON key: " + e.payload
	case KindJSON:
		return "JSON error: " + e.payload
	default:
		return fmt.Sprintf("unknown nostr error kind %d", uint8(e.kind))
	}
}

// Is matches targets of the same kind. A target without payload matches any
// payload, so errors.Is(err, UnknownKey("")) detects every unknown key.
func (e Error) Is(target error) bool {
	var other Error
	switch typed := target.(type) {
	case Error:
		other = typed
	case *Error:
		if typed == nil {
			return false
		}
		other = *typed
	default:
		return false
	}
	if other.kind != e.kind {
		return false
	}
	return other.payload == "" || other.payload == e.payload
}

// AsError extracts an Error from err, following wrapped errors.
func AsError(err error) (Error, bool) {
	var target Error
	if errors.As(err, &target) {
		return target, true
	}
	return Error{}, false
}

func jsonErrorf(format string, args ...any) Error {
	return JSON(fmt.Sprintf(format, args...))
}
