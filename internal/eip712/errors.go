package eip712

import "errors"

// Error kinds surfaced by the hashing pipeline. Every failure wraps one of
// these sentinels, so callers can match with errors.Is while still getting
// the field path or type name in the message. All of them mean the input is
// malformed; retrying with the same input will fail the same way.
var (
	// ErrInvalidIdentifier is returned when a declared field name or type
	// string does not match the identifier grammar.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrUndeclaredType is returned when a referenced type name has no
	// declaration and is not a recognized primitive.
	ErrUndeclaredType = errors.New("undeclared type")

	// ErrFieldMismatch is returned when a record value's key set does not
	// exactly equal its declared field set.
	ErrFieldMismatch = errors.New("field mismatch")

	// ErrArrayLengthMismatch is returned when a fixed-size array value has
	// the wrong number of elements.
	ErrArrayLengthMismatch = errors.New("array length mismatch")

	// ErrInvalidHexEncoding is returned when an address, bytesN or bytes
	// value fails to parse as hex data.
	ErrInvalidHexEncoding = errors.New("invalid hex encoding")

	// ErrIntegerOverflow is returned when an integer value exceeds its
	// declared bit width, or is negative for an unsigned type.
	ErrIntegerOverflow = errors.New("integer overflow")

	// ErrStructureTooLarge is returned when recursion depth exceeds the
	// configured safety bound.
	ErrStructureTooLarge = errors.New("structure too large")

	// ErrUnexpectedType is returned when a value's JSON shape does not
	// match the declared field type (e.g. a number where a record is
	// declared).
	ErrUnexpectedType = errors.New("unexpected type")
)
