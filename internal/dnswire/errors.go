// Package dnswire implements the DNS wire-format codec: encoding outbound
// queries, decoding responses, and resolving compressed names (RFC 1035
// Section 4).
package dnswire

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQueryType is returned when the encoder is asked to build a
	// query for a QTYPE it does not recognize.
	ErrInvalidQueryType = errors.New("dnswire: invalid query type")

	// ErrMalformedMessage is returned when a message cannot be decoded:
	// truncated input, a label longer than 63 bytes, an out-of-range
	// compression offset, or a pointer-chain cycle.
	ErrMalformedMessage = errors.New("dnswire: malformed message")

	// ErrMalformedName is returned specifically for name-decoding failures
	// (bad compression pointer, cycle, or depth overflow). It wraps
	// ErrMalformedMessage: name errors are a malformed message.
	ErrMalformedName = fmt.Errorf("%w: malformed name", ErrMalformedMessage)
)
