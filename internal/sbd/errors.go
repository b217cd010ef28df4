package sbd

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHeader is returned when a message is assembled without a header element.
	ErrNoHeader = errors.New("mobile-originated header is missing")
	// ErrNoPayload is returned when a message is assembled without a payload element.
	ErrNoPayload = errors.New("mobile-originated payload is missing")
	// ErrTwoLocations is returned when a message carries more than one location element.
	ErrTwoLocations = errors.New("more than one location information element")
)

// InvalidProtocolRevisionError reports a protocol revision byte other than 1.
type InvalidProtocolRevisionError struct {
	Number uint8
}

func (e InvalidProtocolRevisionError) Error() string {
	return fmt.Sprintf("invalid protocol revision number: %d", e.Number)
}

// InvalidIdentifierError reports an information element identifier this codec
// does not recognize.
type InvalidIdentifierError struct {
	Identifier uint8
}

func (e InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid information element identifier: 0x%02x", e.Identifier)
}

// ElementLengthError reports a fixed-layout information element whose declared
// length does not match its wire layout.
type ElementLengthError struct {
	Identifier uint8
	Length     uint16
	Want       int
}

func (e ElementLengthError) Error() string {
	return fmt.Sprintf("information element 0x%02x declares %d content bytes, want %d", e.Identifier, e.Length, e.Want)
}

// UnknownSessionStatusError reports a session status code outside the closed
// set defined by the DirectIP documentation.
type UnknownSessionStatusError struct {
	Code uint8
}

func (e UnknownSessionStatusError) Error() string {
	return fmt.Sprintf("unknown session status code: %d", e.Code)
}

// PayloadTooLongError reports a payload that does not fit the 16-bit length field.
type PayloadTooLongError struct {
	Len int
}

func (e PayloadTooLongError) Error() string {
	return fmt.Sprintf("payload is %d bytes, maximum is 65535", e.Len)
}

// OverallMessageLengthError reports an encoded message that does not fit the
// 16-bit overall length field.
type OverallMessageLengthError struct {
	Len int
}

func (e OverallMessageLengthError) Error() string {
	return fmt.Sprintf("overall message length is %d bytes, maximum is 65535", e.Len)
}

// NegativeTimestampError reports a time of session that predates the Unix epoch
// and cannot be encoded in the 32-bit epoch-seconds field.
type NegativeTimestampError struct {
	Timestamp int64
}

func (e NegativeTimestampError) Error() string {
	return fmt.Sprintf("time of session %d predates the unix epoch", e.Timestamp)
}

// TwoHeadersError reports a message that carries two header elements. Both
// offending headers are retained for diagnostics.
type TwoHeadersError struct {
	First  Header
	Second Header
}

func (e TwoHeadersError) Error() string {
	return "more than one mobile-originated header"
}

// TwoPayloadsError reports a message that carries two payload elements.
type TwoPayloadsError struct {
	First  Payload
	Second Payload
}

func (e TwoPayloadsError) Error() string {
	return "more than one mobile-originated payload"
}
