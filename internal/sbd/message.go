// Package sbd encodes and decodes Iridium Short Burst Data mobile-originated
// messages: the length-prefixed wire format, its TLV information elements, and
// the fixed-layout header and location sub-structures.
package sbd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

// ProtocolRevision is the only DirectIP protocol revision this codec speaks.
const ProtocolRevision = 1

// Message is a validated mobile-originated SBD message: exactly one header,
// exactly one payload, and at most one of each optional element type, in
// arrival order. Messages are immutable once constructed.
type Message struct {
	header  Header
	payload Payload
	extra   []InformationElement
}

// NewMessage assembles a message from a stream of information elements,
// classifying each in a single pass. Duplicate headers or payloads are
// rejected with the offending pair attached; other element kinds keep their
// arrival order.
func NewMessage(elements []InformationElement) (*Message, error) {
	var (
		header  *Header
		payload Payload
		havePay bool
		haveLoc bool
		extra   []InformationElement
	)
	for _, element := range elements {
		switch e := element.(type) {
		case Header:
			if header != nil {
				return nil, TwoHeadersError{First: *header, Second: e}
			}
			h := e
			header = &h
		case Payload:
			if havePay {
				return nil, TwoPayloadsError{First: payload, Second: e}
			}
			payload = e
			havePay = true
		case LocationInformation:
			if haveLoc {
				return nil, ErrTwoLocations
			}
			haveLoc = true
			extra = append(extra, e)
		default:
			extra = append(extra, e)
		}
	}
	if header == nil {
		return nil, ErrNoHeader
	}
	if !havePay {
		return nil, ErrNoPayload
	}
	return &Message{header: *header, payload: payload, extra: extra}, nil
}

// ReadMessage decodes one message from r: a one-byte protocol revision that
// must equal 1, a two-byte big-endian overall length, then exactly that many
// bytes of information elements. The element decode is bounded by the declared
// length, so an element that overruns it fails as undersized; bytes beyond the
// declared length are left unread.
func ReadMessage(r io.Reader) (*Message, error) {
	var prefix [3]byte
	if _, err := io.ReadFull(r, prefix[:1]); err != nil {
		return nil, err
	}
	if prefix[0] != ProtocolRevision {
		return nil, InvalidProtocolRevisionError{Number: prefix[0]}
	}
	if _, err := io.ReadFull(r, prefix[1:3]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("overall message length: %w", err)
	}
	overall := binary.BigEndian.Uint16(prefix[1:3])
	body := make([]byte, overall)
	if _, err := io.ReadFull(r, body); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("message body: %w", err)
	}

	buf := bytes.NewReader(body)
	var elements []InformationElement
	for buf.Len() > 0 {
		element, err := ReadInformationElement(buf)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	return NewMessage(elements)
}

// FromPath reads a message from a .sbd file.
func FromPath(path string) (*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMessage(f)
}

// WriteTo encodes the message as protocol revision, overall length, header
// element, payload element, then the remaining elements in original order.
func (m *Message) WriteTo(w io.Writer) error {
	overall := m.header.Len() + m.payload.Len()
	for _, element := range m.extra {
		overall += element.Len()
	}
	if overall > math.MaxUint16 {
		return OverallMessageLengthError{Len: overall}
	}
	var prefix [3]byte
	prefix[0] = ProtocolRevision
	binary.BigEndian.PutUint16(prefix[1:3], uint16(overall))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	if err := m.header.WriteTo(w); err != nil {
		return err
	}
	if err := m.payload.WriteTo(w); err != nil {
		return err
	}
	for _, element := range m.extra {
		if err := element.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// Header returns the message header.
func (m *Message) Header() Header { return m.header }

// Payload returns the message payload bytes.
func (m *Message) Payload() Payload { return m.payload }

// Extra returns the optional information elements in arrival order.
func (m *Message) Extra() []InformationElement { return m.extra }

// IMEI returns the device id as a string.
func (m *Message) IMEI() string { return string(m.header.IMEI[:]) }

// Location returns the decoded location estimate, or ok=false when the
// message carries no location element.
func (m *Message) Location() (MoLocation, bool, error) {
	for _, element := range m.extra {
		if raw, isLoc := element.(LocationInformation); isLoc {
			loc, err := raw.Location()
			return loc, true, err
		}
	}
	return MoLocation{}, false, nil
}

// SortByTimeOfSession orders messages chronologically by their time of
// session. Messages with equal times keep their relative order.
func SortByTimeOfSession(messages []*Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].header.TimeOfSession.Before(messages[j].header.TimeOfSession)
	})
}
