package sbd

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

// Information element identifiers for the mobile-originated family.
const (
	ieiHeader              = 0x01
	ieiPayload             = 0x02
	ieiLocationInformation = 0x03
)

const (
	tlvHeaderSize     = 3
	headerContentSize = 28
	locationSize      = 11
)

// InformationElement is one TLV element of a mobile-originated message:
// a Header, a Payload, or a LocationInformation.
type InformationElement interface {
	// Len returns the fully encoded size of the element, the 3-byte TLV
	// header included.
	Len() int
	// WriteTo encodes the element as identifier, big-endian length, content.
	WriteTo(w io.Writer) error
}

// Header is the mobile-originated header information element (IEI 0x01).
type Header struct {
	// AutoID is the Iridium gateway call record id.
	AutoID uint32
	// IMEI is the device id, 15 ASCII digits.
	IMEI [15]byte
	// SessionStatus is the outcome of the SBD session.
	SessionStatus SessionStatus
	// MOMSN is the mobile-originated message sequence number.
	MOMSN uint16
	// MTMSN is the mobile-terminated message sequence number.
	MTMSN uint16
	// TimeOfSession is the session time, second resolution, UTC.
	TimeOfSession time.Time
}

// Len returns the encoded size of the header element, which is fixed.
func (h Header) Len() int { return tlvHeaderSize + headerContentSize }

// WriteTo encodes the header element. A time of session before the Unix epoch
// cannot be represented in the 32-bit epoch-seconds field and is rejected.
func (h Header) WriteTo(w io.Writer) error {
	timestamp := h.TimeOfSession.Unix()
	if timestamp < 0 {
		return NegativeTimestampError{Timestamp: timestamp}
	}
	if timestamp > math.MaxUint32 {
		return fmt.Errorf("time of session %d does not fit in 32 bits", timestamp)
	}
	buf := make([]byte, tlvHeaderSize+headerContentSize)
	buf[0] = ieiHeader
	binary.BigEndian.PutUint16(buf[1:3], headerContentSize)
	binary.BigEndian.PutUint32(buf[3:7], h.AutoID)
	copy(buf[7:22], h.IMEI[:])
	buf[22] = byte(h.SessionStatus)
	binary.BigEndian.PutUint16(buf[23:25], h.MOMSN)
	binary.BigEndian.PutUint16(buf[25:27], h.MTMSN)
	binary.BigEndian.PutUint32(buf[27:31], uint32(timestamp))
	_, err := w.Write(buf)
	return err
}

func parseHeader(content []byte) (Header, error) {
	if len(content) != headerContentSize {
		return Header{}, ElementLengthError{Identifier: ieiHeader, Length: uint16(len(content)), Want: headerContentSize}
	}
	var h Header
	h.AutoID = binary.BigEndian.Uint32(content[0:4])
	copy(h.IMEI[:], content[4:19])
	h.SessionStatus = SessionStatus(content[19])
	h.MOMSN = binary.BigEndian.Uint16(content[20:22])
	h.MTMSN = binary.BigEndian.Uint16(content[22:24])
	h.TimeOfSession = time.Unix(int64(binary.BigEndian.Uint32(content[24:28])), 0).UTC()
	return h, nil
}

// Payload is the mobile-originated payload information element (IEI 0x02).
// The codec does not interpret the payload bytes.
type Payload []byte

// Len returns the encoded size of the payload element.
func (p Payload) Len() int { return tlvHeaderSize + len(p) }

// WriteTo encodes the payload element. A payload longer than 65535 bytes does
// not fit the 16-bit length field and is rejected.
func (p Payload) WriteTo(w io.Writer) error {
	if len(p) > math.MaxUint16 {
		return PayloadTooLongError{Len: len(p)}
	}
	var hdr [tlvHeaderSize]byte
	hdr[0] = ieiPayload
	binary.BigEndian.PutUint16(hdr[1:3], uint16(len(p)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(p)
	return err
}

// LocationInformation is the raw mobile-originated location estimate element
// (IEI 0x03). Use Location to parse it into fields.
type LocationInformation [locationSize]byte

// Len returns the encoded size of the location element, which is fixed.
func (l LocationInformation) Len() int { return tlvHeaderSize + locationSize }

// WriteTo encodes the location element.
func (l LocationInformation) WriteTo(w io.Writer) error {
	buf := make([]byte, tlvHeaderSize+locationSize)
	buf[0] = ieiLocationInformation
	binary.BigEndian.PutUint16(buf[1:3], locationSize)
	copy(buf[tlvHeaderSize:], l[:])
	_, err := w.Write(buf)
	return err
}

// Location parses the raw bytes into a location estimate.
func (l LocationInformation) Location() (MoLocation, error) {
	return ParseMoLocation(l)
}

// ReadInformationElement decodes one TLV element from r: a one-byte
// identifier, a two-byte big-endian content length, then exactly that many
// content bytes. A read that yields fewer content bytes than declared fails;
// it never silently truncates.
func ReadInformationElement(r io.Reader) (InformationElement, error) {
	var tlv [tlvHeaderSize]byte
	if _, err := io.ReadFull(r, tlv[:]); err != nil {
		return nil, err
	}
	iei := tlv[0]
	length := binary.BigEndian.Uint16(tlv[1:3])
	content := make([]byte, length)
	if _, err := io.ReadFull(r, content); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("information element 0x%02x content: %w", iei, err)
	}
	switch iei {
	case ieiHeader:
		return parseHeader(content)
	case ieiPayload:
		return Payload(content), nil
	case ieiLocationInformation:
		if len(content) != locationSize {
			return nil, ElementLengthError{Identifier: ieiLocationInformation, Length: length, Want: locationSize}
		}
		var l LocationInformation
		copy(l[:], content)
		return l, nil
	default:
		return nil, InvalidIdentifierError{Identifier: iei}
	}
}
