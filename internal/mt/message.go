// Package mt builds and decodes Iridium Short Burst Data mobile-terminated
// messages: the MT header with its disposition flags, the payload, and the
// confirmation the gateway answers with.
package mt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"example.com/sbdgate/internal/sbd"
)

// Information element identifiers for the mobile-terminated family.
const (
	ieiHeader       = 0x41
	ieiPayload      = 0x42
	ieiConfirmation = 0x44
)

const (
	tlvHeaderSize           = 3
	headerContentSize       = 21
	confirmationContentSize = 25
)

// InformationElement is one TLV element of a mobile-terminated message:
// a Header, a Payload, or a Confirmation.
type InformationElement interface {
	// Len returns the fully encoded size of the element, the 3-byte TLV
	// header included.
	Len() int
	// WriteTo encodes the element as identifier, big-endian length, content.
	WriteTo(w io.Writer) error
}

// Header is the mobile-terminated header information element (IEI 0x41),
// a fixed 24 bytes on the wire.
type Header struct {
	// ClientMsgID is echoed back in the confirmation; with AssignMTMSN set it
	// becomes the MTMSN of the payload.
	ClientMsgID uint32
	// IMEI is the destination device id, 15 ASCII digits.
	IMEI [15]byte
	// Flags trigger gateway-side actions for this message.
	Flags DispositionFlags
}

// Len returns the encoded size of the header element, which is fixed.
func (h Header) Len() int { return tlvHeaderSize + headerContentSize }

// WriteTo encodes the header element.
func (h Header) WriteTo(w io.Writer) error {
	buf := make([]byte, tlvHeaderSize+headerContentSize)
	buf[0] = ieiHeader
	binary.BigEndian.PutUint16(buf[1:3], headerContentSize)
	binary.BigEndian.PutUint32(buf[3:7], h.ClientMsgID)
	copy(buf[7:22], h.IMEI[:])
	binary.BigEndian.PutUint16(buf[22:24], h.Flags.Encode())
	_, err := w.Write(buf)
	return err
}

// Payload is the mobile-terminated payload information element (IEI 0x42).
// The gateway accepts 1 through 1890 content bytes; the codec itself only
// enforces the 16-bit length field.
type Payload []byte

// Len returns the encoded size of the payload element.
func (p Payload) Len() int { return tlvHeaderSize + len(p) }

// WriteTo encodes the payload element.
func (p Payload) WriteTo(w io.Writer) error {
	if len(p) > math.MaxUint16 {
		return sbd.PayloadTooLongError{Len: len(p)}
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

// Confirmation is the gateway's answer to an MT message (IEI 0x44), a fixed
// 28 bytes on the wire.
type Confirmation struct {
	// ClientMsgID echoes the id from the MT header.
	ClientMsgID uint32
	// IMEI is the destination device id.
	IMEI [15]byte
	// IDReference is the gateway-assigned id for the queued payload; zero
	// when the message was rejected.
	IDReference uint32
	// Status is the queue position or failure reason.
	Status MessageStatus
}

// Len returns the encoded size of the confirmation element, which is fixed.
func (c Confirmation) Len() int { return tlvHeaderSize + confirmationContentSize }

// WriteTo encodes the confirmation element, rejecting invalid statuses.
func (c Confirmation) WriteTo(w io.Writer) error {
	if err := c.Status.Validate(); err != nil {
		return err
	}
	buf := make([]byte, tlvHeaderSize+confirmationContentSize)
	buf[0] = ieiConfirmation
	binary.BigEndian.PutUint16(buf[1:3], confirmationContentSize)
	binary.BigEndian.PutUint32(buf[3:7], c.ClientMsgID)
	copy(buf[7:22], c.IMEI[:])
	binary.BigEndian.PutUint32(buf[22:26], c.IDReference)
	binary.BigEndian.PutUint16(buf[26:28], uint16(c.Status))
	_, err := w.Write(buf)
	return err
}

// ReadInformationElement decodes one mobile-terminated TLV element from r,
// with the same length discipline as the mobile-originated codec: a short
// content read is an error, never a truncation.
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
		if len(content) != headerContentSize {
			return nil, sbd.ElementLengthError{Identifier: ieiHeader, Length: length, Want: headerContentSize}
		}
		var h Header
		h.ClientMsgID = binary.BigEndian.Uint32(content[0:4])
		copy(h.IMEI[:], content[4:19])
		h.Flags = DecodeDispositionFlags(binary.BigEndian.Uint16(content[19:21]))
		return h, nil
	case ieiPayload:
		return Payload(content), nil
	case ieiConfirmation:
		if len(content) != confirmationContentSize {
			return nil, sbd.ElementLengthError{Identifier: ieiConfirmation, Length: length, Want: confirmationContentSize}
		}
		var c Confirmation
		c.ClientMsgID = binary.BigEndian.Uint32(content[0:4])
		copy(c.IMEI[:], content[4:19])
		c.IDReference = binary.BigEndian.Uint32(content[19:23])
		c.Status = MessageStatus(int16(binary.BigEndian.Uint16(content[23:25])))
		if err := c.Status.Validate(); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, sbd.InvalidIdentifierError{Identifier: iei}
	}
}

// Message is an ordered list of mobile-terminated information elements with a
// single overall length prefix computed at encode time.
type Message struct {
	Elements []InformationElement
}

// NewMessage builds the usual header-then-payload MT message.
func NewMessage(header Header, payload Payload) *Message {
	return &Message{Elements: []InformationElement{header, payload}}
}

// WriteTo encodes the message as protocol revision, overall length, then each
// element in order. The overall length counts fully encoded element sizes.
func (m *Message) WriteTo(w io.Writer) error {
	overall := 0
	for _, element := range m.Elements {
		overall += element.Len()
	}
	if overall > math.MaxUint16 {
		return sbd.OverallMessageLengthError{Len: overall}
	}
	var prefix [3]byte
	prefix[0] = sbd.ProtocolRevision
	binary.BigEndian.PutUint16(prefix[1:3], uint16(overall))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	for _, element := range m.Elements {
		if err := element.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}
