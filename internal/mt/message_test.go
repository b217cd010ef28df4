package mt

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/sbdgate/internal/sbd"
)

func testIMEI() [15]byte {
	return [15]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E}
}

func testMTHeader() Header {
	return Header{
		ClientMsgID: 9999,
		IMEI:        testIMEI(),
		Flags: DispositionFlags{
			FlushQueue:     true,
			SendRingAlert:  true,
			UpdateLocation: true,
			HighPriority:   true,
			AssignMTMSN:    true,
		},
	}
}

func TestMTHeaderGoldenBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testMTHeader().WriteTo(&buf))
	want := []byte{
		0x41, 0x00, 0x15,
		0x00, 0x00, 0x27, 0x0F, // client message id 9999
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E,
		0x00, 0x3B, // all five disposition flags
	}
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, len(want), testMTHeader().Len())
}

func TestConfirmationGoldenBytes(t *testing.T) {
	confirmation := Confirmation{
		ClientMsgID: 9999,
		IMEI:        testIMEI(),
		IDReference: 4294967295,
		Status:      MessageStatusMTMSNOutOfRange,
	}
	var buf bytes.Buffer
	require.NoError(t, confirmation.WriteTo(&buf))
	want := []byte{
		0x44, 0x00, 0x19,
		0x00, 0x00, 0x27, 0x0F,
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E,
		0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xF5, // status -11
	}
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, len(want), confirmation.Len())
}

func TestConfirmationInvalidStatus(t *testing.T) {
	confirmation := Confirmation{Status: MessageStatus(51)}
	err := confirmation.WriteTo(io.Discard)
	var statusErr InvalidMessageStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, int16(51), statusErr.Status)
}

func TestMessageStatus(t *testing.T) {
	assert.True(t, MessageStatus(0).Success())
	assert.True(t, MessageStatus(50).Success())
	assert.False(t, MessageStatusMTQueueFull.Success())
	assert.NoError(t, MessageStatusCertificateRejected.Validate())
	assert.Error(t, MessageStatus(-13).Validate())
	assert.Equal(t, "QueuePosition(7)", MessageStatus(7).String())
	assert.Equal(t, "MTQueueFull", MessageStatusMTQueueFull.String())
	assert.Equal(t, "Invalid(-13)", MessageStatus(-13).String())
}

func TestInformationElementRoundtrip(t *testing.T) {
	elements := []InformationElement{
		testMTHeader(),
		Payload([]byte("hello from the client")),
		Confirmation{ClientMsgID: 9999, IMEI: testIMEI(), IDReference: 12, Status: 3},
	}
	for _, element := range elements {
		var buf bytes.Buffer
		require.NoError(t, element.WriteTo(&buf))
		assert.Equal(t, element.Len(), buf.Len())
		decoded, err := ReadInformationElement(&buf)
		require.NoError(t, err)
		assert.Equal(t, element, decoded)
	}
}

func TestReadInformationElementInvalidIdentifier(t *testing.T) {
	_, err := ReadInformationElement(bytes.NewReader([]byte{0x43, 0x00, 0x00}))
	var idErr sbd.InvalidIdentifierError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, uint8(0x43), idErr.Identifier)
}

func TestReadInformationElementBadHeaderLength(t *testing.T) {
	raw := []byte{0x41, 0x00, 0x14}
	raw = append(raw, make([]byte, 20)...)
	_, err := ReadInformationElement(bytes.NewReader(raw))
	var lengthErr sbd.ElementLengthError
	require.ErrorAs(t, err, &lengthErr)
	assert.Equal(t, 21, lengthErr.Want)
}

func TestReadInformationElementTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testMTHeader().WriteTo(&buf))
	truncated := buf.Bytes()[:buf.Len()-1]
	_, err := ReadInformationElement(bytes.NewReader(truncated))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestMessageOverallLength(t *testing.T) {
	// A 70-byte payload yields a 73-byte payload element; with the 24-byte
	// header the overall length field reads 97.
	message := NewMessage(testMTHeader(), Payload(make([]byte, 70)))
	var buf bytes.Buffer
	require.NoError(t, message.WriteTo(&buf))
	raw := buf.Bytes()
	assert.Equal(t, uint8(sbd.ProtocolRevision), raw[0])
	assert.Equal(t, uint16(97), binary.BigEndian.Uint16(raw[1:3]))
	assert.Len(t, raw, 3+97)
}

func TestMessageOverallLengthOverflow(t *testing.T) {
	message := NewMessage(testMTHeader(), Payload(make([]byte, 65535)))
	err := message.WriteTo(io.Discard)
	var overallErr sbd.OverallMessageLengthError
	require.ErrorAs(t, err, &overallErr)
	assert.Equal(t, 24+3+65535, overallErr.Len)
}
