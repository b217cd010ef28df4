package sbd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(t *testing.T) *Message {
	t.Helper()
	message, err := NewMessage([]InformationElement{
		testHeader(),
		Payload([]byte("test message from pete")),
		LocationInformation{0x00, 0x25, 0x75, 0x30, 0x7A, 0x3A, 0x98, 0x00, 0x00, 0x00, 0x05},
	})
	require.NoError(t, err)
	return message
}

func encodeMessage(t *testing.T, m *Message) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, m.WriteTo(&buf))
	return buf.Bytes()
}

func TestMessageRoundtrip(t *testing.T) {
	message := testMessage(t)
	raw := encodeMessage(t, message)
	decoded, err := ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, message, decoded)
}

func TestMessageAccessors(t *testing.T) {
	message := testMessage(t)
	assert.Equal(t, "300234063904190", message.IMEI())
	assert.Equal(t, uint32(1894516585), message.Header().AutoID)
	assert.Equal(t, Payload([]byte("test message from pete")), message.Payload())
	assert.Len(t, message.Extra(), 1)

	loc, ok, err := message.Location()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint8(37), loc.LatDeg)
}

func TestMessageNoLocation(t *testing.T) {
	message, err := NewMessage([]InformationElement{testHeader(), Payload(nil)})
	require.NoError(t, err)
	_, ok, err := message.Location()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadMessageInvalidProtocolRevision(t *testing.T) {
	raw := encodeMessage(t, testMessage(t))
	raw[0] = 2
	_, err := ReadMessage(bytes.NewReader(raw))
	var revErr InvalidProtocolRevisionError
	require.ErrorAs(t, err, &revErr)
	assert.Equal(t, uint8(2), revErr.Number)
}

func TestReadMessageTruncated(t *testing.T) {
	raw := encodeMessage(t, testMessage(t))
	for _, cut := range []int{1, 2, 10, len(raw) - 1} {
		_, err := ReadMessage(bytes.NewReader(raw[:cut]))
		require.Error(t, err, "cut at %d", cut)
	}
}

func TestReadMessageElementOverrunsBody(t *testing.T) {
	// The payload element declares more content than the overall length holds.
	raw := encodeMessage(t, testMessage(t))
	raw[35] = 0xFF // payload element length, high byte
	_, err := ReadMessage(bytes.NewReader(raw))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadMessageIgnoresTrailingBytes(t *testing.T) {
	raw := encodeMessage(t, testMessage(t))
	reader := bytes.NewReader(append(raw, 0xDE, 0xAD))
	_, err := ReadMessage(reader)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.Len())
}

func TestNewMessageValidation(t *testing.T) {
	header := testHeader()
	payload := Payload([]byte{1})

	_, err := NewMessage([]InformationElement{payload})
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = NewMessage([]InformationElement{header})
	assert.ErrorIs(t, err, ErrNoPayload)

	_, err = NewMessage([]InformationElement{header, header, payload})
	var twoHeaders TwoHeadersError
	require.ErrorAs(t, err, &twoHeaders)
	assert.Equal(t, header, twoHeaders.First)
	assert.Equal(t, header, twoHeaders.Second)

	_, err = NewMessage([]InformationElement{header, payload, Payload([]byte{2})})
	var twoPayloads TwoPayloadsError
	require.ErrorAs(t, err, &twoPayloads)
	assert.Equal(t, payload, twoPayloads.First)

	_, err = NewMessage([]InformationElement{header, payload, LocationInformation{}, LocationInformation{}})
	assert.ErrorIs(t, err, ErrTwoLocations)
}

func TestWriteMessageOverallLength(t *testing.T) {
	message, err := NewMessage([]InformationElement{
		testHeader(),
		Payload(make([]byte, 65535)),
	})
	require.NoError(t, err)
	err = message.WriteTo(io.Discard)
	var overallErr OverallMessageLengthError
	require.ErrorAs(t, err, &overallErr)
	assert.Equal(t, 31+3+65535, overallErr.Len)
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0-mo.sbd")
	require.NoError(t, os.WriteFile(path, encodeMessage(t, testMessage(t)), 0o644))

	message, err := FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "300234063904190", message.IMEI())

	_, err = FromPath(filepath.Join(dir, "missing.sbd"))
	assert.Error(t, err)
}

func TestSortByTimeOfSession(t *testing.T) {
	newAt := func(ts time.Time) *Message {
		header := testHeader()
		header.TimeOfSession = ts
		message, err := NewMessage([]InformationElement{header, Payload(nil)})
		require.NoError(t, err)
		return message
	}
	later := newAt(time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC))
	earlier := newAt(time.Date(2010, 6, 11, 0, 0, 0, 0, time.UTC))
	messages := []*Message{later, earlier}
	SortByTimeOfSession(messages)
	assert.Equal(t, []*Message{earlier, later}, messages)
}
