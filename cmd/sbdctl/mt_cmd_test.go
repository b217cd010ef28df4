package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/sbdgate/internal/mt"
	"example.com/sbdgate/internal/sbd"
)

func TestMtCmdWritesDecodableMessage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "queued.sbd")
	mtCmd([]string{
		"--imei", "300234063904190",
		"--id", "9999",
		"--payload", "hello",
		"--high-priority",
		"--out", out,
	})

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Greater(t, len(raw), 3)
	assert.Equal(t, uint8(sbd.ProtocolRevision), raw[0])
	assert.Equal(t, len(raw)-3, int(binary.BigEndian.Uint16(raw[1:3])))

	reader := bytes.NewReader(raw[3:])
	element, err := mt.ReadInformationElement(reader)
	require.NoError(t, err)
	header, ok := element.(mt.Header)
	require.True(t, ok)
	assert.Equal(t, uint32(9999), header.ClientMsgID)
	assert.True(t, header.Flags.HighPriority)
	assert.False(t, header.Flags.FlushQueue)

	element, err = mt.ReadInformationElement(reader)
	require.NoError(t, err)
	assert.Equal(t, mt.Payload([]byte("hello")), element)
	assert.Zero(t, reader.Len())
}

func TestMtCmdKeepsFullClientMsgID(t *testing.T) {
	out := filepath.Join(t.TempDir(), "queued.sbd")
	mtCmd([]string{
		"--imei", "300234063904190",
		"--id", "4294967295",
		"--payload", "x",
		"--out", out,
	})

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	element, err := mt.ReadInformationElement(bytes.NewReader(raw[3:]))
	require.NoError(t, err)
	header, ok := element.(mt.Header)
	require.True(t, ok)
	assert.Equal(t, uint32(4294967295), header.ClientMsgID)
}

func TestFormatPayload(t *testing.T) {
	assert.Equal(t, `"hi" (2 bytes)`, formatPayload(sbd.Payload([]byte("hi"))))
	assert.Equal(t, "00 ff (2 bytes)", formatPayload(sbd.Payload([]byte{0x00, 0xFF})))
}
