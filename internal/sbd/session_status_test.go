package sbd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStatusNames(t *testing.T) {
	tests := []struct {
		code uint8
		name string
	}{
		{code: 0, name: "Ok"},
		{code: 1, name: "OkMobileTerminatedTooLarge"},
		{code: 2, name: "OkLocationUnacceptableQuality"},
		{code: 10, name: "Timeout"},
		{code: 12, name: "MobileOriginatedTooLarge"},
		{code: 13, name: "RFLinkLoss"},
		{code: 14, name: "IMEIProtocolAnomaly"},
		{code: 15, name: "Prohibited"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, err := SessionStatusFromCode(tc.code)
			require.NoError(t, err)
			assert.True(t, status.Known())
			assert.Equal(t, tc.name, status.String())
		})
	}
}

func TestSessionStatusFromCodeUnknown(t *testing.T) {
	for _, code := range []uint8{3, 4, 9, 11, 16, 255} {
		_, err := SessionStatusFromCode(code)
		var unknownErr UnknownSessionStatusError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, code, unknownErr.Code)
	}
}

func TestSessionStatusUnknownString(t *testing.T) {
	status := SessionStatus(3)
	assert.False(t, status.Known())
	assert.Equal(t, "Unknown(3)", status.String())
}
