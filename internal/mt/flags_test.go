package mt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispositionFlagsEncode(t *testing.T) {
	tests := []struct {
		name  string
		flags DispositionFlags
		code  uint16
	}{
		{"none", DispositionFlags{}, 0},
		{"flush", DispositionFlags{FlushQueue: true}, 1},
		{"ring", DispositionFlags{SendRingAlert: true}, 2},
		{"location", DispositionFlags{UpdateLocation: true}, 8},
		{"priority", DispositionFlags{HighPriority: true}, 16},
		{"mtmsn", DispositionFlags{AssignMTMSN: true}, 32},
		{"all", DispositionFlags{
			FlushQueue:     true,
			SendRingAlert:  true,
			UpdateLocation: true,
			HighPriority:   true,
			AssignMTMSN:    true,
		}, 59},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.code, test.flags.Encode())
			assert.Equal(t, test.flags, DecodeDispositionFlags(test.code))
		})
	}
}

func TestDispositionFlagsRoundtrip(t *testing.T) {
	for i := 0; i < 32; i++ {
		flags := DispositionFlags{
			FlushQueue:     i&1 != 0,
			SendRingAlert:  i&2 != 0,
			UpdateLocation: i&4 != 0,
			HighPriority:   i&8 != 0,
			AssignMTMSN:    i&16 != 0,
		}
		assert.Equal(t, flags, DecodeDispositionFlags(flags.Encode()))
	}
}

func TestDecodeDispositionFlagsIgnoresUnassignedBits(t *testing.T) {
	assert.Equal(t, DispositionFlags{}, DecodeDispositionFlags(1<<2))
	assert.Equal(t, DispositionFlags{FlushQueue: true}, DecodeDispositionFlags(0xFFC5))
}
