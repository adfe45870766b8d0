package hidkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluejack/bluejack/hidkey"
)

func TestEncodeDeterminism(t *testing.T) {
	var enc hidkey.Encoder
	a, err := enc.Encode(hidkey.ModShift, hidkey.KeyA)
	require.NoError(t, err)
	b, err := enc.Encode(hidkey.ModShift, hidkey.KeyA)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeLayout(t *testing.T) {
	var enc hidkey.Encoder

	tests := []struct {
		name   string
		inputs []hidkey.Input
		want   []byte
	}{
		{
			name:   "empty is the release report",
			inputs: nil,
			want:   []byte{0xA1, 0x01, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:   "modifier only",
			inputs: []hidkey.Input{hidkey.ModCtrl},
			want:   []byte{0xA1, 0x01, 0x01, 0x00, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:   "single key",
			inputs: []hidkey.Input{hidkey.KeyTab},
			want:   []byte{0xA1, 0x01, 0x00, 0x00, 0x2B, 0, 0, 0, 0, 0, 0},
		},
		{
			name:   "modifiers OR together",
			inputs: []hidkey.Input{hidkey.ModCtrl, hidkey.ModShift, hidkey.KeyN},
			want:   []byte{0xA1, 0x01, 0x03, 0x00, 0x11, 0, 0, 0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enc.Encode(tt.inputs...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeSlotBound(t *testing.T) {
	var enc hidkey.Encoder

	seven := []hidkey.Input{
		hidkey.KeyA, hidkey.KeyB, hidkey.KeyC, hidkey.KeyD,
		hidkey.KeyE, hidkey.KeyF, hidkey.KeyG,
	}
	report, err := enc.Encode(seven...)
	require.NoError(t, err)
	assert.Len(t, report, 4+hidkey.DefaultSlots)
	// All seven slots filled, no zero padding left.
	for i, in := range seven {
		assert.Equal(t, byte(in.(hidkey.Key)), report[4+i])
	}

	eight := append(seven, hidkey.KeyH)
	_, err = enc.Encode(eight...)
	assert.Error(t, err)
}

func TestEncoderConfigurableSlots(t *testing.T) {
	enc := hidkey.Encoder{Slots: hidkey.BootSlots}
	report, err := enc.Encode(hidkey.KeyA)
	require.NoError(t, err)
	assert.Len(t, report, 10)

	_, err = enc.Encode(
		hidkey.KeyA, hidkey.KeyB, hidkey.KeyC, hidkey.KeyD,
		hidkey.KeyE, hidkey.KeyF, hidkey.KeyG,
	)
	assert.Error(t, err, "seven keys do not fit six slots")
}

func TestRelease(t *testing.T) {
	var enc hidkey.Encoder
	want, err := enc.Encode()
	require.NoError(t, err)
	assert.Equal(t, want, enc.Release())
}
