package l2cap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluejack/bluejack/l2cap"
)

func TestValidAddr(t *testing.T) {
	tests := []struct {
		addr string
		ok   bool
	}{
		{"AA:BB:CC:DD:EE:FF", true},
		{"aa:bb:cc:dd:ee:ff", true},
		{"0A:1b:2C:3d:4E:5f", true},
		{"AA:BB:CC:DD:EE", false},
		{"AA:BB:CC:DD:EE:FF:00", false},
		{"AA-BB-CC-DD-EE-FF", false},
		{"GG:BB:CC:DD:EE:FF", false},
		{"", false},
		{"not a mac", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, l2cap.ValidAddr(tt.addr), tt.addr)
	}
}

func TestParseAddrReversesOctets(t *testing.T) {
	bdaddr, err := l2cap.ParseAddr("01:23:45:67:89:AB")
	require.NoError(t, err)
	// bdaddr is little-endian: last MAC octet first.
	assert.Equal(t, [6]byte{0xAB, 0x89, 0x67, 0x45, 0x23, 0x01}, bdaddr)
}

func TestParseAddrRejectsBadInput(t *testing.T) {
	_, err := l2cap.ParseAddr("xx:yy:zz:00:11:22")
	assert.Error(t, err)
}
