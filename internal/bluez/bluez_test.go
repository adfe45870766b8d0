package bluez

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevicePath(t *testing.T) {
	assert.Equal(t,
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF",
		DevicePath("hci0", "aa:bb:cc:dd:ee:ff"))
	assert.Equal(t,
		"/org/bluez/hci1/dev_01_23_45_67_89_AB",
		DevicePath("hci1", "01:23:45:67:89:AB"))
}

func TestAdapterPath(t *testing.T) {
	assert.Equal(t, "/org/bluez/hci0", AdapterPath("hci0"))
}

func TestSDPRecord(t *testing.T) {
	record, err := SDPRecord("Wireless Keyboard")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(record, `<?xml version="1.0"`))
	assert.Contains(t, record, `<text value="Wireless Keyboard" />`)
	assert.Contains(t, record, hex.EncodeToString(keyboardDescriptor))
	// HID service class and the interrupt PSM in the additional
	// protocol descriptor list.
	assert.Contains(t, record, `<uuid value="0x1124" />`)
	assert.Contains(t, record, `<uint16 value="0x0013" />`)
}
