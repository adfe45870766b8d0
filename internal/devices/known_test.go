package devices

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKnownMissingFileIsEmpty(t *testing.T) {
	devs, err := LoadKnown(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Empty(t, devs)
}

func TestLoadKnown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known.txt")
	content := "AA:BB:CC:DD:EE:FF,Pixel 7\n\n11:22:33:44:55:66,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	devs, err := LoadKnown(path)
	require.NoError(t, err)
	assert.Equal(t, []Device{
		{Addr: "AA:BB:CC:DD:EE:FF", Name: "Pixel 7"},
		{Addr: "11:22:33:44:55:66", Name: ""},
	}, devs)
}

func TestAppendKnownDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known.txt")
	require.NoError(t, AppendKnown(path, []Device{
		{Addr: "AA:BB:CC:DD:EE:FF", Name: "Pixel 7"},
	}))

	require.NoError(t, AppendKnown(path, []Device{
		{Addr: "AA:BB:CC:DD:EE:FF", Name: "Pixel 7"},
		{Addr: "11:22:33:44:55:66", Name: "Tab S9"},
	}))

	devs, err := LoadKnown(path)
	require.NoError(t, err)
	assert.Equal(t, []Device{
		{Addr: "AA:BB:CC:DD:EE:FF", Name: "Pixel 7"},
		{Addr: "11:22:33:44:55:66", Name: "Tab S9"},
	}, devs)
}

func TestAppendKnownNothingNewLeavesFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known.txt")
	require.NoError(t, AppendKnown(path, nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDeviceString(t *testing.T) {
	assert.Equal(t, "Pixel 7 (AA:BB:CC:DD:EE:FF)", Device{Addr: "AA:BB:CC:DD:EE:FF", Name: "Pixel 7"}.String())
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", Device{Addr: "AA:BB:CC:DD:EE:FF"}.String())
}
