package ducky

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.txt")
	content := "REM test payload\r\nDELAY 1000\n  STRING hello  \n\nENTER"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	script, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Script{
		"REM test payload",
		"DELAY 1000",
		"STRING hello",
		"",
		"ENTER",
	}, script)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestReconnectErrorUnwraps(t *testing.T) {
	inner := assert.AnError
	re := &ReconnectError{Cursor: Cursor{Line: 3, Offset: 7}, Err: inner}
	assert.ErrorIs(t, re, inner)
	assert.Contains(t, re.Error(), "line 3")
	assert.Contains(t, re.Error(), "offset 7")
}
