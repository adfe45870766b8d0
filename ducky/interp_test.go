package ducky

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluejack/bluejack/l2cap"
)

type fakeSender struct {
	sent   [][]byte
	failAt int // 1-based index of the send that fails; 0 never fails
}

func (f *fakeSender) Send(data []byte) error {
	if f.failAt > 0 && len(f.sent)+1 == f.failAt {
		return fmt.Errorf("write on port 19: %w", l2cap.ErrReconnect)
	}
	f.sent = append(f.sent, append([]byte(nil), data...))
	return nil
}

func newTestInterpreter() (*Interpreter, *[]time.Duration) {
	it := NewInterpreter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	var slept []time.Duration
	it.sleep = func(d time.Duration) { slept = append(slept, d) }
	return it, &slept
}

var releaseReport = []byte{0xA1, 0x01, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0}

func TestRunAdvancesCursorToEnd(t *testing.T) {
	it, _ := newTestInterpreter()
	ch := &fakeSender{}
	cur := Cursor{}

	script := Script{"REM greeting", "STRING hi", "ENTER", ""}
	require.NoError(t, it.Run(ch, script, &cur))

	assert.Equal(t, Cursor{Line: 4, Offset: 0}, cur)
	// Initial release, then press+release per character and for ENTER.
	assert.Len(t, ch.sent, 1+2*2+2)
	assert.Equal(t, releaseReport, ch.sent[0])
}

func TestRunStartsWithReleaseAndSettle(t *testing.T) {
	it, slept := newTestInterpreter()
	ch := &fakeSender{}
	cur := Cursor{}

	require.NoError(t, it.Run(ch, Script{}, &cur))
	require.Len(t, ch.sent, 1)
	assert.Equal(t, releaseReport, ch.sent[0])
	require.NotEmpty(t, *slept)
	assert.Equal(t, settleDelay, (*slept)[0])
}

func TestMidStringFailureCarriesCursor(t *testing.T) {
	it, _ := newTestInterpreter()
	cur := Cursor{}
	script := Script{"STRING AB"}

	// Send 1 is the initial release, sends 2-3 the 'A' chord. The 'B'
	// press at send 4 hits the dead transport.
	ch := &fakeSender{failAt: 4}
	err := it.Run(ch, script, &cur)

	var re *ReconnectError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, Cursor{Line: 0, Offset: 1}, re.Cursor)
	assert.ErrorIs(t, err, l2cap.ErrReconnect)
}

func TestResumeSkipsSentCharacters(t *testing.T) {
	it, _ := newTestInterpreter()
	cur := Cursor{Line: 0, Offset: 1}
	script := Script{"STRING AB"}

	ch := &fakeSender{}
	require.NoError(t, it.Run(ch, script, &cur))

	// Only 'B' goes out: initial release plus one chord.
	require.Len(t, ch.sent, 3)
	bPress := ch.sent[1]
	assert.Equal(t, byte(0x02), bPress[2], "shift modifier")
	assert.Equal(t, byte(0x05), bPress[4], "keycode for b")
	assert.Equal(t, Cursor{Line: 1, Offset: 0}, cur)
}

func TestCursorResetsOffsetPerLine(t *testing.T) {
	it, _ := newTestInterpreter()
	cur := Cursor{}
	script := Script{"STRING ab", "STRING cd"}

	// Fail on the press of 'c' (send 6: release, a press/rel, b
	// press/rel, then c press).
	ch := &fakeSender{failAt: 6}
	err := it.Run(ch, script, &cur)

	var re *ReconnectError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, Cursor{Line: 1, Offset: 0}, re.Cursor)
}

func TestUnknownCommandIgnored(t *testing.T) {
	it, _ := newTestInterpreter()
	ch := &fakeSender{}
	cur := Cursor{}

	require.NoError(t, it.Run(ch, Script{"FROBNICATE now"}, &cur))
	assert.Len(t, ch.sent, 1)
	assert.Equal(t, Cursor{Line: 1, Offset: 0}, cur)
}

func TestDelay(t *testing.T) {
	it, slept := newTestInterpreter()
	ch := &fakeSender{}
	cur := Cursor{}

	require.NoError(t, it.Run(ch, Script{"DELAY 250"}, &cur))
	assert.Contains(t, *slept, 250*time.Millisecond)
}

func TestDelayMalformed(t *testing.T) {
	it, slept := newTestInterpreter()
	ch := &fakeSender{}
	cur := Cursor{}

	require.NoError(t, it.Run(ch, Script{"DELAY", "DELAY soon"}, &cur))
	// Only the settle pause; malformed delays are skipped.
	assert.Equal(t, []time.Duration{settleDelay}, *slept)
	assert.Equal(t, Cursor{Line: 2, Offset: 0}, cur)
}

func TestChordLine(t *testing.T) {
	it, _ := newTestInterpreter()
	ch := &fakeSender{}
	cur := Cursor{}

	require.NoError(t, it.Run(ch, Script{"GUI r"}, &cur))
	require.Len(t, ch.sent, 3)
	press := ch.sent[1]
	assert.Equal(t, byte(0x08), press[2], "gui modifier")
	assert.Equal(t, byte(0x15), press[4], "keycode for r")
	assert.Equal(t, releaseReport, ch.sent[2])
}

func TestChordLineMalformedSkipped(t *testing.T) {
	it, _ := newTestInterpreter()
	ch := &fakeSender{}
	cur := Cursor{}

	script := Script{"SHIFT", "SHIFT a b", "SHIFT bogus"}
	require.NoError(t, it.Run(ch, script, &cur))
	assert.Len(t, ch.sent, 1)
	assert.Equal(t, Cursor{Line: 3, Offset: 0}, cur)
}

func TestStringSkipsUnsupportedBytes(t *testing.T) {
	it, _ := newTestInterpreter()
	ch := &fakeSender{}
	cur := Cursor{}

	// The accented character is two UTF-8 bytes, neither of which maps
	// to a usage code. Both warn and skip.
	require.NoError(t, it.Run(ch, Script{"STRING café"}, &cur))
	assert.Len(t, ch.sent, 1+3*2)
	assert.Equal(t, Cursor{Line: 1, Offset: 0}, cur)
}

func TestPrivateBrowser(t *testing.T) {
	it, _ := newTestInterpreter()
	ch := &fakeSender{}
	cur := Cursor{}

	require.NoError(t, it.Run(ch, Script{"PRIVATE_BROWSER"}, &cur))
	require.Len(t, ch.sent, 3)
	press := ch.sent[1]
	assert.Equal(t, byte(0x03), press[2], "ctrl+shift")
	assert.Equal(t, byte(0x11), press[4], "keycode for n")
}

func TestVolumeUpMacro(t *testing.T) {
	it, _ := newTestInterpreter()
	ch := &fakeSender{}
	cur := Cursor{}

	require.NoError(t, it.Run(ch, Script{"VOLUME_UP"}, &cur))
	// Initial release, gui+v, tab press/release, volume up, final release.
	require.Len(t, ch.sent, 6)
	assert.Equal(t, []byte{0xA1, 0x01, 0x08, 0x00, 0x19, 0x00, 0x00, 0x00, 0x00, 0x00}, ch.sent[1])
	assert.Equal(t, []byte{0xA1, 0x01, 0x08, 0x00, 0x19, 0x57, 0x00, 0x00, 0x00, 0x00}, ch.sent[4])
}

func TestFailureOnInitialRelease(t *testing.T) {
	it, _ := newTestInterpreter()
	cur := Cursor{Line: 2, Offset: 0}
	ch := &fakeSender{failAt: 1}

	err := it.Run(ch, Script{"ENTER", "ENTER", "ENTER"}, &cur)
	var re *ReconnectError
	require.ErrorAs(t, err, &re)
	// The cursor is untouched: nothing was executed yet.
	assert.Equal(t, Cursor{Line: 2, Offset: 0}, re.Cursor)
}
