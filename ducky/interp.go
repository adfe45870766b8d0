package ducky

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bluejack/bluejack/hidkey"
	"github.com/bluejack/bluejack/internal/log"
	"github.com/bluejack/bluejack/l2cap"
)

// Sender is the transmit side of the interrupt channel.
type Sender interface {
	Send(data []byte) error
}

const (
	// DefaultKeyDelay separates the press and release reports of a
	// plain keypress.
	DefaultKeyDelay = 100 * time.Microsecond
	// DefaultChordDelay gives the peer time to register a
	// modifier+key combination before it is released.
	DefaultChordDelay = 4 * time.Millisecond

	settleDelay = 500 * time.Millisecond
	macroDelay  = 100 * time.Millisecond
)

// errAbort ends the run after a non-recoverable, non-transport failure
// has been logged. The run returns nil past that point.
var errAbort = errors.New("script aborted")

// Interpreter executes one command per non-empty, non-REM line. Each
// command is dispatched on its first whitespace-delimited token;
// unknown commands are ignored. Unsupported characters and malformed
// commands are logged and skipped, transport failures surface as a
// *ReconnectError carrying the in-progress cursor.
type Interpreter struct {
	KeyDelay   time.Duration
	ChordDelay time.Duration

	enc    hidkey.Encoder
	logger *slog.Logger
	sleep  func(time.Duration)
}

// NewInterpreter returns an interpreter with the default timing and
// report layout.
func NewInterpreter(logger *slog.Logger) *Interpreter {
	return &Interpreter{
		KeyDelay:   DefaultKeyDelay,
		ChordDelay: DefaultChordDelay,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Run executes the script from the cursor position, advancing the
// cursor as commands complete. Lines before cursor.Line are skipped;
// a STRING line resumes at cursor.Offset characters in.
func (it *Interpreter) Run(ch Sender, script Script, cur *Cursor) error {
	// Fresh sessions start with an explicit key-up and a settle pause
	// so the peer's HID layer is quiescent before the first command.
	if err := it.send(ch, it.enc.Release(), cur); err != nil {
		return it.finish(err)
	}
	it.sleep(settleDelay)

	for cur.Line < len(script) {
		line := script[cur.Line]
		it.logger.Info("processing", "line", cur.Line, "text", line)
		if err := it.execLine(ch, line, cur); err != nil {
			return it.finish(err)
		}
		cur.Line++
		cur.Offset = 0
	}
	return nil
}

// finish implements the per-script failure policy: reconnect signals
// propagate, everything else has already been logged and is swallowed.
func (it *Interpreter) finish(err error) error {
	var re *ReconnectError
	if errors.As(err, &re) {
		return err
	}
	if errors.Is(err, errAbort) {
		return nil
	}
	return err
}

func (it *Interpreter) execLine(ch Sender, line string, cur *Cursor) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] == "REM" {
		return nil
	}

	switch cmd := fields[0]; cmd {
	case "TAB":
		return it.keypress(ch, cur, hidkey.KeyTab)
	case "ENTER":
		return it.keypress(ch, cur, hidkey.KeyEnter)
	case "DELAY":
		it.execDelay(line, fields)
		return nil
	case "STRING":
		return it.execString(ch, line, cur)
	case "PRIVATE_BROWSER":
		return it.execPrivateBrowser(ch, cur)
	case "VOLUME_UP":
		return it.execVolumeUp(ch, cur)
	default:
		if hidkey.IsModifierToken(cmd) {
			return it.execChordLine(ch, line, fields, cur)
		}
		it.logger.Debug("ignoring unknown command", "line", line)
		return nil
	}
}

func (it *Interpreter) execDelay(line string, fields []string) {
	if len(fields) < 2 {
		it.logger.Error("DELAY requires a time parameter", "line", line)
		return
	}
	ms, err := strconv.Atoi(fields[1])
	if err != nil {
		it.logger.Error("invalid DELAY value", "line", line, "error", err)
		return
	}
	it.sleep(time.Duration(ms) * time.Millisecond)
}

func (it *Interpreter) execString(ch Sender, line string, cur *Cursor) error {
	if len(line) <= len("STRING ") {
		return nil
	}
	text := line[len("STRING "):]
	for i := cur.Offset; i < len(text); i++ {
		cur.Offset = i
		c := text[i]
		log.Notice(it.logger, "sending character", "char", string(c))

		inputs, err := hidkey.Resolve(c)
		if err != nil {
			it.logger.Warn("unsupported character, skipping", "char", string(c), "line", cur.Line)
			continue
		}
		var sendErr error
		if len(inputs) > 1 {
			// Shifted characters go out as a modifier chord.
			sendErr = it.chord(ch, cur, inputs...)
		} else {
			sendErr = it.keypress(ch, cur, inputs...)
		}
		if sendErr != nil {
			return sendErr
		}
	}
	cur.Offset = len(text)
	return nil
}

// execChordLine sends exactly one modifier+key chord for a two-token
// line. Malformed or unrecognized lines warn and skip.
func (it *Interpreter) execChordLine(ch Sender, line string, fields []string, cur *Cursor) error {
	if len(fields) != 2 {
		it.logger.Warn("invalid combination format", "line", line)
		return nil
	}
	mod, err := hidkey.ModifierByName(fields[0])
	if err != nil {
		it.logger.Warn("unsupported combination", "line", line)
		return nil
	}
	key, err := hidkey.KeyByName(fields[1])
	if err != nil {
		it.logger.Warn("unsupported combination", "line", line)
		return nil
	}
	if err := it.chord(ch, cur, mod, key); err != nil {
		return err
	}
	log.Notice(it.logger, "sent combination", "line", line)
	return nil
}

func (it *Interpreter) execPrivateBrowser(ch Sender, cur *Cursor) error {
	press, err := it.enc.Encode(hidkey.ModCtrl, hidkey.ModShift, hidkey.KeyN)
	if err != nil {
		it.logger.Error("encode failed", "error", err)
		return errAbort
	}
	if err := it.send(ch, press, cur); err != nil {
		return err
	}
	return it.send(ch, it.enc.Release(), cur)
}

// execVolumeUp replays a fixed report macro observed to work against
// mobile HID hosts. The reports are raw bytes, not encoder output: the
// macro predates the encoder and its exact framing is load-bearing.
func (it *Interpreter) execVolumeUp(ch Sender, cur *Cursor) error {
	guiV := []byte{0xA1, 0x01, 0x08, 0x00, 0x19, 0x00, 0x00, 0x00, 0x00, 0x00}
	volUp := []byte{0xA1, 0x01, 0x08, 0x00, 0x19, 0x57, 0x00, 0x00, 0x00, 0x00}
	release := []byte{0xA1, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

	if err := it.send(ch, guiV, cur); err != nil {
		return err
	}
	it.sleep(macroDelay)
	if err := it.keypress(ch, cur, hidkey.KeyTab); err != nil {
		return err
	}
	if err := it.send(ch, volUp, cur); err != nil {
		return err
	}
	it.sleep(macroDelay)
	return it.send(ch, release, cur)
}

// keypress sends press-then-release separated by the key delay.
func (it *Interpreter) keypress(ch Sender, cur *Cursor, inputs ...hidkey.Input) error {
	press, err := it.enc.Encode(inputs...)
	if err != nil {
		it.logger.Error("encode failed", "error", err)
		return errAbort
	}
	if err := it.send(ch, press, cur); err != nil {
		return err
	}
	it.sleep(it.KeyDelay)
	if err := it.send(ch, it.enc.Release(), cur); err != nil {
		return err
	}
	it.sleep(it.KeyDelay)
	return nil
}

// chord holds the combination longer than a plain keypress so the peer
// registers the modifier.
func (it *Interpreter) chord(ch Sender, cur *Cursor, inputs ...hidkey.Input) error {
	press, err := it.enc.Encode(inputs...)
	if err != nil {
		it.logger.Error("encode failed", "error", err)
		return errAbort
	}
	if err := it.send(ch, press, cur); err != nil {
		return err
	}
	it.sleep(it.ChordDelay)
	if err := it.send(ch, it.enc.Release(), cur); err != nil {
		return err
	}
	it.sleep(it.ChordDelay)
	return nil
}

func (it *Interpreter) send(ch Sender, report []byte, cur *Cursor) error {
	err := ch.Send(report)
	if err == nil {
		return nil
	}
	if errors.Is(err, l2cap.ErrReconnect) {
		return &ReconnectError{Cursor: *cur, Err: err}
	}
	it.logger.Error("error during script execution", "error", err)
	return errAbort
}
