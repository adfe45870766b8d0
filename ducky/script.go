// Package ducky loads and executes Duckyscript payloads, streaming HID
// reports through an L2CAP channel with a resumable cursor.
package ducky

import (
	"fmt"
	"os"
	"strings"
)

// Script is an ordered, read-only sequence of trimmed payload lines.
type Script []string

// Load reads a payload file into memory, one trimmed line per entry.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ducky: read payload: %w", err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	script := make(Script, len(lines))
	for i, line := range lines {
		script[i] = strings.TrimSpace(line)
	}
	return script, nil
}

// Cursor marks exactly how much of a script has been durably executed:
// the line index and, within a STRING line, the count of characters
// already sent. The session controller owns it across reconnects.
type Cursor struct {
	Line   int
	Offset int
}

// ReconnectError carries the cursor position of the command in progress
// when the transport failed, so a fresh run resumes from that exact
// point instead of replaying the whole script.
type ReconnectError struct {
	Cursor Cursor
	Err    error
}

func (e *ReconnectError) Error() string {
	return fmt.Sprintf("ducky: reconnect required at line %d offset %d: %v",
		e.Cursor.Line, e.Cursor.Offset, e.Err)
}

func (e *ReconnectError) Unwrap() error { return e.Err }
