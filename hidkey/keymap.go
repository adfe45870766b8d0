package hidkey

import (
	"fmt"
	"strings"
)

// ErrUnsupported reports a character or token with no HID mapping.
// Callers are expected to log and skip rather than abort.
var ErrUnsupported = fmt.Errorf("hidkey: unsupported input")

// Resolve maps a single character to the inputs that produce it: the
// bare key, or a SHIFT+key pair for characters in the shift table.
func Resolve(ch byte) ([]Input, error) {
	key, ok := CharToKey[ch]
	if !ok {
		return nil, fmt.Errorf("%w: character %q", ErrUnsupported, ch)
	}
	if ShiftChars[ch] {
		return []Input{ModShift, key}, nil
	}
	return []Input{key}, nil
}

// KeyByName resolves a key token such as "a", "enter" or "f5".
// Lookup is case-insensitive.
func KeyByName(name string) (Key, error) {
	k, ok := keyByName[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: key %q", ErrUnsupported, name)
	}
	return k, nil
}

// ModifierByName resolves a modifier token such as "SHIFT" or "WINDOWS".
// Lookup is case-insensitive.
func ModifierByName(name string) (Modifier, error) {
	m, ok := modifierByName[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("%w: modifier %q", ErrUnsupported, name)
	}
	return m, nil
}

// IsModifierToken reports whether the token names a chord modifier.
func IsModifierToken(name string) bool {
	_, ok := modifierByName[strings.ToUpper(name)]
	return ok
}
