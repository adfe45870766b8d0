// Package hidkey maps logical keys and modifiers to USB HID usage codes
// and packs them into Bluetooth HID boot-protocol keyboard reports.
package hidkey

// Input is either a Key or a Modifier. The encoder resolves the two
// variants once at encode time.
type Input interface {
	input()
}

// Key is a one-byte USB HID usage code (Keyboard/Keypad usage page).
type Key uint8

// Modifier is a one-byte modifier bitmask. Modifiers combine via
// bitwise OR; the zero value means "no modifier".
type Modifier uint8

func (Key) input()      {}
func (Modifier) input() {}

// Modifier key bitmasks
const (
	ModCtrl       Modifier = 0x01
	ModShift      Modifier = 0x02
	ModAlt        Modifier = 0x04
	ModGUI        Modifier = 0x08 // Windows/Command key
	ModRightCtrl  Modifier = 0x10
	ModRightShift Modifier = 0x20
	ModRightAlt   Modifier = 0x40
	ModRightGUI   Modifier = 0x80
)

// HID Usage codes for keyboard keys (USB HID Keyboard/Keypad usage page)
const (
	// Letters A-Z
	KeyA Key = 0x04
	KeyB Key = 0x05
	KeyC Key = 0x06
	KeyD Key = 0x07
	KeyE Key = 0x08
	KeyF Key = 0x09
	KeyG Key = 0x0A
	KeyH Key = 0x0B
	KeyI Key = 0x0C
	KeyJ Key = 0x0D
	KeyK Key = 0x0E
	KeyL Key = 0x0F
	KeyM Key = 0x10
	KeyN Key = 0x11
	KeyO Key = 0x12
	KeyP Key = 0x13
	KeyQ Key = 0x14
	KeyR Key = 0x15
	KeyS Key = 0x16
	KeyT Key = 0x17
	KeyU Key = 0x18
	KeyV Key = 0x19
	KeyW Key = 0x1A
	KeyX Key = 0x1B
	KeyY Key = 0x1C
	KeyZ Key = 0x1D

	// Numbers 1-0 (top row)
	Key1 Key = 0x1E
	Key2 Key = 0x1F
	Key3 Key = 0x20
	Key4 Key = 0x21
	Key5 Key = 0x22
	Key6 Key = 0x23
	Key7 Key = 0x24
	Key8 Key = 0x25
	Key9 Key = 0x26
	Key0 Key = 0x27

	// Special keys
	KeyEnter      Key = 0x28
	KeyEscape     Key = 0x29
	KeyBackspace  Key = 0x2A
	KeyTab        Key = 0x2B
	KeySpace      Key = 0x2C
	KeyMinus      Key = 0x2D // - and _
	KeyEqual      Key = 0x2E // = and +
	KeyLeftBrace  Key = 0x2F // [ and {
	KeyRightBrace Key = 0x30 // ] and }
	KeyBackslash  Key = 0x31 // \ and |
	KeySemicolon  Key = 0x33 // ; and :
	KeyApostrophe Key = 0x34 // ' and "
	KeyGrave      Key = 0x35 // ` and ~
	KeyComma      Key = 0x36 // , and <
	KeyPeriod     Key = 0x37 // . and >
	KeySlash      Key = 0x38 // / and ?
	KeyCapsLock   Key = 0x39

	// Function keys
	KeyF1  Key = 0x3A
	KeyF2  Key = 0x3B
	KeyF3  Key = 0x3C
	KeyF4  Key = 0x3D
	KeyF5  Key = 0x3E
	KeyF6  Key = 0x3F
	KeyF7  Key = 0x40
	KeyF8  Key = 0x41
	KeyF9  Key = 0x42
	KeyF10 Key = 0x43
	KeyF11 Key = 0x44
	KeyF12 Key = 0x45

	// Navigation keys
	KeyPrintScreen Key = 0x46
	KeyScrollLock  Key = 0x47
	KeyPause       Key = 0x48
	KeyInsert      Key = 0x49
	KeyHome        Key = 0x4A
	KeyPageUp      Key = 0x4B
	KeyDelete      Key = 0x4C
	KeyEnd         Key = 0x4D
	KeyPageDown    Key = 0x4E

	// Arrow keys
	KeyRight Key = 0x4F
	KeyLeft  Key = 0x50
	KeyDown  Key = 0x51
	KeyUp    Key = 0x52

	// Keypad
	KeyKpPlus Key = 0x57

	// Media
	KeyMute       Key = 0x7F
	KeyVolumeUp   Key = 0x80
	KeyVolumeDown Key = 0x81
)

// CharToKey maps ASCII characters to their corresponding HID usage codes.
// Shifted characters (uppercase, symbols) map to the same key as their
// unshifted sibling; ShiftChars records which ones need the modifier.
var CharToKey = map[byte]Key{
	// Lowercase letters
	'a': KeyA, 'b': KeyB, 'c': KeyC, 'd': KeyD, 'e': KeyE, 'f': KeyF, 'g': KeyG,
	'h': KeyH, 'i': KeyI, 'j': KeyJ, 'k': KeyK, 'l': KeyL, 'm': KeyM, 'n': KeyN,
	'o': KeyO, 'p': KeyP, 'q': KeyQ, 'r': KeyR, 's': KeyS, 't': KeyT, 'u': KeyU,
	'v': KeyV, 'w': KeyW, 'x': KeyX, 'y': KeyY, 'z': KeyZ,

	// Uppercase letters (same keys, need shift)
	'A': KeyA, 'B': KeyB, 'C': KeyC, 'D': KeyD, 'E': KeyE, 'F': KeyF, 'G': KeyG,
	'H': KeyH, 'I': KeyI, 'J': KeyJ, 'K': KeyK, 'L': KeyL, 'M': KeyM, 'N': KeyN,
	'O': KeyO, 'P': KeyP, 'Q': KeyQ, 'R': KeyR, 'S': KeyS, 'T': KeyT, 'U': KeyU,
	'V': KeyV, 'W': KeyW, 'X': KeyX, 'Y': KeyY, 'Z': KeyZ,

	// Numbers (top row)
	'1': Key1, '2': Key2, '3': Key3, '4': Key4, '5': Key5,
	'6': Key6, '7': Key7, '8': Key8, '9': Key9, '0': Key0,

	// Shifted number row symbols
	'!': Key1, '@': Key2, '#': Key3, '$': Key4, '%': Key5,
	'^': Key6, '&': Key7, '*': Key8, '(': Key9, ')': Key0,

	// Unshifted symbols
	'-':  KeyMinus,
	'=':  KeyEqual,
	'[':  KeyLeftBrace,
	']':  KeyRightBrace,
	'\\': KeyBackslash,
	';':  KeySemicolon,
	'\'': KeyApostrophe,
	'`':  KeyGrave,
	',':  KeyComma,
	'.':  KeyPeriod,
	'/':  KeySlash,

	// Shifted symbols
	'_': KeyMinus,
	'+': KeyEqual,
	'{': KeyLeftBrace,
	'}': KeyRightBrace,
	'|': KeyBackslash,
	':': KeySemicolon,
	'"': KeyApostrophe,
	'~': KeyGrave,
	'<': KeyComma,
	'>': KeyPeriod,
	'?': KeySlash,

	// Whitespace
	' ':  KeySpace,
	'\n': KeyEnter,
	'\t': KeyTab,
}

// ShiftChars defines which characters require the Shift modifier.
var ShiftChars = map[byte]bool{
	// Uppercase letters
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true,
	'H': true, 'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true,
	'O': true, 'P': true, 'Q': true, 'R': true, 'S': true, 'T': true, 'U': true,
	'V': true, 'W': true, 'X': true, 'Y': true, 'Z': true,

	// Shifted number row
	'!': true, '@': true, '#': true, '$': true, '%': true,
	'^': true, '&': true, '*': true, '(': true, ')': true,

	// Shifted symbols
	'_': true, '+': true, '{': true, '}': true, '|': true,
	':': true, '"': true, '~': true, '<': true, '>': true, '?': true,
}

// keyByName resolves the key token of a modifier chord line.
var keyByName = map[string]Key{
	"a": KeyA, "b": KeyB, "c": KeyC, "d": KeyD, "e": KeyE, "f": KeyF,
	"g": KeyG, "h": KeyH, "i": KeyI, "j": KeyJ, "k": KeyK, "l": KeyL,
	"m": KeyM, "n": KeyN, "o": KeyO, "p": KeyP, "q": KeyQ, "r": KeyR,
	"s": KeyS, "t": KeyT, "u": KeyU, "v": KeyV, "w": KeyW, "x": KeyX,
	"y": KeyY, "z": KeyZ,

	"1": Key1, "2": Key2, "3": Key3, "4": Key4, "5": Key5,
	"6": Key6, "7": Key7, "8": Key8, "9": Key9, "0": Key0,

	"enter": KeyEnter, "escape": KeyEscape, "esc": KeyEscape,
	"backspace": KeyBackspace, "tab": KeyTab, "space": KeySpace,
	"capslock": KeyCapsLock, "printscreen": KeyPrintScreen,
	"scrolllock": KeyScrollLock, "pause": KeyPause, "insert": KeyInsert,
	"home": KeyHome, "pageup": KeyPageUp, "delete": KeyDelete,
	"del": KeyDelete, "end": KeyEnd, "pagedown": KeyPageDown,
	"right": KeyRight, "left": KeyLeft, "down": KeyDown, "up": KeyUp,

	"f1": KeyF1, "f2": KeyF2, "f3": KeyF3, "f4": KeyF4, "f5": KeyF5,
	"f6": KeyF6, "f7": KeyF7, "f8": KeyF8, "f9": KeyF9, "f10": KeyF10,
	"f11": KeyF11, "f12": KeyF12,

	"mute": KeyMute, "volumeup": KeyVolumeUp, "volumedown": KeyVolumeDown,
}

// modifierByName resolves the leading token of a modifier chord line.
// COMMAND and WINDOWS are aliases for the GUI key.
var modifierByName = map[string]Modifier{
	"CTRL":    ModCtrl,
	"SHIFT":   ModShift,
	"ALT":     ModAlt,
	"GUI":     ModGUI,
	"COMMAND": ModGUI,
	"WINDOWS": ModGUI,
}
