package hidkey

import "fmt"

// Boot-protocol report framing for the Bluetooth HID interrupt channel.
const (
	reportPrefix = 0xA1 // DATA | input report
	reportID     = 0x01 // keyboard

	// DefaultSlots is the keycode slot count used on the wire. BootSlots
	// is the canonical boot-protocol layout; some hosts accept the wider
	// report, so the count is explicit configuration on Encoder.
	DefaultSlots = 7
	BootSlots    = 6
)

// Encoder packs keys and modifiers into boot-protocol keyboard reports:
// [0xA1, 0x01, modifierByte, 0x00, keycode0..keycodeN]. A zero-valued
// Encoder uses DefaultSlots.
type Encoder struct {
	Slots int
}

func (e Encoder) slots() int {
	if e.Slots <= 0 {
		return DefaultSlots
	}
	return e.Slots
}

// Encode builds a report from the given inputs. Modifiers OR into the
// modifier byte; keys fill the keycode slots in order, zero padded.
// More keys than slots is a contract violation; callers only ever
// encode single keys or single modifier+key pairs.
func (e Encoder) Encode(inputs ...Input) ([]byte, error) {
	slots := e.slots()
	report := make([]byte, 4, 4+slots)
	report[0] = reportPrefix
	report[1] = reportID

	var mods Modifier
	for _, in := range inputs {
		switch v := in.(type) {
		case Key:
			if len(report)-4 >= slots {
				return nil, fmt.Errorf("hidkey: more than %d keycodes in one report", slots)
			}
			report = append(report, byte(v))
		case Modifier:
			mods |= v
		default:
			return nil, fmt.Errorf("hidkey: unknown input type %T", in)
		}
	}
	report[2] = byte(mods)
	for len(report) < 4+slots {
		report = append(report, 0)
	}
	return report, nil
}

// Release returns the all-zero report that releases every key and
// modifier. Sending it is the canonical key-up event.
func (e Encoder) Release() []byte {
	report, _ := e.Encode()
	return report
}
