package evdev

import (
	"encoding/binary"

	"github.com/aretw0/talebox/pkg/domain"
)

// EventSize is the size of a struct input_event on 64-bit Linux.
const EventSize = 24

const evKey = 0x01

// Key values carried by EV_KEY events.
const (
	released = 0
	pressed  = 1
	repeated = 2
)

// DefaultKeymap maps the player's gamepad buttons, plus the usual keyboard
// equivalents, to controller keys.
var DefaultKeymap = map[uint16]domain.Key{
	0x220: domain.KeyUp,    // BTN_DPAD_UP
	0x221: domain.KeyDown,  // BTN_DPAD_DOWN
	0x222: domain.KeyLeft,  // BTN_DPAD_LEFT
	0x223: domain.KeyRight, // BTN_DPAD_RIGHT
	0x13a: domain.KeyHome,  // BTN_SELECT
	0x13b: domain.KeyOK,    // BTN_START
	0x133: domain.KeyPause, // BTN_NORTH

	103: domain.KeyUp,    // KEY_UP
	108: domain.KeyDown,  // KEY_DOWN
	105: domain.KeyLeft,  // KEY_LEFT
	106: domain.KeyRight, // KEY_RIGHT
	1:   domain.KeyHome,  // KEY_ESC
	28:  domain.KeyOK,    // KEY_ENTER
	57:  domain.KeyPause, // KEY_SPACE
}

// RawEvent is a decoded input_event without its timestamp.
type RawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// Decode parses one input_event. buf must hold at least EventSize bytes.
func Decode(buf []byte) RawEvent {
	return RawEvent{
		Type:  binary.NativeEndian.Uint16(buf[16:18]),
		Code:  binary.NativeEndian.Uint16(buf[18:20]),
		Value: int32(binary.NativeEndian.Uint32(buf[20:24])),
	}
}

// Translator turns raw events into key presses and tracks which keys are held.
type Translator struct {
	keymap map[uint16]domain.Key
	status domain.Status
}

// NewTranslator creates a Translator using keymap.
func NewTranslator(keymap map[uint16]domain.Key) *Translator {
	return &Translator{keymap: keymap}
}

// Feed updates the held state with ev. It reports a key only for the initial
// press of a mapped button; releases and autorepeat are absorbed.
func (t *Translator) Feed(ev RawEvent) (domain.Key, domain.Status, bool) {
	if ev.Type != evKey {
		return domain.KeyNone, t.status, false
	}
	key, ok := t.keymap[ev.Code]
	if !ok {
		return domain.KeyNone, t.status, false
	}

	switch ev.Value {
	case pressed:
		t.status = t.status.With(key, true)
		return key, t.status, true
	case released:
		t.status = t.status.With(key, false)
	case repeated:
	}
	return domain.KeyNone, t.status, false
}

// Status returns the current held-key snapshot.
func (t *Translator) Status() domain.Status {
	return t.status
}
