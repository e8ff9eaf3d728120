package chip8

import "fmt"

// KeyState is the latched state of one of the 16 keypad keys.
type KeyState uint8

// Key states.
const (
	Released KeyState = iota
	Pressed
	JustReleased
)

func (k KeyState) String() string {
	switch k {
	case Released:
		return "released"
	case Pressed:
		return "pressed"
	case JustReleased:
		return "just released"
	default:
		return fmt.Sprintf("keystate(%d)", uint8(k))
	}
}

// SetKey sets the latched state of a key.
func (m *Machine) SetKey(key uint8, state KeyState) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	m.keys[key] = state
	return nil
}

// KeyDown marks a key as pressed.
func (m *Machine) KeyDown(key uint8) error {
	return m.SetKey(key, Pressed)
}

// KeyUp marks a key as just released, a waiting FX0A instruction consumes it.
func (m *Machine) KeyUp(key uint8) error {
	return m.SetKey(key, JustReleased)
}

// Keys returns a copy of the input latch.
func (m *Machine) Keys() [KeyCount]KeyState {
	return m.keys
}

// settleKeys turns every unconsumed key release into a plain release.
func (m *Machine) settleKeys() {
	for i, state := range m.keys {
		if state == JustReleased {
			m.keys[i] = Released
		}
	}
}
