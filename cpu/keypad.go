// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// NumKeys is the number of keys on the hexadecimal keypad.
const NumKeys = 16

// KeyMode selects how instructions observe the keypad.
type KeyMode byte

const (
	// EdgeTriggered keys are cleared when an instruction observes them, so
	// each press satisfies at most one query.
	EdgeTriggered KeyMode = iota

	// LevelTriggered keys stay pressed until released.
	LevelTriggered
)

func (m KeyMode) String() string {
	switch m {
	case EdgeTriggered:
		return "edge"
	case LevelTriggered:
		return "level"
	default:
		return fmt.Sprintf("KeyMode(%d)", byte(m))
	}
}

// ParseKeyMode converts "edge" or "level" into a KeyMode.
func ParseKeyMode(s string) (KeyMode, error) {
	switch s {
	case "edge":
		return EdgeTriggered, nil
	case "level":
		return LevelTriggered, nil
	default:
		return 0, fmt.Errorf("unknown key mode '%s'", s)
	}
}

// Keypad latches key events delivered by the host.
type Keypad struct {
	Mode    KeyMode
	pressed [NumKeys]bool
}

// Set records a press or release of a key.
func (k *Keypad) Set(key byte, pressed bool) error {
	if key >= NumKeys {
		return ErrOutOfBounds
	}
	k.pressed[key] = pressed
	return nil
}

// Peek reports whether a key is latched without consuming it.
func (k *Keypad) Peek(key byte) bool {
	return key < NumKeys && k.pressed[key]
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.pressed = [NumKeys]bool{}
}

// consume reports whether a key is latched, clearing it in edge mode.
func (k *Keypad) consume(key byte) bool {
	if !k.pressed[key] {
		return false
	}
	if k.Mode == EdgeTriggered {
		k.pressed[key] = false
	}
	return true
}

// consumeAny returns the lowest latched key, clearing it in edge mode.
func (k *Keypad) consumeAny() (key byte, ok bool) {
	for i := byte(0); i < NumKeys; i++ {
		if k.consume(i) {
			return i, true
		}
	}
	return 0, false
}
