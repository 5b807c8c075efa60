// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// StackDepth is the maximum number of nested subroutine calls.
const StackDepth = 32

// FlagRegister is the index of VF, which doubles as the carry, borrow and
// collision flag.
const FlagRegister = 0xf

// Registers contains the state of all machine registers, the two timers
// and the call stack.
type Registers struct {
	V     [16]byte           // general purpose registers V0-VF
	I     uint16             // index register
	PC    uint16             // program counter
	DT    byte               // delay timer
	ST    byte               // sound timer
	SP    byte               // call stack depth
	Stack [StackDepth]uint16 // return addresses, valid up to SP
}

// Init zeroes all registers and empties the call stack.
func (r *Registers) Init() {
	*r = Registers{}
}

// Frames returns the active portion of the call stack, oldest first.
func (r *Registers) Frames() []uint16 {
	return r.Stack[:r.SP]
}

func (r *Registers) push(addr uint16) error {
	if int(r.SP) >= StackDepth {
		return ErrStackOverflow
	}
	r.Stack[r.SP] = addr
	r.SP++
	return nil
}

func (r *Registers) pop() (uint16, error) {
	if r.SP == 0 {
		return 0, ErrStackUnderflow
	}
	r.SP--
	return r.Stack[r.SP], nil
}

func boolToByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
