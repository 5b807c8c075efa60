// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrRomTooLarge    = errors.New("ROM exceeds the program region")
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("call stack underflow")
	ErrInvalidOpcode  = errors.New("invalid opcode")
	ErrOutOfBounds    = errors.New("access out of bounds")
)

// An ExecError reports an instruction that failed to execute. The machine
// state is left exactly as it was before the instruction was fetched.
type ExecError struct {
	PC   uint16      // address of the failing instruction
	Inst Instruction // the decoded instruction, zero if the fetch failed
	Err  error       // one of the package's sentinel errors
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("$%03X: %04X: %v", e.PC, e.Inst.Word, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
