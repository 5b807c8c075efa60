// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a CHIP-8 instruction set
// disassembler.
package disasm

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/beevik/gochip8/cpu"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Operand formats for each op. Verbs are applied to the operand values
// returned by operands.
var opFormat = map[cpu.Op]string{
	cpu.OpSYS:   "$%03X",
	cpu.OpCLS:   "",
	cpu.OpRET:   "",
	cpu.OpJP:    "$%03X",
	cpu.OpCALL:  "$%03X",
	cpu.OpSE:    "V%X, $%02X",
	cpu.OpSNE:   "V%X, $%02X",
	cpu.OpSEV:   "V%X, V%X",
	cpu.OpLD:    "V%X, $%02X",
	cpu.OpADD:   "V%X, $%02X",
	cpu.OpLDV:   "V%X, V%X",
	cpu.OpOR:    "V%X, V%X",
	cpu.OpAND:   "V%X, V%X",
	cpu.OpXOR:   "V%X, V%X",
	cpu.OpADDV:  "V%X, V%X",
	cpu.OpSUB:   "V%X, V%X",
	cpu.OpSHR:   "V%X, V%X",
	cpu.OpSUBN:  "V%X, V%X",
	cpu.OpSHL:   "V%X, V%X",
	cpu.OpSNEV:  "V%X, V%X",
	cpu.OpLDI:   "I, $%03X",
	cpu.OpJPV0:  "V0, $%03X",
	cpu.OpRND:   "V%X, $%02X",
	cpu.OpDRW:   "V%X, V%X, %d",
	cpu.OpSKP:   "V%X",
	cpu.OpSKNP:  "V%X",
	cpu.OpLDVDT: "V%X, DT",
	cpu.OpLDK:   "V%X, K",
	cpu.OpLDDT:  "DT, V%X",
	cpu.OpLDST:  "ST, V%X",
	cpu.OpADDI:  "I, V%X",
	cpu.OpLDF:   "F, V%X",
	cpu.OpLDB:   "B, V%X",
	cpu.OpSTM:   "[I], V%X",
	cpu.OpLDM:   "V%X, [I]",
}

func operands(inst cpu.Instruction) []any {
	switch inst.Op {
	case cpu.OpCLS, cpu.OpRET:
		return nil
	case cpu.OpSYS, cpu.OpJP, cpu.OpCALL, cpu.OpLDI, cpu.OpJPV0:
		return []any{inst.NNN}
	case cpu.OpSE, cpu.OpSNE, cpu.OpLD, cpu.OpADD, cpu.OpRND:
		return []any{inst.X, inst.KK}
	case cpu.OpDRW:
		return []any{inst.X, inst.Y, inst.N}
	case cpu.OpSEV, cpu.OpSNEV, cpu.OpLDV, cpu.OpOR, cpu.OpAND, cpu.OpXOR,
		cpu.OpADDV, cpu.OpSUB, cpu.OpSHR, cpu.OpSUBN, cpu.OpSHL:
		return []any{inst.X, inst.Y}
	default:
		return []any{inst.X}
	}
}

// reference finds the word in the reference opcode table. The most
// specific matching pattern wins, so 00E0 is CLS and not SYS.
func reference(inst cpu.Instruction) *chip8.Instruction {
	var (
		ins  *chip8.Instruction
		best = -1
	)
	for _, op := range chip8.Opcodes[int(inst.Family)] {
		if op.Instruction == nil || op.Info.Mask&inst.Word != op.Info.Value {
			continue
		}
		if n := bits.OnesCount16(op.Info.Mask); n > best {
			ins, best = op.Instruction, n
		}
	}
	return ins
}

func mnemonic(inst cpu.Instruction) string {
	if ins := reference(inst); ins != nil {
		return strings.ToUpper(ins.Name)
	}
	return inst.Name()
}

// IsSkip reports whether the instruction conditionally skips the one
// that follows it.
func IsSkip(inst cpu.Instruction) bool {
	if inst.Op == cpu.OpUnknown {
		return false
	}
	ins := reference(inst)
	return ins != nil && chip8.SkipInstructions.Contains(ins.Name)
}

// Format returns the assembly text for a decoded instruction. Words with no
// defined semantics are shown as data.
func Format(inst cpu.Instruction) string {
	if inst.Op == cpu.OpUnknown {
		return fmt.Sprintf("DW $%04X", inst.Word)
	}
	name := mnemonic(inst)
	format := opFormat[inst.Op]
	if format == "" {
		return name
	}
	return name + " " + fmt.Sprintf(format, operands(inst)...)
}

// Disassemble the machine code in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code. An address too
// close to the end of memory to hold a whole instruction disassembles to
// an empty line.
func Disassemble(m *cpu.Memory, addr uint16) (line string, next uint16) {
	w, err := m.LoadWord(addr)
	if err != nil {
		return "", addr + 2
	}
	return Format(cpu.Decode(w)), addr + 2
}

// GetRegisterString returns a one-line summary of the register state.
func GetRegisterString(r *cpu.Registers) string {
	var sb strings.Builder
	for i, v := range r.V {
		fmt.Fprintf(&sb, "V%X=%02X ", i, v)
	}
	fmt.Fprintf(&sb, "I=%03X PC=%03X SP=%02d DT=%02X ST=%02X", r.I, r.PC, r.SP, r.DT, r.ST)
	return sb.String()
}
