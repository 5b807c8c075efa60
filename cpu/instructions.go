// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// An Op identifies a single decoded operation. Several ops may share an
// opcode family (the top nibble of the instruction word).
type Op byte

// All decodable operations. The comment shows the instruction pattern.
const (
	OpUnknown Op = iota // no defined semantics
	OpSYS               // 0nnn
	OpCLS               // 00E0
	OpRET               // 00EE
	OpJP                // 1nnn
	OpCALL              // 2nnn
	OpSE                // 3xkk
	OpSNE               // 4xkk
	OpSEV               // 5xy0
	OpLD                // 6xkk
	OpADD               // 7xkk
	OpLDV               // 8xy0
	OpOR                // 8xy1
	OpAND               // 8xy2
	OpXOR               // 8xy3
	OpADDV              // 8xy4
	OpSUB               // 8xy5
	OpSHR               // 8xy6
	OpSUBN              // 8xy7
	OpSHL               // 8xyE
	OpSNEV              // 9xy0
	OpLDI               // Annn
	OpJPV0              // Bnnn
	OpRND               // Cxkk
	OpDRW               // Dxyn
	OpSKP               // Ex9E
	OpSKNP              // ExA1
	OpLDVDT             // Fx07
	OpLDK               // Fx0A
	OpLDDT              // Fx15
	OpLDST              // Fx18
	OpADDI              // Fx1E
	OpLDF               // Fx29
	OpLDB               // Fx33
	OpSTM               // Fx55
	OpLDM               // Fx65
	opCount
)

type instfunc func(c *CPU, inst Instruction) error

// Emulator implementation for each op
type opImpl struct {
	name string
	fn   instfunc
}

var impl = [opCount]opImpl{
	OpUnknown: {"???", (*CPU).unknown},
	OpSYS:     {"SYS", (*CPU).sys},
	OpCLS:     {"CLS", (*CPU).cls},
	OpRET:     {"RET", (*CPU).ret},
	OpJP:      {"JP", (*CPU).jp},
	OpCALL:    {"CALL", (*CPU).call},
	OpSE:      {"SE", (*CPU).se},
	OpSNE:     {"SNE", (*CPU).sne},
	OpSEV:     {"SE", (*CPU).sev},
	OpLD:      {"LD", (*CPU).ld},
	OpADD:     {"ADD", (*CPU).add},
	OpLDV:     {"LD", (*CPU).ldv},
	OpOR:      {"OR", (*CPU).or},
	OpAND:     {"AND", (*CPU).and},
	OpXOR:     {"XOR", (*CPU).xor},
	OpADDV:    {"ADD", (*CPU).addv},
	OpSUB:     {"SUB", (*CPU).sub},
	OpSHR:     {"SHR", (*CPU).shr},
	OpSUBN:    {"SUBN", (*CPU).subn},
	OpSHL:     {"SHL", (*CPU).shl},
	OpSNEV:    {"SNE", (*CPU).snev},
	OpLDI:     {"LD", (*CPU).ldi},
	OpJPV0:    {"JP", (*CPU).jpv0},
	OpRND:     {"RND", (*CPU).rnd},
	OpDRW:     {"DRW", (*CPU).drw},
	OpSKP:     {"SKP", (*CPU).skp},
	OpSKNP:    {"SKNP", (*CPU).sknp},
	OpLDVDT:   {"LD", (*CPU).ldvdt},
	OpLDK:     {"LD", (*CPU).ldk},
	OpLDDT:    {"LD", (*CPU).lddt},
	OpLDST:    {"LD", (*CPU).ldst},
	OpADDI:    {"ADD", (*CPU).addi},
	OpLDF:     {"LD", (*CPU).ldf},
	OpLDB:     {"LD", (*CPU).ldb},
	OpSTM:     {"LD", (*CPU).stm},
	OpLDM:     {"LD", (*CPU).ldm},
}

// Name returns the assembler mnemonic for the op.
func (op Op) Name() string {
	if op >= opCount {
		return impl[OpUnknown].name
	}
	return impl[op].name
}

// jumps reports whether the op always replaces the program counter.
func (op Op) jumps() bool {
	switch op {
	case OpJP, OpRET, OpJPV0:
		return true
	default:
		return false
	}
}

// An Instruction is a decoded 16-bit instruction word. All operand fields
// are extracted regardless of whether the op uses them.
type Instruction struct {
	Word   uint16 // raw instruction word
	Op     Op     // decoded operation
	Family byte   // top nibble
	X      byte   // second nibble
	Y      byte   // third nibble
	N      byte   // low nibble
	KK     byte   // low byte
	NNN    uint16 // low 12 bits
}

// Name returns the assembler mnemonic for the instruction.
func (inst Instruction) Name() string {
	return inst.Op.Name()
}

// Decode splits an instruction word into its operand fields and identifies
// the operation. Decode never fails: words without defined semantics decode
// to OpUnknown.
func Decode(w uint16) Instruction {
	inst := Instruction{
		Word:   w,
		Family: byte(w >> 12),
		X:      byte(w>>8) & 0xf,
		Y:      byte(w>>4) & 0xf,
		N:      byte(w) & 0xf,
		KK:     byte(w),
		NNN:    w & 0xfff,
	}
	inst.Op = decodeOp(inst)
	return inst
}

var familyOps = [16]Op{
	0x1: OpJP,
	0x2: OpCALL,
	0x3: OpSE,
	0x4: OpSNE,
	0x6: OpLD,
	0x7: OpADD,
	0xa: OpLDI,
	0xb: OpJPV0,
	0xc: OpRND,
	0xd: OpDRW,
}

var aluOps = [16]Op{
	0x0: OpLDV,
	0x1: OpOR,
	0x2: OpAND,
	0x3: OpXOR,
	0x4: OpADDV,
	0x5: OpSUB,
	0x6: OpSHR,
	0x7: OpSUBN,
	0xe: OpSHL,
}

var miscOps = map[byte]Op{
	0x07: OpLDVDT,
	0x0a: OpLDK,
	0x15: OpLDDT,
	0x18: OpLDST,
	0x1e: OpADDI,
	0x29: OpLDF,
	0x33: OpLDB,
	0x55: OpSTM,
	0x65: OpLDM,
}

func decodeOp(inst Instruction) Op {
	switch inst.Family {
	case 0x0:
		switch inst.Word {
		case 0x00e0:
			return OpCLS
		case 0x00ee:
			return OpRET
		default:
			return OpSYS
		}
	case 0x5, 0x9:
		if inst.N != 0 {
			return OpUnknown
		}
		if inst.Family == 0x5 {
			return OpSEV
		}
		return OpSNEV
	case 0x8:
		return aluOps[inst.N] // unlisted entries are OpUnknown
	case 0xe:
		switch inst.KK {
		case 0x9e:
			return OpSKP
		case 0xa1:
			return OpSKNP
		default:
			return OpUnknown
		}
	case 0xf:
		return miscOps[inst.KK]
	default:
		return familyOps[inst.Family]
	}
}
