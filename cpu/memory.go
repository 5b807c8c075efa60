// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Memory layout
const (
	MemorySize     = 0x1000                     // total addressable bytes
	FontAddress    = 0x000                      // start of the hex digit glyphs
	ProgramAddress = 0x200                      // start of the program region
	MaxProgramSize = MemorySize - ProgramAddress // largest loadable program
	GlyphSize      = 5                          // bytes per hex digit glyph
)

// Font holds the 16 hexadecimal digit glyphs, 5 rows of 4 pixels each, in
// the high nibble of every byte.
var Font = [16 * GlyphSize]byte{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}

// Memory represents the machine's 4K address space. Single byte accesses
// wrap at the end of the address space; multi-byte accesses are bounds
// checked and fail without touching memory.
type Memory struct {
	b [MemorySize]byte
}

// LoadByte loads a single byte from the address and returns it. Only the
// low 12 bits of the address are used.
func (m *Memory) LoadByte(addr uint16) byte {
	return m.b[addr&(MemorySize-1)]
}

// LoadBytes loads len(b) bytes starting at the address into the buffer 'b'.
// If the range extends past the end of memory, nothing is copied and
// ErrOutOfBounds is returned.
func (m *Memory) LoadBytes(addr uint16, b []byte) error {
	if int(addr)+len(b) > MemorySize {
		return ErrOutOfBounds
	}
	copy(b, m.b[addr:])
	return nil
}

// StoreByte stores a byte at the address. Only the low 12 bits of the
// address are used.
func (m *Memory) StoreByte(addr uint16, v byte) {
	m.b[addr&(MemorySize-1)] = v
}

// StoreBytes stores the contents of 'b' starting at the address. If the
// range extends past the end of memory, nothing is stored and
// ErrOutOfBounds is returned.
func (m *Memory) StoreBytes(addr uint16, b []byte) error {
	if int(addr)+len(b) > MemorySize {
		return ErrOutOfBounds
	}
	copy(m.b[addr:], b)
	return nil
}

// LoadWord loads the big-endian instruction word at the address.
func (m *Memory) LoadWord(addr uint16) (uint16, error) {
	if int(addr)+2 > MemorySize {
		return 0, ErrOutOfBounds
	}
	return uint16(m.b[addr])<<8 | uint16(m.b[addr+1]), nil
}

// Clear zeroes the entire address space.
func (m *Memory) Clear() {
	m.b = [MemorySize]byte{}
}

func (m *Memory) loadFont() {
	copy(m.b[FontAddress:], Font[:])
}

func (m *Memory) loadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return ErrRomTooLarge
	}
	region := m.b[ProgramAddress:]
	for i := range region {
		region[i] = 0
	}
	copy(region, program)
	return nil
}
