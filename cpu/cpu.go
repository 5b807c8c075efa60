// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements a CHIP-8 virtual machine: memory, registers,
// framebuffer, keypad latch, timers and the instruction set, stepped at a
// fixed logical clock rate.
package cpu

import (
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Config holds the options used to create a CPU.
type Config struct {
	ClockRate int         // instructions per second
	KeyMode   KeyMode     // keypad latch behavior
	Rand      *rand.Rand  // source for RND, seeded from the time if nil
	Logger    *log.Logger // optional, receives ignored SYS calls at debug level
}

// DefaultConfig returns a 300 Hz configuration with edge-triggered keys.
func DefaultConfig() Config {
	return Config{
		ClockRate: DefaultClockRate,
		KeyMode:   EdgeTriggered,
	}
}

// CPU represents a single CHIP-8 machine. It exclusively owns its memory,
// registers, framebuffer and keypad; separate CPUs share nothing.
type CPU struct {
	Reg     Registers // registers, timers and call stack
	Mem     Memory    // 4K address space
	Cycles  uint64    // total executed instructions
	LastPC  uint16    // address of the last executed instruction
	display Display
	keys    Keypad
	clock   Clock
	rng     *rand.Rand
	logger  *log.Logger
}

// NewCPU creates a machine with the font table loaded and all other state
// zeroed.
func NewCPU(cfg Config) *CPU {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.ClockRate == 0 {
		cfg.ClockRate = DefaultClockRate
	}

	cpu := &CPU{
		clock:  NewClock(cfg.ClockRate),
		rng:    rng,
		logger: cfg.Logger,
	}
	cpu.keys.Mode = cfg.KeyMode
	cpu.Reset()
	return cpu
}

// Reset zeroes memory, registers, the framebuffer, the keypad and the
// scheduler, then reloads the font table. The configuration is kept.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.Mem.Clear()
	cpu.Mem.loadFont()
	cpu.display.Clear()
	cpu.keys.Reset()
	cpu.clock.Reset()
	cpu.Cycles = 0
	cpu.LastPC = 0
}

// LoadProgram copies a program image into the program region and points
// the program counter at it. Images larger than MaxProgramSize are rejected
// with ErrRomTooLarge and leave the machine untouched.
func (cpu *CPU) LoadProgram(program []byte) error {
	if err := cpu.Mem.loadProgram(program); err != nil {
		return err
	}
	cpu.Reg.PC = ProgramAddress
	return nil
}

// SetPC updates the program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// SetClockRate changes the instruction rate. Time already accumulated
// toward the next instruction is discarded.
func (cpu *CPU) SetClockRate(hz int) {
	cpu.clock = NewClock(hz)
}

// ClockPeriod returns the time between instructions.
func (cpu *CPU) ClockPeriod() time.Duration {
	return cpu.clock.Period()
}

// Pending returns the time accumulated toward the next instruction.
func (cpu *CPU) Pending() time.Duration {
	return cpu.clock.Elapsed()
}

// SetKeyMode switches the keypad between edge- and level-triggered
// behavior.
func (cpu *CPU) SetKeyMode(mode KeyMode) {
	cpu.keys.Mode = mode
}

// KeyMode returns the current keypad behavior.
func (cpu *CPU) KeyMode() KeyMode {
	return cpu.keys.Mode
}

// SetKey records a key press or release. Keys above 0xF are rejected with
// ErrOutOfBounds.
func (cpu *CPU) SetKey(key byte, pressed bool) error {
	return cpu.keys.Set(key, pressed)
}

// KeyPressed reports whether a key is currently latched, without
// consuming it.
func (cpu *CPU) KeyPressed(key byte) bool {
	return cpu.keys.Peek(key)
}

// ReadDisplay returns a copy of the framebuffer.
func (cpu *CPU) ReadDisplay() Display {
	return cpu.display
}

// Snapshot returns a copy of the registers, timers and call stack.
func (cpu *CPU) Snapshot() Registers {
	return cpu.Reg
}

// SoundActive reports whether the sound timer is running.
func (cpu *CPU) SoundActive() bool {
	return cpu.Reg.ST > 0
}

// DecrementTimers counts the delay and sound timers down by one, stopping
// at zero. Hosts call it at TimerRate, independently of the instruction
// clock.
func (cpu *CPU) DecrementTimers() {
	if cpu.Reg.DT > 0 {
		cpu.Reg.DT--
	}
	if cpu.Reg.ST > 0 {
		cpu.Reg.ST--
	}
}

// Tick adds elapsed time to the scheduler and executes one instruction for
// every whole clock period that has accumulated. Execution stops at the
// first failing instruction, whose error is returned; the period it used
// is consumed and any remaining time is kept.
func (cpu *CPU) Tick(elapsed time.Duration) error {
	cpu.clock.Add(elapsed)
	for cpu.clock.Next() {
		if err := cpu.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step the cpu by one instruction. On failure an *ExecError is returned and
// no state is changed.
func (cpu *CPU) Step() error {
	pc := cpu.Reg.PC
	w, err := cpu.Mem.LoadWord(pc)
	if err != nil {
		return &ExecError{PC: pc, Err: err}
	}
	return cpu.exec(pc, Decode(w))
}

// Execute runs a single instruction word as though it had been fetched
// from the current program counter.
func (cpu *CPU) Execute(w uint16) error {
	return cpu.exec(cpu.Reg.PC, Decode(w))
}

func (cpu *CPU) exec(pc uint16, inst Instruction) error {
	// Only a jump may occupy the last word; anything else would leave the
	// PC past the end of memory.
	if pc+2 >= MemorySize && !inst.Op.jumps() {
		return &ExecError{PC: pc, Inst: inst, Err: ErrOutOfBounds}
	}

	// Advance the PC before executing so control transfers can overwrite
	// it and CALL pushes the address of the following instruction.
	cpu.Reg.PC = pc + 2
	if err := impl[inst.Op].fn(cpu, inst); err != nil {
		cpu.Reg.PC = pc
		return &ExecError{PC: pc, Inst: inst, Err: err}
	}

	cpu.LastPC = pc
	cpu.Cycles++
	return nil
}

func (cpu *CPU) skipIf(cond bool) error {
	if !cond {
		return nil
	}
	if cpu.Reg.PC+2 >= MemorySize {
		return ErrOutOfBounds
	}
	cpu.Reg.PC += 2
	return nil
}

// Undefined instruction
func (cpu *CPU) unknown(inst Instruction) error {
	return ErrInvalidOpcode
}

// Call machine routine (ignored)
func (cpu *CPU) sys(inst Instruction) error {
	if cpu.logger != nil {
		cpu.logger.Debug("Ignoring machine routine call",
			log.Hex("address", inst.NNN),
			log.Hex("pc", cpu.Reg.PC-2))
	}
	return nil
}

// Clear screen
func (cpu *CPU) cls(inst Instruction) error {
	cpu.display.Clear()
	return nil
}

// Return from subroutine
func (cpu *CPU) ret(inst Instruction) error {
	addr, err := cpu.Reg.pop()
	if err != nil {
		return err
	}
	cpu.Reg.PC = addr
	return nil
}

// Jump
func (cpu *CPU) jp(inst Instruction) error {
	cpu.Reg.PC = inst.NNN
	return nil
}

// Call subroutine
func (cpu *CPU) call(inst Instruction) error {
	if err := cpu.Reg.push(cpu.Reg.PC); err != nil {
		return err
	}
	cpu.Reg.PC = inst.NNN
	return nil
}

// Skip if Vx equals immediate
func (cpu *CPU) se(inst Instruction) error {
	return cpu.skipIf(cpu.Reg.V[inst.X] == inst.KK)
}

// Skip if Vx does not equal immediate
func (cpu *CPU) sne(inst Instruction) error {
	return cpu.skipIf(cpu.Reg.V[inst.X] != inst.KK)
}

// Skip if Vx equals Vy
func (cpu *CPU) sev(inst Instruction) error {
	return cpu.skipIf(cpu.Reg.V[inst.X] == cpu.Reg.V[inst.Y])
}

// Skip if Vx does not equal Vy
func (cpu *CPU) snev(inst Instruction) error {
	return cpu.skipIf(cpu.Reg.V[inst.X] != cpu.Reg.V[inst.Y])
}

// Load immediate
func (cpu *CPU) ld(inst Instruction) error {
	cpu.Reg.V[inst.X] = inst.KK
	return nil
}

// Add immediate, VF untouched
func (cpu *CPU) add(inst Instruction) error {
	cpu.Reg.V[inst.X] += inst.KK
	return nil
}

// Copy register
func (cpu *CPU) ldv(inst Instruction) error {
	cpu.Reg.V[inst.X] = cpu.Reg.V[inst.Y]
	return nil
}

// Bitwise OR
func (cpu *CPU) or(inst Instruction) error {
	cpu.Reg.V[inst.X] |= cpu.Reg.V[inst.Y]
	return nil
}

// Bitwise AND
func (cpu *CPU) and(inst Instruction) error {
	cpu.Reg.V[inst.X] &= cpu.Reg.V[inst.Y]
	return nil
}

// Bitwise XOR
func (cpu *CPU) xor(inst Instruction) error {
	cpu.Reg.V[inst.X] ^= cpu.Reg.V[inst.Y]
	return nil
}

// The ALU ops below write Vx before VF, so when x is F the flag wins.

// Add registers with carry
func (cpu *CPU) addv(inst Instruction) error {
	sum := uint16(cpu.Reg.V[inst.X]) + uint16(cpu.Reg.V[inst.Y])
	cpu.Reg.V[inst.X] = byte(sum)
	cpu.Reg.V[FlagRegister] = boolToByte(sum > 0xff)
	return nil
}

// Subtract Vy from Vx, VF = not borrow
func (cpu *CPU) sub(inst Instruction) error {
	vx, vy := cpu.Reg.V[inst.X], cpu.Reg.V[inst.Y]
	cpu.Reg.V[inst.X] = vx - vy
	cpu.Reg.V[FlagRegister] = boolToByte(vx >= vy)
	return nil
}

// Subtract Vx from Vy, VF = not borrow
func (cpu *CPU) subn(inst Instruction) error {
	vx, vy := cpu.Reg.V[inst.X], cpu.Reg.V[inst.Y]
	cpu.Reg.V[inst.X] = vy - vx
	cpu.Reg.V[FlagRegister] = boolToByte(vy >= vx)
	return nil
}

// Shift right. VF is written first and the shift reads Vx afterwards.
func (cpu *CPU) shr(inst Instruction) error {
	cpu.Reg.V[FlagRegister] = cpu.Reg.V[inst.X] & 1
	cpu.Reg.V[inst.X] >>= 1
	return nil
}

// Shift left. VF is written first and the shift reads Vx afterwards.
func (cpu *CPU) shl(inst Instruction) error {
	cpu.Reg.V[FlagRegister] = (cpu.Reg.V[inst.X] >> 7) & 1
	cpu.Reg.V[inst.X] <<= 1
	return nil
}

// Load index register
func (cpu *CPU) ldi(inst Instruction) error {
	cpu.Reg.I = inst.NNN
	return nil
}

// Jump to V0 + nnn
func (cpu *CPU) jpv0(inst Instruction) error {
	addr := uint16(cpu.Reg.V[0]) + inst.NNN
	if addr >= MemorySize {
		return ErrOutOfBounds
	}
	cpu.Reg.PC = addr
	return nil
}

// Random byte masked with immediate
func (cpu *CPU) rnd(inst Instruction) error {
	cpu.Reg.V[inst.X] = byte(cpu.rng.Intn(256)) & inst.KK
	return nil
}

// Draw sprite
func (cpu *CPU) drw(inst Instruction) error {
	var buf [15]byte
	sprite := buf[:inst.N]
	if err := cpu.Mem.LoadBytes(cpu.Reg.I, sprite); err != nil {
		return err
	}
	x, y := cpu.Reg.V[inst.X], cpu.Reg.V[inst.Y]
	collision := cpu.display.Draw(x, y, sprite)
	cpu.Reg.V[FlagRegister] = boolToByte(collision)
	return nil
}

// Skip if key Vx pressed
func (cpu *CPU) skp(inst Instruction) error {
	key := cpu.Reg.V[inst.X]
	if key >= NumKeys {
		return ErrOutOfBounds
	}
	pressed := cpu.keys.Peek(key)
	if err := cpu.skipIf(pressed); err != nil {
		return err
	}
	cpu.keys.consume(key)
	return nil
}

// Skip if key Vx not pressed
func (cpu *CPU) sknp(inst Instruction) error {
	key := cpu.Reg.V[inst.X]
	if key >= NumKeys {
		return ErrOutOfBounds
	}
	pressed := cpu.keys.Peek(key)
	if err := cpu.skipIf(!pressed); err != nil {
		return err
	}
	cpu.keys.consume(key)
	return nil
}

// Load delay timer into Vx
func (cpu *CPU) ldvdt(inst Instruction) error {
	cpu.Reg.V[inst.X] = cpu.Reg.DT
	return nil
}

// Wait for a key. Without one the PC is wound back so the same
// instruction runs again on the next cycle.
func (cpu *CPU) ldk(inst Instruction) error {
	key, ok := cpu.keys.consumeAny()
	if !ok {
		cpu.Reg.PC -= 2
		return nil
	}
	cpu.Reg.V[inst.X] = key
	return nil
}

// Set delay timer
func (cpu *CPU) lddt(inst Instruction) error {
	cpu.Reg.DT = cpu.Reg.V[inst.X]
	return nil
}

// Set sound timer
func (cpu *CPU) ldst(inst Instruction) error {
	cpu.Reg.ST = cpu.Reg.V[inst.X]
	return nil
}

// Add Vx to index register
func (cpu *CPU) addi(inst Instruction) error {
	cpu.Reg.I += uint16(cpu.Reg.V[inst.X])
	return nil
}

// Point index register at the glyph for digit Vx
func (cpu *CPU) ldf(inst Instruction) error {
	cpu.Reg.I = FontAddress + uint16(cpu.Reg.V[inst.X])*GlyphSize
	return nil
}

// Store BCD of Vx at I, I+1, I+2
func (cpu *CPU) ldb(inst Instruction) error {
	v := cpu.Reg.V[inst.X]
	bcd := [3]byte{v / 100, (v / 10) % 10, v % 10}
	return cpu.Mem.StoreBytes(cpu.Reg.I, bcd[:])
}

// Store V0..Vx at I
func (cpu *CPU) stm(inst Instruction) error {
	return cpu.Mem.StoreBytes(cpu.Reg.I, cpu.Reg.V[:inst.X+1])
}

// Load V0..Vx from I
func (cpu *CPU) ldm(inst Instruction) error {
	return cpu.Mem.LoadBytes(cpu.Reg.I, cpu.Reg.V[:inst.X+1])
}
