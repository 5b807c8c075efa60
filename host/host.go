// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that drives a CHIP-8 machine
// from a command shell.
//
// Within the host it is possible to load ROM images, run the machine for a
// span of emulated or real time, step through instructions, press keypad
// keys, dump and disassemble memory, view the framebuffer, inspect and
// change registers, and play a ROM in the terminal.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/beevik/cmd"
	"github.com/beevik/gochip8/cpu"
	"github.com/beevik/gochip8/disasm"
	"github.com/beevik/gochip8/rom"
	"github.com/retroenv/retrogolib/log"
)

// ErrQuit is returned by RunCommands when the quit command is entered.
var ErrQuit = errors.New("exiting program")

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles

	displayAll = displayRegisters | displayCycles
)

// Config holds the options used to create a Host.
type Config struct {
	ClockRate int         // instructions per second, 0 for the default
	KeyMode   cpu.KeyMode // keypad latch behavior
	Logger    *log.Logger // receives ROM loads, halts and settings changes
	Output    io.Writer   // destination for output produced outside RunCommands
}

// A Host represents a CHIP-8 machine together with the command shell,
// timer driver and terminal front end that operate it.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	keyInput    *os.File
	cpu         *cpu.CPU
	timers      cpu.Clock
	logger      *log.Logger
	lastCmd     *cmd.Selection
	running     atomic.Bool
	settings    *settings
	romName     string
	romSize     int
	romHash     uint64
	lastFrame   uint64
}

// New creates a new CHIP-8 host environment.
func New(cfg Config) *Host {
	h := &Host{
		keyInput: os.Stdin,
		logger:   cfg.Logger,
		settings: newSettings(),
	}
	if h.logger == nil {
		h.logger = log.NewWithConfig(log.DefaultConfig())
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	h.output = bufio.NewWriter(cfg.Output)

	if cfg.ClockRate > 0 {
		h.settings.ClockRate = cfg.ClockRate
	}
	h.settings.KeyMode = cfg.KeyMode.String()

	c := cpu.DefaultConfig()
	c.ClockRate = h.settings.ClockRate
	c.KeyMode = cfg.KeyMode
	c.Logger = h.logger
	h.cpu = cpu.NewCPU(c)
	h.timers = cpu.NewClock(h.settings.TimerRate)
	return h
}

// CPU returns the machine driven by the host.
func (h *Host) CPU() *cpu.CPU {
	return h.cpu
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered. It returns ErrQuit
// if a quit command was processed and nil when the input is exhausted.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) error {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	h.displayPC()
	return h.processCommands()
}

func (h *Host) processCommands() error {
	for {
		h.prompt()

		line, err := h.getLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
			if c.Command == nil {
				h.displayCommands(strings.TrimSpace(line))
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(*command).handler
		if err := handler(h, c); err != nil {
			return err
		}
	}
}

// Break interrupts a running machine.
func (h *Host) Break() {
	if h.running.CompareAndSwap(true, false) {
		return
	}
	h.println()
	h.prompt()
}

// Load reads a ROM image from disk, resets the machine and loads the image
// into the program region.
func (h *Host) Load(filename string) error {
	b, err := rom.Load(filename)
	if err != nil {
		return err
	}

	name := filepath.Base(filename)
	h.cpu.Reset()
	if err := h.cpu.LoadProgram(b); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	h.timers.Reset()

	h.romName, h.romSize, h.romHash = name, len(b), rom.Fingerprint(b)
	h.settings.NextDisasmAddr = cpu.ProgramAddress
	h.settings.NextMemDumpAddr = cpu.ProgramAddress

	h.logger.Info("Loaded ROM",
		log.String("name", name),
		log.Int("size", len(b)),
		log.String("fingerprint", fmt.Sprintf("%016X", h.romHash)))

	h.printf("Loaded '%s' to $%03X..$%03X (%d instructions, %d bytes).\n",
		name, cpu.ProgramAddress, cpu.ProgramAddress+max(len(b), 1)-1, (len(b)+1)/2, len(b))
	return nil
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return strings.TrimSpace(h.input.Text()), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)
	}
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr
		if addr == 0 {
			addr = h.cpu.Reg.PC
		}

	case ".":
		addr = h.cpu.Reg.PC

	default:
		a, err := parseValue(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = uint16(a)
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := parseValue(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = l
	}

	for i := 0; i < lines && addr < cpu.MemorySize; i++ {
		d, next := h.disassemble(addr, 0)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdDisplay(c cmd.Selection) error {
	d := h.cpu.ReadDisplay()
	if err := d.Render(h.output, "#", "."); err != nil {
		return err
	}
	h.flush()
	return nil
}

func (h *Host) cmdExecute(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	filename := strings.Join(c.Args, " ")
	file, err := os.Open(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	defer file.Close()

	input, interactive, lastCmd := h.input, h.interactive, h.lastCmd
	h.input, h.interactive, h.lastCmd = bufio.NewScanner(file), false, nil
	err = h.processCommands()
	h.input, h.interactive, h.lastCmd = input, interactive, lastCmd
	return err
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands("")
		return nil
	}

	line := strings.Join(c.Args, " ")
	s, err := cmds.Lookup(line)
	switch {
	case err != nil:
		h.printf("%v\n", err)
	case s.Command == nil:
		h.displayCommands(line)
	default:
		cm := s.Command.Data.(*command)
		if cm.usage != "" {
			h.printf("Syntax: %s\n\n", cm.usage)
		}
		switch {
		case cm.description != "":
			h.printf("Description:\n%s\n\n", indentWrap(3, cm.description))
		case cm.brief != "":
			h.printf("Description:\n%s.\n\n", indentWrap(3, cm.brief))
		}
	}
	return nil
}

func (h *Host) cmdInfo(c cmd.Selection) error {
	if h.romName == "" {
		h.println("ROM:         (none)")
	} else {
		h.printf("ROM:         %s (%d bytes)\n", h.romName, h.romSize)
		h.printf("Fingerprint: %016X\n", h.romHash)
	}
	h.printf("Clock:       %d Hz\n", h.settings.ClockRate)
	h.printf("Timers:      %d Hz\n", h.settings.TimerRate)
	h.printf("Key mode:    %s\n", h.cpu.KeyMode())
	h.printf("Cycles:      %d\n", h.cpu.Cycles)
	h.printf("Sound:       %v\n", h.cpu.SoundActive())
	return nil
}

func (h *Host) cmdKey(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	key, err := parseKey(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	pressed := true
	if len(c.Args) > 1 {
		pressed, err = stringToBool(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	if err := h.cpu.SetKey(key, pressed); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if pressed {
		h.printf("Key %X down.\n", key)
	} else {
		h.printf("Key %X up.\n", key)
	}
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	if err := h.Load(strings.Join(c.Args, " ")); err != nil {
		h.printf("Failed to load: %v\n", err)
		return nil
	}
	h.displayPC()
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr
		if addr == 0 {
			addr = h.cpu.Reg.PC
		}

	case ".":
		addr = h.cpu.Reg.PC

	default:
		a, err := parseValue(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = uint16(a)
	}

	bytes := h.settings.MemDumpBytes
	if len(c.Args) >= 2 {
		var err error
		bytes, err = parseValue(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = uint16(min(int(addr)+bytes, cpu.MemorySize-1))
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return ErrQuit
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
	h.println(d)
	if frames := h.cpu.Reg.Frames(); len(frames) > 0 {
		h.print("Stack:")
		for _, f := range frames {
			h.printf(" $%03X", f)
		}
		h.println()
	}
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	h.cpu.Reset()
	h.timers.Reset()
	h.romName, h.romSize, h.romHash = "", 0, 0
	h.settings.NextDisasmAddr = 0
	h.settings.NextMemDumpAddr = 0
	h.println("Machine reset.")
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	start := h.cpu.Cycles

	var err error
	if len(c.Args) > 0 {
		ms, perr := parseValue(c.Args[0])
		if perr != nil {
			h.printf("%v\n", perr)
			return nil
		}
		err = h.runFor(time.Duration(ms) * time.Millisecond)
	} else {
		h.printf("Running from $%03X. Press ctrl-C to break.\n", h.cpu.Reg.PC)
		err = h.runRealTime()
	}

	h.reportHalt(err)
	h.printf("Executed %d instructions.\n", h.cpu.Cycles-start)
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	h.displayPC()
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c.Command)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")
		v, errV := parseValue(value)

		// Setting a register?
		if errV == nil && h.setRegister(key, v) {
			return nil
		}

		// Setting a host setting?
		old := *h.settings
		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("Setting '%s' not found", key)
		case reflect.String:
			err = h.settings.Set(key, strings.ToLower(value))
		default:
			err = errV
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}
		if err == nil {
			if err = h.settings.validate(); err != nil {
				*h.settings = old
			}
		}

		if err == nil {
			h.println("Setting updated.")
			h.logger.Debug("Setting updated",
				log.String("name", h.settings.Name(key)),
				log.String("value", value))
			h.onSettingsUpdate()
		} else {
			h.printf("%v\n", err)
		}
	}

	return nil
}

func (h *Host) cmdStep(c cmd.Selection) error {
	// Parse the number of steps.
	count := 1
	if len(c.Args) > 0 {
		n, err := parseValue(c.Args[0])
		if err == nil {
			count = n
		}
	}

	for i := count - 1; i >= 0; i-- {
		pc := h.cpu.Reg.PC
		if err := h.step(); err != nil {
			h.reportHalt(err)
			break
		}
		switch {
		case i == h.settings.StepLinesToDisplay:
			h.println("...")
		case i < h.settings.StepLinesToDisplay:
			h.displayStep(pc)
		}
	}

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

// step executes one instruction and lets one clock period pass on the
// timers.
func (h *Host) step() error {
	if err := h.cpu.Step(); err != nil {
		return err
	}
	for n := h.timers.Advance(h.cpu.ClockPeriod()); n > 0; n-- {
		h.cpu.DecrementTimers()
	}
	return nil
}

// advance lets 'd' of emulated time pass on both the instruction clock and
// the timers.
func (h *Host) advance(d time.Duration) error {
	if err := h.cpu.Tick(d); err != nil {
		return err
	}
	for n := h.timers.Advance(d); n > 0; n-- {
		h.cpu.DecrementTimers()
	}
	return nil
}

// runFor advances emulated time in TickMillis slices.
func (h *Host) runFor(d time.Duration) error {
	slice := time.Duration(h.settings.TickMillis) * time.Millisecond
	for d > 0 {
		t := min(slice, d)
		if err := h.advance(t); err != nil {
			return err
		}
		d -= t
	}
	return nil
}

// runRealTime advances the machine by wall-clock time until Break is
// called or the machine halts.
func (h *Host) runRealTime() error {
	h.running.Store(true)
	defer h.running.Store(false)

	ticker := time.NewTicker(time.Duration(h.settings.TickMillis) * time.Millisecond)
	defer ticker.Stop()

	last := time.Now()
	for h.running.Load() {
		now := <-ticker.C
		if err := h.advance(now.Sub(last)); err != nil {
			return err
		}
		last = now
	}
	return nil
}

func (h *Host) reportHalt(err error) {
	if err == nil {
		return
	}

	h.logger.Error("Machine halted", log.Err(err))
	h.printf("Machine halted: %v.\n", err)

	var e *cpu.ExecError
	if errors.As(err, &e) {
		d, _ := h.disassemble(e.PC, displayRegisters)
		h.println(d)
	}
}

func (h *Host) setRegister(key string, v int) bool {
	r := &h.cpu.Reg
	switch {
	case len(key) == 2 && key[0] == 'v':
		x, err := parseKey(key[1:])
		if err != nil {
			return false
		}
		r.V[x] = byte(v)
		h.printf("Register V%X set to $%02X.\n", x, byte(v))
	case key == "i":
		r.I = uint16(v)
		h.printf("Register I set to $%03X.\n", r.I)
	case key == "pc" || key == ".":
		r.PC = uint16(v)
		h.settings.NextDisasmAddr = r.PC
		h.printf("Register PC set to $%03X.\n", r.PC)
	case key == "dt":
		r.DT = byte(v)
		h.printf("Register DT set to $%02X.\n", r.DT)
	case key == "st":
		r.ST = byte(v)
		h.printf("Register ST set to $%02X.\n", r.ST)
	default:
		return false
	}
	return true
}

func (h *Host) onSettingsUpdate() {
	if c := cpu.NewClock(h.settings.ClockRate); c.Period() != h.cpu.ClockPeriod() {
		h.cpu.SetClockRate(h.settings.ClockRate)
	}
	if c := cpu.NewClock(h.settings.TimerRate); c.Period() != h.timers.Period() {
		h.timers = c
	}
	if mode, err := cpu.ParseKeyMode(h.settings.KeyMode); err == nil {
		h.cpu.SetKeyMode(mode)
	}
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	cpu := h.cpu

	var line string
	line, next = disasm.Disassemble(&cpu.Mem, addr)

	var b [2]byte
	code := ""
	if cpu.Mem.LoadBytes(addr, b[:]) == nil {
		code = codeString(b[:])
	}

	str = fmt.Sprintf("%03X-   %-5s    %-18s", addr, code, line)

	if (flags & displayRegisters) != 0 {
		str += " " + disasm.GetRegisterString(&cpu.Reg)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%-12d", cpu.Cycles)
	}

	return strings.TrimRight(str, " "), next
}

// displayStep shows the instruction that just ran at 'pc', noting a taken
// skip, followed by the state at the new program counter.
func (h *Host) displayStep(pc uint16) {
	if !h.interactive {
		return
	}
	if w, err := h.cpu.Mem.LoadWord(pc); err == nil && disasm.IsSkip(cpu.Decode(w)) && h.cpu.Reg.PC == pc+4 {
		h.printf("Skipped $%03X.\n", pc+2)
	}
	h.displayPC()
}

func (h *Host) dumpMemory(addr0 uint16, bytes int) {
	if bytes <= 0 || addr0 >= cpu.MemorySize {
		return
	}

	addr1 := min(int(addr0)+bytes-1, cpu.MemorySize-1)

	buf := []byte("   -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-int(addr0) < 8 {
		addrToBuf(addr0, buf[0:3])
		for a, c1, c2 := int(addr0), 5, 31; a <= addr1; a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.cpu.Mem.LoadByte(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(strings.TrimRight(string(buf), " "))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := int(addr0) & 0xff8
	stop := min((addr1+8)&0x1ff8, cpu.MemorySize)

	a := start
	for r := start; r < stop; r += 8 {
		addrToBuf(uint16(a), buf[0:3])
		for c1, c2 := 5, 31; c1 < 28; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= int(addr0) && a <= addr1 {
				m := h.cpu.Mem.LoadByte(uint16(a))
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(strings.TrimRight(string(buf), " "))
	}
}

func (h *Host) displayHelpText(c *cmd.Command) {
	if cm, ok := c.Data.(*command); ok && cm.usage != "" {
		h.printf("Syntax: %s\n", cm.usage)
	} else {
		h.println("<no help text>")
	}
}

// displayCommands lists the commands whose syntax starts with 'prefix'.
func (h *Host) displayCommands(prefix string) {
	if prefix == "" {
		h.println("gochip8 commands:")
	} else {
		h.printf("%s commands:\n", prefix)
	}
	for _, c := range commands {
		if c.brief != "" && strings.HasPrefix(c.usage, prefix) {
			h.printf("    %-15s  %s\n", strings.TrimSpace(strings.TrimPrefix(firstWords(c.usage), prefix)), c.brief)
		}
	}
}
