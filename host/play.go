// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"io"
	"strings"
	"time"

	"github.com/beevik/cmd"
	"github.com/beevik/gochip8/cpu"
	"github.com/beevik/term"
	"github.com/cespare/xxhash"
)

// ANSI sequences used by play mode
const (
	ansiClear      = "\x1b[2J"
	ansiHome       = "\x1b[H"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
	bell           = "\a"
)

func (h *Host) cmdPlay(c cmd.Selection) error {
	fd := int(h.keyInput.Fd())
	if !h.interactive || !term.IsTerminal(fd) {
		h.println("Play mode requires an interactive terminal.")
		return nil
	}

	state, err := term.MakeRawInput(fd)
	if err != nil {
		h.printf("Failed to enter raw mode: %v\n", err)
		return nil
	}
	defer term.Restore(fd, state)

	keys := make(chan byte, 16)
	go readKeys(h.keyInput, keys)

	ticker := time.NewTicker(time.Second / time.Duration(h.settings.TimerRate))
	defer ticker.Stop()

	err = h.play(keys, ticker.C)
	if err != nil {
		h.reportHalt(err)
		h.println("Press q to return.")
		for range keys {
		}
	}

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

// readKeys forwards bytes from 'r' until a quit key is read or the reader
// fails, then closes 'keys'.
func readKeys(r io.Reader, keys chan<- byte) {
	defer close(keys)
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		keys <- b[0]
		if isQuitKey(b[0]) {
			return
		}
	}
}

func isQuitKey(c byte) bool {
	switch c {
	case 'q', 'Q', 0x1b, 0x03:
		return true
	default:
		return false
	}
}

// play runs the machine against frame times received on 'frames',
// pressing keypad keys as characters arrive on 'keys'. Each press is held
// for KeyHoldMillis, since a terminal reports no key releases. It returns
// when a quit key arrives or 'keys' is closed, or with the error that
// halted the machine.
func (h *Host) play(keys <-chan byte, frames <-chan time.Time) error {
	var (
		last    time.Time
		release [cpu.NumKeys]time.Time
		held    [cpu.NumKeys]bool
		beeping bool
	)
	hold := time.Duration(h.settings.KeyHoldMillis) * time.Millisecond

	h.lastFrame = 0
	h.print(ansiClear + ansiHideCursor)
	defer func() {
		h.print(ansiShowCursor + "\r\n")
		h.flush()
	}()

	for {
		select {
		case b, ok := <-keys:
			if !ok || isQuitKey(b) {
				return nil
			}
			if k, ok := keyFromChar(b); ok {
				h.cpu.SetKey(k, true)
				held[k], release[k] = true, time.Time{}
			}

		case now := <-frames:
			if last.IsZero() {
				last = now
			}
			if err := h.advance(now.Sub(last)); err != nil {
				return err
			}
			last = now

			// A key's hold time starts at the first frame that saw it.
			for k := range held {
				switch {
				case !held[k]:
				case release[k].IsZero():
					release[k] = now.Add(hold)
				case !now.Before(release[k]):
					h.cpu.SetKey(byte(k), false)
					held[k] = false
				}
			}

			h.drawFrame()
			sound := h.cpu.SoundActive()
			if sound && !beeping {
				h.print(bell)
			}
			beeping = sound
			h.flush()
		}
	}
}

// drawFrame repaints the terminal if the framebuffer changed since the
// last frame. Each pixel is two characters wide so the screen keeps its
// aspect ratio.
func (h *Host) drawFrame() {
	d := h.cpu.ReadDisplay()
	hash := xxhash.Sum64(d.Cells())
	if hash == h.lastFrame {
		return
	}
	h.lastFrame = hash

	var sb strings.Builder
	d.Render(&sb, "██", "  ")
	h.print(ansiHome + strings.ReplaceAll(sb.String(), "\n", "\r\n"))
}
