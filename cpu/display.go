// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"io"
	"strings"
)

// Display dimensions in pixels
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Display is the monochrome framebuffer. Each cell holds 0 or 1.
type Display struct {
	cells [DisplayWidth * DisplayHeight]byte
}

// At returns the pixel at column x, row y. Coordinates wrap around the
// edges of the screen.
func (d *Display) At(x, y int) byte {
	return d.cells[index(x, y)]
}

// Cells returns a copy of the framebuffer in row-major order.
func (d *Display) Cells() []byte {
	c := make([]byte, len(d.cells))
	copy(c, d.cells[:])
	return c
}

// Lit returns the number of pixels that are on.
func (d *Display) Lit() int {
	n := 0
	for _, c := range d.cells {
		n += int(c)
	}
	return n
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.cells = [DisplayWidth * DisplayHeight]byte{}
}

// Draw XORs an 8-pixel-wide sprite onto the screen with its top-left corner
// at (x, y). Pixels that fall off an edge wrap to the opposite edge. It
// returns true if any pixel anywhere in the sprite was turned off.
func (d *Display) Draw(x, y byte, sprite []byte) (collision bool) {
	for row, bits := range sprite {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			i := index(int(x)+col, int(y)+row)
			if d.cells[i] == 1 {
				collision = true
			}
			d.cells[i] ^= 1
		}
	}
	return collision
}

// Render writes the framebuffer as text, one line per row, using 'on' and
// 'off' for each pixel.
func (d *Display) Render(w io.Writer, on, off string) error {
	var sb strings.Builder
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			if d.cells[y*DisplayWidth+x] != 0 {
				sb.WriteString(on)
			} else {
				sb.WriteString(off)
			}
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (d *Display) String() string {
	var sb strings.Builder
	d.Render(&sb, "#", ".")
	return sb.String()
}

func index(x, y int) int {
	x &= DisplayWidth - 1
	y &= DisplayHeight - 1
	return y*DisplayWidth + x
}
