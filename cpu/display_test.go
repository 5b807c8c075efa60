package cpu_test

import (
	"strings"
	"testing"

	"github.com/beevik/gochip8/cpu"
	"github.com/retroenv/retrogolib/assert"
)

func TestDisplayDraw(t *testing.T) {
	var d cpu.Display

	assert.False(t, d.Draw(10, 5, []byte{0xc0}))
	assert.Equal(t, byte(1), d.At(10, 5))
	assert.Equal(t, byte(1), d.At(11, 5))
	assert.Equal(t, 2, d.Lit())

	assert.True(t, d.Draw(11, 5, []byte{0x80}))
	assert.Equal(t, byte(0), d.At(11, 5))
	assert.Equal(t, 1, d.Lit())
}

func TestDisplayWrap(t *testing.T) {
	var d cpu.Display
	d.Draw(63, 31, []byte{0xc0, 0xc0})

	assert.Equal(t, byte(1), d.At(63, 31))
	assert.Equal(t, byte(1), d.At(0, 31))
	assert.Equal(t, byte(1), d.At(63, 0))
	assert.Equal(t, byte(1), d.At(0, 0))
	assert.Equal(t, byte(1), d.At(64, 32))
}

func TestDisplayCellsCopy(t *testing.T) {
	var d cpu.Display
	d.Draw(0, 0, []byte{0x80})

	cells := d.Cells()
	assert.Equal(t, cpu.DisplayWidth*cpu.DisplayHeight, len(cells))
	assert.Equal(t, byte(1), cells[0])

	cells[0] = 0
	assert.Equal(t, byte(1), d.At(0, 0))
}

func TestDisplayRender(t *testing.T) {
	var d cpu.Display
	d.Draw(1, 0, []byte{0xa0})

	var sb strings.Builder
	assert.NoError(t, d.Render(&sb, "#", "."))

	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	assert.Equal(t, cpu.DisplayHeight, len(lines))
	assert.Equal(t, ".#.#"+strings.Repeat(".", cpu.DisplayWidth-4), lines[0])
	assert.Equal(t, strings.Repeat(".", cpu.DisplayWidth), lines[1])
	assert.Equal(t, sb.String(), d.String())
}
