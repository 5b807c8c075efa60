package cpu_test

import (
	"testing"
	"time"

	"github.com/beevik/gochip8/cpu"
	"github.com/retroenv/retrogolib/assert"
)

func TestClockPeriod(t *testing.T) {
	c := cpu.NewClock(300)
	assert.Equal(t, time.Second/300, c.Period())

	c = cpu.NewClock(0)
	assert.Equal(t, time.Second, c.Period())
}

func TestClockCarriesRemainder(t *testing.T) {
	c := cpu.NewClock(cpu.TimerRate)

	n := 0
	for i := 0; i < 1000; i++ {
		n += c.Advance(time.Millisecond)
	}
	assert.Equal(t, 60, n)
	assert.True(t, c.Elapsed() < c.Period())
}

func TestClockIgnoresNegative(t *testing.T) {
	c := cpu.NewClock(1000)
	assert.Equal(t, 0, c.Advance(-time.Second))
	assert.Equal(t, time.Duration(0), c.Elapsed())

	assert.Equal(t, 3, c.Advance(3500*time.Microsecond))
	assert.Equal(t, 500*time.Microsecond, c.Elapsed())

	c.Reset()
	assert.Equal(t, time.Duration(0), c.Elapsed())
	assert.False(t, c.Next())
}
