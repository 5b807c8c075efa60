package cpu

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeypadEdge(t *testing.T) {
	var k Keypad
	assert.NoError(t, k.Set(5, true))
	assert.NoError(t, k.Set(9, true))

	key, ok := k.consumeAny()
	assert.True(t, ok)
	assert.Equal(t, byte(5), key)
	assert.False(t, k.Peek(5))

	key, ok = k.consumeAny()
	assert.True(t, ok)
	assert.Equal(t, byte(9), key)

	_, ok = k.consumeAny()
	assert.False(t, ok)
}

func TestKeypadLevel(t *testing.T) {
	k := Keypad{Mode: LevelTriggered}
	assert.NoError(t, k.Set(0xf, true))
	assert.True(t, k.consume(0xf))
	assert.True(t, k.consume(0xf))

	assert.NoError(t, k.Set(0xf, false))
	assert.False(t, k.consume(0xf))
}

func TestKeypadBounds(t *testing.T) {
	var k Keypad
	assert.Error(t, k.Set(NumKeys, true))
	assert.False(t, k.Peek(0xff))

	k.Set(1, true)
	k.Reset()
	assert.False(t, k.Peek(1))
}

func TestParseKeyMode(t *testing.T) {
	m, err := ParseKeyMode("level")
	assert.NoError(t, err)
	assert.Equal(t, LevelTriggered, m)
	assert.Equal(t, "level", m.String())

	m, err = ParseKeyMode("edge")
	assert.NoError(t, err)
	assert.Equal(t, EdgeTriggered, m)

	_, err = ParseKeyMode("sticky")
	assert.Error(t, err)
}
