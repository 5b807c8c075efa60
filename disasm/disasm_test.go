package disasm_test

import (
	"strings"
	"testing"

	"github.com/beevik/gochip8/cpu"
	"github.com/beevik/gochip8/disasm"
	"github.com/retroenv/retrogolib/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		word uint16
		want string
	}{
		{0x00e0, "CLS"},
		{0x00ee, "RET"},
		{0x1234, "JP $234"},
		{0x2300, "CALL $300"},
		{0x3234, "SE V2, $34"},
		{0x6a0f, "LD VA, $0F"},
		{0x7101, "ADD V1, $01"},
		{0xa2f0, "LD I, $2F0"},
		{0xd125, "DRW V1, V2, 5"},
		{0xf355, "LD [I], V3"},
		{0xf265, "LD V2, [I]"},
		{0x8128, "DW $8128"},
		{0x5121, "DW $5121"},
		{0xe0ff, "DW $E0FF"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, disasm.Format(cpu.Decode(tt.word)))
	}
}

func TestDisassemble(t *testing.T) {
	var m cpu.Memory
	assert.NoError(t, m.StoreBytes(0x200, []byte{0x00, 0xe0, 0x12, 0x00}))

	line, next := disasm.Disassemble(&m, 0x200)
	assert.Equal(t, "CLS", line)
	assert.Equal(t, uint16(0x202), next)

	line, next = disasm.Disassemble(&m, next)
	assert.Equal(t, "JP $200", line)
	assert.Equal(t, uint16(0x204), next)

	line, next = disasm.Disassemble(&m, 0xfff)
	assert.Equal(t, "", line)
	assert.Equal(t, uint16(0x1001), next)
}

func TestGetRegisterString(t *testing.T) {
	var r cpu.Registers
	r.V[0xa] = 0x5c
	r.I = 0x123
	r.PC = 0x200
	r.SP = 2

	s := disasm.GetRegisterString(&r)
	assert.True(t, strings.HasPrefix(s, "V0=00 V1=00"))
	assert.Contains(t, s, "VA=5C")
	assert.Contains(t, s, "I=123 PC=200 SP=02 DT=00 ST=00")
}

func TestIsSkip(t *testing.T) {
	assert.True(t, disasm.IsSkip(cpu.Decode(0x3142)))
	assert.True(t, disasm.IsSkip(cpu.Decode(0x4142)))
	assert.True(t, disasm.IsSkip(cpu.Decode(0xe19e)))
	assert.True(t, disasm.IsSkip(cpu.Decode(0xe1a1)))
	assert.False(t, disasm.IsSkip(cpu.Decode(0x1200)))
	assert.False(t, disasm.IsSkip(cpu.Decode(0xa200)))
	assert.False(t, disasm.IsSkip(cpu.Decode(0xe1a2)))
}
