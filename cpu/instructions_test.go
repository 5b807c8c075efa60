package cpu_test

import (
	"testing"

	"github.com/beevik/gochip8/cpu"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		word uint16
		op   cpu.Op
		name string
	}{
		{0x00e0, cpu.OpCLS, "CLS"},
		{0x00ee, cpu.OpRET, "RET"},
		{0x0123, cpu.OpSYS, "SYS"},
		{0x0000, cpu.OpSYS, "SYS"},
		{0x1abc, cpu.OpJP, "JP"},
		{0x2abc, cpu.OpCALL, "CALL"},
		{0x3142, cpu.OpSE, "SE"},
		{0x4142, cpu.OpSNE, "SNE"},
		{0x5120, cpu.OpSEV, "SE"},
		{0x5121, cpu.OpUnknown, "???"},
		{0x6142, cpu.OpLD, "LD"},
		{0x7142, cpu.OpADD, "ADD"},
		{0x8120, cpu.OpLDV, "LD"},
		{0x8121, cpu.OpOR, "OR"},
		{0x8122, cpu.OpAND, "AND"},
		{0x8123, cpu.OpXOR, "XOR"},
		{0x8124, cpu.OpADDV, "ADD"},
		{0x8125, cpu.OpSUB, "SUB"},
		{0x8126, cpu.OpSHR, "SHR"},
		{0x8127, cpu.OpSUBN, "SUBN"},
		{0x8128, cpu.OpUnknown, "???"},
		{0x812e, cpu.OpSHL, "SHL"},
		{0x9120, cpu.OpSNEV, "SNE"},
		{0x9121, cpu.OpUnknown, "???"},
		{0xa123, cpu.OpLDI, "LD"},
		{0xb123, cpu.OpJPV0, "JP"},
		{0xc1ff, cpu.OpRND, "RND"},
		{0xd125, cpu.OpDRW, "DRW"},
		{0xe19e, cpu.OpSKP, "SKP"},
		{0xe1a1, cpu.OpSKNP, "SKNP"},
		{0xe1a2, cpu.OpUnknown, "???"},
		{0xf107, cpu.OpLDVDT, "LD"},
		{0xf10a, cpu.OpLDK, "LD"},
		{0xf115, cpu.OpLDDT, "LD"},
		{0xf118, cpu.OpLDST, "LD"},
		{0xf11e, cpu.OpADDI, "ADD"},
		{0xf129, cpu.OpLDF, "LD"},
		{0xf133, cpu.OpLDB, "LD"},
		{0xf155, cpu.OpSTM, "LD"},
		{0xf165, cpu.OpLDM, "LD"},
		{0xf166, cpu.OpUnknown, "???"},
	}

	for _, tt := range tests {
		inst := cpu.Decode(tt.word)
		if inst.Op != tt.op {
			t.Errorf("Decode($%04X) op incorrect. exp: %d, got: %d", tt.word, tt.op, inst.Op)
		}
		assert.Equal(t, tt.name, inst.Name())
	}
}

func TestDecodeFields(t *testing.T) {
	inst := cpu.Decode(0xd4a7)
	assert.Equal(t, uint16(0xd4a7), inst.Word)
	assert.Equal(t, byte(0xd), inst.Family)
	assert.Equal(t, byte(0x4), inst.X)
	assert.Equal(t, byte(0xa), inst.Y)
	assert.Equal(t, byte(0x7), inst.N)
	assert.Equal(t, byte(0xa7), inst.KK)
	assert.Equal(t, uint16(0x4a7), inst.NNN)
}

func TestDecodeIsTotal(t *testing.T) {
	for w := 0; w <= 0xffff; w++ {
		inst := cpu.Decode(uint16(w))
		if inst.Name() == "" {
			t.Fatalf("Decode($%04X) produced an unnamed op", w)
		}
		if inst.Family != byte(w>>12) {
			t.Fatalf("Decode($%04X) family incorrect", w)
		}
	}
}
