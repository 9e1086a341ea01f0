package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAssembleDisassembleRoundTrip exercises §8's universal invariant,
// `assemble(disassemble(b)) == b`, for one representative word per
// mnemonic: Decode must recover the mnemonic, and re-Encode-ing what it
// recovered must reproduce the original word bit-for-bit.
func TestAssembleDisassembleRoundTrip(t *testing.T) {
	words := []uint16{
		EncodeNop(),
		EncodeAnd(3, 4),
		EncodeNot(5),
		EncodeAdd(1, 2),
		EncodeSub(1, 2),
		EncodeInc(RegSP),
		EncodeDec(RegSP),
		EncodeLdb(2, RegSP),
		EncodeLdw(2, RegSP),
		EncodeMov(RegC0, RegC1),
		EncodeLdi(2, 0xAD),
		EncodeStb(RegSP, 3),
		EncodeStw(RegSP, 3),
		EncodeJmp(RegSP),
		EncodeJnz(RegSP, 0),
		EncodeShr(0, 3),
		EncodeShl(0, 3),
		EncodeTest(13),
		EncodeSetf(13),
		EncodeClrf(13),
	}

	for _, word := range words {
		instr, ok := Decode(word)
		assert.True(t, ok, "word %04X did not decode", word)
		assert.Equal(t, word, instr.Encode(), "%s: re-encoding %04X did not round-trip", instr.Mnemonic, word)
	}
}

func TestDecodeReportsMnemonic(t *testing.T) {
	instr, ok := Decode(EncodeAdd(5, 6))
	assert.True(t, ok)
	assert.Equal(t, "add", instr.Mnemonic)
	assert.Equal(t, uint16(5), instr.X)
	assert.Equal(t, uint16(6), instr.Y)
}

func TestDecodeRejectsReservedSubOpcode(t *testing.T) {
	// Class 0x1 (and/not) only assigns sub-opcodes 0 and 1; 2 and 3 are
	// reserved and must not decode to anything.
	_, ok := Decode(0x1002)
	assert.False(t, ok)
}

func TestEncodeLdiOccupiesWholeClass(t *testing.T) {
	word := EncodeLdi(2, 0xAD)
	assert.Equal(t, uint16(0x4), Class(word))
	assert.Equal(t, uint16(2), X(word))
	assert.Equal(t, uint8(0xAD), Imm8(word))
}

func TestFieldExtractors(t *testing.T) {
	word := EncodeAdd(5, 6)
	assert.Equal(t, uint16(5), X(word))
	assert.Equal(t, uint16(6), Y(word))
}

func TestStbCarriesYInXFieldAndXInYField(t *testing.T) {
	word := EncodeStb(RegSP, 7)
	assert.Equal(t, uint16(RegSP), X(word))
	assert.Equal(t, uint16(7), Y(word))
}

func TestShiftImmediateInYField(t *testing.T) {
	word := EncodeShr(1, 9)
	assert.Equal(t, uint8(9), Imm4(word))
}

func TestTestSetfClrfImmediateInXField(t *testing.T) {
	word := EncodeTest(13)
	assert.Equal(t, uint16(13), X(word))
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(RegR7, CeilArith))
	assert.False(t, InRange(RegSP, CeilArith))
	assert.True(t, InRange(RegSP, CeilSP))
	assert.True(t, InRange(RegC1, CeilMov))
}
