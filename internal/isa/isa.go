// Package isa is the single shared ground truth for the 16-bit instruction
// encoding used by both the assembler and the virtual machine. Neither side
// may diverge from the bit layout defined here.
package isa

// Register indices. Values above RegC1 never appear in a valid encoding.
const (
	RegR0 = 0x00
	RegR1 = 0x01
	RegR2 = 0x02
	RegR3 = 0x03
	RegR4 = 0x04
	RegR5 = 0x05
	RegR6 = 0x06
	RegR7 = 0x07
	RegSP = 0x08
	RegC0 = 0x09
	RegC1 = 0x0A
)

// Register bank ceilings, per §4.7's per-instruction-class operand range
// policy. A register field is valid for a given class when it is <= the
// class's ceiling.
const (
	CeilArith = RegR7 // arithmetic/bitwise ops: R0..R7 only
	CeilSP    = RegSP // inc/dec, memory address sources, jmp/jnz X: up through SP
	CeilMov   = RegC1 // mov: up through C1
)

// InRange reports whether reg is a legal operand for a class with the given
// ceiling.
func InRange(reg uint16, ceil uint16) bool {
	return reg <= ceil
}

// Class extracts the top opcode nibble (bits 15..12) of a 16-bit word.
func Class(word uint16) uint16 {
	return (word >> 12) & 0xF
}

// Sub extracts the bottom two bits (the sub-opcode selector) of a 16-bit
// word. Every class except ldi is decoded by masking with 0xF003 and
// matching on (Class, Sub); ldi occupies the entire 0x4000..0x4003 class
// range and is decoded by Class alone.
func Sub(word uint16) uint16 {
	return word & 0x3
}

// X extracts the X operand field (bits 11..8).
func X(word uint16) uint16 {
	return (word >> 8) & 0xF
}

// Y extracts the Y operand field (bits 7..4).
func Y(word uint16) uint16 {
	return (word >> 4) & 0xF
}

// Imm8 extracts the low byte, used as the immediate for ldi.
func Imm8(word uint16) uint8 {
	return uint8(word & 0x00FF)
}

// Imm4 extracts the shift/bit-index count carried in bits 7..4.
func Imm4(word uint16) uint8 {
	return uint8((word >> 4) & 0xF)
}

// Opcode classes, masked with 0xF003 (ldi is matched on Class alone).
const (
	ClassNop  = 0x0000
	ClassAnd  = 0x1000
	ClassNot  = 0x1001
	ClassAdd  = 0x2000
	ClassSub  = 0x2001
	ClassInc  = 0x2002
	ClassDec  = 0x2003
	ClassLdb  = 0x3000
	ClassLdw  = 0x3001
	ClassMov  = 0x3002
	ClassLdi  = 0x4000 // whole 0x4000..0x4003 range
	ClassStb  = 0x5000
	ClassStw  = 0x5001
	ClassJmp  = 0x6000
	ClassJnz  = 0x6001
	ClassShr  = 0x7000
	ClassShl  = 0x7001
	ClassTest = 0x8000
	ClassSetf = 0x8001
	ClassClrf = 0x8002
)

// DecodeMask is applied before matching against the Class* constants, except
// for ldi which occupies the whole 0x4000..0x4003 nibble and is recognized
// by testing the top nibble alone.
const DecodeMask = 0xF003

// The Encode* functions below build the exact 16-bit word for each mnemonic.
// They perform no range validation; callers (the emitter's checkX/checkY and
// the VM's per-class register checks) are responsible for enforcing §4.7
// before encoding or after decoding.

func EncodeNop() uint16 { return ClassNop }

func EncodeAnd(x, y uint16) uint16 { return ClassAnd | (x << 8) | (y << 4) }
func EncodeNot(x uint16) uint16    { return ClassNot | (x << 8) }

func EncodeAdd(x, y uint16) uint16 { return ClassAdd | (x << 8) | (y << 4) }
func EncodeSub(x, y uint16) uint16 { return ClassSub | (x << 8) | (y << 4) }
func EncodeInc(x uint16) uint16    { return ClassInc | (x << 8) }
func EncodeDec(x uint16) uint16    { return ClassDec | (x << 8) }

func EncodeLdb(x, y uint16) uint16 { return ClassLdb | (x << 8) | (y << 4) }
func EncodeLdw(x, y uint16) uint16 { return ClassLdw | (x << 8) | (y << 4) }
func EncodeMov(x, y uint16) uint16 { return ClassMov | (x << 8) | (y << 4) }

func EncodeLdi(x uint16, nn uint8) uint16 { return ClassLdi | (x << 8) | uint16(nn) }

func EncodeStb(y, x uint16) uint16 { return ClassStb | (y << 8) | (x << 4) }
func EncodeStw(y, x uint16) uint16 { return ClassStw | (y << 8) | (x << 4) }

func EncodeJmp(x uint16) uint16    { return ClassJmp | (x << 8) }
func EncodeJnz(x, y uint16) uint16 { return ClassJnz | (x << 8) | (y << 4) }

func EncodeShr(x uint16, n uint8) uint16 { return ClassShr | (x << 8) | (uint16(n&0xF) << 4) }
func EncodeShl(x uint16, n uint8) uint16 { return ClassShl | (x << 8) | (uint16(n&0xF) << 4) }

func EncodeTest(n uint8) uint16 { return ClassTest | (uint16(n&0xF) << 8) }
func EncodeSetf(n uint8) uint16 { return ClassSetf | (uint16(n&0xF) << 8) }
func EncodeClrf(n uint8) uint16 { return ClassClrf | (uint16(n&0xF) << 8) }

// Instruction is the decoded form of a 16-bit word: a mnemonic plus the
// operand fields relevant to it. For every word the Encode* functions can
// produce, Instruction.Encode() reproduces the decoded word bit-for-bit,
// which is what §8's `assemble(disassemble(b)) == b` invariant requires.
// Bits that no field of a mnemonic uses (for example bits 7..2 of jmp) are
// ignored by Decode and come back as zero from Encode.
type Instruction struct {
	Mnemonic string
	X, Y     uint16
	Imm      uint8
}

// Decode translates a 16-bit word back into its mnemonic and operand
// fields, the inverse of the Encode* functions. It reports ok=false for a
// word whose class/sub-opcode isn't in the table at all (the VM treats
// that case as either a non-fatal IOP exception or, for an entirely
// unassigned top nibble, a host-level fault — see internal/vm's step).
func Decode(word uint16) (Instruction, bool) {
	if Class(word) == 0x4 { // ldi occupies the whole class, not just two sub-bits
		return Instruction{Mnemonic: "ldi", X: X(word), Imm: Imm8(word)}, true
	}

	switch word & DecodeMask {
	case ClassNop:
		return Instruction{Mnemonic: "nop"}, true
	case ClassAnd:
		return Instruction{Mnemonic: "and", X: X(word), Y: Y(word)}, true
	case ClassNot:
		return Instruction{Mnemonic: "not", X: X(word)}, true
	case ClassAdd:
		return Instruction{Mnemonic: "add", X: X(word), Y: Y(word)}, true
	case ClassSub:
		return Instruction{Mnemonic: "sub", X: X(word), Y: Y(word)}, true
	case ClassInc:
		return Instruction{Mnemonic: "inc", X: X(word)}, true
	case ClassDec:
		return Instruction{Mnemonic: "dec", X: X(word)}, true
	case ClassLdb:
		return Instruction{Mnemonic: "ldb", X: X(word), Y: Y(word)}, true
	case ClassLdw:
		return Instruction{Mnemonic: "ldw", X: X(word), Y: Y(word)}, true
	case ClassMov:
		return Instruction{Mnemonic: "mov", X: X(word), Y: Y(word)}, true
	case ClassStb:
		return Instruction{Mnemonic: "stb", X: X(word), Y: Y(word)}, true
	case ClassStw:
		return Instruction{Mnemonic: "stw", X: X(word), Y: Y(word)}, true
	case ClassJmp:
		return Instruction{Mnemonic: "jmp", X: X(word)}, true
	case ClassJnz:
		return Instruction{Mnemonic: "jnz", X: X(word), Y: Y(word)}, true
	case ClassShr:
		return Instruction{Mnemonic: "shr", X: X(word), Imm: Imm4(word)}, true
	case ClassShl:
		return Instruction{Mnemonic: "shl", X: X(word), Imm: Imm4(word)}, true
	case ClassTest:
		return Instruction{Mnemonic: "test", Imm: uint8(X(word))}, true
	case ClassSetf:
		return Instruction{Mnemonic: "setf", Imm: uint8(X(word))}, true
	case ClassClrf:
		return Instruction{Mnemonic: "clrf", Imm: uint8(X(word))}, true
	default:
		return Instruction{}, false
	}
}

// Encode re-assembles the word Decode produced it from. Calling it on an
// Instruction built by hand rather than by Decode is only meaningful if
// Mnemonic names one of the cases below.
func (i Instruction) Encode() uint16 {
	switch i.Mnemonic {
	case "nop":
		return EncodeNop()
	case "and":
		return EncodeAnd(i.X, i.Y)
	case "not":
		return EncodeNot(i.X)
	case "add":
		return EncodeAdd(i.X, i.Y)
	case "sub":
		return EncodeSub(i.X, i.Y)
	case "inc":
		return EncodeInc(i.X)
	case "dec":
		return EncodeDec(i.X)
	case "ldb":
		return EncodeLdb(i.X, i.Y)
	case "ldw":
		return EncodeLdw(i.X, i.Y)
	case "mov":
		return EncodeMov(i.X, i.Y)
	case "ldi":
		return EncodeLdi(i.X, i.Imm)
	case "stb":
		return EncodeStb(i.X, i.Y)
	case "stw":
		return EncodeStw(i.X, i.Y)
	case "jmp":
		return EncodeJmp(i.X)
	case "jnz":
		return EncodeJnz(i.X, i.Y)
	case "shr":
		return EncodeShr(i.X, i.Imm)
	case "shl":
		return EncodeShl(i.X, i.Imm)
	case "test":
		return EncodeTest(i.Imm)
	case "setf":
		return EncodeSetf(i.Imm)
	case "clrf":
		return EncodeClrf(i.Imm)
	default:
		return 0
	}
}

// Exception flag bit positions in FG (§4.6, §7).
const (
	FlagIOP = 15 // illegal operand field or unrecognized sub-opcode
	FlagSEG = 14 // memory address out of range
	FlagUNA = 13 // odd jump target
)
