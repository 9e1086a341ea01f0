package vm

import "retrovm/internal/isa"

// Registers is the register file (§3): eight general registers, two
// scratch registers, a stack pointer, a flag word, and a program counter.
// FG and PC are not directly addressable as instruction operands.
type Registers struct {
	R  [8]uint16
	C  [2]uint16
	SP uint16
	FG uint16
	PC uint16
}

// Ptr returns a pointer to the register addressed by num (0x00..0x0A), or
// nil if num is out of range. Used by mov, which may address any of
// R0..R7, SP, C0, C1.
func (r *Registers) Ptr(num uint16) *uint16 {
	switch {
	case num <= isa.RegR7:
		return &r.R[num]
	case num == isa.RegSP:
		return &r.SP
	case num == isa.RegC0:
		return &r.C[0]
	case num == isa.RegC1:
		return &r.C[1]
	default:
		return nil
	}
}

// TestFlag reports whether bit n of FG is set.
func (r *Registers) TestFlag(n uint8) bool {
	return r.FG&(1<<n) != 0
}

// SetFlag sets bit n of FG.
func (r *Registers) SetFlag(n uint8) {
	r.FG |= 1 << n
}

// ClearFlag clears bit n of FG.
func (r *Registers) ClearFlag(n uint8) {
	r.FG &^= 1 << n
}

// RaiseException sets the FG bit for err if it is one of the recognized
// exception sentinels, reporting whether it recognized the error.
func (r *Registers) RaiseException(err error) bool {
	switch err {
	case ErrIllegalOperand:
		r.FG |= 1 << isa.FlagIOP
	case ErrSegFault:
		r.FG |= 1 << isa.FlagSEG
	case ErrUnaligned:
		r.FG |= 1 << isa.FlagUNA
	default:
		return false
	}
	return true
}
