package asm

// Kind discriminates the Token tagged union (§3). Go has no sum types, so a
// single discriminant tag plus a flat payload stands in for one — never an
// interface hierarchy per instruction/directive variant.
type Kind int

const (
	KindLabel Kind = iota
	KindShort
	KindAddr
	KindNop
	KindAnd
	KindNot
	KindAdd
	KindSub
	KindInc
	KindDec
	KindLdb
	KindLdw
	KindMov
	KindLdi
	KindStb
	KindStw
	KindJmp
	KindJnz
	KindShr
	KindShl
	KindTest
	KindSetf
	KindClrf
	KindPush
	KindPop
	KindLdl
	KindCall
	KindCallf
	KindRet
)

// Token is the tagged union produced by the tokenizer and consumed by the
// emitter. Only the fields relevant to Kind are meaningful; X/Y/Imm double
// up across variants the way the source's enum payloads do.
type Token struct {
	Kind Kind

	// Label / Ldl target identity, or Short's raw integer payload.
	ID uint64
	// Short/Ldl: whether ID must be resolved through the label table.
	IsRef bool

	// Address: Label's resolved address, Addr's origin, Call/Callf's
	// precomputed return address.
	Addr uint16

	// Source is the original label text, carried alongside Label's ID so
	// the emitter can reject two distinct strings that hash identically
	// (§9's collision-detection courtesy).
	Source string

	X, Y uint16 // register operand fields
	Imm  uint8  // ldi/shr/shl/test/setf/clrf immediate or bit index
}
