package asm

import (
	"fmt"

	"retrovm/internal/isa"
)

// LabelTable maps a label's hash identity to its resolved address,
// populated in full before any byte is emitted (§3's "label table is fully
// populated before any byte emission").
type LabelTable struct {
	addr   map[uint64]uint16
	source map[uint64]string // optional collision-detection courtesy (§9)
}

// CollectLabels walks the token stream once and builds the label table,
// failing fatally on a duplicate id (whether from the same label text
// twice, or two distinct texts colliding under the hash).
func CollectLabels(tokens []Token) *LabelTable {
	lt := &LabelTable{addr: make(map[uint64]uint16), source: make(map[uint64]string)}
	for _, tok := range tokens {
		if tok.Kind != KindLabel {
			continue
		}
		if prior, dup := lt.source[tok.ID]; dup {
			if prior == tok.Source {
				Fatalf("Duplicate label `%s`", tok.Source)
			}
			Fatalf("Labels `%s` and `%s` collide under the label hash `%016X`", prior, tok.Source, tok.ID)
		}
		lt.addr[tok.ID] = tok.Addr
		lt.source[tok.ID] = tok.Source
	}
	return lt
}

// Resolve resolves an id to an address, fatal if unknown. This replaces the
// source's raw-truncated-u64 fallback (§4.4, §9) with explicit failure.
func (lt *LabelTable) Resolve(id uint64) uint16 {
	a, ok := lt.addr[id]
	if !ok {
		Fatalf("Label with id %016X not found", id)
	}
	return a
}

func checkX(line int, x, ceil uint16) {
	if !isa.InRange(x, ceil) {
		Fatalf("Error @ line %d: X register out of range.", line)
	}
}

func checkY(line int, y, ceil uint16) {
	if !isa.InRange(y, ceil) {
		Fatalf("Error @ line %d: Y register out of range.", line)
	}
}

// Emit walks the token stream and produces the byte image (pass 2).
func Emit(tokens []Token) *Executable {
	exec := NewExecutable()
	labels := CollectLabels(tokens)

	for line, tok := range tokens {
		switch tok.Kind {
		case KindLabel:
			// no emission; address already recorded by CollectLabels
		case KindShort:
			if tok.IsRef {
				exec.PushShort(labels.Resolve(tok.ID))
			} else {
				exec.PushShort(uint16(tok.ID))
			}
		case KindAddr:
			exec.SetAddress(tok.Addr)
		case KindNop:
			exec.PushShort(isa.EncodeNop())
		case KindAnd:
			checkX(line, tok.X, isa.CeilArith)
			checkY(line, tok.Y, isa.CeilArith)
			exec.PushShort(isa.EncodeAnd(tok.X, tok.Y))
		case KindNot:
			checkX(line, tok.X, isa.CeilArith)
			exec.PushShort(isa.EncodeNot(tok.X))
		case KindAdd:
			checkX(line, tok.X, isa.CeilArith)
			checkY(line, tok.Y, isa.CeilArith)
			exec.PushShort(isa.EncodeAdd(tok.X, tok.Y))
		case KindSub:
			checkX(line, tok.X, isa.CeilArith)
			checkY(line, tok.Y, isa.CeilArith)
			exec.PushShort(isa.EncodeSub(tok.X, tok.Y))
		case KindInc:
			checkX(line, tok.X, isa.CeilSP)
			exec.PushShort(isa.EncodeInc(tok.X))
		case KindDec:
			checkX(line, tok.X, isa.CeilSP)
			exec.PushShort(isa.EncodeDec(tok.X))
		case KindLdb:
			checkX(line, tok.X, isa.CeilArith)
			checkY(line, tok.Y, isa.CeilSP)
			exec.PushShort(isa.EncodeLdb(tok.X, tok.Y))
		case KindLdw:
			checkX(line, tok.X, isa.CeilArith)
			checkY(line, tok.Y, isa.CeilSP)
			exec.PushShort(isa.EncodeLdw(tok.X, tok.Y))
		case KindMov:
			checkX(line, tok.X, isa.CeilMov)
			checkY(line, tok.Y, isa.CeilMov)
			exec.PushShort(isa.EncodeMov(tok.X, tok.Y))
		case KindLdi:
			checkX(line, tok.X, isa.CeilArith)
			exec.PushShort(isa.EncodeLdi(tok.X, tok.Imm))
		case KindStb:
			checkY(line, tok.Y, isa.CeilSP)
			checkX(line, tok.X, isa.CeilArith)
			exec.PushShort(isa.EncodeStb(tok.Y, tok.X))
		case KindStw:
			checkY(line, tok.Y, isa.CeilSP)
			checkX(line, tok.X, isa.CeilArith)
			exec.PushShort(isa.EncodeStw(tok.Y, tok.X))
		case KindJmp:
			checkX(line, tok.X, isa.CeilSP)
			exec.PushShort(isa.EncodeJmp(tok.X))
		case KindJnz:
			checkX(line, tok.X, isa.CeilSP)
			checkY(line, tok.Y, isa.CeilArith)
			exec.PushShort(isa.EncodeJnz(tok.X, tok.Y))
		case KindShr:
			checkX(line, tok.X, isa.CeilArith)
			exec.PushShort(isa.EncodeShr(tok.X, tok.Imm))
		case KindShl:
			checkX(line, tok.X, isa.CeilArith)
			exec.PushShort(isa.EncodeShl(tok.X, tok.Imm))
		case KindTest:
			exec.PushShort(isa.EncodeTest(tok.Imm))
		case KindSetf:
			exec.PushShort(isa.EncodeSetf(tok.Imm))
		case KindClrf:
			exec.PushShort(isa.EncodeClrf(tok.Imm))

		case KindPush:
			checkX(line, tok.X, isa.CeilArith)
			emitPush(exec, tok.X)
		case KindPop:
			checkX(line, tok.X, isa.CeilArith)
			emitPop(exec, tok.X)
		case KindLdl:
			var a uint16
			if tok.IsRef {
				a = labels.Resolve(tok.ID)
			} else {
				a = uint16(tok.ID)
			}
			emitLdl(exec, tok.X, a)
		case KindCall:
			checkX(line, tok.X, isa.CeilArith)
			emitCall(exec, tok.X, tok.Addr)
		case KindCallf:
			checkX(line, tok.X, isa.CeilSP)
			checkY(line, tok.Y, isa.CeilArith)
			if tok.X == tok.Y {
				Fatalf("CALLF: register X cannot be the same as register Y")
			}
			emitCallf(exec, tok.X, tok.Y, tok.Addr)
		case KindRet:
			checkX(line, tok.X, isa.CeilArith)
			emitRet(exec, tok.X)

		default:
			panic(fmt.Sprintf("unhandled token kind %d", tok.Kind))
		}
	}
	return exec
}

// emitDecSP, emitIncSP, emitStwSPX, emitLdwXSP, emitLdlWord, and emitJmpX
// are the individual native words the pseudo-instructions below lower to,
// expressed through isa.Encode* rather than hand-packed hex so the bit
// layout has exactly one source of truth (§4.1).

func emitDecSP(exec *Executable)            { exec.PushShort(isa.EncodeDec(isa.RegSP)) }
func emitIncSP(exec *Executable)            { exec.PushShort(isa.EncodeInc(isa.RegSP)) }
func emitStwSPX(exec *Executable, x uint16) { exec.PushShort(isa.EncodeStw(isa.RegSP, x)) }
func emitLdwXSP(exec *Executable, x uint16) { exec.PushShort(isa.EncodeLdw(x, isa.RegSP)) }
func emitJmpX(exec *Executable, x uint16)   { exec.PushShort(isa.EncodeJmp(x)) }

// emitLdlWord lowers the `ldi x,hi; shl x,#8; ldi x,lo` triple that loads
// the 16-bit value a into register x, shared by `ldl`, `call`, and `callf`.
func emitLdlWord(exec *Executable, x, a uint16) {
	exec.PushShort(isa.EncodeLdi(x, uint8((a&0xFF00)>>8)))
	exec.PushShort(isa.EncodeShl(x, 8))
	exec.PushShort(isa.EncodeLdi(x, uint8(a&0x00FF)))
}

// emitPush lowers `push x` to dec sp; dec sp; stw sp,x (6 bytes).
func emitPush(exec *Executable, x uint16) {
	emitDecSP(exec)
	emitDecSP(exec)
	emitStwSPX(exec, x)
}

// emitPop lowers `pop x` to ldw x,sp; inc sp; inc sp (6 bytes).
func emitPop(exec *Executable, x uint16) {
	emitLdwXSP(exec, x)
	emitIncSP(exec)
	emitIncSP(exec)
}

// emitLdl lowers `ldl x, a` to ldi x,hi; shl x,#8; ldi x,lo (6 bytes).
func emitLdl(exec *Executable, x, a uint16) {
	emitLdlWord(exec, x, a)
}

// emitCall lowers `call x` to a 17-word sequence (34 bytes): four dec sp
// reserve two stack words; x (the call target) is saved in the lower word;
// the return address a is loaded into x and stored in the upper word; x is
// reloaded from the lower word, which is then released, leaving the return
// address on top of the stack; finally jmp x enters the callee.
func emitCall(exec *Executable, x uint16, a uint16) {
	emitDecSP(exec)
	emitDecSP(exec)
	emitDecSP(exec)
	emitDecSP(exec)
	emitStwSPX(exec, x)
	emitIncSP(exec)
	emitIncSP(exec)
	emitLdlWord(exec, x, a)
	emitStwSPX(exec, x)
	emitDecSP(exec)
	emitDecSP(exec)
	emitLdwXSP(exec, x)
	emitIncSP(exec)
	emitIncSP(exec)
	emitJmpX(exec, x)
}

// emitCallf lowers `callf x,y` to `ldl y,return; push y; jmp x` (7 words,
// 14 bytes). x must not equal y (checked by the caller).
func emitCallf(exec *Executable, x, y uint16, a uint16) {
	emitLdlWord(exec, y, a)
	emitDecSP(exec)
	emitDecSP(exec)
	emitStwSPX(exec, y)
	emitJmpX(exec, x)
}

// emitRet lowers `ret x` to ldw x,sp; inc sp; inc sp; jmp x (4 words, 8 bytes).
func emitRet(exec *Executable, x uint16) {
	emitLdwXSP(exec, x)
	emitIncSP(exec)
	emitIncSP(exec)
	emitJmpX(exec, x)
}
