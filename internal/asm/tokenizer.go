package asm

import (
	"strconv"
	"strings"
)

// TrampolineSize is the fixed 8-byte prelude reserved at address 0 when the
// assembler is run with --trampoline: an ldl r0,<entry> followed by jmp r0.
const TrampolineSize = 8

// Tokenizer runs pass 1: it classifies each line and produces a Token
// stream while tracking the cursor address that pass 2 will later need to
// reproduce exactly.
type Tokenizer struct {
	entry      string
	trampoline bool
	address    uint32
}

// NewTokenizer creates a pass-1 tokenizer for the given entry label name.
func NewTokenizer(entry string) *Tokenizer {
	return &Tokenizer{entry: entry}
}

// EnableTrampoline reserves the 8-byte trampoline region at the front of
// the address space before any lines are tokenized.
func (t *Tokenizer) EnableTrampoline() {
	t.trampoline = true
	t.address += TrampolineSize
}

// Tokenize classifies every line and returns the resulting token stream.
// Lines must already be trimmed and non-blank: file reading, blank-line
// filtering, and the ASCII check happen before this call, in ReadLines.
func (t *Tokenizer) Tokenize(lines []string) []Token {
	tokens := make([]Token, 0, len(lines))
	for _, line := range lines {
		if t.address >= 0xFFFF {
			Fatalf("Exceeded maximum binary size! Fault line: `%s`.", line)
		}
		tokens = append(tokens, t.genToken(line))
	}
	if t.trampoline {
		id := LabelID(t.entry)
		prelude := []Token{
			{Kind: KindLdl, X: 0, ID: id, IsRef: true},
			{Kind: KindJmp, X: 0},
		}
		tokens = append(prelude, tokens...)
	}
	return tokens
}

func (t *Tokenizer) genToken(rawLine string) Token {
	head, tail, hasTail := splitOnce(rawLine)
	if strings.HasPrefix(head, ".") && tail != "" {
		return t.genDirectiveToken(head, tail)
	}
	if strings.HasSuffix(head, ":") && (!hasTail || tail == "") {
		return t.genLabelToken(head)
	}
	return t.genInstructionToken(head, tail)
}

func splitOnce(line string) (head, tail string, hasTail bool) {
	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		return line, "", false
	}
	return line[:idx], strings.ReplaceAll(line[idx+1:], " ", ""), true
}

func splitArgs(tail string) []string {
	if tail == "" {
		return []string{""}
	}
	return strings.Split(tail, ",")
}

func assertArity(mnemonic string, args []string, want int) {
	n := len(args)
	if want == 0 {
		if n > 1 || args[0] != "" {
			Fatalf("Too many arguments for assembler instruction `%s`.", mnemonic)
		}
		return
	}
	if n > want {
		Fatalf("Too many arguments for assembler instruction `%s`.", mnemonic)
	} else if n < want {
		Fatalf("Not enough arguments for assembler instruction `%s`.", mnemonic)
	}
}

func (t *Tokenizer) genInstructionToken(mnemonic, tail string) Token {
	args := splitArgs(tail)
	t.address += 2
	switch mnemonic {
	case "nop":
		assertArity(mnemonic, args, 0)
		return Token{Kind: KindNop}
	case "and":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindAnd, X: RegNameToNum(args[0]), Y: RegNameToNum(args[1])}
	case "not":
		assertArity(mnemonic, args, 1)
		return Token{Kind: KindNot, X: RegNameToNum(args[0])}
	case "add":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindAdd, X: RegNameToNum(args[0]), Y: RegNameToNum(args[1])}
	case "sub":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindSub, X: RegNameToNum(args[0]), Y: RegNameToNum(args[1])}
	case "inc":
		assertArity(mnemonic, args, 1)
		return Token{Kind: KindInc, X: RegNameToNum(args[0])}
	case "dec":
		assertArity(mnemonic, args, 1)
		return Token{Kind: KindDec, X: RegNameToNum(args[0])}
	case "ldb":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindLdb, X: RegNameToNum(args[0]), Y: RegNameToNum(args[1])}
	case "ldw":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindLdw, X: RegNameToNum(args[0]), Y: RegNameToNum(args[1])}
	case "mov":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindMov, X: RegNameToNum(args[0]), Y: RegNameToNum(args[1])}
	case "ldi":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindLdi, X: RegNameToNum(args[0]), Imm: ParseImm8(args[1])}
	case "stb":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindStb, Y: RegNameToNum(args[0]), X: RegNameToNum(args[1])}
	case "stw":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindStw, Y: RegNameToNum(args[0]), X: RegNameToNum(args[1])}
	case "jmp":
		assertArity(mnemonic, args, 1)
		return Token{Kind: KindJmp, X: RegNameToNum(args[0])}
	case "jnz":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindJnz, X: RegNameToNum(args[0]), Y: RegNameToNum(args[1])}
	case "shr":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindShr, X: RegNameToNum(args[0]), Imm: ParseIntFromString(args[1])}
	case "shl":
		assertArity(mnemonic, args, 2)
		return Token{Kind: KindShl, X: RegNameToNum(args[0]), Imm: ParseIntFromString(args[1])}
	case "test":
		assertArity(mnemonic, args, 1)
		return Token{Kind: KindTest, Imm: ParseIntFromString(args[0])}
	case "setf":
		assertArity(mnemonic, args, 1)
		return Token{Kind: KindSetf, Imm: ParseIntFromString(args[0])}
	case "clrf":
		assertArity(mnemonic, args, 1)
		return Token{Kind: KindClrf, Imm: ParseIntFromString(args[0])}
	default:
		return t.genPseudoInstructionToken(mnemonic, args)
	}
}

func (t *Tokenizer) genPseudoInstructionToken(mnemonic string, args []string) Token {
	switch mnemonic {
	case "push":
		assertArity(mnemonic, args, 1)
		t.address += 2*3 - 2
		return Token{Kind: KindPush, X: RegNameToNum(args[0])}
	case "pop":
		assertArity(mnemonic, args, 1)
		t.address += 2*3 - 2
		return Token{Kind: KindPop, X: RegNameToNum(args[0])}
	case "ldl":
		assertArity(mnemonic, args, 2)
		t.address += 2*3 - 2
		reg := RegNameToNum(args[0])
		if v, err := strconv.ParseUint(args[1], 10, 16); err == nil {
			return Token{Kind: KindLdl, X: reg, ID: v}
		}
		if hex, found := strings.CutPrefix(args[1], "0x"); found {
			if v, err := strconv.ParseUint(hex, 16, 16); err == nil {
				return Token{Kind: KindLdl, X: reg, ID: v}
			}
		}
		return Token{Kind: KindLdl, X: reg, ID: LabelID(args[1]), IsRef: true}
	case "call":
		assertArity(mnemonic, args, 1)
		t.address += 2*17 - 2
		return Token{Kind: KindCall, X: RegNameToNum(args[0]), Addr: uint16(t.address)}
	case "callf":
		assertArity(mnemonic, args, 2)
		t.address += 2*7 - 2
		return Token{
			Kind: KindCallf,
			X:    RegNameToNum(args[0]),
			Y:    RegNameToNum(args[1]),
			Addr: uint16(t.address),
		}
	case "ret":
		assertArity(mnemonic, args, 1)
		t.address += 2*4 - 2
		return Token{Kind: KindRet, X: RegNameToNum(args[0])}
	default:
		Fatalf("Invalid instruction `%s`.", mnemonic)
	}
	return Token{}
}

func (t *Tokenizer) genDirectiveToken(directive, tail string) Token {
	name := strings.TrimPrefix(directive, ".")
	args := splitArgs(tail)
	switch name {
	case "short":
		assertArity("."+name, args, 1)
		t.address += 2
		if v, ok := ParseNumeric(args[0]); ok {
			return Token{Kind: KindShort, ID: uint64(v)}
		}
		return Token{Kind: KindShort, ID: LabelID(args[0]), IsRef: true}
	case "addr":
		assertArity("."+name, args, 1)
		v, ok := ParseNumeric(args[0])
		if !ok {
			Fatalf("Invalid address `%s`", args[0])
		}
		if v%2 != 0 {
			Fatalf("Address %04X is not 2 byte aligned.", v)
		}
		t.address = uint32(v)
		return Token{Kind: KindAddr, Addr: v}
	default:
		Fatalf("Invalid directive `.%s`.", name)
	}
	return Token{}
}

func (t *Tokenizer) genLabelToken(head string) Token {
	label := strings.TrimSuffix(head, ":")
	return Token{Kind: KindLabel, ID: LabelID(label), Addr: uint16(t.address), Source: label}
}
