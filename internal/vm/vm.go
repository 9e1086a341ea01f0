package vm

import (
	"fmt"
	"sync/atomic"
	"time"

	"retrovm/internal/isa"
)

// VM ties configuration, firmware, memory, and the register file together
// into the paced interpreter described in §4.6. The only state shared
// across goroutines is ShouldRun; everything else is touched solely by the
// interpreter goroutine once Run is called.
type VM struct {
	config   Configuration
	firmware *Firmware
	mem      *Memory
	regs     Registers

	// ShouldRun is the single relaxed atomic cancellation flag (§5). A
	// separate signal-handling goroutine clears it; Run observes it only
	// between steps, so an in-flight step always completes.
	ShouldRun atomic.Bool
}

// New constructs a VM from a configuration, loading firmware from disk if
// FirmwareFile is set, or falling back to the built-in default program.
func New(config Configuration) (*VM, error) {
	var firmware *Firmware
	if config.FirmwareFile == "" {
		firmware = DefaultFirmware()
	} else {
		var err error
		firmware, err = LoadFirmware(config.FirmwareFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load firmware: %w", err)
		}
	}

	v := &VM{
		config:   config,
		firmware: firmware,
		mem:      NewMemory(config.MemorySize),
	}
	v.ShouldRun.Store(true)
	return v, nil
}

// DumpToStdout prints the shutdown register-state banner shown under
// --verbose.
func (vm *VM) DumpToStdout() {
	r := &vm.regs
	fmt.Println()
	fmt.Println(" ---- VM STATE ----")
	fmt.Printf(" R0=%04X    R1=%04X\n", r.R[0], r.R[1])
	fmt.Printf(" R2=%04X    R3=%04X\n", r.R[2], r.R[3])
	fmt.Printf(" R4=%04X    R5=%04X\n", r.R[4], r.R[5])
	fmt.Printf(" R6=%04X    R7=%04X\n", r.R[6], r.R[7])
	fmt.Printf(" C0=%04X    C1=%04X\n", r.C[0], r.C[1])
	fmt.Printf(" FG=%04X    SP=%04X\n", r.FG, r.SP)
	fmt.Printf(" PC=%04X\n", r.PC)
}

// Registers exposes the register file read-only, for tests and for the CLI
// dump.
func (vm *VM) Registers() Registers {
	return vm.regs
}

// Reset sets PC to the configured initial address and copies firmware
// bytes into memory starting there (§3: "firmware bytes are copied in at
// reset").
func (vm *VM) Reset() {
	vm.regs = Registers{PC: vm.config.InitialPC}
	vm.mem.CopyIn(vm.regs.PC, vm.firmware.data)
}

// Run is the paced interpreter loop (§4.6, §5): it busy-waits on a
// monotonic clock, invoking step() once per elapsed period and never
// catching up by double-stepping within one iteration. It returns when
// ShouldRun becomes false.
func (vm *VM) Run() {
	periodNs := int64(1_000_000_000 / vm.config.CyclesPerSecond)
	before := time.Now()
	var delta int64

	for vm.ShouldRun.Load() {
		now := time.Now()
		delta += now.Sub(before).Nanoseconds()
		before = now

		if delta >= periodNs {
			vm.step()
			delta -= periodNs
			if delta >= periodNs {
				fmt.Printf(" [WARN] Running late by %dns\n", delta)
			}
		}
	}
}

// fetch reads the 16-bit instruction word at PC.
func (vm *VM) fetch() (uint16, error) {
	return vm.mem.LoadWord(vm.regs.PC)
}

// doJump overwrites PC with target, raising UNA if target is odd. The
// assignment happens either way — §8 scenario 6 requires the jump to take
// effect and the flag to be set "after the jump", not instead of it.
func (vm *VM) doJump(target uint16) {
	if target%2 != 0 {
		vm.regs.SetFlag(isa.FlagUNA)
	}
	vm.regs.PC = target
}

// step fetches, decodes, and executes exactly one instruction, advancing PC
// per §4.6's rules. Decode/register-range failures raise the matching
// exception flag and are non-fatal; a top nibble with no assigned class at
// all is a host-level bug in the decoder, since §4.1's table is exhaustive
// over the defined classes.
func (vm *VM) step() {
	word, ferr := vm.fetch()
	if ferr != nil {
		vm.regs.RaiseException(ferr)
		vm.regs.PC += 2
		return
	}

	if vm.config.Verbose {
		fmt.Printf(" [PC=%04X] Executing opcode (%04X)\n", vm.regs.PC, word)
	}

	r := &vm.regs
	fail := func(bit uint8) {
		r.SetFlag(bit)
		r.PC += 2
	}

	class := isa.Class(word)
	if class == 0x4 { // ldi occupies the whole class, not just two sub-bits
		x := isa.X(word)
		if !isa.InRange(x, isa.CeilArith) {
			fail(isa.FlagIOP)
			return
		}
		r.R[x] = (r.R[x] & 0xFF00) | uint16(isa.Imm8(word))
		r.PC += 2
		return
	}

	switch word & isa.DecodeMask {
	case isa.ClassNop:
		r.PC += 2

	case isa.ClassAnd:
		x, y := isa.X(word), isa.Y(word)
		if !isa.InRange(x, isa.CeilArith) || !isa.InRange(y, isa.CeilArith) {
			fail(isa.FlagIOP)
			return
		}
		r.R[x] &= r.R[y]
		r.PC += 2

	case isa.ClassNot:
		x := isa.X(word)
		if !isa.InRange(x, isa.CeilArith) {
			fail(isa.FlagIOP)
			return
		}
		r.R[x] = ^r.R[x]
		r.PC += 2

	case isa.ClassAdd:
		x, y := isa.X(word), isa.Y(word)
		if !isa.InRange(x, isa.CeilArith) || !isa.InRange(y, isa.CeilArith) {
			fail(isa.FlagIOP)
			return
		}
		r.R[x] += r.R[y] // wraps mod 2^16, per §9
		r.PC += 2

	case isa.ClassSub:
		x, y := isa.X(word), isa.Y(word)
		if !isa.InRange(x, isa.CeilArith) || !isa.InRange(y, isa.CeilArith) {
			fail(isa.FlagIOP)
			return
		}
		r.R[x] -= r.R[y]
		r.PC += 2

	case isa.ClassInc:
		x := isa.X(word)
		if !isa.InRange(x, isa.CeilSP) {
			fail(isa.FlagIOP)
			return
		}
		*r.Ptr(x)++
		r.PC += 2

	case isa.ClassDec:
		x := isa.X(word)
		if !isa.InRange(x, isa.CeilSP) {
			fail(isa.FlagIOP)
			return
		}
		*r.Ptr(x)--
		r.PC += 2

	case isa.ClassLdb:
		x, y := isa.X(word), isa.Y(word)
		if !isa.InRange(x, isa.CeilArith) || !isa.InRange(y, isa.CeilSP) {
			fail(isa.FlagIOP)
			return
		}
		b, err := vm.mem.LoadByte(*r.Ptr(y))
		if err != nil {
			r.RaiseException(err)
			r.PC += 2
			return
		}
		r.R[x] = (r.R[x] & 0xFF00) | uint16(b)
		r.PC += 2

	case isa.ClassLdw:
		x, y := isa.X(word), isa.Y(word)
		if !isa.InRange(x, isa.CeilArith) || !isa.InRange(y, isa.CeilSP) {
			fail(isa.FlagIOP)
			return
		}
		w, err := vm.mem.LoadWord(*r.Ptr(y))
		if err != nil {
			r.RaiseException(err)
			r.PC += 2
			return
		}
		r.R[x] = w
		r.PC += 2

	case isa.ClassMov:
		x, y := isa.X(word), isa.Y(word)
		if !isa.InRange(x, isa.CeilMov) || !isa.InRange(y, isa.CeilMov) {
			fail(isa.FlagIOP)
			return
		}
		*r.Ptr(x) = *r.Ptr(y)
		r.PC += 2

	case isa.ClassStb:
		y, x := isa.X(word), isa.Y(word) // word carries Y in the X field per §4.1's stb encoding
		if !isa.InRange(y, isa.CeilSP) || !isa.InRange(x, isa.CeilArith) {
			fail(isa.FlagIOP)
			return
		}
		if err := vm.mem.StoreByte(*r.Ptr(y), byte(r.R[x]&0x00FF)); err != nil {
			r.RaiseException(err)
			r.PC += 2
			return
		}
		r.PC += 2

	case isa.ClassStw:
		y, x := isa.X(word), isa.Y(word)
		if !isa.InRange(y, isa.CeilSP) || !isa.InRange(x, isa.CeilArith) {
			fail(isa.FlagIOP)
			return
		}
		if err := vm.mem.StoreWord(*r.Ptr(y), r.R[x]); err != nil {
			r.RaiseException(err)
			r.PC += 2
			return
		}
		r.PC += 2

	case isa.ClassJmp:
		x := isa.X(word)
		if !isa.InRange(x, isa.CeilSP) {
			fail(isa.FlagIOP)
			return
		}
		vm.doJump(*r.Ptr(x))

	case isa.ClassJnz:
		x, y := isa.X(word), isa.Y(word)
		if !isa.InRange(x, isa.CeilSP) || !isa.InRange(y, isa.CeilArith) {
			fail(isa.FlagIOP)
			return
		}
		if r.R[y] == 0 {
			vm.doJump(*r.Ptr(x))
		} else {
			r.PC += 2
		}

	case isa.ClassShr:
		x := isa.X(word)
		if !isa.InRange(x, isa.CeilArith) {
			fail(isa.FlagIOP)
			return
		}
		r.R[x] >>= isa.Imm4(word)
		r.PC += 2

	case isa.ClassShl:
		x := isa.X(word)
		if !isa.InRange(x, isa.CeilArith) {
			fail(isa.FlagIOP)
			return
		}
		r.R[x] <<= isa.Imm4(word)
		r.PC += 2

	case isa.ClassTest:
		n := uint8(isa.X(word))
		if r.TestFlag(n) {
			r.PC += 4
		} else {
			r.PC += 2
		}

	case isa.ClassSetf:
		r.SetFlag(uint8(isa.X(word)))
		r.PC += 2

	case isa.ClassClrf:
		r.ClearFlag(uint8(isa.X(word)))
		r.PC += 2

	default:
		if class >= 0x9 {
			panic(fmt.Sprintf("decode fell outside the instruction table: opcode %04X", word))
		}
		// A reserved sub-opcode within an otherwise valid class.
		fail(isa.FlagIOP)
	}
}
