package vm

import "errors"

// Sentinel errors mirror the teacher's package-level var block of named
// errors rather than ad hoc strings. The three exception errors never halt
// execution: Registers.RaiseException maps each of them to its FG bit. In
// step(), only the memory accesses produce one (ErrSegFault); register-range
// and unaligned-jump faults set their FG bit directly, and step() itself
// returns nothing.
var (
	ErrIllegalOperand = errors.New("illegal operand field or unrecognized sub-opcode")
	ErrSegFault       = errors.New("memory address out of range")
	ErrUnaligned      = errors.New("unaligned jump target")

	// ErrEmptyMemory and ErrMemoryTooLarge are host-level construction
	// errors, not runtime exceptions.
	ErrEmptyMemory    = errors.New("cannot create memory with size of 0")
	ErrMemoryTooLarge = errors.New("memory size exceeds the maximum addressable 0x10000 bytes")
)
