package asm

import (
	"fmt"
	"os"
)

// Fatalf prints a diagnostic to stderr and terminates the process with a
// non-zero exit code. Assembler-time faults (§7) are never recoverable
// mid-assembly — unknown mnemonics, bad arity, malformed integers, duplicate
// or unknown labels, cursor overflow, non-ASCII input, and I/O failures all
// go through this single path, mirroring the source's critical! macro.
func Fatalf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(format, args...))
	os.Exit(-1)
}
