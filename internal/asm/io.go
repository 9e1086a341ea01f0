package asm

import (
	"os"
	"strings"
	"unicode"
)

// ReadLines loads every source file, verifies it is 7-bit ASCII, and
// returns the non-blank, trimmed lines in file order — the tokenizer's
// input (§4.3's "read input files, filter blank lines" step).
func ReadLines(paths []string) []string {
	if len(paths) == 0 {
		Fatalf("No input file provided.")
	}
	var lines []string
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			Fatalf("An error occured when reading file `%s`:\n`%s`.", path, err)
		}
		if !isASCII(content) {
			Fatalf("File `%s` is not ASCII.", path)
		}
		for _, line := range strings.Split(string(content), "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
	}
	return lines
}

func isASCII(b []byte) bool {
	for _, r := range string(b) {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// WriteOutput writes the executable's bytes to path.
func WriteOutput(path string, exec *Executable) {
	if err := os.WriteFile(path, exec.Bytes(), 0o644); err != nil {
		Fatalf("An error occured when writing file `%s`:\n`%s`.", path, err)
	}
}
