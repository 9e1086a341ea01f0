// Command sasm is the two-pass assembler: it turns one or more `.S`/`.asm`
// source files into a flat little-endian binary image.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"retrovm/internal/asm"
)

func main() {
	var (
		trampoline bool
		output     string
		entry      string
	)

	root := &cobra.Command{
		Use:   "sasm [flags] <file.S|.asm>...",
		Short: "Assemble sources for the 16-bit load/store toy computer",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			lines := asm.ReadLines(args)

			tok := asm.NewTokenizer(entry)
			if trampoline {
				tok.EnableTrampoline()
			}
			tokens := tok.Tokenize(lines)

			exec := asm.Emit(tokens)
			asm.WriteOutput(output, exec)

			fmt.Printf("Wrote %d bytes.\n", exec.Size())
			fmt.Printf("Took %f seconds.\n", time.Since(start).Seconds())
			return nil
		},
	}

	root.Flags().BoolVarP(&trampoline, "trampoline", "T", false, "prepend an 8-byte entry trampoline")
	root.Flags().StringVarP(&output, "output", "o", "a.out", "output file path")
	root.Flags().StringVarP(&entry, "entry", "e", "_start", "entry label name")

	if err := root.Execute(); err != nil {
		os.Exit(-1)
	}
}
