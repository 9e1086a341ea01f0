// Command svirt runs a cycle-paced virtual machine for the 16-bit
// load/store toy computer, optionally loading firmware from disk.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"retrovm/internal/vm"
)

func main() {
	config := vm.DefaultConfiguration()
	var memorySize uint32
	var cyclesPerSecond uint64
	var startAddress uint16

	root := &cobra.Command{
		Use:   "svirt [flags]",
		Short: "Run the 16-bit load/store toy computer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if memorySize > vm.MaxMemorySize {
				return fmt.Errorf("--memory exceeds the maximum addressable size of 0x%X bytes", uint32(vm.MaxMemorySize))
			}
			config.MemorySize = memorySize
			config.CyclesPerSecond = cyclesPerSecond
			config.InitialPC = startAddress

			if config.Verbose {
				config.DumpToStdout()
			}

			machine, err := vm.New(config)
			if err != nil {
				return err
			}
			machine.Reset()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sig
				machine.ShouldRun.Store(false)
			}()

			machine.Run()

			if config.Verbose {
				machine.DumpToStdout()
			}
			return nil
		},
	}

	flags := root.Flags()
	flags.Uint32Var(&memorySize, "memory", vm.DefaultConfiguration().MemorySize, "memory size in bytes (max 0x10000)")
	flags.Uint64Var(&cyclesPerSecond, "cps", vm.DefaultConfiguration().CyclesPerSecond, "cycles executed per second")
	flags.Uint16Var(&startAddress, "start-address", vm.DefaultConfiguration().InitialPC, "initial program counter")
	flags.StringVar(&config.FirmwareFile, "firmware", "", "path to a firmware image (defaults to the built-in program)")
	flags.BoolVar(&config.Verbose, "verbose", false, "print configuration and register state, and trace each executed opcode")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}
