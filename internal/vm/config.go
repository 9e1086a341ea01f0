package vm

import "fmt"

// Configuration holds everything the VM CLI can set (§4.6, §6).
//
// MemorySize is a uint32, not uint16: §3 documents a maximum memory size of
// 0x10000 bytes, one past what a uint16 can hold, since a 16-bit address
// register addresses every byte 0x0000..0xFFFF of a full 0x10000-byte space.
type Configuration struct {
	CyclesPerSecond uint64
	InitialPC       uint16
	MemorySize      uint32
	FirmwareFile    string
	Verbose         bool
}

// MaxMemorySize is §3's documented ceiling on MemorySize.
const MaxMemorySize = 0x10000

// DefaultConfiguration matches the VM CLI's documented defaults (§6):
// memory 0x4000, 32 cycles per second, start PC 0, no firmware file.
func DefaultConfiguration() Configuration {
	return Configuration{
		CyclesPerSecond: 32,
		InitialPC:       0,
		MemorySize:      0x4000,
	}
}

// DumpToStdout prints the startup configuration banner shown under
// --verbose.
func (c Configuration) DumpToStdout() {
	fmt.Println()
	fmt.Println(" ----- VM CFG -----")
	fmt.Printf(" CPS=%d\n", c.CyclesPerSecond)
	fmt.Printf(" iPC=%d\n", c.InitialPC)
	fmt.Printf(" MEM=%d\n", c.MemorySize)
	fmt.Printf(" FWF=%s\n", c.FirmwareFile)
}
