package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrovm/internal/isa"
)

func newTestVM(t *testing.T, firmwareBytes []byte) *VM {
	t.Helper()
	cfg := DefaultConfiguration()
	m := &VM{
		config:   cfg,
		firmware: &Firmware{data: firmwareBytes},
		mem:      NewMemory(cfg.MemorySize),
	}
	m.ShouldRun.Store(true)
	m.Reset()
	return m
}

// Scenario 5: loading the default firmware eventually parks R0/R1 at
// 0xDEAD with PC inside the tail nop/jmp loop (§8).
func TestDefaultFirmwareSettlesIntoLoop(t *testing.T) {
	m := newTestVM(t, append([]byte{}, defaultFirmwareBytes...))
	for i := 0; i < 100; i++ {
		m.step()
	}
	regs := m.Registers()
	assert.Equal(t, uint16(0xDEAD), regs.R[0])
	assert.Equal(t, uint16(0xDEAD), regs.R[1])
	assert.True(t, regs.PC == 0x0012 || regs.PC == 0x0014)
}

// Scenario 6: `jmp r0` with R0 == 0 runs indefinitely without raising any
// exception flag.
func TestJumpToEvenTargetRaisesNoFlag(t *testing.T) {
	m := newTestVM(t, []byte{0x00, 0x60})
	for i := 0; i < 10; i++ {
		m.step()
	}
	assert.Equal(t, uint16(0), m.Registers().FG)
}

// Scenario 6: `jmp r0` with R0 == 1 sets FG bit 13 (unaligned) after the
// jump still takes effect.
func TestJumpToOddTargetRaisesUnaligned(t *testing.T) {
	m := newTestVM(t, []byte{0x00, 0x60})
	m.regs.R[0] = 1
	m.step()
	regs := m.Registers()
	assert.True(t, regs.TestFlag(isa.FlagUNA))
	assert.Equal(t, uint16(1), regs.PC)
}

func TestStepAlwaysAdvancesPCByNonNegativeEvenAmountOrOverwrites(t *testing.T) {
	m := newTestVM(t, []byte{0x00, 0x00}) // nop
	before := m.Registers().PC
	m.step()
	after := m.Registers().PC
	require.True(t, after >= before)
	assert.Equal(t, uint16(0), (after-before)%2)
}

func TestSegFaultOnOutOfRangeFetch(t *testing.T) {
	cfg := DefaultConfiguration()
	cfg.MemorySize = 2
	cfg.InitialPC = 2 // one past the only valid word
	m := &VM{config: cfg, firmware: &Firmware{data: []byte{}}, mem: NewMemory(cfg.MemorySize)}
	m.ShouldRun.Store(true)
	m.Reset()
	m.step()
	assert.True(t, m.Registers().TestFlag(isa.FlagSEG))
}

func TestIllegalOperandRaisesIOPWithoutPanicking(t *testing.T) {
	// and r0,r0 but with a register field forced out of range by hand —
	// the `and` class ceiling is R7, so X=SP (0x08) is reserved.
	word := uint16(0x1800) // ClassAnd | (SP<<8)
	m := newTestVM(t, []byte{byte(word), byte(word >> 8)})
	m.step()
	assert.True(t, m.Registers().TestFlag(isa.FlagIOP))
	assert.Equal(t, uint16(2), m.Registers().PC)
}
