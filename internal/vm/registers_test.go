package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"retrovm/internal/isa"
)

func TestRegistersPtrCoversAllAddressableFields(t *testing.T) {
	var r Registers
	*r.Ptr(isa.RegR3) = 7
	assert.Equal(t, uint16(7), r.R[3])

	*r.Ptr(isa.RegSP) = 9
	assert.Equal(t, uint16(9), r.SP)

	*r.Ptr(isa.RegC0) = 11
	assert.Equal(t, uint16(11), r.C[0])

	*r.Ptr(isa.RegC1) = 13
	assert.Equal(t, uint16(13), r.C[1])

	assert.Nil(t, r.Ptr(0x0B))
}

func TestFlagSetTestClear(t *testing.T) {
	var r Registers
	assert.False(t, r.TestFlag(isa.FlagIOP))
	r.SetFlag(isa.FlagIOP)
	assert.True(t, r.TestFlag(isa.FlagIOP))
	r.ClearFlag(isa.FlagIOP)
	assert.False(t, r.TestFlag(isa.FlagIOP))
}

func TestRaiseExceptionMapsSentinelsToFlags(t *testing.T) {
	var r Registers
	assert.True(t, r.RaiseException(ErrSegFault))
	assert.True(t, r.TestFlag(isa.FlagSEG))

	var r2 Registers
	assert.False(t, r2.RaiseException(nil))
}
