package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWordRoundTrip(t *testing.T) {
	m := NewMemory(16)
	require.NoError(t, m.StoreWord(4, 0xDEAD))
	w, err := m.LoadWord(4)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xDEAD), w)
}

func TestMemoryByteBoundary(t *testing.T) {
	m := NewMemory(4)
	assert.NoError(t, m.StoreByte(3, 0xFF))
	_, err := m.LoadByte(4)
	assert.ErrorIs(t, err, ErrSegFault)
}

func TestMemoryWordNeedsTwoBytesInRange(t *testing.T) {
	m := NewMemory(4)
	// addr 3 has a valid byte but no byte at addr 4.
	_, err := m.LoadWord(3)
	assert.ErrorIs(t, err, ErrSegFault)
}

func TestNewMemoryPanicsOnZeroSize(t *testing.T) {
	assert.Panics(t, func() { NewMemory(0) })
}

func TestNewMemoryPanicsAboveMaxSize(t *testing.T) {
	assert.Panics(t, func() { NewMemory(MaxMemorySize + 1) })
}

func TestNewMemoryAllowsExactlyMaxSize(t *testing.T) {
	m := NewMemory(MaxMemorySize)
	assert.Equal(t, uint32(MaxMemorySize), m.Size())
}

func TestCopyInPlacesFirmwareAtAddress(t *testing.T) {
	m := NewMemory(8)
	m.CopyIn(2, []byte{0xDE, 0xAD})
	b, err := m.LoadByte(2)
	require.NoError(t, err)
	assert.Equal(t, byte(0xDE), b)
}
