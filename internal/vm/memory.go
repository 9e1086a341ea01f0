package vm

// Memory is the VM's byte-addressable address space (§3): a fixed-size
// array, zeroed at construction, mutated only by the interpreter after
// reset copies firmware in.
type Memory struct {
	data []byte
}

// NewMemory allocates a zeroed memory of the given size. Size 0 panics, per
// the source's own guard against a meaningless empty address space; size
// above §3's documented 0x10000 maximum panics too, since no 16-bit address
// register could ever reach past it.
func NewMemory(size uint32) *Memory {
	if size == 0 {
		panic(ErrEmptyMemory)
	}
	if size > MaxMemorySize {
		panic(ErrMemoryTooLarge)
	}
	return &Memory{data: make([]byte, size)}
}

func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

// LoadByte reads one byte, faulting SEG if addr is out of range.
func (m *Memory) LoadByte(addr uint16) (byte, error) {
	if int(addr) >= len(m.data) {
		return 0, ErrSegFault
	}
	return m.data[addr], nil
}

// StoreByte writes one byte, faulting SEG if addr is out of range.
func (m *Memory) StoreByte(addr uint16, v byte) error {
	if int(addr) >= len(m.data) {
		return ErrSegFault
	}
	m.data[addr] = v
	return nil
}

// LoadWord reads a little-endian 16-bit word. A word access needs both
// addr and addr+1 in range, so the fault threshold is size-1 (§4.6).
func (m *Memory) LoadWord(addr uint16) (uint16, error) {
	if int(addr) >= len(m.data)-1 {
		return 0, ErrSegFault
	}
	lo := uint16(m.data[addr])
	hi := uint16(m.data[addr+1])
	return lo | (hi << 8), nil
}

// StoreWord writes a little-endian 16-bit word.
func (m *Memory) StoreWord(addr uint16, v uint16) error {
	if int(addr) >= len(m.data)-1 {
		return ErrSegFault
	}
	m.data[addr] = byte(v & 0x00FF)
	m.data[addr+1] = byte((v & 0xFF00) >> 8)
	return nil
}

// CopyIn copies firmware bytes into memory starting at addr, used by
// reset().
func (m *Memory) CopyIn(addr uint16, bytes []byte) {
	copy(m.data[addr:], bytes)
}
