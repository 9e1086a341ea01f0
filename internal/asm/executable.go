package asm

// Executable is the address-cursored byte container the emitter writes
// into (§4.5). A write at cursor == len(bytes) appends; a write at
// cursor < len(bytes) overwrites in place; a write at cursor > len(bytes)
// zero-pads up to cursor before appending. The cursor advances by one byte
// per byte written, and .addr moves it directly.
type Executable struct {
	bytes   []byte
	address uint16
}

// NewExecutable returns an empty buffer with its cursor at address 0.
func NewExecutable() *Executable {
	return &Executable{}
}

func (e *Executable) pushByte(b byte) {
	current := uint16(len(e.bytes))
	if e.address > current {
		for i := current; i < e.address; i++ {
			e.bytes = append(e.bytes, 0)
		}
		current = e.address
	}
	if e.address == current {
		e.bytes = append(e.bytes, b)
	} else {
		e.bytes[e.address] = b
	}
	e.address++
}

// PushShort writes a 16-bit word little-endian (low byte first).
func (e *Executable) PushShort(s uint16) {
	e.pushByte(byte(s & 0x00FF))
	e.pushByte(byte((s & 0xFF00) >> 8))
}

// Size returns the current byte length of the buffer.
func (e *Executable) Size() int {
	return len(e.bytes)
}

// SetAddress moves the write cursor, creating a sparse hole on the next
// write if it jumps ahead of the current length.
func (e *Executable) SetAddress(a uint16) {
	e.address = a
}

// Bytes returns the buffer's contents for output.
func (e *Executable) Bytes() []byte {
	return e.bytes
}
