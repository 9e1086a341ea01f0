package vm

import "os"

// Firmware is the byte image copied into memory at reset.
type Firmware struct {
	data []byte
}

// LoadFirmware reads a firmware image from disk.
func LoadFirmware(path string) (*Firmware, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Firmware{data: data}, nil
}

// defaultFirmware is the built-in 22-byte program used when no firmware
// file is configured (§4.6, §8 scenario 5): it loads 0xDEAD into R0 and R1
// via the ldi/shl/ldi immediate-load idiom (matching how `ldl` itself
// lowers), loads R2 with the address of the trailing nop, then loops
// nop/jmp r2 forever without ever touching R0 or R1 again.
//
//	0000  ldi r0,#0xDE   DE 40
//	0002  shl r0,#8      81 70
//	0004  ldi r0,#0xAD   AD 40
//	0006  ldi r1,#0xDE   DE 41
//	0008  shl r1,#8      81 71
//	000A  ldi r1,#0xAD   AD 41
//	000C  ldi r2,#0x00   00 42
//	000E  shl r2,#8      81 72
//	0010  ldi r2,#0x12   12 42
//	0012  nop            00 00   <- loop target (address 0x0012)
//	0014  jmp r2         00 62
var defaultFirmwareBytes = []byte{
	0xDE, 0x40, 0x81, 0x70, 0xAD, 0x40,
	0xDE, 0x41, 0x81, 0x71, 0xAD, 0x41,
	0x00, 0x42, 0x81, 0x72, 0x12, 0x42,
	0x00, 0x00,
	0x00, 0x62,
}

// DefaultFirmware returns the built-in program.
func DefaultFirmware() *Firmware {
	return &Firmware{data: defaultFirmwareBytes}
}

// Size returns the firmware's byte length.
func (f *Firmware) Size() uint16 {
	return uint16(len(f.data))
}
