package asm

// LabelID computes the deterministic identity hash for a label string
// (§4.2). The string is split into 8-byte groups, zero-padded at the tail,
// each group packed as a little-endian u64, and all groups XOR-folded
// together. Collisions are an accepted, documented weakness of this hash;
// callers needing collision safety should use the label table's optional
// duplicate-string rejection instead of trying to strengthen this function.
//
// Firmware produced by one version of this function must decode identically
// under any other — this implementation must never change.
func LabelID(label string) uint64 {
	b := []byte(label)
	var hash uint64
	for j := 0; j < len(b); j += 8 {
		var group uint64
		for i := 0; i < 8; i++ {
			index := i + j
			var value byte
			if index < len(b) {
				value = b[index]
			}
			group |= uint64(value) << (uint(i) * 8)
		}
		hash ^= group
	}
	return hash
}
