package codec

// uint32Size is the width of a big-endian uint32 on the wire.
const uint32Size = 4

// BytesToUint32 interprets exactly four bytes as a big-endian unsigned
// integer. Any other length fails with a *LengthError; input is never padded
// or truncated.
func BytesToUint32(b []byte) (uint32, error) {
	if len(b) != uint32Size {
		return 0, &LengthError{Got: len(b), Want: uint32Size}
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// Uint32ToBytes returns the big-endian 4-byte representation of v.
func Uint32ToBytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}
