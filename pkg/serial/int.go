package serial

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// WriteInt writes v prefixed with its width in bytes, least significant
// byte first.
func WriteInt[T constraints.Integer](t *Target, v T) error {
	t.writeUint(uint64(v), int(unsafe.Sizeof(v)))
	return t.err
}

// ReadInt reads an integer written by WriteInt. The width on the wire is
// taken from the size byte, the caller decides the type to decode into.
func ReadInt[T constraints.Integer](t *Target) (T, error) {
	size, err := t.ReadByte()
	if err != nil {
		return 0, err
	}
	var acc uint64
	for idx := 0; idx < int(size); idx++ {
		b, err := t.ReadByte()
		if err != nil {
			return 0, err
		}
		if idx < 8 {
			acc |= uint64(b) << (8 * uint(idx))
		}
	}
	return T(acc), nil
}

func (t *Target) writeUint(v uint64, size int) {
	t.WriteByte(byte(size))
	for idx := 0; idx < size; idx++ {
		var b byte
		if idx < 8 {
			b = byte(v >> (8 * uint(idx)))
		}
		t.WriteByte(b)
	}
}
