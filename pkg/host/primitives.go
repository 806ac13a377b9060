package host

import (
	"fmt"

	"github.com/robotalks/metal.go/pkg/serial"
)

// ReadByte reads one byte from the target.
func (e *Engine) ReadByte() (byte, error) {
	if err := e.flush(); err != nil {
		return 0, err
	}
	b, err := e.in.ReadByte()
	if err != nil {
		return 0, err
	}
	e.offset++
	return b, nil
}

// WriteByte writes one byte to the target.
func (e *Engine) WriteByte(b byte) error {
	if e.out == nil {
		return ErrReadOnly
	}
	return e.out.WriteByte(b)
}

func (e *Engine) flush() error {
	if e.out != nil && e.out.Buffered() > 0 {
		return e.out.Flush()
	}
	return nil
}

// ReadUint reads an integer as unsigned.
func (e *Engine) ReadUint() (uint64, error) {
	v, _, err := e.readRaw()
	return v, err
}

// ReadInt reads an integer, sign extended from its width on the wire.
func (e *Engine) ReadInt() (int64, error) {
	v, size, err := e.readRaw()
	if err != nil || size == 0 || size >= 8 {
		return int64(v), err
	}
	shift := 64 - 8*uint(size)
	return int64(v<<shift) >> shift, nil
}

func (e *Engine) readRaw() (uint64, int, error) {
	size, err := e.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	if size > 8 {
		return 0, 0, e.protoErr("int", fmt.Errorf("%w: %d bytes", ErrIntSize, size))
	}
	var acc uint64
	for idx := 0; idx < int(size); idx++ {
		b, err := e.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		if e.bigEndian {
			acc = acc<<8 | uint64(b)
		} else {
			acc |= uint64(b) << (8 * uint(idx))
		}
	}
	return acc, int(size), nil
}

func bytesNeeded(v uint64) int {
	n := 1
	for v >>= 8; v != 0; v >>= 8 {
		n++
	}
	return n
}

// WriteInt writes v. Negative values use all 8 bytes so the target sign
// extends nothing, others use as few bytes as possible.
func (e *Engine) WriteInt(v int64) error {
	if v < 0 {
		return e.writeRaw(uint64(v), 8)
	}
	return e.WriteUint(uint64(v))
}

// WriteUint writes v with as few bytes as possible.
func (e *Engine) WriteUint(v uint64) error {
	return e.writeRaw(v, bytesNeeded(v))
}

func (e *Engine) writeRaw(v uint64, size int) error {
	if err := e.WriteByte(byte(size)); err != nil {
		return err
	}
	for idx := 0; idx < size; idx++ {
		shift := 8 * uint(idx)
		if e.bigEndian {
			shift = 8 * uint(size-1-idx)
		}
		if err := e.WriteByte(byte(v >> shift)); err != nil {
			return err
		}
	}
	return nil
}

// ReadString reads a NUL-terminated string.
func (e *Engine) ReadString() (string, error) {
	var buf []byte
	for {
		b, err := e.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

// WriteString sends s with its terminator and returns the number of
// characters the target acknowledged.
func (e *Engine) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if err := e.WriteByte(s[i]); err != nil {
			return 0, err
		}
	}
	if err := e.WriteByte(0); err != nil {
		return 0, err
	}
	n, err := e.ReadInt()
	return int(n), err
}

// ReadMemory reads a memory block.
func (e *Engine) ReadMemory() ([]byte, error) {
	size, err := e.ReadUint()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, min(size, 1<<16))
	for i := uint64(0); i < size; i++ {
		b, err := e.ReadByte()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b)
	}
	return buf, nil
}

// WriteMemory sends p and returns the number of bytes the target
// acknowledged.
func (e *Engine) WriteMemory(p []byte) (int, error) {
	if err := e.WriteUint(uint64(len(p))); err != nil {
		return 0, err
	}
	for _, b := range p {
		if err := e.WriteByte(b); err != nil {
			return 0, err
		}
	}
	n, err := e.ReadInt()
	return int(n), err
}

// ReadLocation reads a location marker relative to the symbols.
func (e *Engine) ReadLocation() (serial.Location, error) {
	v, err := e.ReadUint()
	if err != nil {
		return 0, err
	}
	if v < e.base {
		return 0, e.protoErr("location", fmt.Errorf("%w: 0x%x is below base 0x%x", ErrUnknownLocation, v, e.base))
	}
	return serial.Location(v - e.base), nil
}

// ReadSite reads a location marker and resolves it.
func (e *Engine) ReadSite() (serial.Site, error) {
	loc, err := e.ReadLocation()
	if err != nil {
		return serial.Site{}, err
	}
	site, ok := e.Symbols.Resolve(loc)
	if !ok {
		return site, e.protoErr("location", fmt.Errorf("%w: 0x%x", ErrUnknownLocation, uint64(loc)))
	}
	return site, nil
}
