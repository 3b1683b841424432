package bloombroom

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams is returned when a constructor is given parameters
	// outside their valid range.
	ErrInvalidParams = errors.New("bloombroom: invalid filter parameters")

	// ErrIndexRange is returned when a BitField is accessed outside [0, Len).
	ErrIndexRange = errors.New("bloombroom: counter index out of range")
)

// BitField is a fixed-length array of fixed-width counters bit-packed into a
// byte buffer. A field of n counters of width w occupies ceil(n*w/8) bytes
// (plus one spare, see NewBitField) instead of n bytes or more, which is what
// makes per-bucket bookkeeping affordable for large filters.
//
// Counter i occupies bits [i*w, (i+1)*w) of the buffer, least significant
// bit of byte 0 first. For width 4 two adjacent counters share a byte, the
// even-indexed one in the low nibble.
type BitField struct {
	bits  []byte
	n     uint64
	width uint8
	max   uint8 // (1 << width) - 1
}

// NewBitField creates a field of n zero counters, each width bits wide.
// Width must be in [1, 8] and n must be positive.
func NewBitField(n uint64, width uint8) (*BitField, error) {
	if n == 0 || width == 0 || width > 8 {
		return nil, fmt.Errorf("%w: n=%d width=%d", ErrInvalidParams, n, width)
	}
	size := (n*uint64(width) + 7) / 8
	// One spare byte so get/set can always read a two-byte window, even for
	// a counter ending at the last payload byte.
	return &BitField{
		bits:  make([]byte, size+1),
		n:     n,
		width: width,
		max:   uint8(1<<width - 1),
	}, nil
}

// get reads counter i without a range check. Callers must guarantee i < n.
func (f *BitField) get(i uint64) uint8 {
	bit := i * uint64(f.width)
	byteIdx := bit >> 3
	shift := bit & 7
	w := uint16(f.bits[byteIdx]) | uint16(f.bits[byteIdx+1])<<8
	return uint8(w>>shift) & f.max
}

// set writes counter i without a range check, truncating v to the counter
// width. Callers must guarantee i < n.
func (f *BitField) set(i uint64, v uint8) {
	v &= f.max
	bit := i * uint64(f.width)
	byteIdx := bit >> 3
	shift := bit & 7
	mask := uint16(f.max) << shift
	w := uint16(f.bits[byteIdx]) | uint16(f.bits[byteIdx+1])<<8
	w = w&^mask | uint16(v)<<shift
	f.bits[byteIdx] = byte(w)
	f.bits[byteIdx+1] = byte(w >> 8)
}

// Read returns the value of counter i.
func (f *BitField) Read(i uint64) (uint8, error) {
	if i >= f.n {
		return 0, fmt.Errorf("%w: index %d, length %d", ErrIndexRange, i, f.n)
	}
	return f.get(i), nil
}

// Write sets counter i to v, truncated to the counter width.
func (f *BitField) Write(i uint64, v uint8) error {
	if i >= f.n {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexRange, i, f.n)
	}
	f.set(i, v)
	return nil
}

// CountNonzero returns the number of counters with a nonzero value.
func (f *BitField) CountNonzero() uint64 {
	var count uint64
	for i := uint64(0); i < f.n; i++ {
		if f.get(i) != 0 {
			count++
		}
	}
	return count
}

// Clear resets every counter to zero.
func (f *BitField) Clear() {
	clear(f.bits)
}

// Len returns the number of counters in the field.
func (f *BitField) Len() uint64 { return f.n }

// Width returns the counter width in bits.
func (f *BitField) Width() uint8 { return f.width }
