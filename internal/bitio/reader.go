// Package bitio reads and writes MSB-first bit fields from byte buffers.
//
// GRIB2 packs data values, group descriptors and local-use payloads as
// unsigned integers of arbitrary bit width, most significant bit first,
// with no alignment between consecutive values.
package bitio

import (
	"errors"
	"fmt"
)

// MaxBits is the widest value a single Read may return.
const MaxBits = 32

var (
	// ErrTooManyBits is returned when more than MaxBits are requested.
	ErrTooManyBits = errors.New("bit width exceeds 32")
	// ErrShortBuffer is returned when a read runs past the end of the buffer.
	ErrShortBuffer = errors.New("read past end of buffer")
)

// Reader reads bit fields from a byte slice.
//
// loc is the number of bits not yet consumed in buf[pos], in the range 8..1.
// A fresh reader starts with loc = 8.
type Reader struct {
	buf []byte
	pos int
	loc uint
}

// NewReader returns a reader positioned at the first bit of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, loc: 8}
}

// Read returns the next numBits bits right-justified, and the number of whole
// bytes the cursor advanced past. Reading 0 bits is a no-op.
func (r *Reader) Read(numBits int) (uint32, int, error) {
	if numBits == 0 {
		return 0, 0, nil
	}
	if numBits < 0 || numBits > MaxBits {
		return 0, 0, fmt.Errorf("read %d bits: %w", numBits, ErrTooManyBits)
	}
	if r.Remaining() < numBits {
		return 0, 0, fmt.Errorf("read %d bits with %d remaining: %w", numBits, r.Remaining(), ErrShortBuffer)
	}

	var value uint64
	start := r.pos
	need := uint(numBits)
	for need > 0 {
		cur := r.buf[r.pos] & byte(0xff>>(8-r.loc))
		if need < r.loc {
			value = value<<need | uint64(cur>>(r.loc-need))
			r.loc -= need
			need = 0
			break
		}
		value = value<<r.loc | uint64(cur)
		need -= r.loc
		r.pos++
		r.loc = 8
	}
	return uint32(value), r.pos - start, nil
}

// Skip discards the unread bits of the current byte so that the next read
// starts on a byte boundary. It returns the number of bytes advanced.
func (r *Reader) Skip() int {
	if r.loc == 8 {
		return 0
	}
	r.pos++
	r.loc = 8
	return 1
}

// Offset returns the index of the byte the cursor currently points into.
func (r *Reader) Offset() int {
	return r.pos
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	if r.pos >= len(r.buf) {
		return 0
	}
	return (len(r.buf)-r.pos-1)*8 + int(r.loc)
}
