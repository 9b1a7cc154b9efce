package bitio

// Writer appends MSB-first bit fields to a growing byte slice.
type Writer struct {
	buf []byte
	loc uint // bits still free in the last byte, 0 when a new byte is needed
}

// Write appends the low numBits bits of value. Widths above MaxBits are
// truncated to MaxBits.
func (w *Writer) Write(value uint32, numBits int) {
	if numBits > MaxBits {
		numBits = MaxBits
	}
	for i := numBits - 1; i >= 0; i-- {
		if w.loc == 0 {
			w.buf = append(w.buf, 0)
			w.loc = 8
		}
		w.loc--
		if value>>uint(i)&1 == 1 {
			w.buf[len(w.buf)-1] |= 1 << w.loc
		}
	}
}

// Align pads the final byte with zero bits.
func (w *Writer) Align() {
	w.loc = 0
}

// Bytes returns the written bytes. The final byte is zero padded.
func (w *Writer) Bytes() []byte {
	return w.buf
}
