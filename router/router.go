// Package router inspects the raw bytes of a GRIB2 message and decides which
// decoder should unpack a given field.
package router

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// Decoder names a field decoder.
type Decoder int

const (
	// DecoderGeneric is the general purpose decoder able to unpack every
	// supported template.
	DecoderGeneric Decoder = iota
	// DecoderMDL is the faster vendor decoder limited to the template
	// combinations it was written for.
	DecoderMDL
)

func (d Decoder) String() string {
	switch d {
	case DecoderGeneric:
		return "generic"
	case DecoderMDL:
		return "mdl"
	}
	return fmt.Sprintf("decoder(%d)", int(d))
}

const (
	indicatorLen = 16
	endMarker    = 0x37373737 // "7777" read as a section length
	bitmapAbsent = 255
)

var (
	// ErrEndOfMessage is returned when the end section is reached before the
	// requested field.
	ErrEndOfMessage = errors.New("end of message before requested field")
	// ErrBadSection is returned for an unknown section number.
	ErrBadSection = errors.New("unexpected section number")
	// ErrTruncated is returned when a section runs past the buffer.
	ErrTruncated = errors.New("message truncated")
)

// Templates identifies the templates used by one field.
type Templates struct {
	GDS       int // grid definition template, Section 3
	PDS       int // product definition template, Section 4
	DRS       int // data representation template, Section 5
	NumGroups int // complex packing only
	NoBitmap  bool
	OrderDiff int // spatial differencing only
}

// Templates accepted by the MDL decoder.
var (
	MDLGrids    = []int{0, 10, 20, 30, 90, 110, 120}
	MDLProducts = []int{0, 1, 2, 8, 9, 20, 30}
	MDLPackings = []int{0, 2, 3}
)

// bigBytes reads n (1..4) big-endian octets at off.
func bigBytes(msg []byte, off, n int) (int, error) {
	if off < 0 || off+n > len(msg) {
		return 0, fmt.Errorf("%d octets at %d of %d: %w", n, off, len(msg), ErrTruncated)
	}
	v := 0
	for _, b := range msg[off : off+n] {
		v = v<<8 | int(b)
	}
	return v, nil
}

// FindTemplateIDs walks msg's sections up to the subgNum-th field (0-based)
// and reports the templates that field uses.
func FindTemplateIDs(msg []byte, subgNum int) (Templates, error) {
	var t Templates
	off := indicatorLen
	gNum := 0
	for gNum <= subgNum {
		sectLen, err := bigBytes(msg, off, 4)
		if err != nil {
			return t, fmt.Errorf("section length: %w", err)
		}
		if sectLen == endMarker {
			return t, fmt.Errorf("field %d: %w", subgNum, ErrEndOfMessage)
		}
		sectID, err := bigBytes(msg, off+4, 1)
		if err != nil {
			return t, fmt.Errorf("section number: %w", err)
		}
		switch sectID {
		case 1, 2, 7:
		case 3:
			if t.GDS, err = bigBytes(msg, off+12, 2); err != nil {
				return t, fmt.Errorf("grid template: %w", err)
			}
		case 4:
			if t.PDS, err = bigBytes(msg, off+7, 2); err != nil {
				return t, fmt.Errorf("product template: %w", err)
			}
		case 5:
			if t.DRS, err = bigBytes(msg, off+9, 2); err != nil {
				return t, fmt.Errorf("data template: %w", err)
			}
			if t.DRS == 2 || t.DRS == 3 {
				if t.NumGroups, err = bigBytes(msg, off+31, 4); err != nil {
					return t, fmt.Errorf("number of groups: %w", err)
				}
			}
			if t.DRS == 3 {
				if t.OrderDiff, err = bigBytes(msg, off+47, 1); err != nil {
					return t, fmt.Errorf("order of differencing: %w", err)
				}
			}
		case 6:
			ind, err := bigBytes(msg, off+5, 1)
			if err != nil {
				return t, fmt.Errorf("bitmap indicator: %w", err)
			}
			t.NoBitmap = ind == bitmapAbsent
			gNum++
		default:
			return t, fmt.Errorf("section %d at octet %d: %w", sectID, off, ErrBadSection)
		}
		if sectLen <= 0 {
			return t, fmt.Errorf("section %d has length %d: %w", sectID, sectLen, ErrTruncated)
		}
		off += sectLen
	}
	return t, nil
}

// Decision is the outcome of routing one field.
type Decision struct {
	Decoder   Decoder
	Templates Templates
	// Err is set when the templates could not be read; the field then goes to
	// the generic decoder.
	Err error
}

// MDLCapable reports whether the MDL decoder handles t.
func MDLCapable(t Templates) bool {
	if !slices.Contains(MDLGrids, t.GDS) ||
		!slices.Contains(MDLProducts, t.PDS) ||
		!slices.Contains(MDLPackings, t.DRS) {
		return false
	}
	if !t.NoBitmap && (t.DRS == 2 || t.DRS == 3) {
		return false
	}
	if t.DRS == 3 && t.OrderDiff != 0 && t.OrderDiff != 2 {
		return false
	}
	return true
}

// Route picks the decoder for the subgNum-th field of msg.
func Route(msg []byte, subgNum int) Decision {
	t, err := FindTemplateIDs(msg, subgNum)
	if err != nil {
		return Decision{Decoder: DecoderGeneric, Templates: t, Err: err}
	}
	if MDLCapable(t) {
		return Decision{Decoder: DecoderMDL, Templates: t}
	}
	return Decision{Decoder: DecoderGeneric, Templates: t}
}
