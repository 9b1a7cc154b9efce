package g2

import (
	"fmt"
)

// Minimum lengths of the section arrays. Arrays are never shorter than these
// so that fixed octet positions can be read without bounds checks.
var minArrayLen = [8]int{16, 21, 7, 96, 60, 49, 6, 8}

// Template field widths in octets, starting at the first template octet.
// A negative width marks a sign-magnitude field.
var gridTemplates = map[int][]int{
	0:  {1, 1, 4, 1, 4, 1, 4, 4, 4, 4, 4, -4, 4, 1, -4, 4, 4, 4, 1},
	10: {1, 1, 4, 1, 4, 1, 4, 4, 4, -4, 4, 1, -4, -4, 4, 1, 4, 4, 4},
	20: {1, 1, 4, 1, 4, 1, 4, 4, 4, -4, 4, 1, -4, 4, 4, 4, 1, 1},
	30: {1, 1, 4, 1, 4, 1, 4, 4, 4, -4, 4, 1, -4, 4, 4, 4, 1, 1, -4, -4, -4, 4},
	40: {1, 1, 4, 1, 4, 1, 4, 4, 4, 4, 4, -4, 4, 1, -4, 4, 4, 4, 1},
	90: {1, 1, 4, 1, 4, 1, 4, 4, 4, -4, 4, 1, 4, 4, 4, 4, 1, 4, 4, 4, 4},
}

// GridScanOctet returns the array index of the scanning mode for a grid
// template, or -1 if the template is not supported.
func GridScanOctet(gdt int) int {
	switch gdt {
	case 0, 40:
		return 71
	case 10:
		return 59
	case 20, 30:
		return 64
	case 90:
		return 63
	}
	return -1
}

var (
	productBase     = []int{1, 1, 1, 1, 1, 2, 1, 1, 4, 1, -1, -4, 1, -1, -4}
	ensembleFields  = []int{1, 1, 1}
	derivedFields   = []int{1, 1}
	probFields      = []int{1, 1, 1, -1, -4, -1, -4}
	percentileField = []int{1}
	endTimeFields   = []int{2, 1, 1, 1, 1, 1, 1, 4}
	intervalFields  = []int{1, 1, 1, 4, 1, 4}
	bandFields      = []int{2, 2, 1, 1, 4}
)

func join(parts ...[]int) []int {
	var out []int
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// productTemplates holds the fixed part of each product template. Templates
// ending in a statistical time block repeat intervalFields once per time
// range; template 30 repeats bandFields once per band.
var productTemplates = map[int][]int{
	0:  productBase,
	1:  join(productBase, ensembleFields),
	2:  join(productBase, derivedFields),
	5:  join(productBase, probFields),
	8:  join(productBase, endTimeFields),
	9:  join(productBase, probFields, endTimeFields),
	10: join(productBase, percentileField, endTimeFields),
	11: join(productBase, ensembleFields, endTimeFields),
	12: join(productBase, derivedFields, endTimeFields),
	20: {1, 1, 1},
	30: {1, 1, 1, 1, 1},
}

var packingTemplates = map[int][]int{
	0:     {4, -2, -2, 1, 1},
	2:     {4, -2, -2, 1, 1, 1, 1, 4, 4, 4, 1, 1, 4, 1, 4, 1},
	3:     {4, -2, -2, 1, 1, 1, 1, 4, 4, 4, 1, 1, 4, 1, 4, 1, 1, 1},
	40:    {4, -2, -2, 1, 1, 1, 1},
	41:    {4, -2, -2, 1, 1},
	50:    {4, -2, -2, 1, 4},
	51:    {4, -2, -2, 1, -4, 2, 2, 2, 4, 1},
	40000: {4, -2, -2, 1, 1, 1, 1},
	40010: {4, -2, -2, 1, 1},
}

// octets fills an octet-indexed array from a raw section.
type octets struct {
	sec []byte
	is  []int32
	pos int
}

func newOctets(sec []byte, num int) *octets {
	n := len(sec)
	if n < minArrayLen[num] {
		n = minArrayLen[num]
	}
	o := &octets{sec: sec, is: make([]int32, n), pos: 5}
	o.is[0] = int32(beUint(sec[0:4]))
	o.is[4] = int32(num)
	return o
}

func (o *octets) put(widths ...int) error {
	for _, w := range widths {
		signed := w < 0
		if signed {
			w = -w
		}
		if o.pos+w > len(o.sec) {
			return fmt.Errorf("field at octet %d needs %d octets, section has %d: %w", o.pos+1, w, len(o.sec), ErrShortSection)
		}
		raw := beUint(o.sec[o.pos : o.pos+w])
		if signed {
			o.is[o.pos] = signMag(raw, w)
		} else {
			o.is[o.pos] = int32(uint32(raw))
		}
		o.pos += w
	}
	return nil
}

func beUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func signMag(raw uint64, n int) int32 {
	top := uint64(1) << (uint(n)*8 - 1)
	if raw&top != 0 {
		return -int32(raw &^ top)
	}
	return int32(raw)
}

func sectionOne(sec []byte) ([]int32, error) {
	o := newOctets(sec, 1)
	if err := o.put(2, 2, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1); err != nil {
		return nil, err
	}
	return o.is, nil
}

func sectionTwo(sec []byte) []int32 {
	o := newOctets(sec, 2)
	if len(sec) > 5 {
		o.is[5] = int32(sec[5])
	}
	if len(sec) > 7 {
		o.is[6] = int32(beUint(sec[6:8]))
	}
	return o.is
}

func sectionThree(sec []byte) ([]int32, int, error) {
	o := newOctets(sec, 3)
	if err := o.put(1, 4, 1, 1, 2); err != nil {
		return nil, 0, err
	}
	gdt := int(o.is[12])
	widths, ok := gridTemplates[gdt]
	if !ok {
		return nil, gdt, fmt.Errorf("grid definition template 3.%d: %w", gdt, ErrUnsupportedTemplate)
	}
	if err := o.put(widths...); err != nil {
		return nil, gdt, err
	}
	return o.is, gdt, nil
}

// intervalCountIndex is the array index of the number of time ranges in the
// statistical templates.
func intervalCountIndex(pdt int) int {
	return 9 + sum(productTemplates[pdt]) - 5
}

func sum(widths []int) int {
	n := 0
	for _, w := range widths {
		if w < 0 {
			w = -w
		}
		n += w
	}
	return n
}

func sectionFour(sec []byte) ([]int32, int, error) {
	o := newOctets(sec, 4)
	if err := o.put(2, 2); err != nil {
		return nil, 0, err
	}
	pdt := int(o.is[7])
	widths, ok := productTemplates[pdt]
	if !ok {
		return nil, pdt, fmt.Errorf("product definition template 4.%d: %w", pdt, ErrUnsupportedTemplate)
	}
	if err := o.put(widths...); err != nil {
		return nil, pdt, err
	}
	switch pdt {
	case 8, 9, 10, 11, 12:
		n := int(o.is[intervalCountIndex(pdt)])
		for i := 0; i < n; i++ {
			if err := o.put(intervalFields...); err != nil {
				return nil, pdt, fmt.Errorf("time range %d: %w", i, err)
			}
		}
	case 30:
		n := int(o.is[13])
		for i := 0; i < n; i++ {
			if err := o.put(bandFields...); err != nil {
				return nil, pdt, fmt.Errorf("band %d: %w", i, err)
			}
		}
	}
	return o.is, pdt, nil
}

func sectionFive(sec []byte) ([]int32, int, error) {
	o := newOctets(sec, 5)
	if err := o.put(4, 2); err != nil {
		return nil, 0, err
	}
	drt := int(o.is[9])
	widths, ok := packingTemplates[drt]
	if !ok {
		return nil, drt, fmt.Errorf("data representation template 5.%d: %w", drt, ErrUnsupportedTemplate)
	}
	if err := o.put(widths...); err != nil {
		return nil, drt, err
	}
	return o.is, drt, nil
}

func sectionSix(sec []byte) ([]int32, error) {
	o := newOctets(sec, 6)
	if err := o.put(1); err != nil {
		return nil, err
	}
	return o.is, nil
}
