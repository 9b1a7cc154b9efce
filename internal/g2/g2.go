// Package g2 is the general purpose GRIB2 field decoder.
//
// It splits a message into its sections, expands each section into an
// octet-indexed integer array (element i holds the field starting at octet
// i+1, multi-octet fields stored at their first octet) and unpacks the data
// section into a float array covering every grid point.
//
// Section layout of a GRIB2 message:
//
//	0  Indicator: "GRIB", discipline, edition 2, total length
//	1  Identification
//	2  Local use (optional, repeatable)
//	3  Grid definition (repeatable)
//	4  Product definition (repeatable)
//	5  Data representation (repeatable)
//	6  Bitmap (repeatable)
//	7  Data (repeatable, one per field)
//	8  "7777"
package g2

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic numbers of the first and last octets of a message.
const (
	GRIB    = 0x47524942 // "GRIB"
	EndMark = 0x37373737 // "7777"
)

// MaxPoints bounds the number of grid points of a field.
const MaxPoints = 1 << 27

// Bitmap indicators, Code table 6.0.
const (
	BitmapPresent  = 0
	BitmapPrevious = 254
	BitmapNone     = 255
)

var (
	// ErrNotGRIB2 is returned when the message is not a GRIB edition 2 message.
	ErrNotGRIB2 = errors.New("not a GRIB2 message")
	// ErrShortSection is returned when a section ends before its template does.
	ErrShortSection = errors.New("section too short")
	// ErrUnsupportedTemplate is returned for templates this decoder cannot read.
	ErrUnsupportedTemplate = errors.New("unsupported template")
	// ErrFieldNotFound is returned when the message holds fewer fields.
	ErrFieldNotFound = errors.New("field not found in message")
	// ErrBadLength is returned for section lengths that overrun the message.
	ErrBadLength = errors.New("bad section length")
	// ErrMissingSection is returned when a field lacks a required section.
	ErrMissingSection = errors.New("required section missing")
	// ErrUnpack is returned when the data section cannot be unpacked.
	ErrUnpack = errors.New("cannot unpack data")
)

// Error ties a decoding failure to the section it occurred in.
type Error struct {
	Section int
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("section %d: %v", e.Section, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func sectionErr(num int, err error) error {
	return &Error{Section: num, Err: err}
}

// Info summarizes a message.
type Info struct {
	Discipline int
	Edition    int
	Length     int
	NumFields  int
	NumLocal   int
}

type indicator struct {
	discipline int
	edition    int
	length     int
}

func readIndicator(msg []byte) (indicator, error) {
	if len(msg) < 16 {
		return indicator{}, sectionErr(0, fmt.Errorf("%d octets: %w", len(msg), ErrNotGRIB2))
	}
	if got := binary.BigEndian.Uint32(msg[0:4]); got != GRIB {
		return indicator{}, sectionErr(0, fmt.Errorf("first four octets %q: %w", msg[0:4], ErrNotGRIB2))
	}
	ind := indicator{
		discipline: int(msg[6]),
		edition:    int(msg[7]),
		length:     int(binary.BigEndian.Uint64(msg[8:16])),
	}
	if ind.edition != 2 {
		return ind, sectionErr(0, fmt.Errorf("edition %d: %w", ind.edition, ErrNotGRIB2))
	}
	if ind.length > len(msg) || ind.length < 20 {
		return ind, sectionErr(0, fmt.Errorf("declared length %d, have %d octets: %w", ind.length, len(msg), ErrBadLength))
	}
	return ind, nil
}

// section is one raw section of a message.
type section struct {
	num  int
	data []byte
}

// walk calls fn for each section after the indicator, stopping at the end
// marker or when fn returns false.
func walk(msg []byte, ind indicator, fn func(section) (bool, error)) error {
	off := 16
	for {
		if off+4 > ind.length {
			return sectionErr(8, fmt.Errorf("no end marker before octet %d: %w", ind.length, ErrBadLength))
		}
		if binary.BigEndian.Uint32(msg[off:off+4]) == EndMark {
			if off+4 != ind.length {
				return sectionErr(8, fmt.Errorf("end marker at octet %d, message length %d: %w", off+1, ind.length, ErrBadLength))
			}
			return nil
		}
		if off+5 > ind.length {
			return sectionErr(8, fmt.Errorf("truncated section header at octet %d: %w", off+1, ErrBadLength))
		}
		n := int(binary.BigEndian.Uint32(msg[off : off+4]))
		num := int(msg[off+4])
		if num < 1 || num > 7 {
			return sectionErr(num, fmt.Errorf("section number %d at octet %d: %w", num, off+1, ErrBadLength))
		}
		if n < 5 || off+n > ind.length {
			return sectionErr(num, fmt.Errorf("length %d at octet %d: %w", n, off+1, ErrBadLength))
		}
		more, err := fn(section{num: num, data: msg[off : off+n]})
		if err != nil || !more {
			return err
		}
		off += n
	}
}

// Inspect validates the section structure of msg and counts its fields.
func Inspect(msg []byte) (Info, error) {
	ind, err := readIndicator(msg)
	if err != nil {
		return Info{}, err
	}
	info := Info{Discipline: ind.discipline, Edition: ind.edition, Length: ind.length}
	err = walk(msg, ind, func(s section) (bool, error) {
		switch s.num {
		case 2:
			info.NumLocal++
		case 7:
			info.NumFields++
		}
		return true, nil
	})
	if err != nil {
		return info, err
	}
	return info, nil
}

// Field is one decoded field of a message.
type Field struct {
	Discipline int

	// Sections holds the octet-indexed arrays of sections 0 to 7. Section 2
	// is nil when the message has no local use section.
	Sections [8][]int32
	// Local holds the local use data, starting at octet 6 of Section 2.
	Local []byte

	GridTemplate    int
	ProductTemplate int
	PackTemplate    int

	// NumPoints is the number of grid points; NumData the number of packed
	// values, which is smaller when a bitmap masks points.
	NumPoints int
	NumData   int

	// Data holds one value per grid point in storage order. Points masked by
	// the bitmap are 0.
	Data []float32
	// Bitmap is nil when every point is present, otherwise 1 marks a present
	// point and 0 an absent one.
	Bitmap []uint8

	dataBuf *[]float32
	maskBuf *[]uint8
}

// GetField decodes the n-th field (1-based) of msg. Sections 2 to 6 carry
// over from earlier fields until replaced. Call Release when done with the
// field.
func GetField(msg []byte, n int) (*Field, error) {
	ind, err := readIndicator(msg)
	if err != nil {
		return nil, err
	}
	var (
		secs       [8][]byte
		lastBitmap []byte
		count      int
		field      *Field
	)
	err = walk(msg, ind, func(s section) (bool, error) {
		secs[s.num] = s.data
		switch s.num {
		case 6:
			if len(s.data) > 5 && s.data[5] == BitmapPresent {
				lastBitmap = s.data
			}
		case 7:
			count++
			if count != n {
				return true, nil
			}
			f, err := buildField(ind, secs, lastBitmap)
			if err != nil {
				return false, err
			}
			field = f
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, sectionErr(8, fmt.Errorf("field %d of %d: %w", n, count, ErrFieldNotFound))
	}
	return field, nil
}

func indicatorArray(ind indicator) []int32 {
	is0 := make([]int32, minArrayLen[0])
	is0[0] = int32(uint32(GRIB))
	is0[6] = int32(ind.discipline)
	is0[7] = int32(ind.edition)
	is0[8] = int32(uint32(ind.length))
	return is0
}

func buildField(ind indicator, secs [8][]byte, lastBitmap []byte) (f *Field, err error) {
	for _, num := range []int{1, 3, 4, 5, 6} {
		if secs[num] == nil {
			return nil, sectionErr(num, ErrMissingSection)
		}
	}
	field := &Field{Discipline: ind.discipline}
	defer func() {
		if err != nil {
			field.Release()
		}
	}()
	f = field
	f.Sections[0] = indicatorArray(ind)
	if f.Sections[1], err = sectionOne(secs[1]); err != nil {
		return nil, sectionErr(1, err)
	}
	if secs[2] != nil {
		f.Sections[2] = sectionTwo(secs[2])
		f.Local = secs[2][5:]
	}
	if f.Sections[3], f.GridTemplate, err = sectionThree(secs[3]); err != nil {
		return nil, sectionErr(3, err)
	}
	if f.Sections[4], f.ProductTemplate, err = sectionFour(secs[4]); err != nil {
		return nil, sectionErr(4, err)
	}
	if f.Sections[5], f.PackTemplate, err = sectionFive(secs[5]); err != nil {
		return nil, sectionErr(5, err)
	}
	if f.Sections[6], err = sectionSix(secs[6]); err != nil {
		return nil, sectionErr(6, err)
	}
	f.Sections[7] = newOctets(secs[7], 7).is

	f.NumPoints = int(uint32(f.Sections[3][6]))
	f.NumData = int(uint32(f.Sections[5][5]))
	if err := f.checkCounts(len(secs[7]) - 5); err != nil {
		return nil, err
	}

	values := getFloats(f.NumData)
	defer floatPool.Put(values)
	if err := unpack(f.PackTemplate, f.Sections[5], secs[7][5:], *values); err != nil {
		return nil, sectionErr(7, err)
	}

	bm := secs[6]
	switch flag := int(bm[5]); flag {
	case BitmapNone:
		if f.NumData != f.NumPoints {
			return nil, sectionErr(6, fmt.Errorf("%d values for %d points without bitmap: %w", f.NumData, f.NumPoints, ErrUnpack))
		}
		f.dataBuf = getFloats(f.NumPoints)
		f.Data = *f.dataBuf
		copy(f.Data, *values)
		return f, nil
	case BitmapPrevious:
		if lastBitmap == nil {
			return nil, sectionErr(6, fmt.Errorf("bitmap indicator 254 with no earlier bitmap: %w", ErrMissingSection))
		}
		bm = lastBitmap
	case BitmapPresent:
	default:
		return nil, sectionErr(6, fmt.Errorf("predefined bitmap %d: %w", flag, ErrUnsupportedTemplate))
	}
	if err := f.expand(bm[6:], *values); err != nil {
		return nil, sectionErr(6, err)
	}
	return f, nil
}

// checkCounts validates the declared point and value counts before any
// buffer is sized from them. dataLen is the length of the packed data.
func (f *Field) checkCounts(dataLen int) error {
	if f.NumPoints > MaxPoints {
		return sectionErr(3, fmt.Errorf("%d grid points, limit %d: %w", f.NumPoints, MaxPoints, ErrBadLength))
	}
	if f.NumData > f.NumPoints {
		return sectionErr(5, fmt.Errorf("%d values for %d grid points: %w", f.NumData, f.NumPoints, ErrBadLength))
	}
	if f.PackTemplate == 0 {
		nbits := int64(f.Sections[5][19])
		if need := (nbits*int64(f.NumData) + 7) / 8; need > int64(dataLen) {
			return sectionErr(7, fmt.Errorf("%d values of %d bits need %d octets, have %d: %w", f.NumData, nbits, need, dataLen, ErrShortSection))
		}
	}
	return nil
}

// expand spreads values over the grid points marked present in bits.
func (f *Field) expand(bits []byte, values []float32) error {
	if len(bits)*8 < f.NumPoints {
		return fmt.Errorf("bitmap covers %d of %d points: %w", len(bits)*8, f.NumPoints, ErrShortSection)
	}
	f.maskBuf = getMask(f.NumPoints)
	f.Bitmap = *f.maskBuf
	f.dataBuf = getFloats(f.NumPoints)
	f.Data = *f.dataBuf
	k := 0
	for i := 0; i < f.NumPoints; i++ {
		if bits[i/8]&(0x80>>uint(i%8)) == 0 {
			f.Bitmap[i] = 0
			continue
		}
		if k >= len(values) {
			return fmt.Errorf("bitmap marks more than %d points: %w", len(values), ErrUnpack)
		}
		f.Bitmap[i] = 1
		f.Data[i] = values[k]
		k++
	}
	return nil
}

func unpack(drt int, is5 []int32, data []byte, out []float32) error {
	p := newPacking(is5)
	switch drt {
	case 0:
		return unpackSimple(p, data, out)
	case 2, 3:
		return unpackComplex(p, drt, is5, data, out)
	case 41, 40010:
		return unpackPNG(p, data, out)
	case 50:
		return unpackSpectral(p, is5, data, out)
	}
	return fmt.Errorf("data representation template 5.%d: %w", drt, ErrUnsupportedTemplate)
}
