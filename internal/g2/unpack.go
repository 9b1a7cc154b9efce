package g2

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/sdifrance/degrib2/internal/bitio"
)

// packing holds the Section 5 fields shared by every data template.
type packing struct {
	ref    float64
	bscale float64 // 2^E
	dscale float64 // 10^-D
	nbits  int
}

func newPacking(is5 []int32) packing {
	return packing{
		ref:    float64(math.Float32frombits(uint32(is5[11]))),
		bscale: math.Pow(2, float64(is5[15])),
		dscale: math.Pow10(-int(is5[17])),
		nbits:  int(is5[19]),
	}
}

func (p packing) value(code int64) float32 {
	return float32((float64(code)*p.bscale + p.ref) * p.dscale)
}

// unpackSimple decodes template 5.0: Y = (R + X * 2^E) * 10^-D.
func unpackSimple(p packing, data []byte, out []float32) error {
	if p.nbits == 0 {
		v := float32(p.ref * p.dscale)
		for i := range out {
			out[i] = v
		}
		return nil
	}
	r := bitio.NewReader(data)
	for i := range out {
		code, _, err := r.Read(p.nbits)
		if err != nil {
			return fmt.Errorf("value %d of %d: %w", i, len(out), err)
		}
		out[i] = p.value(int64(code))
	}
	return nil
}

// unpackSpectral decodes template 5.50: the first coefficient is stored as a
// float in Section 5, the rest are simple packed.
func unpackSpectral(p packing, is5 []int32, data []byte, out []float32) error {
	if len(out) == 0 {
		return nil
	}
	out[0] = math.Float32frombits(uint32(is5[20]))
	return unpackSimple(p, data, out[1:])
}

// unpackPNG decodes templates 5.41 and 5.40010. Each pixel holds one packed
// code; 24 and 32 bit codes are spread over the colour channels.
func unpackPNG(p packing, data []byte, out []float32) error {
	if p.nbits == 0 {
		return unpackSimple(p, nil, out)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("png: %w", err)
	}
	b := img.Bounds()
	if b.Dx()*b.Dy() < len(out) {
		return fmt.Errorf("png holds %d pixels, want %d: %w", b.Dx()*b.Dy(), len(out), ErrUnpack)
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y && i < len(out); y++ {
		for x := b.Min.X; x < b.Max.X && i < len(out); x++ {
			code, err := pixelCode(img, x, y, p.nbits)
			if err != nil {
				return err
			}
			out[i] = p.value(code)
			i++
		}
	}
	return nil
}

func pixelCode(img image.Image, x, y, nbits int) (int64, error) {
	switch m := img.(type) {
	case *image.Gray:
		v := int64(m.GrayAt(x, y).Y)
		if nbits < 8 {
			// the png decoder spreads low bit depths over 0..255
			v >>= uint(8 - nbits)
		}
		return v, nil
	case *image.Gray16:
		return int64(m.Gray16At(x, y).Y), nil
	case *image.RGBA:
		c := m.RGBAAt(x, y)
		return int64(c.R)<<16 | int64(c.G)<<8 | int64(c.B), nil
	case *image.NRGBA:
		c := m.NRGBAAt(x, y)
		return int64(c.R)<<24 | int64(c.G)<<16 | int64(c.B)<<8 | int64(c.A), nil
	}
	return 0, fmt.Errorf("png colour model %T: %w", img, ErrUnpack)
}

// missing value codes of a complex packed field
const (
	present = iota
	missingPrimary
	missingSecondary
)

// unpackComplex decodes templates 5.2 and 5.3.
func unpackComplex(p packing, drt int, is5 []int32, data []byte, out []float32) error {
	ngroups := int(uint32(is5[31]))
	mtype := int(is5[22])
	nbitsgref := p.nbits
	refWidth := int64(is5[35])
	nbitsgwidth := int(is5[36])
	refLen := int64(uint32(is5[37]))
	lenInc := int64(is5[41])
	lastLen := int64(uint32(is5[42]))
	nbitsglen := int(is5[46])

	rmiss1, rmiss2 := missingValues(is5)
	if ngroups == 0 {
		for i := range out {
			if mtype == 1 || mtype == 2 {
				out[i] = rmiss1
			} else {
				out[i] = p.value(0)
			}
		}
		return nil
	}

	r := bitio.NewReader(data)
	var ival1, ival2, minsd int64
	order := 0
	if drt == 3 {
		order = int(is5[47])
		nbitsd := int(is5[48]) * 8
		if nbitsd > 0 {
			var err error
			if ival1, err = readSigned(r, nbitsd); err != nil {
				return fmt.Errorf("first value: %w", err)
			}
			if order == 2 {
				if ival2, err = readSigned(r, nbitsd); err != nil {
					return fmt.Errorf("second value: %w", err)
				}
			}
			if minsd, err = readSigned(r, nbitsd); err != nil {
				return fmt.Errorf("overall minimum: %w", err)
			}
		} else {
			order = 0
		}
	}

	gref, err := readGroupCodes(r, ngroups, nbitsgref)
	if err != nil {
		return fmt.Errorf("group references: %w", err)
	}
	gwidth, err := readGroupCodes(r, ngroups, nbitsgwidth)
	if err != nil {
		return fmt.Errorf("group widths: %w", err)
	}
	for j := range gwidth {
		gwidth[j] += refWidth
	}
	glen, err := readGroupCodes(r, ngroups, nbitsglen)
	if err != nil {
		return fmt.Errorf("group lengths: %w", err)
	}
	total := int64(0)
	for j := range glen {
		glen[j] = glen[j]*lenInc + refLen
	}
	glen[ngroups-1] = lastLen
	for _, l := range glen {
		total += l
	}
	if total != int64(len(out)) {
		return fmt.Errorf("group lengths sum to %d, want %d: %w", total, len(out), ErrUnpack)
	}

	ifld := make([]int64, 0, len(out))
	miss := make([]uint8, len(out))
	n := 0
	for j := 0; j < ngroups; j++ {
		width := int(gwidth[j])
		if width > bitio.MaxBits {
			return fmt.Errorf("group %d width %d: %w", j, width, ErrUnpack)
		}
		msng1 := int64(1)<<uint(nbitsgref) - 1
		if width != 0 {
			msng1 = int64(1)<<uint(width) - 1
		}
		msng2 := msng1 - 1
		for k := int64(0); k < glen[j]; k++ {
			code := gref[j]
			if width != 0 {
				c, _, err := r.Read(width)
				if err != nil {
					return fmt.Errorf("group %d value %d: %w", j, k, err)
				}
				code = int64(c)
			}
			switch {
			case mtype >= 1 && code == msng1:
				miss[n] = missingPrimary
			case mtype == 2 && code == msng2:
				miss[n] = missingSecondary
			default:
				if width != 0 {
					code += gref[j]
				}
				ifld = append(ifld, code)
			}
			n++
		}
	}

	switch order {
	case 1:
		if len(ifld) > 0 {
			ifld[0] = ival1
		}
		for i := 1; i < len(ifld); i++ {
			ifld[i] += minsd + ifld[i-1]
		}
	case 2:
		if len(ifld) > 0 {
			ifld[0] = ival1
		}
		if len(ifld) > 1 {
			ifld[1] = ival2
		}
		for i := 2; i < len(ifld); i++ {
			ifld[i] += minsd + 2*ifld[i-1] - ifld[i-2]
		}
	}

	k := 0
	for i := range out {
		switch miss[i] {
		case missingPrimary:
			out[i] = rmiss1
		case missingSecondary:
			out[i] = rmiss2
		default:
			out[i] = p.value(ifld[k])
			k++
		}
	}
	return nil
}

// missingValues returns the primary and secondary missing values of a
// complex packed field, interpreted per the field type.
func missingValues(is5 []int32) (float32, float32) {
	if is5[20] == 0 {
		return math.Float32frombits(uint32(is5[23])), math.Float32frombits(uint32(is5[27]))
	}
	return float32(is5[23]), float32(is5[27])
}

func readSigned(r *bitio.Reader, nbits int) (int64, error) {
	sign, _, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	mag, _, err := r.Read(nbits - 1)
	if err != nil {
		return 0, err
	}
	if sign == 1 {
		return -int64(mag), nil
	}
	return int64(mag), nil
}

// readGroupCodes reads n codes of the given width and skips to the next
// octet boundary.
func readGroupCodes(r *bitio.Reader, n, width int) ([]int64, error) {
	out := make([]int64, n)
	for i := range out {
		c, _, err := r.Read(width)
		if err != nil {
			return nil, err
		}
		out[i] = int64(c)
	}
	r.Skip()
	return out, nil
}
