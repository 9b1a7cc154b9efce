package meta

import (
	"github.com/pkg/errors"

	"github.com/sdifrance/degrib2/weather"
)

// ParseSect2Wx builds the weather table of an NDFD weather grid from unpacked
// local use data. Each integer group holds character codes; a 0 ends one
// phrase. Weather tables carry no float data.
func ParseSect2Wx(rdat []float32, idat []int32, p weather.Parser) (*weather.Table, error) {
	if len(rdat) > 0 && rdat[0] != 0 {
		return nil, structural(2, ErrBadValue, "weather table has float data")
	}
	var (
		phrases []string
		buf     []byte
	)
	loc := 0
	for loc < len(idat) && idat[loc] != 0 {
		groupLen := int(idat[loc])
		loc += 2 // count and scale
		if groupLen < 0 || loc+groupLen > len(idat) {
			return nil, structural(2, ErrTooShort, "group of %d codes at %d, have %d", groupLen, loc, len(idat))
		}
		for _, c := range idat[loc : loc+groupLen] {
			if c == 0 {
				phrases = append(phrases, string(buf))
				buf = buf[:0]
				continue
			}
			if c < 0 || c > 255 {
				return nil, structural(2, ErrBadValue, "character code %d", c)
			}
			buf = append(buf, byte(c))
		}
		loc += groupLen
	}
	if len(buf) > 0 {
		phrases = append(phrases, string(buf))
	}
	return weather.NewTable(phrases, p), nil
}

// ParseSect2Unknown flattens unpacked local use data of any other element:
// every float group followed by every integer group.
func ParseSect2Unknown(rdat []float32, idat []int32) ([]float64, error) {
	var out []float64
	loc := 0
	for loc < len(rdat) && rdat[loc] != 0 {
		n := int(rdat[loc])
		loc += 2
		if n < 0 || loc+n > len(rdat) {
			return nil, errors.Wrapf(ErrTooShort, "float group of %d at %d, have %d", n, loc, len(rdat))
		}
		for _, v := range rdat[loc : loc+n] {
			out = append(out, float64(v))
		}
		loc += n
	}
	loc = 0
	for loc < len(idat) && idat[loc] != 0 {
		n := int(idat[loc])
		loc += 2
		if n < 0 || loc+n > len(idat) {
			return nil, errors.Wrapf(ErrTooShort, "integer group of %d at %d, have %d", n, loc, len(idat))
		}
		for _, v := range idat[loc : loc+n] {
			out = append(out, float64(v))
		}
		loc += n
	}
	return out, nil
}
