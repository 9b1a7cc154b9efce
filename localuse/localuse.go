// Package localuse unpacks the MDL group-packed payload of a GRIB2 local-use
// section (Section 2).
//
// Layout, octets counted from the start of the local-use data:
//
//	1      packing flag, 1 for MDL group packing
//	2-3    number of groups
//	then, for each group:
//	1-4    number of values
//	5-8    reference value (IEEE float)
//	9-10   decimal scale factor
//	11     bits per value
//	12     data type, 0 = float, otherwise integer
//	13-    packed values, ceil(bits*values/8) octets
//
// The unpacked arrays hold, for each group, the value count, the scale
// factor and the values, followed by a single 0 after the last group.
package localuse

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/sdifrance/degrib2/internal/bitio"
)

// FlagGroupPacked is the first octet of an MDL group-packed section.
const FlagGroupPacked = 1

const (
	headerLen     = 3
	descriptorLen = 12
	// each group writes a count and a scale before its values, plus the
	// terminator after the last group
	groupOverhead = 3
)

var (
	// ErrMixedType is returned when groups disagree on float vs integer.
	ErrMixedType = errors.New("local use groups mix float and integer data")
	// ErrFloatCapacity is returned when the float output is too small.
	ErrFloatCapacity = errors.New("float output array too small")
	// ErrIntCapacity is returned when the integer output is too small.
	ErrIntCapacity = errors.New("integer output array too small")
	// ErrTooManyBits is returned for a group wider than 31 bits per value.
	ErrTooManyBits = errors.New("local use group uses 32 or more bits per value")
	// ErrShortLocal is returned when the section ends before a header,
	// descriptor or payload is complete.
	ErrShortLocal = errors.New("local use section too small")
	// ErrFlag is returned for a packing flag other than FlagGroupPacked.
	ErrFlag = errors.New("unknown local use packing flag")
)

// IsCapacity reports whether err means the caller's output arrays were too
// small, in which case the unpack may be retried with larger arrays.
func IsCapacity(err error) bool {
	return errors.Is(err, ErrFloatCapacity) || errors.Is(err, ErrIntCapacity)
}

// Unpack decodes local into idat (integer groups) or rdat (float groups).
// The unused array keeps a 0 in its first slot.
func Unpack(local []byte, idat []int32, rdat []float32) error {
	if len(local) < headerLen {
		return fmt.Errorf("header needs %d octets, have %d: %w", headerLen, len(local), ErrShortLocal)
	}
	if local[0] != FlagGroupPacked {
		return fmt.Errorf("flag %d: %w", local[0], ErrFlag)
	}
	if len(idat) < 1 {
		return ErrIntCapacity
	}
	if len(rdat) < 1 {
		return ErrFloatCapacity
	}
	idat[0] = 0
	rdat[0] = 0

	numGroup := int(binary.BigEndian.Uint16(local[1:3]))
	used := headerLen
	firstType := byte(0)
	curI, curR := 0, 0
	for j := 0; j < numGroup; j++ {
		if len(local) < used+descriptorLen {
			return fmt.Errorf("group %d descriptor at octet %d: %w", j, used, ErrShortLocal)
		}
		d := local[used : used+descriptorLen]
		numVal := int(binary.BigEndian.Uint32(d[0:4]))
		refVal := float64(math.Float32frombits(binary.BigEndian.Uint32(d[4:8])))
		scale := int(binary.BigEndian.Uint16(d[8:10]))
		numBits := int(d[10])
		dataType := d[11]
		used += descriptorLen

		if numBits >= bitio.MaxBits {
			return fmt.Errorf("group %d: %d bits: %w", j, numBits, ErrTooManyBits)
		}
		if j == 0 {
			firstType = dataType
		} else if (dataType == 0) != (firstType == 0) {
			return fmt.Errorf("group %d type %d, group 0 type %d: %w", j, dataType, firstType, ErrMixedType)
		}
		payload := (int64(numBits)*int64(numVal) + 7) / 8
		if int64(len(local)) < int64(used)+payload {
			return fmt.Errorf("group %d payload needs %d octets at octet %d: %w", j, payload, used, ErrShortLocal)
		}

		recScale := math.Pow10(-scale)
		r := bitio.NewReader(local[used : used+int(payload)])
		if dataType == 0 {
			if len(rdat) < curR+numVal+groupOverhead {
				return fmt.Errorf("group %d needs %d floats, have %d: %w", j, curR+numVal+groupOverhead, len(rdat), ErrFloatCapacity)
			}
			rdat[curR] = float32(numVal)
			rdat[curR+1] = float32(scale)
			curR += 2
			for i := 0; i < numVal; i++ {
				code, _, err := r.Read(numBits)
				if err != nil {
					return fmt.Errorf("group %d value %d: %w", j, i, err)
				}
				rdat[curR] = float32((refVal + float64(code)) * recScale)
				curR++
			}
			rdat[curR] = 0
		} else {
			if len(idat) < curI+numVal+groupOverhead {
				return fmt.Errorf("group %d needs %d integers, have %d: %w", j, curI+numVal+groupOverhead, len(idat), ErrIntCapacity)
			}
			idat[curI] = int32(numVal)
			idat[curI+1] = int32(scale)
			curI += 2
			for i := 0; i < numVal; i++ {
				code, _, err := r.Read(numBits)
				if err != nil {
					return fmt.Errorf("group %d value %d: %w", j, i, err)
				}
				idat[curI] = int32((refVal + float64(code)) * recScale)
				curI++
			}
			idat[curI] = 0
		}
		used += int(payload)
	}
	return nil
}
