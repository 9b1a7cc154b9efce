package meta

import (
	"math"

	"github.com/sdifrance/degrib2/grid"
)

// Data representation templates, Table 5.0.
const (
	DRTSimple         = 0
	DRTComplex        = 2
	DRTComplexSpatial = 3
	DRTJPEG2000       = 40
	DRTPNG            = 41
	DRTSpectral       = 50
	DRTSpectralCmplx  = 51
	DRTJPEG2000Local  = 40000
	DRTPNGLocal       = 40010
)

// ParseSect5 reads the data representation into rec.GridAttrib.
//
//	is5[9]   template number
//	is5[11]  reference value, IEEE 32-bit float
//	is5[15]  binary scale factor    is5[17]  decimal scale factor
//	is5[20]  type of original field values, Code table 5.1
//	is5[22]  missing value management (5.2, 5.3)
//	is5[23]  primary missing value  is5[27]  secondary missing value
func ParseSect5(is5 []int32, rec *Record) error {
	if err := checkLabel(5, is5, 21); err != nil {
		return err
	}
	attrib := &rec.GridAttrib
	attrib.PackType = int(is5[9])
	attrib.RefVal = math.Float32frombits(uint32(is5[11]))
	attrib.ESF = int(is5[15])
	attrib.DSF = int(is5[17])
	attrib.FMiss = grid.NoMissing
	attrib.MissPri, attrib.MissSec = 0, 0

	switch attrib.PackType {
	case DRTSpectral, DRTSpectralCmplx:
		// octet 21 starts the real part of the first coefficient
		attrib.FieldType = grid.FieldFloat
		return nil
	case DRTSimple, DRTComplex, DRTComplexSpatial, DRTJPEG2000, DRTPNG, DRTJPEG2000Local, DRTPNGLocal:
	default:
		return unsupported(5, "data representation template 5.%d", attrib.PackType)
	}

	if is5[20] != grid.FieldFloat && is5[20] != grid.FieldInteger {
		return structural(5, ErrBadValue, "type of original field values %d", is5[20])
	}
	attrib.FieldType = int(is5[20])
	if attrib.PackType != DRTComplex && attrib.PackType != DRTComplexSpatial {
		return nil
	}

	if len(is5) < 31 {
		return tooShort(5, len(is5), 31)
	}
	if is5[22] > grid.SecondaryMissing {
		return structural(5, ErrBadValue, "missing value management %d", is5[22])
	}
	attrib.FMiss = int(is5[22])
	if attrib.FMiss == grid.NoMissing {
		return nil
	}
	attrib.MissPri = missingValue(is5[23], attrib.FieldType)
	if attrib.FMiss == grid.SecondaryMissing {
		attrib.MissSec = missingValue(is5[27], attrib.FieldType)
	}
	return nil
}

func missingValue(raw int32, fieldType int) float64 {
	if fieldType == grid.FieldFloat {
		return float64(math.Float32frombits(uint32(raw)))
	}
	return float64(raw)
}
