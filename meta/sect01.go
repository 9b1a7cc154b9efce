package meta

import (
	"github.com/golang/glog"
)

// GRIBMagic is "GRIB" read as a big-endian 32-bit integer.
const GRIBMagic = 1196575042

// ParseSect0 checks the indicator section.
//
//	is0[0]  "GRIB"
//	is0[6]  discipline, Code table 0.0
//	is0[7]  edition, must be 2
//	is0[8]  total message length
func ParseSect0(is0 []int32, gribLen int, rec *Record) error {
	if len(is0) < 9 {
		return tooShort(0, len(is0), 9)
	}
	if is0[0] != GRIBMagic {
		return structural(0, ErrBadValue, "magic %#x", uint32(is0[0]))
	}
	if is0[7] != 2 {
		return structural(0, ErrBadValue, "edition %d", is0[7])
	}
	if int(uint32(is0[8])) != gribLen {
		return structural(0, ErrBadValue, "declared length %d, message length %d", uint32(is0[8]), gribLen)
	}
	rec.PDS2.ProdType = int(is0[6])
	return nil
}

// ParseSect1 reads the identification section: originating centre, table
// versions and the reference time.
func ParseSect1(is1 []int32, rec *Record) error {
	if err := checkLabel(1, is1, 21); err != nil {
		return err
	}
	rec.PDS2.Center = int(is1[5])
	rec.PDS2.Subcenter = int(is1[7])
	rec.PDS2.MstrVersion = int(is1[9])
	rec.PDS2.LclVersion = int(is1[10])
	if mstr, lcl := rec.PDS2.MstrVersion, rec.PDS2.LclVersion; mstr < 1 || mstr > 3 || lcl > 1 {
		if mstr != 0 {
			return structural(1, ErrBadValue, "master table version %d, local table version %d", mstr, lcl)
		}
		glog.Warningf("master table version 0 (experimental), local table version %d; decoding anyway", lcl)
	}
	rec.PDS2.SigTime = int(is1[11])
	ref, err := ParseTime(int(is1[12]), int(is1[14]), int(is1[15]), int(is1[16]), int(is1[17]), int(is1[18]))
	if err != nil {
		return structural(1, err, "reference time")
	}
	rec.PDS2.RefTime = ref
	rec.PDS2.OperStatus = int(is1[19])
	rec.PDS2.DataType = int(is1[20])
	return nil
}
