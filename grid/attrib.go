// Package grid rebuilds a decoded GRIB2 field into a 2-D grid in canonical
// scan order, applying unit conversion, missing value handling, bitmaps and
// weather table bookkeeping.
package grid

// Missing value management, Code table 5.5.
const (
	NoMissing        = 0
	PrimaryMissing   = 1
	SecondaryMissing = 2
)

// Field types, Code table 5.1.
const (
	FieldFloat   = 0
	FieldInteger = 1
)

// BitmapMissing is the sentinel given to bitmap-masked cells when the field
// declares no missing value of its own.
const BitmapMissing = 9999

// LogScale as the unit multiplier selects 10^value instead of a linear
// conversion.
const LogScale = -10

// Attrib describes the packing of a field and summarizes its assembled grid.
type Attrib struct {
	PackType  int
	RefVal    float32
	ESF       int
	DSF       int
	FieldType int

	// FMiss is the missing value management flag, one of NoMissing,
	// PrimaryMissing or SecondaryMissing.
	FMiss   int
	MissPri float64
	MissSec float64

	// FMaxMin is set once Min and Max hold at least one valid value.
	FMaxMin bool
	Min     float64
	Max     float64
	NumMiss int
}

// isMissing reports whether v is one of the active sentinels.
func (a *Attrib) isMissing(v float64) bool {
	switch a.FMiss {
	case PrimaryMissing:
		return v == a.MissPri
	case SecondaryMissing:
		return v == a.MissPri || v == a.MissSec
	}
	return false
}

func (a *Attrib) observe(v float64) {
	if !a.FMaxMin {
		a.Min, a.Max = v, v
		a.FMaxMin = true
		return
	}
	if v < a.Min {
		a.Min = v
	}
	if v > a.Max {
		a.Max = v
	}
}

func (a *Attrib) inRange(v float64) bool {
	return a.FMaxMin && v >= a.Min && v <= a.Max
}
