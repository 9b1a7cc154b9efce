// Package meta turns the octet-indexed section arrays of a GRIB2 field into
// structured metadata: identification, grid definition, product definition
// and data representation, plus element, level and unit names.
package meta

import (
	"time"

	"github.com/sdifrance/degrib2/grid"
	"github.com/sdifrance/degrib2/weather"
)

// Values GRIB2 uses to mark a field as missing, after sign-magnitude
// decoding.
const (
	MissingS1 = -127
	MissingS4 = -2147483647
	MissingU1 = 255
	MissingU2 = 65535
)

// Grid definition templates, Table 3.1.
const (
	ProjLatLon         = 0
	ProjMercator       = 10
	ProjPolar          = 20
	ProjLambert        = 30
	ProjGaussian       = 40
	ProjOrthographic   = 90
	ProjEquatorEquidis = 110
	ProjAzimuthRange   = 120
)

// GDS is the grid definition (Section 3).
type GDS struct {
	NumPts   int
	ProjType int
	FSphere  bool
	// Earth axes in km.
	MajEarth float64
	MinEarth float64
	Nx, Ny   int

	Lat1, Lon1 float64
	Lat2, Lon2 float64
	Dx, Dy     float64
	ResFlag    uint8
	Scan       uint8

	MeshLat       float64
	OrientLon     float64
	Center        uint8
	ScaleLat1     float64
	ScaleLat2     float64
	SouthLat      float64
	SouthLon      float64
	StretchFactor float64
}

// Interval is one statistical time range of templates 4.8 to 4.12.
type Interval struct {
	ProcessID     int
	IncrType      int
	TimeRangeUnit int
	LenTime       int
	IncrUnit      int
	TimeIncr      int
}

// Band is one satellite spectral band of template 4.30.
type Band struct {
	Series      int
	Numbers     int
	InstType    int
	CentWaveNum float64
}

// Limit is a scaled probability threshold.
type Limit struct {
	Factor int
	Value  int
}

// Float returns the threshold value.
func (l Limit) Float() float64 {
	return float64(l.Value) / pow10(l.Factor)
}

// Sect4 is the product definition (Section 4).
type Sect4 struct {
	Templat    int
	Cat        int
	Subcat     int
	GenProcess int
	BgGenID    int
	GenID      int

	FValidCutOff bool
	CutOff       int // seconds

	ForeSec   float64
	ValidTime time.Time

	FstSurfType  int
	FstSurfScale int
	FstSurfValue float64
	FFstValue    bool
	SndSurfType  int
	SndSurfScale int
	SndSurfValue float64
	FSndValue    bool

	TypeEnsemble int
	PerturbNum   int
	NumberFcsts  int
	DerivedFcst  int
	Percentile   int

	ForeProbNum  int
	NumForeProbs int
	ProbType     int
	LowerLimit   Limit
	UpperLimit   Limit

	NumMissing int
	Intervals  []Interval
	Bands      []Band
}

// Sect2 is the decoded local use section. At most one of Wx and Unknown is
// set: Wx for weather grids, Unknown otherwise.
type Sect2 struct {
	Wx      *weather.Table
	Unknown []float64
}

// PDS2 gathers sections 0, 1, 2 and 4.
type PDS2 struct {
	ProdType    int // discipline
	Center      int
	Subcenter   int
	MstrVersion int
	LclVersion  int
	SigTime     int
	RefTime     time.Time
	OperStatus  int
	DataType    int

	FSect2         bool
	Sect2NumGroups int
	Sect2          Sect2
	Sect4          Sect4
}

// Record is the metadata of one field.
type Record struct {
	Element string
	Comment string
	Unit    string
	Convert UnitConvert

	ShortFstLevel string
	LongFstLevel  string

	PDS2       PDS2
	GDS        GDS
	GridAttrib grid.Attrib
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{}
}

// Free releases the record's sub-allocations, leaving it ready for reuse.
func (r *Record) Free() {
	r.Sect2Free()
	r.PDS2.Sect4.Intervals = nil
	r.PDS2.Sect4.Bands = nil
	*r = Record{}
}

// Sect2Free releases the local use data, including the weather table.
func (r *Record) Sect2Free() {
	r.PDS2.Sect2.Wx.Free()
	r.PDS2.Sect2 = Sect2{}
}

// IsWeather reports whether the field is an NDFD weather grid.
func (r *Record) IsWeather() bool {
	return r.Element == "Wx"
}
