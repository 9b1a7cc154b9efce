package meta

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sdifrance/degrib2/grid"
)

var refTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// sect returns an n element section array labelled num with the given
// elements set. Elements past n are dropped.
func sect(num, n int, set map[int]int32) []int32 {
	is := make([]int32, n)
	if n > 4 {
		is[4] = int32(num)
	}
	for k, v := range set {
		if k < n {
			is[k] = v
		}
	}
	return is
}

func f32(v float32) int32 {
	return int32(math.Float32bits(v))
}

func sectionKind(t *testing.T, err error) *SectionError {
	t.Helper()
	var se *SectionError
	require.True(t, errors.As(err, &se), "got %v", err)
	return se
}

func TestParseSect0(t *testing.T) {
	good := func() []int32 {
		is0 := make([]int32, 16)
		is0[0] = GRIBMagic
		is0[6] = 10
		is0[7] = 2
		is0[8] = 200
		return is0
	}

	rec := NewRecord()
	require.NoError(t, ParseSect0(good(), 200, rec))
	require.Equal(t, 10, rec.PDS2.ProdType)

	for name, tc := range map[string]struct {
		is0     []int32
		gribLen int
		want    error
	}{
		"short":   {good()[:8], 200, ErrTooShort},
		"magic":   {func() []int32 { is := good(); is[0] = 1; return is }(), 200, ErrBadValue},
		"edition": {func() []int32 { is := good(); is[7] = 1; return is }(), 200, ErrBadValue},
		"length":  {good(), 199, ErrBadValue},
	} {
		t.Run(name, func(t *testing.T) {
			err := ParseSect0(tc.is0, tc.gribLen, NewRecord())
			require.ErrorIs(t, err, tc.want)
			require.Equal(t, 0, sectionKind(t, err).Section)
		})
	}
}

func sect1(mstr, lcl int32, mon int32) []int32 {
	return sect(1, 21, map[int]int32{
		5: 7, 7: 0, 9: mstr, 10: lcl, 11: 1,
		12: 2024, 14: mon, 15: 1, 16: 12, 17: 0, 18: 0,
		19: 0, 20: 1,
	})
}

func TestParseSect1(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, ParseSect1(sect1(2, 1, 3), rec))
	require.Equal(t, 7, rec.PDS2.Center)
	require.Equal(t, refTime, rec.PDS2.RefTime)
	require.Equal(t, 1, rec.PDS2.DataType)

	require.NoError(t, ParseSect1(sect1(0, 4, 3), NewRecord()), "experimental master table")

	err := ParseSect1(sect1(5, 0, 3), NewRecord())
	require.ErrorIs(t, err, ErrBadValue)

	err = ParseSect1(sect1(2, 0, 0), NewRecord())
	require.ErrorIs(t, err, ErrBadValue)
	require.Contains(t, err.Error(), "month 0")

	is1 := sect1(2, 0, 3)
	is1[4] = 2
	require.ErrorIs(t, ParseSect1(is1, NewRecord()), ErrBadLabel)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime(2024, 3, 1, 24, 0, 0)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), got)

	for _, c := range [][6]int{
		{1899, 1, 1, 0, 0, 0},
		{2024, 0, 1, 0, 0, 0},
		{2024, 13, 1, 0, 0, 0},
		{2024, 1, 0, 0, 0, 0},
		{2024, 1, 1, 25, 0, 0},
		{2024, 1, 1, 0, 61, 0},
		{2024, 1, 1, 0, 0, 62},
	} {
		_, err := ParseTime(c[0], c[1], c[2], c[3], c[4], c[5])
		require.ErrorIs(t, err, ErrBadValue, "%v", c)
	}
}

func TestTime2Sec(t *testing.T) {
	for _, tc := range []struct {
		delta, unit int
		want        float64
	}{
		{5, 0, 300},
		{6, 1, 21600},
		{2, 2, 172800},
		{1, 10, 10800},
		{1, 11, 21600},
		{1, 12, 43200},
		{90, 13, 90},
	} {
		got, err := Time2Sec(tc.delta, tc.unit)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "unit %d", tc.unit)
	}
	for _, unit := range []int{3, 4, 7, 14, -1} {
		_, err := Time2Sec(1, unit)
		require.ErrorIs(t, err, ErrUnsupported, "unit %d", unit)
	}
}

func latLon(set map[int]int32) []int32 {
	is3 := sect(3, 72, map[int]int32{
		6: 6, 12: ProjLatLon, 14: 6,
		30: 3, 34: 2,
		38: 0, 42: -1,
		46: -1500000, 50: 1000000, 54: 0x30,
		55: 500000, 59: 3000000,
		63: 1000000, 67: 2000000, 71: 0x40,
	})
	for k, v := range set {
		is3[k] = v
	}
	return is3
}

func TestParseSect3LatLon(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, ParseSect3(latLon(nil), rec))
	gds := rec.GDS
	require.Equal(t, 6, gds.NumPts)
	require.Equal(t, 3, gds.Nx)
	require.Equal(t, 2, gds.Ny)
	require.True(t, gds.FSphere)
	require.Equal(t, 6371.229, gds.MajEarth)
	require.InDelta(t, -1.5, gds.Lat1, 1e-9)
	require.InDelta(t, 1.0, gds.Lon1, 1e-9)
	require.InDelta(t, 0.5, gds.Lat2, 1e-9)
	require.InDelta(t, 3.0, gds.Lon2, 1e-9)
	require.InDelta(t, 1.0, gds.Dx, 1e-9)
	require.InDelta(t, 2.0, gds.Dy, 1e-9)
	require.Equal(t, uint8(0x40), gds.Scan)

	t.Run("i increment only", func(t *testing.T) {
		rec := NewRecord()
		require.NoError(t, ParseSect3(latLon(map[int]int32{54: 0x20}), rec))
		require.InDelta(t, 1.0, rec.GDS.Dy, 1e-9)
	})
	t.Run("j increment only", func(t *testing.T) {
		rec := NewRecord()
		require.NoError(t, ParseSect3(latLon(map[int]int32{54: 0x10}), rec))
		require.InDelta(t, 2.0, rec.GDS.Dx, 1e-9)
	})
	t.Run("basic angle", func(t *testing.T) {
		rec := NewRecord()
		require.NoError(t, ParseSect3(latLon(map[int]int32{38: 1, 42: 2, 63: 4}), rec))
		require.Equal(t, 2.0, rec.GDS.Dx)
	})
	t.Run("missing corner", func(t *testing.T) {
		require.ErrorIs(t, ParseSect3(latLon(map[int]int32{55: MissingS4}), NewRecord()), ErrMissing)
	})
	t.Run("point count", func(t *testing.T) {
		require.ErrorIs(t, ParseSect3(latLon(map[int]int32{6: 7}), NewRecord()), ErrBadValue)
	})
	t.Run("short", func(t *testing.T) {
		require.ErrorIs(t, ParseSect3(latLon(nil)[:60], NewRecord()), ErrTooShort)
	})
}

func TestEarthRadius(t *testing.T) {
	for name, tc := range map[string]struct {
		set      map[int]int32
		maj, min float64
		sphere   bool
	}{
		"shape 0":          {map[int]int32{14: 0}, 6367.47, 6367.47, true},
		"shape 1 metres":   {map[int]int32{14: 1, 15: 0, 16: 6371229}, 6371.229, 6371.229, true},
		"shape 1 rescaled": {map[int]int32{14: 1, 15: 0, 16: 6371}, 6371, 6371, true},
		"shape 2":          {map[int]int32{14: 2}, 6378.160, 6356.775, false},
		"shape 3 km":       {map[int]int32{14: 3, 20: 1, 21: 63781, 25: 1, 26: 63567}, 6378.1, 6356.7, false},
		"shape 7 metres":   {map[int]int32{14: 7, 20: 0, 21: 6378137, 25: 0, 26: 6356752}, 6378.137, 6356.752, false},
		"shape 6":          {map[int]int32{14: 6}, 6371.229, 6371.229, true},
	} {
		t.Run(name, func(t *testing.T) {
			maj, min, sphere, err := EarthRadius(latLon(tc.set))
			require.NoError(t, err)
			require.InDelta(t, tc.maj, maj, 1e-6)
			require.InDelta(t, tc.min, min, 1e-6)
			require.Equal(t, tc.sphere, sphere)
		})
	}

	_, _, _, err := EarthRadius(latLon(map[int]int32{14: 1, 16: MissingS4}))
	require.ErrorIs(t, err, ErrMissing)
	_, _, _, err = EarthRadius(latLon(map[int]int32{14: 9}))
	require.ErrorIs(t, err, ErrUnsupported)

	// a radius far from the earth's is rejected by ParseSect3
	err = ParseSect3(latLon(map[int]int32{14: 1, 15: 0, 16: 1000000}), NewRecord())
	require.ErrorIs(t, err, ErrBadValue)
}

func TestRescaleRadius(t *testing.T) {
	require.InDelta(t, 6371.0, RescaleRadius(6.371), 1e-9)
	require.Equal(t, 6371.0, RescaleRadius(6371000))
	require.Equal(t, 6371.0, RescaleRadius(6371))
}

func polar(center int32, proj int32, n int) []int32 {
	return sect(3, n, map[int]int32{
		6: 4, 12: proj, 14: 6, 30: 2, 34: 2,
		38: 20000000, 42: 250000000, 46: 0x08,
		47: 60000000, 51: 255000000,
		55: 5079, 59: 5079,
		63: center, 64: 0x40,
		65: 25000000, 69: 25000000, 73: -90000000, 77: 0,
	})
}

func TestParseSect3Polar(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, ParseSect3(polar(0, ProjPolar, 65), rec))
	require.Equal(t, 90.0, rec.GDS.ScaleLat1)
	require.InDelta(t, 5.079, rec.GDS.Dx, 1e-9)
	require.InDelta(t, 255.0, rec.GDS.OrientLon, 1e-9)

	rec = NewRecord()
	require.NoError(t, ParseSect3(polar(0x80, ProjPolar, 65), rec))
	require.Equal(t, -90.0, rec.GDS.ScaleLat1)
	require.Equal(t, -90.0, rec.GDS.ScaleLat2)

	err := ParseSect3(polar(0x40, ProjPolar, 65), NewRecord())
	require.ErrorIs(t, err, ErrUnsupported)
	require.Equal(t, KindUnsupported, sectionKind(t, err).Kind)
}

func TestParseSect3Lambert(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, ParseSect3(polar(0, ProjLambert, 81), rec))
	require.InDelta(t, 25.0, rec.GDS.ScaleLat1, 1e-9)
	require.InDelta(t, 25.0, rec.GDS.ScaleLat2, 1e-9)
	require.InDelta(t, -90.0, rec.GDS.SouthLat, 1e-9)

	require.ErrorIs(t, ParseSect3(polar(0, ProjLambert, 72), NewRecord()), ErrTooShort)
}

func TestParseSect3Undefined(t *testing.T) {
	tests := []struct {
		proj int32
		n    int
		idx  []int
	}{
		{ProjPolar, 65, []int{38, 42, 47, 51}},
		{ProjLambert, 81, []int{38, 42, 47, 51, 65, 69, 73, 77}},
	}
	for _, tt := range tests {
		for _, i := range tt.idx {
			is3 := polar(0, tt.proj, tt.n)
			is3[i] = MissingS4
			err := ParseSect3(is3, NewRecord())
			require.ErrorIs(t, err, ErrMissing, "template 3.%d octet %d", tt.proj, i+1)
		}
	}
}

func mercator(set map[int]int32) []int32 {
	is3 := sect(3, 72, map[int]int32{
		6: 4, 12: ProjMercator, 14: 6, 30: 2, 34: 2,
		38: 10000000, 42: 20000000, 46: 0x30,
		47: 20000000, 51: 11000000, 55: 21000000,
		59: 0x40, 60: 0,
		64: 12000000, 68: 13000000,
	})
	for k, v := range set {
		is3[k] = v
	}
	return is3
}

func TestParseSect3Mercator(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, ParseSect3(mercator(nil), rec))
	gds := rec.GDS
	require.InDelta(t, 10.0, gds.Lat1, 1e-9)
	require.InDelta(t, 20.0, gds.MeshLat, 1e-9)
	require.Equal(t, 12000.0, gds.Dx)
	require.Equal(t, 13000.0, gds.Dy)
	require.Equal(t, uint8(0x40), gds.Scan)

	t.Run("i increment only", func(t *testing.T) {
		rec := NewRecord()
		require.NoError(t, ParseSect3(mercator(map[int]int32{46: 0x20, 68: MissingS4}), rec))
		require.Equal(t, 12000.0, rec.GDS.Dy)
	})
	t.Run("j increment only", func(t *testing.T) {
		rec := NewRecord()
		require.NoError(t, ParseSect3(mercator(map[int]int32{46: 0x10, 64: MissingS4}), rec))
		require.Equal(t, 13000.0, rec.GDS.Dx)
	})
	t.Run("given increment missing", func(t *testing.T) {
		require.ErrorIs(t, ParseSect3(mercator(map[int]int32{46: 0x20, 64: MissingS4}), NewRecord()), ErrMissing)
		require.ErrorIs(t, ParseSect3(mercator(map[int]int32{46: 0x10, 68: MissingS4}), NewRecord()), ErrMissing)
	})
	t.Run("undefined corner", func(t *testing.T) {
		for _, i := range []int{38, 42, 47, 51, 55, 60} {
			require.ErrorIs(t, ParseSect3(mercator(map[int]int32{i: MissingS4}), NewRecord()), ErrMissing, "octet %d", i+1)
		}
	})
}

func product(tmpl int32, n int, set map[int]int32) []int32 {
	all := map[int]int32{
		7: tmpl, 9: 0, 10: 0, 11: 2, 12: 0, 13: 96,
		14: MissingU2, 16: MissingU1, 17: 1, 18: 3,
		22: 103, 23: 0, 24: 2,
		28: MissingU1, 29: MissingS1, 30: MissingS4,
	}
	for k, v := range set {
		all[k] = v
	}
	return sect(4, n, all)
}

func withRef() *Record {
	rec := NewRecord()
	rec.PDS2.RefTime = refTime
	return rec
}

func TestParseSect4Analysis(t *testing.T) {
	rec := withRef()
	require.NoError(t, ParseSect4(product(PDTAnalysis, 34, map[int]int32{14: 1, 16: 30}), rec))
	s4 := rec.PDS2.Sect4
	require.Equal(t, 2, s4.GenProcess)
	require.Equal(t, 96, s4.GenID)
	require.True(t, s4.FValidCutOff)
	require.Equal(t, 5400, s4.CutOff)
	require.Equal(t, 10800.0, s4.ForeSec)
	require.Equal(t, refTime.Add(3*time.Hour), s4.ValidTime)
	require.Equal(t, 103, s4.FstSurfType)
	require.True(t, s4.FFstValue)
	require.Equal(t, 2.0, s4.FstSurfValue)
	require.False(t, s4.FSndValue)

	rec = withRef()
	require.NoError(t, ParseSect4(product(PDTAnalysis, 34, map[int]int32{23: 1, 24: 25}), rec))
	require.Equal(t, 2.5, rec.PDS2.Sect4.FstSurfValue)
	require.False(t, rec.PDS2.Sect4.FValidCutOff)
}

func TestParseSect4Rejects(t *testing.T) {
	for name, tc := range map[string]struct {
		is4  []int32
		want error
	}{
		"short":       {product(PDTAnalysis, 20, nil), ErrTooShort},
		"vertical":    {product(PDTAnalysis, 34, map[int]int32{5: 2}), ErrUnsupported},
		"template":    {product(15, 34, nil), ErrUnsupported},
		"time unit":   {product(PDTAnalysis, 34, map[int]int32{17: 4}), ErrUnsupported},
		"ensemble":    {product(PDTEnsemble, 34, nil), ErrTooShort},
		"probability": {product(PDTProbability, 40, nil), ErrTooShort},
	} {
		t.Run(name, func(t *testing.T) {
			err := ParseSect4(tc.is4, withRef())
			require.ErrorIs(t, err, tc.want)
			require.Equal(t, 4, sectionKind(t, err).Section)
		})
	}
}

// statistic builds template 4.8 with n time ranges ending at endHour.
func statistic(n int32, size int, endMon int32) []int32 {
	set := map[int]int32{
		34: 2024, 36: endMon, 37: 1, 38: 18, 39: 0, 40: 0,
		41: n, 42: 0,
	}
	for i := 0; i < int(n) && 46+12*i+12 <= size; i++ {
		base := 46 + 12*i
		set[base] = 1
		set[base+1] = 2
		set[base+2] = 1
		set[base+3] = 6
		set[base+7] = 255
	}
	return product(PDTStatistic, size, set)
}

func TestParseSect4Statistic(t *testing.T) {
	rec := withRef()
	require.NoError(t, ParseSect4(statistic(1, 58, 3), rec))
	s4 := rec.PDS2.Sect4
	require.Equal(t, time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC), s4.ValidTime)
	require.Len(t, s4.Intervals, 1)
	require.Equal(t, Interval{ProcessID: 1, IncrType: 2, TimeRangeUnit: 1, LenTime: 6, IncrUnit: 255}, s4.Intervals[0])

	t.Run("ranges past the array", func(t *testing.T) {
		err := ParseSect4(statistic(3, 58, 3), withRef())
		require.ErrorIs(t, err, ErrTooShort)
	})
	t.Run("three ranges", func(t *testing.T) {
		rec := withRef()
		require.NoError(t, ParseSect4(statistic(3, 82, 3), rec))
		require.Len(t, rec.PDS2.Sect4.Intervals, 3)
	})
	t.Run("bad end with one range", func(t *testing.T) {
		rec := withRef()
		require.NoError(t, ParseSect4(statistic(1, 58, 0), rec))
		require.Equal(t, refTime.Add(3*time.Hour), rec.PDS2.Sect4.ValidTime)
	})
	t.Run("bad end with two ranges", func(t *testing.T) {
		err := ParseSect4(statistic(2, 70, 0), withRef())
		require.ErrorIs(t, err, ErrBadValue)
	})
	t.Run("no ranges", func(t *testing.T) {
		is4 := statistic(0, 46, 3)
		is4[42] = 4
		rec := withRef()
		require.NoError(t, ParseSect4(is4, rec))
		s4 := rec.PDS2.Sect4
		require.Nil(t, s4.Intervals)
		require.Equal(t, 4, s4.NumMissing)
		require.Equal(t, time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC), s4.ValidTime)
	})
	t.Run("bad end with no ranges", func(t *testing.T) {
		require.ErrorIs(t, ParseSect4(statistic(0, 46, 0), withRef()), ErrBadValue)
	})
}

func TestParseSect4PercentileShort(t *testing.T) {
	for _, n := range []int{34, 35, 46} {
		require.ErrorIs(t, ParseSect4(product(PDTPercentile, n, nil), withRef()), ErrTooShort, "length %d", n)
	}
}

func TestParseSect4ProbStatistic(t *testing.T) {
	is4 := product(PDTProbStatistic, 71, map[int]int32{
		9: 1, 10: 8,
		34: 0, 35: 1, 36: 1,
		37: MissingS1, 38: MissingS4,
		42: 3, 43: 254,
		47: 2024, 49: 3, 50: 2, 51: 0, 52: 0, 53: 0,
		54: 1, 55: 0,
		59: 1, 60: 2, 61: 1, 62: 12, 66: 255,
	})
	rec := withRef()
	require.NoError(t, ParseSect4(is4, rec))
	s4 := rec.PDS2.Sect4
	require.Equal(t, 1, s4.ProbType)
	require.Equal(t, 0.254, s4.UpperLimit.Float())
	require.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), s4.ValidTime)
	require.Equal(t, 12, s4.Intervals[0].LenTime)
}

func TestParseSect4Ensemble(t *testing.T) {
	rec := withRef()
	require.NoError(t, ParseSect4(product(PDTEnsemble, 37, map[int]int32{34: 3, 35: 4, 36: 21}), rec))
	s4 := rec.PDS2.Sect4
	require.Equal(t, 3, s4.TypeEnsemble)
	require.Equal(t, 4, s4.PerturbNum)
	require.Equal(t, 21, s4.NumberFcsts)
}

func TestParseSect4RadarAndSatellite(t *testing.T) {
	rec := withRef()
	require.NoError(t, ParseSect4(product(PDTRadar, 43, map[int]int32{9: 15, 10: 1}), rec))
	require.Equal(t, refTime, rec.PDS2.Sect4.ValidTime)
	require.Equal(t, 15, rec.PDS2.Sect4.Cat)

	is4 := product(PDTSatellite, 34, map[int]int32{
		12: 7, 13: 2,
		14: 1, 16: 3, 18: 4, 19: 2, 20: 1065,
		24: 1, 26: 5, 28: 4, 29: 0, 30: 2,
	})
	rec = withRef()
	require.NoError(t, ParseSect4(is4, rec))
	s4 := rec.PDS2.Sect4
	require.Equal(t, 7, s4.GenID)
	require.Equal(t, []Band{
		{Series: 1, Numbers: 3, InstType: 4, CentWaveNum: 10.65},
		{Series: 1, Numbers: 5, InstType: 4, CentWaveNum: 2},
	}, s4.Bands)
	require.Equal(t, refTime, s4.ValidTime)

	is4[13] = 3
	require.ErrorIs(t, ParseSect4(is4, withRef()), ErrTooShort)
}

func TestParseSect5(t *testing.T) {
	rec := NewRecord()
	is5 := sect(5, 21, map[int]int32{9: DRTSimple, 11: f32(1.5), 15: -2, 17: 1, 19: 8, 20: 0})
	require.NoError(t, ParseSect5(is5, rec))
	require.Equal(t, grid.Attrib{PackType: 0, RefVal: 1.5, ESF: -2, DSF: 1}, rec.GridAttrib)

	t.Run("complex float missing", func(t *testing.T) {
		rec := NewRecord()
		is5 := sect(5, 47, map[int]int32{9: DRTComplex, 20: 0, 22: 1, 23: f32(9999), 27: f32(-1)})
		require.NoError(t, ParseSect5(is5, rec))
		require.Equal(t, grid.PrimaryMissing, rec.GridAttrib.FMiss)
		require.Equal(t, 9999.0, rec.GridAttrib.MissPri)
		require.Equal(t, 0.0, rec.GridAttrib.MissSec)
	})
	t.Run("spatial integer missing", func(t *testing.T) {
		rec := NewRecord()
		is5 := sect(5, 49, map[int]int32{9: DRTComplexSpatial, 20: 1, 22: 2, 23: 9999, 27: 9998})
		require.NoError(t, ParseSect5(is5, rec))
		require.Equal(t, grid.SecondaryMissing, rec.GridAttrib.FMiss)
		require.Equal(t, grid.FieldInteger, rec.GridAttrib.FieldType)
		require.Equal(t, 9999.0, rec.GridAttrib.MissPri)
		require.Equal(t, 9998.0, rec.GridAttrib.MissSec)
	})
	t.Run("png has no missing values", func(t *testing.T) {
		rec := NewRecord()
		is5 := sect(5, 21, map[int]int32{9: DRTPNG, 20: 1})
		require.NoError(t, ParseSect5(is5, rec))
		require.Equal(t, grid.NoMissing, rec.GridAttrib.FMiss)
	})
	t.Run("spectral", func(t *testing.T) {
		rec := NewRecord()
		is5 := sect(5, 24, map[int]int32{9: DRTSpectral, 20: 12345})
		require.NoError(t, ParseSect5(is5, rec))
		require.Equal(t, grid.FieldFloat, rec.GridAttrib.FieldType)
	})

	for name, tc := range map[string]struct {
		is5  []int32
		want error
	}{
		"short":      {sect(5, 15, nil), ErrTooShort},
		"template":   {sect(5, 21, map[int]int32{9: 4}), ErrUnsupported},
		"field type": {sect(5, 21, map[int]int32{9: DRTSimple, 20: 2}), ErrBadValue},
		"management": {sect(5, 47, map[int]int32{9: DRTComplex, 22: 3}), ErrBadValue},
		"label":      {sect(4, 21, nil), ErrBadLabel},
	} {
		t.Run(name, func(t *testing.T) {
			err := ParseSect5(tc.is5, NewRecord())
			require.ErrorIs(t, err, tc.want)
			require.Equal(t, 5, sectionKind(t, err).Section)
		})
	}
}

func TestParseSect2(t *testing.T) {
	idat := []int32{5, 0, 'A', 0, 'B', 'C', 0, 0}
	tbl, err := ParseSect2Wx([]float32{0}, idat, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "BC"}, tbl.Data)
	require.Equal(t, 2, tbl.MaxLen)

	_, err = ParseSect2Wx([]float32{1, 0, 2, 0}, idat, nil)
	require.ErrorIs(t, err, ErrBadValue)

	_, err = ParseSect2Wx(nil, []int32{9, 0, 'A', 0}, nil)
	require.ErrorIs(t, err, ErrTooShort)

	vals, err := ParseSect2Unknown([]float32{2, 0, 1.5, 2.5, 0}, []int32{1, 0, 7, 0})
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 2.5, 7}, vals)

	_, err = ParseSect2Unknown([]float32{4, 0, 1}, nil)
	require.ErrorIs(t, err, ErrTooShort)
}

func TestReport(t *testing.T) {
	var rep Report
	require.Nil(t, rep.Fatal())
	rep.Add(SectionError{Section: 3, Kind: KindStructural, Severity: SeverityWarning, Err: ErrMissing})
	rep.Add(SectionError{Section: 4, Kind: KindUnsupported, Severity: SeverityFatal, Err: ErrUnsupported})
	require.Equal(t, 4, rep.Fatal().Section)
	require.Equal(t,
		"section 3 (structural, warning): required value is missing; section 4 (unsupported, fatal): not supported",
		rep.String())
}

func TestParseSect3Orthographic(t *testing.T) {
	is3 := sect(3, 80, map[int]int32{
		6: 4, 12: ProjOrthographic, 14: 6, 30: 2, 34: 2,
		38: 40000000, 42: 260000000, 46: 0x30,
		47: 1500, 51: 1400, 55: 500000, 59: 400000,
		63: 0x40, 64: 5000000, 68: 6610000,
	})
	rec := NewRecord()
	require.NoError(t, ParseSect3(is3, rec))
	gds := rec.GDS
	require.InDelta(t, 40.0, gds.Lat1, 1e-9)
	require.InDelta(t, 260.0, gds.Lon1, 1e-9)
	require.Equal(t, 1500.0, gds.Dx)
	require.Equal(t, 1400.0, gds.Dy)
	require.Equal(t, 500.0, gds.Lon2)
	require.Equal(t, 400.0, gds.Lat2)
	require.InDelta(t, 5.0, gds.OrientLon, 1e-9)
	require.InDelta(t, 6.61, gds.StretchFactor, 1e-9)

	require.ErrorIs(t, ParseSect3(is3[:79], NewRecord()), ErrTooShort)
}
