package meta

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sdifrance/degrib2/grid"
)

func named(center, subcenter, discipline int, s4 Sect4) *Record {
	rec := NewRecord()
	rec.PDS2.Center = center
	rec.PDS2.Subcenter = subcenter
	rec.PDS2.ProdType = discipline
	rec.PDS2.Sect4 = s4
	ParseElemName(rec)
	return rec
}

func TestParseElemName(t *testing.T) {
	t.Run("wmo", func(t *testing.T) {
		rec := named(7, 0, 0, Sect4{Templat: PDTAnalysis, Cat: 0, Subcat: 0})
		require.Equal(t, "TMP", rec.Element)
		require.Equal(t, "Temperature [K]", rec.Comment)
		require.Equal(t, "[K]", rec.Unit)
		require.Equal(t, UCK2F, rec.Convert)
	})
	t.Run("ndfd override", func(t *testing.T) {
		rec := named(8, 0, 0, Sect4{Templat: PDTAnalysis, Cat: 0, Subcat: 0})
		require.Equal(t, "T", rec.Element)
		rec = named(8, MissingU2, 10, Sect4{Templat: PDTAnalysis, Cat: 0, Subcat: 3})
		require.Equal(t, "WaveHeight", rec.Element)
		require.Equal(t, UCM2Feet, rec.Convert)
	})
	t.Run("accumulation", func(t *testing.T) {
		rec := named(7, 0, 0, Sect4{
			Templat: PDTStatistic, Cat: 1, Subcat: 8,
			Intervals: []Interval{{TimeRangeUnit: 1, LenTime: 6}},
		})
		require.Equal(t, "APCP06", rec.Element)
		require.Equal(t, "06 hr Total precipitation [kg/(m^2)]", rec.Comment)
	})
	t.Run("weather", func(t *testing.T) {
		rec := named(8, 0, 0, Sect4{Templat: PDTAnalysis, Cat: 1, Subcat: 192})
		require.Equal(t, "Wx", rec.Element)
		require.True(t, rec.IsWeather())
		rec = named(7, 0, 0, Sect4{Templat: PDTAnalysis, Cat: 1, Subcat: 192})
		require.False(t, rec.IsWeather())
		require.Equal(t, "var0_1_192", rec.Element)
	})
	t.Run("pop", func(t *testing.T) {
		s4 := Sect4{
			Templat: PDTProbStatistic, Cat: 1, Subcat: 8,
			ProbType:   probAboveUpper,
			UpperLimit: Limit{Factor: 3, Value: 254},
			Intervals:  []Interval{{TimeRangeUnit: 1, LenTime: 12}},
		}
		rec := named(8, 0, 0, s4)
		require.Equal(t, "PoP12", rec.Element)
		require.Equal(t, "[%]", rec.Unit)
		require.Equal(t, UCNone, rec.Convert)

		s4.UpperLimit = Limit{Factor: 2, Value: 254}
		require.Equal(t, "PoP12-010", named(8, 0, 0, s4).Element)
	})
	t.Run("probability", func(t *testing.T) {
		rec := named(7, 0, 0, Sect4{
			Templat: PDTProbability, Cat: 0, Subcat: 0,
			ProbType: probAboveUpper, UpperLimit: Limit{Factor: 0, Value: 300},
		})
		require.Equal(t, "ProbTMP", rec.Element)
		require.Equal(t, "Prob of Temperature > 300 [%]", rec.Comment)
	})
	t.Run("percentile", func(t *testing.T) {
		rec := named(7, 0, 0, Sect4{Templat: PDTPercentile, Cat: 0, Subcat: 0, Percentile: 90})
		require.Equal(t, "TMP90", rec.Element)
	})
	t.Run("derived spread", func(t *testing.T) {
		rec := named(7, 0, 0, Sect4{Templat: PDTDerived, Cat: 0, Subcat: 0, DerivedFcst: 4})
		require.Equal(t, "[spread]", rec.Unit)
		require.Equal(t, UCNone, rec.Convert)
	})
	t.Run("forecast error", func(t *testing.T) {
		rec := named(7, 0, 0, Sect4{Templat: PDTAnalysis, Cat: 0, Subcat: 0, GenProcess: 6})
		require.Equal(t, "ERR", rec.Element)
		require.Equal(t, UCNone, rec.Convert)
	})
	t.Run("unknown", func(t *testing.T) {
		rec := named(7, 0, 3, Sect4{Templat: PDTAnalysis, Cat: 9, Subcat: 1})
		require.Equal(t, "var3_9_1", rec.Element)
		require.Equal(t, "[-]", rec.Unit)
	})
}

func TestParseLevelName(t *testing.T) {
	rec := NewRecord()
	rec.PDS2.Sect4 = Sect4{FstSurfType: 103, FstSurfValue: 2, FFstValue: true, SndSurfType: MissingU1}
	ParseLevelName(rec)
	require.Equal(t, "2-HTGL", rec.ShortFstLevel)
	require.Equal(t, `2[m] HTGL="Specified height level above ground"`, rec.LongFstLevel)

	rec.PDS2.Sect4 = Sect4{FstSurfType: 106, FstSurfValue: 0, FFstValue: true, SndSurfType: 106, SndSurfValue: 0.1, FSndValue: true}
	ParseLevelName(rec)
	require.Equal(t, "0-0.1-DBLL", rec.ShortFstLevel)

	rec.PDS2.Sect4 = Sect4{FstSurfType: 150, FstSurfValue: 1.5}
	ParseLevelName(rec)
	require.Equal(t, "1.5-RESERVED(150)", rec.ShortFstLevel)
	require.Equal(t, "1.5[-] RESERVED(150) (Reserved)", rec.LongFstLevel)
}

func TestComputeUnit(t *testing.T) {
	for _, tc := range []struct {
		convert UnitConvert
		orig    string
		sys     UnitSystem
		m, b    float64
		name    string
	}{
		{UCK2F, "[K]", UnitEnglish, 9. / 5., -459.67, "[F]"},
		{UCK2F, "[K]", UnitMetric, 1, -273.15, "[C]"},
		{UCK2F, "[K]", UnitGRIB2, 1, 0, "[GRIB2 unit]"},
		{UCInchWater, "[kg/(m^2)]", UnitEnglish, 1 / 25.4, 0, "[inch]"},
		{UCInchWater, "[kg/(m^2)]", UnitMetric, 1, 0, "[GRIB2 unit]"},
		{UCM2Feet, "[m]", UnitEnglish, 100 / 30.48, 0, "[feet]"},
		{UCM2Inch, "[m]", UnitEnglish, 100 / 2.54, 0, "[inch]"},
		{UCM2StatuteMile, "[m]", UnitEnglish, 1 / 1609.344, 0, "[statute mile]"},
		{UCMS2Knots, "[m/s]", UnitEnglish, 3600. / 1852., 0, "[knots]"},
		{UCUVIndex, "[W/(m^2)]", UnitEnglish, 40, 0, "[UVI]"},
		{UCLog10, "[log10(10^-6g/m^3)]", UnitMetric, grid.LogScale, 0, "[10^-6g/m^3]"},
		{UCNone, "[%]", UnitEnglish, 1, 0, "[GRIB2 unit]"},
	} {
		m, b, name := ComputeUnit(tc.convert, tc.orig, tc.sys)
		require.Equal(t, tc.m, m, "%v %v", tc.convert, tc.sys)
		require.Equal(t, tc.b, b, "%v %v", tc.convert, tc.sys)
		require.Equal(t, tc.name, name, "%v %v", tc.convert, tc.sys)
	}
}

func TestParseUnitSystem(t *testing.T) {
	for in, want := range map[string]UnitSystem{
		"":        UnitGRIB2,
		"grib2":   UnitGRIB2,
		"English": UnitEnglish,
		"m":       UnitMetric,
	} {
		got, ok := ParseUnitSystem(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}
	_, ok := ParseUnitSystem("imperial")
	require.False(t, ok)
}
