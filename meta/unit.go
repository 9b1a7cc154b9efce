package meta

import (
	"strings"

	"github.com/sdifrance/degrib2/grid"
)

// UnitConvert names the conversion from a GRIB2 unit to a display unit.
type UnitConvert int

const (
	UCNone UnitConvert = iota
	UCK2F
	UCInchWater
	UCM2Feet
	UCM2Inch
	UCMS2Knots
	UCLog10
	UCUVIndex
	UCM2StatuteMile
)

// UnitSystem selects the output units of a decoded grid.
type UnitSystem int

const (
	// UnitGRIB2 keeps the units of the GRIB2 tables.
	UnitGRIB2 UnitSystem = iota
	// UnitEnglish converts to Fahrenheit, inches, feet, knots and miles.
	UnitEnglish
	// UnitMetric converts Kelvin to Celsius.
	UnitMetric
)

// ParseUnitSystem maps "grib2", "english" and "metric" to a UnitSystem.
func ParseUnitSystem(s string) (UnitSystem, bool) {
	switch strings.ToLower(s) {
	case "", "grib2":
		return UnitGRIB2, true
	case "english", "e":
		return UnitEnglish, true
	case "metric", "m":
		return UnitMetric, true
	}
	return UnitGRIB2, false
}

// ComputeUnit returns m and b of y = m*x + b that convert a value in the
// GRIB2 unit origUnit into sys, along with the bracketed name of the result
// unit. m == grid.LogScale asks for 10^x instead.
func ComputeUnit(convert UnitConvert, origUnit string, sys UnitSystem) (m, b float64, name string) {
	english := sys == UnitEnglish
	switch convert {
	case UCK2F:
		switch sys {
		case UnitEnglish:
			return 9. / 5., -459.67, "[F]"
		case UnitMetric:
			return 1, -273.15, "[C]"
		}
	case UCInchWater:
		if english {
			// kg/m^2 over the density of water is mm
			return 1. / 25.4, 0, "[inch]"
		}
	case UCM2Feet:
		if english {
			return 100. / 30.48, 0, "[feet]"
		}
	case UCM2Inch:
		if english {
			return 100. / 2.54, 0, "[inch]"
		}
	case UCM2StatuteMile:
		if english {
			return 1. / 1609.344, 0, "[statute mile]"
		}
	case UCMS2Knots:
		if english {
			// 1 nautical mile = 1852 m
			return 3600. / 1852., 0, "[knots]"
		}
	case UCUVIndex:
		if english {
			return 40, 0, "[UVI]"
		}
	case UCLog10:
		if sys != UnitGRIB2 {
			inner := strings.TrimSuffix(strings.TrimPrefix(strings.Trim(origUnit, "[]"), "log10("), ")")
			return grid.LogScale, 0, "[" + inner + "]"
		}
	}
	return 1, 0, "[GRIB2 unit]"
}
