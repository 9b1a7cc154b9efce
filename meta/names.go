package meta

import (
	"fmt"
	"strconv"
)

type paramKey struct {
	discipline, cat, subcat int
}

type param struct {
	short   string
	name    string
	unit    string
	convert UnitConvert
}

// parameters is the subset of WMO Code table 4.2 this decoder names.
var parameters = map[paramKey]param{
	{0, 0, 0}:     {"TMP", "Temperature", "K", UCK2F},
	{0, 0, 4}:     {"TMAX", "Maximum temperature", "K", UCK2F},
	{0, 0, 5}:     {"TMIN", "Minimum temperature", "K", UCK2F},
	{0, 0, 6}:     {"DPT", "Dew point temperature", "K", UCK2F},
	{0, 0, 7}:     {"DEPR", "Dew point depression", "K", UCNone},
	{0, 1, 0}:     {"SPFH", "Specific humidity", "kg/kg", UCNone},
	{0, 1, 1}:     {"RH", "Relative humidity", "%", UCNone},
	{0, 1, 3}:     {"PWAT", "Precipitable water", "kg/(m^2)", UCInchWater},
	{0, 1, 8}:     {"APCP", "Total precipitation", "kg/(m^2)", UCInchWater},
	{0, 1, 11}:    {"SNOD", "Snow depth", "m", UCM2Inch},
	{0, 1, 27}:    {"MAXRH", "Maximum relative humidity", "%", UCNone},
	{0, 1, 29}:    {"ASNOW", "Total snowfall", "m", UCM2Inch},
	{0, 2, 0}:     {"WDIR", "Wind direction (from which blowing)", "deg true", UCNone},
	{0, 2, 1}:     {"WIND", "Wind speed", "m/s", UCMS2Knots},
	{0, 2, 2}:     {"UGRD", "u-component of wind", "m/s", UCMS2Knots},
	{0, 2, 3}:     {"VGRD", "v-component of wind", "m/s", UCMS2Knots},
	{0, 2, 22}:    {"GUST", "Wind speed (gust)", "m/s", UCMS2Knots},
	{0, 3, 0}:     {"PRES", "Pressure", "Pa", UCNone},
	{0, 3, 1}:     {"PRMSL", "Pressure reduced to MSL", "Pa", UCNone},
	{0, 3, 5}:     {"HGT", "Geopotential height", "gpm", UCNone},
	{0, 4, 51}:    {"UVI", "UV index", "W/(m^2)", UCUVIndex},
	{0, 6, 1}:     {"TCDC", "Total cloud cover", "%", UCNone},
	{0, 13, 195}:  {"LPMTF", "Log10 of particulate matter (fine)", "log10(10^-6g/m^3)", UCLog10},
	{0, 19, 0}:    {"VIS", "Visibility", "m", UCM2StatuteMile},
	{0, 19, 2}:    {"TSTM", "Thunderstorm probability", "%", UCNone},
	{1, 1, 2}:     {"PPFFG", "Probability of 0.01 inch of precipitation (PoP)", "%", UCNone},
	{10, 0, 3}:    {"HTSGW", "Significant height of combined wind waves and swell", "m", UCM2Feet},
	{10, 0, 5}:    {"WVHGT", "Significant height of wind waves", "m", UCM2Feet},
	{10, 0, 11}:   {"PERPW", "Primary wave mean period", "s", UCNone},
}

// ndfdNames replaces WMO short names on NDFD grids.
var ndfdNames = map[string]string{
	"TMP":   "T",
	"TMAX":  "MaxT",
	"TMIN":  "MinT",
	"DPT":   "Td",
	"APCP":  "QPF",
	"WDIR":  "WindDir",
	"WIND":  "WindSpd",
	"TCDC":  "Sky",
	"WVHGT": "WaveHeight",
	"ASNOW": "SnowAmt",
	"GUST":  "WindGust",
	"MAXRH": "MaxRH",
	"HTSGW": "WaveHeight",
}

// derivedUnits overrides the unit of ensemble derived forecasts, Code
// table 4.7.
var derivedUnits = map[int]string{
	2: "[stddev]",
	3: "[stddev normalized]",
	4: "[spread]",
	5: "[large anomaly index]",
	7: "[interquantile range]",
}

// IsNDFD reports whether a centre and subcentre identify the US National
// Digital Forecast Database.
func IsNDFD(center, subcenter int) bool {
	return center == 8 && (subcenter == MissingU2 || subcenter == 0)
}

// accumulated lists the parameters whose names carry the accumulation time.
func accumulated(k paramKey) bool {
	switch k {
	case paramKey{1, 1, 2}, paramKey{0, 19, 2}, paramKey{0, 1, 8}, paramKey{0, 19, 203}:
		return true
	}
	return false
}

// timeLabel formats an accumulation length for names ("06", "03m", "01y")
// and comments ("06 hr").
func timeLabel(lenTime, unit int) (string, string) {
	switch unit {
	case 3:
		return fmt.Sprintf("%02dm", lenTime), fmt.Sprintf("%02d mon", lenTime)
	case 4:
		return fmt.Sprintf("%02dy", lenTime), fmt.Sprintf("%02d yr", lenTime)
	}
	return fmt.Sprintf("%02d", lenTime), fmt.Sprintf("%02d hr", lenTime)
}

// ParseElemName sets rec.Element, Comment, Unit and Convert from the
// discipline, centre and product definition already in rec.
func ParseElemName(rec *Record) {
	pds := &rec.PDS2
	s4 := &pds.Sect4
	k := paramKey{pds.ProdType, s4.Cat, s4.Subcat}
	ndfd := IsNDFD(pds.Center, pds.Subcenter)

	var lenTime, timeUnit int
	if len(s4.Intervals) > 0 {
		lenTime, timeUnit = s4.Intervals[0].LenTime, s4.Intervals[0].TimeRangeUnit
	}

	switch s4.Templat {
	case PDTProbability, PDTProbStatistic:
		if ndfd && pds.ProdType == 0 && s4.Cat == 19 {
			elemNameNorm(rec, k, ndfd, lenTime, timeUnit)
		} else {
			elemNameProb(rec, k, ndfd, lenTime, timeUnit)
		}
	case PDTPercentile:
		elemNameNorm(rec, k, ndfd, 0, 0)
		rec.Element = fmt.Sprintf("%s%02d", rec.Element, s4.Percentile)
		rec.Comment = fmt.Sprintf("%d%% level %s", s4.Percentile, rec.Comment)
	default:
		elemNameNorm(rec, k, ndfd, lenTime, timeUnit)
	}

	if u, ok := derivedUnits[s4.DerivedFcst]; ok && (s4.Templat == PDTDerived || s4.Templat == PDTDerivedStatistic) {
		rec.Unit = u
		rec.Convert = UCNone
	}
	if s4.GenProcess == 6 || s4.GenProcess == 7 {
		rec.Element = "ERR"
		rec.Convert = UCNone
		rec.Comment = "error " + rec.Unit
		return
	}
	rec.Comment += " " + rec.Unit
}

func elemNameNorm(rec *Record, k paramKey, ndfd bool, lenTime, timeUnit int) {
	if ndfd && k == (paramKey{0, 1, 192}) {
		rec.Element, rec.Comment, rec.Unit, rec.Convert = "Wx", "Weather string", "[-]", UCNone
		return
	}
	p, ok := parameters[k]
	if !ok {
		rec.Element = fmt.Sprintf("var%d_%d_%d", k.discipline, k.cat, k.subcat)
		rec.Comment = fmt.Sprintf("(prodType %d, cat %d, subcat %d)", k.discipline, k.cat, k.subcat)
		rec.Unit, rec.Convert = "[-]", UCNone
		return
	}
	rec.Unit, rec.Convert = "["+p.unit+"]", p.convert
	if name, ok := ndfdNames[p.short]; ok && ndfd {
		rec.Element, rec.Comment = name, p.name
		return
	}
	if accumulated(k) && lenTime > 0 {
		suffix, span := timeLabel(lenTime, timeUnit)
		rec.Element = p.short + suffix
		rec.Comment = span + " " + p.name
		return
	}
	rec.Element, rec.Comment = p.short, p.name
}

// Probability types, Code table 4.9.
const (
	probBelowLower = 0
	probAboveUpper = 1
	probAbove      = 3
)

func elemNameProb(rec *Record, k paramKey, ndfd bool, lenTime, timeUnit int) {
	s4 := &rec.PDS2.Sect4
	rec.Unit, rec.Convert = "[%]", UCNone
	if ndfd && k == (paramKey{0, 1, 8}) {
		suffix, span := "", ""
		if lenTime > 0 {
			suffix, span = timeLabel(lenTime, timeUnit)
			span += " "
		}
		switch s4.ProbType {
		case probBelowLower:
			rec.Element = "ProbPrcpBlw" + suffix
			rec.Comment = span + "Prob of Precip below average"
		case probAbove:
			rec.Element = "ProbPrcpAbv" + suffix
			rec.Comment = span + "Prob of Precip above average"
		default:
			// .254 mm is 0.01 inch
			upper := s4.UpperLimit.Float()
			rec.Element = "PoP" + suffix
			if upper != .254 && upper != 300 {
				rec.Element += fmt.Sprintf("-%03d", int(upper/.254+.5))
			}
			rec.Comment = span + "Prob of Precip > " + strconv.FormatFloat(upper/25.4, 'g', -1, 64) + " In."
		}
		return
	}

	elemNameNorm(rec, k, false, lenTime, timeUnit)
	base, name := rec.Element, rec.Comment
	rec.Unit, rec.Convert = "[%]", UCNone
	rec.Element = "Prob" + base
	switch s4.ProbType {
	case probBelowLower:
		rec.Comment = fmt.Sprintf("Prob of %s < %g", name, s4.LowerLimit.Float())
	case probAboveUpper:
		rec.Comment = fmt.Sprintf("Prob of %s > %g", name, s4.UpperLimit.Float())
	default:
		rec.Comment = fmt.Sprintf("Prob of %s in [%g, %g]", name, s4.LowerLimit.Float(), s4.UpperLimit.Float())
	}
}

type surface struct {
	short, name, unit string
}

// surfaces is the subset of Code table 4.5 this decoder names.
var surfaces = map[int]surface{
	1:   {"SFC", "Ground or water surface", "-"},
	2:   {"CBL", "Cloud base level", "-"},
	3:   {"CTL", "Level of cloud tops", "-"},
	4:   {"0DEG", "Level of 0 degree C isotherm", "-"},
	8:   {"NTAT", "Nominal top of the atmosphere", "-"},
	100: {"ISBL", "Isobaric surface", "Pa"},
	101: {"MSL", "Mean sea level", "-"},
	102: {"GPML", "Specific altitude above mean sea level", "m"},
	103: {"HTGL", "Specified height level above ground", "m"},
	104: {"SIGL", "Sigma level", "sigma value"},
	105: {"HYBL", "Hybrid level", "-"},
	106: {"DBLL", "Depth below land surface", "m"},
	108: {"SPDL", "Level at specified pressure difference from ground to level", "Pa"},
	200: {"EATM", "Entire atmosphere (considered as a single layer)", "-"},
}

// ParseLevelName sets rec.ShortFstLevel and rec.LongFstLevel from the first
// and second fixed surfaces, e.g. "2-HTGL" and `2[m] HTGL="Specified height
// level above ground"`.
func ParseLevelName(rec *Record) {
	s4 := &rec.PDS2.Sect4
	sf, ok := surfaces[s4.FstSurfType]
	reserved := !ok
	if reserved {
		sf = surface{"RESERVED", "Reserved", "-"}
	}
	val := strconv.FormatFloat(s4.FstSurfValue, 'f', -1, 64)
	if s4.FSndValue {
		val += "-" + strconv.FormatFloat(s4.SndSurfValue, 'f', -1, 64)
	}
	if reserved {
		rec.ShortFstLevel = fmt.Sprintf("%s-%s(%d)", val, sf.short, s4.FstSurfType)
		rec.LongFstLevel = fmt.Sprintf("%s[%s] %s(%d) (%s)", val, sf.unit, sf.short, s4.FstSurfType, sf.name)
		return
	}
	rec.ShortFstLevel = val + "-" + sf.short
	rec.LongFstLevel = fmt.Sprintf("%s[%s] %s=%q", val, sf.unit, sf.short, sf.name)
}
