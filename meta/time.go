package meta

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// ParseTime validates the components of a GRIB2 timestamp and returns it as
// a UTC instant. Hour 24, minute 60 and second 60 or 61 are accepted and roll
// over into the next unit.
func ParseTime(year, mon, day, hour, min, sec int) (time.Time, error) {
	switch {
	case year < 1900 || year > 2100:
		return time.Time{}, errors.Wrapf(ErrBadValue, "year %d", year)
	case mon < 1 || mon > 12:
		return time.Time{}, errors.Wrapf(ErrBadValue, "month %d", mon)
	case day < 1 || day > 31:
		return time.Time{}, errors.Wrapf(ErrBadValue, "day %d", day)
	case hour < 0 || hour > 24:
		return time.Time{}, errors.Wrapf(ErrBadValue, "hour %d", hour)
	case min < 0 || min > 60:
		return time.Time{}, errors.Wrapf(ErrBadValue, "minute %d", min)
	case sec < 0 || sec > 61:
		return time.Time{}, errors.Wrapf(ErrBadValue, "second %d", sec)
	}
	return time.Date(year, time.Month(mon), day, hour, min, sec, 0, time.UTC), nil
}

// unitSeconds is the length in seconds of each time unit of Code table 4.4.
// Units with no fixed length (month, year, decade ...) are 0.
var unitSeconds = [...]float64{
	0:  60,    // minute
	1:  3600,  // hour
	2:  86400, // day
	3:  0,     // month
	4:  0,     // year
	5:  0,     // decade
	6:  0,     // normal (30 years)
	7:  0,     // century
	8:  0,
	9:  0,
	10: 10800, // 3 hours
	11: 21600, // 6 hours
	12: 43200, // 12 hours
	13: 1,     // second
}

// Time2Sec converts delta, expressed in the given Code table 4.4 unit, to
// seconds.
func Time2Sec(delta int, unit int) (float64, error) {
	if unit < 0 || unit >= len(unitSeconds) || unitSeconds[unit] == 0 {
		return 0, errors.Wrapf(ErrUnsupported, "time unit %d", unit)
	}
	return float64(delta) * unitSeconds[unit], nil
}

func addSeconds(t time.Time, sec float64) time.Time {
	return t.Add(time.Duration(math.Round(sec * float64(time.Second))))
}

func pow10(n int) float64 {
	return math.Pow10(n)
}
