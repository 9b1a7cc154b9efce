package meta

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/sdifrance/degrib2/weather"
)

// Sections holds the decoded section arrays of one field along with its
// unpacked local use data.
type Sections struct {
	// IS is indexed by section number; IS[2] may be empty.
	IS      [8][]int32
	GribLen int
	IDat    []int32
	RDat    []float32
}

// ParseOptions controls MetaParse.
type ParseOptions struct {
	Policy Policy
	// Parser decomposes weather phrases; nil selects weather.DefaultParser.
	Parser weather.Parser
}

// MetaParse fills rec from the sections of one field. Failures in lenient
// sections are logged and recorded in the report; any other failure stops
// parsing and is returned along with the report so far.
func MetaParse(rec *Record, secs Sections, opts ParseOptions) (Report, error) {
	var rep Report
	check := func(sect int, err error) error {
		if err == nil {
			return nil
		}
		var se *SectionError
		if !errors.As(err, &se) {
			se = &SectionError{Section: sect, Kind: KindStructural, Err: err}
		}
		entry := *se
		if opts.Policy.Lenient[sect] {
			entry.Severity = SeverityWarning
			rep.Add(entry)
			glog.Warningf("ignoring %v", &entry)
			return nil
		}
		entry.Severity = SeverityFatal
		rep.Add(entry)
		return &entry
	}

	if err := check(0, ParseSect0(secs.IS[0], secs.GribLen, rec)); err != nil {
		return rep, err
	}
	if err := check(1, ParseSect1(secs.IS[1], rec)); err != nil {
		return rep, err
	}

	if is2 := secs.IS[2]; len(is2) >= 7 {
		rec.PDS2.Sect2NumGroups = int(is2[6])
	}
	rec.PDS2.FSect2 = (len(secs.IDat) > 0 && secs.IDat[0] != 0) || (len(secs.RDat) > 0 && secs.RDat[0] != 0)

	if err := check(3, ParseSect3(secs.IS[3], rec)); err != nil {
		return rep, err
	}
	if err := check(4, ParseSect4(secs.IS[4], rec)); err != nil {
		return rep, err
	}
	if err := check(5, ParseSect5(secs.IS[5], rec)); err != nil {
		return rep, err
	}

	ParseElemName(rec)
	ParseLevelName(rec)

	if rec.IsWeather() {
		if rec.PDS2.FSect2 {
			tbl, perr := ParseSect2Wx(secs.RDat, secs.IDat, opts.Parser)
			if err := check(2, perr); err != nil {
				return rep, err
			}
			rec.PDS2.Sect2.Wx = tbl
		}
		if rec.PDS2.Sect2.Wx == nil {
			entry := SectionError{Section: 2, Kind: KindStructural, Severity: SeverityFatal, Err: ErrNoWxTable}
			rep.Add(entry)
			return rep, &entry
		}
		return rep, nil
	}
	if rec.PDS2.FSect2 {
		vals, perr := ParseSect2Unknown(secs.RDat, secs.IDat)
		if err := check(2, perr); err != nil {
			return rep, err
		}
		rec.PDS2.Sect2.Unknown = vals
	}
	return rep, nil
}
