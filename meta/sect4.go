package meta

import (
	"github.com/golang/glog"
	"golang.org/x/exp/slices"
)

// Product definition templates, Table 4.0.
const (
	PDTAnalysis          = 0
	PDTEnsemble          = 1
	PDTDerived           = 2
	PDTProbability       = 5
	PDTStatistic         = 8
	PDTProbStatistic     = 9
	PDTPercentile        = 10
	PDTEnsembleStatistic = 11
	PDTDerivedStatistic  = 12
	PDTRadar             = 20
	PDTSatellite         = 30
)

var supportedProducts = []int{
	PDTAnalysis, PDTEnsemble, PDTDerived, PDTProbability, PDTStatistic,
	PDTProbStatistic, PDTPercentile, PDTEnsembleStatistic, PDTDerivedStatistic,
	PDTRadar, PDTSatellite,
}

// ParseSect4 reads the product definition: parameter, generating process,
// forecast time, surfaces and the template specific fields.
func ParseSect4(is4 []int32, rec *Record) error {
	if err := checkLabel(4, is4, 9); err != nil {
		return err
	}
	if is4[5] != 0 {
		return unsupported(4, "%d vertical coordinate values", is4[5])
	}
	s := &rec.PDS2.Sect4
	s.Templat = int(is4[7])
	if !slices.Contains(supportedProducts, s.Templat) {
		return unsupported(4, "product definition template 4.%d", s.Templat)
	}
	if len(is4) < 34 {
		return tooShort(4, len(is4), 34)
	}
	s.Cat = int(is4[9])
	s.Subcat = int(is4[10])
	s.GenProcess = int(is4[11])

	switch s.Templat {
	case PDTSatellite:
		return parseSatellite(is4, rec)
	case PDTRadar:
		s.ValidTime = rec.PDS2.RefTime
		s.FstSurfType, s.SndSurfType = MissingU1, MissingU1
		return nil
	}

	s.BgGenID = int(is4[12])
	s.GenID = int(is4[13])
	if is4[14] == MissingU2 || is4[16] == MissingU1 {
		s.FValidCutOff = false
		s.CutOff = 0
	} else {
		s.FValidCutOff = true
		s.CutOff = int(is4[14])*3600 + int(is4[16])*60
	}
	foreSec, err := Time2Sec(int(is4[18]), int(is4[17]))
	if err != nil {
		return &SectionError{Section: 4, Kind: KindUnsupported, Severity: SeverityFatal, Err: err}
	}
	s.ForeSec = foreSec
	s.ValidTime = addSeconds(rec.PDS2.RefTime, foreSec)

	s.FstSurfType = int(is4[22])
	s.FstSurfScale = int(is4[23])
	s.FstSurfValue, s.FFstValue = surfaceValue(is4[22], is4[23], is4[24])
	s.SndSurfType = int(is4[28])
	s.SndSurfScale = int(is4[29])
	s.SndSurfValue, s.FSndValue = surfaceValue(is4[28], is4[29], is4[30])

	switch s.Templat {
	case PDTEnsemble:
		if len(is4) < 37 {
			return tooShort(4, len(is4), 37)
		}
		parseEnsemble(is4, s)
	case PDTDerived:
		if len(is4) < 36 {
			return tooShort(4, len(is4), 36)
		}
		s.DerivedFcst = int(is4[34])
		s.NumberFcsts = int(is4[35])
	case PDTProbability:
		if len(is4) < 47 {
			return tooShort(4, len(is4), 47)
		}
		parseProbability(is4, s)
	case PDTStatistic:
		return parseStatistic(is4, rec, 34)
	case PDTProbStatistic:
		if len(is4) < 47 {
			return tooShort(4, len(is4), 47)
		}
		parseProbability(is4, s)
		return parseStatistic(is4, rec, 47)
	case PDTPercentile:
		if len(is4) < 35 {
			return tooShort(4, len(is4), 35)
		}
		s.Percentile = int(is4[34])
		return parseStatistic(is4, rec, 35)
	case PDTEnsembleStatistic:
		if len(is4) < 37 {
			return tooShort(4, len(is4), 37)
		}
		parseEnsemble(is4, s)
		return parseStatistic(is4, rec, 37)
	case PDTDerivedStatistic:
		if len(is4) < 36 {
			return tooShort(4, len(is4), 36)
		}
		s.DerivedFcst = int(is4[34])
		s.NumberFcsts = int(is4[35])
		return parseStatistic(is4, rec, 36)
	}
	return nil
}

func surfaceValue(typ, scale, value int32) (float64, bool) {
	if typ == MissingU1 || scale == MissingS1 || value == MissingS4 {
		return 0, false
	}
	return float64(value) / pow10(int(scale)), true
}

func parseEnsemble(is4 []int32, s *Sect4) {
	s.TypeEnsemble = int(is4[34])
	s.PerturbNum = int(is4[35])
	s.NumberFcsts = int(is4[36])
}

func parseProbability(is4 []int32, s *Sect4) {
	s.ForeProbNum = int(is4[34])
	s.NumForeProbs = int(is4[35])
	s.ProbType = int(is4[36])
	s.LowerLimit = Limit{Factor: int(is4[37]), Value: int(is4[38])}
	s.UpperLimit = Limit{Factor: int(is4[42]), Value: int(is4[43])}
}

// parseStatistic reads the end of the overall time interval, which starts at
// is4[start], and the time ranges that follow it in 12 octet strides.
//
//	start+0   year (2 octets)
//	start+2   month ... start+6 second
//	start+7   number of time ranges n
//	start+8   number of missing values (4 octets)
//	start+12  first time range: process, increment type, unit, length (4),
//	          increment unit, increment (4)
//
// Some MOS products end the template before the first time range; n is then
// 0 and only the end time is kept.
func parseStatistic(is4 []int32, rec *Record, start int) error {
	s := &rec.PDS2.Sect4
	if len(is4) < start+12 {
		return tooShort(4, len(is4), start+12)
	}
	n := int(is4[start+7])
	s.NumMissing = int(is4[start+8])
	if n < 0 {
		return structural(4, ErrBadValue, "%d time ranges", n)
	}
	if need := start + 12 + 12*n; len(is4) < need {
		return tooShort(4, len(is4), need)
	}
	s.Intervals = nil
	if n == 0 {
		glog.V(1).Infof("product template 4.%d has no time ranges", s.Templat)
	} else {
		s.Intervals = make([]Interval, n)
	}
	for i := range s.Intervals {
		base := start + 12 + 12*i
		s.Intervals[i] = Interval{
			ProcessID:     int(is4[base]),
			IncrType:      int(is4[base+1]),
			TimeRangeUnit: int(is4[base+2]),
			LenTime:       int(is4[base+3]),
			IncrUnit:      int(is4[base+7]),
			TimeIncr:      int(is4[base+8]),
		}
	}

	end, err := ParseTime(int(is4[start]), int(is4[start+2]), int(is4[start+3]),
		int(is4[start+4]), int(is4[start+5]), int(is4[start+6]))
	if err != nil {
		if n != 1 {
			return structural(4, err, "end of overall time interval")
		}
		glog.Warningf("bad end of overall time interval (%v); using reference time plus forecast time", err)
		s.ValidTime = addSeconds(rec.PDS2.RefTime, s.ForeSec)
		return nil
	}
	s.ValidTime = end
	return nil
}

func parseSatellite(is4 []int32, rec *Record) error {
	s := &rec.PDS2.Sect4
	s.GenID = int(is4[12])
	nb := int(is4[13])
	if need := 14 + 10*nb; len(is4) < need {
		return tooShort(4, len(is4), need)
	}
	s.Bands = make([]Band, nb)
	for i := range s.Bands {
		base := 14 + 10*i
		s.Bands[i] = Band{
			Series:      int(is4[base]),
			Numbers:     int(is4[base+2]),
			InstType:    int(is4[base+4]),
			CentWaveNum: float64(is4[base+6]) / pow10(int(is4[base+5])),
		}
	}
	s.ValidTime = rec.PDS2.RefTime
	s.FstSurfType, s.SndSurfType = MissingU1, MissingU1
	return nil
}
