package meta

import (
	"github.com/golang/glog"
)

// Plausible earth radius range in km.
const (
	minEarthRadius = 6300
	maxEarthRadius = 6400
)

// RescaleRadius guesses the unit of an earth radius given in km. Values
// below 6.4 were sent in thousands of km and values above 6400 in metres.
func RescaleRadius(r float64) float64 {
	switch {
	case r < 6.4:
		return r * 1000
	case r > 6400:
		return r / 1000
	}
	return r
}

// EarthRadius returns the major and minor earth axes in km for a shape of
// earth (Code table 3.2) and whether the earth is a sphere.
//
//	is3[14]  shape of the earth
//	is3[15]  scale factor of radius        is3[16]  scaled radius
//	is3[20]  scale factor of major axis    is3[21]  scaled major axis
//	is3[25]  scale factor of minor axis    is3[26]  scaled minor axis
func EarthRadius(is3 []int32) (maj, min float64, sphere bool, err error) {
	switch shape := is3[14]; shape {
	case 0:
		return 6367.47, 6367.47, true, nil
	case 1:
		if is3[16] == MissingS4 || is3[15] == MissingS1 {
			return 0, 0, false, structural(3, ErrMissing, "earth radius")
		}
		r := RescaleRadius(float64(is3[16]) / pow10(int(is3[15])) / 1000)
		return r, r, true, nil
	case 2:
		return 6378.160, 6356.775, false, nil
	case 3, 7:
		if is3[21] == MissingS4 || is3[20] == MissingS1 || is3[26] == MissingS4 || is3[25] == MissingS1 {
			return 0, 0, false, structural(3, ErrMissing, "earth axes")
		}
		maj = float64(is3[21]) / pow10(int(is3[20]))
		min = float64(is3[26]) / pow10(int(is3[25]))
		if shape == 7 {
			// metres
			maj /= 1000
			min /= 1000
		}
		return RescaleRadius(maj), RescaleRadius(min), false, nil
	case 4:
		return 6378.137, 6356.752314, false, nil
	case 5:
		return 6378.137, 6356.7523, false, nil
	case 6:
		return 6371.229, 6371.229, true, nil
	default:
		return 0, 0, false, unsupported(3, "shape of earth %d", shape)
	}
}

// ParseSect3 reads the grid definition.
func ParseSect3(is3 []int32, rec *Record) error {
	if err := checkLabel(3, is3, 14); err != nil {
		return err
	}
	if is3[5] != 0 {
		glog.Warningf("grid definition source %d is not a template; decoding anyway", is3[5])
	}
	gds := &rec.GDS
	gds.NumPts = int(uint32(is3[6]))
	if is3[10] != 0 || is3[11] != 0 {
		glog.Warningf("grid has an optional list of numbers (%d octets, interpretation %d); ignoring it", is3[10], is3[11])
	}
	gds.ProjType = int(is3[12])
	if len(is3) < 38 {
		return tooShort(3, len(is3), 38)
	}

	maj, min, sphere, err := EarthRadius(is3)
	if err != nil {
		return err
	}
	if maj < minEarthRadius || maj > maxEarthRadius || min < minEarthRadius || min > maxEarthRadius {
		return structural(3, ErrBadValue, "earth axes %g, %g km", maj, min)
	}
	gds.MajEarth, gds.MinEarth, gds.FSphere = maj, min, sphere

	gds.Nx = int(uint32(is3[30]))
	gds.Ny = int(uint32(is3[34]))
	if gds.Nx*gds.Ny != gds.NumPts {
		return structural(3, ErrBadValue, "Nx %d * Ny %d != %d points", gds.Nx, gds.Ny, gds.NumPts)
	}

	const unit = 1e-6
	switch gds.ProjType {
	case ProjLatLon, ProjGaussian:
		return parseLatLon(is3, gds)
	case ProjMercator:
		if len(is3) < 72 {
			return tooShort(3, len(is3), 72)
		}
		if err := defined(is3, "Mercator", 38, 42, 47, 51, 55, 60); err != nil {
			return err
		}
		gds.Lat1 = float64(is3[38]) * unit
		gds.Lon1 = float64(is3[42]) * unit
		gds.ResFlag = uint8(is3[46])
		gds.MeshLat = float64(is3[47]) * unit
		gds.Lat2 = float64(is3[51]) * unit
		gds.Lon2 = float64(is3[55]) * unit
		gds.Scan = uint8(is3[59])
		gds.OrientLon = float64(is3[60]) * unit
		gds.Dx = float64(is3[64]) / 1000
		gds.Dy = float64(is3[68]) / 1000
		switch incrementGiven(gds.ResFlag) {
		case iGiven:
			if err := defined(is3, "Mercator", 64); err != nil {
				return err
			}
		case jGiven:
			if err := defined(is3, "Mercator", 68); err != nil {
				return err
			}
		}
		copyIncrement(gds)
	case ProjPolar, ProjLambert:
		need := 65
		if gds.ProjType == ProjLambert {
			need = 81
		}
		if len(is3) < need {
			return tooShort(3, len(is3), need)
		}
		if err := defined(is3, "polar or Lambert", 38, 42, 47, 51); err != nil {
			return err
		}
		gds.Lat1 = float64(is3[38]) * unit
		gds.Lon1 = float64(is3[42]) * unit
		gds.ResFlag = uint8(is3[46])
		gds.MeshLat = float64(is3[47]) * unit
		gds.OrientLon = float64(is3[51]) * unit
		gds.Dx = float64(is3[55]) / 1000
		gds.Dy = float64(is3[59]) / 1000
		gds.Center = uint8(is3[63])
		gds.Scan = uint8(is3[64])
		if gds.ProjType == ProjPolar {
			if gds.Center&0x40 != 0 {
				return unsupported(3, "bipolar polar stereographic projection")
			}
			gds.ScaleLat1, gds.ScaleLat2 = 90, 90
			if gds.Center&0x80 != 0 {
				gds.ScaleLat1, gds.ScaleLat2 = -90, -90
			}
			return nil
		}
		if err := defined(is3, "Lambert", 65, 69, 73, 77); err != nil {
			return err
		}
		gds.ScaleLat1 = float64(is3[65]) * unit
		gds.ScaleLat2 = float64(is3[69]) * unit
		gds.SouthLat = float64(is3[73]) * unit
		gds.SouthLon = float64(is3[77]) * unit
	case ProjOrthographic:
		if len(is3) < 80 {
			return tooShort(3, len(is3), 80)
		}
		gds.Lat1 = float64(is3[38]) * unit
		gds.Lon1 = float64(is3[42]) * unit
		gds.ResFlag = uint8(is3[46])
		gds.Dx = float64(is3[47])
		gds.Dy = float64(is3[51])
		gds.Lon2 = float64(is3[55]) / 1000
		gds.Lat2 = float64(is3[59]) / 1000
		gds.Scan = uint8(is3[63])
		gds.OrientLon = float64(is3[64]) * unit
		// altitude in units of 10^-6 earth radii
		gds.StretchFactor = float64(is3[68]) / 1e6
		gds.SouthLon = float64(is3[72])
		gds.SouthLat = float64(is3[76])
	default:
		glog.Warningf("grid definition template 3.%d is not decoded; using defaults", gds.ProjType)
	}
	return nil
}

func parseLatLon(is3 []int32, gds *GDS) error {
	if len(is3) < 72 {
		return tooShort(3, len(is3), 72)
	}
	unit := 1e-6
	angle, subdivision := is3[38], is3[42]
	if angle != 0 {
		if subdivision == 0 {
			return structural(3, ErrBadValue, "basic angle %d with 0 subdivisions", angle)
		}
		unit = float64(angle) / float64(subdivision)
	}
	if err := defined(is3, "lat/lon", 46, 50, 55, 59, 63, 67); err != nil {
		return err
	}
	gds.Lat1 = float64(is3[46]) * unit
	gds.Lon1 = float64(is3[50]) * unit
	gds.ResFlag = uint8(is3[54])
	gds.Lat2 = float64(is3[55]) * unit
	gds.Lon2 = float64(is3[59]) * unit
	gds.Dx = float64(is3[63]) * unit
	if gds.ProjType == ProjGaussian {
		// is3[67] is the number of parallels between a pole and the equator
		if np := is3[67]; np != 0 {
			gds.Dy = 90 / float64(np)
		}
	} else {
		gds.Dy = float64(is3[67]) * unit
	}
	gds.Scan = uint8(is3[71])
	copyIncrement(gds)
	return nil
}

// defined fails when any of the given array indices holds the 4-octet
// missing value.
func defined(is3 []int32, grid string, idx ...int) error {
	for _, i := range idx {
		if is3[i] == MissingS4 {
			return structural(3, ErrMissing, "%s grid is not defined completely: octet %d", grid, i+1)
		}
	}
	return nil
}

// Resolution and component flags, Flag table 3.3.
const (
	iGiven = 0x20
	jGiven = 0x10
)

// incrementGiven returns iGiven or jGiven when only that increment is
// given, and 0 otherwise.
func incrementGiven(flag uint8) uint8 {
	switch flag & (iGiven | jGiven) {
	case iGiven:
		return iGiven
	case jGiven:
		return jGiven
	}
	return 0
}

// copyIncrement copies the one given increment onto the other.
func copyIncrement(gds *GDS) {
	switch incrementGiven(gds.ResFlag) {
	case iGiven:
		gds.Dy = gds.Dx
	case jGiven:
		gds.Dx = gds.Dy
	}
}
