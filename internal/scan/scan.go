// Package scan converts between a GRIB2 field's storage order and 1-based
// (x, y) grid coordinates.
//
// The scanning mode octet (Flag table 3.4) uses the high nibble:
//
//	bit 1 (0x80)  0 = points scan in +i (west to east), 1 = -i
//	bit 2 (0x40)  0 = points scan in -j (north to south), 1 = +j
//	bit 3 (0x20)  0 = adjacent points are consecutive in i, 1 = in j
//	bit 4 (0x10)  0 = all rows scan the same direction, 1 = alternate rows reverse
//
// The canonical order used for assembled grids is 0x40: x increasing fastest,
// y increasing from the southern row.
package scan

// Flag bits of the scanning mode octet.
const (
	XDecreasing = 0x80
	YIncreasing = 0x40
	YFastest    = 0x20
	Serpentine  = 0x10

	// Canonical is the storage order of assembled grids.
	Canonical = YIncreasing
)

// IsCanonical reports whether a field stored with the given scanning mode is
// already in canonical order. Only the high nibble is significant.
func IsCanonical(scan uint8) bool {
	return scan&0xf0 == Canonical
}

// IndexToXY returns the 1-based grid coordinates of the row-th value of a
// field stored with the given scanning mode.
func IndexToXY(row int, scan uint8, nx, ny int) (x, y int) {
	if scan&YFastest != 0 {
		x = row / ny
		if scan&Serpentine != 0 && x%2 == 1 {
			y = ny - 1 - row%ny
		} else {
			y = row % ny
		}
	} else {
		y = row / nx
		if scan&Serpentine != 0 && y%2 == 1 {
			x = nx - 1 - row%nx
		} else {
			x = row % nx
		}
	}
	if scan&XDecreasing != 0 {
		x = nx - x
	} else {
		x++
	}
	if scan&YIncreasing != 0 {
		y++
	} else {
		y = ny - y
	}
	return x, y
}

// XYToIndex is the inverse of IndexToXY.
func XYToIndex(x, y int, scan uint8, nx, ny int) int {
	var x1, y1 int
	if scan&YIncreasing != 0 {
		y1 = y - 1
	} else {
		y1 = ny - y
	}
	if scan&XDecreasing != 0 {
		x1 = nx - x
	} else {
		x1 = x - 1
	}
	if scan&YFastest != 0 {
		if scan&Serpentine != 0 && x1%2 == 1 {
			y1 = ny - 1 - y1
		}
		return x1*ny + y1
	}
	if scan&Serpentine != 0 && y1%2 == 1 {
		x1 = nx - 1 - x1
	}
	return x1 + y1*nx
}
