package grid

import (
	"math"

	"github.com/sdifrance/degrib2/internal/scan"
	"github.com/sdifrance/degrib2/weather"
)

// Input is a decoded field ready for assembly.
type Input struct {
	// Values holds the field in storage order.
	Values Values
	Nx, Ny int
	// Scan is the scanning mode octet the values were stored with.
	Scan uint8
	// Bitmap, when non-nil, holds one entry per grid point in storage order.
	// Entries other than 1 mark the point as absent.
	Bitmap []uint8
	// UnitM and UnitB convert values linearly. UnitM == LogScale selects
	// 10^value instead.
	UnitM, UnitB float64
	// Wx is set for weather fields. Values are then indices into the table
	// and no unit conversion is applied.
	Wx *weather.Table
}

func (in *Input) convert(v float64) float64 {
	if in.UnitM == LogScale {
		return math.Pow(10, v)
	}
	return in.UnitM*v + in.UnitB
}

// Cell states recorded during assembly. Only cells marked missing are
// rewritten when a sentinel is moved.
const (
	cellValid uint8 = iota
	cellMissPri
	cellMissSec
)

func (a *Attrib) missMark(v float64) uint8 {
	if v == a.MissPri {
		return cellMissPri
	}
	return cellMissSec
}

func (in *Input) masked(i int) bool {
	return in.Bitmap != nil && i < len(in.Bitmap) && in.Bitmap[i] != 1
}

// Assemble writes the field into dst in canonical order (x fastest, y from
// the south), growing dst as needed, and returns the grid. attrib's
// statistics and missing value fields are updated in place.
//
// Missing cells hold attrib.MissPri or attrib.MissSec. When a sentinel falls
// inside the range of valid values it is moved above the maximum and the
// missing cells are rewritten. Bitmap-masked cells take the primary
// sentinel, which is set to BitmapMissing (or above the maximum if that
// collides) when the field has none.
func Assemble(attrib *Attrib, dst []float64, in Input) []float64 {
	n := in.Nx * in.Ny
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	grid := dst[:n]
	for i := range grid {
		grid[i] = 0
	}
	marks := make([]uint8, n)
	limit := n
	if in.Values.Len() < limit {
		limit = in.Values.Len()
	}

	attrib.FMaxMin = false
	attrib.Min, attrib.Max = 0, 0
	var missCnt, maskCnt int
	if scan.IsCanonical(in.Scan) {
		switch attrib.FMiss {
		case PrimaryMissing:
			missCnt, maskCnt = assemblePrimMiss(attrib, grid[:limit], marks, &in)
		case SecondaryMissing:
			missCnt, maskCnt = assembleSecMiss(attrib, grid[:limit], marks, &in)
		default:
			missCnt, maskCnt = assembleNoMiss(attrib, grid[:limit], &in)
		}
	} else {
		missCnt, maskCnt = assembleGeneral(attrib, grid, marks, &in, limit)
	}

	readjust(attrib, grid, marks)
	if maskCnt > 0 {
		applyBitmap(attrib, grid, &in)
	}
	if !attrib.FMaxMin && attrib.FMiss != NoMissing {
		attrib.Min, attrib.Max = attrib.MissPri, attrib.MissPri
	}
	attrib.NumMiss = missCnt + maskCnt
	return grid
}

// markWx flags the weather phrase a cell refers to as used. It reports false
// when the phrase is invalid and the cell should become missing.
func markWx(tbl *weather.Table, value float64, fMiss int) bool {
	index := int(value)
	if index < 0 || index >= tbl.Len() {
		return true
	}
	u := &tbl.Ugly[index]
	switch u.Valid {
	case weather.ValidUnused:
		u.Valid = weather.ValidUsed
	case weather.InvalidUnused:
		if fMiss != NoMissing {
			return false
		}
		u.Valid = weather.InvalidUsed
	}
	return true
}

func assembleNoMiss(attrib *Attrib, grid []float64, in *Input) (int, int) {
	maskCnt := 0
	for i := range grid {
		if in.masked(i) {
			maskCnt++
			continue
		}
		value := in.Values.At(i)
		if in.Wx != nil {
			markWx(in.Wx, value, NoMissing)
		} else {
			value = in.convert(value)
		}
		grid[i] = value
		attrib.observe(value)
	}
	return 0, maskCnt
}

func assemblePrimMiss(attrib *Attrib, grid []float64, marks []uint8, in *Input) (int, int) {
	missCnt, maskCnt := 0, 0
	for i := range grid {
		if in.masked(i) {
			maskCnt++
			continue
		}
		value := in.Values.At(i)
		if value == attrib.MissPri {
			grid[i] = value
			marks[i] = cellMissPri
			missCnt++
			continue
		}
		if in.Wx != nil {
			// Any parsed phrase counts as used here; unparsed ones are missing.
			if index := int(value); index >= 0 && index < in.Wx.Len() {
				if in.Wx.Ugly[index].Valid != weather.InvalidUnused {
					in.Wx.Ugly[index].Valid = weather.ValidUsed
				} else {
					grid[i] = attrib.MissPri
					marks[i] = cellMissPri
					missCnt++
					continue
				}
			}
		} else {
			value = in.convert(value)
		}
		grid[i] = value
		attrib.observe(value)
	}
	return missCnt, maskCnt
}

func assembleSecMiss(attrib *Attrib, grid []float64, marks []uint8, in *Input) (int, int) {
	missCnt, maskCnt := 0, 0
	for i := range grid {
		if in.masked(i) {
			maskCnt++
			continue
		}
		value := in.Values.At(i)
		if value == attrib.MissPri || value == attrib.MissSec {
			grid[i] = value
			marks[i] = attrib.missMark(value)
			missCnt++
			continue
		}
		if in.Wx != nil {
			if !markWx(in.Wx, value, SecondaryMissing) {
				grid[i] = attrib.MissPri
				marks[i] = cellMissPri
				missCnt++
				continue
			}
		} else {
			value = in.convert(value)
		}
		grid[i] = value
		attrib.observe(value)
	}
	return missCnt, maskCnt
}

func assembleGeneral(attrib *Attrib, grid []float64, marks []uint8, in *Input, limit int) (int, int) {
	missCnt, maskCnt := 0, 0
	for row := 0; row < limit; row++ {
		x, y := scan.IndexToXY(row, in.Scan, in.Nx, in.Ny)
		idx := (x - 1) + (y-1)*in.Nx
		if in.masked(row) {
			maskCnt++
			continue
		}
		value := in.Values.At(row)
		if attrib.isMissing(value) {
			grid[idx] = value
			marks[idx] = attrib.missMark(value)
			missCnt++
			continue
		}
		if in.Wx != nil {
			if !markWx(in.Wx, value, attrib.FMiss) {
				grid[idx] = attrib.MissPri
				marks[idx] = cellMissPri
				missCnt++
				continue
			}
		} else {
			value = in.convert(value)
		}
		grid[idx] = value
		attrib.observe(value)
	}
	return missCnt, maskCnt
}

// readjust moves sentinels that collide with the valid range above it.
// Valid cells equal to an old sentinel keep their value.
func readjust(attrib *Attrib, grid []float64, marks []uint8) {
	if attrib.FMiss == NoMissing || !attrib.FMaxMin {
		return
	}
	if attrib.inRange(attrib.MissPri) {
		attrib.MissPri = attrib.Max + 1
		rewrite(grid, marks, cellMissPri, attrib.MissPri)
	}
	if attrib.FMiss == SecondaryMissing && attrib.inRange(attrib.MissSec) {
		attrib.MissSec = attrib.Max + 2
		rewrite(grid, marks, cellMissSec, attrib.MissSec)
	}
}

func rewrite(grid []float64, marks []uint8, mark uint8, repl float64) {
	for i, m := range marks {
		if m == mark {
			grid[i] = repl
		}
	}
}

func applyBitmap(attrib *Attrib, grid []float64, in *Input) {
	if attrib.FMiss != PrimaryMissing && attrib.FMiss != SecondaryMissing {
		xmissp := float64(BitmapMissing)
		if attrib.inRange(xmissp) {
			xmissp = attrib.Max + 1
		}
		attrib.FMiss = PrimaryMissing
		attrib.MissPri = xmissp
	}
	canonical := scan.IsCanonical(in.Scan)
	for row := 0; row < len(in.Bitmap) && row < len(grid); row++ {
		if in.Bitmap[row] == 1 {
			continue
		}
		idx := row
		if !canonical {
			x, y := scan.IndexToXY(row, in.Scan, in.Nx, in.Ny)
			idx = (x - 1) + (y-1)*in.Nx
		}
		grid[idx] = attrib.MissPri
	}
}
