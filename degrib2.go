// Package degrib2 decodes GRIB2 messages into metadata records and grids in
// canonical scan order (x increasing fastest, y increasing from the south).
//
// GRIB2 is specified here: https://library.wmo.int/doc_num.php?explnum_id=11283
package degrib2

import (
	"bytes"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sdifrance/degrib2/grid"
	"github.com/sdifrance/degrib2/gribio"
	"github.com/sdifrance/degrib2/internal/g2"
	"github.com/sdifrance/degrib2/internal/scan"
	"github.com/sdifrance/degrib2/localuse"
	"github.com/sdifrance/degrib2/meta"
	"github.com/sdifrance/degrib2/router"
)

// ErrNoMoreFields is returned by Next after the last field of a message.
var ErrNoMoreFields = errors.New("no more fields in message")

// Field is one decoded field.
type Field struct {
	Meta *meta.Record
	// Grid holds Nx*Ny values in canonical order.
	Grid   []float64
	Nx, Ny int
	// EndOfMessage is set on the last field of the message.
	EndOfMessage bool
	// Report lists the tolerated section failures.
	Report meta.Report

	Decoder   router.Decoder
	Templates router.Templates
}

// Session walks the fields of one GRIB2 message.
type Session struct {
	// ID tags the session's log lines.
	ID uuid.UUID

	msg  []byte
	info g2.Info
	opts *options
	next int
}

// NewSession checks the structure of msg and returns a session positioned on
// its first field.
func NewSession(msg []byte, opts ...Option) (*Session, error) {
	info, err := g2.Inspect(msg)
	if err != nil {
		return nil, errors.Wrap(err, "error reading GRIB2 message")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	s := &Session{
		ID:   uuid.New(),
		msg:  msg,
		info: info,
		opts: o,
	}
	glog.V(1).Infof("session %s: discipline %d, %d fields, %d local use sections", s.ID, info.Discipline, info.NumFields, info.NumLocal)
	return s, nil
}

// NumFields returns the number of fields in the message.
func (s *Session) NumFields() int {
	return s.info.NumFields
}

// Reset moves the session back to the first field.
func (s *Session) Reset() {
	s.next = 0
}

// Next decodes the next field. It returns ErrNoMoreFields once every field
// has been returned.
func (s *Session) Next() (*Field, error) {
	if s.next >= s.info.NumFields {
		return nil, ErrNoMoreFields
	}
	subg := s.next
	s.next++
	f, err := s.decode(subg)
	if err != nil {
		return nil, errors.Wrapf(err, "session %s: field %d", s.ID, subg+1)
	}
	f.EndOfMessage = s.next == s.info.NumFields
	return f, nil
}

func (s *Session) decode(subg int) (*Field, error) {
	dec := router.Route(s.msg, subg)
	if dec.Err != nil {
		glog.Warningf("session %s: field %d: cannot read templates (%v); using the generic decoder", s.ID, subg+1, dec.Err)
	}
	if dec.Decoder == router.DecoderMDL {
		glog.V(2).Infof("session %s: field %d qualifies for the MDL decoder; using the generic decoder", s.ID, subg+1)
	}

	raw, err := g2.GetField(s.msg, subg+1)
	if err != nil {
		return nil, err
	}
	defer raw.Release()

	var report meta.Report
	secs := meta.Sections{IS: raw.Sections, GribLen: len(s.msg)}
	if len(raw.Local) > 0 && raw.Local[0] == localuse.FlagGroupPacked {
		secs.IDat, secs.RDat, err = s.unpackLocal(raw.Local)
		if err != nil {
			se := meta.SectionError{Section: 2, Kind: meta.KindStructural, Severity: meta.SeverityFatal, Err: err}
			if localuse.IsCapacity(err) {
				se.Kind = meta.KindCapacity
			} else if s.opts.policy.Lenient[2] {
				se.Severity = meta.SeverityWarning
				report.Add(se)
				glog.Warningf("session %s: field %d: ignoring local use data: %v", s.ID, subg+1, err)
				err = nil
			}
			if err != nil {
				return nil, &se
			}
		}
	}

	rec := meta.NewRecord()
	rep, err := meta.MetaParse(rec, secs, meta.ParseOptions{Policy: s.opts.policy, Parser: s.opts.parser})
	report = append(report, rep...)
	if err != nil {
		return nil, err
	}

	nx, ny := rec.GDS.Nx, rec.GDS.Ny
	if nx*ny != raw.NumPoints || nx == 0 {
		glog.Warningf("session %s: field %d: grid is %dx%d for %d points; treating it as one row", s.ID, subg+1, nx, ny, raw.NumPoints)
		nx, ny = raw.NumPoints, 1
	}
	mode := uint8(scan.Canonical)
	if oct := g2.GridScanOctet(raw.GridTemplate); oct >= 0 && oct < len(raw.Sections[3]) {
		mode = uint8(raw.Sections[3][oct])
	}

	in := grid.Input{
		Values: transfer(rec.GridAttrib.FieldType, raw.Data),
		Nx:     nx,
		Ny:     ny,
		Scan:   mode,
		Bitmap: raw.Bitmap,
		UnitM:  1,
	}
	if rec.IsWeather() {
		in.Wx = rec.PDS2.Sect2.Wx
	} else {
		m, b, name := meta.ComputeUnit(rec.Convert, rec.Unit, s.opts.unit)
		in.UnitM, in.UnitB = m, b
		if s.opts.unit != meta.UnitGRIB2 && name != "[GRIB2 unit]" {
			rec.Unit = name
		}
	}
	values := grid.Assemble(&rec.GridAttrib, nil, in)

	if in.Wx != nil {
		for _, i := range in.Wx.InvalidUsed() {
			glog.Warningf("session %s: field %d: weather phrase %d %q is used but does not parse", s.ID, subg+1, i, in.Wx.Data[i])
		}
	}

	return &Field{
		Meta:      rec,
		Grid:      values,
		Nx:        nx,
		Ny:        ny,
		Report:    report,
		Decoder:   dec.Decoder,
		Templates: dec.Templates,
	}, nil
}

// unpackLocal unpacks MDL group-packed local use data, doubling the output
// arrays until the data fits.
func (s *Session) unpackLocal(local []byte) ([]int32, []float32, error) {
	for n := s.opts.localCap; ; n *= 2 {
		idat := make([]int32, n)
		rdat := make([]float32, n)
		err := localuse.Unpack(local, idat, rdat)
		if err == nil {
			return idat, rdat, nil
		}
		if !localuse.IsCapacity(err) || n >= maxLocalCap {
			return nil, nil, err
		}
		glog.V(1).Infof("session %s: local use data needs more than %d values; retrying", s.ID, n)
	}
}

// transfer copies the unpacked values into the variant matching the field
// type. Integer fields are rounded to the nearest integer.
func transfer(fieldType int, data []float32) grid.Values {
	if fieldType == grid.FieldInteger {
		return grid.Transfer[int32](data)
	}
	return grid.Transfer[float32](data)
}

// Read decodes every field of every GRIB2 message in data. GRIB1 messages
// are skipped.
func Read(data []byte, opts ...Option) ([]*Field, error) {
	file, err := gribio.ReadFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "error splitting GRIB messages")
	}
	var fields []*Field
	for i, msg := range file.Messages() {
		s, err := NewSession(msg, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d", i+1)
		}
		for {
			f, err := s.Next()
			if errors.Is(err, ErrNoMoreFields) {
				break
			}
			if err != nil {
				return nil, errors.Wrapf(err, "message %d", i+1)
			}
			fields = append(fields, f)
		}
	}
	return fields, nil
}
