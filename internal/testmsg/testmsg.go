// Package testmsg builds small synthetic GRIB2 messages for tests.
package testmsg

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/sdifrance/degrib2/internal/bitio"
)

// SignMag encodes v as an n-byte GRIB2 sign-magnitude integer.
func SignMag(v int64, n int) []byte {
	out := make([]byte, n)
	neg := v < 0
	if neg {
		v = -v
	}
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	if neg {
		out[0] |= 0x80
	}
	return out
}

// Section prepends the 4-octet length and the section number to body.
func Section(num byte, body []byte) []byte {
	out := make([]byte, 5, 5+len(body))
	binary.BigEndian.PutUint32(out, uint32(5+len(body)))
	out[4] = num
	return append(out, body...)
}

// Message wraps sections in an indicator section and an end section.
func Message(discipline byte, sections ...[]byte) []byte {
	n := 16 + 4
	for _, s := range sections {
		n += len(s)
	}
	out := make([]byte, 16, n)
	copy(out, "GRIB")
	out[6] = discipline
	out[7] = 2
	binary.BigEndian.PutUint64(out[8:], uint64(n))
	for _, s := range sections {
		out = append(out, s...)
	}
	return append(out, "7777"...)
}

// Ident is the content of an identification section.
type Ident struct {
	Center, Subcenter uint16
	Master, Local     byte
	SigTime           byte
	RefTime           time.Time
	Status, Type      byte
}

// Section1 builds an identification section.
func Section1(id Ident) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint16(b[0:], id.Center)
	binary.BigEndian.PutUint16(b[2:], id.Subcenter)
	b[4] = id.Master
	b[5] = id.Local
	b[6] = id.SigTime
	binary.BigEndian.PutUint16(b[7:], uint16(id.RefTime.Year()))
	b[9] = byte(id.RefTime.Month())
	b[10] = byte(id.RefTime.Day())
	b[11] = byte(id.RefTime.Hour())
	b[12] = byte(id.RefTime.Minute())
	b[13] = byte(id.RefTime.Second())
	b[14] = id.Status
	b[15] = id.Type
	return Section(1, b)
}

// Section2 builds a local-use section around payload.
func Section2(payload []byte) []byte {
	return Section(2, payload)
}

// LatLon describes a template 3.0 grid on a 6371.229 km sphere.
// Coordinates are in microdegrees.
type LatLon struct {
	Nx, Ny     uint32
	Lat1, Lon1 int64
	Lat2, Lon2 int64
	Dx, Dy     uint32
	ResFlag    byte
	Scan       byte
}

// Section3LatLon builds a grid definition section with template 3.0.
func Section3LatLon(g LatLon) []byte {
	b := make([]byte, 0, 67)
	b = append(b, 0)                              // source
	b = append(b, be32(g.Nx*g.Ny)...)             // number of points
	b = append(b, 0, 0)                           // optional list
	b = append(b, be16(0)...)                     // template 3.0
	b = append(b, 6)                              // shape of earth
	b = append(b, 0, 0, 0, 0, 0)                  // radius
	b = append(b, 0, 0, 0, 0, 0)                  // major axis
	b = append(b, 0, 0, 0, 0, 0)                  // minor axis
	b = append(b, be32(g.Nx)...)                  // Ni
	b = append(b, be32(g.Ny)...)                  // Nj
	b = append(b, be32(0)...)                     // basic angle
	b = append(b, be32(0xffffffff)...)            // subdivisions
	b = append(b, SignMag(g.Lat1, 4)...)          // La1
	b = append(b, be32(uint32(g.Lon1))...)        // Lo1
	b = append(b, g.ResFlag)                      // resolution flags
	b = append(b, SignMag(g.Lat2, 4)...)          // La2
	b = append(b, be32(uint32(g.Lon2))...)        // Lo2
	b = append(b, be32(g.Dx)...)                  // Di
	b = append(b, be32(g.Dy)...)                  // Dj
	b = append(b, g.Scan)                         // scanning mode
	return Section(3, b)
}

// Product describes a template 4.0 product definition.
type Product struct {
	Cat, Subcat  byte
	GenProcess   byte
	TimeUnit     byte
	ForecastTime uint32
	Surface      byte
	SurfaceScale int64
	SurfaceValue int64
}

// Section4 builds a product definition section with template 4.0.
func Section4(p Product) []byte {
	b := make([]byte, 0, 29)
	b = append(b, be16(0)...) // coordinate values
	b = append(b, be16(0)...) // template 4.0
	b = append(b, p.Cat, p.Subcat, p.GenProcess, 0, 0)
	b = append(b, be16(0xffff)...) // cutoff hours
	b = append(b, 0xff)            // cutoff minutes
	b = append(b, p.TimeUnit)
	b = append(b, be32(p.ForecastTime)...)
	b = append(b, p.Surface)
	b = append(b, SignMag(p.SurfaceScale, 1)...)
	b = append(b, SignMag(p.SurfaceValue, 4)...)
	b = append(b, 255, 0xff, 0xff, 0xff, 0xff, 0xff)
	return Section(4, b)
}

// Simple describes template 5.0 simple packing. Template selects another
// template with the same layout, such as 41 for PNG.
type Simple struct {
	Template  uint16
	Ref       float32
	E, D      int64
	Bits      int
	FieldType byte
}

// Section5Simple builds a data representation section with template 5.0.
func Section5Simple(n int, s Simple) []byte {
	b := make([]byte, 0, 16)
	b = append(b, be32(uint32(n))...)
	b = append(b, be16(s.Template)...)
	b = append(b, be32(math.Float32bits(s.Ref))...)
	b = append(b, SignMag(s.E, 2)...)
	b = append(b, SignMag(s.D, 2)...)
	b = append(b, byte(s.Bits), s.FieldType)
	return Section(5, b)
}

// Complex describes templates 5.2 and 5.3.
type Complex struct {
	Ref               float32
	E, D              int64
	RefBits           byte
	FieldType         byte
	MissMgmt          byte
	MissPri, MissSec  uint32
	NumGroups         uint32
	RefWidth          byte
	WidthBits         byte
	RefLen            uint32
	LenInc            byte
	LastLen           uint32
	LenBits           byte
	Spatial           bool
	Order, ExtraOctet byte
}

// Section5Complex builds a data representation section with template 5.2,
// or 5.3 when c.Spatial is set.
func Section5Complex(n int, c Complex) []byte {
	tmpl := uint16(2)
	if c.Spatial {
		tmpl = 3
	}
	b := make([]byte, 0, 44)
	b = append(b, be32(uint32(n))...)
	b = append(b, be16(tmpl)...)
	b = append(b, be32(math.Float32bits(c.Ref))...)
	b = append(b, SignMag(c.E, 2)...)
	b = append(b, SignMag(c.D, 2)...)
	b = append(b, c.RefBits, c.FieldType, 1, c.MissMgmt)
	b = append(b, be32(c.MissPri)...)
	b = append(b, be32(c.MissSec)...)
	b = append(b, be32(c.NumGroups)...)
	b = append(b, c.RefWidth, c.WidthBits)
	b = append(b, be32(c.RefLen)...)
	b = append(b, c.LenInc)
	b = append(b, be32(c.LastLen)...)
	b = append(b, c.LenBits)
	if c.Spatial {
		b = append(b, c.Order, c.ExtraOctet)
	}
	return Section(5, b)
}

// Section7Raw wraps already packed data in a data section.
func Section7Raw(data []byte) []byte {
	return Section(7, data)
}

// Section6 builds a bitmap section. A nil mask means no bitmap.
func Section6(mask []bool) []byte {
	if mask == nil {
		return Section(6, []byte{255})
	}
	var w bitio.Writer
	for _, m := range mask {
		if m {
			w.Write(1, 1)
		} else {
			w.Write(0, 1)
		}
	}
	return Section(6, append([]byte{0}, w.Bytes()...))
}

// Section7 packs codes with the given width into a data section.
func Section7(codes []uint32, bits int) []byte {
	var w bitio.Writer
	for _, c := range codes {
		w.Write(c, bits)
	}
	return Section(7, w.Bytes())
}

// Group is one group of an MDL local-use payload.
type Group struct {
	Ref      float32
	Scale    uint16
	Bits     int
	DataType byte
	Codes    []uint32
}

// LocalUse packs groups into an MDL group-packed local-use payload.
func LocalUse(groups ...Group) []byte {
	out := []byte{1}
	out = append(out, be16(uint16(len(groups)))...)
	for _, g := range groups {
		out = append(out, be32(uint32(len(g.Codes)))...)
		out = append(out, be32(math.Float32bits(g.Ref))...)
		out = append(out, be16(g.Scale)...)
		out = append(out, byte(g.Bits), g.DataType)
		var w bitio.Writer
		for _, c := range g.Codes {
			w.Write(c, g.Bits)
		}
		out = append(out, w.Bytes()...)
	}
	return out
}

// Phrases packs weather phrases as a single integer group of character
// codes, each phrase terminated by 0.
func Phrases(phrases ...string) Group {
	var codes []uint32
	for _, p := range phrases {
		for i := 0; i < len(p); i++ {
			codes = append(codes, uint32(p[i]))
		}
		codes = append(codes, 0)
	}
	return Group{Bits: 8, DataType: 1, Codes: codes}
}

func be16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
