// Package weather holds the lookup table of NDFD weather phrases carried in
// a GRIB2 local-use section.
//
// Weather grids store small integers; each integer indexes a phrase
// ("ugly string") such as "Def:R:-:<NoVis>:^Chc:T:+:<NoVis>:DmgW". The table
// records for each phrase whether it parsed and whether the grid uses it.
package weather

import (
	"errors"
	"fmt"
	"strings"
)

// Validity tracks whether a phrase parsed and whether the grid references it.
type Validity uint8

const (
	// InvalidUnused marks a phrase that failed to parse and is not used.
	InvalidUnused Validity = iota
	// ValidUnused marks a phrase that parsed but is not yet used.
	ValidUnused
	// ValidUsed marks a parsed phrase referenced by at least one cell.
	ValidUsed
	// InvalidUsed marks a phrase that failed to parse but is referenced.
	// The caller decides how to reconcile these.
	InvalidUsed
)

func (v Validity) String() string {
	switch v {
	case InvalidUnused:
		return "invalid-unused"
	case ValidUnused:
		return "valid-unused"
	case ValidUsed:
		return "valid-used"
	case InvalidUsed:
		return "invalid-used"
	}
	return fmt.Sprintf("validity(%d)", uint8(v))
}

// MaxGroups is the number of '^' separated groups a phrase may hold.
const MaxGroups = 5

// Group is one weather condition in a phrase.
type Group struct {
	Coverage   string
	Type       string
	Intensity  string
	Visibility string
	Attributes []string
}

// Ugly is the decomposition of one phrase.
type Ugly struct {
	Groups []Group
	NoWx   bool
	Valid  Validity
}

// Parser decomposes a phrase. Implementations may be swapped for a richer
// NDFD parser; the assembler only relies on the error result.
type Parser interface {
	Parse(phrase string) (Ugly, error)
}

// Table is the decoded weather lookup table of one field.
type Table struct {
	Data   []string
	Ugly   []Ugly
	MaxLen int
}

// ErrMalformed is returned for a phrase that does not follow the
// coverage:type:intensity:visibility:attributes layout.
var ErrMalformed = errors.New("malformed weather phrase")

// NewTable builds a table from phrases, recording each phrase's parse result.
// A nil parser uses DefaultParser.
func NewTable(phrases []string, p Parser) *Table {
	if p == nil {
		p = DefaultParser{}
	}
	t := &Table{
		Data: phrases,
		Ugly: make([]Ugly, len(phrases)),
	}
	for i, s := range phrases {
		if len(s) > t.MaxLen {
			t.MaxLen = len(s)
		}
		u, err := p.Parse(s)
		if err != nil {
			t.Ugly[i] = Ugly{Valid: InvalidUnused}
			continue
		}
		u.Valid = ValidUnused
		t.Ugly[i] = u
	}
	return t
}

// Len returns the number of phrases.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Data)
}

// InvalidUsed returns the indices of phrases that failed to parse yet are
// referenced by the grid.
func (t *Table) InvalidUsed() []int {
	var out []int
	for i := range t.Ugly {
		if t.Ugly[i].Valid == InvalidUsed {
			out = append(out, i)
		}
	}
	return out
}

// Reconcile demotes phrases marked InvalidUsed back to InvalidUnused and
// returns how many were changed.
func (t *Table) Reconcile() int {
	n := 0
	for i := range t.Ugly {
		if t.Ugly[i].Valid == InvalidUsed {
			t.Ugly[i].Valid = InvalidUnused
			n++
		}
	}
	return n
}

// Free drops every phrase and its decomposition.
func (t *Table) Free() {
	if t == nil {
		return
	}
	t.Data = nil
	t.Ugly = nil
	t.MaxLen = 0
}

// DefaultParser splits phrases into '^' separated groups of five
// ':' separated fields.
type DefaultParser struct{}

// Parse implements Parser.
func (DefaultParser) Parse(phrase string) (Ugly, error) {
	if phrase == "<NoWx>" || phrase == "" {
		return Ugly{NoWx: true}, nil
	}
	parts := strings.Split(phrase, "^")
	if len(parts) > MaxGroups {
		return Ugly{}, fmt.Errorf("%q has %d groups: %w", phrase, len(parts), ErrMalformed)
	}
	u := Ugly{Groups: make([]Group, 0, len(parts))}
	for _, part := range parts {
		f := strings.Split(part, ":")
		if len(f) != 5 {
			return Ugly{}, fmt.Errorf("%q: group %q has %d fields: %w", phrase, part, len(f), ErrMalformed)
		}
		g := Group{
			Coverage:   f[0],
			Type:       f[1],
			Intensity:  f[2],
			Visibility: f[3],
		}
		if g.Type == "" {
			return Ugly{}, fmt.Errorf("%q: empty weather type: %w", phrase, ErrMalformed)
		}
		if f[4] != "" {
			g.Attributes = strings.Split(f[4], ",")
		}
		u.Groups = append(u.Groups, g)
	}
	return u, nil
}
