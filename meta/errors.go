package meta

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a section failure.
type Kind int

const (
	// KindStructural covers short arrays, bad labels and out of range values.
	KindStructural Kind = iota
	// KindUnsupported covers templates and options this decoder does not read.
	KindUnsupported
	// KindCapacity covers caller supplied buffers that are too small.
	KindCapacity
	// KindResource covers allocation failures.
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindUnsupported:
		return "unsupported"
	case KindCapacity:
		return "capacity"
	case KindResource:
		return "resource"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Severity tells whether decoding went on after a failure.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityFatal
)

func (s Severity) String() string {
	if s == SeverityFatal {
		return "fatal"
	}
	return "warning"
}

// Sentinel causes wrapped by SectionError.
var (
	ErrTooShort    = errors.New("section array too short")
	ErrBadLabel    = errors.New("section number does not match")
	ErrBadValue    = errors.New("value out of range")
	ErrMissing     = errors.New("required value is missing")
	ErrUnsupported = errors.New("not supported")
	ErrNoWxTable   = errors.New("weather grid has no weather table")
)

// SectionError records a failure while parsing one section.
type SectionError struct {
	Section  int
	Kind     Kind
	Severity Severity
	Err      error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %d (%s, %s): %v", e.Section, e.Kind, e.Severity, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

func structural(sect int, cause error, format string, args ...interface{}) *SectionError {
	return &SectionError{Section: sect, Kind: KindStructural, Severity: SeverityFatal, Err: errors.Wrapf(cause, format, args...)}
}

func unsupported(sect int, format string, args ...interface{}) *SectionError {
	return &SectionError{Section: sect, Kind: KindUnsupported, Severity: SeverityFatal, Err: errors.Wrapf(ErrUnsupported, format, args...)}
}

func tooShort(sect, have, want int) *SectionError {
	return structural(sect, ErrTooShort, "have %d elements, need %d", have, want)
}

func checkLabel(sect int, is []int32, minLen int) *SectionError {
	if len(is) < minLen {
		return tooShort(sect, len(is), minLen)
	}
	if is[4] != int32(sect) {
		return structural(sect, ErrBadLabel, "label %d", is[4])
	}
	return nil
}

// Report lists the section failures of one field in the order they occurred.
type Report []SectionError

// Add appends e.
func (r *Report) Add(e SectionError) {
	*r = append(*r, e)
}

// Fatal returns the first fatal entry, or nil.
func (r Report) Fatal() *SectionError {
	for i := range r {
		if r[i].Severity == SeverityFatal {
			return &r[i]
		}
	}
	return nil
}

func (r Report) String() string {
	parts := make([]string, len(r))
	for i := range r {
		parts[i] = r[i].Error()
	}
	return strings.Join(parts, "; ")
}

// Policy tells, per section number, whether a parse failure is downgraded to
// a warning.
type Policy struct {
	Lenient [8]bool
}

// DefaultPolicy tolerates failures in sections 1, 2 and 3 and stops on
// failures in sections 0, 4 and 5.
func DefaultPolicy() Policy {
	return Policy{Lenient: [8]bool{1: true, 2: true, 3: true}}
}

// StrictPolicy stops on any section failure.
func StrictPolicy() Policy {
	return Policy{}
}
