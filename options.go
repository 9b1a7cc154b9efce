package degrib2

import (
	"github.com/sdifrance/degrib2/meta"
	"github.com/sdifrance/degrib2/weather"
)

// Option configures a Session.
type Option func(*options)

type options struct {
	unit     meta.UnitSystem
	policy   meta.Policy
	parser   weather.Parser
	localCap int
}

// defaultLocalCap is the initial size of the local use output arrays.
const defaultLocalCap = 1024

// maxLocalCap bounds the growth of the local use output arrays.
const maxLocalCap = 1 << 24

func defaultOptions() *options {
	return &options{
		unit:     meta.UnitGRIB2,
		policy:   meta.DefaultPolicy(),
		parser:   weather.DefaultParser{},
		localCap: defaultLocalCap,
	}
}

// WithUnit selects the unit system of decoded grids.
func WithUnit(sys meta.UnitSystem) Option {
	return func(o *options) {
		o.unit = sys
	}
}

// WithPolicy sets which section failures are tolerated.
func WithPolicy(p meta.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithWeatherParser replaces the parser used to validate weather phrases.
func WithWeatherParser(p weather.Parser) Option {
	return func(o *options) {
		if p != nil {
			o.parser = p
		}
	}
}

// WithLocalCapacity sets the initial size of the local use output arrays.
// They are doubled, up to a fixed bound, until the local use data fits.
func WithLocalCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.localCap = n
		}
	}
}
