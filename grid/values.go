package grid

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the element type of a raw field.
type Number interface {
	constraints.Integer | constraints.Float
}

// Values is a decoded field in storage order, before unit conversion.
// Integer fields (Code table 5.1 type 1) arrive as Samples[int32] and
// floating point fields as Samples[float32].
type Values interface {
	Len() int
	At(i int) float64
}

// Samples is a raw field of one numeric type.
type Samples[T Number] []T

// Len implements Values.
func (s Samples[T]) Len() int { return len(s) }

// At implements Values.
func (s Samples[T]) At(i int) float64 { return float64(s[i]) }

// Transfer copies src into a Samples of type T, converting each element.
// Floating point values stored into an integer type are rounded to the
// nearest integer, half away from zero.
func Transfer[T, S Number](src []S) Samples[T] {
	half := 0.5
	round := T(half) == 0 && S(half) != 0
	out := make(Samples[T], len(src))
	for i, v := range src {
		if round {
			out[i] = T(math.Round(float64(v)))
		} else {
			out[i] = T(v)
		}
	}
	return out
}
