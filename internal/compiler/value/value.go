// Package value implements the numbers minipas programs compute with.
//
// Values are exact rationals. Integer arithmetic stays integral, while "/"
// is true division, so 10 / 4 yields 2.5 rather than 2.
package value

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"gopkg.in/yaml.v3"
)

var ErrDivisionByZero = errors.New("division by zero")

// Number is an immutable rational. The zero Number is 0.
type Number struct {
	r *big.Rat
}

func FromInt(i *big.Int) Number {
	return Number{r: new(big.Rat).SetInt(i)}
}

func Int64(i int64) Number {
	return Number{r: new(big.Rat).SetInt64(i)}
}

// Frac returns num/den. den must be non-zero.
func Frac(num, den int64) Number {
	return Number{r: big.NewRat(num, den)}
}

func (n Number) rat() *big.Rat {
	if n.r == nil {
		return new(big.Rat)
	}
	return n.r
}

func (n Number) Add(m Number) Number {
	return Number{r: new(big.Rat).Add(n.rat(), m.rat())}
}

func (n Number) Sub(m Number) Number {
	return Number{r: new(big.Rat).Sub(n.rat(), m.rat())}
}

func (n Number) Mul(m Number) Number {
	return Number{r: new(big.Rat).Mul(n.rat(), m.rat())}
}

// Quo divides n by m without truncation.
func (n Number) Quo(m Number) (Number, error) {
	if m.rat().Sign() == 0 {
		return Number{}, ErrDivisionByZero
	}
	return Number{r: new(big.Rat).Quo(n.rat(), m.rat())}, nil
}

func (n Number) Neg() Number {
	return Number{r: new(big.Rat).Neg(n.rat())}
}

func (n Number) IsInt() bool {
	return n.rat().IsInt()
}

func (n Number) Sign() int {
	return n.rat().Sign()
}

func (n Number) Equal(m Number) bool {
	return n.rat().Cmp(m.rat()) == 0
}

// Rat returns a copy of the underlying rational.
func (n Number) Rat() *big.Rat {
	return new(big.Rat).Set(n.rat())
}

func (n Number) Float64() float64 {
	f, _ := n.rat().Float64()
	return f
}

// String prints integers exactly. Other values use the shortest decimal form
// that round-trips through float64 (1/3 -> 0.3333333333333333); values
// beyond float64 range print with 16 significant digits instead.
func (n Number) String() string {
	r := n.rat()
	if r.IsInt() {
		return r.Num().String()
	}
	if f, ok := n.finiteFloat(); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return new(big.Float).SetPrec(64).SetRat(r).Text('g', 16)
}

// finiteFloat converts a non-integer n to float64. ok is false when the
// conversion overflows or underflows to zero.
func (n Number) finiteFloat() (float64, bool) {
	f := n.Float64()
	return f, !math.IsInf(f, 0) && f != 0
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// MarshalYAML emits integers as ints and fractions as floats.
func (n Number) MarshalYAML() (any, error) {
	r := n.rat()
	if r.IsInt() {
		if r.Num().IsInt64() {
			return r.Num().Int64(), nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: n.String()}, nil
	}
	if f, ok := n.finiteFloat(); ok {
		return f, nil
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: n.String()}, nil
}
