// Package offset provides an exact rational position type for timespan
// indexing. Offsets are stored as a normalized int64 numerator over a
// positive int64 denominator, so comparisons and arithmetic never suffer
// floating-point drift. Half-step positions like 3/2 or 1/3 round-trip
// exactly through text, YAML, and JSON.
package offset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sentinel errors for offset construction and parsing.
var (
	ErrZeroDenominator = errors.New("offset denominator must be non-zero")
	ErrParse           = errors.New("cannot parse offset")
)

// Offset is an exact rational position. The zero value is 0.
type Offset struct {
	num int64
	den int64
}

// FromInt returns the offset n/1.
func FromInt(n int64) Offset {
	return Offset{num: n, den: 1}
}

// New returns the normalized offset num/den.
func New(num, den int64) (Offset, error) {
	if den == 0 {
		return Offset{}, ErrZeroDenominator
	}

	return reduce(num, den), nil
}

// MustNew is New, panicking on a zero denominator. Intended for constants
// in tests and examples.
func MustNew(num, den int64) Offset {
	o, err := New(num, den)
	if err != nil {
		panic(err)
	}

	return o
}

// Parse reads an offset from text. Accepted forms: "7", "-3", "3/2",
// and decimal notation such as "1.5" (interpreted exactly, not as a float).
func Parse(s string) (Offset, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Offset{}, fmt.Errorf("%w: empty string", ErrParse)
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		return parseFraction(s, num, den)
	}

	if intPart, fracPart, ok := strings.Cut(s, "."); ok {
		return parseDecimal(s, intPart, fracPart)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Offset{}, fmt.Errorf("%w: %q", ErrParse, s)
	}

	return FromInt(n), nil
}

// parseFraction handles the "num/den" form.
func parseFraction(s, numStr, denStr string) (Offset, error) {
	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return Offset{}, fmt.Errorf("%w: %q", ErrParse, s)
	}

	den, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 64)
	if err != nil {
		return Offset{}, fmt.Errorf("%w: %q", ErrParse, s)
	}

	if den == 0 {
		return Offset{}, fmt.Errorf("%w: %q", ErrZeroDenominator, s)
	}

	return reduce(num, den), nil
}

// parseDecimal handles the "int.frac" form exactly: 1.5 becomes 3/2.
func parseDecimal(s, intStr, fracStr string) (Offset, error) {
	if fracStr == "" {
		return Offset{}, fmt.Errorf("%w: %q", ErrParse, s)
	}

	negative := strings.HasPrefix(strings.TrimSpace(intStr), "-")

	intPart, err := strconv.ParseInt(strings.TrimSpace(intStr), 10, 64)
	if err != nil {
		return Offset{}, fmt.Errorf("%w: %q", ErrParse, s)
	}

	fracPart, err := strconv.ParseUint(fracStr, 10, 63)
	if err != nil {
		return Offset{}, fmt.Errorf("%w: %q", ErrParse, s)
	}

	den := int64(1)
	for range len(fracStr) {
		if den > math.MaxInt64/10 {
			return Offset{}, fmt.Errorf("%w: %q", ErrParse, s)
		}

		den *= 10
	}

	num := intPart * den
	if negative {
		num -= int64(fracPart)
	} else {
		num += int64(fracPart)
	}

	return reduce(num, den), nil
}

// Num returns the normalized numerator.
func (o Offset) Num() int64 {
	if o.den == 0 {
		return 0
	}

	return o.num
}

// Den returns the normalized denominator. The zero value reports 1.
func (o Offset) Den() int64 {
	if o.den == 0 {
		return 1
	}

	return o.den
}

// Cmp compares two offsets, returning -1, 0, or +1.
func (o Offset) Cmp(other Offset) int {
	a, b := o.normalized(), other.normalized()

	// Cross-multiply; den is always positive after normalization.
	lhs := a.num * b.den
	rhs := b.num * a.den

	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// Less reports whether o < other.
func (o Offset) Less(other Offset) bool {
	return o.Cmp(other) < 0
}

// LessEq reports whether o <= other.
func (o Offset) LessEq(other Offset) bool {
	return o.Cmp(other) <= 0
}

// Equal reports whether o == other.
func (o Offset) Equal(other Offset) bool {
	return o.Cmp(other) == 0
}

// Add returns o + other.
func (o Offset) Add(other Offset) Offset {
	a, b := o.normalized(), other.normalized()

	return reduce(a.num*b.den+b.num*a.den, a.den*b.den)
}

// Sub returns o - other.
func (o Offset) Sub(other Offset) Offset {
	a, b := o.normalized(), other.normalized()

	return reduce(a.num*b.den-b.num*a.den, a.den*b.den)
}

// Min returns the smaller of o and other.
func Min(o, other Offset) Offset {
	if other.Less(o) {
		return other
	}

	return o
}

// Max returns the larger of o and other.
func Max(o, other Offset) Offset {
	if o.Less(other) {
		return other
	}

	return o
}

// IsZero reports whether the offset equals zero.
func (o Offset) IsZero() bool {
	return o.Num() == 0
}

// Float64 returns the offset as a float64, for display only.
func (o Offset) Float64() float64 {
	n := o.normalized()

	return float64(n.num) / float64(n.den)
}

// String renders "7" for integral offsets and "3/2" otherwise.
func (o Offset) String() string {
	n := o.normalized()
	if n.den == 1 {
		return strconv.FormatInt(n.num, 10)
	}

	return strconv.FormatInt(n.num, 10) + "/" + strconv.FormatInt(n.den, 10)
}

// MarshalText implements encoding.TextMarshaler.
func (o Offset) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Offset) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*o = parsed

	return nil
}

// normalized maps the zero value onto 0/1.
func (o Offset) normalized() Offset {
	if o.den == 0 {
		return Offset{num: 0, den: 1}
	}

	return o
}

// reduce normalizes sign and divides out the greatest common divisor.
func reduce(num, den int64) Offset {
	if den < 0 {
		num, den = -num, -den
	}

	if num == 0 {
		return Offset{num: 0, den: 1}
	}

	g := gcd(abs(num), den)

	return Offset{num: num / g, den: den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
