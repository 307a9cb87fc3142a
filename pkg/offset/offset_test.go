package offset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFromInt verifies integer construction.
func TestFromInt(t *testing.T) {
	t.Parallel()

	o := FromInt(7)
	assert.Equal(t, int64(7), o.Num())
	assert.Equal(t, int64(1), o.Den())
	assert.Equal(t, "7", o.String())
}

// TestNew_Normalizes verifies sign and gcd normalization.
func TestNew_Normalizes(t *testing.T) {
	t.Parallel()

	o, err := New(6, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(3), o.Num())
	assert.Equal(t, int64(2), o.Den())

	o, err = New(3, -2)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), o.Num())
	assert.Equal(t, int64(2), o.Den())

	o, err = New(0, -5)
	require.NoError(t, err)
	assert.True(t, o.IsZero())
	assert.Equal(t, int64(1), o.Den())
}

// TestNew_ZeroDenominator verifies the construction error.
func TestNew_ZeroDenominator(t *testing.T) {
	t.Parallel()

	_, err := New(1, 0)
	require.ErrorIs(t, err, ErrZeroDenominator)
}

// TestParse verifies the accepted textual forms.
func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		num  int64
		den  int64
	}{
		{"7", 7, 1},
		{"-3", -3, 1},
		{"3/2", 3, 2},
		{"6/4", 3, 2},
		{"-1/3", -1, 3},
		{"1/-3", -1, 3},
		{"1.5", 3, 2},
		{"0.25", 1, 4},
		{"-2.5", -5, 2},
		{" 2 ", 2, 1},
	}

	for _, tc := range cases {
		o, err := Parse(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.num, o.Num(), "input %q", tc.in)
		assert.Equal(t, tc.den, o.Den(), "input %q", tc.in)
	}
}

// TestParse_Invalid verifies rejection of malformed input.
func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "abc", "1/", "/2", "1.", "1/0", "1.5.5"} {
		_, err := Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

// TestCmp verifies ordering across denominators.
func TestCmp(t *testing.T) {
	t.Parallel()

	half := MustNew(1, 2)
	third := MustNew(1, 3)
	one := FromInt(1)

	assert.Equal(t, 1, half.Cmp(third))
	assert.Equal(t, -1, third.Cmp(half))
	assert.Equal(t, 0, half.Cmp(MustNew(2, 4)))
	assert.True(t, half.Less(one))
	assert.True(t, half.LessEq(half))
	assert.True(t, half.Equal(MustNew(3, 6)))
	assert.False(t, one.Less(half))
}

// TestArithmetic verifies Add and Sub stay exact.
func TestArithmetic(t *testing.T) {
	t.Parallel()

	half := MustNew(1, 2)
	third := MustNew(1, 3)

	sum := half.Add(third)
	assert.Equal(t, MustNew(5, 6), sum)

	diff := half.Sub(third)
	assert.Equal(t, MustNew(1, 6), diff)

	assert.True(t, half.Sub(half).IsZero())
}

// TestMinMax verifies the ordering helpers.
func TestMinMax(t *testing.T) {
	t.Parallel()

	a := MustNew(1, 2)
	b := MustNew(2, 3)

	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, b, Max(a, b))
	assert.Equal(t, a, Min(b, a))
	assert.Equal(t, b, Max(b, a))
}

// TestZeroValue verifies the zero value behaves as 0.
func TestZeroValue(t *testing.T) {
	t.Parallel()

	var o Offset

	assert.True(t, o.IsZero())
	assert.Equal(t, "0", o.String())
	assert.Equal(t, 0, o.Cmp(FromInt(0)))
	assert.Equal(t, FromInt(2), o.Add(FromInt(2)))
}

// TestString verifies rendering of integral and fractional offsets.
func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3/2", MustNew(3, 2).String())
	assert.Equal(t, "-3/2", MustNew(-3, 2).String())
	assert.Equal(t, "4", MustNew(8, 2).String())
}

// TestTextRoundTrip verifies MarshalText/UnmarshalText through JSON.
func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	in := MustNew(7, 3)

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `"7/3"`, string(data))

	var out Offset

	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.Equal(out))
}

// TestFloat64 verifies the display conversion.
func TestFloat64(t *testing.T) {
	t.Parallel()

	assert.InEpsilon(t, 1.5, MustNew(3, 2).Float64(), 1e-12)
}
