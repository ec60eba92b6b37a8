package expression_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calc/internal/expression"
)

func TestEngine_Eval(t *testing.T) {
	eng := expression.NewEngine()

	tests := []struct {
		in   string
		want float64
	}{
		{"7+3", 10},
		{"10/4", 2.5},
		{"2^10", 1024},
		{"2**3", 8},
		{"(1+2)*3", 9},
		{"7%3", 1},
		{"sqrt(16)", 4},
		{"abs(-3)", 3},
		{"sin(0)", 0},
		{"cos(0)", 1},
		{"exp(0)", 1},
		{"-2+5", 3},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := eng.Eval(tt.in, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Logarithms(t *testing.T) {
	eng := expression.NewEngine()

	got, err := eng.Eval("log(1000)", nil)
	require.NoError(t, err)
	assert.InDelta(t, 3, got, 1e-12)

	got, err = eng.Eval("ln(e)", nil)
	require.NoError(t, err)
	assert.InDelta(t, 1, got, 1e-12)

	got, err = eng.Eval("pi", nil)
	require.NoError(t, err)
	assert.Equal(t, math.Pi, got)
}

func TestEngine_DivisionByZeroIsIEEE(t *testing.T) {
	eng := expression.NewEngine()

	got, err := eng.Eval("5/0", nil)
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))

	got, err = eng.Eval("-5/0", nil)
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, -1))

	got, err = eng.Eval("0/0", nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestEngine_LargeIntegersDoNotWrap(t *testing.T) {
	eng := expression.NewEngine()

	tests := []struct {
		in   string
		want string
	}{
		{"10000000000*10000000000", "100000000000000000000"},
		{"9223372036854775807+1", "9223372036854776000"},
		{"-9223372036854775807-10", "-9223372036854776000"},
		{"99999999999999999999", "100000000000000000000"},
		{"1000000000*1000000000*1000", "1e+21"},
		{"2^64", "18446744073709552000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := eng.Eval(tt.in, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expression.Format(got))
		})
	}
}

func TestEngine_FloatRemainder(t *testing.T) {
	eng := expression.NewEngine()

	tests := []struct {
		in   string
		want float64
	}{
		{"7.5%2", 1.5},
		{"3.5%2", 1.5},
		{"-7%3", -1},
		{"10%2.5", 0},
		{"7 % 3 * 2", 2},
		{"2 + 7 % 4", 5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := eng.Eval(tt.in, nil)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	got, err := eng.Eval(expression.Normalize("π%1"), nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi-3, got, 1e-12)

	got, err = eng.Eval("x % 3", map[string]float64{"x": 7.25})
	require.NoError(t, err)
	assert.InDelta(t, 1.25, got, 1e-12)

	got, err = eng.Eval("sqrt(16) % 3", nil)
	require.NoError(t, err)
	assert.InDelta(t, 1, got, 1e-12)
}

func TestEngine_RemainderByZeroIsNaN(t *testing.T) {
	got, err := expression.NewEngine().Eval("5%0", nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestEngine_Errors(t *testing.T) {
	eng := expression.NewEngine()

	for _, in := range []string{"2+", "7**", "foo", "sin(", "", "   ", "1 +* 2"} {
		_, err := eng.Eval(in, nil)
		assert.ErrorIs(t, err, expression.ErrEvaluate, "input %q", in)
	}

	_, err := eng.Eval("1 < 2", nil)
	assert.ErrorIs(t, err, expression.ErrNotNumeric)
}

func TestEngine_Variables(t *testing.T) {
	eng := expression.NewEngine()

	for _, x := range []float64{-2, 0, 3} {
		got, err := eng.Eval("x^2 + 1", map[string]float64{"x": x})
		require.NoError(t, err)
		assert.Equal(t, x*x+1, got)
	}

	// Same source without the binding must not reuse the program above.
	_, err := eng.Eval("x^2 + 1", nil)
	assert.ErrorIs(t, err, expression.ErrEvaluate)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{-4, "-4"},
		{2.5, "2.5"},
		{0.1 + 0.2, "0.30000000000000004"},
		{math.Pi, expression.PiLiteral},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{math.Copysign(0, -1), "0"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expression.Format(tt.in))
	}
}
