package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) Money {
	t.Helper()
	m, err := ParseMoney(s)
	require.NoError(t, err)
	return m
}

func TestParseMoney_Rounding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "half up rounds away", input: "1.005", want: "1.01"},
		{name: "below half rounds down", input: "1.004", want: "1.00"},
		{name: "comma separator", input: "100,50", want: "100.50"},
		{name: "float-hostile value is exact", input: "0.1", want: "0.10"},
		{name: "integer gets scale", input: "7", want: "7.00"},
		{name: "surrounding whitespace", input: "  2.5 ", want: "2.50"},
		{name: "negative half rounds away from zero", input: "-1.005", want: "-1.01"},
		{name: "already two digits", input: "19.99", want: "19.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMoney(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestParseMoney_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "12.3.4", "10 50", "--5"} {
		t.Run("input="+input, func(t *testing.T) {
			_, err := ParseMoney(input)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestParseMoney_Idempotent(t *testing.T) {
	// parse(toString(parse(x))) == parse(x) for any valid x
	for _, input := range []string{"1.005", "0.1", "100,50", "-3", "12345.678", "0"} {
		first := mustMoney(t, input)
		second := mustMoney(t, first.String())
		assert.True(t, first.Equal(second), "round-trip changed %q: %s vs %s", input, first, second)
	}
}

func TestMoney_ArithmeticIsExact(t *testing.T) {
	// both operands carry 2-digit scale, so no rounding can occur
	sum := mustMoney(t, "0.1").Add(mustMoney(t, "0.2"))
	assert.Equal(t, "0.30", sum.String())

	diff := mustMoney(t, "100.00").Sub(mustMoney(t, "99.99"))
	assert.Equal(t, "0.01", diff.String())
}

func TestMoney_Comparisons(t *testing.T) {
	small := mustMoney(t, "1.00")
	big := mustMoney(t, "2.00")

	assert.Equal(t, -1, small.Cmp(big))
	assert.Equal(t, 1, big.Cmp(small))
	assert.Equal(t, 0, small.Cmp(mustMoney(t, "1")))

	assert.True(t, big.IsPositive())
	assert.False(t, Money{}.IsPositive())
	assert.True(t, mustMoney(t, "-0.01").IsNegative())
}
