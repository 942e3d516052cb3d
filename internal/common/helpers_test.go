package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLamportsToSOL(t *testing.T) {
	tests := []struct {
		lamports uint64
		want     string
	}{
		{0, "0.000000000"},
		{1, "0.000000001"},
		{5000, "0.000005000"},
		{24981836, "0.024981836"},
		{1_000_000_000, "1.000000000"},
		{12_345_000_000, "12.345000000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LamportsToSOL(tt.lamports))
	}
}

func TestSOLToLamports(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"1", 1_000_000_000},
		{"0.5", 500_000_000},
		{".25", 250_000_000},
		{" 0.001 ", 1_000_000},
		{"0.000000001", 1},
		{"0.0000000010", 1},
		{"12.345", 12_345_000_000},
	}
	for _, tt := range tests {
		got, err := SOLToLamports(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSOLToLamports_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "1.", "1.2.3", "1e9", "99999999999999999999"} {
		_, err := SOLToLamports(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}

	_, err := SOLToLamports("0.0000000001")
	assert.ErrorIs(t, err, ErrAmountPrecision)
}

func TestAmountRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 890_880, 1_000_000_000, 18_446_744_073_709_551_615} {
		got, err := SOLToLamports(LamportsToSOL(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestFiatValue(t *testing.T) {
	assert.Equal(t, "150.25", FiatValue("1.000000000", "150.25"))
	assert.Equal(t, "300.50", FiatValue("2.000000000", "150.25"))
	assert.Equal(t, "0.00", FiatValue("bogus", "150.25"))
}
