package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain integer", "10", "10.000"},
		{"one decimal", "10.5", "10.500"},
		{"two decimals", "10.55", "10.550"},
		{"exactly three decimals", "10.555", "10.555"},
		{"extra decimals truncated", "10.5559", "10.555"},
		{"leading dot", ".5", "0.500"},
		{"trailing dot", "5.", "5.000"},
		{"currency noise stripped", "$1,234.50", "1234.500"},
		{"second dot ignored", "1.2.3", "1.230"},
		{"letters stripped", "12abc.3x", "12.300"},
		{"empty input", "", "0.000"},
		{"garbage input", "abc", "0.000"},
		{"zero", "0", "0.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePrice(tt.input).String())
		})
	}
}

// Formatting then re-parsing must be lossless for any stored price.
func TestPrice_RoundTrip(t *testing.T) {
	for _, raw := range []int64{0, 1, 999, 1000, 10500, 10555, 1234500, 999999999} {
		p := NewPriceFromInt64Scaled(raw)
		assert.Equal(t, p, ParsePrice(p.String()), "round-trip for %d", raw)
	}
}

func TestPrice_Decimal(t *testing.T) {
	p := ParsePrice("10.555")
	assert.Equal(t, "10.555", p.Decimal().String())
	assert.Equal(t, int64(10555), p.Int64Scaled())
}

func TestPrice_JSON(t *testing.T) {
	p := ParsePrice("10.5")

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `"10.500"`, string(data))

	var fromString Price
	require.NoError(t, json.Unmarshal([]byte(`"7.25"`), &fromString))
	assert.Equal(t, "7.250", fromString.String())

	var fromNumber Price
	require.NoError(t, json.Unmarshal([]byte(`7.25`), &fromNumber))
	assert.Equal(t, "7.250", fromNumber.String())

	var fromNull Price = 5
	require.NoError(t, json.Unmarshal([]byte(`null`), &fromNull))
	assert.True(t, fromNull.IsZero())
}
