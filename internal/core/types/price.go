package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a fixed-point USD product price with 3 decimal places (scale = 1e3).
//
// Rationale:
// - Matches the 3-decimal string representation products are stored with
// - Easy to store as BIGINT in DB (scaled integer)
// - Formatting then re-parsing is lossless and idempotent
type Price int64

const PriceScale int64 = 1_000

// NewPriceFromInt64Scaled wraps a raw scaled value.
func NewPriceFromInt64Scaled(v int64) Price { return Price(v) }

// NewPriceFromDecimal converts an exact decimal to a Price, truncating
// fractional digits beyond the third.
func NewPriceFromDecimal(d decimal.Decimal) Price {
	return Price(d.Mul(decimal.NewFromInt(PriceScale)).Truncate(0).IntPart())
}

// ParsePrice parses arbitrary user input into a Price.
// Non-numeric characters are stripped, the fractional part is padded or
// truncated to exactly 3 digits, and empty or invalid input yields 0.
func ParsePrice(s string) Price {
	cleaned := sanitizePriceInput(s)
	if cleaned == "" {
		return 0
	}

	parts := strings.SplitN(cleaned, ".", 2)
	intPartStr := parts[0]
	fracStr := ""
	if len(parts) == 2 {
		fracStr = parts[1]
	}

	if intPartStr == "" {
		intPartStr = "0"
	}
	intPart, err := strconv.ParseInt(intPartStr, 10, 64)
	if err != nil {
		return 0
	}

	// Normalize fractional part to 3 digits (pad right, truncate extra digits).
	if len(fracStr) > 3 {
		fracStr = fracStr[:3]
	}
	for len(fracStr) < 3 {
		fracStr += "0"
	}
	frac, err := strconv.ParseInt(fracStr, 10, 64)
	if err != nil {
		return 0
	}

	return Price(intPart*PriceScale + frac)
}

// sanitizePriceInput keeps digits and the first decimal point only.
func sanitizePriceInput(s string) string {
	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// String returns a decimal string with exactly 3 fractional digits.
func (p Price) String() string {
	intPart := int64(p) / PriceScale
	frac := int64(p) % PriceScale
	return fmt.Sprintf("%d.%03d", intPart, frac)
}

// Decimal returns the exact decimal value.
func (p Price) Decimal() decimal.Decimal {
	return decimal.New(int64(p), -3)
}

func (p Price) IsZero() bool     { return p == 0 }
func (p Price) IsPositive() bool { return p > 0 }

// Int64Scaled returns the raw scaled value for storage.
func (p Price) Int64Scaled() int64 { return int64(p) }

// MarshalJSON encodes Price as a string with 3 fractional digits,
// matching the stored representation.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a JSON number or string and parses to fixed-point.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParsePrice(s)
		return nil
	}

	*p = ParsePrice(string(data))
	return nil
}
