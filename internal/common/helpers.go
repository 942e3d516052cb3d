package common

import (
	"errors"
	"strconv"
	"strings"
)

const (
	SOLDecimals = 9 // SOL has 9 decimals (lamports)
)

var (
	// ErrInvalidAmount indicates a decimal amount string that cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrAmountPrecision indicates more fractional digits than the unit supports.
	ErrAmountPrecision = errors.New("amount has too many decimal places")
)

// LamportsToSOL converts lamports to SOL string without float precision loss
func LamportsToSOL(lamports uint64) string {
	return formatWithDecimals(lamports, SOLDecimals)
}

// SOLToLamports converts SOL string to lamports without float precision loss
func SOLToLamports(sol string) (uint64, error) {
	return parseWithDecimals(sol, SOLDecimals)
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 9) = "0.024981836"
func formatWithDecimals(value uint64, decimals int) string {
	s := strconv.FormatUint(value, 10)

	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("0.024981836", 9) = 24981836
func parseWithDecimals(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if hasPoint && strings.Contains(frac, ".") {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if hasPoint && frac == "" {
		return 0, ErrInvalidAmount
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, ErrInvalidAmount
	}

	// Extra digits are only allowed when they are zeros
	if len(frac) > decimals {
		if strings.Trim(frac[decimals:], "0") != "" {
			return 0, ErrAmountPrecision
		}
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))

	n, err := strconv.ParseUint(whole+frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return n, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FiatValue multiplies a SOL amount by an exchange rate.
// Float is fine here: the result is only displayed, never used in a transfer.
func FiatValue(sol, rate string) string {
	solFloat, _ := strconv.ParseFloat(sol, 64)
	rateFloat, _ := strconv.ParseFloat(rate, 64)
	return strconv.FormatFloat(solFloat*rateFloat, 'f', 2, 64)
}
