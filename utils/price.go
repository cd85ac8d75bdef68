// utils/price.go
package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is the display symbol for catalog prices (INR).
const CurrencySymbol = "₹"

// PriceFormatError is returned when a display price cannot be read as a number.
type PriceFormatError struct {
	Input string
}

func (e *PriceFormatError) Error() string {
	return fmt.Sprintf("malformed price %q", e.Input)
}

var priceSymbols = []string{"₹", "&#8377;", "\\u20b9", "Rs.", "Rs", "INR", "$", "€", "£"}

// ParsePrice reads a display price such as "₹2,500" or "₹1,00,000.50".
// Currency symbols, thousands separators and spaces are stripped.
func ParsePrice(price string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(price)
	for _, sym := range priceSymbols {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	if cleaned == "" {
		return decimal.Zero, &PriceFormatError{Input: price}
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, &PriceFormatError{Input: price}
	}
	return amount, nil
}

// FormatPrice renders an amount the way the catalog displays it: "₹2,500".
// Fractional amounts keep two decimals.
func FormatPrice(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	whole := amount.Truncate(0)
	frac := ""
	if !amount.Equal(whole) {
		fixed := amount.StringFixed(2)
		frac = fixed[strings.Index(fixed, "."):]
		whole = decimal.RequireFromString(fixed[:strings.Index(fixed, ".")])
	}

	digits := whole.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + CurrencySymbol + b.String() + frac
}
