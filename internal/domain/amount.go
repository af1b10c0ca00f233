package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency markers stripped from raw amount cells before parsing.
var currencyMarkers = []string{"CNY", "$", ",", "¥"}

// CleanAmount converts a raw amount cell to a decimal. Currency symbols
// and thousands separators are stripped; empty or unparseable input
// yields zero. Silently absorbing malformed cells is deliberate: one bad
// row must not abort a large batch.
func CleanAmount(raw string) decimal.Decimal {
	cleaned := raw
	for _, m := range currencyMarkers {
		cleaned = strings.ReplaceAll(cleaned, m, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NormalizeString trims surrounding whitespace from a raw cell value.
func NormalizeString(raw string) string {
	return strings.TrimSpace(raw)
}

// FormatAmount renders an amount using the configured output format,
// substituting the fixed-point placeholder of the legacy format strings
// (e.g. "¥{:.2f}").
func (o OutputConfig) FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	if strings.Contains(o.AmountFormat, "{:.2f}") {
		return strings.Replace(o.AmountFormat, "{:.2f}", fixed, 1)
	}
	return fixed
}
