package enums

import "strings"

// Currency is the ISO 4217 lowercase currency code used for plan pricing.
type Currency string

const (
	CurrencyBRL Currency = "brl"
	CurrencyUSD Currency = "usd"
)

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// NormalizeCurrency lowercases raw provider input, defaulting to BRL when empty.
func NormalizeCurrency(value string) Currency {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return CurrencyBRL
	}
	return Currency(normalized)
}
