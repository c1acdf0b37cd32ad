package payment

import (
	"math"
	"strings"

	"github.com/stripe/stripe-go/v74"
)

// zeroDecimal lists currencies the processor takes in whole units.
var zeroDecimal = map[stripe.Currency]bool{
	stripe.CurrencyXOF: true,
	stripe.CurrencyXAF: true,
	stripe.CurrencyGNF: true,
	stripe.CurrencyJPY: true,
	stripe.CurrencyKRW: true,
	stripe.CurrencyRWF: true,
	stripe.CurrencyUGX: true,
}

func normalizeCurrency(c string) stripe.Currency {
	return stripe.Currency(strings.ToLower(strings.TrimSpace(c)))
}

// ToMinorUnits converts a decimal amount into the processor's integer unit.
func ToMinorUnits(amount float64, currency string) int64 {
	if zeroDecimal[normalizeCurrency(currency)] {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(amount int64, currency string) float64 {
	if zeroDecimal[normalizeCurrency(currency)] {
		return float64(amount)
	}
	return float64(amount) / 100
}
