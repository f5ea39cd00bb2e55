package money

import (
	"fmt"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// usdScale is the number of decimal places kept after normalization.
const usdScale = 2

// NormalizeToUSD converts an amount in the given currency into USD, the
// primary budget currency. usdCdfRate is the number of CDF per one USD.
func NormalizeToUSD(amount decimal.Decimal, currency string, usdCdfRate decimal.Decimal) (decimal.Decimal, error) {
	switch currency {
	case domain.CurrencyUSD:
		return amount, nil
	case domain.CurrencyCDF:
		if usdCdfRate.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, fmt.Errorf("invalid USD/CDF exchange rate %s", usdCdfRate.String())
		}
		return amount.DivRound(usdCdfRate, usdScale), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported currency %q", currency)
	}
}
