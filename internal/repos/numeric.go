package repos

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// fixedPoint normalizes d to NUMERIC(precision, scale) semantics: the
// fraction is rounded to scale digits and values whose integer part needs
// more than precision-scale digits are rejected with ErrNumericOverflow.
// SQLite does not enforce declared precision, so the data-access layer does.
func fixedPoint(d decimal.Decimal, precision, scale int32) (decimal.Decimal, error) {
	r := d.Round(scale)
	limit := decimal.New(1, precision-scale) // 10^(precision-scale)
	if r.Abs().GreaterThanOrEqual(limit) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s exceeds NUMERIC(%d,%d)",
			ErrNumericOverflow, d.String(), precision, scale)
	}
	return r, nil
}
