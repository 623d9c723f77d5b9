package domain

import "github.com/shopspring/decimal"

// FitsNumeric indica si d cabe en una columna NUMERIC(precision, scale) sin redondeo.
func FitsNumeric(d decimal.Decimal, precision, scale int32) bool {
	if !d.Equal(d.Truncate(scale)) {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, precision-scale))
}
