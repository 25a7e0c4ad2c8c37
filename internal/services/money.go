package services

import "github.com/shopspring/decimal"

// Amounts are stored as NUMERIC(12,2).
const moneyScale = 2

var moneyLimit = decimal.New(1, 10)

// checkMoney rejects values the money columns cannot hold exactly.
func checkMoney(v decimal.Decimal, field string) error {
	if !v.Equal(v.Round(moneyScale)) {
		return invalid(field + " cannot have more than 2 decimal places")
	}
	if v.Abs().GreaterThanOrEqual(moneyLimit) {
		return invalid(field + " must be less than 10,000,000,000")
	}
	return nil
}
