package utils

import "github.com/shopspring/decimal"

const Currency = "PKR"

// FormatMoney formata o valor com duas casas decimais, ex: PKR 1250.50
func FormatMoney(value decimal.Decimal) string {
	return Currency + " " + value.StringFixed(2)
}

// RoundWithTwoDecimalPlace arredonda para duas casas decimais
func RoundWithTwoDecimalPlace(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}
