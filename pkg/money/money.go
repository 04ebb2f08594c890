// Package money holds the price formatting and discount helpers shared by
// catalog and cart presentation. Amounts are carried as integer cents.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[string]string{
	"AED": "د.إ",
	"USD": "$",
	"EUR": "€",
	"SAR": "ر.س",
}

var printer = message.NewPrinter(language.English)

var oneHundred = decimal.NewFromInt(100)

// FormatPrice renders cents as a grouped decimal amount followed by the
// currency symbol. Whole amounts drop the fraction, anything else keeps two
// places. Negative input is treated as zero.
func FormatPrice(cents int64, currency string) string {
	if cents < 0 {
		cents = 0
	}

	amount := decimal.NewFromInt(cents).Div(oneHundred)

	var formatted string
	if amount.IsInteger() {
		formatted = printer.Sprintf("%d", amount.IntPart())
	} else {
		value, _ := amount.Round(2).Float64()
		formatted = printer.Sprintf("%.2f", value)
	}

	symbol, ok := symbols[currency]
	if !ok {
		symbol = currency
	}
	return formatted + " " + symbol
}

// DiscountPercent returns the rounded percent saved when buying at the sale
// price. It returns 0 when either price is missing or the sale price is not
// an actual reduction.
func DiscountPercent(originalCents, saleCents int64) int {
	if originalCents <= 0 || saleCents <= 0 || saleCents >= originalCents {
		return 0
	}
	percent := decimal.NewFromInt(originalCents - saleCents).
		Div(decimal.NewFromInt(originalCents)).
		Mul(oneHundred)
	return int(percent.Round(0).IntPart())
}
