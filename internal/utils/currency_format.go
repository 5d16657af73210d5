package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// idrFormatter renders whole-rupiah amounts: rupiah is displayed with no
// minor unit, dot-grouped thousands and the Rp prefix, e.g. "Rp1.500.000".
var idrFormatter = money.NewFormatter(0, ",", ".", money.GetCurrency(money.IDR).Grapheme, "$1")

// FormatIDR renders an amount as Indonesian rupiah for display strings.
// The amount is in major units and is rounded to whole rupiah first.
func FormatIDR(amount decimal.Decimal) string {
	return idrFormatter.Format(amount.Round(0).IntPart())
}
