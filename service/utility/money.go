package utility

import (
	"github.com/shopspring/decimal"
)

// The gateway moves amounts in minor currency units; for GHS that is
// pesewas, 100 to the cedi.
const minorUnitFactor = 100

func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(minorUnitFactor)).Round(0).IntPart()
}

func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.NewFromInt(units).Div(decimal.NewFromInt(minorUnitFactor))
}

// CleanAmount truncates an amount to the two decimal places a GHS
// ledger column stores, avoiding drift between our records and what
// the gateway settles.
func CleanAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SplitAmount divides a settled amount between the platform and the
// farmer. percentage is the platform cut in percent; the fee is
// rounded to two places and the farmer receives the remainder so the
// two parts always sum back to the amount.
func SplitAmount(amount decimal.Decimal, percentage decimal.Decimal) (farmerAmount, platformFee decimal.Decimal) {
	platformFee = amount.Mul(percentage).Div(decimal.NewFromInt(100)).Round(2)
	farmerAmount = amount.Sub(platformFee)
	return farmerAmount, platformFee
}
