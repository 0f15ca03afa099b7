package math

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Share returns part/total rounded to precision decimal places, zero when total is zero.
func Share(part uint64, total uint64, precision int32) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return FromUint64(part).DivRound(FromUint64(total), precision)
}

func FromUint64(value uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(value), 0)
}
