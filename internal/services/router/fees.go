package router

import (
	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

// FeeMath selects how the fee schedule's integer fields are turned into a
// fraction.
type FeeMath uint8

const (
	// FeeMathExact divides numerators by denominators fractionally.
	FeeMathExact FeeMath = iota

	// FeeMathLegacy reproduces truncating uint64 division: any component
	// with numerator < denominator collapses to zero. Kept only for
	// compatibility testing against historical quoting behaviour.
	FeeMathLegacy
)

// SwapFeeRatio sums a pool's trade fee and owner fee into the single
// input-side ratio the hop pricer applies. A component with a zero
// denominator and zero numerator contributes nothing; a non-zero numerator
// over a zero denominator is invalid pool state.
func SwapFeeRatio(fees domain.FeeSchedule, mode FeeMath) (decimal.Decimal, error) {
	trade, err := feeComponent(fees.TradeFeeNumerator, fees.TradeFeeDenominator, mode)
	if err != nil {
		return decimal.Zero, err
	}
	owner, err := feeComponent(fees.OwnerFeeNumerator, fees.OwnerFeeDenominator, mode)
	if err != nil {
		return decimal.Zero, err
	}
	return trade.Add(owner), nil
}

func feeComponent(num, denom uint64, mode FeeMath) (decimal.Decimal, error) {
	if denom == 0 {
		if num == 0 {
			return decimal.Zero, nil
		}
		return decimal.Zero, ErrInvalidPool
	}
	if mode == FeeMathLegacy {
		return decimal.NewFromUint64(num / denom), nil
	}
	return decimal.NewFromUint64(num).Div(decimal.NewFromUint64(denom)), nil
}
