package router

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

var (
	ErrInvalidPool           = errors.New("invalid pool state")
	ErrZeroReserves          = errors.New("pool has a zero reserve")
	ErrFeeTooHigh            = errors.New("fee ratio at or above 1")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrNonConvergence        = errors.New("stable-swap solve did not converge")
	ErrAmountTooLarge        = errors.New("amount exceeds u64 range")
	ErrMissingReserve        = errors.New("reserve snapshot missing")
	ErrUnknownToken          = errors.New("unknown token")
)

const (
	// stableMaxIterations caps both Newton solves (D and Y).
	stableMaxIterations = 256

	// nCoins is fixed: every supported stable pool has two balances.
	nCoins = 2
)

// PriceHop computes the raw destination units one pool emits for a raw
// input amount, dispatching on the pool's invariant. The fee is charged
// uniformly on the input side: effective_in = amount_in * (1 - feeRatio).
// Reserves are the pool's balances oriented so reserveIn is the input side.
func PriceHop(curve domain.CurveKind, amp uint64, feeRatio decimal.Decimal, reserveIn, reserveOut uint64, amountIn decimal.Decimal) (decimal.Decimal, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return decimal.Zero, ErrZeroReserves
	}
	if feeRatio.IsNegative() || feeRatio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero, ErrFeeTooHigh
	}
	effectiveIn := amountIn.Mul(decimal.NewFromInt(1).Sub(feeRatio))

	switch curve {
	case domain.CurveConstantProduct:
		return constantProductOut(reserveIn, reserveOut, effectiveIn), nil
	case domain.CurveStable:
		return stableOut(amp, reserveIn, reserveOut, effectiveIn)
	default:
		return decimal.Zero, ErrInvalidPool
	}
}

// constantProductOut prices x*y=k: out = Ro * in / (Ri + in).
// Strictly below Ro for any positive input.
func constantProductOut(reserveIn, reserveOut uint64, effectiveIn decimal.Decimal) decimal.Decimal {
	rIn := decimal.NewFromUint64(reserveIn)
	rOut := decimal.NewFromUint64(reserveOut)
	return rOut.Mul(effectiveIn).Div(rIn.Add(effectiveIn))
}

func stableOut(amp uint64, reserveIn, reserveOut uint64, effectiveIn decimal.Decimal) (decimal.Decimal, error) {
	if amp == 0 {
		return decimal.Zero, ErrInvalidPool
	}
	in := effectiveIn.BigInt()
	if !in.IsUint64() {
		return decimal.Zero, ErrAmountTooLarge
	}
	out, err := StableSwapOut(amp, reserveIn, reserveOut, in.Uint64())
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromUint64(out), nil
}

// AmpFactor returns the effective amplification coefficient at nowTS.
// The coefficient ramps linearly from InitialFactor to TargetFactor over
// [StartTS, StopTS] and is pinned to TargetFactor afterwards.
func AmpFactor(ramp *domain.AmpRamp, nowTS int64) uint64 {
	if ramp == nil {
		return 0
	}
	if nowTS >= ramp.StopTS || ramp.StopTS <= ramp.StartTS {
		return ramp.TargetFactor
	}
	if nowTS <= ramp.StartTS {
		return ramp.InitialFactor
	}
	elapsed := uint64(nowTS - ramp.StartTS)
	window := uint64(ramp.StopTS - ramp.StartTS)
	if ramp.TargetFactor >= ramp.InitialFactor {
		return ramp.InitialFactor + (ramp.TargetFactor-ramp.InitialFactor)*elapsed/window
	}
	return ramp.InitialFactor - (ramp.InitialFactor-ramp.TargetFactor)*elapsed/window
}

// StableSwapOut prices a two-balance stable pool: it computes the invariant
// D for the current reserves, restores it for the new input-side balance,
// and returns the drop in the output-side balance. All arithmetic is 256-bit
// integer; both solves converge to |delta| <= 1 base unit or fail.
func StableSwapOut(amp uint64, reserveIn, reserveOut uint64, amountIn uint64) (uint64, error) {
	d, err := computeD(amp, reserveIn, reserveOut)
	if err != nil {
		return 0, err
	}

	newIn := GetU256().SetUint64(reserveIn)
	defer PutU256(newIn)
	amt := GetU256().SetUint64(amountIn)
	defer PutU256(amt)
	newIn.Add(newIn, amt)

	yNew, err := computeY(amp, newIn, d)
	PutU256(d)
	if err != nil {
		return 0, err
	}
	defer PutU256(yNew)

	rOut := GetU256().SetUint64(reserveOut)
	defer PutU256(rOut)
	if yNew.Gt(rOut) {
		return 0, ErrInsufficientLiquidity
	}
	rOut.Sub(rOut, yNew)
	if !rOut.IsUint64() {
		return 0, ErrAmountTooLarge
	}
	return rOut.Uint64(), nil
}

// computeD finds the invariant D for balances (a, b) under amplification
// via Newton iteration on
//
//	D^3 / (4ab) + (ann - 1) * D = ann * (a + b)
//
// with ann = amp * nCoins. The returned value must be released with PutU256.
func computeD(amp uint64, a, b uint64) (*uint256.Int, error) {
	sum := GetU256().SetUint64(a)
	defer PutU256(sum)
	bal := GetU256().SetUint64(b)
	defer PutU256(bal)
	sum.Add(sum, bal)

	d := GetU256()
	if sum.IsZero() {
		return d.Clear(), nil
	}
	d.Set(sum)

	ann := GetU256().SetUint64(amp * nCoins)
	defer PutU256(ann)

	n := GetU256().SetUint64(nCoins)
	defer PutU256(n)
	dP := GetU256()
	defer PutU256(dP)
	dPrev := GetU256()
	defer PutU256(dPrev)
	num := GetU256()
	defer PutU256(num)
	den := GetU256()
	defer PutU256(den)
	tmp := GetU256()
	defer PutU256(tmp)

	balA := GetU256().SetUint64(a)
	defer PutU256(balA)
	balB := GetU256().SetUint64(b)
	defer PutU256(balB)

	for i := 0; i < stableMaxIterations; i++ {
		// dP = D^3 / (a*n * b*n)
		dP.Set(d)
		tmp.Mul(balA, n)
		dP.Mul(dP, d)
		dP.Div(dP, tmp)
		tmp.Mul(balB, n)
		dP.Mul(dP, d)
		dP.Div(dP, tmp)

		dPrev.Set(d)

		// D = (ann*sum + dP*n) * D / ((ann-1)*D + (n+1)*dP)
		num.Mul(ann, sum)
		tmp.Mul(dP, n)
		num.Add(num, tmp)
		num.Mul(num, d)

		tmp.SubUint64(ann, 1)
		den.Mul(tmp, d)
		tmp.AddUint64(n, 1)
		tmp.Mul(tmp, dP)
		den.Add(den, tmp)

		d.Div(num, den)

		if withinOne(d, dPrev, tmp) {
			return d, nil
		}
	}
	PutU256(d)
	return nil, ErrNonConvergence
}

// computeY solves for the output-side balance y that keeps the invariant d
// when the input-side balance is x:
//
//	y^2 + (b - d) * y = c,  b = x + d/ann,  c = d^3 / (4 * x * ann)
//
// iterated as y = (y^2 + c) / (2y + b - d). The returned value must be
// released with PutU256.
func computeY(amp uint64, x, d *uint256.Int) (*uint256.Int, error) {
	if x.IsZero() {
		return nil, ErrZeroReserves
	}

	ann := GetU256().SetUint64(amp * nCoins)
	defer PutU256(ann)

	// c = d^3 / (x * nCoins * nCoins * ann)
	c := GetU256().Set(d)
	tmp := GetU256()
	defer PutU256(tmp)
	tmp.Mul(x, uint256.NewInt(nCoins))
	c.Mul(c, d)
	c.Div(c, tmp)
	tmp.Mul(ann, uint256.NewInt(nCoins))
	c.Mul(c, d)
	c.Div(c, tmp)
	defer PutU256(c)

	// b = x + d/ann (the -d term is folded into the denominator below)
	b := GetU256().Div(d, ann)
	defer PutU256(b)
	b.Add(b, x)

	y := GetU256().Set(d)
	yPrev := GetU256()
	defer PutU256(yPrev)
	num := GetU256()
	defer PutU256(num)
	den := GetU256()
	defer PutU256(den)

	for i := 0; i < stableMaxIterations; i++ {
		yPrev.Set(y)

		num.Mul(y, y)
		num.Add(num, c)

		den.Add(y, y)
		den.Add(den, b)
		if den.Lt(d) {
			PutU256(y)
			return nil, ErrNonConvergence
		}
		den.Sub(den, d)
		if den.IsZero() {
			PutU256(y)
			return nil, ErrNonConvergence
		}

		y.Div(num, den)

		if withinOne(y, yPrev, tmp) {
			return y, nil
		}
	}
	PutU256(y)
	return nil, ErrNonConvergence
}

// withinOne reports |a-b| <= 1 using scratch for the difference.
func withinOne(a, b, scratch *uint256.Int) bool {
	if a.Gt(b) {
		scratch.Sub(a, b)
	} else {
		scratch.Sub(b, a)
	}
	return scratch.LtUint64(2)
}
