package router

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

// Evaluator chains hop pricing along a swap path. It is a pure transform of
// (path, reserves, amount) into a venue quote; all inputs are read-only.
//
// Every hop output is rescaled to exactly the destination token's decimal
// precision with round-half-even before it becomes the next hop's input.
// Banker's rounding keeps repeated rescaling bias-free across requests.
type Evaluator struct {
	tokens  domain.TokenMap
	feeMath FeeMath
}

func NewEvaluator(tokens domain.TokenMap, feeMath FeeMath) *Evaluator {
	return &Evaluator{tokens: tokens, feeMath: feeMath}
}

// Evaluate prices amountIn (human units of the path's source token) through
// every hop of the path. slippage is a percentage: each hop's raw output is
// divided by (1 + slippage/100) as the caller's minimum-acceptable buffer.
// percent is the nominal allocation fraction recorded on the quote.
func (e *Evaluator) Evaluate(path *domain.SwapPath, reserves domain.ReserveBook, amountIn, slippage, percent decimal.Decimal, nowTS int64) (*domain.VenueQuote, error) {
	if path == nil || len(path.Steps) == 0 {
		return nil, ErrInvalidPool
	}

	buffer := decimal.NewFromInt(1).Add(slippage.Div(decimal.NewFromInt(100)))
	currentAmount := amountIn
	hops := make([]domain.HopQuote, 0, len(path.Steps))

	for _, step := range path.Steps {
		hop, err := e.evaluateHop(step, reserves, currentAmount, buffer, nowTS)
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", step.Pool.Account, err)
		}
		hops = append(hops, hop)
		currentAmount = hop.AmountOut
	}

	return &domain.VenueQuote{
		Market:    path.Venue,
		ProgramID: path.ProgramID,
		Percent:   percent,
		AmountIn:  amountIn,
		AmountOut: currentAmount,
		Hops:      hops,
		Path:      path,
	}, nil
}

func (e *Evaluator) evaluateHop(step domain.PairEntry, reserves domain.ReserveBook, amountIn, buffer decimal.Decimal, nowTS int64) (domain.HopQuote, error) {
	pool := step.Pool

	srcMint := step.SourceMint()
	dstMint := step.DestinationMint()
	srcDecimals, ok := e.tokens.Decimals(srcMint)
	if !ok {
		return domain.HopQuote{}, fmt.Errorf("%w: %s", ErrUnknownToken, srcMint)
	}
	dstDecimals, ok := e.tokens.Decimals(dstMint)
	if !ok {
		return domain.HopQuote{}, fmt.Errorf("%w: %s", ErrUnknownToken, dstMint)
	}

	snap, ok := reserves[pool.Account]
	if !ok {
		return domain.HopQuote{}, ErrMissingReserve
	}
	reserveIn, reserveOut := snap.QuoteReserve, snap.BaseReserve
	if !step.IsQuoteToBase {
		reserveIn, reserveOut = snap.BaseReserve, snap.QuoteReserve
	}

	feeRatio, err := SwapFeeRatio(pool.Fees, e.feeMath)
	if err != nil {
		return domain.HopQuote{}, err
	}

	var amp uint64
	if pool.Curve == domain.CurveStable {
		amp = AmpFactor(pool.Amp, nowTS)
		if amp == 0 {
			return domain.HopQuote{}, ErrInvalidPool
		}
	}

	rawIn := amountIn.Shift(int32(srcDecimals))
	rawOut, err := PriceHop(pool.Curve, amp, feeRatio, reserveIn, reserveOut, rawIn)
	if err != nil {
		return domain.HopQuote{}, err
	}

	amountOut := rawOut.Shift(-int32(dstDecimals)).Div(buffer).RoundBank(int32(dstDecimals))

	return domain.HopQuote{
		Pool:                pool.Account,
		SourceMint:          srcMint,
		DestinationMint:     dstMint,
		SourceDecimals:      srcDecimals,
		DestinationDecimals: dstDecimals,
		AmountIn:            amountIn,
		AmountOut:           amountOut,
		ReserveIn:           reserveIn,
		ReserveOut:          reserveOut,
		FeeRatio:            feeRatio,
		Amp:                 amp,
	}, nil
}
