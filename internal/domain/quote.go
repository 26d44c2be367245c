package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// HopQuote is the audit record of one priced hop. Amounts are in human
// units; reserves are the raw base-unit balances the pricing used.
type HopQuote struct {
	Pool                solana.PublicKey `json:"pool"`
	SourceMint          solana.PublicKey `json:"sourceMint"`
	DestinationMint     solana.PublicKey `json:"destinationMint"`
	SourceDecimals      uint8            `json:"sourceDecimals"`
	DestinationDecimals uint8            `json:"destinationDecimals"`
	AmountIn            decimal.Decimal  `json:"amountIn"`
	AmountOut           decimal.Decimal  `json:"amountOut"`
	ReserveIn           uint64           `json:"reserveIn"`
	ReserveOut          uint64           `json:"reserveOut"`
	FeeRatio            decimal.Decimal  `json:"feeRatio"`
	Amp                 uint64           `json:"amp,omitempty"`
}

// VenueQuote is one venue's priced route at a nominal allocation of the
// requested trade. Path is retained so the ranker can re-price at a
// different size.
type VenueQuote struct {
	Market    string           `json:"market"`
	ProgramID solana.PublicKey `json:"programId"`
	Percent   decimal.Decimal  `json:"percent"`
	AmountIn  decimal.Decimal  `json:"amountIn"`
	AmountOut decimal.Decimal  `json:"amountOut"`
	Hops      []HopQuote       `json:"hops"`
	Path      *SwapPath        `json:"-"`
}

// AggregateQuote is one executable plan: a single venue at full size, or
// two venues at half size each. AmountOut is the plan's total output.
type AggregateQuote struct {
	AmountOut decimal.Decimal `json:"amountOut"`
	AmountIn  decimal.Decimal `json:"amountIn"`
	QuoteMint solana.PublicKey `json:"quoteMint"`
	BaseMint  solana.PublicKey `json:"baseMint"`
	Slippage  decimal.Decimal `json:"slippage"`
	Venues    []*VenueQuote   `json:"venues"`
}

// OptResult is the caller-facing outcome of one trade request: every built
// alternative sorted descending by total output. Empty means no venue could
// execute the pair; that is a valid result, not a failure.
type OptResult struct {
	Alternatives []*AggregateQuote `json:"alternatives"`
}

func (r *OptResult) Empty() bool {
	return r == nil || len(r.Alternatives) == 0
}

// Best returns the recommended plan, nil when no route exists.
func (r *OptResult) Best() *AggregateQuote {
	if r.Empty() {
		return nil
	}
	return r.Alternatives[0]
}

// PoolRate is the unit-price view of a single pool, used by the pool
// listing endpoint rather than the optimizer.
type PoolRate struct {
	Pool      solana.PublicKey `json:"pool"`
	Venue     string           `json:"venue"`
	QuoteMint solana.PublicKey `json:"quoteMint"`
	BaseMint  solana.PublicKey `json:"baseMint"`
	Rate      decimal.Decimal  `json:"rate"`
}
