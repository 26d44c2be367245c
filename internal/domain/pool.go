package domain

import (
	"github.com/gagliardetto/solana-go"
)

// CurveKind is the closed set of pricing invariants a pool can carry.
// Dispatch on it is exhaustive: adding a venue with a new invariant means
// adding a variant here and a case in the hop pricer.
type CurveKind uint8

const (
	CurveConstantProduct CurveKind = iota
	CurveStable
)

func (k CurveKind) String() string {
	switch k {
	case CurveConstantProduct:
		return "ConstantProduct"
	case CurveStable:
		return "Stable"
	default:
		return "UNKNOWN"
	}
}

// FeeSchedule holds the raw on-chain fee fields of a pool. The trade fee and
// the owner fee are charged on the input side and summed into one ratio.
type FeeSchedule struct {
	TradeFeeNumerator   uint64 `json:"tradeFeeNumerator"`
	TradeFeeDenominator uint64 `json:"tradeFeeDenominator"`
	OwnerFeeNumerator   uint64 `json:"ownerFeeNumerator"`
	OwnerFeeDenominator uint64 `json:"ownerFeeDenominator"`
}

// AmpRamp is the amplification state of a stable-swap pool. The effective
// coefficient moves linearly from InitialFactor to TargetFactor over
// [StartTS, StopTS] and stays at TargetFactor afterwards.
type AmpRamp struct {
	InitialFactor uint64 `json:"initialFactor"`
	TargetFactor  uint64 `json:"targetFactor"`
	StartTS       int64  `json:"startTs"`
	StopTS        int64  `json:"stopTs"`
}

// Venue identifies one AMM deployment the optimizer can route through.
type Venue struct {
	Name      string           `json:"name"`
	ProgramID solana.PublicKey `json:"programId"`
}

// Pool is one liquidity pool in a venue's book, in the venue's own canonical
// (quote, base) order. Immutable snapshot for the duration of one request.
type Pool struct {
	Account    solana.PublicKey `json:"account"`
	Venue      string           `json:"venue"`
	ProgramID  solana.PublicKey `json:"programId"`
	QuoteMint  solana.PublicKey `json:"quoteMint"`
	BaseMint   solana.PublicKey `json:"baseMint"`
	QuoteVault solana.PublicKey `json:"quoteVault"`
	BaseVault  solana.PublicKey `json:"baseVault"`
	Curve      CurveKind        `json:"curve"`
	Fees       FeeSchedule      `json:"fees"`
	Amp        *AmpRamp         `json:"amp,omitempty"`
}

// PairEntry is a pool viewed from one requested (quote, base) pair.
// IsQuoteToBase records whether the trade flows through the pool in its
// canonical quote-to-base direction or reversed.
type PairEntry struct {
	Pool          *Pool
	IsQuoteToBase bool
}

// SourceMint returns the mint the trade enters this pool with.
func (e PairEntry) SourceMint() solana.PublicKey {
	if e.IsQuoteToBase {
		return e.Pool.QuoteMint
	}
	return e.Pool.BaseMint
}

// DestinationMint returns the mint the trade leaves this pool with.
func (e PairEntry) DestinationMint() solana.PublicKey {
	if e.IsQuoteToBase {
		return e.Pool.BaseMint
	}
	return e.Pool.QuoteMint
}

// SourceVault returns the vault holding the input-side reserve.
func (e PairEntry) SourceVault() solana.PublicKey {
	if e.IsQuoteToBase {
		return e.Pool.QuoteVault
	}
	return e.Pool.BaseVault
}

// DestinationVault returns the vault holding the output-side reserve.
func (e PairEntry) DestinationVault() solana.PublicKey {
	if e.IsQuoteToBase {
		return e.Pool.BaseVault
	}
	return e.Pool.QuoteVault
}

// SwapPath is an ordered chain of one or two pair entries through a single
// venue, from the requested source token to the requested destination token.
type SwapPath struct {
	Venue     string
	ProgramID solana.PublicKey
	Steps     []PairEntry
}

// ReserveSnapshot carries the point-in-time vault balances of one pool,
// in the pool's canonical order. Raw base units, never mutated.
type ReserveSnapshot struct {
	QuoteReserve uint64
	BaseReserve  uint64
}

// ReserveBook maps pool accounts to their snapshot for one request.
type ReserveBook map[solana.PublicKey]ReserveSnapshot
