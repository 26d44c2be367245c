package router

import (
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

// Repricer re-runs route evaluation for a path at a different input size.
// The ranker never prices anything itself; this keeps alternative
// generation separate from the pricing math so more strategies can be
// added without touching it.
type Repricer func(path *domain.SwapPath, amountIn decimal.Decimal) (*domain.VenueQuote, error)

// RankInput carries the trade parameters and the half-size venue quotes
// the ranker decides between.
type RankInput struct {
	QuoteMint solana.PublicKey
	BaseMint  solana.PublicKey

	// AmountIn is the full requested trade size. Quotes were computed
	// at half this amount.
	AmountIn decimal.Decimal
	Slippage decimal.Decimal
	Quotes   []*domain.VenueQuote
}

// Ranker turns per-venue half-size quotes into executable alternatives:
// the best venue re-priced at full size, and when two venues are
// available, a fixed 50/50 split across the top two. This is a bounded
// heuristic, not a continuous-weight optimizer.
type Ranker struct {
	reprice Repricer
}

func NewRanker(reprice Repricer) *Ranker {
	return &Ranker{reprice: reprice}
}

// Rank sorts quotes descending by output, keeps the best quote per venue,
// builds the alternatives, and returns them sorted descending by total
// output. An empty input yields an empty result, never an error.
func (r *Ranker) Rank(in RankInput) *domain.OptResult {
	ranked := dedupByVenue(sortByAmountOut(in.Quotes))
	if len(ranked) == 0 {
		return &domain.OptResult{}
	}

	alternatives := make([]*domain.AggregateQuote, 0, 2)
	if single := r.buildSingleVenue(in, ranked[0]); single != nil {
		alternatives = append(alternatives, single)
	}
	if split := r.buildTwoWaySplit(in, ranked); split != nil {
		alternatives = append(alternatives, split)
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].AmountOut.GreaterThan(alternatives[j].AmountOut)
	})
	return &domain.OptResult{Alternatives: alternatives}
}

// buildSingleVenue re-runs the best venue's path at the full trade size.
// AMM output is non-linear in input size, so doubling the half-size output
// would overstate what the venue actually delivers.
func (r *Ranker) buildSingleVenue(in RankInput, best *domain.VenueQuote) *domain.AggregateQuote {
	full, err := r.reprice(best.Path, best.AmountIn.Mul(decimal.NewFromInt(2)))
	if err != nil {
		log.Warn().Err(err).Str("market", best.Market).Msg("[ranker] full-size reprice failed, dropping single-venue plan")
		return nil
	}
	full.Percent = decimal.NewFromInt(100)

	return &domain.AggregateQuote{
		AmountOut: full.AmountOut,
		AmountIn:  in.AmountIn,
		QuoteMint: in.QuoteMint,
		BaseMint:  in.BaseMint,
		Slippage:  in.Slippage,
		Venues:    []*domain.VenueQuote{full},
	}
}

// buildTwoWaySplit sums the two best half-size quotes as-is; each was
// already priced at exactly half the trade, so no re-run is needed.
func (r *Ranker) buildTwoWaySplit(in RankInput, ranked []*domain.VenueQuote) *domain.AggregateQuote {
	if len(ranked) < 2 {
		return nil
	}
	first, second := ranked[0], ranked[1]
	half := decimal.NewFromInt(50)
	first.Percent = half
	second.Percent = half

	return &domain.AggregateQuote{
		AmountOut: first.AmountOut.Add(second.AmountOut),
		AmountIn:  in.AmountIn,
		QuoteMint: in.QuoteMint,
		BaseMint:  in.BaseMint,
		Slippage:  in.Slippage,
		Venues:    []*domain.VenueQuote{first, second},
	}
}

// sortByAmountOut returns a new slice sorted descending by output. The
// sort is stable so equal quotes keep their evaluation order.
func sortByAmountOut(quotes []*domain.VenueQuote) []*domain.VenueQuote {
	sorted := make([]*domain.VenueQuote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AmountOut.GreaterThan(sorted[j].AmountOut)
	})
	return sorted
}

// dedupByVenue keeps the first (best, post-sort) quote per venue.
func dedupByVenue(sorted []*domain.VenueQuote) []*domain.VenueQuote {
	seen := make(map[string]struct{}, len(sorted))
	out := sorted[:0]
	for _, q := range sorted {
		if _, ok := seen[q.Market]; ok {
			continue
		}
		seen[q.Market] = struct{}{}
		out = append(out, q)
	}
	return out
}
