package router

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

func halfQuote(market string, amountOut int64) *domain.VenueQuote {
	return &domain.VenueQuote{
		Market:    market,
		Percent:   decimal.NewFromInt(50),
		AmountIn:  decimal.NewFromInt(50),
		AmountOut: decimal.NewFromInt(amountOut),
		Path:      &domain.SwapPath{Venue: market},
	}
}

// repriceTable answers full-size repricing by venue name.
func repriceTable(fullByVenue map[string]int64) Repricer {
	return func(path *domain.SwapPath, amountIn decimal.Decimal) (*domain.VenueQuote, error) {
		out, ok := fullByVenue[path.Venue]
		if !ok {
			return nil, errors.New("no reserves for venue")
		}
		return &domain.VenueQuote{
			Market:    path.Venue,
			AmountIn:  amountIn,
			AmountOut: decimal.NewFromInt(out),
			Path:      path,
		}, nil
	}
}

func rankInput(quotes ...*domain.VenueQuote) RankInput {
	return RankInput{
		AmountIn: decimal.NewFromInt(100),
		Slippage: decimal.RequireFromString("0.5"),
		Quotes:   quotes,
	}
}

func TestRankEmptyInput(t *testing.T) {
	r := NewRanker(repriceTable(nil))
	result := r.Rank(rankInput())
	if !result.Empty() {
		t.Errorf("expected empty result, got %d alternatives", len(result.Alternatives))
	}
	if result.Best() != nil {
		t.Errorf("Best() on empty result should be nil")
	}
}

func TestRankSplitBeatsSingleVenue(t *testing.T) {
	// Two venues at 600+570=1170 vs the best venue re-run at full size
	// for 1150: the split must rank first.
	r := NewRanker(repriceTable(map[string]int64{"orca": 1150}))
	result := r.Rank(rankInput(halfQuote("raydium", 570), halfQuote("orca", 600)))

	if len(result.Alternatives) != 2 {
		t.Fatalf("alternatives = %d, want 2", len(result.Alternatives))
	}

	best := result.Best()
	if !best.AmountOut.Equal(decimal.NewFromInt(1170)) {
		t.Errorf("best output = %s, want 1170", best.AmountOut)
	}
	if len(best.Venues) != 2 {
		t.Fatalf("best plan venues = %d, want 2", len(best.Venues))
	}
	if best.Venues[0].Market != "orca" || best.Venues[1].Market != "raydium" {
		t.Errorf("split order = %s,%s; want orca,raydium", best.Venues[0].Market, best.Venues[1].Market)
	}
	for _, v := range best.Venues {
		if !v.Percent.Equal(decimal.NewFromInt(50)) {
			t.Errorf("venue %s percent = %s, want 50", v.Market, v.Percent)
		}
	}

	runnerUp := result.Alternatives[1]
	if !runnerUp.AmountOut.Equal(decimal.NewFromInt(1150)) {
		t.Errorf("runner-up output = %s, want 1150", runnerUp.AmountOut)
	}
	if len(runnerUp.Venues) != 1 || !runnerUp.Venues[0].Percent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("runner-up should be one venue at 100%%")
	}
}

func TestRankSingleVenueBeatsSplit(t *testing.T) {
	r := NewRanker(repriceTable(map[string]int64{"orca": 1200}))
	result := r.Rank(rankInput(halfQuote("orca", 600), halfQuote("raydium", 570)))

	best := result.Best()
	if !best.AmountOut.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("best output = %s, want 1200", best.AmountOut)
	}
	if len(best.Venues) != 1 || best.Venues[0].Market != "orca" {
		t.Errorf("best plan should be orca alone")
	}
}

func TestRankDedupKeepsBestPerVenue(t *testing.T) {
	// Two orca pools quoted: only the better one survives, and the split
	// pairs it with the other venue rather than the duplicate.
	r := NewRanker(repriceTable(map[string]int64{"orca": 1150}))
	result := r.Rank(rankInput(halfQuote("orca", 580), halfQuote("raydium", 570), halfQuote("orca", 600)))

	best := result.Best()
	if !best.AmountOut.Equal(decimal.NewFromInt(1170)) {
		t.Errorf("best output = %s, want 1170 (600 orca + 570 raydium)", best.AmountOut)
	}
	for _, alt := range result.Alternatives {
		seen := map[string]int{}
		for _, v := range alt.Venues {
			seen[v.Market]++
		}
		for market, n := range seen {
			if n > 1 {
				t.Errorf("venue %s appears %d times in one plan", market, n)
			}
		}
	}
}

func TestRankSingleQuoteOnlyFullRerun(t *testing.T) {
	r := NewRanker(repriceTable(map[string]int64{"saber": 990}))
	result := r.Rank(rankInput(halfQuote("saber", 500)))

	if len(result.Alternatives) != 1 {
		t.Fatalf("alternatives = %d, want 1", len(result.Alternatives))
	}
	best := result.Best()
	if !best.AmountOut.Equal(decimal.NewFromInt(990)) {
		t.Errorf("best output = %s, want the full-size re-run 990, not 2x500", best.AmountOut)
	}
	if !best.Venues[0].AmountIn.Equal(decimal.NewFromInt(100)) {
		t.Errorf("re-run input = %s, want full size 100", best.Venues[0].AmountIn)
	}
}

func TestRankRepriceFailureDropsSingleVenuePlan(t *testing.T) {
	// Repricer knows no venue, so the full-size plan vanishes and only the
	// split of the retained half-size quotes remains.
	r := NewRanker(repriceTable(nil))
	result := r.Rank(rankInput(halfQuote("orca", 600), halfQuote("raydium", 570)))

	if len(result.Alternatives) != 1 {
		t.Fatalf("alternatives = %d, want 1", len(result.Alternatives))
	}
	if len(result.Best().Venues) != 2 {
		t.Errorf("surviving plan should be the two-venue split")
	}
}

func TestRankRepriceFailureSingleQuoteYieldsEmpty(t *testing.T) {
	r := NewRanker(repriceTable(nil))
	result := r.Rank(rankInput(halfQuote("orca", 600)))
	if !result.Empty() {
		t.Errorf("expected empty result when the only plan cannot be built")
	}
}
