package market

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

// PairGraph indexes one venue's pools against a requested (quote, base)
// pair. QuoteMap holds every pool touching the quote token, keyed by the
// pool's other token; BaseMap is the same for the base token. Built fresh
// per request and thrown away with it.
type PairGraph struct {
	QuoteMap map[solana.PublicKey]domain.PairEntry
	BaseMap  map[solana.PublicKey]domain.PairEntry
}

// BuildPairGraph scans a venue's pool book for pools touching either side
// of the requested pair. Pure function of its inputs: pools that touch
// neither token are skipped, and an empty graph is a valid result meaning
// the venue has no liquidity for the pair.
//
// The recorded direction flag always means "trade flows through the pool
// canonical quote -> canonical base". For a QuoteMap entry the trade enters
// with the requested quote token; for a BaseMap entry it exits with the
// requested base token.
func BuildPairGraph(pools []*domain.Pool, quote, base solana.PublicKey) *PairGraph {
	g := &PairGraph{
		QuoteMap: make(map[solana.PublicKey]domain.PairEntry),
		BaseMap:  make(map[solana.PublicKey]domain.PairEntry),
	}

	for _, pool := range pools {
		switch quote {
		case pool.QuoteMint:
			g.QuoteMap[pool.BaseMint] = domain.PairEntry{Pool: pool, IsQuoteToBase: true}
		case pool.BaseMint:
			g.QuoteMap[pool.QuoteMint] = domain.PairEntry{Pool: pool, IsQuoteToBase: false}
		}

		switch base {
		case pool.QuoteMint:
			g.BaseMap[pool.BaseMint] = domain.PairEntry{Pool: pool, IsQuoteToBase: false}
		case pool.BaseMint:
			g.BaseMap[pool.QuoteMint] = domain.PairEntry{Pool: pool, IsQuoteToBase: true}
		}
	}

	return g
}
