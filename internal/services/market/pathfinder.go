package market

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/swap-optimizer/internal/common"
	"github.com/hxuan190/swap-optimizer/internal/domain"
)

// FindPaths enumerates a venue's candidate swap paths for the pair the
// graph was built against.
//
// A direct quote<->base pool always wins: when one exists the single
// one-hop path is returned and no two-hop routes are considered. Otherwise
// every token both maps share becomes the intermediate of a two-hop path,
// except wrapped SOL, which is never routed through. An empty result means
// the venue has no route for the pair; that is not an error.
func FindPaths(g *PairGraph, venue domain.Venue, quote solana.PublicKey) []*domain.SwapPath {
	if direct, ok := g.BaseMap[quote]; ok {
		return []*domain.SwapPath{{
			Venue:     venue.Name,
			ProgramID: venue.ProgramID,
			Steps:     []domain.PairEntry{direct},
		}}
	}

	var paths []*domain.SwapPath
	for intermediate, first := range g.QuoteMap {
		if intermediate == common.WrappedNativeMint {
			continue
		}
		second, ok := g.BaseMap[intermediate]
		if !ok {
			continue
		}
		// A path never repeats a pool. Both maps resolving an intermediate
		// to the same pool only happens for a degenerate request where
		// quote and base are the same token.
		if second.Pool.Account == first.Pool.Account {
			continue
		}
		paths = append(paths, &domain.SwapPath{
			Venue:     venue.Name,
			ProgramID: venue.ProgramID,
			Steps:     []domain.PairEntry{first, second},
		})
	}
	return paths
}
