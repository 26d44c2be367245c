package router

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

// Pool allocators for reducing GC pressure on the quoting hot path

const defaultQuoteSliceCap = 8

// u256Pool reuses uint256.Int scratch values for the stable-swap solves.
// Each solve needs around a dozen temporaries per iteration batch.
var u256Pool = sync.Pool{
	New: func() interface{} {
		return new(uint256.Int)
	},
}

// GetU256 gets a cleared uint256 from the pool
func GetU256() *uint256.Int {
	return u256Pool.Get().(*uint256.Int).Clear()
}

// PutU256 returns a uint256 to the pool
func PutU256(v *uint256.Int) {
	if v != nil {
		u256Pool.Put(v)
	}
}

// venueQuoteSlicePool reuses []*domain.VenueQuote slices across requests
var venueQuoteSlicePool = sync.Pool{
	New: func() interface{} {
		s := make([]*domain.VenueQuote, 0, defaultQuoteSliceCap)
		return &s
	},
}

// GetVenueQuoteSlice gets a quote slice from the pool
func GetVenueQuoteSlice() []*domain.VenueQuote {
	s := venueQuoteSlicePool.Get().(*[]*domain.VenueQuote)
	return (*s)[:0]
}

// PutVenueQuoteSlice returns a quote slice to the pool
func PutVenueQuoteSlice(s []*domain.VenueQuote) {
	if cap(s) > 0 {
		// Clear references to allow GC of quote objects
		for i := range s {
			s[i] = nil
		}
		s = s[:0]
		venueQuoteSlicePool.Put(&s)
	}
}
