package router

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestOptimalSwapRejectsIdenticalMints(t *testing.T) {
	// Same token on both sides is malformed input, rejected before any
	// market lookup happens.
	svc := &Service{}
	_, err := svc.OptimalSwap(context.Background(), OptRequest{
		QuoteMint: mintUSD,
		BaseMint:  mintUSD,
		Amount:    decimal.NewFromInt(100),
	})
	if err == nil {
		t.Fatal("expected error for identical quote and base mints")
	}
}
