package router

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

func TestSwapFeeRatio(t *testing.T) {
	testCases := []struct {
		name    string
		fees    domain.FeeSchedule
		mode    FeeMath
		want    string
		wantErr error
	}{
		{
			name: "trade fee only",
			fees: domain.FeeSchedule{TradeFeeNumerator: 25, TradeFeeDenominator: 10000},
			mode: FeeMathExact,
			want: "0.0025",
		},
		{
			name: "trade and owner fees sum",
			fees: domain.FeeSchedule{
				TradeFeeNumerator: 25, TradeFeeDenominator: 10000,
				OwnerFeeNumerator: 5, OwnerFeeDenominator: 10000,
			},
			mode: FeeMathExact,
			want: "0.003",
		},
		{
			name: "all zero schedule",
			fees: domain.FeeSchedule{},
			mode: FeeMathExact,
			want: "0",
		},
		{
			name: "legacy truncates sub-unit components to zero",
			fees: domain.FeeSchedule{
				TradeFeeNumerator: 25, TradeFeeDenominator: 10000,
				OwnerFeeNumerator: 5, OwnerFeeDenominator: 10000,
			},
			mode: FeeMathLegacy,
			want: "0",
		},
		{
			name: "legacy keeps integer part",
			fees: domain.FeeSchedule{TradeFeeNumerator: 3, TradeFeeDenominator: 2},
			mode: FeeMathLegacy,
			want: "1",
		},
		{
			name:    "nonzero numerator over zero denominator",
			fees:    domain.FeeSchedule{TradeFeeNumerator: 25},
			mode:    FeeMathExact,
			wantErr: ErrInvalidPool,
		},
		{
			name:    "owner component with zero denominator",
			fees:    domain.FeeSchedule{TradeFeeNumerator: 25, TradeFeeDenominator: 10000, OwnerFeeNumerator: 1},
			mode:    FeeMathExact,
			wantErr: ErrInvalidPool,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SwapFeeRatio(tc.fees, tc.mode)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got error %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestFeeMathModesDiverge(t *testing.T) {
	// The same realistic schedule prices differently under the two modes;
	// quoting with the legacy mode must visibly change the ratio.
	fees := domain.FeeSchedule{TradeFeeNumerator: 30, TradeFeeDenominator: 10000}

	exact, err := SwapFeeRatio(fees, FeeMathExact)
	if err != nil {
		t.Fatalf("exact: %v", err)
	}
	legacy, err := SwapFeeRatio(fees, FeeMathLegacy)
	if err != nil {
		t.Fatalf("legacy: %v", err)
	}

	if exact.Equal(legacy) {
		t.Errorf("exact %s and legacy %s should differ for a sub-unit fee", exact, legacy)
	}
	if !legacy.IsZero() {
		t.Errorf("legacy ratio = %s, want 0", legacy)
	}
}
