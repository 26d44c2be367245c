package router

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

func testKey(b byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = b
	return k
}

var (
	mintUSD = testKey(1) // 6 decimals
	mintSOL = testKey(2) // 9 decimals
	mintMID = testKey(3) // 6 decimals
)

func testTokens() domain.TokenMap {
	return domain.TokenMap{
		mintUSD: {Mint: mintUSD, Symbol: "USDX", Decimals: 6},
		mintSOL: {Mint: mintSOL, Symbol: "SOLX", Decimals: 9},
		mintMID: {Mint: mintMID, Symbol: "MIDX", Decimals: 6},
	}
}

func cpPool(account byte, quoteMint, baseMint solana.PublicKey) *domain.Pool {
	return &domain.Pool{
		Account:    testKey(account),
		Venue:      "orca",
		QuoteMint:  quoteMint,
		BaseMint:   baseMint,
		QuoteVault: testKey(account + 100),
		BaseVault:  testKey(account + 101),
		Curve:      domain.CurveConstantProduct,
		Fees:       domain.FeeSchedule{TradeFeeNumerator: 25, TradeFeeDenominator: 10000},
	}
}

func singleHopPath(pool *domain.Pool, quoteToBase bool) *domain.SwapPath {
	return &domain.SwapPath{
		Venue: pool.Venue,
		Steps: []domain.PairEntry{{Pool: pool, IsQuoteToBase: quoteToBase}},
	}
}

func TestEvaluateSingleHop(t *testing.T) {
	pool := cpPool(10, mintUSD, mintSOL)
	reserves := domain.ReserveBook{
		pool.Account: {QuoteReserve: 1_000_000_000_000, BaseReserve: 500_000_000_000_000},
	}
	ev := NewEvaluator(testTokens(), FeeMathExact)

	amountIn := decimal.NewFromInt(100)
	quote, err := ev.Evaluate(singleHopPath(pool, true), reserves, amountIn, decimal.Zero, decimal.NewFromInt(100), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mirror the formula: effIn = 100e6 * 0.9975, out = Ro*effIn/(Ri+effIn),
	// rescaled to the destination token's 9 decimals.
	effIn := decimal.NewFromInt(100_000_000).Mul(decimal.RequireFromString("0.9975"))
	rawOut := decimal.NewFromInt(500_000_000_000_000).Mul(effIn).
		Div(decimal.NewFromInt(1_000_000_000_000).Add(effIn))
	want := rawOut.Shift(-9).RoundBank(9)

	if !quote.AmountOut.Equal(want) {
		t.Errorf("amountOut = %s, want %s", quote.AmountOut, want)
	}
	if len(quote.Hops) != 1 {
		t.Fatalf("hops = %d, want 1", len(quote.Hops))
	}
	hop := quote.Hops[0]
	if hop.SourceMint != mintUSD || hop.DestinationMint != mintSOL {
		t.Errorf("hop direction = %s -> %s", hop.SourceMint, hop.DestinationMint)
	}
	if hop.ReserveIn != 1_000_000_000_000 || hop.ReserveOut != 500_000_000_000_000 {
		t.Errorf("hop reserves = %d/%d, not canonical quote-to-base", hop.ReserveIn, hop.ReserveOut)
	}
	if !quote.AmountOut.Equal(quote.AmountOut.RoundBank(9)) {
		t.Errorf("amountOut %s carries more than 9 decimal places", quote.AmountOut)
	}
}

func TestEvaluateReversedOrientation(t *testing.T) {
	pool := cpPool(10, mintUSD, mintSOL)
	reserves := domain.ReserveBook{
		pool.Account: {QuoteReserve: 1_000_000_000_000, BaseReserve: 500_000_000_000_000},
	}
	ev := NewEvaluator(testTokens(), FeeMathExact)

	quote, err := ev.Evaluate(singleHopPath(pool, false), reserves, decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(100), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hop := quote.Hops[0]
	if hop.SourceMint != mintSOL || hop.DestinationMint != mintUSD {
		t.Errorf("hop direction = %s -> %s, want base to quote", hop.SourceMint, hop.DestinationMint)
	}
	if hop.ReserveIn != 500_000_000_000_000 || hop.ReserveOut != 1_000_000_000_000 {
		t.Errorf("hop reserves = %d/%d, not flipped for base-to-quote", hop.ReserveIn, hop.ReserveOut)
	}
}

func TestEvaluateSlippageBuffer(t *testing.T) {
	pool := cpPool(10, mintUSD, mintSOL)
	reserves := domain.ReserveBook{
		pool.Account: {QuoteReserve: 1_000_000_000_000, BaseReserve: 500_000_000_000_000},
	}
	ev := NewEvaluator(testTokens(), FeeMathExact)
	amountIn := decimal.NewFromInt(100)
	percent := decimal.NewFromInt(100)

	tight, err := ev.Evaluate(singleHopPath(pool, true), reserves, amountIn, decimal.Zero, percent, 0)
	if err != nil {
		t.Fatalf("slippage=0: %v", err)
	}
	buffered, err := ev.Evaluate(singleHopPath(pool, true), reserves, amountIn, decimal.RequireFromString("0.5"), percent, 0)
	if err != nil {
		t.Fatalf("slippage=0.5: %v", err)
	}

	if !buffered.AmountOut.LessThan(tight.AmountOut) {
		t.Errorf("buffered %s not below unbuffered %s", buffered.AmountOut, tight.AmountOut)
	}
	// 0.5% buffer divides by 1.005.
	ratio := tight.AmountOut.Div(buffered.AmountOut)
	if ratio.Sub(decimal.RequireFromString("1.005")).Abs().GreaterThan(decimal.RequireFromString("0.0001")) {
		t.Errorf("buffer ratio = %s, want ~1.005", ratio)
	}
}

func TestEvaluateTwoHopChaining(t *testing.T) {
	first := cpPool(10, mintUSD, mintMID)
	second := cpPool(12, mintMID, mintSOL)
	path := &domain.SwapPath{
		Venue: "orca",
		Steps: []domain.PairEntry{
			{Pool: first, IsQuoteToBase: true},
			{Pool: second, IsQuoteToBase: true},
		},
	}
	reserves := domain.ReserveBook{
		first.Account:  {QuoteReserve: 1_000_000_000_000, BaseReserve: 2_000_000_000_000},
		second.Account: {QuoteReserve: 2_000_000_000_000, BaseReserve: 900_000_000_000_000},
	}
	ev := NewEvaluator(testTokens(), FeeMathExact)

	quote, err := ev.Evaluate(path, reserves, decimal.NewFromInt(50), decimal.Zero, decimal.NewFromInt(100), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quote.Hops) != 2 {
		t.Fatalf("hops = %d, want 2", len(quote.Hops))
	}
	if !quote.Hops[1].AmountIn.Equal(quote.Hops[0].AmountOut) {
		t.Errorf("second hop input %s != first hop output %s", quote.Hops[1].AmountIn, quote.Hops[0].AmountOut)
	}
	if !quote.AmountOut.Equal(quote.Hops[1].AmountOut) {
		t.Errorf("quote output %s != final hop output %s", quote.AmountOut, quote.Hops[1].AmountOut)
	}
}

func TestEvaluateNonLinearInSize(t *testing.T) {
	// Doubling a half-size quote must overstate the real full-size output.
	pool := cpPool(10, mintUSD, mintSOL)
	reserves := domain.ReserveBook{
		pool.Account: {QuoteReserve: 1_000_000_000, BaseReserve: 1_000_000_000_000},
	}
	ev := NewEvaluator(testTokens(), FeeMathExact)
	percent := decimal.NewFromInt(100)

	half, err := ev.Evaluate(singleHopPath(pool, true), reserves, decimal.NewFromInt(100), decimal.Zero, percent, 0)
	if err != nil {
		t.Fatalf("half: %v", err)
	}
	full, err := ev.Evaluate(singleHopPath(pool, true), reserves, decimal.NewFromInt(200), decimal.Zero, percent, 0)
	if err != nil {
		t.Fatalf("full: %v", err)
	}

	doubled := half.AmountOut.Mul(decimal.NewFromInt(2))
	if !full.AmountOut.LessThan(doubled) {
		t.Errorf("full-size output %s not below doubled half-size %s", full.AmountOut, doubled)
	}
}

func TestEvaluateFailureModes(t *testing.T) {
	pool := cpPool(10, mintUSD, mintSOL)
	goodReserves := domain.ReserveBook{
		pool.Account: {QuoteReserve: 1_000_000_000, BaseReserve: 1_000_000_000},
	}

	unknownMint := testKey(99)
	unknownPool := cpPool(11, unknownMint, mintSOL)

	badFeePool := cpPool(12, mintUSD, mintSOL)
	badFeePool.Fees = domain.FeeSchedule{TradeFeeNumerator: 1}

	stalePool := cpPool(13, mintUSD, mintSOL)
	stalePool.Curve = domain.CurveStable // no amp ramp attached

	testCases := []struct {
		name     string
		path     *domain.SwapPath
		reserves domain.ReserveBook
		wantErr  error
	}{
		{"nil path", nil, goodReserves, ErrInvalidPool},
		{"empty path", &domain.SwapPath{Venue: "orca"}, goodReserves, ErrInvalidPool},
		{"missing reserve snapshot", singleHopPath(pool, true), domain.ReserveBook{}, ErrMissingReserve},
		{"unknown source token", singleHopPath(unknownPool, true), goodReserves, ErrUnknownToken},
		{"invalid fee schedule", singleHopPath(badFeePool, true), domain.ReserveBook{badFeePool.Account: {QuoteReserve: 1, BaseReserve: 1}}, ErrInvalidPool},
		{"stable pool without amp", singleHopPath(stalePool, true), domain.ReserveBook{stalePool.Account: {QuoteReserve: 1, BaseReserve: 1}}, ErrInvalidPool},
		{"zero reserves", singleHopPath(pool, true), domain.ReserveBook{pool.Account: {}}, ErrZeroReserves},
	}

	ev := NewEvaluator(testTokens(), FeeMathExact)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ev.Evaluate(tc.path, tc.reserves, decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(100), 0)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("got error %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func BenchmarkEvaluateSingleHop(b *testing.B) {
	pool := cpPool(10, mintUSD, mintSOL)
	path := singleHopPath(pool, true)
	reserves := domain.ReserveBook{
		pool.Account: {QuoteReserve: 1_000_000_000_000, BaseReserve: 500_000_000_000_000},
	}
	ev := NewEvaluator(testTokens(), FeeMathExact)
	amountIn := decimal.NewFromInt(100)
	slippage := decimal.RequireFromString("0.5")
	percent := decimal.NewFromInt(100)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = ev.Evaluate(path, reserves, amountIn, slippage, percent, 0)
	}
}
