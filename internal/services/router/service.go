package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/swap-optimizer/internal/config"
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/hxuan190/swap-optimizer/internal/metrics"
	"github.com/hxuan190/swap-optimizer/internal/services"
	"github.com/hxuan190/swap-optimizer/internal/services/market"
	"github.com/hxuan190/swap-optimizer/internal/services/oracle"
)

const ROUTER_SERVICE = "router-service"

// OptRequest is one best-execution trade request. Amount and Slippage are
// human units and percent respectively.
type OptRequest struct {
	QuoteMint     solana.PublicKey
	BaseMint      solana.PublicKey
	Amount        decimal.Decimal
	Slippage      decimal.Decimal
	ExcludeVenues []string
}

// Service orchestrates one quote request: path discovery, one batched
// reserve fetch, route evaluation at half size per venue, and ranking.
// Each request works on its own immutable snapshot; requests share nothing
// mutable and need no coordination.
type Service struct {
	container.BaseDIInstance

	logger    *services.ServiceLogger
	marketSvc *market.Service
	oracleSvc *oracle.Service
	feeMath   FeeMath
}

func (svc *Service) ID() string {
	return ROUTER_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc)
	svc.marketSvc = c.Instance(market.MARKET_SERVICE).(*market.Service)
	svc.oracleSvc = c.Instance(oracle.ORACLE_SERVICE).(*oracle.Service)

	marketConf := c.GetConfig(config.MARKET_CONFIG_KEY).(*config.MarketConfig)
	svc.feeMath = FeeMathExact
	if marketConf.LegacyFeeMath {
		svc.feeMath = FeeMathLegacy
		svc.logger.Warn().Msg("legacy truncating fee math enabled")
	}
	return nil
}

func (svc *Service) Start() error {
	return nil
}

func (svc *Service) Stop() error {
	return nil
}

// OptimalSwap produces the ranked execution plans for a trade request.
// A malformed request (identical mints, unknown tokens, non-positive
// amount) is the only hard failure; a pair no venue can execute returns
// an explicit empty result.
func (svc *Service) OptimalSwap(ctx context.Context, req OptRequest) (*domain.OptResult, error) {
	start := time.Now()
	defer func() {
		metrics.OptDuration.Observe(time.Since(start).Seconds())
	}()

	if req.QuoteMint.Equals(req.BaseMint) {
		metrics.OptRequests.WithLabelValues("bad_request").Inc()
		return nil, errors.New("quoteMint and baseMint must be different tokens")
	}
	if _, err := svc.marketSvc.Token(req.QuoteMint); err != nil {
		metrics.OptRequests.WithLabelValues("bad_request").Inc()
		return nil, err
	}
	if _, err := svc.marketSvc.Token(req.BaseMint); err != nil {
		metrics.OptRequests.WithLabelValues("bad_request").Inc()
		return nil, err
	}
	if !req.Amount.IsPositive() {
		metrics.OptRequests.WithLabelValues("bad_request").Inc()
		return nil, errors.New("amount must be positive")
	}

	paths := svc.marketSvc.FindVenuePaths(req.QuoteMint, req.BaseMint, req.ExcludeVenues)
	if len(paths) == 0 {
		metrics.OptRequests.WithLabelValues("no_route").Inc()
		return &domain.OptResult{}, nil
	}
	metrics.PathsEvaluated.Observe(float64(len(paths)))

	reserves, err := svc.fetchReserves(ctx, paths)
	if err != nil {
		metrics.OptRequests.WithLabelValues("rpc_error").Inc()
		return nil, err
	}

	evaluator := NewEvaluator(svc.marketSvc.Tokens(), svc.feeMath)
	nowTS := time.Now().Unix()

	// Default assumption is a two-way split: every venue is priced at
	// half the requested size, and the ranker restores full size where
	// it needs to.
	halfAmount := req.Amount.Div(decimal.NewFromInt(2))
	halfPercent := decimal.NewFromInt(50)

	evalStart := time.Now()
	quotes := GetVenueQuoteSlice()
	defer func() { PutVenueQuoteSlice(quotes) }()
	for _, path := range paths {
		quote, err := evaluator.Evaluate(path, reserves, halfAmount, req.Slippage, halfPercent, nowTS)
		if err != nil {
			metrics.PathsDropped.WithLabelValues(dropReason(err)).Inc()
			svc.logger.Debug().Err(err).Str("venue", path.Venue).Msg("path dropped")
			continue
		}
		quotes = append(quotes, quote)
	}
	metrics.EvaluateDuration.Observe(time.Since(evalStart).Seconds())

	ranker := NewRanker(func(path *domain.SwapPath, amountIn decimal.Decimal) (*domain.VenueQuote, error) {
		return evaluator.Evaluate(path, reserves, amountIn, req.Slippage, decimal.NewFromInt(100), nowTS)
	})
	result := ranker.Rank(RankInput{
		QuoteMint: req.QuoteMint,
		BaseMint:  req.BaseMint,
		AmountIn:  req.Amount,
		Slippage:  req.Slippage,
		Quotes:    quotes,
	})

	if result.Empty() {
		metrics.OptRequests.WithLabelValues("no_liquidity").Inc()
	} else {
		metrics.OptRequests.WithLabelValues("ok").Inc()
	}
	return result, nil
}

// PoolRates prices one unit of the quote token through every pool that
// connects the pair directly, one rate per pool.
func (svc *Service) PoolRates(ctx context.Context, quote, base solana.PublicKey, slippage decimal.Decimal) ([]domain.PoolRate, error) {
	if _, err := svc.marketSvc.Token(quote); err != nil {
		return nil, err
	}
	if _, err := svc.marketSvc.Token(base); err != nil {
		return nil, err
	}

	var paths []*domain.SwapPath
	for _, book := range svc.marketSvc.Books() {
		for _, pool := range book.Pools {
			var entry domain.PairEntry
			switch {
			case pool.QuoteMint == quote && pool.BaseMint == base:
				entry = domain.PairEntry{Pool: pool, IsQuoteToBase: true}
			case pool.BaseMint == quote && pool.QuoteMint == base:
				entry = domain.PairEntry{Pool: pool, IsQuoteToBase: false}
			default:
				continue
			}
			paths = append(paths, &domain.SwapPath{
				Venue:     book.Venue.Name,
				ProgramID: book.Venue.ProgramID,
				Steps:     []domain.PairEntry{entry},
			})
		}
	}
	if len(paths) == 0 {
		return []domain.PoolRate{}, nil
	}

	reserves, err := svc.fetchReserves(ctx, paths)
	if err != nil {
		return nil, err
	}

	evaluator := NewEvaluator(svc.marketSvc.Tokens(), svc.feeMath)
	nowTS := time.Now().Unix()
	unit := decimal.NewFromInt(1)

	rates := make([]domain.PoolRate, 0, len(paths))
	for _, path := range paths {
		quoteResult, err := evaluator.Evaluate(path, reserves, unit, slippage, decimal.NewFromInt(100), nowTS)
		if err != nil {
			metrics.PathsDropped.WithLabelValues(dropReason(err)).Inc()
			continue
		}
		step := path.Steps[0]
		rates = append(rates, domain.PoolRate{
			Pool:      step.Pool.Account,
			Venue:     path.Venue,
			QuoteMint: quote,
			BaseMint:  base,
			Rate:      quoteResult.AmountOut,
		})
	}
	return rates, nil
}

// fetchReserves batches every vault the candidate paths touch into one
// oracle round-trip and folds the balances into per-pool snapshots. A pool
// with either vault unresolved gets no snapshot, which later drops any
// path through it.
func (svc *Service) fetchReserves(ctx context.Context, paths []*domain.SwapPath) (domain.ReserveBook, error) {
	seen := make(map[solana.PublicKey]struct{})
	var vaults []solana.PublicKey
	var pools []*domain.Pool
	for _, path := range paths {
		for _, step := range path.Steps {
			if _, ok := seen[step.Pool.Account]; ok {
				continue
			}
			seen[step.Pool.Account] = struct{}{}
			pools = append(pools, step.Pool)
			vaults = append(vaults, step.Pool.QuoteVault, step.Pool.BaseVault)
		}
	}

	balances, err := svc.oracleSvc.FetchBalances(ctx, vaults)
	if err != nil {
		return nil, fmt.Errorf("fetch reserves: %w", err)
	}

	reserves := make(domain.ReserveBook, len(pools))
	for _, pool := range pools {
		quoteReserve, okQ := balances[pool.QuoteVault]
		baseReserve, okB := balances[pool.BaseVault]
		if !okQ || !okB {
			continue
		}
		reserves[pool.Account] = domain.ReserveSnapshot{
			QuoteReserve: quoteReserve,
			BaseReserve:  baseReserve,
		}
	}
	return reserves, nil
}

func dropReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingReserve):
		return "missing_reserve"
	case errors.Is(err, ErrUnknownToken):
		return "unknown_token"
	default:
		return "invalid_pool"
	}
}
