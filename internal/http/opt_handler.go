package http

import (
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/hxuan190/swap-optimizer/internal/http/httputil"
	"github.com/hxuan190/swap-optimizer/internal/services/market"
	"github.com/hxuan190/swap-optimizer/internal/services/router"
)

type OptHandler struct {
	routerSvc *router.Service
}

func NewOptHandler(routerSvc *router.Service) *OptHandler {
	return &OptHandler{routerSvc: routerSvc}
}

func (h *OptHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.getOptimalSwap)
}

func (h *OptHandler) Root() string {
	return "/opt"
}

// OptRequest represents the parameters for a best-execution search
type OptRequest struct {
	// Source token mint address (Solana base58 public key)
	QuoteMint string `json:"quoteMint" binding:"required" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`

	// Destination token mint address (Solana base58 public key)
	BaseMint string `json:"baseMint" binding:"required" example:"So11111111111111111111111111111111111111112"`

	// Trade size in human units of the source token
	// For 1.5 USDC send "1.5", not base units
	Amount string `json:"amount" binding:"required" example:"100"`

	// Slippage tolerance as a percentage
	// Computed outputs are conservatively divided by (1 + slippage/100)
	// Default: 0.5
	Slippage string `json:"slippage" example:"0.5"`

	// Venue names to exclude from routing, comma separated
	ExcludeVenues string `json:"excludeVenues" example:"saber"`
}

// HopDetail describes one priced hop of a venue route
type HopDetail struct {
	// Pool account used for this hop
	Pool string `json:"pool" example:"7XawhbbxtsRcQA8KTkHT9f9nc6d69UwqCDh6U5EEbEmX"`

	// Input token mint for this hop
	SourceMint string `json:"sourceMint" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`

	// Output token mint for this hop
	DestinationMint string `json:"destinationMint" example:"So11111111111111111111111111111111111111112"`

	// Input amount in human units
	AmountIn string `json:"amountIn" example:"50"`

	// Output amount in human units, rescaled to the destination decimals
	AmountOut string `json:"amountOut" example:"0.3102"`

	// Input-side reserve the pricing used, raw base units
	ReserveIn string `json:"reserveIn" example:"1029384756"`

	// Output-side reserve the pricing used, raw base units
	ReserveOut string `json:"reserveOut" example:"998877665544"`

	// Fee ratio applied on the input side
	FeeRatio string `json:"feeRatio" example:"0.003"`

	// Amplification coefficient, present for stable-swap hops only
	Amp uint64 `json:"amp,omitempty" example:"100"`
}

// VenueDetail is one venue's share of an execution plan
type VenueDetail struct {
	// Venue name
	Market string `json:"market" example:"orca"`

	// Venue program id
	ProgramID string `json:"programId" example:"9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP"`

	// Share of the trade routed through this venue, percent
	Percent string `json:"percent" example:"50"`

	// Input amount this venue receives, human units
	AmountIn string `json:"amountIn" example:"50"`

	// Output amount this venue produces, human units
	AmountOut string `json:"amountOut" example:"0.3102"`

	// Per-hop audit trail
	Hops []HopDetail `json:"hops"`
}

// PlanDetail is one executable alternative
type PlanDetail struct {
	// Total output across the plan's venues, human units
	AmountOut string `json:"amountOut" example:"0.6204"`

	// Venues making up the plan: one entry at 100%, or two at 50% each
	Venues []VenueDetail `json:"venues"`
}

// OptResponse contains every built alternative, best first
type OptResponse struct {
	QuoteMint string `json:"quoteMint" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	BaseMint  string `json:"baseMint" example:"So11111111111111111111111111111111111111112"`
	AmountIn  string `json:"amountIn" example:"100"`
	Slippage  string `json:"slippage" example:"0.5"`

	// Alternatives sorted descending by amountOut; empty when no venue
	// has liquidity for the pair
	Alternatives []PlanDetail `json:"alternatives"`
}

func (h *OptHandler) parseOptRequest(c *gin.Context) (*router.OptRequest, bool) {
	var req OptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return nil, false
	}

	quoteMint, err := solana.PublicKeyFromBase58(req.QuoteMint)
	if err != nil {
		httputil.BadRequest(c, "invalid quoteMint address")
		return nil, false
	}

	baseMint, err := solana.PublicKeyFromBase58(req.BaseMint)
	if err != nil {
		httputil.BadRequest(c, "invalid baseMint address")
		return nil, false
	}

	if quoteMint.Equals(baseMint) {
		httputil.BadRequest(c, "quoteMint and baseMint must be different tokens")
		return nil, false
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		httputil.BadRequest(c, "invalid amount: must be a positive number")
		return nil, false
	}

	slippage := decimal.NewFromFloat(0.5)
	if req.Slippage != "" {
		slippage, err = decimal.NewFromString(req.Slippage)
		if err != nil || slippage.IsNegative() {
			httputil.BadRequest(c, "invalid slippage: must be a non-negative percentage")
			return nil, false
		}
	}

	var exclude []string
	if req.ExcludeVenues != "" {
		exclude = strings.Split(req.ExcludeVenues, ",")
	}

	return &router.OptRequest{
		QuoteMint:     quoteMint,
		BaseMint:      baseMint,
		Amount:        amount,
		Slippage:      slippage,
		ExcludeVenues: exclude,
	}, true
}

func buildOptResponse(req *router.OptRequest, result *domain.OptResult) OptResponse {
	alternatives := make([]PlanDetail, 0, len(result.Alternatives))
	for _, plan := range result.Alternatives {
		venues := make([]VenueDetail, 0, len(plan.Venues))
		for _, venue := range plan.Venues {
			hops := make([]HopDetail, 0, len(venue.Hops))
			for _, hop := range venue.Hops {
				hops = append(hops, HopDetail{
					Pool:            hop.Pool.String(),
					SourceMint:      hop.SourceMint.String(),
					DestinationMint: hop.DestinationMint.String(),
					AmountIn:        hop.AmountIn.String(),
					AmountOut:       hop.AmountOut.String(),
					ReserveIn:       decimal.NewFromUint64(hop.ReserveIn).String(),
					ReserveOut:      decimal.NewFromUint64(hop.ReserveOut).String(),
					FeeRatio:        hop.FeeRatio.String(),
					Amp:             hop.Amp,
				})
			}
			venues = append(venues, VenueDetail{
				Market:    venue.Market,
				ProgramID: venue.ProgramID.String(),
				Percent:   venue.Percent.String(),
				AmountIn:  venue.AmountIn.String(),
				AmountOut: venue.AmountOut.String(),
				Hops:      hops,
			})
		}
		alternatives = append(alternatives, PlanDetail{
			AmountOut: plan.AmountOut.String(),
			Venues:    venues,
		})
	}

	return OptResponse{
		QuoteMint:    req.QuoteMint.String(),
		BaseMint:     req.BaseMint.String(),
		AmountIn:     req.Amount.String(),
		Slippage:     req.Slippage.String(),
		Alternatives: alternatives,
	}
}

// @Summary Find the best execution plan for a swap
// @Description Quote a trade across every configured venue and rank the execution alternatives:
// @Description - a single venue carrying the full size, re-priced at that size
// @Description - the two best venues at a fixed 50/50 split, when two venues have liquidity
// @Description
// @Description Routing considers direct pools first; when a venue has no direct pool the trade
// @Description is routed through one intermediate token. Wrapped SOL is never used as the
// @Description intermediate. An empty alternatives list means no venue can execute the pair.
// @Tags opt
// @Accept json
// @Produce json
// @Param request body OptRequest true "Trade request"
// @Success 200 {object} OptResponse "Ranked execution plans, best first"
// @Failure 400 {object} httputil.Response "Malformed request or unknown token"
// @Router /api/v1/opt [post]
func (h *OptHandler) getOptimalSwap(c *gin.Context) {
	req, ok := h.parseOptRequest(c)
	if !ok {
		return
	}

	result, err := h.routerSvc.OptimalSwap(c.Request.Context(), *req)
	if err != nil {
		if errors.Is(err, market.ErrTokenNotFound) {
			httputil.BadRequest(c, err.Error())
			return
		}
		httputil.InternalError(c, err.Error())
		return
	}

	httputil.Success(c, buildOptResponse(req, result))
}
