package http

import (
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/http/httputil"
	"github.com/hxuan190/swap-optimizer/internal/services/market"
	"github.com/hxuan190/swap-optimizer/internal/services/router"
)

type PoolHandler struct {
	routerSvc *router.Service
}

func NewPoolHandler(routerSvc *router.Service) *PoolHandler {
	return &PoolHandler{routerSvc: routerSvc}
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/rates", h.getRates)
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

// PoolRateRequest asks for the unit price of a pair in every direct pool
type PoolRateRequest struct {
	// Source token mint address
	QuoteMint string `form:"quoteMint" binding:"required" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`

	// Destination token mint address
	BaseMint string `form:"baseMint" binding:"required" example:"So11111111111111111111111111111111111111112"`

	// Optional slippage percentage folded into the rate; default 0
	Slippage string `form:"slippage" example:"0.5"`
}

// PoolRateInfo is one pool's unit price for the pair
type PoolRateInfo struct {
	// Pool account
	Pool string `json:"pool" example:"7XawhbbxtsRcQA8KTkHT9f9nc6d69UwqCDh6U5EEbEmX"`

	// Venue the pool belongs to
	Venue string `json:"venue" example:"orca"`

	// Destination units received for one source unit, human units
	Rate string `json:"rate" example:"0.006212"`
}

// PoolRateResponse lists one rate per direct pool for the pair
type PoolRateResponse struct {
	QuoteMint string         `json:"quoteMint" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	BaseMint  string         `json:"baseMint" example:"So11111111111111111111111111111111111111112"`
	Rates     []PoolRateInfo `json:"rates"`
}

// @Summary Get per-pool unit rates for a pair
// @Description Price one unit of the source token through every pool that connects the pair
// @Description directly, one rate per pool. Pools whose reserves cannot be resolved are
// @Description omitted. An empty list means no direct pool exists for the pair.
// @Tags pools
// @Produce json
// @Param quoteMint query string true "Source token mint address" example("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
// @Param baseMint query string true "Destination token mint address" example("So11111111111111111111111111111111111111112")
// @Param slippage query string false "Slippage percentage folded into the rate" example("0.5")
// @Success 200 {object} PoolRateResponse "Per-pool unit rates"
// @Failure 400 {object} httputil.Response "Malformed request or unknown token"
// @Router /api/v1/pools/rates [get]
func (h *PoolHandler) getRates(c *gin.Context) {
	var req PoolRateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	quoteMint, err := solana.PublicKeyFromBase58(req.QuoteMint)
	if err != nil {
		httputil.BadRequest(c, "invalid quoteMint address")
		return
	}
	baseMint, err := solana.PublicKeyFromBase58(req.BaseMint)
	if err != nil {
		httputil.BadRequest(c, "invalid baseMint address")
		return
	}

	slippage := decimal.Zero
	if req.Slippage != "" {
		slippage, err = decimal.NewFromString(req.Slippage)
		if err != nil || slippage.IsNegative() {
			httputil.BadRequest(c, "invalid slippage: must be a non-negative percentage")
			return
		}
	}

	rates, err := h.routerSvc.PoolRates(c.Request.Context(), quoteMint, baseMint, slippage)
	if err != nil {
		if errors.Is(err, market.ErrTokenNotFound) {
			httputil.BadRequest(c, err.Error())
			return
		}
		httputil.InternalError(c, err.Error())
		return
	}

	infos := make([]PoolRateInfo, 0, len(rates))
	for _, rate := range rates {
		infos = append(infos, PoolRateInfo{
			Pool:  rate.Pool.String(),
			Venue: rate.Venue,
			Rate:  rate.Rate.String(),
		})
	}

	httputil.Success(c, PoolRateResponse{
		QuoteMint: req.QuoteMint,
		BaseMint:  req.BaseMint,
		Rates:     infos,
	})
}
