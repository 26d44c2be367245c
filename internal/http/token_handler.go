package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/swap-optimizer/internal/http/httputil"
	"github.com/hxuan190/swap-optimizer/internal/services/market"
)

type TokenHandler struct {
	marketSvc *market.Service
}

func NewTokenHandler(marketSvc *market.Service) *TokenHandler {
	return &TokenHandler{marketSvc: marketSvc}
}

func (h *TokenHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.listTokens)
}

func (h *TokenHandler) Root() string {
	return "/tokens"
}

// TokenInfo is one registry entry
type TokenInfo struct {
	// Token mint address
	Mint string `json:"mint" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`

	// Token symbol
	Symbol string `json:"symbol" example:"USDC"`

	// Display name
	Name string `json:"name" example:"USD Coin"`

	// Decimal precision of the mint
	Decimals uint8 `json:"decimals" example:"6"`

	// Logo image URL, when the registry carries one
	LogoURI string `json:"logoUri,omitempty"`
}

// TokenListResponse is one page of the token registry
type TokenListResponse struct {
	// Tokens on this page, ordered by symbol
	Tokens []TokenInfo `json:"tokens"`

	// Total number of tokens across all pages
	Total int `json:"total" example:"412"`

	// Current page number (1-indexed)
	Page int `json:"page" example:"1"`

	// Tokens per page (max 500)
	Limit int `json:"limit" example:"100"`

	// Total number of pages available
	Pages int `json:"pages" example:"5"`
}

// @Summary List registered tokens
// @Description Paginated listing of the token registry, ordered by symbol.
// @Tags tokens
// @Produce json
// @Param page query int false "Page number (1-indexed)" default(1) example(1)
// @Param limit query int false "Tokens per page, max 500" default(100) example(100)
// @Success 200 {object} TokenListResponse "One page of tokens"
// @Router /api/v1/tokens [get]
func (h *TokenHandler) listTokens(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	tokens, total := h.marketSvc.TokenPage(page, limit)
	pages := (total + limit - 1) / limit

	infos := make([]TokenInfo, 0, len(tokens))
	for _, t := range tokens {
		infos = append(infos, TokenInfo{
			Mint:     t.Mint.String(),
			Symbol:   t.Symbol,
			Name:     t.Name,
			Decimals: t.Decimals,
			LogoURI:  t.LogoURI,
		})
	}

	httputil.Success(c, TokenListResponse{
		Tokens: infos,
		Total:  total,
		Page:   page,
		Limit:  limit,
		Pages:  pages,
	})
}
