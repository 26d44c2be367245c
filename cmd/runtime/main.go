package main

import (
	"github.com/hxuan190/swap-optimizer/internal/common"
	"github.com/hxuan190/swap-optimizer/internal/config"
	"github.com/hxuan190/swap-optimizer/internal/http"
	"github.com/hxuan190/swap-optimizer/internal/services/market"
	"github.com/hxuan190/swap-optimizer/internal/services/oracle"
	"github.com/hxuan190/swap-optimizer/internal/services/router"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"
)

// @title Swap Optimizer API
// @version 1.0
// @description Best-execution quoting across multiple Solana AMM venues.
// @description
// @description ## - Features
// @description - **Multi-Venue Quoting**: Prices a trade on every configured venue in one request
// @description - **Smart Routing**: Direct pools first, one-intermediate routing otherwise
// @description - **Order Splitting**: Compares a full-size single venue against a 50/50 two-venue split
// @description - **Per-Hop Audit Trail**: Reserves, fee ratio, and amplification behind every number
// @description
// @description ## - Supported Invariants
// @description | Invariant | Pools |
// @description |-----------|-------|
// @description | Constant product | Orca, Raydium |
// @description | Stable swap | Saber |
// @description
// @description ## - Usage Tips
// @description - Amounts are human units; "1.5" means 1.5 tokens regardless of decimals
// @description - Slippage is a percentage; outputs are divided by (1 + slippage/100)
// @description - Rate limit: 10 requests/second (burst: 20)
// @BasePath /
// @schemes https http
// @tag.name opt
// @tag.description Rank single-venue and split execution plans for a trade
// @tag.name pools
// @tag.description Per-pool unit rates for a token pair
// @tag.name tokens
// @tag.description Browse the token registry

func main() {
	common.InitRuntimeDefaults()

	// load env
	err := godotenv.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load env")
		return
	}

	// di container config
	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.RPCConfig{},
		&config.MarketConfig{},
	)

	// di container
	dic, err := container.New(
		// config
		conf,

		// services
		&market.Service{},
		&oracle.Service{},
		&router.Service{},

		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	// Run() doesn't call Stop(), we must do it manually
	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
