package config

import (
	"errors"
	"strings"

	"github.com/hxuan190/swap-optimizer/internal/common"
)

type MarketConfig struct {
	// TokenFilePath is the token registry JSON (mint -> symbol/decimals).
	TokenFilePath string

	// PoolBookDir holds one pool book JSON per venue, named <venue>.json.
	PoolBookDir string

	// Venues is the ordered list of venue books to load.
	Venues []string

	// DBPath is the BoltDB file caching last-known vault balances.
	// Default: "./data/swap-optimizer.db"
	DBPath string

	// CacheEnabled controls whether fetched balances are persisted and
	// used as fallback when the RPC misses an account.
	// Default: true
	CacheEnabled bool

	// LegacyFeeMath switches the fee ratio to truncating integer
	// division for compatibility testing. Default: false
	LegacyFeeMath bool
}

func (c *MarketConfig) Key() string {
	return MARKET_CONFIG_KEY
}

func (c *MarketConfig) Load() error {
	c.TokenFilePath = common.GetEnvOrDefault("MARKET_TOKEN_FILE", "./market/token_mint.json")
	c.PoolBookDir = common.GetEnvOrDefault("MARKET_POOL_BOOK_DIR", "./market")
	c.Venues = strings.Split(common.GetEnvOrDefault("MARKET_VENUES", "orca,raydium,saber"), ",")
	c.DBPath = common.GetEnvOrDefault("MARKET_DB_PATH", "./data/swap-optimizer.db")
	c.CacheEnabled = common.GetEnvOrDefault("MARKET_CACHE_ENABLED", "true") == "true"
	c.LegacyFeeMath = common.GetEnvOrDefault("MARKET_LEGACY_FEE_MATH", "false") == "true"
	return nil
}

func (c *MarketConfig) Validate() error {
	if c.TokenFilePath == "" || c.PoolBookDir == "" || len(c.Venues) == 0 {
		return errors.New("invalid market config")
	}
	return nil
}
