package config

import (
	"errors"
	"os"

	"github.com/hxuan190/swap-optimizer/internal/common"
)

type RPCConfig struct {
	RPCUrl    string
	RPCApiKey string

	// MaxAccountsPerFetch caps how many accounts one getMultipleAccounts
	// call may request. Public RPC nodes reject batches above 100.
	MaxAccountsPerFetch int
}

func (r *RPCConfig) Key() string {
	return RPC_CONFIG_KEY
}

func (r *RPCConfig) Load() error {
	r.RPCUrl = os.Getenv("RPC_URL")
	r.RPCApiKey = os.Getenv("RPC_KEY")
	r.MaxAccountsPerFetch = common.GetEnvOrDefaultInt("RPC_MAX_ACCOUNTS_PER_FETCH", 100)
	return nil
}

func (r *RPCConfig) Validate() error {
	if r.RPCUrl == "" {
		return errors.New("invalid rpc config")
	}
	return nil
}
