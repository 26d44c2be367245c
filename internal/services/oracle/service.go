package oracle

import (
	"context"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/swap-optimizer/internal/adapters/persistence"
	"github.com/hxuan190/swap-optimizer/internal/common"
	"github.com/hxuan190/swap-optimizer/internal/config"
	"github.com/hxuan190/swap-optimizer/internal/metrics"
)

const ORACLE_SERVICE = "oracle-service"

// balanceCache is the persistence surface the oracle needs: last-known
// vault balances surviving restarts.
type balanceCache interface {
	LoadBalance(vault solana.PublicKey) (uint64, bool)
	LoadAllBalances() (map[solana.PublicKey]uint64, error)
	SaveBalanceBatch(balances map[solana.PublicKey]uint64) error
	Close() error
}

// Service fetches point-in-time vault balances for candidate paths. One
// request's vaults are batched into as few getMultipleAccounts calls as
// the RPC allows. Balances also land in a BoltDB cache, which serves as
// the fallback when the RPC has no data for a vault.
type Service struct {
	container.BaseDIInstance

	rpcClient *rpc.Client
	storage   balanceCache

	// warm holds the cache contents as of startup. Read-only after
	// Start; misses fall through to the live cache.
	warm map[solana.PublicKey]uint64

	conf       *config.RPCConfig
	marketConf *config.MarketConfig
}

func (svc *Service) ID() string {
	return ORACLE_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.conf = c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)
	svc.marketConf = c.GetConfig(config.MARKET_CONFIG_KEY).(*config.MarketConfig)

	if svc.conf.RPCApiKey != "" {
		svc.rpcClient = rpc.NewWithHeaders(svc.conf.RPCUrl, map[string]string{
			"x-api-key": svc.conf.RPCApiKey,
		})
	} else {
		svc.rpcClient = rpc.New(svc.conf.RPCUrl)
	}

	if svc.marketConf.CacheEnabled {
		storage, err := persistence.NewStorage(svc.marketConf.DBPath)
		if err != nil {
			return fmt.Errorf("open balance cache: %w", err)
		}
		svc.storage = storage
	}
	return nil
}

// Start primes the in-memory warm cache with everything persisted by
// earlier runs, so the first requests after a restart can survive RPC
// misses without a disk read per vault.
func (svc *Service) Start() error {
	if svc.storage == nil {
		return nil
	}
	cached, err := svc.storage.LoadAllBalances()
	if err != nil {
		log.Warn().Err(err).Msg("[oracleService] could not prime balance cache")
		return nil
	}
	svc.warm = cached
	log.Info().Int("vaults", len(cached)).Msg("[oracleService] balance cache primed")
	return nil
}

func (svc *Service) Stop() error {
	if svc.storage != nil {
		return svc.storage.Close()
	}
	return nil
}

// FetchBalances returns the current token balance of every requested vault.
// A vault the RPC knows nothing about is looked up in the cache; if it is
// not there either it is simply absent from the result, and the caller
// drops whatever depended on it.
func (svc *Service) FetchBalances(ctx context.Context, vaults []solana.PublicKey) (map[solana.PublicKey]uint64, error) {
	if len(vaults) == 0 {
		return map[solana.PublicKey]uint64{}, nil
	}

	start := time.Now()
	metrics.ReserveFetches.Inc()

	balances := make(map[solana.PublicKey]uint64, len(vaults))
	var missing []solana.PublicKey

	chunkSize := svc.conf.MaxAccountsPerFetch
	if chunkSize <= 0 {
		chunkSize = 100
	}
	for offset := 0; offset < len(vaults); offset += chunkSize {
		end := offset + chunkSize
		if end > len(vaults) {
			end = len(vaults)
		}
		chunk := vaults[offset:end]

		out, err := svc.rpcClient.GetMultipleAccountsWithOpts(ctx, chunk, &rpc.GetMultipleAccountsOpts{
			Commitment: rpc.CommitmentProcessed,
		})
		if err != nil {
			return nil, fmt.Errorf("getMultipleAccounts: %w", err)
		}

		for i, acc := range out.Value {
			if acc == nil {
				missing = append(missing, chunk[i])
				continue
			}
			if !common.IsTokenProgram(acc.Owner) {
				log.Warn().Str("vault", chunk[i].String()).Str("owner", acc.Owner.String()).Msg("[oracleService] vault not owned by a token program, treating as missing")
				missing = append(missing, chunk[i])
				continue
			}
			amount, err := decodeTokenAmount(acc.Data.GetBinary())
			if err != nil {
				log.Warn().Str("vault", chunk[i].String()).Err(err).Msg("[oracleService] undecodable vault account, treating as missing")
				missing = append(missing, chunk[i])
				continue
			}
			balances[chunk[i]] = amount
		}
	}

	svc.fillFromCache(balances, missing)
	svc.persist(balances)

	metrics.ReserveFetchDuration.Observe(time.Since(start).Seconds())
	return balances, nil
}

// fillFromCache backfills missing vaults from the last-known balances:
// the startup warm cache first, then the live store. A vault found in
// neither stays absent and the caller drops paths through it.
func (svc *Service) fillFromCache(balances map[solana.PublicKey]uint64, missing []solana.PublicKey) {
	for _, vault := range missing {
		if amount, ok := svc.warm[vault]; ok {
			balances[vault] = amount
			metrics.ReserveCacheHits.Inc()
			continue
		}
		if svc.storage != nil {
			if amount, ok := svc.storage.LoadBalance(vault); ok {
				balances[vault] = amount
				metrics.ReserveCacheHits.Inc()
				continue
			}
		}
		metrics.ReserveAccountsMissing.Inc()
	}
}

func (svc *Service) persist(balances map[solana.PublicKey]uint64) {
	if svc.storage == nil || len(balances) == 0 {
		return
	}
	if err := svc.storage.SaveBalanceBatch(balances); err != nil {
		log.Error().Err(err).Msg("[oracleService] failed to persist balances")
	}
}

func decodeTokenAmount(data []byte) (uint64, error) {
	var acc token.Account
	if err := bin.NewBinDecoder(data).Decode(&acc); err != nil {
		return 0, err
	}
	return acc.Amount, nil
}
