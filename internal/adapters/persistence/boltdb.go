package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
)

const (
	BalancesBucket = "balances"

	DefaultDBPath = "./data/swap-optimizer.db"
)

// StoredBalance is the cached last-known balance of one vault account.
// Used as fallback pricing input when the RPC has no data for the vault.
type StoredBalance struct {
	Vault     string `json:"vault"`
	Amount    uint64 `json:"amount"`
	UpdatedAt int64  `json:"updatedAt"`
}

type Storage struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	os.MkdirAll(filepath.Dir(dbPath), 0755)

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[balanceStorage] opened database")

	return &Storage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveBalanceBatch writes every fetched vault balance in one batch.
func (s *Storage) SaveBalanceBatch(balances map[solana.PublicKey]uint64) error {
	if len(balances) == 0 {
		return nil
	}

	now := time.Now().Unix()
	batch := s.db.NewBatch()
	for vault, amount := range balances {
		stored := StoredBalance{
			Vault:     vault.String(),
			Amount:    amount,
			UpdatedAt: now,
		}
		data, err := sonic.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal balance %s: %w", vault.String(), err)
		}

		value := data
		op := &boltdb.WriteOperation{
			Bucket: []byte(BalancesBucket),
			Key:    []byte(vault.String()),
			Value:  &value,
			Op:     boltdb.OpSet,
		}
		if err := batch.Add(op); err != nil {
			return fmt.Errorf("failed to add balance %s to batch: %w", vault.String(), err)
		}
	}

	if err := batch.Execute(); err != nil {
		log.Error().Err(err).Int("count", len(balances)).Msg("[balanceStorage] FAILED to execute batch")
		return err
	}

	log.Debug().Int("count", len(balances)).Msg("[balanceStorage] saved balance batch")
	return nil
}

// LoadBalance returns the cached balance for a vault, reporting whether
// one exists. Unreadable entries are treated as absent.
func (s *Storage) LoadBalance(vault solana.PublicKey) (uint64, bool) {
	value, err := s.db.Get(BalancesBucket, []byte(vault.String()))
	if err != nil || len(value) == 0 {
		return 0, false
	}

	var stored StoredBalance
	if err := sonic.Unmarshal(value, &stored); err != nil {
		log.Warn().Str("vault", vault.String()).Err(err).Msg("[balanceStorage] failed to unmarshal balance, ignoring")
		return 0, false
	}
	return stored.Amount, true
}

// LoadAllBalances returns every cached vault balance.
func (s *Storage) LoadAllBalances() (map[solana.PublicKey]uint64, error) {
	data, err := s.db.List(BalancesBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	balances := make(map[solana.PublicKey]uint64, len(data))
	for address, value := range data {
		var stored StoredBalance
		if err := sonic.Unmarshal(value, &stored); err != nil {
			log.Warn().Str("vault", address).Err(err).Msg("[balanceStorage] failed to unmarshal balance, skipping")
			continue
		}
		vault, err := solana.PublicKeyFromBase58(address)
		if err != nil {
			log.Warn().Str("vault", address).Err(err).Msg("[balanceStorage] invalid vault address, skipping")
			continue
		}
		balances[vault] = stored.Amount
	}
	return balances, nil
}
