package market

import (
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/tidwall/gjson"

	"github.com/hxuan190/swap-optimizer/internal/domain"
)

var (
	ErrBadTokenFile = errors.New("malformed token file")
	ErrBadPoolBook  = errors.New("malformed pool book")
)

type storedToken struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Name     string `json:"name"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// LoadTokenMap reads the token registry JSON (an array of mint records)
// into a mint-keyed map. Entries with an unparseable address are rejected;
// the registry is the source of truth for decimals and must be clean.
func LoadTokenMap(path string) (domain.TokenMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var stored []storedToken
	if err := sonic.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTokenFile, err)
	}

	tokens := make(domain.TokenMap, len(stored))
	for _, st := range stored {
		mint, err := solana.PublicKeyFromBase58(st.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: token %q: %v", ErrBadTokenFile, st.Symbol, err)
		}
		tokens[mint] = &domain.Token{
			Mint:     mint,
			Symbol:   st.Symbol,
			Name:     st.Name,
			Decimals: st.Decimals,
			LogoURI:  st.LogoURI,
		}
	}
	return tokens, nil
}

// VenueBook is one venue's identity plus its full pool list.
type VenueBook struct {
	Venue domain.Venue
	Pools []*domain.Pool
}

// Venue books come from heterogeneous upstream dumps, so pool fields go by
// different names per venue. gjson lets us try the aliases in order
// without a struct per schema.
var (
	poolAccountKeys = []string{"account", "ammId", "poolAccount", "swapAccount"}
	quoteMintKeys   = []string{"quoteMint", "mintA", "tokenAMint"}
	baseMintKeys    = []string{"baseMint", "mintB", "tokenBMint"}
	quoteVaultKeys  = []string{"quoteVault", "tokenAccountA", "tokenVaultA", "reserveA"}
	baseVaultKeys   = []string{"baseVault", "tokenAccountB", "tokenVaultB", "reserveB"}
)

// LoadPoolBook parses one venue's pool book JSON. The file carries the
// venue name, its program id, and a "pools" array. A pool with an amp
// section prices on the stable-swap invariant; everything else is
// constant product.
func LoadPoolBook(path string) (*VenueBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool book: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrBadPoolBook
	}
	root := gjson.ParseBytes(data)

	name := root.Get("name").String()
	if name == "" {
		return nil, fmt.Errorf("%w: missing venue name", ErrBadPoolBook)
	}
	programID, err := solana.PublicKeyFromBase58(root.Get("programId").String())
	if err != nil {
		return nil, fmt.Errorf("%w: venue %s: bad programId: %v", ErrBadPoolBook, name, err)
	}
	venue := domain.Venue{Name: name, ProgramID: programID}

	var pools []*domain.Pool
	var parseErr error
	root.Get("pools").ForEach(func(_, entry gjson.Result) bool {
		pool, err := parsePoolEntry(entry, venue)
		if err != nil {
			parseErr = err
			return false
		}
		pools = append(pools, pool)
		return true
	})
	if parseErr != nil {
		return nil, fmt.Errorf("%w: venue %s: %v", ErrBadPoolBook, name, parseErr)
	}

	return &VenueBook{Venue: venue, Pools: pools}, nil
}

func parsePoolEntry(entry gjson.Result, venue domain.Venue) (*domain.Pool, error) {
	account, err := pickKey(entry, poolAccountKeys)
	if err != nil {
		return nil, err
	}
	quoteMint, err := pickKey(entry, quoteMintKeys)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", account, err)
	}
	baseMint, err := pickKey(entry, baseMintKeys)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", account, err)
	}
	quoteVault, err := pickKey(entry, quoteVaultKeys)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", account, err)
	}
	baseVault, err := pickKey(entry, baseVaultKeys)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", account, err)
	}

	pool := &domain.Pool{
		Account:    account,
		Venue:      venue.Name,
		ProgramID:  venue.ProgramID,
		QuoteMint:  quoteMint,
		BaseMint:   baseMint,
		QuoteVault: quoteVault,
		BaseVault:  baseVault,
		Curve:      domain.CurveConstantProduct,
		Fees: domain.FeeSchedule{
			TradeFeeNumerator:   entry.Get("fees.tradeFeeNumerator").Uint(),
			TradeFeeDenominator: entry.Get("fees.tradeFeeDenominator").Uint(),
			OwnerFeeNumerator:   entry.Get("fees.ownerFeeNumerator").Uint(),
			OwnerFeeDenominator: entry.Get("fees.ownerFeeDenominator").Uint(),
		},
	}

	if amp := entry.Get("amp"); amp.Exists() {
		pool.Curve = domain.CurveStable
		if amp.IsObject() {
			pool.Amp = &domain.AmpRamp{
				InitialFactor: amp.Get("initialFactor").Uint(),
				TargetFactor:  amp.Get("targetFactor").Uint(),
				StartTS:       amp.Get("startRampTs").Int(),
				StopTS:        amp.Get("stopRampTs").Int(),
			}
		} else {
			// Flat coefficient: a degenerate ramp pinned at the value.
			pool.Amp = &domain.AmpRamp{
				InitialFactor: amp.Uint(),
				TargetFactor:  amp.Uint(),
			}
		}
	}

	return pool, nil
}

func pickKey(entry gjson.Result, aliases []string) (solana.PublicKey, error) {
	for _, alias := range aliases {
		if v := entry.Get(alias); v.Exists() {
			key, err := solana.PublicKeyFromBase58(v.String())
			if err != nil {
				return solana.PublicKey{}, fmt.Errorf("field %s: %v", alias, err)
			}
			return key, nil
		}
	}
	return solana.PublicKey{}, fmt.Errorf("missing field (any of %v)", aliases)
}
