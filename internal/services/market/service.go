package market

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/swap-optimizer/internal/config"
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/hxuan190/swap-optimizer/internal/metrics"
)

const MARKET_SERVICE = "market-service"

var ErrTokenNotFound = errors.New("token not found in registry")

// marketSnapshot is the immutable view of everything loaded from disk.
// Requests read it lock-free; Reload swaps the whole pointer.
type marketSnapshot struct {
	tokens domain.TokenMap
	books  []*VenueBook

	// sortedTokens is the registry ordered by symbol for stable paging.
	sortedTokens []*domain.Token
}

// Service owns the token registry and the per-venue pool books.
type Service struct {
	container.BaseDIInstance

	conf     *config.MarketConfig
	snapshot atomic.Pointer[marketSnapshot]
}

func (svc *Service) ID() string {
	return MARKET_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.conf = c.GetConfig(config.MARKET_CONFIG_KEY).(*config.MarketConfig)
	return nil
}

func (svc *Service) Start() error {
	return svc.Reload()
}

func (svc *Service) Stop() error {
	return nil
}

// Reload reads the token file and every configured venue book, then swaps
// the snapshot in one atomic store. In-flight requests keep the snapshot
// they started with.
func (svc *Service) Reload() error {
	tokens, err := LoadTokenMap(svc.conf.TokenFilePath)
	if err != nil {
		return fmt.Errorf("load token registry: %w", err)
	}

	books := make([]*VenueBook, 0, len(svc.conf.Venues))
	poolCount := 0
	for _, venue := range svc.conf.Venues {
		venue = strings.TrimSpace(venue)
		if venue == "" {
			continue
		}
		book, err := LoadPoolBook(filepath.Join(svc.conf.PoolBookDir, venue+".json"))
		if err != nil {
			return fmt.Errorf("load pool book %s: %w", venue, err)
		}
		books = append(books, book)
		poolCount += len(book.Pools)
	}

	sorted := make([]*domain.Token, 0, len(tokens))
	for _, t := range tokens {
		sorted = append(sorted, t)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Symbol < sorted[j].Symbol
	})

	svc.snapshot.Store(&marketSnapshot{
		tokens:       tokens,
		books:        books,
		sortedTokens: sorted,
	})

	metrics.TokenCount.Set(float64(len(tokens)))
	metrics.PoolCount.Set(float64(poolCount))
	log.Info().
		Int("tokens", len(tokens)).
		Int("venues", len(books)).
		Int("pools", poolCount).
		Msg("[marketService] market data loaded")
	return nil
}

func (svc *Service) Tokens() domain.TokenMap {
	return svc.snapshot.Load().tokens
}

func (svc *Service) Books() []*VenueBook {
	return svc.snapshot.Load().books
}

// Token resolves a mint against the registry.
func (svc *Service) Token(mint solana.PublicKey) (*domain.Token, error) {
	t, ok := svc.snapshot.Load().tokens[mint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, mint)
	}
	return t, nil
}

// TokenPage returns one page of the registry ordered by symbol, plus the
// total token count.
func (svc *Service) TokenPage(page, limit int) ([]*domain.Token, int) {
	sorted := svc.snapshot.Load().sortedTokens
	total := len(sorted)

	offset := (page - 1) * limit
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return sorted[offset:end], total
}

// FindVenuePaths builds each venue's pair graph and enumerates its paths.
// Venues named in exclude are skipped. Venues with no route contribute
// nothing; an empty result is valid.
func (svc *Service) FindVenuePaths(quote, base solana.PublicKey, exclude []string) []*domain.SwapPath {
	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	var paths []*domain.SwapPath
	for _, book := range svc.Books() {
		if _, ok := excluded[strings.ToLower(book.Venue.Name)]; ok {
			continue
		}
		graph := BuildPairGraph(book.Pools, quote, base)
		paths = append(paths, FindPaths(graph, book.Venue, quote)...)
	}
	return paths
}
