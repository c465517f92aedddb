// Package app contains application services and port definitions for the pricing context.
package app

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xmachado/dexscan/business/pricing/domain"
	"github.com/0xmachado/dexscan/internal/asset"
)

// PricingService owns the quote providers and turns configured pair intents
// into the pool-candidate grid a scan cycle iterates.
type PricingService struct {
	providers []QuoteProvider
	registry  *asset.Registry
	chainID   uint64
}

// NewPricingService creates a new PricingService.
func NewPricingService(providers []QuoteProvider, registry *asset.Registry, chainID uint64) *PricingService {
	return &PricingService{
		providers: providers,
		registry:  registry,
		chainID:   chainID,
	}
}

// Providers returns all registered quote providers.
func (s *PricingService) Providers() []QuoteProvider {
	return s.providers
}

// ProviderFor returns the provider for the given DEX id.
func (s *PricingService) ProviderFor(dexID string) (QuoteProvider, bool) {
	for _, p := range s.providers {
		if p.DexID() == dexID {
			return p, true
		}
	}
	return nil, false
}

// ResolvePair resolves a "BASE/QUOTE" intent against the asset registry.
func (s *PricingService) ResolvePair(intent string) (base, quote *asset.Asset, err error) {
	parts := strings.Split(intent, "/")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("pair intent %q: want BASE/QUOTE", intent)
	}

	base, ok := s.registry.GetBySymbolAndChain(parts[0], s.chainID)
	if !ok {
		return nil, nil, fmt.Errorf("pair intent %q: unknown symbol %s on chain %d", intent, parts[0], s.chainID)
	}
	quote, ok = s.registry.GetBySymbolAndChain(parts[1], s.chainID)
	if !ok {
		return nil, nil, fmt.Errorf("pair intent %q: unknown symbol %s on chain %d", intent, parts[1], s.chainID)
	}
	return base, quote, nil
}

// PoolCandidates builds the pool grid for the given pair intents: one
// candidate pool per (pair, provider, fee tier). Pool addresses stay as
// placeholders; quoting goes through quoter contracts.
func (s *PricingService) PoolCandidates(pairs []string) ([]*domain.Pool, error) {
	var pools []*domain.Pool

	for _, intent := range pairs {
		base, quote, err := s.ResolvePair(intent)
		if err != nil {
			return nil, err
		}
		if !base.IsActive() || !quote.IsActive() {
			continue
		}

		for _, p := range s.providers {
			tiers := p.FeeTiers()
			if len(tiers) == 0 {
				tiers = []int64{0}
			}

			for _, fee := range tiers {
				pool, err := domain.NewPool(s.chainID, common.Address{}, p.DexID(), p.DexType(), base, quote, fee)
				if err != nil {
					return nil, fmt.Errorf("building pool for %s on %s: %w", intent, p.DexID(), err)
				}
				pools = append(pools, pool)
			}
		}
	}

	return pools, nil
}
