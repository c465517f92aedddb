// Package pricing implements the pricing bounded context for DEX quoting.
package pricing

import (
	"context"

	"github.com/0xmachado/dexscan/business/blockchain/di"
	"github.com/0xmachado/dexscan/business/pricing/app"
	pricingDI "github.com/0xmachado/dexscan/business/pricing/di"
	"github.com/0xmachado/dexscan/business/pricing/infra/algebra"
	"github.com/0xmachado/dexscan/business/pricing/infra/univ3"
	"github.com/0xmachado/dexscan/internal/asset"
	"github.com/0xmachado/dexscan/internal/config"
	idi "github.com/0xmachado/dexscan/internal/di"
	"github.com/0xmachado/dexscan/internal/logger"
	"github.com/0xmachado/dexscan/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c idi.Container) error {
	// Register quote providers - one per enabled, quoting-verified DEX
	idi.RegisterToken(c, pricingDI.QuoteProviders, func(sr idi.ServiceRegistry) []app.QuoteProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := di.GetChainClient(sr)

		var providers []app.QuoteProvider
		for _, dex := range cfg.Dexes {
			if !dex.Enabled || !dex.VerifiedForQuoting {
				continue
			}

			switch dex.AdapterType {
			case "univ3":
				p, err := univ3.NewProvider(dex, client, log)
				if err != nil {
					panic("failed to create univ3 provider " + dex.ID + ": " + err.Error())
				}
				providers = append(providers, p)
			case "algebra":
				p, err := algebra.NewProvider(dex, client, log)
				if err != nil {
					panic("failed to create algebra provider " + dex.ID + ": " + err.Error())
				}
				providers = append(providers, p)
			}
		}
		return providers
	})

	// Register PricingService (public - exposed to other modules)
	idi.RegisterToken(c, pricingDI.PricingService, func(sr idi.ServiceRegistry) *app.PricingService {
		cfg := sr.Get("config").(*config.Config)
		registry := sr.Get("assetRegistry").(*asset.Registry)
		providers := pricingDI.GetQuoteProviders(sr)
		return app.NewPricingService(providers, registry, cfg.Chain.ChainID)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := pricingDI.GetPricingService(mono.Services())

	// Resolve pair intents eagerly so a config typo fails at startup,
	// not mid-cycle.
	pools, err := svc.PoolCandidates(mono.Config().Scan.Pairs)
	if err != nil {
		return err
	}

	log.Info(ctx, "pricing module started",
		"providers", len(svc.Providers()),
		"pool_candidates", len(pools))
	return nil
}
