// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/0xmachado/dexscan/business/pricing/app"
	"github.com/0xmachado/dexscan/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
)

// Private dependency tokens - internal to pricing module
var (
	QuoteProviders = di.NewToken[[]app.QuoteProvider]("pricing:quoteProviders")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetQuoteProviders(c di.ServiceRegistry) []app.QuoteProvider {
	return di.GetToken(c, QuoteProviders)
}
