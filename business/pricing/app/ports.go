// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/0xmachado/dexscan/business/pricing/domain"
	"github.com/0xmachado/dexscan/internal/asset"
)

// QuoteProvider quotes a swap on one DEX at a pinned block height.
// Implementations return an error with kind "revert" on contract revert and
// an infra kind on RPC failure; they never guess or invert prices.
type QuoteProvider interface {
	// DexID returns the provider's DEX identifier.
	DexID() string

	// DexType returns the provider's adapter family.
	DexType() domain.DexType

	// ExecutionVerified reports whether trades on this DEX could be
	// executed for real. Feeds the executable flag on spreads; quoting
	// does not require it.
	ExecutionVerified() bool

	// AnchorPriority returns the DEX's trust rank for anchor selection.
	// Lower is more trusted; 0 means never used as anchor.
	AnchorPriority() int

	// FeeTiers returns the fee tiers to probe. Empty for DEXes without
	// fee-tiered pools; those quote a single pool with fee 0.
	FeeTiers() []int64

	// Quote fetches amount_out for swapping amountIn of tokenIn into
	// tokenOut through pool, evaluated at blockNumber.
	Quote(ctx context.Context, pool *domain.Pool, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount, blockNumber uint64) (*domain.Quote, error)
}
