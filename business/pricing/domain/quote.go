package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/0xmachado/dexscan/internal/asset"
)

// Quote is a single directional price observation from one DEX at a pinned
// block. Immutable after construction; gates classify it, never mutate it.
type Quote struct {
	Pool        *Pool
	TokenIn     *asset.Asset
	TokenOut    *asset.Asset
	AmountIn    asset.Amount
	AmountOut   asset.Amount
	BlockNumber uint64
	TimestampMs int64
	GasEstimate uint64
	// TicksCrossed is meaningful only when Pool.HasTicks() is true.
	TicksCrossed      int
	SqrtPriceX96After *big.Int // nil when the quoter does not report it
	LatencyMs         int64
}

// NewQuote creates a quote stamped with the current wall-clock time.
func NewQuote(pool *Pool, tokenIn, tokenOut *asset.Asset, amountIn, amountOut asset.Amount, blockNumber uint64, gasEstimate uint64, ticksCrossed int, sqrtPriceAfter *big.Int, latencyMs int64) *Quote {
	return &Quote{
		Pool:              pool,
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		AmountOut:         amountOut,
		BlockNumber:       blockNumber,
		TimestampMs:       time.Now().UnixMilli(),
		GasEstimate:       gasEstimate,
		TicksCrossed:      ticksCrossed,
		SqrtPriceX96After: sqrtPriceAfter,
		LatencyMs:         latencyMs,
	}
}

// EffectivePrice returns the price as quote-token per one base-token, with
// base = TokenIn. Zero when AmountIn is zero.
func (q *Quote) EffectivePrice() decimal.Decimal {
	in := q.AmountIn.ToDecimal()
	if in.IsZero() {
		return decimal.Zero
	}
	return q.AmountOut.ToDecimal().Div(in)
}

// IsFresh reports whether the quote's timestamp is within thresholdMs of now.
func (q *Quote) IsFresh(nowMs, thresholdMs int64) bool {
	return nowMs-q.TimestampMs <= thresholdMs
}

// PairKey returns the canonical pair key of the quoted pool.
func (q *Quote) PairKey() string {
	return q.Pool.PairKey()
}

// DexID returns the quoting DEX's identifier.
func (q *Quote) DexID() string {
	return q.Pool.DexID
}

// Fee returns the pool's fee tier.
func (q *Quote) Fee() int64 {
	return q.Pool.Fee
}
