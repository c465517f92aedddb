package domain

import (
	"github.com/shopspring/decimal"

	pricing "github.com/0xmachado/dexscan/business/pricing/domain"
	"github.com/0xmachado/dexscan/internal/apperror"
)

// GateResult is one structured gate failure. Gates are results, not errors:
// a quote can accumulate several of them and each is histogrammed separately.
type GateResult struct {
	Code    apperror.Code
	Message string
	Details map[string]any
}

// GateConfig holds the single-quote and curve gate thresholds.
type GateConfig struct {
	MaxGasEstimate       uint64
	MaxTicksCrossed      int
	MaxPriceDeviationBps int64
	MaxSlippageBps       int64
	FreshnessThresholdMs int64
}

// ApplySingleQuoteGates runs every single-quote gate against one quote and
// returns all failures. The anchor price may be zero when no anchor exists
// for the quote's grid key yet; the price-sanity check then passes trivially.
func ApplySingleQuoteGates(q *pricing.Quote, pinnedBlock uint64, anchorPrice decimal.Decimal, nowMs int64, cfg GateConfig) []GateResult {
	var failures []GateResult

	// Gas ceiling
	if q.GasEstimate > cfg.MaxGasEstimate {
		failures = append(failures, GateResult{
			Code:    apperror.CodeGasTooHigh,
			Message: "gas estimate above ceiling",
			Details: map[string]any{
				"dex":          q.DexID(),
				"fee":          q.Fee(),
				"gas_estimate": q.GasEstimate,
				"max":          cfg.MaxGasEstimate,
			},
		})
	}

	// Tick-crossing ceiling, V3-style pools only
	if q.Pool.HasTicks() && q.TicksCrossed > cfg.MaxTicksCrossed {
		failures = append(failures, GateResult{
			Code:    apperror.CodeTooManyTicks,
			Message: "too many initialized ticks crossed",
			Details: map[string]any{
				"dex":           q.DexID(),
				"fee":           q.Fee(),
				"ticks_crossed": q.TicksCrossed,
				"max":           cfg.MaxTicksCrossed,
			},
		})
	}

	// Block staleness: strict equality with the pinned height. A quote from
	// any other block cannot join a cross-DEX comparison.
	if q.BlockNumber != pinnedBlock {
		failures = append(failures, GateResult{
			Code:    apperror.CodeStaleBlock,
			Message: "quote block does not match pinned block",
			Details: map[string]any{
				"dex":          q.DexID(),
				"fee":          q.Fee(),
				"quote_block":  q.BlockNumber,
				"pinned_block": pinnedBlock,
			},
		})
	}

	// Wall-clock freshness. Independent of block staleness: a quote on the
	// pinned block can still be too old to trust after a slow fetch.
	if cfg.FreshnessThresholdMs > 0 && !q.IsFresh(nowMs, cfg.FreshnessThresholdMs) {
		failures = append(failures, GateResult{
			Code:    apperror.CodeStaleQuote,
			Message: "quote timestamp older than freshness threshold",
			Details: map[string]any{
				"dex":          q.DexID(),
				"fee":          q.Fee(),
				"quote_ts_ms":  q.TimestampMs,
				"now_ms":       nowMs,
				"threshold_ms": cfg.FreshnessThresholdMs,
			},
		})
	}

	// Price sanity against the anchor, using the capped deviation.
	if dev, ok := CalculateDeviationBps(q.EffectivePrice(), anchorPrice); ok {
		if dev.Bps > cfg.MaxPriceDeviationBps {
			failures = append(failures, GateResult{
				Code:    apperror.CodePriceSanity,
				Message: "price deviates too far from anchor",
				Details: map[string]any{
					"dex":               q.DexID(),
					"fee":               q.Fee(),
					"price":             q.EffectivePrice().String(),
					"anchor":            anchorPrice.String(),
					"deviation_bps":     dev.Bps,
					"deviation_bps_raw": dev.RawBps,
					"was_capped":        dev.WasCapped,
				},
			})
		}
	}

	return failures
}
