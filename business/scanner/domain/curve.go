package domain

import (
	pricing "github.com/0xmachado/dexscan/business/pricing/domain"
	"github.com/0xmachado/dexscan/internal/apperror"
)

// ApplyCurveGates checks the ordered quote set of one DEX/pool at strictly
// increasing trade sizes. Failures are histogram signals only; they do not
// retract quotes already admitted by single-quote gates.
//
// quotes must be sorted by ascending amount_in and have already passed the
// single-quote gates. Fewer than two quotes means nothing to check.
func ApplyCurveGates(quotes []*pricing.Quote, maxSlippageBps int64) []GateResult {
	if len(quotes) < 2 {
		return nil
	}

	var failures []GateResult

	// Monotonicity: more in must never produce less out.
	for i := 1; i < len(quotes); i++ {
		prev, cur := quotes[i-1], quotes[i]
		if cur.AmountOut.Raw().Cmp(prev.AmountOut.Raw()) < 0 {
			failures = append(failures, GateResult{
				Code:    apperror.CodeNonMonotonicCurve,
				Message: "amount_out decreased at larger trade size",
				Details: map[string]any{
					"dex":             cur.DexID(),
					"fee":             cur.Fee(),
					"amount_in_prev":  prev.AmountIn.Raw().String(),
					"amount_out_prev": prev.AmountOut.Raw().String(),
					"amount_in":       cur.AmountIn.Raw().String(),
					"amount_out":      cur.AmountOut.Raw().String(),
				},
			})
		}
	}

	// Slippage curve: effective price at the largest size vs the smallest.
	smallest, largest := quotes[0], quotes[len(quotes)-1]
	if dev, ok := CalculateDeviationBps(largest.EffectivePrice(), smallest.EffectivePrice()); ok {
		if dev.Bps > maxSlippageBps {
			failures = append(failures, GateResult{
				Code:    apperror.CodeSlippageExceeded,
				Message: "price drift across trade sizes above slippage ceiling",
				Details: map[string]any{
					"dex":              largest.DexID(),
					"fee":              largest.Fee(),
					"price_smallest":   smallest.EffectivePrice().String(),
					"price_largest":    largest.EffectivePrice().String(),
					"slippage_bps":     dev.Bps,
					"max_slippage_bps": maxSlippageBps,
				},
			})
		}
	}

	return failures
}
