package domain

import (
	"github.com/shopspring/decimal"
)

// NormalizedPrice is the orientation-checked price of one quote.
// InversionApplied is always false: a suspicious price is flagged, never
// silently flipped. Auto-inversion once masked a pool-mapping bug that had
// one DEX reporting ~8.6 USDC/WETH instead of ~2600.
type NormalizedPrice struct {
	Price            decimal.Decimal
	Suspect          bool
	SuspectReason    string
	InversionApplied bool
}

// minExpectedPrice holds order-of-magnitude floors per (token_in, token_out)
// symbol pair. Diagnostic signal only; not a gate.
var minExpectedPrice = map[[2]string]decimal.Decimal{
	{"WETH", "USDC"}: decimal.NewFromInt(100),
	{"WETH", "USDT"}: decimal.NewFromInt(100),
	{"WBTC", "USDC"}: decimal.NewFromInt(1000),
	{"WBTC", "USDT"}: decimal.NewFromInt(1000),
	{"WETH", "ARB"}:  decimal.NewFromInt(100),
	{"WETH", "LINK"}: decimal.NewFromInt(10),
}

// Normalize computes the quote's effective price as quote-per-base with
// base = token_in, and flags prices below the pair's expected floor.
func Normalize(q *Quote) NormalizedPrice {
	price := q.EffectivePrice()

	n := NormalizedPrice{Price: price}

	if price.IsZero() {
		n.Suspect = true
		n.SuspectReason = "zero_price"
		return n
	}

	key := [2]string{q.TokenIn.Symbol(), q.TokenOut.Symbol()}
	if floor, ok := minExpectedPrice[key]; ok && price.LessThan(floor) {
		n.Suspect = true
		n.SuspectReason = "way_below_expected"
	}

	return n
}
