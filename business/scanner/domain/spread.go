package domain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	pricing "github.com/0xmachado/dexscan/business/pricing/domain"
	"github.com/0xmachado/dexscan/internal/apperror"
	"github.com/0xmachado/dexscan/internal/money"
)

// SpreadCandidate is a cross-DEX price discrepancy for one grid key,
// derived from exactly two admitted quotes. Immutable once computed.
type SpreadCandidate struct {
	ID   string
	Pair string
	Fee  int64
	Size string

	BuyLeg  *pricing.Quote // lower price: cheaper to acquire the base token
	SellLeg *pricing.Quote // higher price

	SpreadBps  int64
	GasCostBps int64
	NetPnlBps  int64
	// NetPnlQuote is the net profit in the quote token for this trade size.
	NetPnlQuote decimal.Decimal

	Profitable bool
	Executable bool
}

// SpreadID derives the identity key used for cooldown and dedup. The pair
// component is mandatory: dex pair, fee and size alone once conflated
// distinct pairs under a single id.
func SpreadID(pair, buyDex, sellDex string, fee int64, amountIn *big.Int) string {
	return fmt.Sprintf("%s|%s|%s|%d|%s", pair, buyDex, sellDex, fee, amountIn.String())
}

// ComputeSpread evaluates one unordered DEX pair holding admitted quotes for
// the same grid key. execVerified reports per DEX whether real execution is
// verified; executable additionally requires profitability.
func ComputeSpread(a, b *pricing.Quote, size string, gasPriceWei *big.Int, execVerified func(dexID string) bool) (*SpreadCandidate, error) {
	if a.DexID() == b.DexID() {
		return nil, apperror.New(apperror.CodeScannerBug,
			apperror.WithContext("spread legs from the same dex "+a.DexID()))
	}

	priceA, priceB := a.EffectivePrice(), b.EffectivePrice()
	if priceA.IsZero() || priceB.IsZero() {
		return nil, apperror.New(apperror.CodeScannerBug,
			apperror.WithContext("zero price reached spread computation"))
	}

	buy, sell := a, b
	buyPrice, sellPrice := priceA, priceB
	if priceB.LessThan(priceA) {
		buy, sell = b, a
		buyPrice, sellPrice = priceB, priceA
	}

	spreadBps := money.RoundBps(
		sellPrice.Sub(buyPrice).Div(buyPrice).Mul(decimal.NewFromInt(10000)))

	gasCostBps := gasCostBps(buy.GasEstimate, sell.GasEstimate, gasPriceWei, buy.AmountIn.Raw())
	netPnlBps := spreadBps - gasCostBps

	// Net profit in the quote token: notional at the buy price, scaled by
	// the net basis points.
	notionalQuote := buy.AmountIn.ToDecimal().Mul(buyPrice)
	netPnlQuote := notionalQuote.Mul(decimal.NewFromInt(netPnlBps)).Div(decimal.NewFromInt(10000))

	profitable := netPnlBps > 0
	// Profitability and execution verification are independent necessary
	// conditions; executable never holds for a losing spread.
	executable := profitable && execVerified(buy.DexID()) && execVerified(sell.DexID())

	return &SpreadCandidate{
		ID:          SpreadID(a.PairKey(), buy.DexID(), sell.DexID(), a.Fee(), buy.AmountIn.Raw()),
		Pair:        a.PairKey(),
		Fee:         a.Fee(),
		Size:        size,
		BuyLeg:      buy,
		SellLeg:     sell,
		SpreadBps:   spreadBps,
		GasCostBps:  gasCostBps,
		NetPnlBps:   netPnlBps,
		NetPnlQuote: netPnlQuote,
		Profitable:  profitable,
		Executable:  executable,
	}, nil
}

// gasCostBps computes floor((gasBuy + gasSell) * gasPriceWei * 10000 /
// amountInWei) in exact integer arithmetic.
func gasCostBps(gasBuy, gasSell uint64, gasPriceWei, amountInWei *big.Int) int64 {
	if gasPriceWei == nil || gasPriceWei.Sign() == 0 || amountInWei.Sign() == 0 {
		return 0
	}

	total := new(big.Int).SetUint64(gasBuy + gasSell)
	total.Mul(total, gasPriceWei)
	total.Mul(total, big.NewInt(10000))
	total.Div(total, amountInWei)
	return total.Int64()
}
