package domain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/0xmachado/dexscan/internal/asset"
)

func testPool(t *testing.T) *Pool {
	t.Helper()
	p, err := NewPool(asset.ChainIDArbitrum, common.Address{}, "uniswap_v3", DexTypeUniV3, asset.WETH, asset.USDC, 3000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func wethUSDCQuote(t *testing.T, amountInWei, amountOutUSDC string) *Quote {
	t.Helper()
	in, ok := new(big.Int).SetString(amountInWei, 10)
	if !ok {
		t.Fatalf("bad amount in: %s", amountInWei)
	}
	out, ok := new(big.Int).SetString(amountOutUSDC, 10)
	if !ok {
		t.Fatalf("bad amount out: %s", amountOutUSDC)
	}
	return NewQuote(testPool(t), asset.WETH, asset.USDC,
		asset.NewAmount(asset.WETH, in), asset.NewAmount(asset.USDC, out),
		1000, 150000, 2, nil, 40)
}

func TestPool_TokenOrdering(t *testing.T) {
	// WETH 0x82aF... > USDC 0xaf88...? Compare lowercased hex.
	p, err := NewPool(asset.ChainIDArbitrum, common.Address{}, "uniswap_v3", DexTypeUniV3, asset.USDC, asset.WETH, 3000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := testPool(t)

	if p.Token0 != q.Token0 || p.Token1 != q.Token1 {
		t.Error("token ordering should not depend on constructor argument order")
	}
	if !addrLess(p.Token0.Address(), p.Token1.Address()) {
		t.Errorf("token0 %s not below token1 %s", p.Token0.Address().Hex(), p.Token1.Address().Hex())
	}
}

func TestPool_PairKey(t *testing.T) {
	p := testPool(t)
	if p.PairKey() != "USDC/WETH" {
		t.Errorf("expected USDC/WETH, got %s", p.PairKey())
	}
	if PairKey("WETH", "ARB") != "ARB/WETH" {
		t.Errorf("expected ARB/WETH, got %s", PairKey("WETH", "ARB"))
	}
}

func TestPool_IdenticalTokensRejected(t *testing.T) {
	_, err := NewPool(asset.ChainIDArbitrum, common.Address{}, "uniswap_v3", DexTypeUniV3, asset.WETH, asset.WETH, 3000)
	if err == nil {
		t.Error("expected error for identical tokens")
	}
}

func TestQuote_EffectivePrice(t *testing.T) {
	tests := []struct {
		name      string
		amountIn  string // WETH wei
		amountOut string // USDC units (6 decimals)
		want      string
	}{
		{"one weth", "1000000000000000000", "2600000000", "2600"},
		{"half weth", "500000000000000000", "1300000000", "2600"},
		{"with slippage", "1000000000000000000", "2587000000", "2587"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := wethUSDCQuote(t, tt.amountIn, tt.amountOut)
			want := decimal.RequireFromString(tt.want)
			if !q.EffectivePrice().Equal(want) {
				t.Errorf("expected %s, got %s", want, q.EffectivePrice())
			}
		})
	}
}

func TestQuote_EffectivePriceZeroInput(t *testing.T) {
	q := wethUSDCQuote(t, "0", "2600000000")
	if !q.EffectivePrice().IsZero() {
		t.Errorf("expected zero price, got %s", q.EffectivePrice())
	}
}

func TestQuote_IsFresh(t *testing.T) {
	q := wethUSDCQuote(t, "1000000000000000000", "2600000000")

	if !q.IsFresh(q.TimestampMs+2999, 3000) {
		t.Error("quote within threshold should be fresh")
	}
	if q.IsFresh(q.TimestampMs+3001, 3000) {
		t.Error("quote past threshold should be stale")
	}
}

func TestNormalize_NeverInverts(t *testing.T) {
	// The bad-mapping incident shape: WETH->USDC quoting ~8.6 instead of ~2600.
	q := wethUSDCQuote(t, "1000000000000000000", "8600000")

	n := Normalize(q)
	if !n.Suspect {
		t.Error("implausibly low price should be suspect")
	}
	if n.SuspectReason != "way_below_expected" {
		t.Errorf("unexpected reason: %s", n.SuspectReason)
	}
	if n.InversionApplied {
		t.Error("inversion must never be applied")
	}
	if !n.Price.Equal(decimal.RequireFromString("8.6")) {
		t.Errorf("price must be reported as observed, got %s", n.Price)
	}
}

func TestNormalize_PlausiblePrice(t *testing.T) {
	q := wethUSDCQuote(t, "1000000000000000000", "2600000000")

	n := Normalize(q)
	if n.Suspect {
		t.Errorf("plausible price flagged suspect: %s", n.SuspectReason)
	}
	if n.InversionApplied {
		t.Error("inversion must never be applied")
	}
}

func TestNormalize_ZeroPrice(t *testing.T) {
	q := wethUSDCQuote(t, "1000000000000000000", "0")

	n := Normalize(q)
	if !n.Suspect || n.SuspectReason != "zero_price" {
		t.Errorf("zero output should flag zero_price, got %+v", n)
	}
}

func TestNormalize_UnknownPairNoFloor(t *testing.T) {
	p, err := NewPool(asset.ChainIDArbitrum, common.Address{}, "uniswap_v3", DexTypeUniV3, asset.ARB, asset.LINK, 3000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := NewQuote(p, asset.ARB, asset.LINK,
		asset.NewAmount(asset.ARB, big.NewInt(1e18)),
		asset.NewAmount(asset.LINK, big.NewInt(1e15)), // 0.001 LINK per ARB
		1000, 150000, 1, nil, 10)

	n := Normalize(q)
	if n.Suspect {
		t.Error("pairs without a floor entry should never be flagged")
	}
}
