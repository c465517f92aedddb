package asset_test

import (
	"math/big"
	"testing"

	"github.com/0xmachado/dexscan/internal/asset"
	"github.com/shopspring/decimal"
)

func TestAmount_Basic(t *testing.T) {
	// 1 WETH = 1e18 wei
	oneWETH := asset.NewAmount(asset.WETH, big.NewInt(1e18))

	if oneWETH.IsZero() {
		t.Error("expected non-zero amount")
	}

	d := oneWETH.ToDecimal()
	if !d.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", d.String())
	}

	if oneWETH.String() != "1 WETH" {
		t.Errorf("expected '1 WETH', got '%s'", oneWETH.String())
	}
}

func TestAmount_Add(t *testing.T) {
	one := asset.NewAmount(asset.WETH, big.NewInt(1e18))
	two := asset.NewAmount(asset.WETH, big.NewInt(2e18))

	sum, err := one.Add(two)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sum.ToDecimal().Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected 3, got %s", sum.ToDecimal().String())
	}
}

func TestAmount_CannotAddDifferentAssets(t *testing.T) {
	oneWETH := asset.NewAmount(asset.WETH, big.NewInt(1e18))
	oneUSDC := asset.NewAmount(asset.USDC, big.NewInt(1e6))

	_, err := oneWETH.Add(oneUSDC)
	if err == nil {
		t.Error("expected error when adding different assets")
	}
}

func TestAmount_SubNegativeError(t *testing.T) {
	one := asset.NewAmount(asset.WETH, big.NewInt(1e18))
	two := asset.NewAmount(asset.WETH, big.NewInt(2e18))

	_, err := one.Sub(two)
	if err == nil {
		t.Error("expected error for negative result")
	}
}

func TestParseString(t *testing.T) {
	amount, err := asset.ParseString(asset.WETH, "1.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := new(big.Int)
	expected.SetString("1500000000000000000", 10)

	if amount.Raw().Cmp(expected) != 0 {
		t.Errorf("expected %s, got %s", expected.String(), amount.Raw().String())
	}
}

func TestParseDecimal_TooManyDecimals(t *testing.T) {
	// USDC has 6 decimals, 1.1234567 has 7
	d := decimal.RequireFromString("1.1234567")
	_, err := asset.ParseDecimal(asset.USDC, d)
	if err == nil {
		t.Error("expected error for too many decimals")
	}
}

func TestAssetID_Identity(t *testing.T) {
	a := asset.NewTokenAssetID(asset.ChainIDArbitrum, asset.AddrWETHArbitrum)
	b := asset.NewTokenAssetID(asset.ChainIDArbitrum, asset.AddrWETHArbitrum)

	if !a.Equals(b) {
		t.Error("same asset should have equal IDs")
	}

	// Same address on a different chain is a different asset.
	c := asset.NewTokenAssetID(asset.ChainIDEthereum, asset.AddrWETHArbitrum)
	if a.Equals(c) {
		t.Error("different chains should have different IDs")
	}
}

func TestRegistry(t *testing.T) {
	r := asset.DefaultRegistry()

	weth, ok := r.GetBySymbolAndChain("WETH", asset.ChainIDArbitrum)
	if !ok {
		t.Fatal("WETH not found in registry")
	}
	if !weth.IsCore() {
		t.Error("WETH should be a core token")
	}

	usdc, ok := r.GetToken(asset.ChainIDArbitrum, asset.AddrUSDCArbitrum)
	if !ok {
		t.Fatal("USDC not found in registry")
	}
	if usdc.Decimals() != 6 {
		t.Errorf("expected 6 decimals, got %d", usdc.Decimals())
	}
	if !usdc.IsActive() {
		t.Error("USDC should be active by default")
	}
}
