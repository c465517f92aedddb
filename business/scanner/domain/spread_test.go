package domain

import (
	"math/big"
	"testing"

	pricing "github.com/0xmachado/dexscan/business/pricing/domain"
)

func allVerified(string) bool  { return true }
func noneVerified(string) bool { return false }

// Two WETH->USDC quotes at 2600 and 2605, 100k gas each, 0.02 gwei gas
// price. Cheap L2 gas rounds to zero bps, leaving the full 19 bps spread.
func TestComputeSpread_Scenario(t *testing.T) {
	a := scanQuote(t, "uniswap_v3", pricing.DexTypeUniV3, 500, "1", "2600", 1000, 100000, 2)
	b := scanQuote(t, "camelot", pricing.DexTypeAlgebra, 500, "1", "2605", 1000, 100000, 0)
	gasPrice := big.NewInt(20_000_000) // 0.02 gwei

	s, err := ComputeSpread(a, b, "1", gasPrice, noneVerified)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.BuyLeg.DexID() != "uniswap_v3" || s.SellLeg.DexID() != "camelot" {
		t.Errorf("buy must be the cheaper leg: buy=%s sell=%s", s.BuyLeg.DexID(), s.SellLeg.DexID())
	}
	if s.SpreadBps != 19 {
		t.Errorf("spread_bps = %d, want 19", s.SpreadBps)
	}
	if s.GasCostBps != 0 {
		t.Errorf("gas_cost_bps = %d, want 0", s.GasCostBps)
	}
	if s.NetPnlBps != 19 {
		t.Errorf("net_pnl_bps = %d, want 19", s.NetPnlBps)
	}
	if !s.Profitable {
		t.Error("19 bps net must be profitable")
	}
	if s.Executable {
		t.Error("unverified legs must not be executable")
	}
}

func TestComputeSpread_ExecutableRequiresProfit(t *testing.T) {
	// Identical prices: spread 0, and a positive gas cost drives net
	// PnL negative. Verified legs must not make this executable.
	a := scanQuote(t, "uniswap_v3", pricing.DexTypeUniV3, 3000, "1", "2600", 1000, 200000, 2)
	b := scanQuote(t, "camelot", pricing.DexTypeAlgebra, 3000, "1", "2600", 1000, 200000, 0)
	gasPrice := big.NewInt(1_000_000_000) // 1 gwei

	s, err := ComputeSpread(a, b, "1", gasPrice, allVerified)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.NetPnlBps > 0 {
		t.Fatalf("net_pnl_bps = %d, expected non-positive", s.NetPnlBps)
	}
	if s.Profitable || s.Executable {
		t.Errorf("losing spread marked profitable=%v executable=%v", s.Profitable, s.Executable)
	}
}

func TestComputeSpread_ExecutableWhenVerifiedAndProfitable(t *testing.T) {
	a := scanQuote(t, "uniswap_v3", pricing.DexTypeUniV3, 500, "1", "2600", 1000, 100000, 2)
	b := scanQuote(t, "camelot", pricing.DexTypeAlgebra, 500, "1", "2650", 1000, 100000, 0)

	s, err := ComputeSpread(a, b, "1", big.NewInt(20_000_000), allVerified)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Profitable || !s.Executable {
		t.Errorf("expected profitable and executable, got %+v", s)
	}
}

func TestComputeSpread_SameDexRejected(t *testing.T) {
	a := scanQuote(t, "uniswap_v3", pricing.DexTypeUniV3, 500, "1", "2600", 1000, 100000, 2)
	b := scanQuote(t, "uniswap_v3", pricing.DexTypeUniV3, 500, "1", "2605", 1000, 100000, 2)

	if _, err := ComputeSpread(a, b, "1", big.NewInt(1), allVerified); err == nil {
		t.Error("expected error for same-dex legs")
	}
}

func TestSpreadID_UniqueAcrossPairs(t *testing.T) {
	size := big.NewInt(1_000_000_000_000_000_000)
	a := SpreadID("ARB/WETH", "uniswap_v3", "camelot", 3000, size)
	b := SpreadID("LINK/WETH", "uniswap_v3", "camelot", 3000, size)
	if a == b {
		t.Errorf("spread ids collide across pairs: %s", a)
	}
}

func TestGasCostBps_FloorArithmetic(t *testing.T) {
	oneWETH := new(big.Int)
	oneWETH.SetString("1000000000000000000", 10)

	tests := []struct {
		name            string
		gasBuy, gasSell uint64
		gasPriceWei     int64
		want            int64
	}{
		// 200k gas at 1 gwei on 1e18 wei: 2e14 * 1e4 / 1e18 = 2.
		{"one gwei", 100000, 100000, 1_000_000_000, 2},
		// 0.02 gwei: 4e12 * 1e4 / 1e18 = 0.04, floors to 0.
		{"cheap l2 gas", 100000, 100000, 20_000_000, 0},
		// 2.6 raw floors to 2, never rounds up.
		{"floors down", 130000, 130000, 1_000_000_000, 2},
		{"zero gas price", 100000, 100000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gasCostBps(tt.gasBuy, tt.gasSell, big.NewInt(tt.gasPriceWei), oneWETH)
			if got != tt.want {
				t.Errorf("gasCostBps = %d, want %d", got, tt.want)
			}
		})
	}
}
