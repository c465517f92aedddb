package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Chain: ChainConfig{
			ChainID:      42161,
			RPCEndpoints: []string{"https://arb1.example.org/rpc"},
		},
		Dexes: []DexConfig{
			{
				ID:             "uniswap_v3",
				AdapterType:    "univ3",
				QuoterAddress:  "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
				FeeTiers:       []int64{500, 3000},
				Enabled:        true,
				AnchorPriority: 1,
			},
			{
				ID:            "camelot_v3",
				AdapterType:   "algebra",
				QuoterAddress: "0x0Fc73040b26E9bC8514fA028D998E73A254Fa76E",
				Enabled:       true,
			},
		},
		Scan: ScanConfig{
			Pairs:      []string{"WETH/USDC"},
			TradeSizes: []string{"0.1", "0.5", "1.0"},
		},
		Gates: GateConfig{
			MaxPriceDeviationBps: 1000,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "no endpoints",
			mutate:  func(c *Config) { c.Chain.RPCEndpoints = nil },
			wantSub: "rpc_endpoints",
		},
		{
			name:    "bad adapter type",
			mutate:  func(c *Config) { c.Dexes[0].AdapterType = "v2" },
			wantSub: "adapter_type",
		},
		{
			name:    "bad quoter address",
			mutate:  func(c *Config) { c.Dexes[1].QuoterAddress = "not-an-address" },
			wantSub: "quoter_address",
		},
		{
			name:    "univ3 without fee tiers",
			mutate:  func(c *Config) { c.Dexes[0].FeeTiers = nil },
			wantSub: "fee_tiers",
		},
		{
			name: "no anchor dex",
			mutate: func(c *Config) {
				c.Dexes[0].AnchorPriority = 0
			},
			wantSub: "anchor_priority",
		},
		{
			name:    "non-decimal trade size",
			mutate:  func(c *Config) { c.Scan.TradeSizes = []string{"0.1", "abc"} },
			wantSub: "not a decimal",
		},
		{
			name:    "non-increasing trade sizes",
			mutate:  func(c *Config) { c.Scan.TradeSizes = []string{"1.0", "0.5"} },
			wantSub: "strictly increasing",
		},
		{
			name:    "deviation bps over cap",
			mutate:  func(c *Config) { c.Gates.MaxPriceDeviationBps = 20000 },
			wantSub: "max_price_deviation_bps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	// No config file: defaults apply, but required fields fail validation.
	_, err := Load("")
	if err == nil {
		t.Skip("environment supplies endpoints")
	}
	if !strings.Contains(err.Error(), "rpc_endpoints") {
		t.Errorf("expected rpc_endpoints error, got: %v", err)
	}
}
