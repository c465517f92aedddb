package domain

import (
	"math/big"
	"testing"

	pricing "github.com/0xmachado/dexscan/business/pricing/domain"
)

func testSpread(t *testing.T, outUSDC string, verified bool) *SpreadCandidate {
	t.Helper()
	a := scanQuote(t, "uniswap_v3", pricing.DexTypeUniV3, 500, "1", "2600", 1000, 100000, 2)
	b := scanQuote(t, "camelot", pricing.DexTypeAlgebra, 500, "1", outUSDC, 1000, 100000, 0)
	s, err := ComputeSpread(a, b, "1", big.NewInt(20_000_000), func(string) bool { return verified })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestClassifyOutcome(t *testing.T) {
	tests := []struct {
		name     string
		outUSDC  string
		verified bool
		want     Outcome
	}{
		{"profitable and verified", "2650", true, OutcomeWouldExecute},
		{"profitable but unverified", "2650", false, OutcomeBlocked},
		{"unprofitable", "2600", true, OutcomeRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyOutcome(testSpread(t, tt.outUSDC, tt.verified)); got != tt.want {
				t.Errorf("outcome = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewPaperTrade(t *testing.T) {
	s := testSpread(t, "2650", false)
	pt := NewPaperTrade(s, OutcomeBlocked, []string{"EXECUTION_DISABLED"})

	if pt.OpportunityID != "opp_"+s.ID {
		t.Errorf("opportunity id = %s, want opp_%s", pt.OpportunityID, s.ID)
	}
	if pt.AmountIn != "1" {
		t.Errorf("amount_in = %s, want decimal string 1", pt.AmountIn)
	}
	if pt.NetPnl == "" || pt.NetPnl[0] == '+' {
		t.Errorf("net pnl must be a plain decimal string, got %q", pt.NetPnl)
	}
	if pt.Outcome != OutcomeBlocked || len(pt.Blockers) != 1 {
		t.Errorf("unexpected trade record: %+v", pt)
	}
}
