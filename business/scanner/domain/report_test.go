package domain

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	pricing "github.com/0xmachado/dexscan/business/pricing/domain"
)

func testOpportunity(t *testing.T, pair string, outUSDC string, verified bool) Opportunity {
	t.Helper()
	a := scanQuote(t, "uniswap_v3", pricing.DexTypeUniV3, 500, "1", "2600", 1000, 100000, 2)
	b := scanQuote(t, "camelot", pricing.DexTypeAlgebra, 500, "1", outUSDC, 1000, 100000, 0)

	s, err := ComputeSpread(a, b, "1", big.NewInt(20_000_000), func(string) bool { return verified })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same WETH/USDC legs for every entry; the pair label just has to
	// differ so spread ids stay distinct.
	s.ID = SpreadID(pair, s.BuyLeg.DexID(), s.SellLeg.DexID(), s.Fee, s.BuyLeg.AmountIn.Raw())
	s.Pair = pair
	return NewOpportunity(s, verified, verified, false, nil)
}

func TestRankOpportunities_Deterministic(t *testing.T) {
	opps := []Opportunity{
		testOpportunity(t, "USDC/WETH", "2650", true),
		testOpportunity(t, "ARB/WETH", "2605", true),
		testOpportunity(t, "LINK/WETH", "2580", false),
		testOpportunity(t, "USDC/WBTC", "2605", false),
		testOpportunity(t, "DAI/WETH", "2650", false),
	}

	first := append([]Opportunity(nil), opps...)
	RankOpportunities(first)

	for trial := 0; trial < 5; trial++ {
		shuffled := append([]Opportunity(nil), opps...)
		rand.New(rand.NewSource(int64(trial))).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		RankOpportunities(shuffled)

		for i := range first {
			if shuffled[i].SpreadID != first[i].SpreadID {
				t.Fatalf("trial %d: rank order diverged at %d: %s != %s",
					trial, i, shuffled[i].SpreadID, first[i].SpreadID)
			}
		}
	}
}

func TestRankOpportunities_ProfitableFirst(t *testing.T) {
	opps := []Opportunity{
		testOpportunity(t, "LINK/WETH", "2601", true), // tiny but profitable
		testOpportunity(t, "USDC/WETH", "2650", true), // big profit
	}
	RankOpportunities(opps)

	if opps[0].Pair != "USDC/WETH" {
		t.Errorf("highest net PnL must rank first, got %s", opps[0].Pair)
	}

	seenUnprofitable := false
	for _, o := range opps {
		if !o.Profitable {
			seenUnprofitable = true
		} else if seenUnprofitable {
			t.Fatal("profitable entry ranked below an unprofitable one")
		}
	}
}

func TestTopOpportunities_CapAtTen(t *testing.T) {
	var opps []Opportunity
	for i := 0; i < 14; i++ {
		opps = append(opps, testOpportunity(t, fmt.Sprintf("P%02d/WETH", i), "2650", true))
	}

	top := TopOpportunities(opps)
	if len(top) != 10 {
		t.Errorf("top = %d entries, want 10", len(top))
	}
}

func TestTopOpportunities_UnprofitableFallback(t *testing.T) {
	// Equal prices on both legs: zero spread, not profitable.
	var opps []Opportunity
	for i := 0; i < 8; i++ {
		opps = append(opps, testOpportunity(t, fmt.Sprintf("P%02d/WETH", i), "2600", true))
	}

	top := TopOpportunities(opps)
	if len(top) != 5 {
		t.Errorf("fallback = %d entries, want 5", len(top))
	}
	for _, o := range top {
		if o.Profitable {
			t.Errorf("fallback entry unexpectedly profitable: %+v", o)
		}
	}
}

func TestTopOpportunities_EmptyInput(t *testing.T) {
	if top := TopOpportunities(nil); len(top) != 0 {
		t.Errorf("expected empty, got %+v", top)
	}
}

func TestNewOpportunity_Confidence(t *testing.T) {
	a := scanQuote(t, "uniswap_v3", pricing.DexTypeUniV3, 500, "1", "2600", 1000, 100000, 2)
	b := scanQuote(t, "camelot", pricing.DexTypeAlgebra, 500, "1", "2650", 1000, 100000, 0)
	s, err := ComputeSpread(a, b, "1", big.NewInt(20_000_000), allVerified)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name                      string
		buyVerified, sellVerified bool
		suspect                   bool
		want                      string
	}{
		{"fully trusted", true, true, false, "1.00"},
		{"one leg unverified", true, false, false, "0.75"},
		{"both unverified", false, false, false, "0.50"},
		{"both unverified suspect", false, false, true, "0.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOpportunity(s, tt.buyVerified, tt.sellVerified, tt.suspect, nil)
			if o.Confidence != tt.want {
				t.Errorf("confidence = %s, want %s", o.Confidence, tt.want)
			}
			if o.OpportunityID != "opp_"+o.SpreadID {
				t.Errorf("opportunity id %s not derived from spread id %s", o.OpportunityID, o.SpreadID)
			}
		})
	}
}
