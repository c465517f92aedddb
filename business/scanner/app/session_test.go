package app

import (
	"io"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	pricingDomain "github.com/0xmachado/dexscan/business/pricing/domain"
	"github.com/0xmachado/dexscan/business/scanner/domain"
	"github.com/0xmachado/dexscan/internal/asset"
	"github.com/0xmachado/dexscan/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.ParseLevel("error"), "test", nil)
}

func testSpread(t *testing.T, dexA, dexB, outA, outB string, verified bool) *domain.SpreadCandidate {
	t.Helper()
	mkQuote := func(dexID, out string) *pricingDomain.Quote {
		pool, err := pricingDomain.NewPool(asset.ChainIDArbitrum, common.Address{}, dexID, pricingDomain.DexTypeUniV3, asset.WETH, asset.USDC, 500)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		in, err := asset.ParseString(asset.WETH, "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		amountOut, err := asset.ParseString(asset.USDC, out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return pricingDomain.NewQuote(pool, asset.WETH, asset.USDC, in, amountOut, 1000, 100000, 2, nil, 40)
	}

	s, err := domain.ComputeSpread(mkQuote(dexA, outA), mkQuote(dexB, outB), "1",
		big.NewInt(20_000_000), func(string) bool { return verified })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestPaperSession_CooldownSeconds(t *testing.T) {
	session := NewPaperSession(300, 0)
	spread := testSpread(t, "uniswap_v3", "camelot", "2600", "2650", true)

	first := session.Evaluate(spread, 1_000_000, 100)
	if first.Outcome != domain.OutcomeWouldExecute {
		t.Fatalf("first occurrence outcome = %s", first.Outcome)
	}

	// 299s later: still suppressed.
	again := session.Evaluate(spread, 1_000_000+299_000, 130)
	if again.Outcome != domain.OutcomeCooldown {
		t.Errorf("inside window outcome = %s, want COOLDOWN", again.Outcome)
	}

	// Past the window: records normally again.
	later := session.Evaluate(spread, 1_000_000+301_000, 160)
	if later.Outcome != domain.OutcomeWouldExecute {
		t.Errorf("outside window outcome = %s, want WOULD_EXECUTE", later.Outcome)
	}
}

func TestPaperSession_CooldownWindowNotRefreshed(t *testing.T) {
	session := NewPaperSession(300, 0)
	spread := testSpread(t, "uniswap_v3", "camelot", "2600", "2650", true)

	session.Evaluate(spread, 0, 100)
	// Suppressed hits anchor at the first occurrence; a hit at 299s must
	// not extend the window past 300s.
	session.Evaluate(spread, 299_000, 130)

	got := session.Evaluate(spread, 301_000, 160)
	if got.Outcome == domain.OutcomeCooldown {
		t.Error("suppressed hit refreshed the cooldown window")
	}
}

func TestPaperSession_CooldownBlocksTakesPrecedence(t *testing.T) {
	session := NewPaperSession(1, 25)
	spread := testSpread(t, "uniswap_v3", "camelot", "2600", "2650", true)

	session.Evaluate(spread, 0, 100)

	// Hours later in wall time but only 10 blocks on: still suppressed.
	got := session.Evaluate(spread, 7_200_000, 110)
	if got.Outcome != domain.OutcomeCooldown {
		t.Errorf("block cooldown ignored, outcome = %s", got.Outcome)
	}

	got = session.Evaluate(spread, 7_300_000, 125)
	if got.Outcome == domain.OutcomeCooldown {
		t.Error("still suppressed past the block window")
	}
}

func TestPaperSession_CooldownKeyedBySpreadID(t *testing.T) {
	session := NewPaperSession(300, 0)
	a := testSpread(t, "uniswap_v3", "camelot", "2600", "2650", true)
	b := testSpread(t, "uniswap_v3", "sushiswap_v3", "2600", "2650", true)

	session.Evaluate(a, 0, 100)
	got := session.Evaluate(b, 1000, 100)
	if got.Outcome == domain.OutcomeCooldown {
		t.Error("cooldown leaked across distinct spread ids")
	}
}

func TestPaperSession_PnlAccumulation(t *testing.T) {
	session := NewPaperSession(0, 0)

	executed := testSpread(t, "uniswap_v3", "camelot", "2600", "2650", true)
	rejected := testSpread(t, "uniswap_v3", "sushiswap_v3", "2600", "2600", true)
	blocked := testSpread(t, "camelot", "sushiswap_v3", "2600", "2650", false)

	session.BeginCycle()
	session.Evaluate(executed, 0, 100)
	session.Evaluate(rejected, 0, 100)
	session.Evaluate(blocked, 0, 100)

	if session.CyclePnl().IsZero() {
		t.Error("WOULD_EXECUTE trade must accrue cycle PnL")
	}
	if !session.CyclePnl().Equal(session.CumulativePnl()) {
		t.Errorf("cycle %s != cumulative %s after one cycle", session.CyclePnl(), session.CumulativePnl())
	}
	if !session.CyclePnl().Equal(executed.NetPnlQuote) {
		t.Errorf("rejected/blocked trades leaked into PnL: %s", session.CyclePnl())
	}

	session.BeginCycle()
	if !session.CyclePnl().IsZero() {
		t.Error("cycle PnL must reset across cycles")
	}
	if session.CumulativePnl().IsZero() {
		t.Error("cumulative PnL must persist across cycles")
	}
	if !session.NormalizedPnl().Equal(session.CumulativePnl()) {
		t.Errorf("normalized = %s with one trade, want %s", session.NormalizedPnl(), session.CumulativePnl())
	}
}

func TestPaperSession_ExecutionDisabledBlockerAlwaysPresent(t *testing.T) {
	session := NewPaperSession(0, 0)

	for _, spread := range []*domain.SpreadCandidate{
		testSpread(t, "uniswap_v3", "camelot", "2600", "2650", true),
		testSpread(t, "uniswap_v3", "camelot", "2600", "2600", true),
		testSpread(t, "uniswap_v3", "camelot", "2600", "2650", false),
	} {
		trade := session.Evaluate(spread, 0, 100)
		found := false
		for _, b := range trade.Blockers {
			if b == execDisabledBlocker {
				found = true
			}
		}
		if !found {
			t.Errorf("trade %s missing %s blocker: %+v", trade.Outcome, execDisabledBlocker, trade.Blockers)
		}
	}
}
