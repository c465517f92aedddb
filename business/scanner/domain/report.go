package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SchemaVersion identifies the truth-report layout. Frozen: any field
// addition, removal or rename requires a bump here, never a silent drift.
const SchemaVersion = "1.0.0"

const (
	topOpportunitiesCap     = 10
	unprofitableFallbackCap = 5
)

// Opportunity is one ranked entry of the truth report, derived from a
// SpreadCandidate plus session context (blockers, confidence).
type Opportunity struct {
	OpportunityID string   `json:"opportunity_id"`
	SpreadID      string   `json:"spread_id"`
	Pair          string   `json:"pair"`
	BuyDex        string   `json:"buy_dex"`
	SellDex       string   `json:"sell_dex"`
	Fee           int64    `json:"fee"`
	Size          string   `json:"size"`
	SpreadBps     int64    `json:"spread_bps"`
	GasCostBps    int64    `json:"gas_cost_bps"`
	NetPnlBps     int64    `json:"net_pnl_bps"`
	NetPnlUSDC    string   `json:"net_pnl_usdc"`
	Confidence    string   `json:"confidence"`
	Profitable    bool     `json:"profitable"`
	Executable    bool     `json:"executable"`
	Blockers      []string `json:"blockers"`

	netPnlUSDC decimal.Decimal
	confidence decimal.Decimal
}

// NewOpportunity builds a report entry from a computed spread. suspect is
// true when either leg's normalized price carried a suspect flag.
func NewOpportunity(s *SpreadCandidate, buyVerified, sellVerified, suspect bool, blockers []string) Opportunity {
	conf := computeConfidence(buyVerified, sellVerified, suspect)
	return Opportunity{
		OpportunityID: "opp_" + s.ID,
		SpreadID:      s.ID,
		Pair:          s.Pair,
		BuyDex:        s.BuyLeg.DexID(),
		SellDex:       s.SellLeg.DexID(),
		Fee:           s.Fee,
		Size:          s.Size,
		SpreadBps:     s.SpreadBps,
		GasCostBps:    s.GasCostBps,
		NetPnlBps:     s.NetPnlBps,
		NetPnlUSDC:    s.NetPnlQuote.StringFixed(6),
		Confidence:    conf.StringFixed(2),
		Profitable:    s.Profitable,
		Executable:    s.Executable,
		Blockers:      blockers,
		netPnlUSDC:    s.NetPnlQuote,
		confidence:    conf,
	}
}

// computeConfidence scores an opportunity on [0, 1]: a quarter point off
// per leg without execution verification, and another for a suspect price.
func computeConfidence(buyVerified, sellVerified, suspect bool) decimal.Decimal {
	conf := decimal.NewFromInt(1)
	penalty := decimal.RequireFromString("0.25")
	if !buyVerified {
		conf = conf.Sub(penalty)
	}
	if !sellVerified {
		conf = conf.Sub(penalty)
	}
	if suspect {
		conf = conf.Sub(penalty)
	}
	if conf.IsNegative() {
		conf = decimal.Zero
	}
	return conf
}

// RankOpportunities sorts in place by the fixed multi-key order:
// profitable first, then net PnL in the numeraire, then net PnL in bps,
// then confidence, all descending, with spread_id ascending as the final
// tiebreaker. The result is identical for any input permutation.
func RankOpportunities(opps []Opportunity) {
	sort.Slice(opps, func(i, j int) bool {
		a, b := opps[i], opps[j]
		if a.Profitable != b.Profitable {
			return a.Profitable
		}
		if !a.netPnlUSDC.Equal(b.netPnlUSDC) {
			return a.netPnlUSDC.GreaterThan(b.netPnlUSDC)
		}
		if a.NetPnlBps != b.NetPnlBps {
			return a.NetPnlBps > b.NetPnlBps
		}
		if !a.confidence.Equal(b.confidence) {
			return a.confidence.GreaterThan(b.confidence)
		}
		return a.SpreadID < b.SpreadID
	})
}

// TopOpportunities ranks and caps the entries for the report. When nothing
// is profitable but spreads exist, up to five unprofitable entries are
// surfaced so the report is never silently empty.
func TopOpportunities(opps []Opportunity) []Opportunity {
	ranked := append([]Opportunity(nil), opps...)
	RankOpportunities(ranked)

	anyProfitable := false
	for _, o := range ranked {
		if o.Profitable {
			anyProfitable = true
			break
		}
	}

	limit := topOpportunitiesCap
	if !anyProfitable {
		limit = unprofitableFallbackCap
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Health is the operational section of the truth report.
type Health struct {
	BlockPinned       bool             `json:"block_pinned"`
	PinnedBlock       uint64           `json:"pinned_block"`
	BlockLatencyMs    int64            `json:"block_latency_ms"`
	GasPriceGwei      string           `json:"gas_price_gwei"`
	RPCEndpoint       string           `json:"rpc_endpoint"`
	GateBreakdown     map[string]int64 `json:"gate_breakdown"`
	HistogramRebuilt  bool             `json:"histogram_rebuilt"`
	ExecutionReady    int              `json:"execution_ready"`
	ExecutionDisabled bool             `json:"execution_disabled"`
}

// Stats is the volume section of the truth report. The attempted counter
// is defined as fetched plus fetch-failed; gate failures are not fetch
// failures.
type Stats struct {
	PoolsScanned       int   `json:"pools_scanned"`
	QuotesAttempted    int   `json:"quotes_attempted"`
	QuotesFetched      int   `json:"quotes_fetched"`
	QuotesFetchFailed  int   `json:"quotes_fetch_failed"`
	QuotesPassedGates  int   `json:"quotes_passed_gates"`
	SpreadsComputed    int   `json:"spreads_computed"`
	OpportunitiesFound int   `json:"opportunities_found"`
	UniqueRejected     int   `json:"unique_rejected"`
	HistogramTotal     int64 `json:"histogram_total"`
	CycleDurationMs    int64 `json:"cycle_duration_ms"`
}

// TruthReport is the cycle's externally visible summary. Built fresh each
// cycle; immutable once serialized.
type TruthReport struct {
	SchemaVersion    string        `json:"schema_version"`
	Mode             string        `json:"mode"`
	RunMode          string        `json:"run_mode"`
	TimestampMs      int64         `json:"timestamp_ms"`
	Block            uint64        `json:"block"`
	Health           Health        `json:"health"`
	TopOpportunities []Opportunity `json:"top_opportunities"`
	Stats            Stats         `json:"stats"`
	CumulativePnl    string        `json:"cumulative_pnl"`
	Pnl              string        `json:"pnl"`
	PnlNormalized    string        `json:"pnl_normalized"`
}
