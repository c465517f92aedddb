package domain

import "time"

// Outcome classifies what the paper-trading session decided for a spread.
type Outcome string

const (
	// OutcomeWouldExecute marks a profitable spread with both legs
	// execution-verified. No real transaction is ever sent.
	OutcomeWouldExecute Outcome = "WOULD_EXECUTE"
	// OutcomeRejected marks an unprofitable spread.
	OutcomeRejected Outcome = "REJECTED"
	// OutcomeBlocked marks a profitable spread with at least one leg not
	// execution-verified.
	OutcomeBlocked Outcome = "BLOCKED"
	// OutcomeCooldown marks a spread suppressed because its id was
	// recorded recently.
	OutcomeCooldown Outcome = "COOLDOWN"
)

// PaperTrade is the append-only record of one simulated trade decision.
// All monetary amounts are decimal strings in the quote token.
type PaperTrade struct {
	SpreadID      string   `json:"spread_id"`
	OpportunityID string   `json:"opportunity_id"`
	Outcome       Outcome  `json:"outcome"`
	Pair          string   `json:"pair"`
	BuyDex        string   `json:"buy_dex"`
	SellDex       string   `json:"sell_dex"`
	Fee           int64    `json:"fee"`
	Size          string   `json:"size"`
	AmountIn      string   `json:"amount_in"`
	SpreadBps     int64    `json:"spread_bps"`
	GasCostBps    int64    `json:"gas_cost_bps"`
	NetPnlBps     int64    `json:"net_pnl_bps"`
	NetPnl        string   `json:"net_pnl"`
	Block         uint64   `json:"block"`
	Blockers      []string `json:"blockers,omitempty"`
	TimestampMs   int64    `json:"timestamp_ms"`
}

// NewPaperTrade records the decision for a computed spread. The outcome
// must already reflect cooldown suppression when applicable.
func NewPaperTrade(s *SpreadCandidate, outcome Outcome, blockers []string) PaperTrade {
	return PaperTrade{
		SpreadID:      s.ID,
		OpportunityID: "opp_" + s.ID,
		Outcome:       outcome,
		Pair:          s.Pair,
		BuyDex:        s.BuyLeg.DexID(),
		SellDex:       s.SellLeg.DexID(),
		Fee:           s.Fee,
		Size:          s.Size,
		AmountIn:      s.BuyLeg.AmountIn.ToDecimal().String(),
		SpreadBps:     s.SpreadBps,
		GasCostBps:    s.GasCostBps,
		NetPnlBps:     s.NetPnlBps,
		NetPnl:        s.NetPnlQuote.StringFixed(6),
		Block:         s.BuyLeg.BlockNumber,
		Blockers:      blockers,
		TimestampMs:   time.Now().UnixMilli(),
	}
}

// ClassifyOutcome applies the fixed decision order: unprofitable spreads
// are rejected before executability is considered.
func ClassifyOutcome(s *SpreadCandidate) Outcome {
	if !s.Profitable {
		return OutcomeRejected
	}
	if !s.Executable {
		return OutcomeBlocked
	}
	return OutcomeWouldExecute
}
