package app

import (
	"github.com/shopspring/decimal"

	"github.com/0xmachado/dexscan/business/scanner/domain"
	"github.com/0xmachado/dexscan/internal/apperror"
)

// execDisabledBlocker is attached to every opportunity: this build never
// sends transactions, so execution_ready must always report zero.
const execDisabledBlocker = string(apperror.CodeExecutionDisabled)

type cooldownEntry struct {
	recordedAtMs int64
	block        uint64
}

// PaperSession owns the state that survives across scan cycles: the
// per-spread-id cooldown map and the cumulative simulated PnL. It is owned
// by the single in-flight cycle; no locking.
type PaperSession struct {
	cooldownSeconds int64
	cooldownBlocks  uint64

	seen map[string]cooldownEntry

	cumulativePnl decimal.Decimal
	cyclePnl      decimal.Decimal
	wouldExecute  int64
}

// NewPaperSession creates a session. When cooldownBlocks is nonzero the
// cooldown window is measured in blocks, otherwise in seconds.
func NewPaperSession(cooldownSeconds, cooldownBlocks int) *PaperSession {
	return &PaperSession{
		cooldownSeconds: int64(cooldownSeconds),
		cooldownBlocks:  uint64(cooldownBlocks),
		seen:            make(map[string]cooldownEntry),
		cumulativePnl:   decimal.Zero,
		cyclePnl:        decimal.Zero,
	}
}

// BeginCycle resets the per-cycle accumulators. The cooldown map and
// cumulative PnL persist.
func (s *PaperSession) BeginCycle() {
	s.cyclePnl = decimal.Zero
}

// Evaluate records the decision for one computed spread. A spread id seen
// within its cooldown window is suppressed: recorded with the COOLDOWN
// outcome and without touching PnL, and the window is anchored at the first
// occurrence, not refreshed.
func (s *PaperSession) Evaluate(spread *domain.SpreadCandidate, nowMs int64, block uint64) domain.PaperTrade {
	if entry, ok := s.seen[spread.ID]; ok && s.inCooldown(entry, nowMs, block) {
		return domain.NewPaperTrade(spread, domain.OutcomeCooldown, s.blockers(spread))
	}

	outcome := domain.ClassifyOutcome(spread)
	s.seen[spread.ID] = cooldownEntry{recordedAtMs: nowMs, block: block}

	if outcome == domain.OutcomeWouldExecute {
		s.cyclePnl = s.cyclePnl.Add(spread.NetPnlQuote)
		s.cumulativePnl = s.cumulativePnl.Add(spread.NetPnlQuote)
		s.wouldExecute++
	}

	return domain.NewPaperTrade(spread, outcome, s.blockers(spread))
}

func (s *PaperSession) inCooldown(entry cooldownEntry, nowMs int64, block uint64) bool {
	if s.cooldownBlocks > 0 {
		return block < entry.block+s.cooldownBlocks
	}
	return nowMs < entry.recordedAtMs+s.cooldownSeconds*1000
}

// blockers lists why an opportunity cannot be acted on. Execution is
// permanently disabled in this build; unverified legs add a second blocker.
func (s *PaperSession) blockers(spread *domain.SpreadCandidate) []string {
	blockers := []string{execDisabledBlocker}
	if spread.Profitable && !spread.Executable {
		blockers = append(blockers, "DEX_NOT_EXECUTION_VERIFIED")
	}
	return blockers
}

// CyclePnl is the simulated PnL of WOULD_EXECUTE trades this cycle.
func (s *PaperSession) CyclePnl() decimal.Decimal { return s.cyclePnl }

// CumulativePnl is the simulated PnL over the session's lifetime.
func (s *PaperSession) CumulativePnl() decimal.Decimal { return s.cumulativePnl }

// NormalizedPnl is the cumulative PnL per WOULD_EXECUTE trade, zero when
// none were recorded.
func (s *PaperSession) NormalizedPnl() decimal.Decimal {
	if s.wouldExecute == 0 {
		return decimal.Zero
	}
	return s.cumulativePnl.Div(decimal.NewFromInt(s.wouldExecute))
}
