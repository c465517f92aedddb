package app

import (
	"time"

	blockchain "github.com/0xmachado/dexscan/business/blockchain/domain"
	"github.com/0xmachado/dexscan/business/scanner/domain"
)

// CycleResult carries everything one scan cycle observed, before any
// artifact shaping. A degraded cycle (failed block pin, zero quotes) is
// still a valid result.
type CycleResult struct {
	StartedAt   time.Time
	Pinned      *blockchain.PinnedBlock
	GasPrice    *blockchain.GasPrice
	Stats       domain.Stats
	Histogram   *domain.Histogram
	Quotes      []domain.QuoteRecord
	Spreads     []domain.Opportunity
	PaperTrades []domain.PaperTrade
}

func (r *CycleResult) block() uint64 {
	if r.Pinned == nil {
		return 0
	}
	return r.Pinned.Number
}

// BuildTruthReport assembles the schema-versioned cycle summary. mode and
// runMode come from configuration ("paper", "once"/"continuous").
func BuildTruthReport(r *CycleResult, session *PaperSession, mode, runMode string) *domain.TruthReport {
	counts, rebuilt := r.Histogram.Reconcile()

	health := domain.Health{
		BlockPinned:       r.Pinned != nil,
		GateBreakdown:     domain.GateBreakdown(counts),
		HistogramRebuilt:  rebuilt,
		ExecutionReady:    0,
		ExecutionDisabled: true,
	}
	if r.Pinned != nil {
		health.PinnedBlock = r.Pinned.Number
		health.BlockLatencyMs = r.Pinned.LatencyMs
		health.RPCEndpoint = r.Pinned.Endpoint
	}
	if r.GasPrice != nil {
		health.GasPriceGwei = r.GasPrice.GweiDecimal().StringFixed(4)
	}

	return &domain.TruthReport{
		SchemaVersion:    domain.SchemaVersion,
		Mode:             mode,
		RunMode:          runMode,
		TimestampMs:      r.StartedAt.UnixMilli(),
		Block:            r.block(),
		Health:           health,
		TopOpportunities: domain.TopOpportunities(r.Spreads),
		Stats:            r.Stats,
		CumulativePnl:    session.CumulativePnl().StringFixed(6),
		Pnl:              session.CyclePnl().StringFixed(6),
		PnlNormalized:    session.NormalizedPnl().StringFixed(6),
	}
}

// BuildSnapshot assembles the raw cycle artifact.
func BuildSnapshot(r *CycleResult) *domain.Snapshot {
	rpc := domain.RPCStats{}
	if r.Pinned != nil {
		rpc.PinnedBlock = r.Pinned.Number
		rpc.BlockLatencyMs = r.Pinned.LatencyMs
		rpc.Endpoint = r.Pinned.Endpoint
	}
	if r.GasPrice != nil {
		rpc.GasPriceWei = r.GasPrice.Wei.String()
	}

	return &domain.Snapshot{
		SchemaVersion: domain.SchemaVersion,
		TimestampMs:   r.StartedAt.UnixMilli(),
		Block:         r.block(),
		Stats:         r.Stats,
		RPC:           rpc,
		Quotes:        r.Quotes,
		Spreads:       r.Spreads,
		PaperTrades:   r.PaperTrades,
	}
}

// BuildHistogramArtifact assembles the reject-histogram artifact, using the
// reconciled counts.
func BuildHistogramArtifact(r *CycleResult) *domain.HistogramArtifact {
	counts, rebuilt := r.Histogram.Reconcile()

	countsOut := make(map[string]int64, len(counts))
	for code, n := range counts {
		countsOut[string(code)] = n
	}
	samplesOut := make(map[string][]domain.RejectSample)
	for code, list := range r.Histogram.Samples() {
		samplesOut[string(code)] = list
	}

	return &domain.HistogramArtifact{
		SchemaVersion:  domain.SchemaVersion,
		TimestampMs:    r.StartedAt.UnixMilli(),
		Block:          r.block(),
		Counts:         countsOut,
		Samples:        samplesOut,
		GateBreakdown:  domain.GateBreakdown(counts),
		UniqueRejected: r.Histogram.UniqueRejected(),
		TotalFailures:  r.Histogram.TotalFailures(),
		Rebuilt:        rebuilt,
	}
}
