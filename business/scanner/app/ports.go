// Package app contains application services and port definitions for the scanner context.
package app

import (
	"context"

	"github.com/0xmachado/dexscan/business/scanner/domain"
)

// ArtifactWriter persists the four per-cycle artifacts. Implementations
// must write all four even for a degraded cycle; a cycle that produced no
// quotes still documents why.
type ArtifactWriter interface {
	WriteSnapshot(snap *domain.Snapshot) error
	WriteHistogram(hist *domain.HistogramArtifact) error
	WriteTruthReport(report *domain.TruthReport) error
	AppendPaperTrades(trades []domain.PaperTrade) error
}

// Reporter surfaces the cycle summary to an operator.
type Reporter interface {
	Start(ctx context.Context) error
	Report(report *domain.TruthReport)
	Stop() error
}
