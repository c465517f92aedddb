// Package infra contains infrastructure adapters for the scanner context.
package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/0xmachado/dexscan/business/scanner/domain"
	"github.com/0xmachado/dexscan/internal/logger"
)

const (
	snapshotsDir    = "snapshots"
	reportsDir      = "reports"
	paperTradesFile = "paper_trades.jsonl"
	scanLogFile     = "scan.log"
)

// OpenScanLog opens the append-only operational log under the artifacts
// directory, creating the directory if needed. The caller owns the handle.
func OpenScanLog(baseDir string) (*os.File, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifacts dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(baseDir, scanLogFile),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", scanLogFile, err)
	}
	return f, nil
}

type artifactMetrics struct {
	writes      metric.Int64Counter
	writeErrors metric.Int64Counter
}

// FileArtifactWriter persists the per-cycle artifacts under a base
// directory: snapshots/scan_<ts>.json, reports/reject_histogram_<ts>.json,
// reports/truth_report_<ts>.json, and an append-only paper_trades.jsonl.
type FileArtifactWriter struct {
	baseDir string
	logger  logger.LoggerInterface
	metrics *artifactMetrics
}

// NewFileArtifactWriter creates the writer and its directory layout.
func NewFileArtifactWriter(baseDir string, log logger.LoggerInterface) (*FileArtifactWriter, error) {
	for _, dir := range []string{snapshotsDir, reportsDir} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating artifact dir %s: %w", dir, err)
		}
	}

	meter := otel.Meter("scanner.artifacts")
	writes, err := meter.Int64Counter("artifact_writes_total",
		metric.WithDescription("Artifacts written, by kind"))
	if err != nil {
		return nil, err
	}
	writeErrors, err := meter.Int64Counter("artifact_write_errors_total",
		metric.WithDescription("Artifact write failures, by kind"))
	if err != nil {
		return nil, err
	}

	return &FileArtifactWriter{
		baseDir: baseDir,
		logger:  log,
		metrics: &artifactMetrics{writes: writes, writeErrors: writeErrors},
	}, nil
}

// WriteSnapshot writes the raw cycle snapshot.
func (w *FileArtifactWriter) WriteSnapshot(snap *domain.Snapshot) error {
	name := filepath.Join(snapshotsDir, fmt.Sprintf("scan_%d.json", snap.TimestampMs))
	return w.writeJSON("snapshot", name, snap)
}

// WriteHistogram writes the reject-histogram artifact.
func (w *FileArtifactWriter) WriteHistogram(hist *domain.HistogramArtifact) error {
	name := filepath.Join(reportsDir, fmt.Sprintf("reject_histogram_%d.json", hist.TimestampMs))
	return w.writeJSON("histogram", name, hist)
}

// WriteTruthReport writes the ranked cycle summary.
func (w *FileArtifactWriter) WriteTruthReport(report *domain.TruthReport) error {
	name := filepath.Join(reportsDir, fmt.Sprintf("truth_report_%d.json", report.TimestampMs))
	return w.writeJSON("truth_report", name, report)
}

// AppendPaperTrades appends one JSON line per trade. An empty slice still
// counts as a successful write so a cycle always ends at four artifacts.
func (w *FileArtifactWriter) AppendPaperTrades(trades []domain.PaperTrade) error {
	path := filepath.Join(w.baseDir, paperTradesFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		w.recordWrite("paper_trades", err)
		return fmt.Errorf("opening %s: %w", paperTradesFile, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, trade := range trades {
		if err := enc.Encode(trade); err != nil {
			w.recordWrite("paper_trades", err)
			return fmt.Errorf("appending paper trade %s: %w", trade.SpreadID, err)
		}
	}

	w.recordWrite("paper_trades", nil)
	return nil
}

func (w *FileArtifactWriter) writeJSON(kind, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		w.recordWrite(kind, err)
		return fmt.Errorf("encoding %s: %w", kind, err)
	}

	path := filepath.Join(w.baseDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		w.recordWrite(kind, err)
		return fmt.Errorf("writing %s: %w", kind, err)
	}

	w.logger.Debug(context.Background(), "artifact written", "kind", kind, "path", path)
	w.recordWrite(kind, nil)
	return nil
}

func (w *FileArtifactWriter) recordWrite(kind string, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	if err != nil {
		w.metrics.writeErrors.Add(ctx, 1, attrs)
		return
	}
	w.metrics.writes.Add(ctx, 1, attrs)
}
