package infra

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xmachado/dexscan/business/scanner/domain"
	"github.com/0xmachado/dexscan/internal/logger"
)

func testWriter(t *testing.T) (*FileArtifactWriter, string) {
	t.Helper()
	dir := t.TempDir()
	w, err := NewFileArtifactWriter(dir, logger.New(io.Discard, logger.ParseLevel("info"), "test", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return w, dir
}

func TestFileArtifactWriter_AllFourArtifacts(t *testing.T) {
	w, dir := testWriter(t)

	snap := &domain.Snapshot{SchemaVersion: domain.SchemaVersion, TimestampMs: 1700000000000}
	hist := &domain.HistogramArtifact{SchemaVersion: domain.SchemaVersion, TimestampMs: 1700000000000}
	report := &domain.TruthReport{SchemaVersion: domain.SchemaVersion, TimestampMs: 1700000000000}

	if err := w.WriteSnapshot(snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.WriteHistogram(hist); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.WriteTruthReport(report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.AppendPaperTrades(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, path := range []string{
		filepath.Join(dir, "snapshots", "scan_1700000000000.json"),
		filepath.Join(dir, "reports", "reject_histogram_1700000000000.json"),
		filepath.Join(dir, "reports", "truth_report_1700000000000.json"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing artifact: %v", err)
		}
	}
}

func TestFileArtifactWriter_SchemaVersionSerialized(t *testing.T) {
	w, dir := testWriter(t)

	report := &domain.TruthReport{SchemaVersion: domain.SchemaVersion, TimestampMs: 42}
	if err := w.WriteTruthReport(report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "reports", "truth_report_42.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded["schema_version"] != domain.SchemaVersion {
		t.Errorf("schema_version = %v, want %s", decoded["schema_version"], domain.SchemaVersion)
	}
}

func TestFileArtifactWriter_PaperTradesAppendOnly(t *testing.T) {
	w, dir := testWriter(t)

	first := []domain.PaperTrade{{SpreadID: "a", Outcome: domain.OutcomeWouldExecute}}
	second := []domain.PaperTrade{{SpreadID: "b", Outcome: domain.OutcomeRejected}}

	if err := w.AppendPaperTrades(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.AppendPaperTrades(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "paper_trades.jsonl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var trade domain.PaperTrade
		if err := json.Unmarshal(scanner.Bytes(), &trade); err != nil {
			t.Fatalf("bad jsonl line: %v", err)
		}
		ids = append(ids, trade.SpreadID)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("trades on disk = %v, want [a b]", ids)
	}
}

func TestOpenScanLog_AppendsAcrossRuns(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")

	for _, line := range []string{"first run\n", "second run\n"} {
		f, err := OpenScanLog(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.WriteString(line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "scan.log"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "first run\nsecond run\n" {
		t.Errorf("scan.log = %q, want both runs appended", string(data))
	}
}
