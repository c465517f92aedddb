package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/0xmachado/dexscan/business/scanner/domain"
)

type cycleMetrics struct {
	cycles        metric.Int64Counter
	spreadsFound  metric.Int64Counter
	quotesPassed  metric.Int64Counter
	rejections    metric.Int64Counter
	cycleDuration metric.Float64Histogram
}

func newCycleMetrics() cycleMetrics {
	meter := otel.Meter("scanner.cycle")
	var m cycleMetrics
	m.cycles, _ = meter.Int64Counter("scan_cycles_total",
		metric.WithDescription("Total scan cycles completed"))
	m.spreadsFound, _ = meter.Int64Counter("spreads_found_total",
		metric.WithDescription("Total spread candidates computed"))
	m.quotesPassed, _ = meter.Int64Counter("quotes_passed_gates_total",
		metric.WithDescription("Total quotes admitted by the gate cascade"))
	m.rejections, _ = meter.Int64Counter("gate_rejections_total",
		metric.WithDescription("Total gate failures by bucket"))
	m.cycleDuration, _ = meter.Float64Histogram("scan_cycle_duration_ms",
		metric.WithDescription("Scan cycle duration in milliseconds"))
	return m
}

// ConsoleReporter prints the cycle summary to the terminal and records
// cycle-level metrics.
type ConsoleReporter struct {
	out     io.Writer
	metrics cycleMetrics
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out:     os.Stdout,
		metrics: newCycleMetrics(),
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "DEX Scanner Started")
	fmt.Fprintln(r.out, "===================")
	return nil
}

// Report prints one scan cycle's truth report.
func (r *ConsoleReporter) Report(report *domain.TruthReport) {
	ctx := context.Background()
	r.metrics.cycles.Add(ctx, 1)
	r.metrics.spreadsFound.Add(ctx, int64(report.Stats.SpreadsComputed))
	r.metrics.quotesPassed.Add(ctx, int64(report.Stats.QuotesPassedGates))
	r.metrics.cycleDuration.Record(ctx, float64(report.Stats.CycleDurationMs))
	for bucket, count := range report.Health.GateBreakdown {
		r.metrics.rejections.Add(ctx, count,
			metric.WithAttributes(attribute.String("bucket", bucket)))
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "SCAN CYCLE  block #%d  %s\n",
		report.Block, time.UnixMilli(report.TimestampMs).Format(time.RFC3339))
	fmt.Fprintln(r.out, "================================================================================")

	if !report.Health.BlockPinned {
		fmt.Fprintln(r.out, "  BLOCK PIN FAILED - no quotes this cycle")
	}

	s := report.Stats
	fmt.Fprintf(r.out, "Quotes:         %d attempted, %d fetched, %d passed gates\n",
		s.QuotesAttempted, s.QuotesFetched, s.QuotesPassedGates)
	fmt.Fprintf(r.out, "Spreads:        %d computed, %d opportunities\n",
		s.SpreadsComputed, s.OpportunitiesFound)
	fmt.Fprintf(r.out, "Rejections:     %d quotes, %d gate failures (revert=%d slippage=%d infra=%d other=%d)\n",
		s.UniqueRejected, s.HistogramTotal,
		report.Health.GateBreakdown[domain.BucketRevert],
		report.Health.GateBreakdown[domain.BucketSlippage],
		report.Health.GateBreakdown[domain.BucketInfra],
		report.Health.GateBreakdown[domain.BucketOther])
	fmt.Fprintf(r.out, "PnL:            cycle %s, cumulative %s, normalized %s\n",
		report.Pnl, report.CumulativePnl, report.PnlNormalized)

	if len(report.TopOpportunities) > 0 {
		fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
		fmt.Fprintln(r.out, "TOP OPPORTUNITIES")
		for i, opp := range report.TopOpportunities {
			flag := " "
			if opp.Executable {
				flag = "*"
			}
			fmt.Fprintf(r.out, "  %2d%s %-12s buy %-14s sell %-14s size %-8s net %5d bps  %s\n",
				i+1, flag, opp.Pair, opp.BuyDex, opp.SellDex, opp.Size, opp.NetPnlBps, opp.NetPnlUSDC)
		}
	}
	fmt.Fprintln(r.out, "================================================================================")
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "DEX Scanner Stopped")
	return nil
}
