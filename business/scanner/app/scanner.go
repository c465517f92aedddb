package app

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	blockchainApp "github.com/0xmachado/dexscan/business/blockchain/app"
	blockchainDomain "github.com/0xmachado/dexscan/business/blockchain/domain"
	pricingApp "github.com/0xmachado/dexscan/business/pricing/app"
	pricingDomain "github.com/0xmachado/dexscan/business/pricing/domain"
	"github.com/0xmachado/dexscan/business/scanner/domain"
	"github.com/0xmachado/dexscan/internal/apperror"
	"github.com/0xmachado/dexscan/internal/asset"
	"github.com/0xmachado/dexscan/internal/logger"
)

// ScannerConfig holds the scan-loop configuration.
type ScannerConfig struct {
	Pairs         []string
	TradeSizes    []decimal.Decimal // strictly increasing
	Interval      time.Duration
	HeadTriggered bool
	RunOnce       bool
	Gates         domain.GateConfig
}

// Scanner runs the scan cycle: pin a block, fetch the quote grid, gate,
// compute spreads, record paper trades, and emit the four artifacts. One
// cycle at a time; all aggregation state is cycle-local except the paper
// session.
type Scanner struct {
	blockchain *blockchainApp.BlockchainService
	pricing    *pricingApp.PricingService
	session    *PaperSession
	writer     ArtifactWriter
	reporter   Reporter
	config     ScannerConfig
	logger     logger.LoggerInterface
}

// NewScanner creates a new Scanner.
func NewScanner(
	blockchain *blockchainApp.BlockchainService,
	pricing *pricingApp.PricingService,
	session *PaperSession,
	writer ArtifactWriter,
	reporter Reporter,
	config ScannerConfig,
	logger logger.LoggerInterface,
) *Scanner {
	return &Scanner{
		blockchain: blockchain,
		pricing:    pricing,
		session:    session,
		writer:     writer,
		reporter:   reporter,
		config:     config,
		logger:     logger,
	}
}

// Start runs the scan loop until ctx is cancelled. With RunOnce set, a
// single cycle is executed and the method returns.
func (s *Scanner) Start(ctx context.Context) error {
	if err := s.reporter.Start(ctx); err != nil {
		return err
	}
	defer s.reporter.Stop()

	if s.config.RunOnce {
		_, err := s.RunCycle(ctx)
		return err
	}

	if s.config.HeadTriggered {
		return s.runOnHeads(ctx)
	}
	return s.runOnInterval(ctx)
}

func (s *Scanner) runOnInterval(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunCycle(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "scanner stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Scanner) runOnHeads(ctx context.Context) error {
	heads, err := s.blockchain.SubscribeHeads(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "scanner stopping", "reason", ctx.Err())
			return nil
		case head := <-heads:
			if head == nil {
				continue
			}
			if _, err := s.RunCycle(ctx); err != nil {
				return err
			}
		}
	}
}

// admittedQuote is a single-quote-gate survivor awaiting spread evaluation.
type admittedQuote struct {
	quote    *pricingDomain.Quote
	provider pricingApp.QuoteProvider
	suspect  bool
}

// RunCycle executes one scan cycle. Per-quote failures become histogram
// entries; the only cycle-fatal condition is a failed block pin, and even
// then all four artifacts are written before returning. The returned error
// reports unrecoverable scanner bugs only (bad config grid), never market
// or RPC conditions.
func (s *Scanner) RunCycle(ctx context.Context) (*domain.TruthReport, error) {
	result := &CycleResult{
		StartedAt: time.Now(),
		Histogram: domain.NewHistogram(),
	}
	s.session.BeginCycle()

	pinned, err := s.blockchain.PinBlock(ctx)
	if err != nil {
		// No quote in this cycle can be trusted without a pinned
		// height; document the failure and emit artifacts anyway.
		s.logger.Error(ctx, "block pin failed, aborting cycle", "error", err)
		s.recordFailure(result, "", domain.RejectSample{
			Code:    errorCode(err, apperror.CodeBlockPinFailed),
			Message: err.Error(),
		})
		return s.finishCycle(ctx, result)
	}
	result.Pinned = pinned

	gasPrice, err := s.blockchain.GetGasPrice(ctx)
	if err != nil {
		// Degraded but not fatal: spreads are computed with zero gas
		// cost and the failure is documented.
		s.logger.Warn(ctx, "gas price unavailable, assuming zero gas cost", "error", err)
		s.recordFailure(result, "", domain.RejectSample{
			Code:    errorCode(err, apperror.CodeGasPriceFailed),
			Message: err.Error(),
			Block:   pinned.Number,
		})
	}
	result.GasPrice = gasPrice

	pools, err := s.pricing.PoolCandidates(s.config.Pairs)
	if err != nil {
		return nil, fmt.Errorf("building pool grid: %w", err)
	}
	result.Stats.PoolsScanned = len(pools)

	admitted := s.fetchAndGate(ctx, pools, pinned, result)
	spreads := s.computeSpreads(admitted, gasPrice, result)
	s.recordTrades(spreads, pinned, result)

	return s.finishCycle(ctx, result)
}

// fetchAndGate walks the pool grid in anchor order, fetches quotes at the
// pinned height, and applies single-quote and curve gates. Returns the
// survivors grouped by grid key.
func (s *Scanner) fetchAndGate(ctx context.Context, pools []*pricingDomain.Pool, pinned *blockchainDomain.PinnedBlock, result *CycleResult) map[domain.GridKey][]admittedQuote {
	ordered := s.anchorOrder(pools)
	anchors := domain.NewAnchorBook()
	admitted := make(map[domain.GridKey][]admittedQuote)

	for _, pool := range ordered {
		provider, ok := s.pricing.ProviderFor(pool.DexID)
		if !ok {
			continue
		}
		base, quoteTok, err := s.resolveLegs(pool)
		if err != nil {
			s.logger.Error(ctx, "pool grid references unknown tokens", "pool", pool.String(), "error", err)
			continue
		}

		// Quotes of one pool at increasing sizes, for the curve gates.
		var curve []*pricingDomain.Quote

		for _, size := range s.config.TradeSizes {
			quoteKey := fmt.Sprintf("%s|%s|%d|%s", pool.DexID, pool.PairKey(), pool.Fee, size.String())
			result.Stats.QuotesAttempted++

			amountIn, err := asset.ParseDecimal(base, size)
			if err != nil {
				result.Stats.QuotesFetchFailed++
				s.recordFailure(result, quoteKey, domain.RejectSample{
					Code:    apperror.CodeScannerBug,
					DexID:   pool.DexID,
					Pair:    pool.PairKey(),
					Fee:     pool.Fee,
					Size:    size.String(),
					Block:   pinned.Number,
					Message: err.Error(),
				})
				result.Quotes = append(result.Quotes, failedQuoteRecord(pool, size, apperror.CodeScannerBug))
				continue
			}

			q, err := provider.Quote(ctx, pool, base, quoteTok, amountIn, pinned.Number)
			if err != nil {
				result.Stats.QuotesFetchFailed++
				code := errorCode(err, apperror.CodeRPCError)
				s.recordFailure(result, quoteKey, domain.RejectSample{
					Code:    code,
					DexID:   pool.DexID,
					Pair:    pool.PairKey(),
					Fee:     pool.Fee,
					Size:    size.String(),
					Block:   pinned.Number,
					Message: err.Error(),
					Details: errorDetails(err),
				})
				result.Quotes = append(result.Quotes, failedQuoteRecord(pool, size, code))
				continue
			}
			result.Stats.QuotesFetched++

			norm := pricingDomain.Normalize(q)
			key := domain.NewGridKey(q, size)

			var anchorPrice decimal.Decimal
			if info, ok := anchors.Get(key); ok {
				anchorPrice = info.Price
			}

			failures := domain.ApplySingleQuoteGates(q, pinned.Number, anchorPrice, time.Now().UnixMilli(), s.config.Gates)
			for _, f := range failures {
				s.recordFailure(result, quoteKey, domain.RejectSample{
					Code:    f.Code,
					DexID:   pool.DexID,
					Pair:    pool.PairKey(),
					Fee:     pool.Fee,
					Size:    size.String(),
					Block:   pinned.Number,
					Message: f.Message,
					Details: f.Details,
				})
			}

			passed := len(failures) == 0
			result.Quotes = append(result.Quotes, quoteRecord(q, size, norm, passed, failures))

			if !passed {
				continue
			}
			result.Stats.QuotesPassedGates++

			if provider.AnchorPriority() > 0 {
				anchors.Set(key, pool.DexID, norm.Price)
			}
			admitted[key] = append(admitted[key], admittedQuote{quote: q, provider: provider, suspect: norm.Suspect})
			curve = append(curve, q)
		}

		// Curve gates flag the pool in the histogram but never retract
		// quotes already admitted above.
		for _, f := range domain.ApplyCurveGates(curve, s.config.Gates.MaxSlippageBps) {
			s.recordFailure(result, fmt.Sprintf("%s|%s|%d|curve", pool.DexID, pool.PairKey(), pool.Fee), domain.RejectSample{
				Code:    f.Code,
				DexID:   pool.DexID,
				Pair:    pool.PairKey(),
				Fee:     pool.Fee,
				Block:   pinned.Number,
				Message: f.Message,
				Details: f.Details,
			})
		}
	}

	return admitted
}

// computeSpreads evaluates every unordered DEX pair once per grid key with
// at least two admitted quotes.
func (s *Scanner) computeSpreads(admitted map[domain.GridKey][]admittedQuote, gasPrice *blockchainDomain.GasPrice, result *CycleResult) []*domain.SpreadCandidate {
	keys := make([]domain.GridKey, 0, len(admitted))
	for key := range admitted {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Pair != b.Pair {
			return a.Pair < b.Pair
		}
		if a.Fee != b.Fee {
			return a.Fee < b.Fee
		}
		return a.Size < b.Size
	})

	verified := func(dexID string) bool {
		p, ok := s.pricing.ProviderFor(dexID)
		return ok && p.ExecutionVerified()
	}

	var spreads []*domain.SpreadCandidate
	for _, key := range keys {
		group := admitted[key]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				sc, err := domain.ComputeSpread(a.quote, b.quote, key.Size, gasWei(gasPrice), verified)
				if err != nil {
					s.recordFailure(result, "", domain.RejectSample{
						Code:    errorCode(err, apperror.CodeScannerBug),
						Pair:    key.Pair,
						Fee:     key.Fee,
						Size:    key.Size,
						Message: err.Error(),
					})
					continue
				}
				spreads = append(spreads, sc)

				suspect := a.suspect || b.suspect
				buyVerified := verified(sc.BuyLeg.DexID())
				sellVerified := verified(sc.SellLeg.DexID())
				blockers := s.session.blockers(sc)
				result.Spreads = append(result.Spreads,
					domain.NewOpportunity(sc, buyVerified, sellVerified, suspect, blockers))
			}
		}
	}
	result.Stats.SpreadsComputed = len(spreads)
	return spreads
}

func (s *Scanner) recordTrades(spreads []*domain.SpreadCandidate, pinned *blockchainDomain.PinnedBlock, result *CycleResult) {
	nowMs := time.Now().UnixMilli()
	for _, sc := range spreads {
		trade := s.session.Evaluate(sc, nowMs, pinned.Number)
		result.PaperTrades = append(result.PaperTrades, trade)
		if trade.Outcome == domain.OutcomeWouldExecute || trade.Outcome == domain.OutcomeBlocked {
			result.Stats.OpportunitiesFound++
		}
	}
}

// finishCycle reconciles the histogram, builds all four artifacts, writes
// them, and reports. Artifact write failures are logged, never fatal.
func (s *Scanner) finishCycle(ctx context.Context, result *CycleResult) (*domain.TruthReport, error) {
	result.Stats.UniqueRejected = result.Histogram.UniqueRejected()
	result.Stats.HistogramTotal = result.Histogram.TotalFailures()
	result.Stats.CycleDurationMs = time.Since(result.StartedAt).Milliseconds()

	if _, rebuilt := result.Histogram.Reconcile(); rebuilt {
		s.logger.Warn(ctx, "histogram under-reported rejections, rebuilt from samples",
			"unique_rejected", result.Histogram.UniqueRejected(),
			"histogram_total", result.Histogram.TotalFailures())
	}

	report := BuildTruthReport(result, s.session, "paper", s.runMode())

	if err := s.writer.WriteSnapshot(BuildSnapshot(result)); err != nil {
		s.logger.Error(ctx, "writing snapshot artifact", "error", err)
	}
	if err := s.writer.WriteHistogram(BuildHistogramArtifact(result)); err != nil {
		s.logger.Error(ctx, "writing histogram artifact", "error", err)
	}
	if err := s.writer.WriteTruthReport(report); err != nil {
		s.logger.Error(ctx, "writing truth report artifact", "error", err)
	}
	if err := s.writer.AppendPaperTrades(result.PaperTrades); err != nil {
		s.logger.Error(ctx, "appending paper trades", "error", err)
	}

	s.reporter.Report(report)

	s.logger.Info(ctx, "scan cycle complete",
		"block", result.block(),
		"quotes_fetched", result.Stats.QuotesFetched,
		"quotes_passed", result.Stats.QuotesPassedGates,
		"spreads", result.Stats.SpreadsComputed,
		"opportunities", result.Stats.OpportunitiesFound,
		"duration_ms", result.Stats.CycleDurationMs)

	return report, nil
}

// anchorOrder sorts the pool grid so the anchor DEX for each pair/fee/size
// is always quoted first: priority ascending with 0 (never anchor) last,
// then dex id for determinism.
func (s *Scanner) anchorOrder(pools []*pricingDomain.Pool) []*pricingDomain.Pool {
	rank := func(dexID string) int {
		p, ok := s.pricing.ProviderFor(dexID)
		if !ok || p.AnchorPriority() == 0 {
			return int(^uint(0) >> 1)
		}
		return p.AnchorPriority()
	}

	ordered := append([]*pricingDomain.Pool(nil), pools...)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := rank(ordered[i].DexID), rank(ordered[j].DexID)
		if ri != rj {
			return ri < rj
		}
		return ordered[i].DexID < ordered[j].DexID
	})
	return ordered
}

// resolveLegs maps a candidate pool back to its base/quote assets using the
// configured pair intent order.
func (s *Scanner) resolveLegs(pool *pricingDomain.Pool) (base, quote *asset.Asset, err error) {
	for _, intent := range s.config.Pairs {
		b, q, err := s.pricing.ResolvePair(intent)
		if err != nil {
			continue
		}
		if pricingDomain.PairKey(b.Symbol(), q.Symbol()) == pool.PairKey() {
			return b, q, nil
		}
	}
	return nil, nil, fmt.Errorf("no configured pair for pool %s", pool.PairKey())
}

func (s *Scanner) recordFailure(result *CycleResult, quoteKey string, sample domain.RejectSample) {
	result.Histogram.Record(quoteKey, sample)
}

func (s *Scanner) runMode() string {
	if s.config.RunOnce {
		return "once"
	}
	return "continuous"
}

func gasWei(gp *blockchainDomain.GasPrice) *big.Int {
	if gp == nil {
		return nil
	}
	return gp.Wei
}

// errorCode extracts the taxonomy code from an error, falling back when the
// error is untyped.
func errorCode(err error, fallback apperror.Code) apperror.Code {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return fallback
}

func errorDetails(err error) map[string]any {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

func quoteRecord(q *pricingDomain.Quote, size decimal.Decimal, norm pricingDomain.NormalizedPrice, passed bool, failures []domain.GateResult) domain.QuoteRecord {
	rec := domain.QuoteRecord{
		DexID:     q.DexID(),
		Pair:      q.PairKey(),
		Fee:       q.Fee(),
		Size:      size.String(),
		AmountIn:  q.AmountIn.Raw().String(),
		AmountOut: q.AmountOut.Raw().String(),
		Price:     norm.Price.String(),
		Suspect:   norm.Suspect,
		Block:     q.BlockNumber,
		Gas:       q.GasEstimate,
		Ticks:     q.TicksCrossed,
		LatencyMs: q.LatencyMs,
		Fetched:   true,
		Passed:    passed,
	}
	if len(failures) > 0 {
		rec.FailCode = string(failures[0].Code)
	}
	return rec
}

func failedQuoteRecord(pool *pricingDomain.Pool, size decimal.Decimal, code apperror.Code) domain.QuoteRecord {
	return domain.QuoteRecord{
		DexID:    pool.DexID,
		Pair:     pool.PairKey(),
		Fee:      pool.Fee,
		Size:     size.String(),
		Fetched:  false,
		Passed:   false,
		FailCode: string(code),
	}
}
