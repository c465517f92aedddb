package app

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	blockchainApp "github.com/0xmachado/dexscan/business/blockchain/app"
	blockchainDomain "github.com/0xmachado/dexscan/business/blockchain/domain"
	pricingApp "github.com/0xmachado/dexscan/business/pricing/app"
	pricingDomain "github.com/0xmachado/dexscan/business/pricing/domain"
	"github.com/0xmachado/dexscan/business/scanner/domain"
	"github.com/0xmachado/dexscan/internal/apperror"
	"github.com/0xmachado/dexscan/internal/asset"
)

type fakeChainClient struct {
	block    uint64
	blockErr error
}

func (c *fakeChainClient) BlockNumber(ctx context.Context) (uint64, int64, string, error) {
	if c.blockErr != nil {
		return 0, 0, "", c.blockErr
	}
	return c.block, 5, "https://arb.example/rpc", nil
}

func (c *fakeChainClient) CallContract(ctx context.Context, to common.Address, data []byte, blockNumber uint64) ([]byte, error) {
	return nil, errors.New("not used")
}

func (c *fakeChainClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(20_000_000), nil
}

func (c *fakeChainClient) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(int64(asset.ChainIDArbitrum)), nil
}

func (c *fakeChainClient) Close() error { return nil }

type fakeHeadSource struct{}

func (h *fakeHeadSource) Subscribe(ctx context.Context) (<-chan *blockchainDomain.Block, error) {
	return make(chan *blockchainDomain.Block), nil
}

func (h *fakeHeadSource) LatestBlock(ctx context.Context) (*blockchainDomain.Block, error) {
	return nil, errors.New("not used")
}

func (h *fakeHeadSource) State() blockchainDomain.ConnectionState {
	return blockchainDomain.StateConnected
}

type fakeGasOracle struct {
	err error
}

func (o *fakeGasOracle) GetGasPrice(ctx context.Context) (*blockchainDomain.GasPrice, error) {
	if o.err != nil {
		return nil, o.err
	}
	return blockchainDomain.NewGasPrice(big.NewInt(20_000_000)), nil
}

// fakeProvider quotes WETH->USDC at a fixed price, or fails every call.
type fakeProvider struct {
	dexID    string
	priority int
	verified bool
	price    string // USDC per WETH
	err      error
	quoted   []uint64  // block numbers passed to Quote, in call order
	calls    *[]string // shared cross-provider call order, optional
}

func (p *fakeProvider) DexID() string                  { return p.dexID }
func (p *fakeProvider) DexType() pricingDomain.DexType { return pricingDomain.DexTypeUniV3 }
func (p *fakeProvider) ExecutionVerified() bool        { return p.verified }
func (p *fakeProvider) AnchorPriority() int            { return p.priority }
func (p *fakeProvider) FeeTiers() []int64              { return []int64{500} }

func (p *fakeProvider) Quote(ctx context.Context, pool *pricingDomain.Pool, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount, blockNumber uint64) (*pricingDomain.Quote, error) {
	p.quoted = append(p.quoted, blockNumber)
	if p.calls != nil {
		*p.calls = append(*p.calls, p.dexID)
	}
	if p.err != nil {
		return nil, p.err
	}

	out := amountIn.ToDecimal().Mul(decimal.RequireFromString(p.price))
	amountOut, err := asset.ParseDecimal(tokenOut, out)
	if err != nil {
		return nil, err
	}
	return pricingDomain.NewQuote(pool, tokenIn, tokenOut, amountIn, amountOut, blockNumber, 100000, 2, nil, 10), nil
}

type fakeWriter struct {
	snapshots  int
	histograms int
	reports    int
	trades     int
	lastReport *domain.TruthReport
}

func (w *fakeWriter) WriteSnapshot(*domain.Snapshot) error { w.snapshots++; return nil }
func (w *fakeWriter) WriteHistogram(*domain.HistogramArtifact) error {
	w.histograms++
	return nil
}
func (w *fakeWriter) WriteTruthReport(r *domain.TruthReport) error {
	w.reports++
	w.lastReport = r
	return nil
}
func (w *fakeWriter) AppendPaperTrades([]domain.PaperTrade) error { w.trades++; return nil }

type fakeReporter struct{}

func (r *fakeReporter) Start(ctx context.Context) error   { return nil }
func (r *fakeReporter) Report(report *domain.TruthReport) {}
func (r *fakeReporter) Stop() error                       { return nil }

func testScanner(t *testing.T, client *fakeChainClient, gasErr error, providers ...pricingApp.QuoteProvider) (*Scanner, *fakeWriter) {
	t.Helper()
	blockchain := blockchainApp.NewBlockchainService(client, &fakeHeadSource{}, &fakeGasOracle{err: gasErr})
	pricing := pricingApp.NewPricingService(providers, asset.DefaultRegistry(), asset.ChainIDArbitrum)
	writer := &fakeWriter{}

	scanner := NewScanner(blockchain, pricing, NewPaperSession(0, 0), writer, &fakeReporter{}, ScannerConfig{
		Pairs:      []string{"WETH/USDC"},
		TradeSizes: []decimal.Decimal{decimal.RequireFromString("0.1"), decimal.NewFromInt(1)},
		Interval:   time.Second,
		Gates: domain.GateConfig{
			MaxGasEstimate:       500000,
			MaxTicksCrossed:      10,
			MaxPriceDeviationBps: 1000,
			MaxSlippageBps:       500,
			FreshnessThresholdMs: 3000,
		},
	}, testLogger())
	return scanner, writer
}

func TestRunCycle_FindsSpread(t *testing.T) {
	uni := &fakeProvider{dexID: "uniswap_v3", priority: 1, verified: true, price: "2600"}
	sushi := &fakeProvider{dexID: "sushiswap_v3", priority: 0, verified: true, price: "2610"}
	scanner, writer := testScanner(t, &fakeChainClient{block: 1000}, nil, uni, sushi)

	report, err := scanner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Stats.QuotesAttempted != 4 || report.Stats.QuotesFetched != 4 {
		t.Errorf("stats = %+v, want 4 attempted and fetched", report.Stats)
	}
	if report.Stats.QuotesPassedGates != 4 {
		t.Errorf("passed = %d, want 4", report.Stats.QuotesPassedGates)
	}
	// One unordered DEX pair per (pair, fee, size): two sizes, one pair.
	if report.Stats.SpreadsComputed != 2 {
		t.Errorf("spreads = %d, want 2", report.Stats.SpreadsComputed)
	}
	if len(report.TopOpportunities) == 0 {
		t.Fatal("expected opportunities in the report")
	}
	if report.Health.ExecutionReady != 0 {
		t.Errorf("execution_ready = %d, must be 0 while execution is disabled", report.Health.ExecutionReady)
	}
	if report.Health.RPCEndpoint != "https://arb.example/rpc" {
		t.Errorf("rpc_endpoint = %q, want the serving endpoint", report.Health.RPCEndpoint)
	}

	if writer.snapshots != 1 || writer.histograms != 1 || writer.reports != 1 || writer.trades != 1 {
		t.Errorf("artifacts written = %+v, want one of each", writer)
	}
}

func TestRunCycle_AnchorDexQuotedFirst(t *testing.T) {
	var calls []string
	uni := &fakeProvider{dexID: "uniswap_v3", priority: 1, verified: true, price: "2600", calls: &calls}
	aldex := &fakeProvider{dexID: "aldex", priority: 0, verified: true, price: "2610", calls: &calls}
	// Registration order deliberately puts the anchor DEX last.
	scanner, _ := testScanner(t, &fakeChainClient{block: 1000}, nil, aldex, uni)

	if _, err := scanner.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(calls) != 4 {
		t.Fatalf("quote calls = %d, want 4", len(calls))
	}
	for i, dex := range calls[:2] {
		if dex != "uniswap_v3" {
			t.Errorf("call %d went to %s, anchor DEX must be quoted first", i, dex)
		}
	}
}

func TestRunCycle_BlockPinFailureStillWritesArtifacts(t *testing.T) {
	uni := &fakeProvider{dexID: "uniswap_v3", priority: 1, verified: true, price: "2600"}
	scanner, writer := testScanner(t, &fakeChainClient{blockErr: errors.New("all endpoints down")}, nil, uni)

	report, err := scanner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("pin failure must not abort artifact emission: %v", err)
	}

	if writer.snapshots != 1 || writer.histograms != 1 || writer.reports != 1 || writer.trades != 1 {
		t.Errorf("artifacts written = %+v, want all four despite pin failure", writer)
	}
	if report.Health.BlockPinned {
		t.Error("health must document the failed pin")
	}
	if report.Stats.QuotesAttempted != 0 {
		t.Errorf("no quotes should be attempted without a pinned block, got %d", report.Stats.QuotesAttempted)
	}
	if len(uni.quoted) != 0 {
		t.Error("provider quoted despite failed pin")
	}
}

func TestRunCycle_FetchFailureBecomesHistogramEntry(t *testing.T) {
	uni := &fakeProvider{dexID: "uniswap_v3", priority: 1, verified: true, price: "2600"}
	broken := &fakeProvider{dexID: "aldex", priority: 0, verified: true,
		err: apperror.New(apperror.CodeQuoteRevert)}
	scanner, writer := testScanner(t, &fakeChainClient{block: 1000}, nil, uni, broken)

	report, err := scanner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Stats.QuotesFetchFailed != 2 {
		t.Errorf("fetch failed = %d, want 2", report.Stats.QuotesFetchFailed)
	}
	if got := report.Stats.QuotesAttempted; got != report.Stats.QuotesFetched+report.Stats.QuotesFetchFailed {
		t.Errorf("attempted %d != fetched %d + failed %d",
			got, report.Stats.QuotesFetched, report.Stats.QuotesFetchFailed)
	}
	if writer.lastReport.Health.GateBreakdown[domain.BucketRevert] != 2 {
		t.Errorf("revert bucket = %d, want 2: %+v",
			writer.lastReport.Health.GateBreakdown[domain.BucketRevert], writer.lastReport.Health.GateBreakdown)
	}
}

func TestRunCycle_GasFailureDegradesToZeroCost(t *testing.T) {
	uni := &fakeProvider{dexID: "uniswap_v3", priority: 1, verified: true, price: "2600"}
	sushi := &fakeProvider{dexID: "sushiswap_v3", priority: 0, verified: true, price: "2610"}
	scanner, _ := testScanner(t, &fakeChainClient{block: 1000},
		apperror.New(apperror.CodeGasPriceFailed), uni, sushi)

	report, err := scanner.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("gas failure must degrade, not abort: %v", err)
	}
	if report.Stats.SpreadsComputed == 0 {
		t.Error("spreads should still be computed without a gas price")
	}
	for _, o := range report.TopOpportunities {
		if o.GasCostBps != 0 {
			t.Errorf("gas cost must be zero without a gas price, got %d", o.GasCostBps)
		}
	}
}
