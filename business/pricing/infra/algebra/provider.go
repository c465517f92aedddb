// Package algebra implements the QuoteProvider port for Algebra-style DEXes
// (Camelot, QuickSwap V3). Algebra pools carry a single dynamic fee, so the
// provider exposes no fee tiers and quotes one pool per pair.
package algebra

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	blockchainapp "github.com/0xmachado/dexscan/business/blockchain/app"
	"github.com/0xmachado/dexscan/business/pricing/app"
	"github.com/0xmachado/dexscan/business/pricing/domain"
	"github.com/0xmachado/dexscan/internal/apperror"
	"github.com/0xmachado/dexscan/internal/asset"
	"github.com/0xmachado/dexscan/internal/config"
	"github.com/0xmachado/dexscan/internal/logger"
)

const (
	tracerName = "github.com/0xmachado/dexscan/business/pricing/infra/algebra"
	meterName  = "github.com/0xmachado/dexscan/business/pricing/infra/algebra"
)

// Ensure Provider implements QuoteProvider.
var _ app.QuoteProvider = (*Provider)(nil)

type providerMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteLatency metric.Float64Histogram
	quoteErrors  metric.Int64Counter
}

// Provider implements QuoteProvider against an Algebra quoter contract.
type Provider struct {
	dexID             string
	quoter            common.Address
	quoterABI         abi.ABI
	anchorPriority    int
	executionVerified bool

	client blockchainapp.ChainClient
	logger logger.LoggerInterface

	tracer  trace.Tracer
	metrics *providerMetrics
}

// NewProvider creates an Algebra quote provider from its DEX config entry.
func NewProvider(cfg config.DexConfig, client blockchainapp.ChainClient, log logger.LoggerInterface) (*Provider, error) {
	parsedABI, err := abi.JSON(strings.NewReader(QuoterABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter ABI: %w", err)
	}

	p := &Provider{
		dexID:             cfg.ID,
		quoter:            cfg.QuoterAddressHex(),
		quoterABI:         parsedABI,
		anchorPriority:    cfg.AnchorPriority,
		executionVerified: cfg.VerifiedForExecution,
		client:            client,
		logger:            log,
		tracer:            otel.Tracer(tracerName),
	}

	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return p, nil
}

func (p *Provider) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &providerMetrics{}

	p.metrics.quotesTotal, err = meter.Int64Counter(
		"dex_quotes_total",
		metric.WithDescription("Total quote requests"),
	)
	if err != nil {
		return err
	}

	p.metrics.quoteLatency, err = meter.Float64Histogram(
		"dex_quote_latency_ms",
		metric.WithDescription("Quote request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.metrics.quoteErrors, err = meter.Int64Counter(
		"dex_quote_errors_total",
		metric.WithDescription("Total quote errors"),
	)
	if err != nil {
		return err
	}

	return nil
}

// DexID returns the provider's DEX identifier.
func (p *Provider) DexID() string { return p.dexID }

// DexType returns the provider's adapter family.
func (p *Provider) DexType() domain.DexType { return domain.DexTypeAlgebra }

// ExecutionVerified reports whether this DEX is verified for execution.
func (p *Provider) ExecutionVerified() bool { return p.executionVerified }

// AnchorPriority returns the DEX's trust rank for anchor selection.
func (p *Provider) AnchorPriority() int { return p.anchorPriority }

// FeeTiers returns nil: Algebra pools are not fee-tiered.
func (p *Provider) FeeTiers() []int64 { return nil }

// Quote calls the Algebra quoter's quoteExactInputSingle at the pinned block.
func (p *Provider) Quote(ctx context.Context, pool *domain.Pool, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount, blockNumber uint64) (*domain.Quote, error) {
	ctx, span := p.tracer.Start(ctx, "algebra.quote",
		trace.WithAttributes(
			attribute.String("dex", p.dexID),
			attribute.String("token_in", tokenIn.Symbol()),
			attribute.String("token_out", tokenOut.Symbol()),
			attribute.Int64("block_number", int64(blockNumber)),
		),
	)
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("dex", p.dexID))
	p.metrics.quotesTotal.Add(ctx, 1, attrs)

	callData, err := p.quoterABI.Pack("quoteExactInputSingle",
		tokenIn.Address(), tokenOut.Address(), amountIn.Raw(), big.NewInt(0))
	if err != nil {
		return nil, apperror.New(apperror.CodeAdapterBug,
			apperror.WithCause(err),
			apperror.WithContext("failed to encode quoter call"))
	}

	start := time.Now()
	raw, err := p.client.CallContract(ctx, p.quoter, callData, blockNumber)
	latencyMs := time.Since(start).Milliseconds()
	p.metrics.quoteLatency.Record(ctx, float64(latencyMs), attrs)

	if err != nil {
		p.metrics.quoteErrors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "quoter call failed")
		return nil, err
	}

	outputs, err := p.quoterABI.Unpack("quoteExactInputSingle", raw)
	if err != nil || len(outputs) < 1 {
		p.metrics.quoteErrors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, apperror.New(apperror.CodeQuoteDecodeFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("quoter result decode failed for %s", pool)))
	}

	amountOutRaw := outputs[0].(*big.Int)
	amountOut := asset.NewAmount(tokenOut, amountOutRaw)

	// No per-quote gas estimate or tick count from Algebra quoters.
	quote := domain.NewQuote(pool, tokenIn, tokenOut, amountIn, amountOut,
		blockNumber, DefaultGasEstimate, 0, nil, latencyMs)

	span.SetAttributes(attribute.String("amount_out", amountOutRaw.String()))
	span.SetStatus(codes.Ok, "quote received")

	p.logger.Debug(ctx, "algebra quote",
		"dex", p.dexID,
		"pool", pool.String(),
		"amount_in", amountIn.Raw().String(),
		"amount_out", amountOutRaw.String(),
	)

	return quote, nil
}
