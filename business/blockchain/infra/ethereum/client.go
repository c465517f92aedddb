package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/0xmachado/dexscan/internal/apperror"
	"github.com/0xmachado/dexscan/internal/circuitbreaker"
	"github.com/0xmachado/dexscan/internal/logger"
	"github.com/0xmachado/dexscan/internal/ratelimit"
)

// FailoverClientConfig holds configuration for the failover RPC client.
type FailoverClientConfig struct {
	Endpoints      []string      // tried in order, first healthy wins
	RequestTimeout time.Duration // per-call timeout
	RateLimitRPS   float64       // calls per second across all endpoints
}

// DefaultFailoverClientConfig returns sensible defaults.
func DefaultFailoverClientConfig(endpoints []string) FailoverClientConfig {
	return FailoverClientConfig{
		Endpoints:      endpoints,
		RequestTimeout: 10 * time.Second,
		RateLimitRPS:   10,
	}
}

// clientMetrics holds OTEL metric instruments.
type clientMetrics struct {
	rpcCalls    metric.Int64Counter
	rpcErrors   metric.Int64Counter
	rpcLatency  metric.Float64Histogram
	failovers   metric.Int64Counter
	endpointIdx metric.Int64Gauge
}

// endpoint pairs a lazily dialed ethclient with its circuit breaker.
type endpoint struct {
	url    string
	client *ethclient.Client
	cb     *circuitbreaker.CircuitBreaker[any]
	mu     sync.Mutex
}

// FailoverClient implements the ChainClient port over a prioritized list of
// RPC endpoints. Each endpoint has its own circuit breaker; a call walks the
// list skipping open breakers and returns the first success. An error is
// returned only when every endpoint has been exhausted.
type FailoverClient struct {
	config FailoverClientConfig
	logger logger.LoggerInterface

	endpoints []*endpoint
	limiter   *ratelimit.Limiter

	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewFailoverClient creates a failover client. Endpoints are dialed lazily
// on first use so a dead endpoint does not block startup.
func NewFailoverClient(cfg FailoverClientConfig, log logger.LoggerInterface) (*FailoverClient, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, apperror.New(apperror.CodeRPCConnectionFailed,
			apperror.WithContext("no rpc endpoints configured"))
	}

	c := &FailoverClient{
		config:  cfg,
		logger:  log,
		limiter: ratelimit.NewWithBurst(cfg.RateLimitRPS, int(cfg.RateLimitRPS)),
		tracer:  otel.Tracer(tracerName),
	}

	for _, url := range cfg.Endpoints {
		c.endpoints = append(c.endpoints, &endpoint{
			url: url,
			cb:  circuitbreaker.New[any](circuitbreaker.DefaultConfig("rpc:" + url)),
		})
	}

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return c, nil
}

// initMetrics initializes OTEL metric instruments.
func (c *FailoverClient) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.rpcCalls, err = meter.Int64Counter(
		"rpc_calls_total",
		metric.WithDescription("Total RPC calls attempted"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	c.metrics.rpcErrors, err = meter.Int64Counter(
		"rpc_errors_total",
		metric.WithDescription("Total RPC call errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	c.metrics.rpcLatency, err = meter.Float64Histogram(
		"rpc_latency_ms",
		metric.WithDescription("RPC call latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	c.metrics.failovers, err = meter.Int64Counter(
		"rpc_failovers_total",
		metric.WithDescription("Times a call failed over to a lower-priority endpoint"),
		metric.WithUnit("{failover}"),
	)
	if err != nil {
		return err
	}

	c.metrics.endpointIdx, err = meter.Int64Gauge(
		"rpc_active_endpoint",
		metric.WithDescription("Index of the endpoint that served the last call"),
		metric.WithUnit("{index}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// revertResult carries a contract revert through the circuit breaker as a
// success, so deterministic reverts neither trip the breaker nor trigger
// failover to another endpoint.
type revertResult struct {
	err error
}

// isRevertError reports whether err is a contract revert rather than an
// endpoint problem. Reverts surface as typed JSON-RPC errors: either an
// rpc.DataError carrying revert data, or error code 3 (execution reverted).
func isRevertError(err error) bool {
	var de rpc.DataError
	if errors.As(err, &de) && de.ErrorData() != nil {
		return true
	}
	var re rpc.Error
	if errors.As(err, &re) && re.ErrorCode() == 3 {
		return true
	}
	return false
}

// dial returns the endpoint's client, dialing it on first use.
func (e *endpoint) dial(ctx context.Context) (*ethclient.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return e.client, nil
	}

	client, err := ethclient.DialContext(ctx, e.url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", e.url, err)
	}
	e.client = client
	return client, nil
}

// execute walks the endpoint list until one call succeeds.
func (c *FailoverClient) execute(ctx context.Context, op string, fn func(context.Context, *ethclient.Client) (any, error)) (any, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", apperror.New(apperror.CodeRPCRateLimited,
			apperror.WithCause(err),
			apperror.WithContext("rate limiter wait cancelled"))
	}

	var lastErr error
	for i, ep := range c.endpoints {
		if ep.cb.IsOpen() {
			continue
		}

		client, err := ep.dial(ctx)
		if err != nil {
			lastErr = err
			c.metrics.rpcErrors.Add(ctx, 1, metric.WithAttributes(
				attribute.String("op", op), attribute.String("endpoint", ep.url)))
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
		start := time.Now()
		result, err := ep.cb.Execute(func() (any, error) {
			res, err := fn(callCtx, client)
			if err != nil && isRevertError(err) {
				return revertResult{err: err}, nil
			}
			return res, err
		})
		cancel()

		elapsed := float64(time.Since(start).Milliseconds())
		c.metrics.rpcCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
		c.metrics.rpcLatency.Record(ctx, elapsed, metric.WithAttributes(attribute.String("op", op)))

		if err != nil {
			lastErr = err
			c.metrics.rpcErrors.Add(ctx, 1, metric.WithAttributes(
				attribute.String("op", op), attribute.String("endpoint", ep.url)))
			c.logger.Warn(ctx, "rpc call failed, trying next endpoint",
				"op", op, "endpoint", ep.url, "error", err)
			if i < len(c.endpoints)-1 {
				c.metrics.failovers.Add(ctx, 1)
			}
			continue
		}

		if rr, ok := result.(revertResult); ok {
			return nil, ep.url, apperror.New(apperror.CodeQuoteRevert,
				apperror.WithCause(rr.err),
				apperror.WithContext(fmt.Sprintf("op %s reverted", op)))
		}

		c.metrics.endpointIdx.Record(ctx, int64(i))
		return result, ep.url, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("all circuit breakers open")
	}
	return nil, "", apperror.New(apperror.CodeAllEndpointsFailed,
		apperror.WithCause(lastErr),
		apperror.WithContext(fmt.Sprintf("op %s failed on all %d endpoints", op, len(c.endpoints))))
}

// BlockNumber returns the current chain head, the observed latency and the
// endpoint that served the call.
func (c *FailoverClient) BlockNumber(ctx context.Context) (uint64, int64, string, error) {
	ctx, span := c.tracer.Start(ctx, "rpc.block_number")
	defer span.End()

	start := time.Now()
	result, servedBy, err := c.execute(ctx, "block_number", func(ctx context.Context, client *ethclient.Client) (any, error) {
		return client.BlockNumber(ctx)
	})
	latencyMs := time.Since(start).Milliseconds()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return 0, latencyMs, servedBy, err
	}

	number := result.(uint64)
	span.SetAttributes(attribute.Int64("block_number", int64(number)))
	span.SetStatus(codes.Ok, "fetched")
	return number, latencyMs, servedBy, nil
}

// CallContract executes an eth_call pinned to the given block height.
func (c *FailoverClient) CallContract(ctx context.Context, to common.Address, data []byte, blockNumber uint64) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "rpc.call_contract",
		trace.WithAttributes(
			attribute.String("to", to.Hex()),
			attribute.Int64("block_number", int64(blockNumber)),
		),
	)
	defer span.End()

	if blockNumber == 0 {
		err := apperror.New(apperror.CodeScannerBug,
			apperror.WithContext("contract call without pinned block"))
		span.RecordError(err)
		return nil, err
	}

	msg := ethereum.CallMsg{To: &to, Data: data}
	block := new(big.Int).SetUint64(blockNumber)

	result, _, err := c.execute(ctx, "call_contract", func(ctx context.Context, client *ethclient.Client) (any, error) {
		return client.CallContract(ctx, msg, block)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "call failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "called")
	return result.([]byte), nil
}

// SuggestGasPrice returns the node's suggested gas price in wei.
func (c *FailoverClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	ctx, span := c.tracer.Start(ctx, "rpc.suggest_gas_price")
	defer span.End()

	result, _, err := c.execute(ctx, "suggest_gas_price", func(ctx context.Context, client *ethclient.Client) (any, error) {
		return client.SuggestGasPrice(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "fetched")
	return result.(*big.Int), nil
}

// ChainID returns the chain id of the connected network.
func (c *FailoverClient) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, span := c.tracer.Start(ctx, "rpc.chain_id")
	defer span.End()

	result, _, err := c.execute(ctx, "chain_id", func(ctx context.Context, client *ethclient.Client) (any, error) {
		return client.ChainID(ctx)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "fetched")
	return result.(*big.Int), nil
}

// Close releases all underlying connections.
func (c *FailoverClient) Close() error {
	for _, ep := range c.endpoints {
		ep.mu.Lock()
		if ep.client != nil {
			ep.client.Close()
			ep.client = nil
		}
		ep.mu.Unlock()
	}
	return nil
}
