// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Dexes     []DexConfig     `mapstructure:"dexes"`
	Tokens    []TokenConfig   `mapstructure:"tokens"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Gates     GateConfig      `mapstructure:"gates"`
	Paper     PaperConfig     `mapstructure:"paper"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ChainConfig holds EVM node configuration. Endpoints are tried in order;
// the client fails over to the next endpoint on infra errors.
type ChainConfig struct {
	ChainID         uint64        `mapstructure:"chain_id"`
	RPCEndpoints    []string      `mapstructure:"rpc_endpoints"`
	WebSocketURL    string        `mapstructure:"websocket_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxReconnects   int           `mapstructure:"max_reconnects"`
	InitialBackoff  time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff      time.Duration `mapstructure:"max_backoff"`
	GasPriceTTL     time.Duration `mapstructure:"gas_price_ttl"`
	MaxGasPriceGwei int64         `mapstructure:"max_gas_price_gwei"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
}

// DexConfig describes one DEX deployment on the configured chain.
type DexConfig struct {
	ID                   string  `mapstructure:"id"`
	AdapterType          string  `mapstructure:"adapter_type"` // univ3 | algebra
	QuoterAddress        string  `mapstructure:"quoter_address"`
	FeeTiers             []int64 `mapstructure:"fee_tiers"` // ignored for algebra
	Enabled              bool    `mapstructure:"enabled"`
	VerifiedForQuoting   bool    `mapstructure:"verified_for_quoting"`
	VerifiedForExecution bool    `mapstructure:"verified_for_execution"`
	AnchorPriority       int     `mapstructure:"anchor_priority"` // lower = more trusted; 0 = never anchor
}

// QuoterAddressHex returns the quoter address as common.Address.
func (c *DexConfig) QuoterAddressHex() common.Address {
	return common.HexToAddress(c.QuoterAddress)
}

// TokenConfig describes one token beyond the built-in registry.
type TokenConfig struct {
	Symbol   string `mapstructure:"symbol"`
	Name     string `mapstructure:"name"`
	Address  string `mapstructure:"address"`
	Decimals uint8  `mapstructure:"decimals"`
	Core     bool   `mapstructure:"core"`
}

// AddressHex returns the token address as common.Address.
func (c *TokenConfig) AddressHex() common.Address {
	return common.HexToAddress(c.Address)
}

// ScanConfig holds scan-cycle configuration. Trade sizes are decimal
// strings in base-token units; floats are never used for amounts.
type ScanConfig struct {
	Pairs         []string      `mapstructure:"pairs"` // "WETH/ARB"
	TradeSizes    []string      `mapstructure:"trade_sizes"`
	Interval      time.Duration `mapstructure:"interval"`
	HeadTriggered bool          `mapstructure:"head_triggered"`
	ArtifactsDir  string        `mapstructure:"artifacts_dir"`
}

// TradeSizesDecimal returns trade sizes as decimal.Decimal slice.
// Validate guarantees the strings parse.
func (c *ScanConfig) TradeSizesDecimal() []decimal.Decimal {
	result := make([]decimal.Decimal, len(c.TradeSizes))
	for i, s := range c.TradeSizes {
		result[i] = decimal.RequireFromString(s)
	}
	return result
}

// GateConfig holds the quote-gating thresholds.
type GateConfig struct {
	MaxGasEstimate       uint64 `mapstructure:"max_gas_estimate"`
	MaxTicksCrossed      int    `mapstructure:"max_ticks_crossed"`
	MaxPriceDeviationBps int64  `mapstructure:"max_price_deviation_bps"`
	MaxSlippageBps       int64  `mapstructure:"max_slippage_bps"`
	FreshnessThresholdMs int64  `mapstructure:"freshness_threshold_ms"`
}

// PaperConfig holds paper-trading session configuration. When
// CooldownBlocks is nonzero it takes precedence over CooldownSeconds.
type PaperConfig struct {
	CooldownSeconds int `mapstructure:"cooldown_seconds"`
	CooldownBlocks  int `mapstructure:"cooldown_blocks"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SCAN")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SCAN_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SCAN_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SCAN_LOG_LEVEL", "LOG_LEVEL")

	// Chain
	v.BindEnv("chain.chain_id", "SCAN_CHAIN_ID", "CHAIN_ID")
	v.BindEnv("chain.rpc_endpoints", "SCAN_RPC_ENDPOINTS", "RPC_ENDPOINTS")
	v.BindEnv("chain.websocket_url", "SCAN_WS_URL", "ETH_WS_URL")

	// Scan
	v.BindEnv("scan.pairs", "SCAN_PAIRS")
	v.BindEnv("scan.interval", "SCAN_INTERVAL")
	v.BindEnv("scan.artifacts_dir", "SCAN_ARTIFACTS_DIR")

	// Gates
	v.BindEnv("gates.max_gas_estimate", "SCAN_MAX_GAS_ESTIMATE")
	v.BindEnv("gates.max_price_deviation_bps", "SCAN_MAX_PRICE_DEVIATION_BPS")
	v.BindEnv("gates.max_slippage_bps", "SCAN_MAX_SLIPPAGE_BPS")

	// Paper
	v.BindEnv("paper.cooldown_seconds", "SCAN_COOLDOWN_SECONDS")
	v.BindEnv("paper.cooldown_blocks", "SCAN_COOLDOWN_BLOCKS")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SCAN_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SCAN_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SCAN_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "dexscan")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Chain defaults (Arbitrum One)
	v.SetDefault("chain.chain_id", 42161)
	v.SetDefault("chain.request_timeout", "10s")
	v.SetDefault("chain.max_reconnects", 0) // infinite
	v.SetDefault("chain.initial_backoff", "1s")
	v.SetDefault("chain.max_backoff", "30s")
	v.SetDefault("chain.gas_price_ttl", "12s")
	v.SetDefault("chain.max_gas_price_gwei", 500)
	v.SetDefault("chain.rate_limit_rps", 10)

	// Scan defaults
	v.SetDefault("scan.pairs", []string{"WETH/USDC"})
	v.SetDefault("scan.trade_sizes", []string{"0.1", "0.5", "1.0"})
	v.SetDefault("scan.interval", "15s")
	v.SetDefault("scan.head_triggered", false)
	v.SetDefault("scan.artifacts_dir", "artifacts")

	// Gate defaults
	v.SetDefault("gates.max_gas_estimate", 500000)
	v.SetDefault("gates.max_ticks_crossed", 10)
	v.SetDefault("gates.max_price_deviation_bps", 1000) // 10%
	v.SetDefault("gates.max_slippage_bps", 500)         // 5%
	v.SetDefault("gates.freshness_threshold_ms", 3000)

	// Paper defaults
	v.SetDefault("paper.cooldown_seconds", 300)
	v.SetDefault("paper.cooldown_blocks", 0)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "dexscan")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Chain.RPCEndpoints) == 0 {
		return fmt.Errorf("chain.rpc_endpoints is required")
	}
	if c.Chain.ChainID == 0 {
		return fmt.Errorf("chain.chain_id is required")
	}

	anchors := 0
	for i, d := range c.Dexes {
		if d.ID == "" {
			return fmt.Errorf("dexes[%d].id is required", i)
		}
		if d.AdapterType != "univ3" && d.AdapterType != "algebra" {
			return fmt.Errorf("dexes[%d].adapter_type must be univ3 or algebra, got %q", i, d.AdapterType)
		}
		if !common.IsHexAddress(d.QuoterAddress) {
			return fmt.Errorf("dexes[%d].quoter_address invalid: %s", i, d.QuoterAddress)
		}
		if d.AdapterType == "univ3" && len(d.FeeTiers) == 0 {
			return fmt.Errorf("dexes[%d].fee_tiers required for univ3", i)
		}
		if d.AnchorPriority > 0 {
			anchors++
		}
	}
	if len(c.Dexes) > 0 && anchors == 0 {
		return fmt.Errorf("at least one dex needs anchor_priority > 0")
	}

	for i, t := range c.Tokens {
		if t.Symbol == "" {
			return fmt.Errorf("tokens[%d].symbol is required", i)
		}
		if !common.IsHexAddress(t.Address) {
			return fmt.Errorf("tokens[%d].address invalid: %s", i, t.Address)
		}
	}

	if len(c.Scan.TradeSizes) == 0 {
		return fmt.Errorf("scan.trade_sizes cannot be empty")
	}
	prev := decimal.Zero
	for i, s := range c.Scan.TradeSizes {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("scan.trade_sizes[%d] not a decimal: %s", i, s)
		}
		if !d.IsPositive() {
			return fmt.Errorf("scan.trade_sizes[%d] must be positive: %s", i, s)
		}
		// Curve gates need strictly increasing sizes.
		if d.LessThanOrEqual(prev) {
			return fmt.Errorf("scan.trade_sizes must be strictly increasing, got %s after %s", s, prev)
		}
		prev = d
	}

	if c.Gates.MaxPriceDeviationBps < 0 || c.Gates.MaxPriceDeviationBps > 10000 {
		return fmt.Errorf("gates.max_price_deviation_bps out of range: %d", c.Gates.MaxPriceDeviationBps)
	}

	return nil
}
