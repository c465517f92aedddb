package domain

// QuoteRecord is the snapshot form of one quote attempt, successful or not.
type QuoteRecord struct {
	DexID     string `json:"dex_id"`
	Pair      string `json:"pair"`
	Fee       int64  `json:"fee"`
	Size      string `json:"size"`
	AmountIn  string `json:"amount_in,omitempty"`
	AmountOut string `json:"amount_out,omitempty"`
	Price     string `json:"price,omitempty"`
	Suspect   bool   `json:"suspect,omitempty"`
	Block     uint64 `json:"block,omitempty"`
	Gas       uint64 `json:"gas,omitempty"`
	Ticks     int    `json:"ticks,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Fetched   bool   `json:"fetched"`
	Passed    bool   `json:"passed"`
	FailCode  string `json:"fail_code,omitempty"`
}

// RPCStats summarizes the cycle's chain interaction for the snapshot.
type RPCStats struct {
	PinnedBlock    uint64 `json:"pinned_block"`
	BlockLatencyMs int64  `json:"block_latency_ms"`
	Endpoint       string `json:"endpoint"`
	GasPriceWei    string `json:"gas_price_wei"`
}

// Snapshot is the raw per-cycle artifact: everything observed, before
// ranking and capping.
type Snapshot struct {
	SchemaVersion string        `json:"schema_version"`
	TimestampMs   int64         `json:"timestamp_ms"`
	Block         uint64        `json:"block"`
	Stats         Stats         `json:"stats"`
	RPC           RPCStats      `json:"rpc"`
	Quotes        []QuoteRecord `json:"quotes"`
	Spreads       []Opportunity `json:"spreads"`
	PaperTrades   []PaperTrade  `json:"paper_trades"`
}

// HistogramArtifact is the per-cycle reject-histogram artifact.
type HistogramArtifact struct {
	SchemaVersion  string                    `json:"schema_version"`
	TimestampMs    int64                     `json:"timestamp_ms"`
	Block          uint64                    `json:"block"`
	Counts         map[string]int64          `json:"counts"`
	Samples        map[string][]RejectSample `json:"samples"`
	GateBreakdown  map[string]int64          `json:"gate_breakdown"`
	UniqueRejected int                       `json:"unique_rejected"`
	TotalFailures  int64                     `json:"total_failures"`
	Rebuilt        bool                      `json:"rebuilt"`
}
