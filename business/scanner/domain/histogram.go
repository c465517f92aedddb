package domain

import (
	"github.com/0xmachado/dexscan/internal/apperror"
)

// maxSamplesPerReason bounds the forensic payload kept per rejection code.
const maxSamplesPerReason = 3

// Gate breakdown buckets. Every rejection code maps into exactly one.
const (
	BucketRevert   = "revert"
	BucketSlippage = "slippage"
	BucketInfra    = "infra"
	BucketOther    = "other"
)

var gateBuckets = map[apperror.Code]string{
	apperror.CodeQuoteRevert:       BucketRevert,
	apperror.CodeQuoteDecodeFailed: BucketRevert,
	apperror.CodePoolNotFound:      BucketRevert,

	apperror.CodeSlippageExceeded:  BucketSlippage,
	apperror.CodeNonMonotonicCurve: BucketSlippage,

	apperror.CodeRPCConnectionFailed: BucketInfra,
	apperror.CodeRPCError:            BucketInfra,
	apperror.CodeRPCTimeout:          BucketInfra,
	apperror.CodeRPCRateLimited:      BucketInfra,
	apperror.CodeAllEndpointsFailed:  BucketInfra,
	apperror.CodeBlockPinFailed:      BucketInfra,
	apperror.CodeGasPriceFailed:      BucketInfra,
	apperror.CodeCircuitOpen:         BucketInfra,
}

// bucketFor is a total function: codes outside the table land in other.
func bucketFor(code apperror.Code) string {
	if b, ok := gateBuckets[code]; ok {
		return b
	}
	return BucketOther
}

// RejectSample is the forensic record kept for a rejection: enough context
// to re-derive the decision without re-running the cycle.
type RejectSample struct {
	Code    apperror.Code  `json:"code"`
	DexID   string         `json:"dex_id"`
	Pair    string         `json:"pair"`
	Fee     int64          `json:"fee"`
	Size    string         `json:"size"`
	Block   uint64         `json:"block"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Histogram accumulates rejection counts per code over one scan cycle.
// Counts are per failure, not per quote: a quote failing several gates
// contributes several entries. Not safe for concurrent use; the scan
// cycle is single threaded.
type Histogram struct {
	counts   map[apperror.Code]int64
	samples  map[apperror.Code][]RejectSample
	rejected map[string]struct{}
}

func NewHistogram() *Histogram {
	return &Histogram{
		counts:   make(map[apperror.Code]int64),
		samples:  make(map[apperror.Code][]RejectSample),
		rejected: make(map[string]struct{}),
	}
}

// Record adds one failure. quoteKey identifies the rejected quote (or grid
// cell) so unique rejections can be reconciled against the count sum.
func (h *Histogram) Record(quoteKey string, s RejectSample) {
	h.counts[s.Code]++
	if len(h.samples[s.Code]) < maxSamplesPerReason {
		h.samples[s.Code] = append(h.samples[s.Code], s)
	}
	if quoteKey != "" {
		h.rejected[quoteKey] = struct{}{}
	}
}

func (h *Histogram) Counts() map[apperror.Code]int64 {
	out := make(map[apperror.Code]int64, len(h.counts))
	for code, n := range h.counts {
		out[code] = n
	}
	return out
}

func (h *Histogram) Samples() map[apperror.Code][]RejectSample {
	out := make(map[apperror.Code][]RejectSample, len(h.samples))
	for code, list := range h.samples {
		out[code] = append([]RejectSample(nil), list...)
	}
	return out
}

// TotalFailures is the sum over all codes. It can exceed UniqueRejected
// because a single quote may fail multiple gates.
func (h *Histogram) TotalFailures() int64 {
	var total int64
	for _, n := range h.counts {
		total += n
	}
	return total
}

// UniqueRejected is the number of distinct quote keys that failed at least
// once.
func (h *Histogram) UniqueRejected() int {
	return len(h.rejected)
}

// Reconcile verifies that every unique rejection is accounted for by the
// counters. If the counters under-report (a recording bug), counts are
// rebuilt from the retained samples and reconstructed=true is returned so
// the caller can log the discrepancy. The report is emitted either way.
func (h *Histogram) Reconcile() (counts map[apperror.Code]int64, reconstructed bool) {
	if h.TotalFailures() >= int64(len(h.rejected)) {
		return h.Counts(), false
	}

	rebuilt := make(map[apperror.Code]int64, len(h.samples))
	for code, list := range h.samples {
		rebuilt[code] = int64(len(list))
	}
	return rebuilt, true
}

// GateBreakdown folds the per-code counts into the four canonical buckets.
// All four keys are always present, zero-valued when empty.
func GateBreakdown(counts map[apperror.Code]int64) map[string]int64 {
	out := map[string]int64{
		BucketRevert:   0,
		BucketSlippage: 0,
		BucketInfra:    0,
		BucketOther:    0,
	}
	for code, n := range counts {
		out[bucketFor(code)] += n
	}
	return out
}
