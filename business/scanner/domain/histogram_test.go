package domain

import (
	"testing"

	"github.com/0xmachado/dexscan/internal/apperror"
)

func sample(code apperror.Code, dex string) RejectSample {
	return RejectSample{Code: code, DexID: dex, Pair: "USDC/WETH", Fee: 3000, Size: "1", Block: 1000}
}

func TestHistogram_CountsFailuresNotQuotes(t *testing.T) {
	h := NewHistogram()

	// One quote failing two gates contributes two counts but one unique
	// rejection.
	h.Record("uniswap_v3|3000|1", sample(apperror.CodeGasTooHigh, "uniswap_v3"))
	h.Record("uniswap_v3|3000|1", sample(apperror.CodeStaleBlock, "uniswap_v3"))

	if got := h.TotalFailures(); got != 2 {
		t.Errorf("total failures = %d, want 2", got)
	}
	if got := h.UniqueRejected(); got != 1 {
		t.Errorf("unique rejected = %d, want 1", got)
	}
}

func TestHistogram_SampleCap(t *testing.T) {
	h := NewHistogram()
	for i := 0; i < 7; i++ {
		h.Record("k", sample(apperror.CodeQuoteRevert, "camelot"))
	}

	if got := h.Counts()[apperror.CodeQuoteRevert]; got != 7 {
		t.Errorf("count = %d, want 7", got)
	}
	if got := len(h.Samples()[apperror.CodeQuoteRevert]); got != maxSamplesPerReason {
		t.Errorf("samples = %d, want %d", got, maxSamplesPerReason)
	}
}

func TestHistogram_SamplesImplyNonZeroCount(t *testing.T) {
	h := NewHistogram()
	h.Record("a", sample(apperror.CodePriceSanity, "camelot"))
	h.Record("b", sample(apperror.CodeQuoteRevert, "uniswap_v3"))

	counts, reconstructed := h.Reconcile()
	if reconstructed {
		t.Fatal("consistent histogram must not trigger reconstruction")
	}
	for code, list := range h.Samples() {
		if len(list) > 0 && counts[code] == 0 {
			t.Errorf("code %s has %d samples but zero count", code, len(list))
		}
	}
}

func TestHistogram_ReconstructsFromSamples(t *testing.T) {
	h := NewHistogram()
	h.samples[apperror.CodeStaleBlock] = []RejectSample{sample(apperror.CodeStaleBlock, "camelot")}
	h.rejected["camelot|3000|1"] = struct{}{}
	// counts left empty: simulated recording bug, sum < unique rejected.

	counts, reconstructed := h.Reconcile()
	if !reconstructed {
		t.Fatal("expected reconstruction fallback")
	}
	if counts[apperror.CodeStaleBlock] != 1 {
		t.Errorf("rebuilt count = %d, want 1", counts[apperror.CodeStaleBlock])
	}
}

func TestGateBreakdown_CanonicalBuckets(t *testing.T) {
	h := NewHistogram()
	h.Record("a", sample(apperror.CodeQuoteRevert, "camelot"))
	h.Record("b", sample(apperror.CodeSlippageExceeded, "camelot"))
	h.Record("c", sample(apperror.CodeNonMonotonicCurve, "camelot"))
	h.Record("d", sample(apperror.CodeRPCTimeout, "uniswap_v3"))
	h.Record("e", sample(apperror.CodeGasTooHigh, "uniswap_v3"))
	h.Record("f", sample(apperror.Code("SOME_FUTURE_CODE"), "uniswap_v3"))

	got := GateBreakdown(h.Counts())

	for _, bucket := range []string{BucketRevert, BucketSlippage, BucketInfra, BucketOther} {
		if _, ok := got[bucket]; !ok {
			t.Errorf("missing canonical bucket %q", bucket)
		}
	}
	if len(got) != 4 {
		t.Errorf("breakdown has %d buckets, want exactly 4: %+v", len(got), got)
	}

	if got[BucketRevert] != 1 || got[BucketSlippage] != 2 || got[BucketInfra] != 1 || got[BucketOther] != 2 {
		t.Errorf("unexpected bucket counts: %+v", got)
	}

	var sum int64
	for _, n := range got {
		sum += n
	}
	if sum != h.TotalFailures() {
		t.Errorf("bucket sum %d != total failures %d", sum, h.TotalFailures())
	}
}

func TestGateBreakdown_BucketsMatchErrorKinds(t *testing.T) {
	// The bucket table and the error-kind table classify the same codes;
	// every revert-kind code must land in the revert bucket and every
	// infra-kind code in the infra bucket.
	for _, code := range apperror.AllCodes() {
		switch apperror.KindOf(code) {
		case apperror.KindRevert:
			if got := bucketFor(code); got != BucketRevert {
				t.Errorf("bucketFor(%s) = %q, want %q", code, got, BucketRevert)
			}
		case apperror.KindInfra:
			if got := bucketFor(code); got != BucketInfra {
				t.Errorf("bucketFor(%s) = %q, want %q", code, got, BucketInfra)
			}
		}
	}
}

func TestGateBreakdown_EmptyHistogram(t *testing.T) {
	got := GateBreakdown(nil)
	if len(got) != 4 {
		t.Errorf("empty breakdown must still expose 4 buckets, got %+v", got)
	}
	for bucket, n := range got {
		if n != 0 {
			t.Errorf("bucket %s = %d, want 0", bucket, n)
		}
	}
}
