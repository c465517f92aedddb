// Package domain contains the gating and spread-evaluation core of the
// scanner context.
package domain

import (
	"github.com/shopspring/decimal"

	"github.com/0xmachado/dexscan/internal/money"
)

// bps10000 caps deviation at 100%.
const deviationCapBps = 10000

// Deviation is the capped basis-point distance of a price from its anchor.
type Deviation struct {
	Bps       int64
	RawBps    int64
	WasCapped bool
}

// CalculateDeviationBps computes |price - anchor| / anchor in basis points,
// rounded half away from zero and capped at 10000. ok is false when the
// anchor is zero or unset: no anchor means the check is skipped, never failed.
func CalculateDeviationBps(price, anchor decimal.Decimal) (Deviation, bool) {
	if anchor.IsZero() {
		return Deviation{}, false
	}

	raw := money.RoundBps(price.Sub(anchor).Abs().Div(anchor).Mul(decimal.NewFromInt(10000)))

	d := Deviation{RawBps: raw, Bps: raw}
	if raw > deviationCapBps {
		d.Bps = deviationCapBps
		d.WasCapped = true
	}
	return d, true
}

// AnchorInfo records which DEX set the anchor for a grid key.
type AnchorInfo struct {
	DexID string
	Price decimal.Decimal
}

// AnchorBook holds the anchor price per (pair, fee, size) key for one scan
// cycle. The anchor DEX's own quotes are gated before any anchor exists, so
// their deviation check passes trivially.
type AnchorBook struct {
	anchors map[GridKey]AnchorInfo
}

// NewAnchorBook creates an empty anchor book.
func NewAnchorBook() *AnchorBook {
	return &AnchorBook{anchors: make(map[GridKey]AnchorInfo)}
}

// Set records the anchor for a key. First write wins: the scan order puts
// the anchor DEX first, and a later quote must not displace it.
func (b *AnchorBook) Set(key GridKey, dexID string, price decimal.Decimal) {
	if _, exists := b.anchors[key]; exists {
		return
	}
	b.anchors[key] = AnchorInfo{DexID: dexID, Price: price}
}

// Get returns the anchor price for a key, or zero and false when no anchor
// has been set yet.
func (b *AnchorBook) Get(key GridKey) (AnchorInfo, bool) {
	info, ok := b.anchors[key]
	return info, ok
}
