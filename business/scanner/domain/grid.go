package domain

import (
	"github.com/shopspring/decimal"

	pricing "github.com/0xmachado/dexscan/business/pricing/domain"
)

// GridKey identifies one cell of the scan grid: quotes are grouped,
// anchored, and compared across DEXes per (pair, fee, trade size).
type GridKey struct {
	Pair string
	Fee  int64
	Size string // canonical decimal string of the base-token trade size
}

// NewGridKey builds the key for a quote at a given trade size.
func NewGridKey(q *pricing.Quote, size decimal.Decimal) GridKey {
	return GridKey{
		Pair: q.PairKey(),
		Fee:  q.Fee(),
		Size: size.String(),
	}
}
