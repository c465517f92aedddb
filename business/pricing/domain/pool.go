// Package domain contains the core domain types for the pricing context.
package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xmachado/dexscan/internal/asset"
)

// DexType identifies the quoting adapter family for a DEX.
type DexType string

const (
	DexTypeUniV3   DexType = "univ3"
	DexTypeAlgebra DexType = "algebra"
)

// PoolStatus marks whether a pool participates in scanning.
type PoolStatus string

const (
	PoolActive   PoolStatus = "active"
	PoolDisabled PoolStatus = "disabled"
)

// Pool identifies one quotable pool on one DEX. Token0 and Token1 are
// ordered by address (case-insensitive). Address may be the zero address
// in candidate mode, when the pool has not been discovered on-chain and
// quoting goes through the DEX's quoter contract instead.
type Pool struct {
	ChainID uint64
	Address common.Address
	DexID   string
	DexType DexType
	Token0  *asset.Asset
	Token1  *asset.Asset
	Fee     int64 // hundredths of a bip; 0 for non-fee-tiered DEXes
	Status  PoolStatus
}

// NewPool creates a pool, ordering tokens by address.
func NewPool(chainID uint64, address common.Address, dexID string, dexType DexType, a, b *asset.Asset, fee int64) (*Pool, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("pool %s: nil token", dexID)
	}
	if a.ID().Equals(b.ID()) {
		return nil, fmt.Errorf("pool %s: identical tokens %s", dexID, a.Symbol())
	}

	token0, token1 := a, b
	if !addrLess(a.Address(), b.Address()) {
		token0, token1 = b, a
	}

	return &Pool{
		ChainID: chainID,
		Address: address,
		DexID:   dexID,
		DexType: dexType,
		Token0:  token0,
		Token1:  token1,
		Fee:     fee,
		Status:  PoolActive,
	}, nil
}

// addrLess compares addresses case-insensitively.
func addrLess(a, b common.Address) bool {
	return strings.ToLower(a.Hex()) < strings.ToLower(b.Hex())
}

// PairKey returns the alphabetically sorted "SYM0/SYM1" key for the pool's
// token pair. Stable across DEXes and token ordering.
func (p *Pool) PairKey() string {
	return PairKey(p.Token0.Symbol(), p.Token1.Symbol())
}

// PairKey builds the canonical pair key from two symbols.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "/" + b
}

// IsCandidate reports whether the pool address is a placeholder.
func (p *Pool) IsCandidate() bool {
	return p.Address == (common.Address{})
}

// HasTicks reports whether quotes from this pool carry tick-crossing counts.
func (p *Pool) HasTicks() bool {
	return p.DexType == DexTypeUniV3
}

// String returns a short identifier for logs.
func (p *Pool) String() string {
	if p.Fee > 0 {
		return fmt.Sprintf("%s:%s@%d", p.DexID, p.PairKey(), p.Fee)
	}
	return fmt.Sprintf("%s:%s", p.DexID, p.PairKey())
}
