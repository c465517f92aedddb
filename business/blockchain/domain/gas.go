// Package domain contains the core domain types for the blockchain context.
package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// GasPrice is a gas price observation in wei.
type GasPrice struct {
	Wei       *big.Int
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int) *GasPrice {
	return &GasPrice{
		Wei:       new(big.Int).Set(wei),
		Timestamp: time.Now(),
	}
}

// Gwei returns the price in gwei as float64. Metrics only; report and
// PnL arithmetic never touch this.
func (p *GasPrice) Gwei() float64 {
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(p.Wei), big.NewFloat(1e9)).Float64()
	return f
}

// GweiDecimal returns the price in gwei as an exact decimal.
func (p *GasPrice) GweiDecimal() decimal.Decimal {
	return decimal.NewFromBigInt(p.Wei, -9)
}

// CostWei returns the total cost in wei of spending gasUnits at this price.
func (p *GasPrice) CostWei(gasUnits uint64) *big.Int {
	return new(big.Int).Mul(p.Wei, new(big.Int).SetUint64(gasUnits))
}
