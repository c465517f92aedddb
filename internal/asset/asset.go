package asset

import "github.com/ethereum/go-ethereum/common"

// Status marks whether an asset is eligible for scanning.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Asset represents the metadata of an on-chain token.
// It is a reference entity with stable identity (AssetID); the symbol is
// display metadata, not identity. Immutable once constructed.
type Asset struct {
	id       AssetID
	symbol   string
	name     string
	decimals uint8
	core     bool
	status   Status
}

// NewAsset creates a new Asset with the given parameters.
func NewAsset(id AssetID, symbol string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}

	return &Asset{
		id:       id,
		symbol:   symbol,
		decimals: decimals,
		status:   StatusActive,
	}
}

// NewAssetWithName creates a new Asset with a human-readable name.
func NewAssetWithName(id AssetID, symbol, name string, decimals uint8) *Asset {
	a := NewAsset(id, symbol, decimals)
	a.name = name
	return a
}

// AsCore marks the asset as a core numeraire/base token and returns it.
// Core tokens anchor pair intents and PnL normalization.
func (a *Asset) AsCore() *Asset {
	a.core = true
	return a
}

// WithStatus sets the asset status and returns it.
func (a *Asset) WithStatus(s Status) *Asset {
	a.status = s
	return a
}

// ID returns the unique identifier for this asset.
func (a *Asset) ID() AssetID {
	return a.id
}

// Symbol returns the ticker symbol (e.g., "WETH", "USDC").
func (a *Asset) Symbol() string {
	return a.symbol
}

// Name returns the human-readable name (e.g., "Wrapped Ether").
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// ChainID returns the chain ID.
func (a *Asset) ChainID() uint64 {
	return a.id.ChainID()
}

// IsCore returns true for core numeraire/base tokens.
func (a *Asset) IsCore() bool {
	return a.core
}

// Status returns the asset status.
func (a *Asset) Status() Status {
	return a.status
}

// IsActive returns true if the asset is eligible for scanning.
func (a *Asset) IsActive() bool {
	return a.status == StatusActive
}

// IsNative returns true if this is a native coin.
func (a *Asset) IsNative() bool {
	return a.id.IsNative()
}

// IsToken returns true if this is an ERC20 token.
func (a *Asset) IsToken() bool {
	return a.id.IsToken()
}

// String returns a human-readable representation.
func (a *Asset) String() string {
	return a.symbol
}

// Equals compares two Assets by their ID.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.id.Equals(other.id)
}

// Address returns the token contract address (zero for native coins).
func (a *Asset) Address() common.Address {
	return a.id.Address()
}
