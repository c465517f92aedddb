package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDArbitrum = 42161
	ChainIDOptimism = 10
	ChainIDBase     = 8453
)

// Well-known token addresses on Arbitrum One
var (
	AddrWETHArbitrum = common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	AddrUSDCArbitrum = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	AddrUSDTArbitrum = common.HexToAddress("0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9")
	AddrARBArbitrum  = common.HexToAddress("0x912CE59144191C1204E64559FE8253a0e49E6548")
	AddrLINKArbitrum = common.HexToAddress("0xf97f4df75117a78c1A5a0DBb814Af92458539FB4")
	AddrWBTCArbitrum = common.HexToAddress("0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f")
)

// Well-known token addresses on Ethereum Mainnet
var (
	AddrWETHEthereum = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	AddrUSDCEthereum = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
)

// Well-known Assets (pre-created instances). Core flags mark the tokens the
// scanner treats as base/numeraire legs.
var (
	// Arbitrum One
	WETH = NewAssetWithName(NewTokenAssetID(ChainIDArbitrum, AddrWETHArbitrum), "WETH", "Wrapped Ether", 18).AsCore()
	USDC = NewAssetWithName(NewTokenAssetID(ChainIDArbitrum, AddrUSDCArbitrum), "USDC", "USD Coin", 6).AsCore()
	USDT = NewAssetWithName(NewTokenAssetID(ChainIDArbitrum, AddrUSDTArbitrum), "USDT", "Tether USD", 6)
	ARB  = NewAssetWithName(NewTokenAssetID(ChainIDArbitrum, AddrARBArbitrum), "ARB", "Arbitrum", 18)
	LINK = NewAssetWithName(NewTokenAssetID(ChainIDArbitrum, AddrLINKArbitrum), "LINK", "ChainLink Token", 18)
	WBTC = NewAssetWithName(NewTokenAssetID(ChainIDArbitrum, AddrWBTCArbitrum), "WBTC", "Wrapped BTC", 8)
)

// DefaultRegistry returns a registry pre-populated with well-known assets.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(WETH)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(ARB)
	r.Register(LINK)
	r.Register(WBTC)

	return r
}

// MustNewToken creates a new ERC20 token asset with the given parameters.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	id := NewTokenAssetID(chainID, address)
	return NewAssetWithName(id, symbol, name, decimals)
}
