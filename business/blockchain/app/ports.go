// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xmachado/dexscan/business/blockchain/domain"
)

// ChainClient is the low-level RPC port. Implementations fail over across
// configured endpoints; an error means every endpoint was exhausted.
type ChainClient interface {
	// BlockNumber returns the current chain head, the observed latency and
	// the endpoint that answered.
	BlockNumber(ctx context.Context) (number uint64, latencyMs int64, endpoint string, err error)

	// CallContract executes an eth_call against the given block height.
	// blockNumber must be nonzero: all calls are pinned.
	CallContract(ctx context.Context, to common.Address, data []byte, blockNumber uint64) ([]byte, error)

	// SuggestGasPrice returns the node's suggested gas price in wei.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// ChainID returns the chain id of the connected network.
	ChainID(ctx context.Context) (*big.Int, error)

	// Close releases all underlying connections.
	Close() error
}

// HeadSource streams new chain heads, used to trigger scan cycles.
type HeadSource interface {
	// Subscribe starts listening for new blocks and returns a channel of blocks.
	Subscribe(ctx context.Context) (<-chan *domain.Block, error)

	// LatestBlock retrieves the most recent block.
	LatestBlock(ctx context.Context) (*domain.Block, error)

	// State returns the current connection state.
	State() domain.ConnectionState
}

// GasOracle provides cached gas price information.
type GasOracle interface {
	// GetGasPrice retrieves the current gas price.
	GetGasPrice(ctx context.Context) (*domain.GasPrice, error)
}
