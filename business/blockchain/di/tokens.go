// Package di contains dependency injection tokens for the blockchain context.
package di

import (
	"github.com/0xmachado/dexscan/business/blockchain/app"
	"github.com/0xmachado/dexscan/internal/di"
)

// Public service tokens - exposed to other modules
var (
	BlockchainService = di.NewToken[*app.BlockchainService]("blockchain.BlockchainService")
	ChainClient       = di.NewToken[app.ChainClient]("blockchain.ChainClient")
)

// Private dependency tokens - internal to blockchain module
var (
	HeadSource = di.NewToken[app.HeadSource]("blockchain:headSource")
	GasOracle  = di.NewToken[app.GasOracle]("blockchain:gasOracle")
)

// Helper functions for type-safe access
func GetBlockchainService(c di.ServiceRegistry) *app.BlockchainService {
	return di.GetToken(c, BlockchainService)
}

func GetChainClient(c di.ServiceRegistry) app.ChainClient {
	return di.GetToken(c, ChainClient)
}

func GetHeadSource(c di.ServiceRegistry) app.HeadSource {
	return di.GetToken(c, HeadSource)
}

func GetGasOracle(c di.ServiceRegistry) app.GasOracle {
	return di.GetToken(c, GasOracle)
}
