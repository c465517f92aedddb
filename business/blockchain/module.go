// Package blockchain implements the blockchain bounded context for EVM integration.
package blockchain

import (
	"context"
	"math/big"

	"github.com/0xmachado/dexscan/business/blockchain/app"
	blockchainDI "github.com/0xmachado/dexscan/business/blockchain/di"
	"github.com/0xmachado/dexscan/business/blockchain/infra/ethereum"
	"github.com/0xmachado/dexscan/internal/config"
	"github.com/0xmachado/dexscan/internal/di"
	"github.com/0xmachado/dexscan/internal/logger"
	"github.com/0xmachado/dexscan/internal/monolith"
)

// Module implements the blockchain bounded context.
type Module struct{}

// RegisterServices registers all blockchain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register ChainClient (public - quote adapters call through it)
	di.RegisterToken(c, blockchainDI.ChainClient, func(sr di.ServiceRegistry) app.ChainClient {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		clientCfg := ethereum.DefaultFailoverClientConfig(cfg.Chain.RPCEndpoints)
		if cfg.Chain.RequestTimeout > 0 {
			clientCfg.RequestTimeout = cfg.Chain.RequestTimeout
		}
		if cfg.Chain.RateLimitRPS > 0 {
			clientCfg.RateLimitRPS = cfg.Chain.RateLimitRPS
		}

		client, err := ethereum.NewFailoverClient(clientCfg, log)
		if err != nil {
			panic("failed to create failover client: " + err.Error())
		}
		return client
	})

	// Register HeadSource (private - internal dependency)
	di.RegisterToken(c, blockchainDI.HeadSource, func(sr di.ServiceRegistry) app.HeadSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		httpURL := ""
		if len(cfg.Chain.RPCEndpoints) > 0 {
			httpURL = cfg.Chain.RPCEndpoints[0]
		}
		srcCfg := ethereum.DefaultHeadSourceConfig(cfg.Chain.WebSocketURL, httpURL)
		src, err := ethereum.NewHeadSubscriber(srcCfg, log)
		if err != nil {
			panic("failed to create head subscriber: " + err.Error())
		}
		return src
	})

	// Register GasOracle (private - internal dependency)
	di.RegisterToken(c, blockchainDI.GasOracle, func(sr di.ServiceRegistry) app.GasOracle {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := blockchainDI.GetChainClient(sr)

		oracleCfg := ethereum.DefaultGasOracleConfig()
		if cfg.Chain.GasPriceTTL > 0 {
			oracleCfg.CacheTTL = cfg.Chain.GasPriceTTL
		}
		if cfg.Chain.MaxGasPriceGwei > 0 {
			oracleCfg.MaxGasPrice = new(big.Int).Mul(
				big.NewInt(cfg.Chain.MaxGasPriceGwei), big.NewInt(1e9))
		}

		oracle, err := ethereum.NewGasOracle(oracleCfg, client, log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return oracle
	})

	// Register BlockchainService (public - exposed to other modules)
	di.RegisterToken(c, blockchainDI.BlockchainService, func(sr di.ServiceRegistry) *app.BlockchainService {
		client := blockchainDI.GetChainClient(sr)
		heads := blockchainDI.GetHeadSource(sr)
		oracle := blockchainDI.GetGasOracle(sr)
		return app.NewBlockchainService(client, heads, oracle)
	})

	return nil
}

// Startup initializes the blockchain module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	// Verify the configured chain id matches the connected network.
	client := blockchainDI.GetChainClient(mono.Services())
	chainID, err := client.ChainID(ctx)
	if err != nil {
		log.Warn(ctx, "could not verify chain id at startup", "error", err)
	} else if chainID.Uint64() != mono.Config().Chain.ChainID {
		log.Error(ctx, "chain id mismatch",
			"configured", mono.Config().Chain.ChainID,
			"connected", chainID.Uint64())
	}

	log.Info(ctx, "blockchain module started",
		"endpoints", len(mono.Config().Chain.RPCEndpoints))
	return nil
}
