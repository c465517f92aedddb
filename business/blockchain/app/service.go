// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"
	"time"

	"github.com/0xmachado/dexscan/business/blockchain/domain"
	"github.com/0xmachado/dexscan/internal/apperror"
)

// BlockchainService coordinates blockchain interactions.
type BlockchainService struct {
	client    ChainClient
	heads     HeadSource
	gasOracle GasOracle
}

// NewBlockchainService creates a new BlockchainService.
func NewBlockchainService(client ChainClient, heads HeadSource, gasOracle GasOracle) *BlockchainService {
	return &BlockchainService{
		client:    client,
		heads:     heads,
		gasOracle: gasOracle,
	}
}

// PinBlock fetches the current chain head and pins it for a scan cycle.
func (s *BlockchainService) PinBlock(ctx context.Context) (*domain.PinnedBlock, error) {
	number, latencyMs, endpoint, err := s.client.BlockNumber(ctx)
	if err != nil {
		return nil, apperror.New(apperror.CodeBlockPinFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to pin block"))
	}

	return &domain.PinnedBlock{
		Number:    number,
		PinnedAt:  time.Now(),
		LatencyMs: latencyMs,
		Endpoint:  endpoint,
	}, nil
}

// GetGasPrice retrieves the current gas price.
func (s *BlockchainService) GetGasPrice(ctx context.Context) (*domain.GasPrice, error) {
	return s.gasOracle.GetGasPrice(ctx)
}

// SubscribeHeads starts the head subscription and returns the channel.
func (s *BlockchainService) SubscribeHeads(ctx context.Context) (<-chan *domain.Block, error) {
	return s.heads.Subscribe(ctx)
}

// Client exposes the chain client for quote adapters.
func (s *BlockchainService) Client() ChainClient {
	return s.client
}

// ConnectionState returns the current head-source connection state.
func (s *BlockchainService) ConnectionState() domain.ConnectionState {
	return s.heads.State()
}
