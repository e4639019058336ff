// Package chain talks to the EVM node that deployments target.
package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/tokamak-network/chainops-backend/internal/logger"
	"go.uber.org/zap"
)

type Client struct {
	rpcURL string
	eth    *ethclient.Client
}

func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain rpc: %w", err)
	}
	client := &Client{rpcURL: rpcURL, eth: eth}

	// an unreachable node is reported by the health check, not at startup
	chainID, err := client.ChainID(ctx)
	if err != nil {
		logger.Warn("Chain rpc not answering yet", zap.Error(err))
		return client, nil
	}
	logger.Info("Connected to chain rpc", zap.Uint64("chainId", chainID))
	return client, nil
}

// Ping checks that the node answers by reading the latest block number.
func (c *Client) Ping(ctx context.Context) error {
	blockNumber, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("chain rpc unavailable: %w", err)
	}
	logger.Debug("Chain rpc reachable", zap.Uint64("blockNumber", blockNumber))
	return nil
}

func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read chain id: %w", err)
	}
	return id.Uint64(), nil
}

func (c *Client) Close() {
	c.eth.Close()
}
