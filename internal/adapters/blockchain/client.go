package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/drc/internal/domain/config"
)

// Client is a connected ledger client pinned to one chain
type Client struct {
	*ethclient.Client
	chainID uint64
}

// Dial connects to the configured network and verifies its chain ID
func Dial(ctx context.Context, network *config.Network) (*Client, error) {
	if network == nil || network.RPCURL == "" {
		return nil, fmt.Errorf("no RPC URL configured")
	}

	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	c := &Client{Client: client}
	// If chainID was 0, use the network's chain ID
	if network.ChainID == 0 {
		c.chainID = networkChainID.Uint64()
	} else if networkChainID.Uint64() != network.ChainID {
		client.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", network.ChainID, networkChainID.Uint64())
	} else {
		c.chainID = network.ChainID
	}

	return c, nil
}

// ChainIDValue returns the verified chain ID
func (c *Client) ChainIDValue() uint64 {
	return c.chainID
}

// CheckContractExists reports whether code is deployed at address
func (c *Client) CheckContractExists(ctx context.Context, address common.Address) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	code, err := c.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return len(code) > 0, nil
}
