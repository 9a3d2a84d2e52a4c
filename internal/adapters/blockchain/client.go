package blockchain

import (
	"context"
	"fmt"
	"sync"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// ClientProvider dials the profile's RPC endpoint on first use, so commands
// that never touch the chain run without one.
type ClientProvider struct {
	rpcURL string

	mu     sync.Mutex
	client *starknet.Client
}

// NewClientProvider creates a provider for the configured endpoint
func NewClientProvider(cfg *config.RuntimeConfig) *ClientProvider {
	return &ClientProvider{rpcURL: cfg.Account.RPCURL}
}

// Client returns the shared client, dialing it if needed
func (p *ClientProvider) Client(ctx context.Context) (*starknet.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	if p.rpcURL == "" {
		return nil, fmt.Errorf("%w: no rpc url (set --rpc-url, [account] rpc_url or STARKNET_RPC_URL)", domain.ErrInvalidConfig)
	}
	client, err := starknet.DialContext(ctx, p.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	p.client = client
	return client, nil
}

// Close releases the connection, if one was made
func (p *ClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}
