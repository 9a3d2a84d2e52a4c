package senders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/samber/lo"

	"github.com/grugslair/blob-arena-contracts/internal/adapters/blockchain"
	"github.com/grugslair/blob-arena-contracts/internal/adapters/interactive"
	cfgpkg "github.com/grugslair/blob-arena-contracts/internal/config"
	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// Service opens signing accounts: the profile account and [players.<name>]
type Service struct {
	account   config.AccountConfig
	players   map[string]config.AccountConfig
	tx        config.TransactionConfig
	clients   *blockchain.ClientProvider
	passwords *interactive.PasswordPrompter
	log       *slog.Logger

	mu     sync.Mutex
	opened map[string]*starknet.Account
}

// NewService creates a new account service
func NewService(
	cfg *config.RuntimeConfig,
	clients *blockchain.ClientProvider,
	passwords *interactive.PasswordPrompter,
	log *slog.Logger,
) *Service {
	s := &Service{
		account:   cfg.Account,
		clients:   clients,
		passwords: passwords,
		log:       log,
		opened:    make(map[string]*starknet.Account),
	}
	if cfg.ProfileConfig != nil {
		s.players = cfg.ProfileConfig.Players
		s.tx = cfg.ProfileConfig.Transaction
	}
	return s
}

// Account opens the named account. Accounts are validated and unlocked on
// first use and cached afterwards.
func (s *Service) Account(ctx context.Context, name string) (usecase.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acc, ok := s.opened[name]; ok {
		return acc, nil
	}
	acc, label, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if err := cfgpkg.ValidateAccount(label, acc); err != nil {
		return nil, err
	}

	key, err := s.privateKey(acc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	signer, err := starknet.NewSigner(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	address, err := cairo.ParseFelt(acc.AccountAddress)
	if err != nil {
		return nil, fmt.Errorf("%s: account_address: %w", label, err)
	}
	client, err := s.clients.Client(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := accountOptions(s.tx)
	if err != nil {
		return nil, err
	}

	opened := starknet.NewAccount(client, address, signer, opts)
	s.opened[name] = opened
	s.log.Debug("opened account", "name", label, "address", cairo.Hex(address))
	return opened, nil
}

// lookup returns the named credentials; players share the profile endpoint
// unless they set their own
func (s *Service) lookup(name string) (config.AccountConfig, string, error) {
	if name == "" {
		return s.account, "account", nil
	}
	player, ok := s.players[name]
	if !ok {
		// Try case-insensitive lookup
		for key, p := range s.players {
			if strings.EqualFold(key, name) {
				player, ok = p, true
				break
			}
		}
	}
	if !ok {
		return config.AccountConfig{}, "", domain.NewTagNotFound("player", name, lo.Keys(s.players))
	}
	player.RPCURL = lo.CoalesceOrEmpty(player.RPCURL, s.account.RPCURL)
	return player, "players." + name, nil
}

func (s *Service) privateKey(acc config.AccountConfig) (*felt.Felt, error) {
	if acc.PrivateKey != "" {
		return cairo.ParseFelt(acc.PrivateKey)
	}
	password := acc.Password
	if password == "" {
		var err error
		if password, err = s.passwords.Password(acc.KeystorePath); err != nil {
			return nil, err
		}
	}
	return starknet.ReadKeystore(acc.KeystorePath, password)
}

func accountOptions(tx config.TransactionConfig) (starknet.AccountOptions, error) {
	opts := starknet.AccountOptions{
		FeeMultiplier: tx.FeeMultiplier,
		PollInterval:  tx.PollInterval,
		Tip:           tx.Tip,
	}
	if tx.Bounds == nil {
		return opts, nil
	}
	var bounds starknet.ResourceBounds
	for _, b := range []struct {
		name string
		in   config.BoundConfig
		out  *starknet.ResourceBound
	}{
		{"l1_gas", tx.Bounds.L1Gas, &bounds.L1Gas},
		{"l2_gas", tx.Bounds.L2Gas, &bounds.L2Gas},
		{"l1_data_gas", tx.Bounds.L1DataGas, &bounds.L1DataGas},
	} {
		price, err := cairo.BigInt(lo.CoalesceOrEmpty(b.in.MaxPricePerUnit, "0"))
		if err != nil {
			return opts, fmt.Errorf("%w: transaction.bounds.%s: %v", domain.ErrInvalidConfig, b.name, err)
		}
		*b.out = starknet.ResourceBound{MaxAmount: b.in.MaxAmount, MaxPricePerUnit: price}
	}
	opts.Bounds = &bounds
	return opts, nil
}

// Ensure the service implements the interface
var _ usecase.AccountProvider = (*Service)(nil)
