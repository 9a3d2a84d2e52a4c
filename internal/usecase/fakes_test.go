package usecase_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/mock"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

const (
	creditAddress = "0xc4ed17"
	creditClass   = "0xc1a55"
	accountAddr   = "0xacc0"
)

const creditABI = `[
  {"type": "function", "name": "mint", "inputs": [
    {"name": "to", "type": "core::starknet::contract_address::ContractAddress"},
    {"name": "amount", "type": "core::integer::u128"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "balance_of", "inputs": [
    {"name": "owner", "type": "core::starknet::contract_address::ContractAddress"}
  ], "outputs": [{"type": "core::integer::u128"}], "state_mutability": "view"},
  {"type": "function", "name": "set_unlockable_games", "inputs": [
    {"name": "code", "type": "core::felt252"},
    {"name": "amount", "type": "core::integer::u32"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "grant_contract_writer", "inputs": [
    {"name": "writer", "type": "core::starknet::contract_address::ContractAddress"}
  ], "outputs": [], "state_mutability": "external"}
]`

// memManifests is an in-memory ManifestStore
type memManifests struct {
	mu    sync.Mutex
	m     *models.Manifest
	saves int
}

func newMemManifests() *memManifests {
	return &memManifests{m: models.NewManifest()}
}

// withCredit registers a deployed contract exposing creditABI under tag
func (s *memManifests) withCredit(tag string) *memManifests {
	s.m.Contracts[tag] = &models.Contract{Tag: tag, ContractAddress: creditAddress, ClassHash: creditClass}
	s.m.ABIs[creditClass] = json.RawMessage(creditABI)
	s.m.MarkClean()
	return s
}

func (s *memManifests) Load(context.Context) (*models.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m, nil
}

func (s *memManifests) Save(_ context.Context, m *models.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = m
	s.saves++
	m.MarkClean()
	return nil
}

func (s *memManifests) Path() string { return "manifest_test.json" }

// MockChainReader is a mock implementation of ChainReader
type MockChainReader struct {
	mock.Mock
}

func (m *MockChainReader) IsClassDeclared(ctx context.Context, classHash *felt.Felt) (bool, error) {
	args := m.Called(ctx, cairo.Hex(classHash))
	return args.Bool(0), args.Error(1)
}

func (m *MockChainReader) IsContractDeployed(ctx context.Context, address *felt.Felt) (bool, error) {
	args := m.Called(ctx, cairo.Hex(address))
	return args.Bool(0), args.Error(1)
}

func (m *MockChainReader) ClassHashAt(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	args := m.Called(ctx, cairo.Hex(address))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

func (m *MockChainReader) ClassABI(ctx context.Context, classHash *felt.Felt) (json.RawMessage, error) {
	args := m.Called(ctx, cairo.Hex(classHash))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockChainReader) Call(ctx context.Context, call starknet.Call) ([]*felt.Felt, error) {
	args := m.Called(ctx, call)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*felt.Felt), args.Error(1)
}

func (m *MockChainReader) Receipt(ctx context.Context, hash *felt.Felt) (*starknet.Receipt, error) {
	args := m.Called(ctx, cairo.Hex(hash))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*starknet.Receipt), args.Error(1)
}

func (m *MockChainReader) Events(ctx context.Context, filter starknet.EventFilter) ([]starknet.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]starknet.Event), args.Error(1)
}

// MockAccount is a mock implementation of Account
type MockAccount struct {
	mock.Mock
	address *felt.Felt
}

func newMockAccount(address string) *MockAccount {
	return &MockAccount{address: cairo.MustFelt(address)}
}

func (m *MockAccount) Address() *felt.Felt { return m.address }

func (m *MockAccount) Execute(ctx context.Context, calls []starknet.Call) (*felt.Felt, error) {
	args := m.Called(ctx, calls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

func (m *MockAccount) Declare(ctx context.Context, class *starknet.SierraClass, classHash, compiledClassHash *felt.Felt) (*felt.Felt, error) {
	args := m.Called(ctx, cairo.Hex(classHash))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

func (m *MockAccount) WaitForTransaction(ctx context.Context, hash *felt.Felt) (*starknet.TxStatus, error) {
	args := m.Called(ctx, cairo.Hex(hash))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*starknet.TxStatus), args.Error(1)
}

func (m *MockAccount) WaitForAcceptance(ctx context.Context, hash *felt.Felt) (*starknet.TxStatus, error) {
	args := m.Called(ctx, cairo.Hex(hash))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*starknet.TxStatus), args.Error(1)
}

func (m *MockAccount) SignOutsideExecution(ctx context.Context, caller *felt.Felt, calls []starknet.Call) (starknet.Call, error) {
	args := m.Called(ctx, cairo.Hex(caller), calls)
	return args.Get(0).(starknet.Call), args.Error(1)
}

var succeeded = &starknet.TxStatus{FinalityStatus: "ACCEPTED_ON_L2", ExecutionStatus: "SUCCEEDED"}

// fakeAccounts hands out accounts by [players] name
type fakeAccounts struct {
	accounts map[string]usecase.Account
	opened   []string
}

func (f *fakeAccounts) Account(_ context.Context, name string) (usecase.Account, error) {
	f.opened = append(f.opened, name)
	acc, ok := f.accounts[name]
	if !ok {
		return nil, domain.NewTagNotFound("player", name, nil)
	}
	return acc, nil
}

// fakeArtifacts returns prepared artifacts by tag
type fakeArtifacts map[string]*usecase.ClassArtifact

func (f fakeArtifacts) LoadClass(_ context.Context, tag string, _ config.DeclareConfig) (*usecase.ClassArtifact, error) {
	a, ok := f[tag]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (f fakeArtifacts) LoadFiles(_ context.Context, sierraPath, _ string) (*usecase.ClassArtifact, error) {
	for _, a := range f {
		if a.SierraPath == sierraPath {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeDocuments serves documents from memory
type fakeDocuments map[string]map[string]any

func (f fakeDocuments) LoadDocument(_ context.Context, name string) (map[string]any, error) {
	doc, ok := f[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// recordingSink keeps every Info and Error message
type recordingSink struct {
	usecase.NopProgress
	infos  []string
	errors []string
}

func (s *recordingSink) Info(msg string)  { s.infos = append(s.infos, msg) }
func (s *recordingSink) Error(msg string) { s.errors = append(s.errors, msg) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		ProjectRoot:   "/project",
		Profile:       "dev",
		Account:       config.AccountConfig{AccountAddress: accountAddr},
		ProfileConfig: &config.ProfileConfig{},
	}
}

func hash(s string) *felt.Felt {
	return cairo.MustFelt(s)
}
