package usecase

import (
	"context"
	"encoding/json"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// ManifestStore persists the manifest of the active profile
type ManifestStore interface {
	Load(ctx context.Context) (*models.Manifest, error)
	Save(ctx context.Context, manifest *models.Manifest) error
	Path() string
}

// ClassArtifact is a compiled class ready to be declared
type ClassArtifact struct {
	Tag               string
	Name              string
	SierraPath        string
	CasmPath          string
	Sierra            *starknet.SierraClass
	Casm              *starknet.CasmClass
	ClassHash         *felt.Felt
	CompiledClassHash *felt.Felt
}

// ArtifactRepository loads scarb build output
type ArtifactRepository interface {
	// LoadClass resolves and hashes the artifacts of a [declare.<tag>] entry.
	LoadClass(ctx context.Context, tag string, decl config.DeclareConfig) (*ClassArtifact, error)
	// LoadFiles hashes explicit artifact files; casmPath may be empty.
	LoadFiles(ctx context.Context, sierraPath, casmPath string) (*ClassArtifact, error)
}

// ChainReader reads on-chain state
type ChainReader interface {
	IsClassDeclared(ctx context.Context, classHash *felt.Felt) (bool, error)
	IsContractDeployed(ctx context.Context, address *felt.Felt) (bool, error)
	ClassHashAt(ctx context.Context, address *felt.Felt) (*felt.Felt, error)
	// ClassABI returns the class ABI as a JSON array.
	ClassABI(ctx context.Context, classHash *felt.Felt) (json.RawMessage, error)
	Call(ctx context.Context, call starknet.Call) ([]*felt.Felt, error)
	Receipt(ctx context.Context, hash *felt.Felt) (*starknet.Receipt, error)
	Events(ctx context.Context, filter starknet.EventFilter) ([]starknet.Event, error)
}

// Account signs and submits transactions
type Account interface {
	Address() *felt.Felt
	Execute(ctx context.Context, calls []starknet.Call) (*felt.Felt, error)
	Declare(ctx context.Context, class *starknet.SierraClass, classHash, compiledClassHash *felt.Felt) (*felt.Felt, error)
	WaitForTransaction(ctx context.Context, hash *felt.Felt) (*starknet.TxStatus, error)
	// WaitForAcceptance waits past RECEIVED, until the receipt exists.
	WaitForAcceptance(ctx context.Context, hash *felt.Felt) (*starknet.TxStatus, error)
	// SignOutsideExecution signs calls for caller to submit through
	// execute_from_outside_v2 and returns the call caller makes.
	SignOutsideExecution(ctx context.Context, caller *felt.Felt, calls []starknet.Call) (starknet.Call, error)
}

// AccountProvider opens signing accounts. The empty name is the profile
// account; other names refer to [players.<name>].
type AccountProvider interface {
	Account(ctx context.Context, name string) (Account, error)
}

// DocumentLoader reads game configuration documents by name, such as
// "loadouts-classic", from the profile's configuration directory
type DocumentLoader interface {
	LoadDocument(ctx context.Context, name string) (map[string]any, error)
}

// TagSelector handles interactive selection of manifest tags
type TagSelector interface {
	SelectTag(ctx context.Context, tags []string, prompt string) (string, error)
}

// BindingSpec describes the Go bindings of one contract
type BindingSpec struct {
	Package   string
	TypeName  string
	Tag       string
	ClassHash string
	// ABI is the compact ABI JSON embedded in the bindings.
	ABI       string
	Functions []*cairo.Function
}

// BindingGenerator renders Go bindings for a contract
type BindingGenerator interface {
	GenerateBindings(ctx context.Context, spec *BindingSpec) (string, error)
}

// FileWriter handles file system operations for generated files
type FileWriter interface {
	WriteFile(ctx context.Context, path string, content string) error
	FileExists(ctx context.Context, path string) (bool, error)
}

// LocalConfigStore persists the per-checkout sai.local.toml
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata any
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
