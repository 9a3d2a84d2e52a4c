package adapters

import (
	"github.com/google/wire"

	"github.com/grugslair/blob-arena-contracts/internal/adapters/blockchain"
	"github.com/grugslair/blob-arena-contracts/internal/adapters/documents"
	"github.com/grugslair/blob-arena-contracts/internal/adapters/fs"
	"github.com/grugslair/blob-arena-contracts/internal/adapters/interactive"
	"github.com/grugslair/blob-arena-contracts/internal/adapters/repository/artifacts"
	"github.com/grugslair/blob-arena-contracts/internal/adapters/repository/manifest"
	"github.com/grugslair/blob-arena-contracts/internal/adapters/senders"
	"github.com/grugslair/blob-arena-contracts/internal/adapters/template"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewFileWriterAdapter,
	wire.Bind(new(usecase.FileWriter), new(*fs.FileWriterAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),
)

// RepositorySet provides the manifest, artifact and document repositories
var RepositorySet = wire.NewSet(
	manifest.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.ManifestStore), new(*manifest.FileRepository)),

	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),

	documents.NewLoader,
	wire.Bind(new(usecase.DocumentLoader), new(*documents.Loader)),
)

// TemplateSet provides template-based implementations
var TemplateSet = wire.NewSet(
	template.NewBindingsGeneratorAdapter,
	wire.Bind(new(usecase.BindingGenerator), new(*template.BindingsGeneratorAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.TagSelector), new(*interactive.SelectorAdapter)),

	interactive.NewPasswordPrompter,
)

// BlockchainSet provides Starknet-backed implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewClientProvider,

	blockchain.NewReaderAdapter,
	wire.Bind(new(usecase.ChainReader), new(*blockchain.ReaderAdapter)),

	senders.NewService,
	wire.Bind(new(usecase.AccountProvider), new(*senders.Service)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	RepositorySet,
	TemplateSet,
	InteractiveSet,
	BlockchainSet,
)
