package app

import (
	"github.com/grugslair/blob-arena-contracts/internal/adapters/blockchain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Clients *blockchain.ClientProvider

	// Use cases
	DeclareClasses   *usecase.DeclareClasses
	DeployContracts  *usecase.DeployContracts
	GrantPermissions *usecase.GrantPermissions
	Migrate          *usecase.Migrate
	SeedGameData     *usecase.SeedGameData
	ExecuteCalls     *usecase.ExecuteCalls
	CallView         *usecase.CallView
	ListContracts    *usecase.ListContracts
	ShowContract     *usecase.ShowContract
	PredictAddress   *usecase.PredictAddress
	ComputeClassHash *usecase.ComputeClassHash
	FetchEvents      *usecase.FetchEvents
	RunCombat        *usecase.RunCombat
	GenerateBindings *usecase.GenerateBindings
	ShowConfig       *usecase.ShowConfig
	SetConfig        *usecase.SetConfig
	RemoveConfig     *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	clients *blockchain.ClientProvider,
	declareClasses *usecase.DeclareClasses,
	deployContracts *usecase.DeployContracts,
	grantPermissions *usecase.GrantPermissions,
	migrate *usecase.Migrate,
	seedGameData *usecase.SeedGameData,
	executeCalls *usecase.ExecuteCalls,
	callView *usecase.CallView,
	listContracts *usecase.ListContracts,
	showContract *usecase.ShowContract,
	predictAddress *usecase.PredictAddress,
	computeClassHash *usecase.ComputeClassHash,
	fetchEvents *usecase.FetchEvents,
	runCombat *usecase.RunCombat,
	generateBindings *usecase.GenerateBindings,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
) *App {
	return &App{
		Config:           cfg,
		Clients:          clients,
		DeclareClasses:   declareClasses,
		DeployContracts:  deployContracts,
		GrantPermissions: grantPermissions,
		Migrate:          migrate,
		SeedGameData:     seedGameData,
		ExecuteCalls:     executeCalls,
		CallView:         callView,
		ListContracts:    listContracts,
		ShowContract:     showContract,
		PredictAddress:   predictAddress,
		ComputeClassHash: computeClassHash,
		FetchEvents:      fetchEvents,
		RunCombat:        runCombat,
		GenerateBindings: generateBindings,
		ShowConfig:       showConfig,
		SetConfig:        setConfig,
		RemoveConfig:     removeConfig,
	}
}

// Close releases the RPC connection, if one was opened
func (a *App) Close() {
	a.Clients.Close()
}
