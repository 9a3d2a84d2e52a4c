//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/grugslair/blob-arena-contracts/internal/adapters"
	"github.com/grugslair/blob-arena-contracts/internal/config"
	"github.com/grugslair/blob-arena-contracts/internal/logging"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewContractResolver,
		usecase.NewExecuteCalls,
		usecase.NewDeclareClasses,
		usecase.NewDeployContracts,
		usecase.NewGrantPermissions,
		usecase.NewMigrate,
		usecase.NewSeedGameData,
		usecase.NewCallView,
		usecase.NewListContracts,
		usecase.NewShowContract,
		usecase.NewPredictAddress,
		usecase.NewComputeClassHash,
		usecase.NewFetchEvents,
		usecase.NewRunCombat,
		usecase.NewGenerateBindings,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
