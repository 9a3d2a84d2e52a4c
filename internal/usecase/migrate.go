package usecase

import (
	"context"
	"errors"

	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
)

// MigrateResult contains the result of each migration step
type MigrateResult struct {
	Declare *DeclareClassesResult
	Deploy  *DeployContractsResult
	Grant   *GrantPermissionsResult
}

// Migrate declares, deploys and grants permissions in sequence. A failing
// step stops the run unless keep-going is set, in which case the remaining
// steps run and every error is returned at the end.
type Migrate struct {
	config   *config.RuntimeConfig
	declare  *DeclareClasses
	deploy   *DeployContracts
	grant    *GrantPermissions
	progress ProgressSink
}

// NewMigrate creates a new Migrate use case
func NewMigrate(
	cfg *config.RuntimeConfig,
	declare *DeclareClasses,
	deploy *DeployContracts,
	grant *GrantPermissions,
	progress ProgressSink,
) *Migrate {
	return &Migrate{config: cfg, declare: declare, deploy: deploy, grant: grant, progress: progress}
}

// Run runs the migration
func (uc *Migrate) Run(ctx context.Context) (*MigrateResult, error) {
	result := &MigrateResult{}
	var errs []error
	step := func(name string, run func() error) bool {
		uc.progress.Info(name)
		if err := run(); err != nil {
			errs = append(errs, err)
			uc.progress.Error(err.Error())
			return uc.config.KeepGoing
		}
		return true
	}

	_ = step("Declaring classes", func() (err error) {
		result.Declare, err = uc.declare.Run(ctx, DeclareClassesParams{})
		return err
	}) && step("Deploying contracts", func() (err error) {
		result.Deploy, err = uc.deploy.Run(ctx, DeployContractsParams{})
		return err
	}) && step("Granting permissions", func() (err error) {
		result.Grant, err = uc.grant.Run(ctx)
		return err
	})

	return result, errors.Join(errs...)
}
