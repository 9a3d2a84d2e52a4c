package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/iter"

	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

var udcDeploySelector = starknet.Selector("deployContract")

// DeployContractsParams contains parameters for deploying contracts
type DeployContractsParams struct {
	// Tags restricts the run to these [deploy] entries; empty deploys all.
	Tags []string
}

// DeployedContract is the outcome for one [deploy] entry
type DeployedContract struct {
	Tag             string
	ContractAddress string
	ClassHash       string
	AlreadyDeployed bool
	Failed          bool
}

// DeployContractsResult contains the result of deploying contracts
type DeployContractsResult struct {
	Contracts       []DeployedContract
	TransactionHash string
	DryRun          bool
}

// DeployContracts deploys the profile's contracts through the UDC in a single
// multicall, skipping once-only entries whose address already holds a
// contract.
type DeployContracts struct {
	config    *config.RuntimeConfig
	manifests ManifestStore
	resolver  *ContractResolver
	chain     ChainReader
	accounts  AccountProvider
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployContracts creates a new DeployContracts use case
func NewDeployContracts(
	cfg *config.RuntimeConfig,
	manifests ManifestStore,
	resolver *ContractResolver,
	chain ChainReader,
	accounts AccountProvider,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContracts {
	return &DeployContracts{
		config:    cfg,
		manifests: manifests,
		resolver:  resolver,
		chain:     chain,
		accounts:  accounts,
		progress:  progress,
		log:       log,
	}
}

// Run deploys the contracts. When the deploy transaction fails the entries
// are still recorded, with status failed, before the error is returned.
func (uc *DeployContracts) Run(ctx context.Context, params DeployContractsParams) (*DeployContractsResult, error) {
	tags, err := selectTags(params.Tags, uc.config.ProfileOrder.Deploy, "deploy entry")
	if err != nil {
		return nil, err
	}
	result := &DeployContractsResult{DryRun: uc.config.DryRun}
	if len(tags) == 0 {
		return result, nil
	}

	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	planner, err := newDeployPlanner(uc.config, m, uc.resolver)
	if err != nil {
		return nil, err
	}

	plans := make([]*PlannedDeployment, 0, len(tags))
	for i, tag := range tags {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "planning",
			Current: i + 1,
			Total:   len(tags),
			Message: fmt.Sprintf("Preparing %s", tag),
			Spinner: true,
		})
		planned, err := planner.plan(ctx, tag)
		if err != nil {
			return nil, err
		}
		plans = append(plans, planned)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "checking",
		Message: "Checking existing deployments",
		Spinner: true,
	})
	deployed, err := iter.MapErr(plans, func(p **PlannedDeployment) (bool, error) {
		if !(*p).Once {
			return false, nil
		}
		return uc.chain.IsContractDeployed(ctx, (*p).Address)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check deployments: %w", err)
	}

	var toDeploy []*PlannedDeployment
	for i, planned := range plans {
		if deployed[i] {
			uc.progress.Info(fmt.Sprintf(" - %s already deployed", planned.Tag))
			record := planned.Record(planner.deployer)
			record.Status = models.DeploymentConfirmed
			m.AddDeployment(record)
			result.Contracts = append(result.Contracts, deployedContract(planned, true, false))
			continue
		}
		uc.progress.Info(fmt.Sprintf(" - %s...", planned.Tag))
		toDeploy = append(toDeploy, planned)
	}

	if result.DryRun {
		for _, planned := range toDeploy {
			result.Contracts = append(result.Contracts, deployedContract(planned, false, false))
		}
		return result, nil
	}

	var deployErr error
	if len(toDeploy) > 0 {
		result.TransactionHash, deployErr = uc.deploy(ctx, toDeploy)
		for _, planned := range toDeploy {
			record := planned.Record(planner.deployer)
			record.TransactionHash = result.TransactionHash
			record.DeployedAt = time.Now().UTC()
			record.Status = models.DeploymentConfirmed
			if deployErr != nil {
				record.Status = models.DeploymentFailed
			}
			m.AddDeployment(record)
			result.Contracts = append(result.Contracts, deployedContract(planned, false, deployErr != nil))
		}
	}

	if err := uc.manifests.Save(ctx, m); err != nil {
		return result, fmt.Errorf("failed to save manifest: %w", err)
	}
	if deployErr != nil {
		return result, fmt.Errorf("failed to deploy %s: %w", lo.Map(toDeploy, func(p *PlannedDeployment, _ int) string { return p.Tag }), deployErr)
	}
	return result, nil
}

func (uc *DeployContracts) deploy(ctx context.Context, plans []*PlannedDeployment) (string, error) {
	account, err := uc.accounts.Account(ctx, "")
	if err != nil {
		return "", err
	}
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deploying",
		Message: fmt.Sprintf("Deploying %d contracts", len(plans)),
		Spinner: true,
	})
	hash, err := account.Execute(ctx, lo.Map(plans, func(p *PlannedDeployment, _ int) starknet.Call {
		return UDCDeployCall(p)
	}))
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	uc.log.Debug("deploy sent", "hash", cairo.Hex(hash), "contracts", len(plans))
	return cairo.Hex(hash), waitFor(ctx, account, hash)
}

// UDCDeployCall is the deployContract call for a planned deployment.
func UDCDeployCall(p *PlannedDeployment) starknet.Call {
	unique := &felt.Zero
	if p.Unique {
		unique = new(felt.Felt).SetUint64(1)
	}
	data := make([]*felt.Felt, 0, 4+len(p.Constructor))
	data = append(data, p.ClassHash, p.Salt, unique, new(felt.Felt).SetUint64(uint64(len(p.Constructor))))
	data = append(data, p.Constructor...)
	return starknet.Call{To: starknet.UDCAddress, Selector: udcDeploySelector, Calldata: data}
}

func deployedContract(p *PlannedDeployment, already, failed bool) DeployedContract {
	return DeployedContract{
		Tag:             p.Tag,
		ContractAddress: cairo.Hex(p.Address),
		ClassHash:       cairo.Hex(p.ClassHash),
		AlreadyDeployed: already,
		Failed:          failed,
	}
}
