package usecase

import (
	"context"
	"fmt"

	"github.com/grugslair/blob-arena-contracts/internal/calldata"
	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
)

// GrantPermissionsResult contains the result of granting permissions
type GrantPermissionsResult struct {
	Calls     []domain.Call
	Execution *ExecuteCallsResult
}

// GrantPermissions hands out the profile's [writers] and [owners] in one
// multicall
type GrantPermissions struct {
	config  *config.RuntimeConfig
	execute *ExecuteCalls
}

// NewGrantPermissions creates a new GrantPermissions use case
func NewGrantPermissions(cfg *config.RuntimeConfig, execute *ExecuteCalls) *GrantPermissions {
	return &GrantPermissions{config: cfg, execute: execute}
}

// Run grants the permissions
func (uc *GrantPermissions) Run(ctx context.Context) (*GrantPermissionsResult, error) {
	writers, err := calldata.PermissionCalls(calldata.GrantWriter, uc.config.ProfileConfig.Writers)
	if err != nil {
		return nil, fmt.Errorf("writers: %w", err)
	}
	owners, err := calldata.PermissionCalls(calldata.GrantOwner, uc.config.ProfileConfig.Owners)
	if err != nil {
		return nil, fmt.Errorf("owners: %w", err)
	}

	result := &GrantPermissionsResult{Calls: append(writers, owners...)}
	if len(result.Calls) == 0 {
		return result, nil
	}
	result.Execution, err = uc.execute.Run(ctx, ExecuteCallsParams{Calls: result.Calls})
	return result, err
}
