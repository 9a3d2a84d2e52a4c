package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/samber/lo"

	"github.com/grugslair/blob-arena-contracts/internal/calldata"
	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// PlannedDeployment is a [deploy] entry with every default applied and its
// UDC address computed.
type PlannedDeployment struct {
	Tag         string
	ClassTag    string
	ClassHash   *felt.Felt
	Salt        *felt.Felt
	Unique      bool
	Once        bool
	Calldata    any
	Constructor []*felt.Felt
	Address     *felt.Felt
}

// Record converts the plan to a manifest deployment record.
func (p *PlannedDeployment) Record(deployer *felt.Felt) *models.Deployment {
	return &models.Deployment{
		Contract: models.Contract{
			Tag:             p.Tag,
			ContractAddress: cairo.Hex(p.Address),
			ClassHash:       cairo.Hex(p.ClassHash),
			Class:           p.ClassTag,
		},
		Salt:                cairo.Hex(p.Salt),
		Unique:              p.Unique,
		Calldata:            p.Calldata,
		ConstructorCalldata: cairo.HexAll(p.Constructor),
		DeployerAddress:     cairo.Hex(deployer),
	}
}

// deployPlanner resolves [deploy] entries. Value references to contracts of
// the same run resolve to their computed addresses, so entries are planned
// depth first with cycle detection.
type deployPlanner struct {
	profile  *config.ProfileConfig
	manifest *models.Manifest
	resolver *ContractResolver
	deployer *felt.Felt
	salt     *felt.Felt // run default when the profile sets none

	plans    map[string]*PlannedDeployment
	visiting map[string]bool
}

func newDeployPlanner(cfg *config.RuntimeConfig, m *models.Manifest, resolver *ContractResolver) (*deployPlanner, error) {
	if cfg.Account.AccountAddress == "" {
		return nil, fmt.Errorf("%w: account address is required to compute deployment addresses", domain.ErrNoAccount)
	}
	deployer, err := cairo.ParseFelt(cfg.Account.AccountAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid account address %q: %w", cfg.Account.AccountAddress, err)
	}
	p := &deployPlanner{
		profile:  cfg.ProfileConfig,
		manifest: m,
		resolver: resolver,
		deployer: deployer,
		plans:    map[string]*PlannedDeployment{},
		visiting: map[string]bool{},
	}
	if p.profile.Defaults.Salt != "" {
		if p.salt, err = cairo.Felt(p.profile.Defaults.Salt); err != nil {
			return nil, fmt.Errorf("defaults.salt: %w", err)
		}
	} else if p.salt, err = calldata.RandomSalt(nil); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *deployPlanner) plan(ctx context.Context, tag string) (*PlannedDeployment, error) {
	if planned, ok := p.plans[tag]; ok {
		return planned, nil
	}
	entry, ok := p.profile.Deploy[tag]
	if !ok {
		return nil, domain.NewTagNotFound("deploy entry", tag, lo.Keys(p.profile.Deploy))
	}
	if p.visiting[tag] {
		return nil, fmt.Errorf("%w: deploy entry %s references itself through its calldata", domain.ErrInvalidConfig, tag)
	}
	p.visiting[tag] = true
	defer delete(p.visiting, tag)

	planned := &PlannedDeployment{
		Tag:      tag,
		Unique:   boolOr(entry.Unique, boolOr(p.profile.Defaults.Unique, false)),
		Once:     boolOr(entry.Once, boolOr(p.profile.Defaults.Once, true)),
		Calldata: entry.Calldata,
	}

	var err error
	if planned.Salt, err = p.saltFor(tag, entry); err != nil {
		return nil, fmt.Errorf("deploy %s: salt: %w", tag, err)
	}
	if planned.ClassTag, planned.ClassHash, err = p.classFor(tag, entry); err != nil {
		return nil, fmt.Errorf("deploy %s: %w", tag, err)
	}

	args, err := p.resolveRefs(ctx, entry.Calldata)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: calldata: %w", tag, err)
	}
	switch args := args.(type) {
	case nil:
	case map[string]any:
		abi, err := p.resolver.ClassABI(ctx, p.manifest, cairo.Hex(planned.ClassHash))
		if err != nil {
			return nil, fmt.Errorf("deploy %s: %w", tag, err)
		}
		if planned.Constructor, err = abi.EncodeInputs(cairo.EntryConstructor, args); err != nil {
			return nil, fmt.Errorf("deploy %s: %w", tag, err)
		}
	case []any:
		if planned.Constructor, err = cairo.Felts(args...); err != nil {
			return nil, fmt.Errorf("deploy %s: calldata: %w", tag, err)
		}
	default:
		return nil, fmt.Errorf("%w: deploy %s: calldata must be a list or a table, got %T", domain.ErrInvalidConfig, tag, args)
	}

	planned.Address = starknet.UDCContractAddress(p.deployer, planned.ClassHash, planned.Salt, planned.Unique, planned.Constructor)
	p.plans[tag] = planned
	return planned, nil
}

// saltFor applies the salt defaults. Without an explicit salt a previously
// recorded deployment keeps its salt, so reruns find the same address.
func (p *deployPlanner) saltFor(tag string, entry config.DeployConfig) (*felt.Felt, error) {
	if entry.Salt != "" {
		return cairo.Felt(entry.Salt)
	}
	if p.profile.Defaults.Salt == "" {
		if rec, ok := p.manifest.Deployments[tag]; ok && rec.Salt != "" && rec.Status != models.DeploymentFailed {
			return cairo.ParseFelt(rec.Salt)
		}
	}
	return p.salt, nil
}

func (p *deployPlanner) classFor(tag string, entry config.DeployConfig) (string, *felt.Felt, error) {
	if entry.ClassHash != "" {
		hash, err := cairo.ParseFelt(entry.ClassHash)
		return entry.Class, hash, err
	}
	classTag := entry.Class
	if classTag == "" {
		classTag = tag
	}
	class, err := p.manifest.Class(classTag)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", domain.ErrClassNotDeclared, err)
	}
	hash, err := cairo.ParseFelt(class.ClassHash)
	return classTag, hash, err
}

// resolveRefs replaces $account, $contracts.<tag>, $classes.<tag> and
// $variables.<name> strings anywhere in v.
func (p *deployPlanner) resolveRefs(ctx context.Context, v any) (any, error) {
	switch x := v.(type) {
	case string:
		return p.resolveRef(ctx, x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			r, err := p.resolveRefs(ctx, item)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			r, err := p.resolveRefs(ctx, item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = r
		}
		return out, nil
	}
	return v, nil
}

func (p *deployPlanner) resolveRef(ctx context.Context, s string) (any, error) {
	if !strings.HasPrefix(s, "$") {
		return s, nil
	}
	if s == "$account" {
		return cairo.Hex(p.deployer), nil
	}
	kind, name, ok := strings.Cut(s[1:], ".")
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: malformed reference %q", domain.ErrInvalidConfig, s)
	}
	switch kind {
	case "contracts":
		if _, ok := p.profile.Deploy[name]; ok {
			planned, err := p.plan(ctx, name)
			if err != nil {
				return nil, err
			}
			return cairo.Hex(planned.Address), nil
		}
		c, err := p.manifest.Contract(name)
		if err != nil {
			return nil, err
		}
		return c.ContractAddress, nil
	case "classes":
		c, err := p.manifest.Class(name)
		if err != nil {
			return nil, err
		}
		return c.ClassHash, nil
	case "variables":
		key := "$variables." + name
		value, ok := p.profile.Variables[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown variable %q", domain.ErrInvalidConfig, name)
		}
		if p.visiting[key] {
			return nil, fmt.Errorf("%w: variable %s references itself", domain.ErrInvalidConfig, name)
		}
		p.visiting[key] = true
		defer delete(p.visiting, key)
		return p.resolveRefs(ctx, value)
	}
	return nil, fmt.Errorf("%w: unknown reference kind %q in %q", domain.ErrInvalidConfig, kind, s)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
