package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
)

// Fallback environment variables, shared with the dojo toolchain.
const (
	EnvRPCURL         = "STARKNET_RPC_URL"
	EnvAccountAddress = "DOJO_ACCOUNT_ADDRESS"
	EnvPrivateKey     = "DOJO_PRIVATE_KEY"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	// .env values are fallbacks; variables already set win
	loadEnvFiles(projectRoot)

	profile := v.GetString("profile")
	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		Profile:        profile,
		ManifestPath:   v.GetString("manifest"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		DryRun:         v.GetBool("dry_run"),
		KeepGoing:      v.GetBool("keep_going"),
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = filepath.Join(projectRoot, fmt.Sprintf("manifest_%s.json", profile))
	}

	cfg.Scarb, err = LoadScarb(projectRoot)
	if err != nil {
		return nil, err
	}

	profileConfig, order, err := LoadProfile(projectRoot, profile)
	if err != nil {
		return nil, err
	}
	cfg.ProfileConfig = profileConfig
	cfg.ProfileOrder = order
	cfg.Account = resolveAccount(v, profileConfig.Account)

	return cfg, nil
}

// resolveAccount applies flag > profile > fallback env precedence.
func resolveAccount(v *viper.Viper, acc config.AccountConfig) config.AccountConfig {
	return config.AccountConfig{
		AccountAddress: lo.CoalesceOrEmpty(v.GetString("account_address"), acc.AccountAddress, os.Getenv(EnvAccountAddress)),
		RPCURL:         lo.CoalesceOrEmpty(v.GetString("rpc_url"), acc.RPCURL, os.Getenv(EnvRPCURL)),
		PrivateKey:     lo.CoalesceOrEmpty(v.GetString("private_key"), acc.PrivateKey, os.Getenv(EnvPrivateKey)),
		KeystorePath:   lo.CoalesceOrEmpty(v.GetString("keystore"), acc.KeystorePath),
		Password:       lo.CoalesceOrEmpty(v.GetString("password"), acc.Password),
	}
}

// FindProjectRoot walks up from current directory to find Scarb.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRootFrom(dir)
}

func findProjectRootFrom(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "Scarb.toml")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("not in a Scarb project (Scarb.toml not found)")
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Optional per-checkout overrides, never committed
	v.SetConfigFile(filepath.Join(projectRoot, "sai.local.toml"))

	v.SetEnvPrefix("SAI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("profile", "dev")
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			panic(err)
		}
	})

	return v
}
