package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
)

const testProfile = `
[account]
account_address = "0x123"
rpc_url = "${TEST_SAI_RPC}"
keystore_path = "keys/deployer.json"

[defaults]
salt = "0x5a17"
unique = false

[transaction]
fee_multiplier = 2.0
poll_interval = "3s"

[declare.world]
[declare.arcade]
name = "arcade_contract"

[deploy.world]
calldata = ["$classes.world"]

[deploy.arcade]
class = "arcade"
once = false
calldata = { owner = "$account" }

[writers]
"blob_arena" = "arcade"
"arcade" = ["0x1", "0x2"]

[players.alice]
account_address = "0xa11ce"
private_key = "0x1"
rpc_url = "http://localhost:5050"
`

func writeProject(t *testing.T, profile string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Scarb.toml"), []byte("[package]\nname = \"blob_arena\"\nversion = \"0.1.0\"\n"), 0o644))
	if profile != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sai_dev.toml"), []byte(profile), 0o644))
	}
	return dir
}

func TestLoadProfile(t *testing.T) {
	t.Setenv("TEST_SAI_RPC", "http://rpc.example")
	dir := writeProject(t, testProfile)

	cfg, order, err := LoadProfile(dir, "dev")
	require.NoError(t, err)

	assert.Equal(t, "0x123", cfg.Account.AccountAddress)
	assert.Equal(t, "http://rpc.example", cfg.Account.RPCURL)
	assert.Equal(t, "0x5a17", cfg.Defaults.Salt)
	require.NotNil(t, cfg.Defaults.Unique)
	assert.False(t, *cfg.Defaults.Unique)
	assert.Nil(t, cfg.Defaults.Once)
	assert.Equal(t, 2.0, cfg.Transaction.FeeMultiplier)
	assert.Equal(t, 3*time.Second, cfg.Transaction.PollInterval)

	// written order, not alphabetical
	assert.Equal(t, []string{"world", "arcade"}, order.Declare)
	assert.Equal(t, []string{"world", "arcade"}, order.Deploy)
	assert.Equal(t, "arcade_contract", cfg.Declare["arcade"].Name)

	assert.Equal(t, []any{"$classes.world"}, cfg.Deploy["world"].Calldata)
	assert.Equal(t, map[string]any{"owner": "$account"}, cfg.Deploy["arcade"].Calldata)
	require.NotNil(t, cfg.Deploy["arcade"].Once)
	assert.False(t, *cfg.Deploy["arcade"].Once)

	assert.Equal(t, "arcade", cfg.Writers["blob_arena"])
	assert.Equal(t, []any{"0x1", "0x2"}, cfg.Writers["arcade"])
	assert.Equal(t, config.DefaultBatchSize, cfg.Seed.BatchSize)
	assert.Equal(t, "0xa11ce", cfg.Players["alice"].AccountAddress)
}

func TestLoadProfileMissing(t *testing.T) {
	dir := writeProject(t, "")
	cfg, order, err := LoadProfile(dir, "dev")
	require.NoError(t, err)
	assert.Empty(t, cfg.Deploy)
	assert.Empty(t, order.Deploy)
}

func TestLoadProfileInvalid(t *testing.T) {
	dir := writeProject(t, "[transaction]\nfee_multiplier = -1.0\n")
	_, _, err := LoadProfile(dir, "dev")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.ErrorContains(t, err, "fee_multiplier")
}

func TestValidateAccount(t *testing.T) {
	tests := []struct {
		name    string
		acc     config.AccountConfig
		wantErr string
	}{
		{
			name: "private key",
			acc:  config.AccountConfig{AccountAddress: "0x1", RPCURL: "http://localhost:5050", PrivateKey: "0x2"},
		},
		{
			name: "keystore",
			acc:  config.AccountConfig{AccountAddress: "0x1", RPCURL: "http://localhost:5050", KeystorePath: "k.json"},
		},
		{
			name:    "no credentials",
			acc:     config.AccountConfig{AccountAddress: "0x1", RPCURL: "http://localhost:5050"},
			wantErr: "private_key or keystore_path is required",
		},
		{
			name:    "no address",
			acc:     config.AccountConfig{RPCURL: "http://localhost:5050", PrivateKey: "0x2"},
			wantErr: "account_address is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccount("account", tt.acc)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestProvider(t *testing.T) {
	t.Setenv("TEST_SAI_RPC", "")
	t.Setenv(EnvRPCURL, "http://fallback.example")
	t.Setenv(EnvPrivateKey, "0xfeed")
	dir := writeProject(t, testProfile)

	v := viper.New()
	v.Set("project_root", dir)
	v.Set("profile", "dev")
	v.Set("account_address", "0x999")
	v.Set("timeout", "1m")

	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, "blob_arena", cfg.PackageName())
	assert.Equal(t, filepath.Join(dir, "manifest_dev.json"), cfg.ManifestPath)
	assert.Equal(t, filepath.Join(dir, "target", "dev"), cfg.TargetDir())
	assert.Equal(t, filepath.Join(dir, "post-deploy-config"), cfg.ConfigDir())
	assert.Equal(t, time.Minute, cfg.Timeout)

	// flag beats profile, profile beats fallback env, fallback fills gaps
	assert.Equal(t, "0x999", cfg.Account.AccountAddress)
	assert.Equal(t, "http://fallback.example", cfg.Account.RPCURL)
	assert.Equal(t, "0xfeed", cfg.Account.PrivateKey)
	assert.Equal(t, "keys/deployer.json", cfg.Account.KeystorePath)
}

func TestFindProjectRoot(t *testing.T) {
	dir := writeProject(t, "")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	root, err := findProjectRootFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, dir, root)

	_, err = findProjectRootFrom(t.TempDir())
	assert.Error(t, err)
}
