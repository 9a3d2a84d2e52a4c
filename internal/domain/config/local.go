package config

// LocalConfig is the per-checkout sai.local.toml. Its keys share names with
// the root flags, so viper applies them as flag defaults.
type LocalConfig struct {
	Profile        string `toml:"profile,omitempty"`
	RPCURL         string `toml:"rpc_url,omitempty"`
	AccountAddress string `toml:"account_address,omitempty"`
	Keystore       string `toml:"keystore,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyProfile        ConfigKey = "profile"
	ConfigKeyRPCURL         ConfigKey = "rpc_url"
	ConfigKeyAccountAddress ConfigKey = "account_address"
	ConfigKeyKeystore       ConfigKey = "keystore"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyProfile,
		ConfigKeyRPCURL,
		ConfigKeyAccountAddress,
		ConfigKeyKeystore,
	}
}

// configKeyAliases maps the flag spellings onto their keys.
var configKeyAliases = map[string]ConfigKey{
	"rpc-url":         ConfigKeyRPCURL,
	"account-address": ConfigKeyAccountAddress,
	"account":         ConfigKeyAccountAddress,
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	if _, ok := configKeyAliases[key]; ok {
		return true
	}
	for _, validKey := range ValidConfigKeys() {
		if string(validKey) == key {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "rpc-url" -> "rpc_url")
func NormalizeConfigKey(key string) ConfigKey {
	if k, ok := configKeyAliases[key]; ok {
		return k
	}
	return ConfigKey(key)
}

// Get returns the value stored under key.
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyProfile:
		return c.Profile
	case ConfigKeyRPCURL:
		return c.RPCURL
	case ConfigKeyAccountAddress:
		return c.AccountAddress
	case ConfigKeyKeystore:
		return c.Keystore
	}
	return ""
}

// Set stores value under key; the empty value clears it.
func (c *LocalConfig) Set(key ConfigKey, value string) {
	switch key {
	case ConfigKeyProfile:
		c.Profile = value
	case ConfigKeyRPCURL:
		c.RPCURL = value
	case ConfigKeyAccountAddress:
		c.AccountAddress = value
	case ConfigKeyKeystore:
		c.Keystore = value
	}
}
