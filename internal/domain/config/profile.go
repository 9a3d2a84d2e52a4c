package config

import "time"

// ScarbConfig is the subset of Scarb.toml the tool reads.
type ScarbConfig struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// ProfileConfig represents a sai_<profile>.toml file.
type ProfileConfig struct {
	Account     AccountConfig            `toml:"account"`
	Defaults    DefaultsConfig           `toml:"defaults"`
	Transaction TransactionConfig        `toml:"transaction"`
	Declare     map[string]DeclareConfig `toml:"declare"`
	Deploy      map[string]DeployConfig  `toml:"deploy"`
	Classes     map[string]ClassRef      `toml:"classes"`
	Contracts   map[string]ContractRef   `toml:"contracts"`
	Writers     map[string]any           `toml:"writers"`
	Owners      map[string]any           `toml:"owners"`
	Variables   map[string]any           `toml:"variables"`
	Players     map[string]AccountConfig `toml:"players"`
	Seed        SeedConfig               `toml:"seed"`
}

// AccountConfig holds the credentials of a signing account. Either a private
// key or a keystore must be available once flags and env are applied.
type AccountConfig struct {
	AccountAddress string `toml:"account_address" validate:"required,startswith=0x"`
	RPCURL         string `toml:"rpc_url" validate:"required,url"`
	PrivateKey     string `toml:"private_key" validate:"required_without=KeystorePath"`
	KeystorePath   string `toml:"keystore_path"`
	Password       string `toml:"password"`
}

// DefaultsConfig applies to deploy entries that leave a field unset.
type DefaultsConfig struct {
	Salt   string `toml:"salt"`
	Unique *bool  `toml:"unique"`
	Once   *bool  `toml:"once"`
}

// TransactionConfig tunes fees and finality polling.
type TransactionConfig struct {
	FeeMultiplier float64       `toml:"fee_multiplier" validate:"gte=0"`
	PollInterval  time.Duration `toml:"poll_interval"`
	Tip           uint64        `toml:"tip"`
	// Bounds, when set, replaces fee estimation.
	Bounds *BoundsConfig `toml:"bounds"`
}

type BoundsConfig struct {
	L1Gas     BoundConfig `toml:"l1_gas"`
	L2Gas     BoundConfig `toml:"l2_gas"`
	L1DataGas BoundConfig `toml:"l1_data_gas"`
}

type BoundConfig struct {
	MaxAmount       uint64 `toml:"max_amount"`
	MaxPricePerUnit string `toml:"max_price_per_unit"`
}

// DeclareConfig is a [declare.<tag>] entry. Name defaults to the tag.
type DeclareConfig struct {
	Name         string `toml:"name"`
	ContractPath string `toml:"contract_path"`
	CasmPath     string `toml:"casm_path"`
}

// DeployConfig is a [deploy.<tag>] entry.
type DeployConfig struct {
	Class     string `toml:"class"`
	ClassHash string `toml:"class_hash"`
	Salt      string `toml:"salt"`
	Unique    *bool  `toml:"unique"`
	Once      *bool  `toml:"once"`
	// Calldata is a list of felt-ish values, or a table of constructor
	// arguments by name.
	Calldata any `toml:"calldata"`
}

// ClassRef names a class declared elsewhere.
type ClassRef struct {
	ClassHash string `toml:"class_hash"`
}

// ContractRef names a contract deployed elsewhere, such as a VRF provider.
type ContractRef struct {
	ContractAddress string `toml:"contract_address"`
	ClassHash       string `toml:"class_hash"`
}

// SeedConfig controls game data seeding.
type SeedConfig struct {
	ConfigDir string `toml:"config_dir"`
	BatchSize int    `toml:"batch_size" validate:"gte=0"`
	// Tags overrides the contract tag a seed target writes to.
	Tags map[string]string `toml:"tags"`
	// UnlockAmount is the number of games a seeded unlock code grants.
	UnlockAmount uint64 `toml:"unlock_amount"`
}

// DefaultBatchSize is the number of calls per seeding multicall.
const DefaultBatchSize = 70
