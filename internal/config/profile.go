package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
)

// loadEnvFiles loads .env then .env.local from the project root.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", path, err)
		}
	}
}

// LoadScarb reads Scarb.toml. Returns (nil, nil) when it does not exist.
func LoadScarb(projectRoot string) (*config.ScarbConfig, error) {
	path := filepath.Join(projectRoot, "Scarb.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.ScarbConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse Scarb.toml: %w", err)
	}
	return &cfg, nil
}

// ProfilePath is the location of a profile's sai_<profile>.toml.
func ProfilePath(projectRoot, profile string) string {
	return filepath.Join(projectRoot, fmt.Sprintf("sai_%s.toml", profile))
}

// LoadProfile reads sai_<profile>.toml. A missing file yields an empty
// profile so that commands without chain access still work.
func LoadProfile(projectRoot, profile string) (*config.ProfileConfig, config.ProfileOrder, error) {
	var (
		cfg   config.ProfileConfig
		order config.ProfileOrder
	)
	path := ProfilePath(projectRoot, profile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &cfg, order, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, order, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	// toml tables decode into maps; keep the written order for declaring and
	// deploying in the sequence the author chose
	for _, key := range md.Keys() {
		if len(key) != 2 {
			continue
		}
		switch key[0] {
		case "declare":
			order.Declare = append(order.Declare, key[1])
		case "deploy":
			order.Deploy = append(order.Deploy, key[1])
		}
	}

	expandAccount(&cfg.Account)
	for name, player := range cfg.Players {
		expandAccount(&player)
		cfg.Players[name] = player
	}
	if cfg.Seed.BatchSize == 0 {
		cfg.Seed.BatchSize = config.DefaultBatchSize
	}

	if err := validate().Struct(cfg.Transaction); err != nil {
		return nil, order, validationError("transaction", err)
	}
	return &cfg, order, nil
}

// expandAccount expands environment variables in every credential field.
func expandAccount(acc *config.AccountConfig) {
	acc.AccountAddress = os.ExpandEnv(acc.AccountAddress)
	acc.RPCURL = os.ExpandEnv(acc.RPCURL)
	acc.PrivateKey = os.ExpandEnv(acc.PrivateKey)
	acc.KeystorePath = os.ExpandEnv(acc.KeystorePath)
	acc.Password = os.ExpandEnv(acc.Password)
}

var (
	validateOnce  sync.Once
	validatorInst *validator.Validate
)

func validate() *validator.Validate {
	validateOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		validatorInst.RegisterTagNameFunc(func(f reflect.StructField) string {
			return tomlName(f.Tag.Get("toml"), f.Name)
		})
	})
	return validatorInst
}

// ValidateAccount checks that an account can sign: it needs an address, an
// RPC endpoint and either a private key or a keystore.
func ValidateAccount(name string, acc config.AccountConfig) error {
	if err := validate().Struct(acc); err != nil {
		return validationError(name, err)
	}
	return nil
}

func validationError(section string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, section, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "required_without":
			msgs = append(msgs, fe.Field()+" or keystore_path is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s fails %s %s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrInvalidConfig, section, strings.Join(msgs, ", "))
}

func tomlName(tag, fallback string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return fallback
	}
	return name
}
