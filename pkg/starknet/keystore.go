package starknet

import (
	"fmt"
	"os"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ReadKeystore decrypts a Web3 secret storage (v3) file, the format starkli
// keystores use, and returns the Stark private key it protects.
func ReadKeystore(path, password string) (*felt.Felt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt keystore %s: %w", path, err)
	}
	raw := ethcrypto.FromECDSA(key.PrivateKey)
	return new(felt.Felt).SetBytes(raw), nil
}
