package starknet

import (
	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// UDCAddress is the Universal Deployer Contract on every public network.
var UDCAddress = cairo.MustFelt("0x041a78e741e5af2fec34b695679bc6891742439f7afb8484ecd7766661ad02bf")

var contractAddressPrefix = cairo.MustShortString("STARKNET_CONTRACT_ADDRESS")

// Keccak is starknet_keccak: keccak256 truncated to its low 250 bits.
func Keccak(data []byte) *felt.Felt {
	return crypto.StarknetKeccak(data)
}

// Selector returns the entrypoint selector for a function or event name.
func Selector(name string) *felt.Felt {
	return Keccak([]byte(name))
}

// ContractAddress computes the address a deploy syscall assigns:
// pedersen("STARKNET_CONTRACT_ADDRESS", deployer, salt, class_hash, pedersen(calldata)).
func ContractAddress(deployer, salt, classHash *felt.Felt, calldata []*felt.Felt) *felt.Felt {
	return crypto.PedersenArray(
		contractAddressPrefix,
		deployer,
		salt,
		classHash,
		crypto.PedersenArray(calldata...),
	)
}

// UDCContractAddress computes the address of a contract deployed through the
// UDC by account. Unique deployments mix the account into the salt and use
// the UDC as deployer; otherwise the deployer is zero.
func UDCContractAddress(account, classHash, salt *felt.Felt, unique bool, calldata []*felt.Felt) *felt.Felt {
	if unique {
		return ContractAddress(UDCAddress, crypto.Pedersen(account, salt), classHash, calldata)
	}
	return ContractAddress(&felt.Zero, salt, classHash, calldata)
}

// PoseidonString hashes the serialized byte array of s.
func PoseidonString(s string) *felt.Felt {
	return crypto.PoseidonArray(cairo.CompileString(s)...)
}
