package starknet

import (
	"math/big"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

var (
	invokePrefix  = cairo.MustShortString("invoke")
	declarePrefix = cairo.MustShortString("declare")

	l1GasName     = new(big.Int).SetBytes([]byte("L1_GAS"))
	l2GasName     = new(big.Int).SetBytes([]byte("L2_GAS"))
	l1DataGasName = new(big.Int).SetBytes([]byte("L1_DATA"))

	// queryBit is added to the version of transactions sent for estimation only.
	queryBit = new(big.Int).Lsh(big.NewInt(1), 128)
)

// Call is a single contract invocation inside a multicall.
type Call struct {
	To       *felt.Felt
	Selector *felt.Felt
	Calldata []*felt.Felt
}

// ExecuteCalldata encodes calls for a Cairo 1 account's __execute__:
// [n_calls, (to, selector, calldata_len, calldata...)...].
func ExecuteCalldata(calls []Call) []*felt.Felt {
	out := []*felt.Felt{new(felt.Felt).SetUint64(uint64(len(calls)))}
	for _, c := range calls {
		out = append(out, c.To, c.Selector, new(felt.Felt).SetUint64(uint64(len(c.Calldata))))
		out = append(out, c.Calldata...)
	}
	return out
}

// ResourceBound caps one fee resource.
type ResourceBound struct {
	MaxAmount       uint64
	MaxPricePerUnit *big.Int
}

// ResourceBounds are the V3 fee limits.
type ResourceBounds struct {
	L1Gas     ResourceBound
	L2Gas     ResourceBound
	L1DataGas ResourceBound
}

func (b ResourceBound) pack(name *big.Int) *felt.Felt {
	v := new(big.Int).Lsh(name, 192)
	v.Or(v, new(big.Int).Lsh(new(big.Int).SetUint64(b.MaxAmount), 128))
	if b.MaxPricePerUnit != nil {
		v.Or(v, b.MaxPricePerUnit)
	}
	return cairo.FeltFromBig(v)
}

func feeFieldsHash(tip uint64, bounds ResourceBounds) *felt.Felt {
	return crypto.PoseidonArray(
		new(felt.Felt).SetUint64(tip),
		bounds.L1Gas.pack(l1GasName),
		bounds.L2Gas.pack(l2GasName),
		bounds.L1DataGas.pack(l1DataGasName),
	)
}

// TxCommon holds the V3 fields shared by invoke and declare.
type TxCommon struct {
	Sender  *felt.Felt
	Nonce   *felt.Felt
	ChainID *felt.Felt
	Tip     uint64
	Bounds  ResourceBounds
	// Query marks estimation-only transactions.
	Query bool
}

func (c TxCommon) version() *felt.Felt {
	v := big.NewInt(3)
	if c.Query {
		v.Add(v, queryBit)
	}
	return cairo.FeltFromBig(v)
}

// InvokeV3 is an account invoke transaction.
type InvokeV3 struct {
	TxCommon
	Calldata []*felt.Felt
}

// Hash computes the V3 invoke transaction hash. Paymaster and account
// deployment data are always empty and data availability is L1 for both.
func (tx *InvokeV3) Hash() *felt.Felt {
	return crypto.PoseidonArray(
		invokePrefix,
		tx.version(),
		tx.Sender,
		feeFieldsHash(tx.Tip, tx.Bounds),
		crypto.PoseidonArray(),
		tx.ChainID,
		tx.Nonce,
		new(felt.Felt),
		crypto.PoseidonArray(),
		crypto.PoseidonArray(tx.Calldata...),
	)
}

// DeclareV3 declares a Sierra class.
type DeclareV3 struct {
	TxCommon
	ClassHash         *felt.Felt
	CompiledClassHash *felt.Felt
}

// Hash computes the V3 declare transaction hash.
func (tx *DeclareV3) Hash() *felt.Felt {
	return crypto.PoseidonArray(
		declarePrefix,
		tx.version(),
		tx.Sender,
		feeFieldsHash(tx.Tip, tx.Bounds),
		crypto.PoseidonArray(),
		tx.ChainID,
		tx.Nonce,
		new(felt.Felt),
		crypto.PoseidonArray(),
		tx.ClassHash,
		tx.CompiledClassHash,
	)
}
