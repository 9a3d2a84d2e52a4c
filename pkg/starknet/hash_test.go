package starknet_test

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

func TestSelector(t *testing.T) {
	assert.Equal(t,
		"0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e",
		cairo.Hex(starknet.Selector("transfer")),
	)
	// starknet_keccak keeps only 250 bits
	assert.LessOrEqual(t, cairo.ToBig(starknet.Selector("__execute__")).BitLen(), 250)
}

func TestContractAddress(t *testing.T) {
	// mainnet deploy 0x6486c6303dba2f364c684a2e9609211c5b8e417e767f37b527cda51e776e6f0
	got := starknet.ContractAddress(
		&felt.Zero,
		cairo.MustFelt("0x74dc2fe193daf1abd8241b63329c1123214842b96ad7fd003d25512598a956b"),
		cairo.MustFelt("0x46f844ea1a3b3668f81d38b5c1bd55e816e0373802aefe732138628f0133486"),
		mainnetCalldata(),
	)
	assert.Equal(t, "0x3ec215c6c9028ff671b46a2a9814970ea23ed3c4bcc3838c6d1dcbf395263c3", cairo.Hex(got))
}

func mainnetCalldata() []*felt.Felt {
	return []*felt.Felt{
		cairo.MustFelt("0x6d706cfbac9b8262d601c38251c5fbe0497c3a96cc91a92b08d91b61d9e70c4"),
		cairo.MustFelt("0x79dc0da7c54b95f10aa182ad0a46400db63156920adb65eca2654c0945a463"),
		cairo.MustFelt("0x2"),
		cairo.MustFelt("0x6658165b4984816ab189568637bedec5aa0a18305909c7f5726e4a16e3afef6"),
		cairo.MustFelt("0x6b648b36b074a91eee55730f5f5e075ec19c0a8f9ffb0903cefeee93b6ff328"),
	}
}

func TestUDCContractAddress(t *testing.T) {
	assert.Equal(t, "0x41a78e741e5af2fec34b695679bc6891742439f7afb8484ecd7766661ad02bf", cairo.Hex(starknet.UDCAddress))

	account := cairo.MustFelt("0x2fab82e4aef1d8664874e1f194951856d48463c3e6bf9a8c68e234a629a6f50")
	classHash := cairo.MustFelt("0x46f844ea1a3b3668f81d38b5c1bd55e816e0373802aefe732138628f0133486")
	salt := cairo.MustFelt("0x74dc2fe193daf1abd8241b63329c1123214842b96ad7fd003d25512598a956b")

	tests := []struct {
		name    string
		account *felt.Felt
		unique  bool
		want    string
	}{
		{"not unique", account, false, "0x3ec215c6c9028ff671b46a2a9814970ea23ed3c4bcc3838c6d1dcbf395263c3"},
		{"not unique other deployer", cairo.MustFelt("0x9999"), false, "0x3ec215c6c9028ff671b46a2a9814970ea23ed3c4bcc3838c6d1dcbf395263c3"},
		{"unique", account, true, "0xcce390a5782fce70b17b6a1f37187c541f697656d36ffcf69519588fc31321"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := starknet.UDCContractAddress(tt.account, classHash, salt, tt.unique, mainnetCalldata())
			assert.Equal(t, tt.want, cairo.Hex(got))
		})
	}

	other := starknet.UDCContractAddress(cairo.MustFelt("0x9999"), classHash, salt, true, mainnetCalldata())
	assert.NotEqual(t, "0xcce390a5782fce70b17b6a1f37187c541f697656d36ffcf69519588fc31321", cairo.Hex(other), "unique deployments depend on the deployer")
}

func TestExecuteCalldata(t *testing.T) {
	calls := []starknet.Call{
		{To: cairo.MustFelt("0x1"), Selector: cairo.MustFelt("0x2"), Calldata: []*felt.Felt{cairo.MustFelt("0x3"), cairo.MustFelt("0x4")}},
		{To: cairo.MustFelt("0x5"), Selector: cairo.MustFelt("0x6")},
	}
	got := cairo.HexAll(starknet.ExecuteCalldata(calls))
	assert.Equal(t, []string{"0x2", "0x1", "0x2", "0x2", "0x3", "0x4", "0x5", "0x6", "0x0"}, got)
}

func testBounds() starknet.ResourceBounds {
	return starknet.ResourceBounds{
		L1Gas:     starknet.ResourceBound{MaxAmount: 100000, MaxPricePerUnit: big.NewInt(100000000000000)},
		L2Gas:     starknet.ResourceBound{MaxAmount: 33554432, MaxPricePerUnit: big.NewInt(12000000000)},
		L1DataGas: starknet.ResourceBound{MaxAmount: 512, MaxPricePerUnit: big.NewInt(1000000000)},
	}
}

func TestTransactionHashes(t *testing.T) {
	common := starknet.TxCommon{
		Sender:  cairo.MustFelt("0x3f6f3bc663aedc5285d6013cc3ffcbc4341d86ab488b8b68d297f8258793c41"),
		Nonce:   cairo.MustFelt("0xe97"),
		ChainID: cairo.MustShortString("SN_SEPOLIA"),
		Bounds:  testBounds(),
	}
	// one STRK transfer of 0.01 to 0x1234
	calldata := starknet.ExecuteCalldata([]starknet.Call{{
		To:       cairo.MustFelt("0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"),
		Selector: starknet.Selector("transfer"),
		Calldata: []*felt.Felt{cairo.MustFelt("0x1234"), cairo.MustFelt("0x2386f26fc10000"), cairo.MustFelt("0x0")},
	}})
	invoke := &starknet.InvokeV3{TxCommon: common, Calldata: calldata}
	assert.Equal(t, "0x7e92f9118414a7c2cda864d557ebdcd0db68bd2045d398e6d9dbf1370b0ca53", cairo.Hex(invoke.Hash()))

	query := *invoke
	query.Query = true
	assert.Equal(t, "0x14687360b6d5a05e7b5334c5eaca8250e75ba9369fa48fb06c46c6ed4d5f565", cairo.Hex(query.Hash()))

	bumped := *invoke
	bumped.Tip = 1
	assert.False(t, invoke.Hash().Equal(bumped.Hash()))

	common.Nonce = cairo.MustFelt("0xe98")
	declare := &starknet.DeclareV3{
		TxCommon:          common,
		ClassHash:         cairo.MustFelt("0xc6c634d10e2cc7b1db6b4403b477f05e39cb4900fd5ea0156d1721dbb6c59b"),
		CompiledClassHash: cairo.MustFelt("0x603dd72504d8b0bc54df4f1102fdcf87fc3b2b94750a9083a5876913eec08e4"),
	}
	assert.Equal(t, "0x301b14b809635e0f1619064cc7a6c9baccb98cc19cb9d06f17c90d080619d57", cairo.Hex(declare.Hash()))
}

const sierraFixture = `{
  "sierra_program": ["0x1", "0x2", "0x3"],
  "contract_class_version": "0.1.0",
  "entry_points_by_type": {
    "EXTERNAL": [{"selector": "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e", "function_idx": 0}],
    "L1_HANDLER": [],
    "CONSTRUCTOR": []
  },
  "abi": [
    {"type": "function", "name": "transfer", "inputs": [{"name": "to", "type": "core::felt252"}], "outputs": [], "state_mutability": "external"}
  ]
}`

func TestSierraClass(t *testing.T) {
	var class starknet.SierraClass
	require.NoError(t, json.Unmarshal([]byte(sierraFixture), &class))

	abi, err := class.ABIString()
	require.NoError(t, err)
	assert.Equal(t,
		`[{"type": "function", "name": "transfer", "inputs": [{"name": "to", "type": "core::felt252"}], "outputs": [], "state_mutability": "external"}]`,
		abi,
	)

	h1, err := class.ClassHash()
	require.NoError(t, err)

	class.SierraProgram = append(class.SierraProgram, cairo.MustFelt("0x4"))
	h2, err := class.ClassHash()
	require.NoError(t, err)
	assert.False(t, h1.Equal(h2))
}

func TestABIArray(t *testing.T) {
	want := `[{"type":"function","name":"f"}]`

	out, err := starknet.ABIArray(json.RawMessage(`[ {"type": "function", "name": "f"} ]`))
	require.NoError(t, err)
	assert.Equal(t, want, string(out))

	out, err = starknet.ABIArray(json.RawMessage(`"[{\"type\": \"function\", \"name\": \"f\"}]"`))
	require.NoError(t, err)
	assert.Equal(t, want, string(out))

	out, err = starknet.ABIArray(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCompiledClassHash(t *testing.T) {
	base := `{
	  "prime": "0x800000000000011000000000000000000000000000000000000000000000001",
	  "compiler_version": "2.9.2",
	  "bytecode": ["0x1", "0x2", "0x3"],
	  %s
	  "entry_points_by_type": {
	    "EXTERNAL": [{"selector": "0x1", "offset": 0, "builtins": ["range_check"]}],
	    "L1_HANDLER": [],
	    "CONSTRUCTOR": []
	  }
	}`
	load := func(segments string) *starknet.CasmClass {
		var c starknet.CasmClass
		require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf(base, segments)), &c))
		return &c
	}

	flat, err := load("").CompiledClassHash()
	require.NoError(t, err)

	segmented, err := load(`"bytecode_segment_lengths": [1, 2],`).CompiledClassHash()
	require.NoError(t, err)
	assert.False(t, flat.Equal(segmented))

	_, err = load(`"bytecode_segment_lengths": [1, 1],`).CompiledClassHash()
	assert.ErrorContains(t, err, "cover 2 of 3")
}

func readFixture[T any](t *testing.T, name string) *T {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return &v
}

func TestClassHashFixtures(t *testing.T) {
	// integration network classes with their published hashes
	t.Run("sierra", func(t *testing.T) {
		class := readFixture[starknet.SierraClass](t, "sierra_class.json")
		got, err := class.ClassHash()
		require.NoError(t, err)
		assert.Equal(t, "0xc6c634d10e2cc7b1db6b4403b477f05e39cb4900fd5ea0156d1721dbb6c59b", cairo.Hex(got))
	})

	t.Run("casm", func(t *testing.T) {
		class := readFixture[starknet.CasmClass](t, "compiled_class.json")
		got, err := class.CompiledClassHash()
		require.NoError(t, err)
		assert.Equal(t, "0x603dd72504d8b0bc54df4f1102fdcf87fc3b2b94750a9083a5876913eec08e4", cairo.Hex(got))
	})
}
