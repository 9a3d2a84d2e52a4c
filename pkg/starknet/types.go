package starknet

import (
	"encoding/json"

	"github.com/NethermindEth/juno/core/felt"
)

// BlockID selects the block a read is executed against.
type BlockID struct {
	Tag    string
	Number *uint64
	Hash   *felt.Felt
}

var (
	// Latest is the latest accepted block.
	Latest = BlockID{Tag: "latest"}
	// Pending is the block currently being built.
	Pending = BlockID{Tag: "pending"}
)

func (b BlockID) MarshalJSON() ([]byte, error) {
	switch {
	case b.Number != nil:
		return json.Marshal(map[string]uint64{"block_number": *b.Number})
	case b.Hash != nil:
		return json.Marshal(map[string]string{"block_hash": hexFelt(b.Hash)})
	case b.Tag != "":
		return json.Marshal(b.Tag)
	}
	return json.Marshal("latest")
}

// Transaction finality and execution states.
const (
	StatusReceived     = "RECEIVED"
	StatusRejected     = "REJECTED"
	StatusAcceptedOnL2 = "ACCEPTED_ON_L2"
	StatusAcceptedOnL1 = "ACCEPTED_ON_L1"

	ExecutionSucceeded = "SUCCEEDED"
	ExecutionReverted  = "REVERTED"
)

// SuccessStates are the finality states after which a transaction counts as
// landed.
var SuccessStates = []string{StatusReceived, StatusAcceptedOnL2, StatusAcceptedOnL1}

// AcceptedStates are the finality states after which a receipt is available.
var AcceptedStates = []string{StatusAcceptedOnL2, StatusAcceptedOnL1}

// TxStatus is the result of starknet_getTransactionStatus.
type TxStatus struct {
	FinalityStatus  string `json:"finality_status"`
	ExecutionStatus string `json:"execution_status,omitempty"`
	FailureReason   string `json:"failure_reason,omitempty"`
}

// Event is an emitted event, as found in receipts and getEvents pages.
type Event struct {
	FromAddress     *felt.Felt   `json:"from_address"`
	Keys            []*felt.Felt `json:"keys"`
	Data            []*felt.Felt `json:"data"`
	BlockNumber     uint64       `json:"block_number,omitempty"`
	TransactionHash *felt.Felt   `json:"transaction_hash,omitempty"`
}

// Receipt is the subset of a transaction receipt this tool reads.
type Receipt struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	FinalityStatus  string     `json:"finality_status"`
	ExecutionStatus string     `json:"execution_status"`
	RevertReason    string     `json:"revert_reason,omitempty"`
	BlockNumber     uint64     `json:"block_number,omitempty"`
	ActualFee       struct {
		Amount *felt.Felt `json:"amount"`
		Unit   string     `json:"unit"`
	} `json:"actual_fee"`
	Events []Event `json:"events"`
}

// EventFilter is the starknet_getEvents filter.
type EventFilter struct {
	FromBlock         *BlockID       `json:"from_block,omitempty"`
	ToBlock           *BlockID       `json:"to_block,omitempty"`
	Address           *felt.Felt     `json:"-"`
	Keys              [][]*felt.Felt `json:"-"`
	ChunkSize         int            `json:"chunk_size"`
	ContinuationToken string         `json:"continuation_token,omitempty"`
}

func (f EventFilter) MarshalJSON() ([]byte, error) {
	type alias EventFilter
	out := struct {
		alias
		Address string     `json:"address,omitempty"`
		Keys    [][]string `json:"keys,omitempty"`
	}{alias: alias(f)}
	if f.Address != nil {
		out.Address = hexFelt(f.Address)
	}
	for _, group := range f.Keys {
		keys := make([]string, len(group))
		for i, k := range group {
			keys[i] = hexFelt(k)
		}
		out.Keys = append(out.Keys, keys)
	}
	return json.Marshal(out)
}

// EventsPage is one page of starknet_getEvents.
type EventsPage struct {
	Events            []Event `json:"events"`
	ContinuationToken string  `json:"continuation_token,omitempty"`
}

// FeeEstimate is one entry of starknet_estimateFee (RPC 0.8 layout).
type FeeEstimate struct {
	L1GasConsumed     *felt.Felt `json:"l1_gas_consumed"`
	L1GasPrice        *felt.Felt `json:"l1_gas_price"`
	L2GasConsumed     *felt.Felt `json:"l2_gas_consumed"`
	L2GasPrice        *felt.Felt `json:"l2_gas_price"`
	L1DataGasConsumed *felt.Felt `json:"l1_data_gas_consumed"`
	L1DataGasPrice    *felt.Felt `json:"l1_data_gas_price"`
	OverallFee        *felt.Felt `json:"overall_fee"`
	Unit              string     `json:"unit"`
}

// ClassDefinition is the part of starknet_getClass this tool reads.
type ClassDefinition struct {
	ContractClassVersion string          `json:"contract_class_version"`
	ABI                  json.RawMessage `json:"abi"`
}

// AddTxResult is the response of the add*Transaction methods.
type AddTxResult struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ClassHash       *felt.Felt `json:"class_hash,omitempty"`
}

type functionCall struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

type resourceBoundJSON struct {
	MaxAmount       string `json:"max_amount"`
	MaxPricePerUnit string `json:"max_price_per_unit"`
}

type resourceBoundsJSON struct {
	L1Gas     resourceBoundJSON `json:"l1_gas"`
	L2Gas     resourceBoundJSON `json:"l2_gas"`
	L1DataGas resourceBoundJSON `json:"l1_data_gas"`
}

type broadcastedTxCommon struct {
	Type                      string             `json:"type"`
	SenderAddress             string             `json:"sender_address"`
	Version                   string             `json:"version"`
	Signature                 []string           `json:"signature"`
	Nonce                     string             `json:"nonce"`
	ResourceBounds            resourceBoundsJSON `json:"resource_bounds"`
	Tip                       string             `json:"tip"`
	PaymasterData             []string           `json:"paymaster_data"`
	AccountDeploymentData     []string           `json:"account_deployment_data"`
	NonceDataAvailabilityMode string             `json:"nonce_data_availability_mode"`
	FeeDataAvailabilityMode   string             `json:"fee_data_availability_mode"`
}

type broadcastedInvoke struct {
	broadcastedTxCommon
	Calldata []string `json:"calldata"`
}

type declareContractClass struct {
	SierraProgram        []string          `json:"sierra_program"`
	ContractClassVersion string            `json:"contract_class_version"`
	EntryPointsByType    sierraEntryPoints `json:"entry_points_by_type"`
	ABI                  string            `json:"abi"`
}

type sierraEntryPoint struct {
	Selector    string `json:"selector"`
	FunctionIdx uint64 `json:"function_idx"`
}

type sierraEntryPoints struct {
	External    []sierraEntryPoint `json:"EXTERNAL"`
	L1Handler   []sierraEntryPoint `json:"L1_HANDLER"`
	Constructor []sierraEntryPoint `json:"CONSTRUCTOR"`
}

type broadcastedDeclare struct {
	broadcastedTxCommon
	CompiledClassHash string               `json:"compiled_class_hash"`
	ContractClass     declareContractClass `json:"contract_class"`
}
