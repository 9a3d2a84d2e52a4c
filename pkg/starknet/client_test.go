package starknet_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// fakeNode answers JSON-RPC requests from a per-method handler table.
type fakeNode struct {
	mu       sync.Mutex
	handlers map[string]func(params []json.RawMessage) (any, *rpcError)
	calls    map[string]int
}

func newFakeNode(t *testing.T) (*fakeNode, *starknet.Client) {
	t.Helper()
	node := &fakeNode{
		handlers: map[string]func([]json.RawMessage) (any, *rpcError){},
		calls:    map[string]int{},
	}
	srv := httptest.NewServer(http.HandlerFunc(node.serve))
	t.Cleanup(srv.Close)

	client, err := starknet.DialContext(context.Background(), srv.URL)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return node, client
}

func (n *fakeNode) handle(method string, fn func(params []json.RawMessage) (any, *rpcError)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = fn
}

func (n *fakeNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func (n *fakeNode) serve(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n.mu.Lock()
	fn, ok := n.handlers[req.Method]
	n.calls[req.Method]++
	n.mu.Unlock()

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = rpcError{Code: -32601, Message: "method not found"}
	} else if result, rerr := fn(req.Params); rerr != nil {
		resp["error"] = rerr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func TestClientChainIDAndNonce(t *testing.T) {
	node, client := newFakeNode(t)
	node.handle("starknet_chainId", func([]json.RawMessage) (any, *rpcError) {
		return "0x534e5f5345504f4c4941", nil
	})
	node.handle("starknet_getNonce", func(params []json.RawMessage) (any, *rpcError) {
		var block string
		_ = json.Unmarshal(params[0], &block)
		if block != "pending" {
			return nil, &rpcError{Code: 24, Message: "block not found"}
		}
		return "0x5", nil
	})

	ctx := context.Background()
	id, err := client.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SN_SEPOLIA", cairo.DecodeShortString(id))

	nonce, err := client.Nonce(ctx, starknet.Pending, cairo.MustFelt("0x1"))
	require.NoError(t, err)
	assert.Equal(t, "0x5", cairo.Hex(nonce))
}

func TestClientNotFoundErrors(t *testing.T) {
	node, client := newFakeNode(t)
	node.handle("starknet_getClassHashAt", func([]json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: 20, Message: "Contract not found"}
	})
	node.handle("starknet_getClass", func([]json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: 28, Message: "Class hash not found"}
	})

	ctx := context.Background()
	_, err := client.ClassHashAt(ctx, starknet.Latest, cairo.MustFelt("0x1"))
	assert.ErrorIs(t, err, starknet.ErrContractNotFound)

	_, err = client.Class(ctx, starknet.Latest, cairo.MustFelt("0x1"))
	assert.ErrorIs(t, err, starknet.ErrClassNotFound)
}

func TestClientAllEvents(t *testing.T) {
	node, client := newFakeNode(t)
	pages := []map[string]any{
		{"events": []map[string]any{{"from_address": "0x1", "keys": []string{"0xa"}, "data": []string{}}}, "continuation_token": "10,1"},
		{"events": []map[string]any{{"from_address": "0x1", "keys": []string{"0xb"}, "data": []string{"0x2"}}}, "continuation_token": "10,0"},
	}
	node.handle("starknet_getEvents", func(params []json.RawMessage) (any, *rpcError) {
		var filter map[string]any
		_ = json.Unmarshal(params[0], &filter)
		if filter["continuation_token"] == "10,1" {
			return pages[1], nil
		}
		return pages[0], nil
	})

	events, err := client.AllEvents(context.Background(), starknet.EventFilter{Address: cairo.MustFelt("0x1")})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "0xb", cairo.Hex(events[1].Keys[0]))
	assert.Equal(t, 2, node.count("starknet_getEvents"))
}

func TestWaitForTransaction(t *testing.T) {
	t.Run("polls until accepted", func(t *testing.T) {
		node, client := newFakeNode(t)
		var polls atomic.Int32
		node.handle("starknet_getTransactionStatus", func([]json.RawMessage) (any, *rpcError) {
			if polls.Add(1) == 1 {
				return nil, &rpcError{Code: 29, Message: "Transaction hash not found"}
			}
			return map[string]string{"finality_status": "ACCEPTED_ON_L2", "execution_status": "SUCCEEDED"}, nil
		})

		st, err := starknet.WaitForTransaction(context.Background(), client, cairo.MustFelt("0x1"), time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, starknet.StatusAcceptedOnL2, st.FinalityStatus)
		assert.Equal(t, int32(2), polls.Load())
	})

	t.Run("accepted only skips received", func(t *testing.T) {
		node, client := newFakeNode(t)
		var polls atomic.Int32
		node.handle("starknet_getTransactionStatus", func([]json.RawMessage) (any, *rpcError) {
			if polls.Add(1) < 3 {
				return map[string]string{"finality_status": "RECEIVED"}, nil
			}
			return map[string]string{"finality_status": "ACCEPTED_ON_L1", "execution_status": "SUCCEEDED"}, nil
		})

		st, err := starknet.WaitForStatus(context.Background(), client, cairo.MustFelt("0x1"), time.Millisecond, starknet.AcceptedStates)
		require.NoError(t, err)
		assert.Equal(t, starknet.StatusAcceptedOnL1, st.FinalityStatus)
		assert.Equal(t, int32(3), polls.Load())

		polls.Store(0)
		st, err = starknet.WaitForTransaction(context.Background(), client, cairo.MustFelt("0x1"), time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, starknet.StatusReceived, st.FinalityStatus)
		assert.Equal(t, int32(1), polls.Load())
	})

	t.Run("reverted", func(t *testing.T) {
		node, client := newFakeNode(t)
		node.handle("starknet_getTransactionStatus", func([]json.RawMessage) (any, *rpcError) {
			return map[string]string{"finality_status": "ACCEPTED_ON_L2", "execution_status": "REVERTED", "failure_reason": "boom"}, nil
		})
		_, err := starknet.WaitForTransaction(context.Background(), client, cairo.MustFelt("0x1"), time.Millisecond)
		assert.ErrorIs(t, err, starknet.ErrTransactionReverted)
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("context deadline", func(t *testing.T) {
		node, client := newFakeNode(t)
		node.handle("starknet_getTransactionStatus", func([]json.RawMessage) (any, *rpcError) {
			return nil, &rpcError{Code: 29, Message: "Transaction hash not found"}
		})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := starknet.WaitForTransaction(ctx, client, cairo.MustFelt("0x1"), 5*time.Millisecond)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestAccountExecute(t *testing.T) {
	node, client := newFakeNode(t)
	node.handle("starknet_chainId", func([]json.RawMessage) (any, *rpcError) { return "0x534e5f5345504f4c4941", nil })
	node.handle("starknet_getNonce", func([]json.RawMessage) (any, *rpcError) { return "0x0", nil })
	node.handle("starknet_estimateFee", func(params []json.RawMessage) (any, *rpcError) {
		var txs []map[string]any
		_ = json.Unmarshal(params[0], &txs)
		if txs[0]["version"] != "0x100000000000000000000000000000003" {
			return nil, &rpcError{Code: 61, Message: "unsupported version"}
		}
		return []map[string]string{{
			"l1_gas_consumed": "0x10", "l1_gas_price": "0x2",
			"l2_gas_consumed": "0x100", "l2_gas_price": "0x1",
			"l1_data_gas_consumed": "0x4", "l1_data_gas_price": "0x1",
			"overall_fee": "0x124", "unit": "FRI",
		}}, nil
	})
	var submitted map[string]any
	node.handle("starknet_addInvokeTransaction", func(params []json.RawMessage) (any, *rpcError) {
		_ = json.Unmarshal(params[0], &submitted)
		return map[string]string{"transaction_hash": "0xfeed"}, nil
	})

	signer, err := starknet.NewSigner(cairo.MustFelt("0x1234"))
	require.NoError(t, err)
	account := starknet.NewAccount(client, cairo.MustFelt("0xacc"), signer, starknet.AccountOptions{FeeMultiplier: 2})

	hash, err := account.Execute(context.Background(), []starknet.Call{{
		To:       cairo.MustFelt("0x1"),
		Selector: starknet.Selector("transfer"),
	}})
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", cairo.Hex(hash))

	require.NotNil(t, submitted)
	assert.Equal(t, "0x3", submitted["version"])
	bounds := submitted["resource_bounds"].(map[string]any)
	assert.Equal(t, map[string]any{"max_amount": "0x20", "max_price_per_unit": "0x4"}, bounds["l1_gas"])
	assert.Len(t, submitted["signature"], 2)
}
