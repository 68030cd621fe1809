package cdp

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/poll"
	"github.com/cdp-cloud/cdp-sdk-go/pkg/sign"
)

func stakingTx(payload string) *Transaction {
	return &Transaction{model: transactionModel{
		NetworkID:       "ethereum-holesky",
		FromAddressID:   testAddressID,
		UnsignedPayload: hex.EncodeToString([]byte(payload)),
		Status:          string(TransactionStatusPending),
	}}
}

func stakingOpModel(status string, payloads ...string) stakingOperationModel {
	txs := make([]*Transaction, 0, len(payloads))
	for _, payload := range payloads {
		txs = append(txs, stakingTx(payload))
	}
	return stakingOperationModel{
		ID:           "staking-op-1",
		NetworkID:    "ethereum-holesky",
		AddressID:    testAddressID,
		Action:       string(StakingActionStake),
		Status:       status,
		Transactions: txs,
	}
}

func newStakingOperation(t *testing.T, client *Client, model stakingOperationModel) *StakingOperation {
	t.Helper()
	return &StakingOperation{
		address: client.Address(model.NetworkID, model.AddressID),
		model:   model,
	}
}

func TestCreateStakingOperation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.True(t, strings.HasSuffix(r.URL.Path, "/staking_operations"))

		var body createStakingOperationBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, stakingOpModel(string(StakingOperationStatusInitialized), "deposit-tx"))
	})

	t.Run("RejectsUnknownAction", func(t *testing.T) {
		client, rec := newTestClient(t, handler)
		address := client.Address("ethereum-holesky", testAddressID)

		_, err := address.CreateStakingOperation(context.Background(), CreateStakingOperationRequest{
			Action:  "restake",
			Amount:  decimalFromString(t, "32"),
			AssetID: "eth",
		})
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, "action", argErr.Field)
		assert.Contains(t, argErr.Reason, "stake unstake claim_stake")
		assert.Equal(t, 0, rec.count())
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		client, rec := newTestClient(t, handler)
		address := client.Address("ethereum-holesky", testAddressID)

		_, err := address.CreateStakingOperation(context.Background(), CreateStakingOperationRequest{
			Action:  StakingActionStake,
			AssetID: "eth",
		})
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, "amount", argErr.Field)
		assert.Equal(t, 0, rec.count())
	})

	t.Run("MergesAtomicAmountIntoOptions", func(t *testing.T) {
		client, rec := newTestClient(t, handler)
		address := client.Address("ethereum-holesky", testAddressID)

		op, err := address.CreateStakingOperation(context.Background(), CreateStakingOperationRequest{
			Action:  StakingActionStake,
			Amount:  decimalFromString(t, "32"),
			AssetID: "eth",
			Options: map[string]string{"mode": "native", "amount": "overridden"},
		})
		require.NoError(t, err)

		var body createStakingOperationBody
		require.NoError(t, json.Unmarshal(rec.request(0).Body, &body))
		assert.Equal(t, "stake", body.Action)
		assert.Equal(t, "eth", body.AssetID)
		assert.Equal(t, "native", body.Options["mode"])
		assert.Equal(t, "32000000000000000000", body.Options["amount"],
			"the request amount always wins over caller-supplied options")

		assert.Equal(t, "staking-op-1", op.ID())
		assert.Equal(t, StakingActionStake, op.Action())
		assert.Equal(t, StakingOperationStatusInitialized, op.Status())
		require.Len(t, op.Transactions(), 1)
	})
}

func TestStakingOperationSign(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	signer := sign.NewMockSigner("0xsigner")

	op := newStakingOperation(t, client, stakingOpModel(
		string(StakingOperationStatusInitialized), "tx-a", "tx-b"))

	require.NoError(t, op.Sign(signer))
	for _, tx := range op.Transactions() {
		assert.True(t, tx.IsSigned())
	}

	t.Run("SecondSignLeavesSignaturesUntouched", func(t *testing.T) {
		before := []string{
			op.Transactions()[0].SignedPayload(),
			op.Transactions()[1].SignedPayload(),
		}
		require.NoError(t, op.Sign(sign.NewMockSigner("0xother")))
		assert.Equal(t, before[0], op.Transactions()[0].SignedPayload())
		assert.Equal(t, before[1], op.Transactions()[1].SignedPayload())
	})
}

func TestStakingOperationReloadMerge(t *testing.T) {
	// The server keeps appending transactions while the operation runs.
	responses := []stakingOperationModel{
		stakingOpModel(string(StakingOperationStatusPending), "tx-a", "tx-b", "tx-c"),
		stakingOpModel(string(StakingOperationStatusComplete), "tx-a", "tx-b", "tx-c"),
	}
	var mu sync.Mutex
	reloads := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		mu.Lock()
		model := responses[min(reloads, len(responses)-1)]
		reloads++
		mu.Unlock()
		writeJSON(t, w, model)
	})
	client, _ := newTestClient(t, handler)
	signer := sign.NewMockSigner("0xsigner")

	op := newStakingOperation(t, client, stakingOpModel(
		string(StakingOperationStatusInitialized), "tx-a", "tx-b"))
	require.NoError(t, op.Sign(signer))

	signedA := op.Transactions()[0]
	signedB := op.Transactions()[1]

	require.NoError(t, op.Reload(context.Background()))

	require.Len(t, op.Transactions(), 3, "newly appended transactions arrive on reload")
	assert.Same(t, signedA, op.Transactions()[0], "local signed transaction survives the reload")
	assert.Same(t, signedB, op.Transactions()[1])
	assert.True(t, op.Transactions()[0].IsSigned())
	assert.True(t, op.Transactions()[1].IsSigned())
	assert.False(t, op.Transactions()[2].IsSigned(), "appended transactions arrive unsigned")
	assert.Equal(t, StakingOperationStatusPending, op.Status())

	t.Run("WaitKeepsMergingUntilTerminal", func(t *testing.T) {
		err := op.Wait(context.Background(), poll.WithInterval(time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, StakingOperationStatusComplete, op.Status())
		assert.Same(t, signedA, op.Transactions()[0], "signatures survive every poll")
		assert.True(t, op.Transactions()[0].IsSigned())
	})
}

func TestStakingOperationBroadcast(t *testing.T) {
	type broadcastCall struct {
		SignedPayload    string `json:"signed_payload"`
		TransactionIndex string `json:"transaction_index"`
	}

	newBroadcastServer := func(calls *[]broadcastCall) http.HandlerFunc {
		var mu sync.Mutex
		return func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.True(t, strings.HasSuffix(r.URL.Path, "/broadcast"))

			var call broadcastCall
			require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
			mu.Lock()
			*calls = append(*calls, call)
			mu.Unlock()

			writeJSON(t, w, stakingOpModel(string(StakingOperationStatusPending), "tx-a", "tx-b"))
		}
	}

	t.Run("SubmitsEverySignedTransactionInOrder", func(t *testing.T) {
		var calls []broadcastCall
		client, _ := newTestClient(t, newBroadcastServer(&calls))
		signer := sign.NewMockSigner("0xsigner")

		op := newStakingOperation(t, client, stakingOpModel(
			string(StakingOperationStatusInitialized), "tx-a", "tx-b"))
		require.NoError(t, op.Sign(signer))
		payloadA := op.Transactions()[0].SignedPayload()
		payloadB := op.Transactions()[1].SignedPayload()

		require.NoError(t, op.Broadcast(context.Background()))

		require.Len(t, calls, 2)
		assert.Equal(t, "0", calls[0].TransactionIndex)
		assert.Equal(t, payloadA, calls[0].SignedPayload)
		assert.Equal(t, "1", calls[1].TransactionIndex)
		assert.Equal(t, payloadB, calls[1].SignedPayload)
	})

	t.Run("SecondBroadcastIsNoOp", func(t *testing.T) {
		var calls []broadcastCall
		client, _ := newTestClient(t, newBroadcastServer(&calls))

		op := newStakingOperation(t, client, stakingOpModel(
			string(StakingOperationStatusInitialized), "tx-a"))
		require.NoError(t, op.Sign(sign.NewMockSigner("0xsigner")))

		require.NoError(t, op.Broadcast(context.Background()))
		require.NoError(t, op.Broadcast(context.Background()))
		assert.Len(t, calls, 1, "already-broadcast transactions are not resubmitted")
	})

	t.Run("UnsignedTransactionFails", func(t *testing.T) {
		var calls []broadcastCall
		client, _ := newTestClient(t, newBroadcastServer(&calls))

		op := newStakingOperation(t, client, stakingOpModel(
			string(StakingOperationStatusInitialized), "tx-a"))

		err := op.Broadcast(context.Background())
		assert.ErrorIs(t, err, ErrUnsignedTransaction)
		assert.Empty(t, calls)
	})
}
