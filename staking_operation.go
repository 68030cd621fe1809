package cdp

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/poll"
	"github.com/cdp-cloud/cdp-sdk-go/pkg/sign"
)

// StakingOperationStatus is the lifecycle state of a staking operation.
type StakingOperationStatus string

const (
	StakingOperationStatusInitialized StakingOperationStatus = "initialized"
	StakingOperationStatusPending     StakingOperationStatus = "pending"
	StakingOperationStatusComplete    StakingOperationStatus = "complete"
	StakingOperationStatusFailed      StakingOperationStatus = "failed"
)

func (s StakingOperationStatus) String() string {
	return string(s)
}

// Terminal reports whether the status can no longer change.
func (s StakingOperationStatus) Terminal() bool {
	return s == StakingOperationStatusComplete || s == StakingOperationStatusFailed
}

// StakingAction selects what a staking operation does.
type StakingAction string

const (
	StakingActionStake      StakingAction = "stake"
	StakingActionUnstake    StakingAction = "unstake"
	StakingActionClaimStake StakingAction = "claim_stake"
)

// Staking operations routinely span protocol epochs, so waits get a far
// longer leash than the other variants.
const defaultStakingWaitTimeout = 10 * time.Minute

// CreateStakingOperationRequest describes a staking operation to create.
// Amount is in whole units of AssetID. Options carries protocol-specific
// settings such as the staking mode; the amount the platform sees always
// comes from Amount.
type CreateStakingOperationRequest struct {
	Action  StakingAction   `validate:"required,oneof=stake unstake claim_stake"`
	Amount  decimal.Decimal `validate:"amount"`
	AssetID string          `validate:"required"`
	Options map[string]string
}

// stakingOperationModel is the wire shape of a staking operation.
type stakingOperationModel struct {
	ID           string         `json:"id"`
	NetworkID    string         `json:"network_id"`
	AddressID    string         `json:"address_id"`
	Action       string         `json:"action"`
	Status       string         `json:"status"`
	Transactions []*Transaction `json:"transactions"`
}

type createStakingOperationBody struct {
	Action  string            `json:"action"`
	AssetID string            `json:"asset_id"`
	Options map[string]string `json:"options"`
}

type broadcastStakingOperationBody struct {
	SignedPayload    string `json:"signed_payload"`
	TransactionIndex string `json:"transaction_index"`
}

// StakingOperation stakes, unstakes or claims stake for an address. It can
// span several onchain transactions, and the platform may append more while
// the operation runs; Reload reconciles them without dropping signatures
// applied locally. A StakingOperation is owned by one goroutine at a time.
type StakingOperation struct {
	address *Address
	model   stakingOperationModel
}

// CreateStakingOperation validates the request locally and asks the
// platform to construct the operation. The platform responds with the
// unsigned transactions the action requires.
func (a *Address) CreateStakingOperation(ctx context.Context, req CreateStakingOperationRequest) (*StakingOperation, error) {
	c := a.client
	if err := checkRequest(c.validate, req); err != nil {
		return nil, err
	}
	asset, err := c.assets.Lookup(a.networkID, req.AssetID)
	if err != nil {
		return nil, err
	}

	options := make(map[string]string, len(req.Options)+1)
	for key, value := range req.Options {
		options[key] = value
	}
	options["amount"] = asset.ToAtomic(req.Amount)

	body := createStakingOperationBody{
		Action:  string(req.Action),
		AssetID: asset.AssetID,
		Options: options,
	}
	var model stakingOperationModel
	if err := c.post(ctx, a.path()+"/staking_operations", body, &model); err != nil {
		return nil, err
	}

	c.logger.Info("created staking operation",
		"operation", model.ID, "action", req.Action, "network", a.networkID)
	return &StakingOperation{address: a, model: model}, nil
}

// ID returns the platform identifier of the operation.
func (s *StakingOperation) ID() string {
	return s.model.ID
}

// NetworkID returns the network the operation runs on.
func (s *StakingOperation) NetworkID() string {
	return s.model.NetworkID
}

// AddressID returns the staking address.
func (s *StakingOperation) AddressID() string {
	return s.model.AddressID
}

// Action returns what the operation does.
func (s *StakingOperation) Action() StakingAction {
	return StakingAction(s.model.Action)
}

// Status returns the operation's lifecycle state.
func (s *StakingOperation) Status() StakingOperationStatus {
	return StakingOperationStatus(s.model.Status)
}

// Transactions returns the operation's transactions in server order. The
// slice is shared with the operation; treat it as read-only.
func (s *StakingOperation) Transactions() []*Transaction {
	return s.model.Transactions
}

// Sign signs every unsigned transaction with the signer. Already-signed
// transactions are left untouched, so Sign can be called again after a
// reload picks up newly appended transactions.
func (s *StakingOperation) Sign(signer sign.Signer) error {
	for _, tx := range s.model.Transactions {
		if err := tx.Sign(signer); err != nil {
			return err
		}
	}
	return nil
}

// Reload fetches the latest state of the operation. Fetched transactions
// are reconciled with local ones: a local transaction with the same
// unsigned payload is kept, so signatures applied here are never lost, and
// newly appended transactions arrive unsigned.
func (s *StakingOperation) Reload(ctx context.Context) error {
	var model stakingOperationModel
	path := s.address.path() + "/staking_operations/" + s.model.ID
	if err := s.address.client.get(ctx, path, nil, &model); err != nil {
		return err
	}
	s.apply(model)
	return nil
}

func (s *StakingOperation) apply(model stakingOperationModel) {
	model.Transactions = mergeTransactions(s.model.Transactions, model.Transactions)
	s.model = model
}

// Broadcast submits every signed, not-yet-broadcast transaction, in server
// order. An unsigned transaction in that range fails the call with
// ErrUnsignedTransaction before anything is submitted after it.
func (s *StakingOperation) Broadcast(ctx context.Context) error {
	c := s.address.client
	path := s.address.path() + "/staking_operations/" + s.model.ID + "/broadcast"

	for i, tx := range s.model.Transactions {
		switch tx.Status() {
		case TransactionStatusBroadcast, TransactionStatusComplete, TransactionStatusFailed:
			continue
		}
		if !tx.IsSigned() {
			return ErrUnsignedTransaction
		}

		body := broadcastStakingOperationBody{
			SignedPayload:    tx.SignedPayload(),
			TransactionIndex: strconv.Itoa(i),
		}
		var model stakingOperationModel
		if err := c.post(ctx, path, body, &model); err != nil {
			return err
		}
		tx.markBroadcast()
		s.apply(model)
	}
	return nil
}

// Wait polls the operation until it completes or fails, up to 10 minutes
// by default. On timeout the operation keeps its last observed state —
// including any signed transactions — and the error is a
// *poll.TimeoutError.
func (s *StakingOperation) Wait(ctx context.Context, opts ...poll.Option) error {
	_, err := waitFor(ctx, s.address.client, "staking_operation", defaultStakingWaitTimeout, s,
		func(current *StakingOperation) bool { return current.Status().Terminal() },
		func(ctx context.Context) (*StakingOperation, error) {
			if err := s.Reload(ctx); err != nil {
				return nil, err
			}
			return s, nil
		},
		opts)
	return err
}
