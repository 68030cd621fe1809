package cdp

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/paging"
	"github.com/cdp-cloud/cdp-sdk-go/pkg/poll"
	"github.com/cdp-cloud/cdp-sdk-go/pkg/sign"
)

// TransferStatus is the lifecycle state of a transfer.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusBroadcast TransferStatus = "broadcast"
	TransferStatusComplete  TransferStatus = "complete"
	TransferStatusFailed    TransferStatus = "failed"
)

func (s TransferStatus) String() string {
	return string(s)
}

// Terminal reports whether the status can no longer change.
func (s TransferStatus) Terminal() bool {
	return s == TransferStatusComplete || s == TransferStatusFailed
}

// Transfers settle quickly; waits land within a few poll intervals.
const defaultTransferWaitTimeout = 20 * time.Second

// CreateTransferRequest describes a transfer to create. Amount is in whole
// units of AssetID, which may be a denomination such as "gwei".
type CreateTransferRequest struct {
	Amount      decimal.Decimal `validate:"amount"`
	AssetID     string          `validate:"required"`
	Destination string          `validate:"required"`
	// Gasless asks the platform to cover gas for supported assets.
	Gasless bool
}

// transferModel is the wire shape of a transfer.
type transferModel struct {
	TransferID  string       `json:"transfer_id"`
	NetworkID   string       `json:"network_id"`
	AddressID   string       `json:"address_id"`
	Destination string       `json:"destination"`
	Amount      string       `json:"amount"`
	Asset       assetModel   `json:"asset"`
	Gasless     bool         `json:"gasless"`
	Status      string       `json:"status"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

// createTransferBody is what the create endpoint consumes; amounts go over
// the wire atomic, asset identifiers as the primary symbol.
type createTransferBody struct {
	Amount      string `json:"amount"`
	AssetID     string `json:"asset_id"`
	Destination string `json:"destination"`
	Gasless     bool   `json:"gasless"`
}

// Transfer moves an asset from an address to a destination. A Transfer is
// owned by one goroutine at a time; Reload and Wait mutate it in place.
type Transfer struct {
	address *Address
	model   transferModel
	amount  decimal.Decimal
}

// CreateTransfer validates the request locally — amount positivity, asset
// resolution, a balance fail-fast — and then asks the platform to construct
// the transfer. Violations surface as *ArgumentError before any call.
func (a *Address) CreateTransfer(ctx context.Context, req CreateTransferRequest) (*Transfer, error) {
	c := a.client
	if err := checkRequest(c.validate, req); err != nil {
		return nil, err
	}
	asset, err := c.assets.Lookup(a.networkID, req.AssetID)
	if err != nil {
		return nil, err
	}

	balance, err := a.Balance(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}
	if balance.Amount.LessThan(req.Amount) {
		return nil, &ArgumentError{
			Field:  "amount",
			Reason: fmt.Sprintf("insufficient funds: have %s, need %s %s", balance.Amount, req.Amount, req.AssetID),
		}
	}

	body := createTransferBody{
		Amount:      asset.ToAtomic(req.Amount),
		AssetID:     asset.AssetID,
		Destination: req.Destination,
		Gasless:     req.Gasless,
	}
	var model transferModel
	if err := c.post(ctx, a.path()+"/transfers", body, &model); err != nil {
		return nil, err
	}

	c.logger.Info("created transfer", "transfer", model.TransferID, "network", a.networkID)
	return a.newTransfer(model)
}

// ListTransfers drains the address's transfers, newest first as the
// platform reports them.
func (a *Address) ListTransfers(ctx context.Context, opts ...paging.Option) ([]*Transfer, error) {
	models, err := listPages[transferModel](ctx, a.client, a.path()+"/transfers", nil, opts...)
	if err != nil {
		return nil, err
	}

	transfers := make([]*Transfer, 0, len(models))
	for _, model := range models {
		transfer, err := a.newTransfer(model)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, nil
}

func (a *Address) newTransfer(model transferModel) (*Transfer, error) {
	t := &Transfer{address: a}
	if err := t.apply(model); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transfer) apply(model transferModel) error {
	amount, err := t.address.client.resolveAsset(model.Asset).FromAtomic(model.Amount)
	if err != nil {
		return err
	}
	t.model = model
	t.amount = amount
	return nil
}

// ID returns the platform identifier of the transfer.
func (t *Transfer) ID() string {
	return t.model.TransferID
}

// NetworkID returns the network the transfer runs on.
func (t *Transfer) NetworkID() string {
	return t.model.NetworkID
}

// Destination returns the receiving address.
func (t *Transfer) Destination() string {
	return t.model.Destination
}

// AssetID returns the transferred asset's primary symbol.
func (t *Transfer) AssetID() string {
	return t.model.Asset.AssetID
}

// Amount returns the transferred amount in whole units.
func (t *Transfer) Amount() decimal.Decimal {
	return t.amount
}

// Status returns the transfer's lifecycle state.
func (t *Transfer) Status() TransferStatus {
	return TransferStatus(t.model.Status)
}

// Transaction returns the underlying onchain transaction, or nil before the
// platform has constructed it.
func (t *Transfer) Transaction() *Transaction {
	return t.model.Transaction
}

// Sign signs the transfer's unsigned transaction with the signer. Gasless
// transfers have nothing to sign and return nil unchanged.
func (t *Transfer) Sign(signer sign.Signer) error {
	if t.model.Transaction == nil {
		return nil
	}
	return t.model.Transaction.Sign(signer)
}

// Reload fetches the latest state of the transfer from the platform.
func (t *Transfer) Reload(ctx context.Context) error {
	var model transferModel
	path := t.address.path() + "/transfers/" + t.model.TransferID
	if err := t.address.client.get(ctx, path, nil, &model); err != nil {
		return err
	}
	return t.apply(model)
}

// Broadcast submits the signed transaction to the network. Gasless
// transfers skip local signing; everything else must be signed first or the
// call fails with ErrUnsignedTransaction.
func (t *Transfer) Broadcast(ctx context.Context) error {
	body := map[string]string{}
	if !t.model.Gasless {
		if t.model.Transaction == nil || !t.model.Transaction.IsSigned() {
			return ErrUnsignedTransaction
		}
		body["signed_payload"] = t.model.Transaction.SignedPayload()
	}

	var model transferModel
	path := t.address.path() + "/transfers/" + t.model.TransferID + "/broadcast"
	if err := t.address.client.post(ctx, path, body, &model); err != nil {
		return err
	}
	return t.apply(model)
}

// Wait polls the transfer until it completes or fails, up to 20 seconds by
// default. On timeout the transfer keeps its last observed state and the
// error is a *poll.TimeoutError.
func (t *Transfer) Wait(ctx context.Context, opts ...poll.Option) error {
	_, err := waitFor(ctx, t.address.client, "transfer", defaultTransferWaitTimeout, t,
		func(current *Transfer) bool { return current.Status().Terminal() },
		func(ctx context.Context) (*Transfer, error) {
			if err := t.Reload(ctx); err != nil {
				return nil, err
			}
			return t, nil
		},
		opts)
	return err
}
