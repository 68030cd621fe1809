package cdp

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/paging"
	"github.com/cdp-cloud/cdp-sdk-go/pkg/poll"
)

// TradeStatus is the lifecycle state of a trade.
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusBroadcast TradeStatus = "broadcast"
	TradeStatusComplete  TradeStatus = "complete"
	TradeStatusFailed    TradeStatus = "failed"
)

func (s TradeStatus) String() string {
	return string(s)
}

// Terminal reports whether the status can no longer change.
func (s TradeStatus) Terminal() bool {
	return s == TradeStatusComplete || s == TradeStatusFailed
}

const defaultTradeWaitTimeout = 20 * time.Second

// CreateTradeRequest describes a conversion of one asset into another on
// the same network. Amount is in whole units of FromAssetID.
type CreateTradeRequest struct {
	Amount      decimal.Decimal `validate:"amount"`
	FromAssetID string          `validate:"required"`
	ToAssetID   string          `validate:"required"`
}

// tradeModel is the wire shape of a trade.
type tradeModel struct {
	TradeID            string       `json:"trade_id"`
	NetworkID          string       `json:"network_id"`
	AddressID          string       `json:"address_id"`
	FromAmount         string       `json:"from_amount"`
	FromAsset          assetModel   `json:"from_asset"`
	ToAmount           string       `json:"to_amount"`
	ToAsset            assetModel   `json:"to_asset"`
	Status             string       `json:"status"`
	Transaction        *Transaction `json:"transaction,omitempty"`
	ApproveTransaction *Transaction `json:"approve_transaction,omitempty"`
}

type createTradeBody struct {
	Amount      string `json:"amount"`
	FromAssetID string `json:"from_asset_id"`
	ToAssetID   string `json:"to_asset_id"`
}

// Trade converts one asset into another. The platform executes it
// server-side; the SDK creates, reloads and waits.
type Trade struct {
	address    *Address
	model      tradeModel
	fromAmount decimal.Decimal
	toAmount   decimal.Decimal
}

// CreateTrade validates the request locally — amount positivity, both
// assets resolvable, a balance fail-fast on the sold asset — and then asks
// the platform to construct the trade.
func (a *Address) CreateTrade(ctx context.Context, req CreateTradeRequest) (*Trade, error) {
	c := a.client
	if err := checkRequest(c.validate, req); err != nil {
		return nil, err
	}
	fromAsset, err := c.assets.Lookup(a.networkID, req.FromAssetID)
	if err != nil {
		return nil, err
	}
	toAsset, err := c.assets.Lookup(a.networkID, req.ToAssetID)
	if err != nil {
		return nil, err
	}
	if fromAsset.AssetID == toAsset.AssetID {
		return nil, &ArgumentError{Field: "to_asset_id", Reason: "must differ from from_asset_id"}
	}

	balance, err := a.Balance(ctx, req.FromAssetID)
	if err != nil {
		return nil, err
	}
	if balance.Amount.LessThan(req.Amount) {
		return nil, &ArgumentError{
			Field:  "amount",
			Reason: fmt.Sprintf("insufficient funds: have %s, need %s %s", balance.Amount, req.Amount, req.FromAssetID),
		}
	}

	body := createTradeBody{
		Amount:      fromAsset.ToAtomic(req.Amount),
		FromAssetID: fromAsset.AssetID,
		ToAssetID:   toAsset.AssetID,
	}
	var model tradeModel
	if err := c.post(ctx, a.path()+"/trades", body, &model); err != nil {
		return nil, err
	}

	c.logger.Info("created trade", "trade", model.TradeID, "network", a.networkID)
	return a.newTrade(model)
}

// ListTrades drains the address's trades.
func (a *Address) ListTrades(ctx context.Context, opts ...paging.Option) ([]*Trade, error) {
	models, err := listPages[tradeModel](ctx, a.client, a.path()+"/trades", nil, opts...)
	if err != nil {
		return nil, err
	}

	trades := make([]*Trade, 0, len(models))
	for _, model := range models {
		trade, err := a.newTrade(model)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func (a *Address) newTrade(model tradeModel) (*Trade, error) {
	t := &Trade{address: a}
	if err := t.apply(model); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Trade) apply(model tradeModel) error {
	c := t.address.client
	fromAmount, err := c.resolveAsset(model.FromAsset).FromAtomic(model.FromAmount)
	if err != nil {
		return err
	}
	toAmount, err := c.resolveAsset(model.ToAsset).FromAtomic(model.ToAmount)
	if err != nil {
		return err
	}
	t.model = model
	t.fromAmount = fromAmount
	t.toAmount = toAmount
	return nil
}

// ID returns the platform identifier of the trade.
func (t *Trade) ID() string {
	return t.model.TradeID
}

// NetworkID returns the network the trade runs on.
func (t *Trade) NetworkID() string {
	return t.model.NetworkID
}

// FromAssetID returns the sold asset's primary symbol.
func (t *Trade) FromAssetID() string {
	return t.model.FromAsset.AssetID
}

// ToAssetID returns the bought asset's primary symbol.
func (t *Trade) ToAssetID() string {
	return t.model.ToAsset.AssetID
}

// FromAmount returns the sold amount in whole units.
func (t *Trade) FromAmount() decimal.Decimal {
	return t.fromAmount
}

// ToAmount returns the bought amount in whole units. Until the trade
// settles this is the platform's estimate.
func (t *Trade) ToAmount() decimal.Decimal {
	return t.toAmount
}

// Status returns the trade's lifecycle state.
func (t *Trade) Status() TradeStatus {
	return TradeStatus(t.model.Status)
}

// Transaction returns the trade's onchain transaction, when constructed.
func (t *Trade) Transaction() *Transaction {
	return t.model.Transaction
}

// ApproveTransaction returns the ERC-20 approval preceding the trade, when
// one is required.
func (t *Trade) ApproveTransaction() *Transaction {
	return t.model.ApproveTransaction
}

// Reload fetches the latest state of the trade from the platform.
func (t *Trade) Reload(ctx context.Context) error {
	var model tradeModel
	path := t.address.path() + "/trades/" + t.model.TradeID
	if err := t.address.client.get(ctx, path, nil, &model); err != nil {
		return err
	}
	return t.apply(model)
}

// Wait polls the trade until it completes or fails, up to 20 seconds by
// default.
func (t *Trade) Wait(ctx context.Context, opts ...poll.Option) error {
	_, err := waitFor(ctx, t.address.client, "trade", defaultTradeWaitTimeout, t,
		func(current *Trade) bool { return current.Status().Terminal() },
		func(ctx context.Context) (*Trade, error) {
			if err := t.Reload(ctx); err != nil {
				return nil, err
			}
			return t, nil
		},
		opts)
	return err
}
