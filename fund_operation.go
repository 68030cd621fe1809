package cdp

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/paging"
	"github.com/cdp-cloud/cdp-sdk-go/pkg/poll"
)

// FundOperationStatus is the lifecycle state of a fund operation.
type FundOperationStatus string

const (
	FundOperationStatusPending  FundOperationStatus = "pending"
	FundOperationStatusComplete FundOperationStatus = "complete"
	FundOperationStatusFailed   FundOperationStatus = "failed"
)

func (s FundOperationStatus) String() string {
	return string(s)
}

// Terminal reports whether the status can no longer change.
func (s FundOperationStatus) Terminal() bool {
	return s == FundOperationStatusComplete || s == FundOperationStatusFailed
}

const defaultFundWaitTimeout = 20 * time.Second

// CreateFundRequest describes funding an address with an asset bought via
// fiat. Amount is the crypto amount to receive, in whole units of AssetID.
type CreateFundRequest struct {
	Amount  decimal.Decimal `validate:"amount"`
	AssetID string          `validate:"required"`
}

// cryptoAmountModel is the wire shape of an atomic crypto amount.
type cryptoAmountModel struct {
	Amount string     `json:"amount"`
	Asset  assetModel `json:"asset"`
}

// fiatAmountModel is the wire shape of a fiat amount; fiat comes in whole
// units already.
type fiatAmountModel struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type fundFeesModel struct {
	BuyFee      fiatAmountModel   `json:"buy_fee"`
	TransferFee cryptoAmountModel `json:"transfer_fee"`
}

// fundOperationModel is the wire shape of a fund operation.
type fundOperationModel struct {
	FundOperationID string            `json:"fund_operation_id"`
	NetworkID       string            `json:"network_id"`
	AddressID       string            `json:"address_id"`
	CryptoAmount    cryptoAmountModel `json:"crypto_amount"`
	FiatAmount      fiatAmountModel   `json:"fiat_amount"`
	Fees            fundFeesModel     `json:"fees"`
	Status          string            `json:"status"`
}

// fundQuoteModel is the wire shape of a fund quote.
type fundQuoteModel struct {
	FundQuoteID  string            `json:"fund_quote_id"`
	NetworkID    string            `json:"network_id"`
	AddressID    string            `json:"address_id"`
	CryptoAmount cryptoAmountModel `json:"crypto_amount"`
	FiatAmount   fiatAmountModel   `json:"fiat_amount"`
	Fees         fundFeesModel     `json:"fees"`
	ExpiresAt    time.Time         `json:"expires_at"`
}

type createFundOperationBody struct {
	Amount      string `json:"amount,omitempty"`
	AssetID     string `json:"asset_id,omitempty"`
	FundQuoteID string `json:"fund_quote_id,omitempty"`
}

// FundOperation buys an asset with fiat from the platform account and
// delivers it to the address. Execution is entirely server-side.
type FundOperation struct {
	address    *Address
	model      fundOperationModel
	amount     decimal.Decimal
	fiatAmount decimal.Decimal
}

// FundQuote is a priced offer to fund an address, locked in until
// ExpiresAt. Execute turns it into a FundOperation at the quoted price.
type FundQuote struct {
	address    *Address
	model      fundQuoteModel
	amount     decimal.Decimal
	fiatAmount decimal.Decimal
}

// CreateFundOperation validates the request locally and asks the platform
// to fund the address at the current price.
func (a *Address) CreateFundOperation(ctx context.Context, req CreateFundRequest) (*FundOperation, error) {
	c := a.client
	if err := checkRequest(c.validate, req); err != nil {
		return nil, err
	}
	asset, err := c.assets.Lookup(a.networkID, req.AssetID)
	if err != nil {
		return nil, err
	}

	body := createFundOperationBody{
		Amount:  asset.ToAtomic(req.Amount),
		AssetID: asset.AssetID,
	}
	var model fundOperationModel
	if err := c.post(ctx, a.path()+"/fund_operations", body, &model); err != nil {
		return nil, err
	}

	c.logger.Info("created fund operation", "operation", model.FundOperationID, "network", a.networkID)
	return a.newFundOperation(model)
}

// QuoteFund prices a fund request without executing it.
func (a *Address) QuoteFund(ctx context.Context, req CreateFundRequest) (*FundQuote, error) {
	c := a.client
	if err := checkRequest(c.validate, req); err != nil {
		return nil, err
	}
	asset, err := c.assets.Lookup(a.networkID, req.AssetID)
	if err != nil {
		return nil, err
	}

	body := createFundOperationBody{
		Amount:  asset.ToAtomic(req.Amount),
		AssetID: asset.AssetID,
	}
	var model fundQuoteModel
	if err := c.post(ctx, a.path()+"/fund_operations/quote", body, &model); err != nil {
		return nil, err
	}

	quote := &FundQuote{address: a}
	if err := quote.apply(model); err != nil {
		return nil, err
	}
	return quote, nil
}

// ListFundOperations drains the address's fund operations.
func (a *Address) ListFundOperations(ctx context.Context, opts ...paging.Option) ([]*FundOperation, error) {
	models, err := listPages[fundOperationModel](ctx, a.client, a.path()+"/fund_operations", nil, opts...)
	if err != nil {
		return nil, err
	}

	operations := make([]*FundOperation, 0, len(models))
	for _, model := range models {
		operation, err := a.newFundOperation(model)
		if err != nil {
			return nil, err
		}
		operations = append(operations, operation)
	}
	return operations, nil
}

func (a *Address) newFundOperation(model fundOperationModel) (*FundOperation, error) {
	f := &FundOperation{address: a}
	if err := f.apply(model); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FundOperation) apply(model fundOperationModel) error {
	asset := f.address.client.resolveAsset(model.CryptoAmount.Asset)
	amount, err := asset.FromAtomic(model.CryptoAmount.Amount)
	if err != nil {
		return err
	}
	fiat, err := parseFiatAmount(model.FiatAmount)
	if err != nil {
		return err
	}
	f.model = model
	f.amount = amount
	f.fiatAmount = fiat
	return nil
}

// ID returns the platform identifier of the operation.
func (f *FundOperation) ID() string {
	return f.model.FundOperationID
}

// NetworkID returns the network the operation funds.
func (f *FundOperation) NetworkID() string {
	return f.model.NetworkID
}

// AssetID returns the funded asset's primary symbol.
func (f *FundOperation) AssetID() string {
	return f.model.CryptoAmount.Asset.AssetID
}

// Amount returns the crypto amount delivered, in whole units.
func (f *FundOperation) Amount() decimal.Decimal {
	return f.amount
}

// FiatAmount returns the fiat side of the purchase.
func (f *FundOperation) FiatAmount() decimal.Decimal {
	return f.fiatAmount
}

// FiatCurrency returns the fiat currency code, e.g. "usd".
func (f *FundOperation) FiatCurrency() string {
	return f.model.FiatAmount.Currency
}

// Status returns the operation's lifecycle state.
func (f *FundOperation) Status() FundOperationStatus {
	return FundOperationStatus(f.model.Status)
}

// Reload fetches the latest state of the operation from the platform.
func (f *FundOperation) Reload(ctx context.Context) error {
	var model fundOperationModel
	path := f.address.path() + "/fund_operations/" + f.model.FundOperationID
	if err := f.address.client.get(ctx, path, nil, &model); err != nil {
		return err
	}
	return f.apply(model)
}

// Wait polls the operation until it completes or fails, up to 20 seconds
// by default.
func (f *FundOperation) Wait(ctx context.Context, opts ...poll.Option) error {
	_, err := waitFor(ctx, f.address.client, "fund_operation", defaultFundWaitTimeout, f,
		func(current *FundOperation) bool { return current.Status().Terminal() },
		func(ctx context.Context) (*FundOperation, error) {
			if err := f.Reload(ctx); err != nil {
				return nil, err
			}
			return f, nil
		},
		opts)
	return err
}

func (q *FundQuote) apply(model fundQuoteModel) error {
	asset := q.address.client.resolveAsset(model.CryptoAmount.Asset)
	amount, err := asset.FromAtomic(model.CryptoAmount.Amount)
	if err != nil {
		return err
	}
	fiat, err := parseFiatAmount(model.FiatAmount)
	if err != nil {
		return err
	}
	q.model = model
	q.amount = amount
	q.fiatAmount = fiat
	return nil
}

// ID returns the platform identifier of the quote.
func (q *FundQuote) ID() string {
	return q.model.FundQuoteID
}

// AssetID returns the quoted asset's primary symbol.
func (q *FundQuote) AssetID() string {
	return q.model.CryptoAmount.Asset.AssetID
}

// Amount returns the quoted crypto amount in whole units.
func (q *FundQuote) Amount() decimal.Decimal {
	return q.amount
}

// FiatAmount returns the quoted fiat price.
func (q *FundQuote) FiatAmount() decimal.Decimal {
	return q.fiatAmount
}

// FiatCurrency returns the fiat currency code.
func (q *FundQuote) FiatCurrency() string {
	return q.model.FiatAmount.Currency
}

// ExpiresAt returns when the quoted price stops being honored.
func (q *FundQuote) ExpiresAt() time.Time {
	return q.model.ExpiresAt
}

// Execute turns the quote into a fund operation at the quoted price. The
// platform rejects quotes past their expiry.
func (q *FundQuote) Execute(ctx context.Context) (*FundOperation, error) {
	body := createFundOperationBody{FundQuoteID: q.model.FundQuoteID}

	var model fundOperationModel
	if err := q.address.client.post(ctx, q.address.path()+"/fund_operations", body, &model); err != nil {
		return nil, err
	}
	return q.address.newFundOperation(model)
}

func parseFiatAmount(model fiatAmountModel) (decimal.Decimal, error) {
	if model.Amount == "" {
		return decimal.Decimal{}, nil
	}
	d, err := decimal.NewFromString(model.Amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cdp: fiat amount %q is not numeric", model.Amount)
	}
	return d, nil
}
