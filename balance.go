package cdp

import (
	"context"

	"github.com/shopspring/decimal"
)

// Balance is one asset's holdings on an address, in whole units.
type Balance struct {
	Asset  Asset
	Amount decimal.Decimal
}

// assetModel is the wire shape of an asset reference.
type assetModel struct {
	NetworkID       string `json:"network_id"`
	AssetID         string `json:"asset_id"`
	Decimals        int32  `json:"decimals"`
	ContractAddress string `json:"contract_address,omitempty"`
}

// balanceModel is the wire shape of a balance; amounts arrive atomic.
type balanceModel struct {
	Amount string     `json:"amount"`
	Asset  assetModel `json:"asset"`
}

// ListBalances drains every balance held by the address.
func (a *Address) ListBalances(ctx context.Context) ([]Balance, error) {
	models, err := listPages[balanceModel](ctx, a.client, a.path()+"/balances", nil)
	if err != nil {
		return nil, err
	}

	balances := make([]Balance, 0, len(models))
	for _, model := range models {
		balance, err := a.client.newBalance(model)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}
	return balances, nil
}

// Balance fetches the address's holdings of one asset. The identifier may be
// a denomination; the reported amount is converted at its decimals.
func (a *Address) Balance(ctx context.Context, assetID string) (Balance, error) {
	asset, err := a.client.assets.Lookup(a.networkID, assetID)
	if err != nil {
		return Balance{}, err
	}

	var model balanceModel
	if err := a.client.get(ctx, a.path()+"/balances/"+asset.AssetID, nil, &model); err != nil {
		return Balance{}, err
	}

	amount, err := asset.FromAtomic(model.Amount)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Asset: asset, Amount: amount}, nil
}

// newBalance converts a wire balance. Assets the registry does not know are
// decoded at the decimals the server reported.
func (c *Client) newBalance(model balanceModel) (Balance, error) {
	asset := c.resolveAsset(model.Asset)
	amount, err := asset.FromAtomic(model.Amount)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Asset: asset, Amount: amount}, nil
}

// resolveAsset maps a wire asset reference to conversion metadata, trusting
// the server-reported decimals when the registry does not know the asset.
func (c *Client) resolveAsset(model assetModel) Asset {
	asset, err := c.assets.Lookup(model.NetworkID, model.AssetID)
	if err != nil {
		return Asset{
			NetworkID:       model.NetworkID,
			AssetID:         model.AssetID,
			Decimals:        model.Decimals,
			ContractAddress: model.ContractAddress,
		}
	}
	return asset
}
