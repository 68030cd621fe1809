package cdp

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/paging"
)

// StakingRewardFormat selects the units rewards are reported in.
type StakingRewardFormat string

const (
	StakingRewardFormatUSD    StakingRewardFormat = "usd"
	StakingRewardFormatNative StakingRewardFormat = "native"
)

// ListStakingRewardsRequest selects the rewards to fetch. Format defaults
// to native.
type ListStakingRewardsRequest struct {
	NetworkID  string   `validate:"required"`
	AssetID    string   `validate:"required"`
	AddressIDs []string `validate:"required,min=1"`
	StartTime  time.Time
	EndTime    time.Time
	Format     StakingRewardFormat `validate:"omitempty,oneof=usd native"`
}

// usdValueModel is the wire shape of a reward's USD valuation; amounts are
// in cents.
type usdValueModel struct {
	Amount          string    `json:"amount"`
	ConversionPrice string    `json:"conversion_price"`
	ConversionTime  time.Time `json:"conversion_time"`
}

// stakingRewardModel is the wire shape of one reward.
type stakingRewardModel struct {
	AddressID string        `json:"address_id"`
	Date      string        `json:"date"`
	Amount    string        `json:"amount"`
	State     string        `json:"state"`
	Format    string        `json:"format"`
	USDValue  usdValueModel `json:"usd_value"`
}

// StakingReward is one day's reward for one address. Amount is in whole
// units of the staked asset, or in dollars when the usd format was
// requested.
type StakingReward struct {
	AddressID string
	// Date is the reward day, YYYY-MM-DD.
	Date   string
	Amount decimal.Decimal
	Format StakingRewardFormat
	// USDValue is the reward's dollar valuation at conversion time,
	// reported for both formats.
	USDValue decimal.Decimal
}

// ListStakingRewards drains the rewards earned by the given addresses
// between StartTime and EndTime, one entry per address per day.
func (c *Client) ListStakingRewards(ctx context.Context, req ListStakingRewardsRequest, opts ...paging.Option) ([]StakingReward, error) {
	if err := checkRequest(c.validate, req); err != nil {
		return nil, err
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, &ArgumentError{Field: "end_time", Reason: "must be after start_time"}
	}
	asset, err := c.assets.Lookup(req.NetworkID, req.AssetID)
	if err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = StakingRewardFormatNative
	}

	query := url.Values{}
	query.Set("network_id", req.NetworkID)
	query.Set("asset_id", asset.AssetID)
	for _, id := range req.AddressIDs {
		query.Add("address_ids", id)
	}
	query.Set("start_time", req.StartTime.Format(time.RFC3339))
	query.Set("end_time", req.EndTime.Format(time.RFC3339))
	query.Set("format", string(format))

	models, err := listPages[stakingRewardModel](ctx, c, "/v1/stake/rewards", query, opts...)
	if err != nil {
		return nil, err
	}

	rewards := make([]StakingReward, 0, len(models))
	for _, model := range models {
		reward, err := newStakingReward(asset, model)
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, nil
}

// newStakingReward converts a wire reward. Native amounts arrive atomic;
// usd amounts arrive in cents.
func newStakingReward(asset Asset, model stakingRewardModel) (StakingReward, error) {
	reward := StakingReward{
		AddressID: model.AddressID,
		Date:      model.Date,
		Format:    StakingRewardFormat(model.Format),
	}

	var err error
	switch reward.Format {
	case StakingRewardFormatUSD:
		reward.Amount, err = centsToDollars(model.Amount)
	default:
		reward.Amount, err = asset.FromAtomic(model.Amount)
	}
	if err != nil {
		return StakingReward{}, err
	}

	if model.USDValue.Amount != "" {
		reward.USDValue, err = centsToDollars(model.USDValue.Amount)
		if err != nil {
			return StakingReward{}, err
		}
	}
	return reward, nil
}

func centsToDollars(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return d.Shift(-2), nil
}
