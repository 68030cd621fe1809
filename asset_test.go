package cdp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetRegistryLookup(t *testing.T) {
	reg, err := NewAssetRegistry()
	require.NoError(t, err)

	t.Run("PrimarySymbol", func(t *testing.T) {
		asset, err := reg.Lookup("base-sepolia", "eth")
		require.NoError(t, err)
		assert.Equal(t, "base-sepolia", asset.NetworkID)
		assert.Equal(t, "eth", asset.AssetID)
		assert.Equal(t, int32(18), asset.Decimals)
		assert.Empty(t, asset.ContractAddress)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		asset, err := reg.Lookup("base-sepolia", "ETH")
		require.NoError(t, err)
		assert.Equal(t, "eth", asset.AssetID)
	})

	t.Run("DenominationResolvesToPrimary", func(t *testing.T) {
		asset, err := reg.Lookup("ethereum-mainnet", "gwei")
		require.NoError(t, err)
		assert.Equal(t, "eth", asset.AssetID, "denomination lookups report the primary symbol")
		assert.Equal(t, int32(9), asset.Decimals)

		wei, err := reg.Lookup("ethereum-mainnet", "wei")
		require.NoError(t, err)
		assert.Equal(t, "eth", wei.AssetID)
		assert.Equal(t, int32(0), wei.Decimals)
	})

	t.Run("ContractBackedAsset", func(t *testing.T) {
		asset, err := reg.Lookup("base-sepolia", "usdc")
		require.NoError(t, err)
		assert.Equal(t, int32(6), asset.Decimals)
		assert.Equal(t, "0x036CbD53842c5426634e7929541eC2318f3dCF7e", asset.ContractAddress)
	})

	t.Run("UnknownAsset", func(t *testing.T) {
		_, err := reg.Lookup("base-sepolia", "dogecoin")
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, "asset_id", argErr.Field)
	})

	t.Run("AssetMissingOnNetwork", func(t *testing.T) {
		_, err := reg.Lookup("solana-mainnet", "usdc")
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Contains(t, argErr.Reason, "not available on network")
	})
}

func TestAssetConversions(t *testing.T) {
	reg, err := NewAssetRegistry()
	require.NoError(t, err)

	eth, err := reg.Lookup("base-sepolia", "eth")
	require.NoError(t, err)
	usdc, err := reg.Lookup("base-sepolia", "usdc")
	require.NoError(t, err)

	t.Run("ToAtomic", func(t *testing.T) {
		assert.Equal(t, "1500000000000000000", eth.ToAtomic(decimal.RequireFromString("1.5")))
		assert.Equal(t, "1", eth.ToAtomic(decimal.RequireFromString("0.000000000000000001")))
		assert.Equal(t, "2500000", usdc.ToAtomic(decimal.RequireFromString("2.5")))
		assert.Equal(t, "0", eth.ToAtomic(decimal.Zero))
	})

	t.Run("ToAtomicTruncatesSubAtomic", func(t *testing.T) {
		assert.Equal(t, "1", usdc.ToAtomic(decimal.RequireFromString("0.0000019")))
	})

	t.Run("FromAtomic", func(t *testing.T) {
		amount, err := eth.FromAtomic("1500000000000000000")
		require.NoError(t, err)
		assert.True(t, amount.Equal(decimal.RequireFromString("1.5")))

		amount, err = usdc.FromAtomic("2500000")
		require.NoError(t, err)
		assert.True(t, amount.Equal(decimal.RequireFromString("2.5")))
	})

	t.Run("FromAtomicRejectsGarbage", func(t *testing.T) {
		_, err := eth.FromAtomic("not-a-number")
		assert.Error(t, err)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		for _, raw := range []string{"0.000001", "1", "123456.789123"} {
			amount := decimal.RequireFromString(raw)
			back, err := usdc.FromAtomic(usdc.ToAtomic(amount))
			require.NoError(t, err)
			assert.True(t, back.Equal(amount), "round trip of %s", raw)
		}
	})

	t.Run("DenominationConversion", func(t *testing.T) {
		gwei, err := reg.Lookup("ethereum-mainnet", "gwei")
		require.NoError(t, err)
		assert.Equal(t, "21000000000", gwei.ToAtomic(decimal.RequireFromString("21")))
	})
}

func TestAssetRegistryFromFile(t *testing.T) {
	writeAssets := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "assets.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	t.Run("ValidFile", func(t *testing.T) {
		path := writeAssets(t, `
assets:
  - symbol: "demo"
    decimals: 8
    denominations:
      microdemo: 2
`)
		reg, err := NewAssetRegistryFromFile(path)
		require.NoError(t, err)

		asset, err := reg.Lookup("any-network", "demo")
		require.NoError(t, err)
		assert.Equal(t, int32(8), asset.Decimals)

		micro, err := reg.Lookup("any-network", "microdemo")
		require.NoError(t, err)
		assert.Equal(t, "demo", micro.AssetID)
		assert.Equal(t, int32(2), micro.Decimals)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewAssetRegistryFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	errorCases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "MissingSymbol",
			body: "assets:\n  - decimals: 8\n",
			want: "missing asset symbol",
		},
		{
			name: "UppercaseSymbol",
			body: "assets:\n  - symbol: \"DEMO\"\n    decimals: 8\n",
			want: "must be lowercase",
		},
		{
			name: "DuplicateSymbol",
			body: "assets:\n  - symbol: \"demo\"\n    decimals: 8\n  - symbol: \"demo\"\n    decimals: 6\n",
			want: "duplicate asset symbol",
		},
		{
			name: "NonPositiveDecimals",
			body: "assets:\n  - symbol: \"demo\"\n    decimals: 0\n",
			want: "positive decimals",
		},
		{
			name: "DenominationOutOfRange",
			body: "assets:\n  - symbol: \"demo\"\n    decimals: 8\n    denominations:\n      huge: 9\n",
			want: "must have decimals in [0, 8]",
		},
		{
			name: "DenominationCollidesWithSymbol",
			body: "assets:\n  - symbol: \"demo\"\n    decimals: 8\n  - symbol: \"other\"\n    decimals: 6\n    denominations:\n      demo: 3\n",
			want: "collides with an asset symbol",
		},
		{
			name: "BadContractAddress",
			body: "assets:\n  - symbol: \"demo\"\n    decimals: 8\n    networks:\n      - network_id: \"net\"\n        contract_address: \"0x123\"\n",
			want: "invalid demo contract address",
		},
		{
			name: "NetworkWithoutID",
			body: "assets:\n  - symbol: \"demo\"\n    decimals: 8\n    networks:\n      - contract_address: \"0x036CbD53842c5426634e7929541eC2318f3dCF7e\"\n",
			want: "without a network_id",
		},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAssetRegistryFromFile(writeAssets(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
