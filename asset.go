package cdp

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed assets.yaml
var defaultAssetsYAML []byte

var contractAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Asset is a resolvable unit of value on a network. Decimals express how
// many atomic units make one unit of the denomination the asset was looked
// up by, so an Asset resolved via "gwei" converts at 9 decimals while its
// AssetID stays "eth", the primary denomination the API expects.
type Asset struct {
	// NetworkID is the network the asset was resolved for.
	NetworkID string
	// AssetID is the primary denomination, e.g. "eth".
	AssetID string
	// Decimals is the number of atomic units per looked-up unit.
	Decimals int32
	// ContractAddress is the token contract on the network, when the
	// asset is contract-backed.
	ContractAddress string
}

// ToAtomic converts a whole amount into the atomic integer string the API
// expects. Amounts finer than one atomic unit are truncated.
func (a Asset) ToAtomic(amount decimal.Decimal) string {
	return amount.Shift(a.Decimals).BigInt().String()
}

// FromAtomic converts an atomic integer string reported by the API into a
// whole amount.
func (a Asset) FromAtomic(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cdp: atomic amount %q is not numeric", raw)
	}
	return d.Shift(-a.Decimals), nil
}

// assetRegistryFile is the root structure of an assets YAML file.
type assetRegistryFile struct {
	Assets []assetEntry `yaml:"assets"`
}

// assetEntry describes one asset, its primary decimals, alternate
// denominations and the networks it is available on.
type assetEntry struct {
	// Name is the human-readable name; defaults to the symbol.
	Name string `yaml:"name"`
	// Symbol is the primary denomination, required.
	Symbol string `yaml:"symbol"`
	// Decimals is the number of atomic units per whole unit.
	Decimals int32 `yaml:"decimals"`
	// Denominations maps alternate unit names to their own decimals.
	Denominations map[string]int32 `yaml:"denominations"`
	// Networks restricts availability; empty means every network.
	Networks []assetNetwork `yaml:"networks"`
}

// assetNetwork places an asset on one network.
type assetNetwork struct {
	NetworkID       string `yaml:"network_id"`
	ContractAddress string `yaml:"contract_address"`
}

// denomination resolves an alternate unit name back to its asset.
type denomination struct {
	entry    *assetEntry
	decimals int32
}

// AssetRegistry resolves asset identifiers to conversion metadata. The SDK
// ships a built-in registry; callers can load a replacement from disk with
// NewAssetRegistryFromFile and install it via WithAssetRegistry.
type AssetRegistry struct {
	bySymbol       map[string]*assetEntry
	byDenomination map[string]denomination
}

// NewAssetRegistry builds the registry from the embedded assets file.
func NewAssetRegistry() (*AssetRegistry, error) {
	return newAssetRegistry(defaultAssetsYAML)
}

// NewAssetRegistryFromFile builds a registry from an assets YAML file on
// disk, replacing the built-in one entirely.
func NewAssetRegistryFromFile(path string) (*AssetRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read assets file %s", path)
	}

	reg, err := newAssetRegistry(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "load assets file %s", path)
	}
	return reg, nil
}

func newAssetRegistry(raw []byte) (*AssetRegistry, error) {
	var file assetRegistryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, "parse assets yaml")
	}

	if err := file.verify(); err != nil {
		return nil, err
	}

	reg := &AssetRegistry{
		bySymbol:       make(map[string]*assetEntry, len(file.Assets)),
		byDenomination: make(map[string]denomination),
	}
	for i := range file.Assets {
		entry := &file.Assets[i]
		reg.bySymbol[entry.Symbol] = entry
		for name, decimals := range entry.Denominations {
			reg.byDenomination[name] = denomination{entry: entry, decimals: decimals}
		}
	}
	return reg, nil
}

// verify validates the parsed file and applies defaults: symbols are
// required and unique, names default to symbols, decimals must be positive
// and denomination names must not collide with any symbol or each other.
func (f *assetRegistryFile) verify() error {
	symbols := make(map[string]bool, len(f.Assets))
	denominations := make(map[string]string)

	for i, asset := range f.Assets {
		if asset.Symbol == "" {
			return fmt.Errorf("missing asset symbol for asset[%d]", i)
		}
		if asset.Symbol != strings.ToLower(asset.Symbol) {
			return fmt.Errorf("asset symbol %q must be lowercase", asset.Symbol)
		}
		if symbols[asset.Symbol] {
			return fmt.Errorf("duplicate asset symbol %q", asset.Symbol)
		}
		symbols[asset.Symbol] = true

		if asset.Name == "" {
			f.Assets[i].Name = asset.Symbol
		}
		if asset.Decimals <= 0 {
			return fmt.Errorf("asset %q must declare positive decimals", asset.Symbol)
		}

		for name, decimals := range asset.Denominations {
			if owner, dup := denominations[name]; dup {
				return fmt.Errorf("denomination %q declared by both %q and %q", name, owner, asset.Symbol)
			}
			denominations[name] = asset.Symbol
			if decimals < 0 || decimals > asset.Decimals {
				return fmt.Errorf("denomination %q of %q must have decimals in [0, %d]", name, asset.Symbol, asset.Decimals)
			}
		}

		for _, network := range asset.Networks {
			if network.NetworkID == "" {
				return fmt.Errorf("asset %q lists a network without a network_id", asset.Symbol)
			}
			if network.ContractAddress != "" && !contractAddressRegex.MatchString(network.ContractAddress) {
				return fmt.Errorf("invalid %s contract address %q for network %s", asset.Symbol, network.ContractAddress, network.NetworkID)
			}
		}
	}

	for name := range denominations {
		if symbols[name] {
			return fmt.Errorf("denomination %q collides with an asset symbol", name)
		}
	}
	return nil
}

// Lookup resolves an asset identifier — a primary symbol or one of its
// denominations, case-insensitively — for a network. An unknown identifier
// or one not available on the network fails with *ArgumentError.
func (r *AssetRegistry) Lookup(networkID, assetID string) (Asset, error) {
	id := strings.ToLower(assetID)

	entry, decimals := r.resolve(id)
	if entry == nil {
		return Asset{}, &ArgumentError{
			Field:  "asset_id",
			Reason: fmt.Sprintf("unknown asset %q", assetID),
		}
	}

	contract := ""
	if len(entry.Networks) > 0 {
		found := false
		for _, network := range entry.Networks {
			if network.NetworkID == networkID {
				found = true
				contract = network.ContractAddress
				break
			}
		}
		if !found {
			return Asset{}, &ArgumentError{
				Field:  "asset_id",
				Reason: fmt.Sprintf("asset %q is not available on network %q", assetID, networkID),
			}
		}
	}

	return Asset{
		NetworkID:       networkID,
		AssetID:         entry.Symbol,
		Decimals:        decimals,
		ContractAddress: contract,
	}, nil
}

func (r *AssetRegistry) resolve(id string) (*assetEntry, int32) {
	if entry, ok := r.bySymbol[id]; ok {
		return entry, entry.Decimals
	}
	if denom, ok := r.byDenomination[id]; ok {
		return denom.entry, denom.decimals
	}
	return nil, 0
}
