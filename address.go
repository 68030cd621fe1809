package cdp

import "fmt"

// Address identifies an onchain address on a network. It is the entry point
// for balances and for creating and listing operations; construct one with
// Client.Address.
type Address struct {
	client    *Client
	networkID string
	id        string
}

// Address returns a handle for an address on a network. No network call is
// made; the platform resolves the pair when an operation touches it.
func (c *Client) Address(networkID, addressID string) *Address {
	return &Address{
		client:    c,
		networkID: networkID,
		id:        addressID,
	}
}

// NetworkID returns the network the address lives on, e.g. "base-sepolia".
func (a *Address) NetworkID() string {
	return a.networkID
}

// ID returns the onchain address.
func (a *Address) ID() string {
	return a.id
}

func (a *Address) String() string {
	return fmt.Sprintf("%s:%s", a.networkID, a.id)
}

// path is the address's REST prefix; collection endpoints hang off it.
func (a *Address) path() string {
	return fmt.Sprintf("/v1/networks/%s/addresses/%s", a.networkID, a.id)
}
