// Package sign provides mock implementations for testing signature operations.
package sign

import (
	"fmt"
)

var _ Signer = (*MockSigner)(nil)

// MockSigner is a Signer test double. It produces predictable signatures by
// appending a suffix to the payload.
type MockSigner struct {
	publicKey PublicKey
}

// NewMockSigner creates a MockSigner whose address is the given ID.
func NewMockSigner(id string) *MockSigner {
	return &MockSigner{publicKey: NewMockPublicKey(id)}
}

// Sign appends a suffix containing the signer's address to the payload.
func (m *MockSigner) Sign(payload []byte) (Signature, error) {
	sigBytes := append(payload, []byte(
		fmt.Sprintf("-signed-by-%s", m.publicKey.Address().String()),
	)...)
	return Signature(sigBytes), nil
}

// PublicKey returns the mock public key associated with this signer.
func (m *MockSigner) PublicKey() PublicKey {
	return m.publicKey
}

var _ PublicKey = (*MockPublicKey)(nil)

// MockPublicKey is a PublicKey test double backed by a string ID.
type MockPublicKey struct {
	id string
}

// NewMockPublicKey creates a MockPublicKey with the given ID.
func NewMockPublicKey(id string) *MockPublicKey {
	return &MockPublicKey{id: id}
}

// Address returns a mock address based on the key's ID.
func (m *MockPublicKey) Address() Address {
	return NewMockAddress(m.id)
}

// Bytes returns the ID as a byte slice.
func (m *MockPublicKey) Bytes() []byte {
	return []byte(m.id)
}

var _ Address = (*MockAddress)(nil)

// MockAddress is an Address test double backed by a string ID.
type MockAddress struct {
	id string
}

// NewMockAddress creates a MockAddress with the given ID.
func NewMockAddress(id string) *MockAddress {
	return &MockAddress{id: id}
}

// String returns the ID as the address representation.
func (m *MockAddress) String() string {
	return m.id
}

// Equals compares addresses by their string representations.
func (m *MockAddress) Equals(other Address) bool {
	return m.id == other.String()
}
