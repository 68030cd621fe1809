package sign

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Signer produces signatures over raw transaction payloads. Implementations
// hash the payload internally with whatever digest their chain expects, so
// callers hand over the exact unsigned payload bytes they hold.
type Signer interface {
	PublicKey() PublicKey                   // Public key associated with this signer.
	Sign(payload []byte) (Signature, error) // Sign generates a signature for the given payload.
}

// PublicKey is a blockchain-agnostic public key.
type PublicKey interface {
	Address() Address
	Bytes() []byte
}

// Address is a blockchain-specific address.
type Address interface {
	fmt.Stringer

	// Equals returns true if this address equals the other address.
	Equals(other Address) bool
}

// Signature is a byte slice representing a cryptographic signature.
// It marshals to and from a 0x-prefixed hex string in JSON.
type Signature []byte

// MarshalJSON implements json.Marshaler, encoding the signature as hex.
func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}
	decoded, err := hexutil.Decode(hexStr)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// String implements fmt.Stringer.
func (s Signature) String() string {
	return hexutil.Encode(s)
}
