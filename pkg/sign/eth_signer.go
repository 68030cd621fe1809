package sign

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Ensure our types implement the interfaces at compile time.
var _ Signer = (*EthereumSigner)(nil)
var _ PublicKey = (*EthereumPublicKey)(nil)
var _ Address = (*EthereumAddress)(nil)

// EthereumAddress implements the Address interface for Ethereum-family chains.
type EthereumAddress struct{ common.Address }

func (a EthereumAddress) String() string { return a.Address.Hex() }

// NewEthereumAddressFromHex creates an Ethereum address from a hex string.
func NewEthereumAddressFromHex(hexAddr string) EthereumAddress {
	return EthereumAddress{common.HexToAddress(hexAddr)}
}

// Equals returns true if this address equals the other address.
func (a EthereumAddress) Equals(other Address) bool {
	if otherAddr, ok := other.(EthereumAddress); ok {
		return a.Address == otherAddr.Address
	}
	// Fallback to string comparison for cross-chain compatibility.
	return a.String() == other.String()
}

// EthereumPublicKey implements the PublicKey interface for Ethereum-family chains.
type EthereumPublicKey struct{ *ecdsa.PublicKey }

func (p EthereumPublicKey) Address() Address {
	return EthereumAddress{ethcrypto.PubkeyToAddress(*p.PublicKey)}
}

func (p EthereumPublicKey) Bytes() []byte { return ethcrypto.FromECDSAPub(p.PublicKey) }

// EthereumSigner signs payloads with a secp256k1 key. The payload is hashed
// with Keccak256 before signing.
type EthereumSigner struct {
	privateKey *ecdsa.PrivateKey
	publicKey  EthereumPublicKey
}

// NewEthereumSigner creates a signer from a hex-encoded private key,
// with or without the 0x prefix.
func NewEthereumSigner(privateKeyHex string) (Signer, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")
	key, err := ethcrypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("could not parse ethereum private key: %w", err)
	}
	return &EthereumSigner{
		privateKey: key,
		publicKey:  EthereumPublicKey{key.Public().(*ecdsa.PublicKey)},
	}, nil
}

func (s *EthereumSigner) PublicKey() PublicKey { return s.publicKey }

// Sign hashes the payload with Keccak256 and signs the digest.
func (s *EthereumSigner) Sign(payload []byte) (Signature, error) {
	hash := ethcrypto.Keccak256Hash(payload)
	sig, err := ethcrypto.Sign(hash.Bytes(), s.privateKey)
	if err != nil {
		return nil, err
	}
	// Adjust V from 0/1 to 27/28 for Ethereum compatibility.
	if sig[64] < 27 {
		sig[64] += 27
	}
	return Signature(sig), nil
}

// RecoverAddress recovers the signing address from a payload and signature
// produced by an EthereumSigner.
func RecoverAddress(payload []byte, sig Signature) (Address, error) {
	if len(sig) != 65 {
		return nil, fmt.Errorf("invalid signature length")
	}
	localSig := make([]byte, 65)
	copy(localSig, sig)
	if localSig[64] >= 27 {
		localSig[64] -= 27
	}
	hash := ethcrypto.Keccak256Hash(payload)
	pubKey, err := ethcrypto.SigToPub(hash.Bytes(), localSig)
	if err != nil {
		return nil, fmt.Errorf("signature recovery failed: %w", err)
	}
	return EthereumAddress{ethcrypto.PubkeyToAddress(*pubKey)}, nil
}
