package auth

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
)

var (
	// ErrNoCredential is returned when no API credential has been configured.
	ErrNoCredential = fmt.Errorf("auth: no API credential configured")
	// ErrInvalidKeyFormat is returned when the configured private key is
	// malformed, has the wrong length, or uses an unsupported type.
	ErrInvalidKeyFormat = fmt.Errorf("auth: invalid API key format")
	// ErrSigningFailure is returned when the signing primitive rejects the payload.
	ErrSigningFailure = fmt.Errorf("auth: token signing failed")
)

// Algorithm is the JWS algorithm selected by the credential's key variant.
type Algorithm string

const (
	// AlgorithmES256 is used for EC P-256 keys.
	AlgorithmES256 Algorithm = "ES256"
	// AlgorithmEdDSA is used for Ed25519 keys.
	AlgorithmEdDSA Algorithm = "EdDSA"
)

const pemBlockECPrivateKey = "EC PRIVATE KEY"

// Credential is a parsed API key. Exactly one key variant is active,
// discriminated at parse time: a PEM-encoded EC P-256 private key signs with
// ES256, a base64-encoded 64-byte Ed25519 secret signs with EdDSA.
// A Credential is immutable once constructed.
type Credential struct {
	keyID         string
	ecKey         *ecdsa.PrivateKey
	edKey         ed25519.PrivateKey
	sourceTag     string
	sourceVersion string
}

// CredentialOption configures optional Credential fields.
type CredentialOption func(*Credential)

// WithSourceTag sets the source reported in the correlation header.
func WithSourceTag(tag string) CredentialOption {
	return func(c *Credential) {
		c.sourceTag = tag
	}
}

// WithSourceVersion sets the source version reported in the correlation
// header. When unset, the segment is omitted entirely.
func WithSourceVersion(version string) CredentialOption {
	return func(c *Credential) {
		c.sourceVersion = version
	}
}

// NewCredential parses the private key and returns an immutable Credential.
// Key material that is neither an EC P-256 PEM block nor a 64-byte Ed25519
// secret fails with ErrInvalidKeyFormat. The raw error types of the
// underlying crypto libraries never escape; only their message text is
// carried in the wrap.
func NewCredential(keyID, privateKey string, opts ...CredentialOption) (*Credential, error) {
	if keyID == "" || privateKey == "" {
		return nil, ErrNoCredential
	}

	c := &Credential{keyID: keyID}
	for _, opt := range opts {
		opt(c)
	}

	if block, _ := pem.Decode([]byte(privateKey)); block != nil {
		if block.Type != pemBlockECPrivateKey {
			return nil, fmt.Errorf("%w: unsupported PEM block %q", ErrInvalidKeyFormat, block.Type)
		}
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
		}
		if key.Curve != elliptic.P256() {
			return nil, fmt.Errorf("%w: EC key must use the P-256 curve", ErrInvalidKeyFormat)
		}
		c.ecKey = key
		return c, nil
	}

	raw, err := base64.StdEncoding.DecodeString(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: key is neither an EC PEM block nor base64", ErrInvalidKeyFormat)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: Ed25519 secret must be %d bytes, got %d",
			ErrInvalidKeyFormat, ed25519.PrivateKeySize, len(raw))
	}
	c.edKey = ed25519.PrivateKey(raw)
	return c, nil
}

// KeyID returns the API key identifier used as the token subject and kid header.
func (c *Credential) KeyID() string {
	return c.keyID
}

// Algorithm returns the JWS algorithm matching the active key variant.
func (c *Credential) Algorithm() Algorithm {
	if c.ecKey != nil {
		return AlgorithmES256
	}
	return AlgorithmEdDSA
}

// SourceTag returns the configured source tag, or empty when unset.
func (c *Credential) SourceTag() string {
	return c.sourceTag
}

// SourceVersion returns the configured source version, or empty when unset.
func (c *Credential) SourceVersion() string {
	return c.sourceVersion
}

// signingKey returns the key in the form the JWT library expects.
func (c *Credential) signingKey() any {
	if c.ecKey != nil {
		return c.ecKey
	}
	return c.edKey
}
