// Package sign provides blockchain-agnostic signing for transaction payloads.
//
// Operations returned by the platform carry unsigned payloads that must be
// signed locally before broadcast. This package defines the seam between the
// SDK and the key holder:
//
//   - Signer: signs a raw payload (implementations hash internally)
//   - PublicKey: public key operations
//   - Address: blockchain addresses
//
// Private key material is never exposed through the interfaces, which keeps
// HSM- and KMS-backed implementations possible and avoids accidental key
// leakage in logs.
//
// Usage:
//
//	signer, err := sign.NewEthereumSigner(privateKeyHex)
//	if err != nil {
//	    return err
//	}
//
//	signature, err := signer.Sign(unsignedPayload)
//	if err != nil {
//	    return err
//	}
//
//	fmt.Println("signed by", signer.PublicKey().Address())
package sign
