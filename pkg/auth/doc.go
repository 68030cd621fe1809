// Package auth builds the per-request authentication material for the
// platform API: a short-lived bearer JWT bound to the request method and
// URL, and the correlation header identifying the SDK build.
//
// Two key variants are supported, discriminated when the credential is
// parsed: an EC P-256 private key in PEM form signs with ES256, and a
// 64-byte Ed25519 secret in base64 form signs with EdDSA. Anything else
// fails with ErrInvalidKeyFormat.
//
// Tokens are valid for 60 seconds and are never cached: every call to
// BuildJWT or Apply produces a fresh token with its own validity window
// and nonce, so a captured token cannot be replayed beyond the window.
//
//	credential, err := auth.NewCredential(keyID, privateKey)
//	if err != nil {
//	    return err
//	}
//	authenticator := auth.NewAuthenticator(credential)
//
//	req, _ := http.NewRequest(http.MethodGet, url, nil)
//	if err := authenticator.Apply(req); err != nil {
//	    return err
//	}
package auth
