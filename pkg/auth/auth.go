package auth

import (
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/log"
)

const (
	// SDKVersion is reported in the correlation header of every request.
	SDKVersion = "1.4.0"

	sdkLanguage   = "go"
	defaultSource = "sdk"

	tokenIssuer   = "coinbase-cloud"
	tokenAudience = "cdp_service"
	tokenTTL      = 60 * time.Second

	nonceLength = 16
)

// apiClaims is the JWT claim set attached to every outbound request.
type apiClaims struct {
	jwt.RegisteredClaims
	URI string `json:"uri"`
}

// Authenticator produces the Authorization and Correlation-Context headers
// for outbound platform requests. Tokens are built fresh per request and
// never cached, so each one carries its own validity window and nonce.
// An Authenticator is stateless and safe for concurrent use.
type Authenticator struct {
	credential *Credential
	logger     log.Logger
	debug      bool
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithLogger sets the logger used for debug output.
func WithLogger(lg log.Logger) Option {
	return func(a *Authenticator) {
		a.logger = lg
	}
}

// WithDebug enables logging of the method and URL of every authenticated request.
func WithDebug(debug bool) Option {
	return func(a *Authenticator) {
		a.debug = debug
	}
}

// NewAuthenticator creates an Authenticator over the given credential.
// The credential may be nil, in which case every call fails with ErrNoCredential.
func NewAuthenticator(credential *Credential, opts ...Option) *Authenticator {
	a := &Authenticator{
		credential: credential,
		logger:     log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply builds a fresh bearer token for the request and sets the
// Authorization and Correlation-Context headers on it.
func (a *Authenticator) Apply(req *http.Request) error {
	token, err := a.BuildJWT(req.Method, req.URL.String())
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Correlation-Context", a.CorrelationContext())
	return nil
}

// BuildJWT builds and signs a token for a single request. The uri claim
// binds the token to the request method and URL (scheme and query stripped),
// and the 60 second validity window starts now.
func (a *Authenticator) BuildJWT(method, rawURL string) (string, error) {
	if a.credential == nil {
		return "", ErrNoCredential
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("auth: parse request url: %w", err)
	}

	now := time.Now()
	claims := apiClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.credential.keyID,
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		URI: fmt.Sprintf("%s %s%s", method, u.Host, u.Path),
	}

	var signingMethod jwt.SigningMethod = jwt.SigningMethodES256
	if a.credential.Algorithm() == AlgorithmEdDSA {
		signingMethod = jwt.SigningMethodEdDSA
	}

	token := jwt.NewWithClaims(signingMethod, claims)
	token.Header["kid"] = a.credential.keyID
	token.Header["nonce"] = nonce()

	signed, err := token.SignedString(a.credential.signingKey())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailure, err)
	}

	if a.debug {
		a.logger.Debug("authenticated request", "method", method, "url", rawURL)
	}
	return signed, nil
}

// CorrelationContext returns the header value identifying this SDK build.
// The source_version segment is omitted entirely when not configured.
func (a *Authenticator) CorrelationContext() string {
	source := defaultSource
	var sourceVersion string
	if a.credential != nil {
		if a.credential.sourceTag != "" {
			source = a.credential.sourceTag
		}
		sourceVersion = a.credential.sourceVersion
	}

	parts := []string{
		"sdk_version=" + SDKVersion,
		"sdk_language=" + sdkLanguage,
		"source=" + source,
	}
	if sourceVersion != "" {
		parts = append(parts, "source_version="+sourceVersion)
	}
	return strings.Join(parts, ",")
}

// nonce returns a 16-character string of digits. Its only job is making
// tokens unique within their validity window, so it does not need a
// cryptographic source.
func nonce() string {
	var b [nonceLength]byte
	for i := range b {
		b[i] = '0' + byte(rand.Intn(10))
	}
	return string(b[:])
}
