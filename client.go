package cdp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/auth"
	"github.com/cdp-cloud/cdp-sdk-go/pkg/log"
	"github.com/cdp-cloud/cdp-sdk-go/pkg/paging"
	"github.com/cdp-cloud/cdp-sdk-go/pkg/poll"
)

const defaultHTTPTimeout = 30 * time.Second

// Client talks to the platform API. It is immutable after construction and
// safe for concurrent use; the operation objects it hands out are not.
type Client struct {
	cfg      Config
	baseURL  string
	hc       *http.Client
	auth     *auth.Authenticator
	validate *validator.Validate
	assets   *AssetRegistry
	logger   log.Logger
	metrics  *Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger; a no-op logger is used otherwise.
func WithLogger(logger log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets the base HTTP client. The client is copied before the
// auth transport is installed, so the caller's client is left untouched.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithAssetRegistry replaces the built-in asset registry.
func WithAssetRegistry(reg *AssetRegistry) ClientOption {
	return func(c *Client) {
		c.assets = reg
	}
}

// NewClient builds a platform client from the configuration. A missing
// credential fails with ErrNotConfigured; a key that does not parse fails
// with an error wrapping auth.ErrInvalidKeyFormat.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.APIKeyID == "" || cfg.APIKeySecret == "" {
		return nil, ErrNotConfigured
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if _, err := url.Parse(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("cdp: invalid API URL %q: %w", cfg.APIURL, err)
	}

	c := &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		logger:  log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithName("cdp")

	credential, err := auth.NewCredential(cfg.APIKeyID, cfg.APIKeySecret,
		auth.WithSourceTag(cfg.Source),
		auth.WithSourceVersion(cfg.SourceVersion),
	)
	if err != nil {
		return nil, err
	}
	c.auth = auth.NewAuthenticator(credential,
		auth.WithLogger(c.logger),
		auth.WithDebug(cfg.Debug),
	)

	if c.assets == nil {
		c.assets, err = NewAssetRegistry()
		if err != nil {
			return nil, err
		}
	}
	c.validate = getValidator()
	c.hc = c.wrapHTTPClient(c.hc)

	return c, nil
}

// wrapHTTPClient copies the base client and installs the auth transport.
func (c *Client) wrapHTTPClient(base *http.Client) *http.Client {
	hc := http.Client{Timeout: defaultHTTPTimeout}
	if base != nil {
		hc = *base
	}
	transport := hc.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	hc.Transport = &authTransport{
		base:    transport,
		auth:    c.auth,
		metrics: c.metrics,
		logger:  c.logger,
		debug:   c.cfg.Debug,
	}
	return &hc
}

// authTransport authenticates every outbound request and records request
// metrics. It clones the request before mutating headers, as required of
// RoundTrippers.
type authTransport struct {
	base    http.RoundTripper
	auth    *auth.Authenticator
	metrics *Metrics
	logger  log.Logger
	debug   bool
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	authed := req.Clone(req.Context())
	if err := t.auth.Apply(authed); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := t.base.RoundTrip(authed)
	elapsed := time.Since(start)
	if err != nil {
		t.metrics.observeRequest(req.Method, 0, elapsed)
		return nil, err
	}

	t.metrics.observeRequest(req.Method, res.StatusCode, elapsed)
	if t.debug {
		t.logger.Debug("platform response",
			"method", req.Method, "path", req.URL.Path,
			"status", res.StatusCode, "elapsed", elapsed)
	}
	return res, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// get executes an authenticated GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return fmt.Errorf("cdp: build request: %w", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	return c.do(req, out)
}

// post executes an authenticated POST with a JSON body and decodes the
// response into out. Mutating calls carry a fresh idempotency key so the
// platform can drop duplicates from client retries.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cdp: encode request body: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), payload)
	if err != nil {
		return fmt.Errorf("cdp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", uuid.NewString())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("cdp: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	if out == nil {
		io.Copy(io.Discard, res.Body) //nolint:errcheck
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("cdp: decode response: %w", err)
	}
	return nil
}

// listPages drains a paginated collection endpoint. The server's cursor
// protocol rides in the "page" and "limit" query parameters.
func listPages[T any](ctx context.Context, c *Client, path string, query url.Values, opts ...paging.Option) ([]T, error) {
	fetch := func(ctx context.Context, cursor string, limit int) (paging.Page[T], error) {
		q := make(url.Values, len(query)+2)
		for key, values := range query {
			q[key] = values
		}
		q.Set("limit", strconv.Itoa(limit))
		if cursor != "" {
			q.Set("page", cursor)
		}

		var page paging.Page[T]
		if err := c.get(ctx, path, q, &page); err != nil {
			return paging.Page[T]{}, err
		}
		c.metrics.observePage()
		return page, nil
	}
	return paging.All(ctx, fetch, opts...)
}

// waitFor runs poll.Until with the variant's default timeout (caller options
// win) and records the wait outcome.
func waitFor[T any](ctx context.Context, c *Client, kind string, defaultTimeout time.Duration,
	current T, terminal func(T) bool, reload poll.ReloadFunc[T], opts []poll.Option) (T, error) {

	merged := append([]poll.Option{poll.WithTimeout(defaultTimeout)}, opts...)

	start := time.Now()
	result, err := poll.Until(ctx, current, kind, terminal, reload, merged...)
	elapsed := time.Since(start)

	outcome := waitOutcomeCompleted
	var timeoutErr *poll.TimeoutError
	switch {
	case err == nil:
	case errors.As(err, &timeoutErr):
		outcome = waitOutcomeTimeout
	default:
		outcome = waitOutcomeError
	}
	c.metrics.observeWait(kind, outcome, elapsed)

	if err != nil {
		c.logger.Debug("wait finished", "kind", kind, "outcome", outcome, "elapsed", elapsed, "error", err)
	} else {
		c.logger.Debug("wait finished", "kind", kind, "outcome", outcome, "elapsed", elapsed)
	}
	return result, err
}
