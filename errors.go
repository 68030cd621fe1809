package cdp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ErrNotConfigured is returned by NewClient when no API credential has been
// configured at all. A malformed credential is a different failure and
// surfaces as auth.ErrInvalidKeyFormat.
var ErrNotConfigured = fmt.Errorf("cdp: no API credential configured")

// ErrUnsignedTransaction is returned by Broadcast when an operation still
// carries transactions without a signature.
var ErrUnsignedTransaction = fmt.Errorf("cdp: transaction is not signed")

// ArgumentError reports a caller-supplied value the SDK rejected before
// issuing the request it would have been part of, such as a non-positive
// amount, an unknown asset or an insufficient balance.
type ArgumentError struct {
	// Field names the offending argument.
	Field string
	// Reason describes why the value was rejected.
	Reason string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("cdp: invalid %s: %s", e.Field, e.Reason)
}

// APIError is the decoded form of a platform error response. It is an
// opaque passthrough: the SDK propagates it without retrying.
type APIError struct {
	// HTTPStatus is the status code of the response.
	HTTPStatus int
	// Code is the platform's machine-readable error identifier.
	Code string
	// Message is the platform's human-readable description.
	Message string
	// CorrelationID identifies the request in the platform's own logs.
	CorrelationID string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("cdp: api error %d", e.HTTPStatus)
	if e.Code != "" {
		msg += fmt.Sprintf(" (%s)", e.Code)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.CorrelationID != "" {
		msg += fmt.Sprintf(" [correlation_id=%s]", e.CorrelationID)
	}
	return msg
}

// apiErrorBody is the JSON error envelope the platform returns.
type apiErrorBody struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
}

// decodeAPIError turns a non-2xx response into an *APIError. A body that
// is not the expected envelope is carried verbatim in Message so the
// failure stays diagnosable.
func decodeAPIError(res *http.Response) error {
	apiErr := &APIError{HTTPStatus: res.StatusCode}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return apiErr
	}

	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err != nil || (body.Code == "" && body.Message == "") {
		apiErr.Message = string(raw)
		return apiErr
	}

	apiErr.Code = body.Code
	apiErr.Message = body.Message
	apiErr.CorrelationID = body.CorrelationID
	return apiErr
}
