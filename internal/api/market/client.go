package market

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout is the hard per-call abort. There is no retry layer; a call
// either resolves within this window or fails offline.
const DefaultTimeout = 10 * time.Second

// ErrorKind discriminates failures at the client boundary so callers can
// pattern-match instead of probing response maps.
type ErrorKind string

const (
	// KindTransport network error, timeout, abort, or non-2xx status.
	KindTransport ErrorKind = "transport"
	// KindUnauthorized 401; session has already been cleared by the hook.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindApplication 2xx response carrying an error/message field.
	KindApplication ErrorKind = "application"
)

// APIError is the single failure shape leaving this package. Callers never
// see raw transport errors or response bodies.
type APIError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"error"`
	Offline bool      `json:"offline"`
	// FromServer marks Message as the backend's own wording rather than a
	// client-side placeholder; only such messages are shown to users verbatim.
	FromServer bool `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market: %s: %s", e.Kind, e.Message)
}

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsOffline reports whether err is a transport-level failure eligible for the
// fallback datasets.
func IsOffline(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Offline
}

// TokenSource supplies the current bearer token, empty when logged out.
type TokenSource interface {
	Token() string
}

// Client talks to the marketplace API. One outbound primitive (do), typed
// wrappers on top.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	tokens         TokenSource
	onUnauthorized func()
	logger         *zap.Logger
}

// NewClient builds the API client. timeout <= 0 selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		tokens:     tokens,
		logger:     logger,
	}
}

// SetUnauthorizedHook installs the logout side effect fired on a 401. The
// hook runs at most once per response, before the error is returned.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// errorEnvelope catches application-level failures riding on 2xx responses.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do executes one call and decodes a success payload into out (may be nil).
// Every failure path collapses into *APIError; see the kind constants.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindTransport, Message: "encode request", Offline: true}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: "build request", Offline: true}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout, abort and DNS/conn errors all look the same to callers.
		c.logger.Warn("market request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &APIError{Kind: KindTransport, Message: "service unreachable", Offline: true}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: "read response", Offline: true}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &APIError{Kind: KindUnauthorized, Message: "session expired", Offline: true}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("market returned non-success",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode))
		apiErr := &APIError{Kind: KindTransport, Message: "request failed", Offline: true}
		if msg := serverMessage(raw); msg != "" {
			apiErr.Message = msg
			apiErr.FromServer = true
		}
		return apiErr
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return &APIError{Kind: KindApplication, Message: envelope.Error, FromServer: true}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &APIError{Kind: KindTransport, Message: "decode response", Offline: true}
		}
	}
	return nil
}

// serverMessage pulls an error/message field out of a failure body, empty
// when the body carries neither.
func serverMessage(raw []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return ""
}
