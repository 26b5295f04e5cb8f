// Package backend is a thin JSON client for the Pre-Visa REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/previsa-console/pkg/config"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

const maxErrorBody = 64 << 10

// Observer receives one notification per backend exchange.
type Observer interface {
	ObserveBackendCall(operation, outcome string, duration time.Duration)
}

// Client issues requests against the configured backend base URL. It never retries.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient builds a backend client.
func NewClient(cfg config.BackendConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one backend exchange.
type Request struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Body      interface{}
}

// errorBody is the shape the backend uses for failures and for plain acknowledgements.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Do performs the request and decodes a 2xx JSON body into dest when dest is non-nil.
func (c *Client) Do(ctx context.Context, req Request, dest interface{}) error {
	start := time.Now()
	outcome := "error"
	defer func() {
		if c.observer != nil {
			c.observer.ObserveBackendCall(req.Operation, outcome, time.Since(start))
		}
	}()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build backend request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("operation", req.Operation),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = fmt.Sprintf("%dxx", resp.StatusCode/100)
		apiErr := decodeFailure(resp)
		c.logger.Warn("backend rejected request",
			zap.String("operation", req.Operation),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	outcome = "ok"
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		outcome = "decode_error"
		return appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, "unexpected backend response")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", req.Operation, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

func decodeFailure(resp *http.Response) *appErrors.Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	_ = json.Unmarshal(raw, &body)
	message := strings.TrimSpace(body.Message)
	if message == "" {
		message = strings.TrimSpace(body.Error)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, firstNonEmpty(message, appErrors.ErrNotFound.Message))
	case resp.StatusCode >= 500:
		return appErrors.Clone(appErrors.ErrBackendUnavailable, firstNonEmpty(message, appErrors.ErrBackendUnavailable.Message))
	default:
		return appErrors.New("BACKEND_REJECTED", resp.StatusCode, firstNonEmpty(message, http.StatusText(resp.StatusCode)))
	}
}

// Segment escapes a single path segment such as an identifier.
func Segment(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}

// SearchQuery builds the optional ?search= parameter used by several list endpoints.
func SearchQuery(search string) url.Values {
	q := url.Values{}
	q.Set("search", strings.TrimSpace(search))
	return q
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
