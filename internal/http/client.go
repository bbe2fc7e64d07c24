// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
	"time"

	"github.com/letsdoitworld/trashpoint-geocode/internal/logger"
)

const (
	// DefaultTimeout is the default timeout value for the HTTPClient
	DefaultTimeout = time.Second * 10

	// maxErrorBody limits how much of a non-2xx response body ends up in an error
	maxErrorBody = 512
	// maxResponseBody limits how much of a response body is read into memory
	maxResponseBody = 8 << 20
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; %s) trashpoint-geocode/%s (+https://github.com/letsdoitworld/trashpoint-geocode/)",
		runtime.GOOS,
		runtime.GOARCH,
		version,
	)

	ErrNonPointerTarget = errors.New("target must be a non-nil pointer")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
	ErrInvalidJSON      = errors.New("invalid JSON response")
	ErrResponseTooLarge = errors.New("response body too large")
)

// Client is a type wrapper for the Go stdlib http.Client and the Config
type Client struct {
	*http.Client
	logger *logger.Logger
}

// New returns a new HTTP client
func New(logger *logger.Logger) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	httpTransport := &http.Transport{TLSClientConfig: tlsConfig, Proxy: http.ProxyFromEnvironment}
	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: httpTransport,
	}
	return &Client{httpClient, logger}
}

// Get performs a HTTP GET request for the given URL and json-unmarshals the response
// into target
func (h *Client) Get(ctx context.Context, endpoint string, target any, query url.Values, headers map[string]string) (int, error) {
	return h.GetWithTimeout(ctx, endpoint, target, query, headers, DefaultTimeout)
}

// GetWithTimeout performs a HTTP GET request for the given URL and timeout and JSON-unmarshals
// the response into target. If query is empty, the query string that is part of endpoint is
// sent as is.
//
// A response with a status code outside the 2xx range is reported as ErrUnexpectedStatus without
// touching target. A body that can't be decoded into target is reported as ErrInvalidJSON.
func (h *Client) GetWithTimeout(ctx context.Context, endpoint string, target any, query url.Values, headers map[string]string, timeout time.Duration) (int, error) {
	return h.do(ctx, http.MethodGet, endpoint, target, query, nil, headers, timeout)
}

// Post performs a HTTP POST request with the given body and JSON-unmarshals the response into
// target
func (h *Client) Post(ctx context.Context, endpoint string, target any, body io.Reader, headers map[string]string) (int, error) {
	return h.PostWithTimeout(ctx, endpoint, target, body, headers, DefaultTimeout)
}

// PostWithTimeout performs a HTTP POST request for the given URL and timeout and JSON-unmarshals
// the response into target. Errors are reported like for GetWithTimeout.
func (h *Client) PostWithTimeout(ctx context.Context, endpoint string, target any, body io.Reader, headers map[string]string, timeout time.Duration) (int, error) {
	return h.do(ctx, http.MethodPost, endpoint, target, nil, body, headers, timeout)
}

func (h *Client) do(ctx context.Context, method, endpoint string, target any, query url.Values, body io.Reader, headers map[string]string, timeout time.Duration) (int, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return 0, ErrNonPointerTarget
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Prepare URL and query parameters
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	// Prepare HTTP request
	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return 0, fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)
	request.Header.Set("Accept", "application/json")
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	// Execute HTTP request
	response, err := h.Do(request)
	if err != nil {
		// The query may carry API credentials, keep it out of error messages
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = reqURL.Scheme + "://" + reqURL.Host + reqURL.Path
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	if response == nil {
		return 0, errors.New("nil response received")
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			h.logger.Error("failed to close HTTP request body", logger.Err(err))
		}
	}(response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		h.logger.Debug("HTTP request returned unexpected status", "method", method, "host", reqURL.Host,
			"path", reqURL.Path, "status", response.StatusCode)
		return response.StatusCode, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, response.StatusCode, errBody)
	}

	// Read errors are transport errors and are reported apart from decoding errors
	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBody+1))
	if err != nil {
		return response.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxResponseBody {
		return response.StatusCode, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxResponseBody)
	}

	// Unmarshal the JSON API response into target
	if err = json.Unmarshal(data, target); err != nil {
		return response.StatusCode, fmt.Errorf("%w: failed to decode JSON: %w", ErrInvalidJSON, err)
	}

	return response.StatusCode, nil
}
