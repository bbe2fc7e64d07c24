// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper provides helpers shared by the package tests.
package testhelper

import (
	"bytes"
	stdhttp "net/http"
	"os"
	"strings"
	"testing"
)

// TestOnlineAPIURL is a real endpoint used by tests that need actual network I/O.
const TestOnlineAPIURL = "https://maps.google.com/maps/api/geocode/json"

// MockRoundTripper replaces the HTTP transport of a client in tests.
type MockRoundTripper struct {
	Fn func(req *stdhttp.Request) (*stdhttp.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *stdhttp.Request) (*stdhttp.Response, error) {
	return m.Fn(req)
}

// FileResponder returns a round trip function that answers every request with the
// content of the given file and the given status code.
func FileResponder(t *testing.T, file string, status int) func(*stdhttp.Request) (*stdhttp.Response, error) {
	t.Helper()
	return func(req *stdhttp.Request) (*stdhttp.Response, error) {
		data, err := os.Open(file)
		if err != nil {
			t.Fatalf("failed to open JSON response file: %s", err)
		}
		return &stdhttp.Response{
			StatusCode: status,
			Body:       data,
			Header:     make(stdhttp.Header),
			Request:    req,
		}, nil
	}
}

// BodyResponder returns a round trip function that answers every request with the
// given body and status code.
func BodyResponder(body string, status int) func(*stdhttp.Request) (*stdhttp.Response, error) {
	return func(req *stdhttp.Request) (*stdhttp.Response, error) {
		return &stdhttp.Response{
			StatusCode: status,
			Body:       nopCloser{bytes.NewBufferString(body)},
			Header:     make(stdhttp.Header),
			Request:    req,
		}, nil
	}
}

// PerformIntegrationTests skips the calling test unless PERFORM_INTEGRATION_TEST is set to true.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if val := os.Getenv("PERFORM_INTEGRATION_TEST"); !strings.EqualFold(val, "true") {
		t.Skip("skipping integration test")
	}
}

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }
