// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
	"github.com/letsdoitworld/trashpoint-geocode/internal/logger"
	"github.com/letsdoitworld/trashpoint-geocode/internal/observability"
)

type mockGeocoder struct {
	addr   geocode.Address
	err    error
	coords geocode.Coordinates
	calls  int
}

func (m *mockGeocoder) Name() string { return "mock" }

func (m *mockGeocoder) Reverse(_ context.Context, coords geocode.Coordinates) (geocode.Address, error) {
	m.calls++
	m.coords = coords
	return m.addr, m.err
}

func TestServer_handleAddress(t *testing.T) {
	addr := geocode.Address{
		CompleteAddress: "221B Baker St, London NW1 6XE, UK",
		StreetAddress:   "Baker Street",
		Locality:        "London",
		Country:         "United Kingdom",
		StreetNumber:    "221B",
	}

	t.Run("resolving an address succeeds", func(t *testing.T) {
		coder := &mockGeocoder{addr: addr}
		srv := testServer(t, coder)
		rec := serve(srv, "/v1/address?lat=51.5237&lng=-0.1585")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status code %d, got %d", http.StatusOK, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected content type application/json, got %s", ct)
		}
		var got geocode.Address
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %s", err)
		}
		if got != addr {
			t.Errorf("expected address %+v, got %+v", addr, got)
		}
		want := geocode.Coordinates{Latitude: 51.5237, Longitude: -0.1585}
		if coder.coords != want {
			t.Errorf("expected geocoder to be called with %s, got %s", want, coder.coords)
		}
	})
	t.Run("no results return the empty record", func(t *testing.T) {
		srv := testServer(t, &mockGeocoder{})
		rec := serve(srv, "/v1/address?lat=0&lng=0")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status code %d, got %d", http.StatusOK, rec.Code)
		}
		var got map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %s", err)
		}
		if len(got) != 6 {
			t.Errorf("expected 6 fields, got %d", len(got))
		}
		for key, val := range got {
			if val != "" {
				t.Errorf("expected field %s to be empty, got %q", key, val)
			}
		}
	})

	badRequests := []struct {
		name  string
		query string
	}{
		{"missing latitude", "lng=1"},
		{"missing longitude", "lat=1"},
		{"unparsable latitude", "lat=abc&lng=1"},
		{"unparsable longitude", "lat=1&lng=1,5"},
		{"latitude out of range", "lat=91&lng=1"},
		{"longitude out of range", "lat=1&lng=-181"},
		{"not a number", "lat=NaN&lng=1"},
	}
	for _, tc := range badRequests {
		t.Run(tc.name, func(t *testing.T) {
			coder := &mockGeocoder{addr: addr}
			srv := testServer(t, coder)
			rec := serve(srv, "/v1/address?"+tc.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status code %d, got %d", http.StatusBadRequest, rec.Code)
			}
			if coder.calls != 0 {
				t.Errorf("expected geocoder not to be called, got %d calls", coder.calls)
			}
			var got errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode response: %s", err)
			}
			if got.Error == "" {
				t.Error("expected error message in response")
			}
		})
	}

	failures := []struct {
		name   string
		err    error
		status int
	}{
		{"network error", fmt.Errorf("%w: connection refused", geocode.ErrNetwork), http.StatusBadGateway},
		{"decode error", fmt.Errorf("%w: unexpected EOF", geocode.ErrDecode), http.StatusBadGateway},
		{"other error", errors.New("intentionally failing"), http.StatusInternalServerError},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			srv := testServer(t, &mockGeocoder{err: tc.err})
			rec := serve(srv, "/v1/address?lat=1&lng=1")
			if rec.Code != tc.status {
				t.Errorf("expected status code %d, got %d", tc.status, rec.Code)
			}
			if strings.Contains(rec.Body.String(), tc.err.Error()) {
				t.Errorf("expected error details to stay internal, got %s", rec.Body.String())
			}
		})
	}
}

func TestServer_handleHealth(t *testing.T) {
	srv := testServer(t, &mockGeocoder{})
	rec := serve(srv, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status code %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Errorf("unexpected health response: %s", rec.Body.String())
	}
}

func TestServer_metrics(t *testing.T) {
	metrics := observability.NewMetrics()
	srv := New(Config{Address: ":0"}, &mockGeocoder{}, metrics, logger.NewLogger(slog.LevelDebug, io.Discard))

	serve(srv, "/v1/address?lat=1&lng=1")
	serve(srv, "/v1/address?lat=1")
	serve(srv, "/healthz")

	if got := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/v1/address", "200")); got != 1 {
		t.Errorf("expected 1 successful address request, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/v1/address", "400")); got != 1 {
		t.Errorf("expected 1 bad address request, got %f", got)
	}

	rec := serve(srv, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status code %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "trashpoint_http_requests_total") {
		t.Error("expected metrics output to contain the HTTP request counter")
	}
}

func TestServer_Run(t *testing.T) {
	t.Run("server shuts down on context cancel", func(t *testing.T) {
		srv := New(Config{Address: "127.0.0.1:0"}, &mockGeocoder{}, observability.NewMetrics(),
			logger.NewLogger(slog.LevelDebug, io.Discard))
		ctx, cancel := context.WithCancel(t.Context())
		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.Run(ctx)
		}()
		cancel()

		select {
		case err := <-errChan:
			if err != nil {
				t.Errorf("expected clean shutdown, got %s", err)
			}
		case <-time.After(time.Second * 5):
			t.Fatal("server did not shut down")
		}
	})
	t.Run("listen failure is returned", func(t *testing.T) {
		srv := New(Config{Address: "invalid-address"}, &mockGeocoder{}, observability.NewMetrics(),
			logger.NewLogger(slog.LevelDebug, io.Discard))
		if err := srv.Run(t.Context()); err == nil {
			t.Error("expected server to fail")
		}
	})
}

func testServer(t *testing.T, coder geocode.Geocoder) *Server {
	t.Helper()
	return New(Config{Address: ":0"}, coder, observability.NewMetrics(), logger.NewLogger(slog.LevelDebug, io.Discard))
}

func serve(srv *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}
