// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package server exposes the address resolver over HTTP, so the provider API key stays on
// the server side.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
	"github.com/letsdoitworld/trashpoint-geocode/internal/logger"
	"github.com/letsdoitworld/trashpoint-geocode/internal/observability"
)

const (
	shutdownTimeout = time.Second * 10
	idleTimeout     = time.Second * 60
)

// Config holds the listener settings of the Server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves /v1/address, /healthz and /metrics.
type Server struct {
	httpServer *http.Server
	geocoder   geocode.Geocoder
	metrics    *observability.Metrics
	logger     *logger.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(conf Config, coder geocode.Geocoder, metrics *observability.Metrics, log *logger.Logger) *Server {
	router := chi.NewRouter()
	s := &Server{
		httpServer: &http.Server{
			Addr:         conf.Address,
			Handler:      router,
			ReadTimeout:  conf.ReadTimeout,
			WriteTimeout: conf.WriteTimeout,
			IdleTimeout:  idleTimeout,
		},
		geocoder: coder,
		metrics:  metrics,
		logger:   log,
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(s.countRequests)

	router.Get("/v1/address", s.handleAddress)
	router.Get("/healthz", s.handleHealth)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run starts the server and shuts it down gracefully once ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("failed to start http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleAddress(w http.ResponseWriter, r *http.Request) {
	coords, err := parseCoordinates(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	addr, err := s.geocoder.Reverse(r.Context(), coords)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, addr)
	case errors.Is(err, geocode.ErrNetwork):
		s.logger.Error("geocoding provider unreachable", slog.String("latlng", coords.String()), logger.Err(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "geocoding provider unreachable"})
	case errors.Is(err, geocode.ErrDecode):
		s.logger.Error("geocoding provider returned an invalid response", slog.String("latlng", coords.String()),
			logger.Err(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "invalid response from geocoding provider"})
	default:
		s.logger.Error("failed to resolve address", slog.String("latlng", coords.String()), logger.Err(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// countRequests counts served requests by route pattern and status code.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

func parseCoordinates(r *http.Request) (geocode.Coordinates, error) {
	query := r.URL.Query()
	lat, err := parseFloatParam(query.Get("lat"), "lat")
	if err != nil {
		return geocode.Coordinates{}, err
	}
	lng, err := parseFloatParam(query.Get("lng"), "lng")
	if err != nil {
		return geocode.Coordinates{}, err
	}
	coords := geocode.Coordinates{Latitude: lat, Longitude: lng}
	if !coords.Valid() {
		return geocode.Coordinates{}, fmt.Errorf("coordinates out of range: %s", coords)
	}
	return coords, nil
}

func parseFloatParam(val, name string) (float64, error) {
	if val == "" {
		return 0, fmt.Errorf("missing query parameter: %s", name)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid query parameter %s: %q", name, val)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}
