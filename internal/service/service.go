// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service wires configuration, HTTP client, geocoder, locators and presenter into
// the operations offered by the command line tool.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vorlif/spreak"

	"github.com/letsdoitworld/trashpoint-geocode/internal/config"
	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
	"github.com/letsdoitworld/trashpoint-geocode/internal/http"
	"github.com/letsdoitworld/trashpoint-geocode/internal/locate"
	"github.com/letsdoitworld/trashpoint-geocode/internal/logger"
	"github.com/letsdoitworld/trashpoint-geocode/internal/observability"
	"github.com/letsdoitworld/trashpoint-geocode/internal/presenter"
	"github.com/letsdoitworld/trashpoint-geocode/internal/server"
)

var (
	ErrMissingAPIKey      = errors.New("geocoder API key is required")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrNoLocators         = errors.New("all location providers are disabled")
)

type Service struct {
	config     *config.Config
	httpClient *http.Client
	logger     *logger.Logger
	localizer  *spreak.Localizer
	metrics    *observability.Metrics

	geocoder  geocode.Geocoder
	locator   locate.Locator
	presenter *presenter.Presenter
}

func New(conf *config.Config, log *logger.Logger, loc *spreak.Localizer) (*Service, error) {
	if conf.Geocoder.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	pres, err := presenter.New(conf, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	httpClient := http.New(log)
	httpClient.Timeout = max(http.DefaultTimeout, conf.Geocoder.Timeout)

	service := &Service{
		config:     conf,
		httpClient: httpClient,
		logger:     log,
		localizer:  loc,
		metrics:    observability.NewMetrics(),
		presenter:  pres,
	}
	service.geocoder = service.selectGeocoder()
	service.locator = service.selectLocator()

	return service, nil
}

// Resolve returns the address for the given coordinates. Coordinates outside of the valid
// range are rejected without contacting the geocoder.
func (s *Service) Resolve(ctx context.Context, coords geocode.Coordinates) (geocode.Address, error) {
	if !coords.Valid() {
		return geocode.Address{}, fmt.Errorf("%w: %s", ErrInvalidCoordinates, coords)
	}
	s.logger.Debug(s.localizer.Get("resolving address"), slog.String("latlng", coords.String()),
		slog.String("geocoder", s.geocoder.Name()))

	addr, err := s.geocoder.Reverse(ctx, coords)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("%s: %w", s.localizer.Get("failed to resolve address"), err)
	}
	return addr, nil
}

// Locate determines the current position with the configured location providers.
func (s *Service) Locate(ctx context.Context) (geocode.Coordinates, error) {
	if s.locator == nil {
		return geocode.Coordinates{}, ErrNoLocators
	}
	coords, err := s.locator.Locate(ctx)
	if err != nil {
		return geocode.Coordinates{}, fmt.Errorf("%s: %w", s.localizer.Get("failed to determine current location"), err)
	}
	return coords, nil
}

// Print resolves the address for coords and writes it to w in the configured output format.
// If coords is nil, the current position is located first.
func (s *Service) Print(ctx context.Context, w io.Writer, coords *geocode.Coordinates) error {
	if coords == nil {
		located, err := s.Locate(ctx)
		if err != nil {
			return err
		}
		coords = &located
	}

	addr, err := s.Resolve(ctx, *coords)
	if err != nil {
		return err
	}
	return s.presenter.Render(w, s.config.Output, addr)
}

// Serve runs the HTTP service until ctx is cancelled.
func (s *Service) Serve(ctx context.Context) error {
	srv := server.New(server.Config{
		Address:      s.config.Server.Address,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}, s.geocoder, s.metrics, s.logger)

	s.logger.Info(s.localizer.Get("starting trashpoint-geocode server"),
		slog.String("address", s.config.Server.Address))
	defer s.logger.Info(s.localizer.Get("shutting down trashpoint-geocode server"))
	return srv.Run(ctx)
}
