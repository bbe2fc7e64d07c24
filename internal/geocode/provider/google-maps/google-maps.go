// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
	"github.com/letsdoitworld/trashpoint-geocode/internal/http"
	"github.com/letsdoitworld/trashpoint-geocode/internal/logger"
)

const (
	APIEndpoint = "https://maps.google.com/maps/api/geocode/json"
	APITimeout  = time.Second * 10
	name        = "google-maps"
)

// Response statuses of the geocoding API that are not worth a warning.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

type GoogleMaps struct {
	apikey   string
	endpoint string
	timeout  time.Duration
	http     *http.Client
	logger   *logger.Logger
}

type Response struct {
	Results      []Result `json:"results"`
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
}

type Result struct {
	AddressComponents []AddressComponent `json:"address_components"`
	FormattedAddress  string             `json:"formatted_address"`
}

type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// New returns a Google Maps reverse geocoder using the default endpoint and timeout.
func New(client *http.Client, log *logger.Logger, apikey string) *GoogleMaps {
	return &GoogleMaps{
		apikey:   apikey,
		endpoint: APIEndpoint,
		timeout:  APITimeout,
		http:     client,
		logger:   log,
	}
}

// WithEndpoint overrides the API endpoint. An empty endpoint keeps the current one.
func (g *GoogleMaps) WithEndpoint(endpoint string) *GoogleMaps {
	if endpoint != "" {
		g.endpoint = endpoint
	}
	return g
}

// WithTimeout overrides the request timeout. Values of zero or less keep the current one.
func (g *GoogleMaps) WithTimeout(timeout time.Duration) *GoogleMaps {
	if timeout > 0 {
		g.timeout = timeout
	}
	return g
}

func (g *GoogleMaps) Name() string {
	return name
}

// Reverse looks up the address for the given coordinates with a single API request.
//
// Coordinates without any result resolve to an empty geocode.Address and no error. Transport
// problems, timeouts, oversized bodies and non-2xx responses are reported as geocode.ErrNetwork, undecodable
// responses as geocode.ErrDecode.
func (g *GoogleMaps) Reverse(ctx context.Context, coords geocode.Coordinates) (geocode.Address, error) {
	var response Response

	g.logger.Debug("reverse geocoding coordinates", slog.String("provider", name),
		slog.String("latlng", coords.String()))
	if _, err := g.http.GetWithTimeout(ctx, g.requestURL(coords), &response, nil, nil, g.timeout); err != nil {
		if errors.Is(err, http.ErrInvalidJSON) {
			return geocode.Address{}, fmt.Errorf("%w: failed to decode Google Maps API response: %w",
				geocode.ErrDecode, err)
		}
		return geocode.Address{}, fmt.Errorf("%w: failed to retrieve address details from Google Maps API: %w",
			geocode.ErrNetwork, err)
	}

	if response.Status != "" && response.Status != StatusOK && response.Status != StatusZeroResults {
		g.logger.Warn("Google Maps API returned a non-OK status", slog.String("status", response.Status),
			slog.String("message", response.ErrorMessage))
	}
	if len(response.Results) < 1 {
		return geocode.Address{}, nil
	}

	result := response.Results[0]
	components := make([]geocode.Component, 0, len(result.AddressComponents))
	for _, component := range result.AddressComponents {
		components = append(components, geocode.Component{
			Types:    component.Types,
			LongName: component.LongName,
		})
	}

	return geocode.NewAddress(result.FormattedAddress, components), nil
}

// requestURL builds the request URL with the key and latlng parameters in that order. The
// comma between latitude and longitude is sent unescaped.
func (g *GoogleMaps) requestURL(coords geocode.Coordinates) string {
	sep := "?"
	if strings.Contains(g.endpoint, "?") {
		sep = "&"
	}
	return g.endpoint + sep + "key=" + url.QueryEscape(g.apikey) + "&latlng=" + coords.String()
}
