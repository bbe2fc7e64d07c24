// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geoip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
	"github.com/letsdoitworld/trashpoint-geocode/internal/http"
)

const (
	APIEndpoint   = "https://reallyfreegeoip.org/json/"
	LookupTimeout = time.Second * 5
	name          = "geoip"
)

var ErrNoPosition = errors.New("GeoIP API returned no position")

type GeolocationGeoIPProvider struct {
	name     string
	endpoint string
	http     *http.Client
}

type APIResult struct {
	IP          string  `json:"ip"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country_name"`
	RegionCode  string  `json:"region_code,omitempty"`
	Region      string  `json:"region_name,omitempty"`
	City        string  `json:"city,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	TimeZone    string  `json:"time_zone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	MetroCode   int     `json:"metro_code"`
}

func NewGeolocationGeoIPProvider(client *http.Client) *GeolocationGeoIPProvider {
	return &GeolocationGeoIPProvider{
		name:     name,
		endpoint: APIEndpoint,
		http:     client,
	}
}

func (p *GeolocationGeoIPProvider) Name() string {
	return p.name
}

// Locate looks up the position of the public IP address of this host. The position is
// accurate to city level at best.
func (p *GeolocationGeoIPProvider) Locate(ctx context.Context) (geocode.Coordinates, error) {
	result := new(APIResult)
	if _, err := p.http.GetWithTimeout(ctx, p.endpoint, result, nil, nil, LookupTimeout); err != nil {
		return geocode.Coordinates{}, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}
	if result.CountryCode == "" && result.Latitude == 0 && result.Longitude == 0 {
		return geocode.Coordinates{}, ErrNoPosition
	}

	return geocode.Coordinates{Latitude: result.Latitude, Longitude: result.Longitude}, nil
}
