// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package ichnaea

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mdlayher/wifi"

	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
	"github.com/letsdoitworld/trashpoint-geocode/internal/http"
)

const (
	APIEndpoint   = "https://api.beacondb.net/v1/geolocate"
	LookupTimeout = time.Second * 5
	name          = "ichnaea"
)

var ErrNoPosition = errors.New("geolocation API returned no position")

// accessPointScanner lists the wireless networks visible to this host.
type accessPointScanner interface {
	AccessPoints() ([]WirelessNetwork, error)
}

// GeolocationICHNAEAProvider looks up the position of the visible wireless networks with an
// Ichnaea compatible geolocation API.
type GeolocationICHNAEAProvider struct {
	name     string
	endpoint string
	http     *http.Client
	scanner  accessPointScanner
}

type APIResult struct {
	Location struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
}

type WirelessNetwork struct {
	LastSeen       int64  `json:"age"`
	MACAddress     string `json:"macAddress"`
	SignalStrength int32  `json:"signalStrength"`
}

type request struct {
	ConsiderIP   bool              `json:"considerIp"`
	Accesspoints []WirelessNetwork `json:"wifiAccessPoints,omitempty"`
}

func NewGeolocationICHNAEAProvider(client *http.Client) (*GeolocationICHNAEAProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	wlan, err := wifi.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create wifi client: %w", err)
	}
	return newProvider(client, &wifiScanner{wlan: wlan}), nil
}

func newProvider(client *http.Client, scanner accessPointScanner) *GeolocationICHNAEAProvider {
	return &GeolocationICHNAEAProvider{
		name:     name,
		endpoint: APIEndpoint,
		http:     client,
		scanner:  scanner,
	}
}

func (p *GeolocationICHNAEAProvider) Name() string {
	return p.name
}

// Locate scans for wireless networks and sends them to the geolocation API. Without any
// visible network the API falls back to the IP address of this host.
func (p *GeolocationICHNAEAProvider) Locate(ctx context.Context) (geocode.Coordinates, error) {
	aps, err := p.scanner.AccessPoints()
	if err != nil {
		return geocode.Coordinates{}, fmt.Errorf("failed to scan wifi access points: %w", err)
	}

	bodyBuffer := bytes.NewBuffer(nil)
	if err = json.NewEncoder(bodyBuffer).Encode(request{ConsiderIP: true, Accesspoints: aps}); err != nil {
		return geocode.Coordinates{}, fmt.Errorf("failed to encode wifi list to JSON: %w", err)
	}

	result := new(APIResult)
	if _, err = p.http.PostWithTimeout(ctx, p.endpoint, result, bodyBuffer,
		map[string]string{"Content-Type": "application/json"}, LookupTimeout); err != nil {
		return geocode.Coordinates{}, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}
	if result.Location.Latitude == 0 && result.Location.Longitude == 0 {
		return geocode.Coordinates{}, ErrNoPosition
	}

	return geocode.Coordinates{Latitude: result.Location.Latitude, Longitude: result.Location.Longitude}, nil
}

type wifiScanner struct {
	wlan *wifi.Client
}

// AccessPoints returns the access points seen by all station interfaces. Hidden networks and
// networks that opted out with the "_nomap" suffix are skipped.
func (s *wifiScanner) AccessPoints() ([]WirelessNetwork, error) {
	var list []WirelessNetwork

	ifaces, err := s.wlan.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Type != wifi.InterfaceTypeStation {
			continue
		}
		aps, err := s.wlan.AccessPoints(iface)
		if err != nil {
			continue
		}
		for _, ap := range aps {
			if ap.SSID == "" || ap.SSID[0] == '\x00' || strings.HasSuffix(ap.SSID, "_nomap") {
				continue
			}
			list = append(list, WirelessNetwork{
				SignalStrength: ap.Signal / 100,
				MACAddress:     ap.BSSID.String(),
				LastSeen:       ap.LastSeen.Milliseconds(),
			})
		}
	}

	return list, nil
}
