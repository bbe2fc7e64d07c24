// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geocode turns coordinates into the postal address record that is stored with a
// trashpoint.
package geocode

import (
	"context"
	"errors"
	"strconv"
)

var (
	// ErrNetwork is returned when the provider could not be reached, the request timed out or
	// was cancelled, or the provider answered with a non-2xx status.
	ErrNetwork = errors.New("geocoding request failed")

	// ErrDecode is returned when the provider answered with a body that is not valid JSON or
	// does not match the expected response structure.
	ErrDecode = errors.New("geocoding response could not be decoded")
)

// Coordinates represents a geographic position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid checks if the coordinates are within the EPSG:4326 bounds.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// String returns the coordinates as "lat,lng" with the shortest decimal representation that
// round-trips each value.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Address is the normalized result of a reverse geocoding lookup. All fields are empty if
// the provider had no result for the coordinates.
type Address struct {
	CompleteAddress string `json:"completeAddress"`
	StreetAddress   string `json:"streetAddress"`
	Locality        string `json:"locality"`
	Country         string `json:"country"`
	StreetNumber    string `json:"streetNumber"`
	SubLocality     string `json:"subLocality"`
}

// IsEmpty reports whether the address carries no data at all.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Geocoder resolves coordinates into an Address.
type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, coords Coordinates) (Address, error)
}
