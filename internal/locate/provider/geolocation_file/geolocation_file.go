// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geolocation_file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
)

const (
	name = "geolocation_file"
)

var ErrNoCoordinates = errors.New("no valid coordinates found in geolocation file")

// GeolocationFileProvider reads the current position from a text file. The first line in the
// form "<latitude>,<longitude>" is used; empty lines, lines starting with "#" and lines that
// can't be parsed are skipped.
type GeolocationFileProvider struct {
	name string
	path string
}

func NewGeolocationFileProvider(path string) *GeolocationFileProvider {
	return &GeolocationFileProvider{
		name: name,
		path: path,
	}
}

func (p *GeolocationFileProvider) Name() string {
	return p.name
}

func (p *GeolocationFileProvider) Locate(ctx context.Context) (geocode.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return geocode.Coordinates{}, err
	}

	lat, lon, err := p.readFile()
	if err != nil {
		return geocode.Coordinates{}, err
	}
	return geocode.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func (p *GeolocationFileProvider) readFile() (lat, lon float64, err error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read geolocation file %q: %w", p.path, err)
	}
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		coords := strings.Split(line, ",")
		if len(coords) != 2 {
			continue
		}
		lat, err = strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			continue
		}
		lon, err = strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			continue
		}
		return lat, lon, nil
	}
	return 0, 0, ErrNoCoordinates
}
