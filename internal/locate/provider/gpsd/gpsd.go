// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package gpsd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stratoberry/go-gpsd"

	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
)

const (
	DefaultAddress = "localhost:2947"
	FixTimeout     = time.Second * 10
	name           = "gpsd"
)

var (
	ErrNoFix            = errors.New("gpsd reported no position fix in time")
	ErrConnectionClosed = errors.New("gpsd connection closed before a position fix")
)

// GeolocationGPSDProvider reads the position from a local gpsd daemon. It waits for the first
// report with at least a 2D fix.
type GeolocationGPSDProvider struct {
	name    string
	addr    string
	timeout time.Duration
}

func NewGeolocationGPSDProvider(addr string) *GeolocationGPSDProvider {
	if addr == "" {
		addr = DefaultAddress
	}
	return &GeolocationGPSDProvider{
		name:    name,
		addr:    addr,
		timeout: FixTimeout,
	}
}

func (p *GeolocationGPSDProvider) Name() string {
	return p.name
}

func (p *GeolocationGPSDProvider) Locate(ctx context.Context) (geocode.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	session, err := gpsd.Dial(p.addr)
	if err != nil {
		return geocode.Coordinates{}, fmt.Errorf("failed to connect to gpsd at %q: %w", p.addr, err)
	}

	fixes := make(chan geocode.Coordinates, 1)
	session.AddFilter("TPV", func(r interface{}) {
		tpv, ok := r.(*gpsd.TPVReport)
		if !ok || tpv.Mode < gpsd.Mode2D {
			return
		}
		select {
		case fixes <- geocode.Coordinates{Latitude: tpv.Lat, Longitude: tpv.Lon}:
		default:
		}
	})
	done := session.Watch()

	// go-gpsd has no Close(), the watch ends with the connection
	select {
	case coords := <-fixes:
		return coords, nil
	case <-done:
		return geocode.Coordinates{}, ErrConnectionClosed
	case <-ctx.Done():
		return geocode.Coordinates{}, fmt.Errorf("%w: %w", ErrNoFix, ctx.Err())
	}
}
