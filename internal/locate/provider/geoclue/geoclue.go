// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geoclue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
)

const (
	DesktopID     = "trashpoint-geocode"
	LookupTimeout = time.Second * 15
	name          = "geoclue"

	busName         = "org.freedesktop.GeoClue2"
	managerPath     = "/org/freedesktop/GeoClue2/Manager"
	managerIface    = "org.freedesktop.GeoClue2.Manager"
	clientIface     = "org.freedesktop.GeoClue2.Client"
	locationIface   = "org.freedesktop.GeoClue2.Location"
	locationUpdated = "LocationUpdated"

	// GClueAccuracyLevel values
	accuracyLevelExact uint32 = 8
)

var (
	ErrNoPosition = errors.New("GeoClue reported no position in time")
	ErrNoSignal   = errors.New("GeoClue location signal channel closed")
)

// GeolocationGeoClueProvider asks the GeoClue2 location service on the system bus for the
// current position.
type GeolocationGeoClueProvider struct {
	name     string
	timeout  time.Duration
	locateFn func(ctx context.Context) (geocode.Coordinates, error)
}

func NewGeolocationGeoClueProvider() *GeolocationGeoClueProvider {
	provider := &GeolocationGeoClueProvider{
		name:    name,
		timeout: LookupTimeout,
	}
	provider.locateFn = provider.locate
	return provider
}

func (p *GeolocationGeoClueProvider) Name() string {
	return p.name
}

func (p *GeolocationGeoClueProvider) Locate(ctx context.Context) (geocode.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	coords, err := p.locateFn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return geocode.Coordinates{}, fmt.Errorf("%w: %w", ErrNoPosition, err)
		}
		return geocode.Coordinates{}, err
	}
	return coords, nil
}

// locate registers a GeoClue client, starts it and waits for the first LocationUpdated signal.
func (p *GeolocationGeoClueProvider) locate(ctx context.Context) (coords geocode.Coordinates, err error) {
	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return coords, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close system bus: %w", closeErr))
		}
	}()

	var clientPath dbus.ObjectPath
	manager := conn.Object(busName, managerPath)
	if err = manager.CallWithContext(ctx, managerIface+".GetClient", 0).Store(&clientPath); err != nil {
		return coords, fmt.Errorf("failed to get GeoClue client: %w", err)
	}
	client := conn.Object(busName, clientPath)
	if err = client.SetProperty(clientIface+".DesktopId", dbus.MakeVariant(DesktopID)); err != nil {
		return coords, fmt.Errorf("failed to set desktop id: %w", err)
	}
	if err = client.SetProperty(clientIface+".RequestedAccuracyLevel", dbus.MakeVariant(accuracyLevelExact)); err != nil {
		return coords, fmt.Errorf("failed to set requested accuracy level: %w", err)
	}

	if err = conn.AddMatchSignal(
		dbus.WithMatchObjectPath(clientPath),
		dbus.WithMatchInterface(clientIface),
		dbus.WithMatchMember(locationUpdated),
	); err != nil {
		return coords, fmt.Errorf("failed to subscribe to location updates: %w", err)
	}
	signals := make(chan *dbus.Signal, 4)
	conn.Signal(signals)

	if err = client.CallWithContext(ctx, clientIface+".Start", 0).Err; err != nil {
		return coords, fmt.Errorf("failed to start GeoClue client: %w", err)
	}
	defer client.Call(clientIface+".Stop", 0)

	for {
		select {
		case <-ctx.Done():
			return coords, ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return coords, ErrNoSignal
			}
			if sig.Name != clientIface+"."+locationUpdated || len(sig.Body) != 2 {
				continue
			}
			locationPath, ok := sig.Body[1].(dbus.ObjectPath)
			if !ok {
				continue
			}
			return readLocation(conn.Object(busName, locationPath))
		}
	}
}

func readLocation(location dbus.BusObject) (geocode.Coordinates, error) {
	lat, err := floatProperty(location, locationIface+".Latitude")
	if err != nil {
		return geocode.Coordinates{}, err
	}
	lon, err := floatProperty(location, locationIface+".Longitude")
	if err != nil {
		return geocode.Coordinates{}, err
	}
	return geocode.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func floatProperty(obj dbus.BusObject, prop string) (float64, error) {
	variant, err := obj.GetProperty(prop)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", prop, err)
	}
	val, ok := variant.Value().(float64)
	if !ok {
		return 0, fmt.Errorf("unexpected type %s for %s", variant.Signature(), prop)
	}
	return val, nil
}
