// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package locate determines the current position of the device, so an address can be
// resolved without the user entering coordinates.
package locate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
	"github.com/letsdoitworld/trashpoint-geocode/internal/logger"
)

var ErrNoLocation = errors.New("no location could be determined")

// Locator defines an interface for sources of the current position.
type Locator interface {
	Name() string
	Locate(ctx context.Context) (geocode.Coordinates, error)
}

// Chain asks a list of Locators in order and returns the first valid position.
type Chain struct {
	locators []Locator
	logger   *logger.Logger
}

func NewChain(log *logger.Logger, locators ...Locator) *Chain {
	return &Chain{
		locators: locators,
		logger:   log,
	}
}

func (c *Chain) Name() string {
	return "chain"
}

// Locate returns the position of the first Locator that succeeds with valid coordinates.
// Failing Locators are logged and skipped. If none succeeds, ErrNoLocation is returned.
func (c *Chain) Locate(ctx context.Context) (geocode.Coordinates, error) {
	for _, locator := range c.locators {
		if err := ctx.Err(); err != nil {
			return geocode.Coordinates{}, fmt.Errorf("%w: %w", ErrNoLocation, err)
		}

		coords, err := locator.Locate(ctx)
		if err != nil {
			c.logger.Debug("locator failed", slog.String("locator", locator.Name()), logger.Err(err))
			continue
		}
		if !coords.Valid() {
			c.logger.Warn("locator returned invalid coordinates", slog.String("locator", locator.Name()),
				slog.String("coordinates", coords.String()))
			continue
		}

		c.logger.Debug("location determined", slog.String("locator", locator.Name()),
			slog.String("coordinates", coords.String()))
		return coords, nil
	}
	return geocode.Coordinates{}, ErrNoLocation
}
