// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
	googlemaps "github.com/letsdoitworld/trashpoint-geocode/internal/geocode/provider/google-maps"
	"github.com/letsdoitworld/trashpoint-geocode/internal/locate"
	"github.com/letsdoitworld/trashpoint-geocode/internal/locate/provider/geoclue"
	"github.com/letsdoitworld/trashpoint-geocode/internal/locate/provider/geoip"
	"github.com/letsdoitworld/trashpoint-geocode/internal/locate/provider/geolocation_file"
	"github.com/letsdoitworld/trashpoint-geocode/internal/locate/provider/gpsd"
	"github.com/letsdoitworld/trashpoint-geocode/internal/locate/provider/ichnaea"
	"github.com/letsdoitworld/trashpoint-geocode/internal/logger"
)

// selectGeocoder returns the Google Maps geocoder wrapped by the rate limiter and the
// metrics instrumentation. The instrumentation is outermost, so aborted waits for the
// rate limiter are counted as well.
func (s *Service) selectGeocoder() geocode.Geocoder {
	coder := googlemaps.New(s.httpClient, s.logger, s.config.Geocoder.APIKey).
		WithEndpoint(s.config.Geocoder.Endpoint).
		WithTimeout(s.config.Geocoder.Timeout)
	limited := geocode.NewRateLimitedGeocoder(coder, s.config.Geocoder.RateLimit, s.config.Geocoder.RateBurst)
	return geocode.NewInstrumentedGeocoder(limited, s.metrics)
}

// selectLocator returns the chain of enabled location providers, most precise first, or nil
// if all of them are disabled.
func (s *Service) selectLocator() locate.Locator {
	var locators []locate.Locator

	if !s.config.Location.DisableFile {
		locators = append(locators, geolocation_file.NewGeolocationFileProvider(s.config.Location.File))
	}
	if !s.config.Location.DisableGPSD {
		locators = append(locators, gpsd.NewGeolocationGPSDProvider(s.config.Location.GPSDAddress))
	}
	if !s.config.Location.DisableGeoClue {
		locators = append(locators, geoclue.NewGeolocationGeoClueProvider())
	}
	if !s.config.Location.DisableICHNAEA {
		mls, err := ichnaea.NewGeolocationICHNAEAProvider(s.httpClient)
		if err != nil {
			s.logger.Debug("skipping ICHNAEA location provider", logger.Err(err))
		} else {
			locators = append(locators, mls)
		}
	}
	if !s.config.Location.DisableGeoIP {
		locators = append(locators, geoip.NewGeolocationGeoIPProvider(s.httpClient))
	}
	if len(locators) == 0 {
		return nil
	}

	return locate.NewChain(s.logger, locators...)
}
