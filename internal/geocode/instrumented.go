// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"time"

	"github.com/letsdoitworld/trashpoint-geocode/internal/observability"
)

// InstrumentedGeocoder records request outcomes and durations of a Geocoder.
type InstrumentedGeocoder struct {
	coder   Geocoder
	metrics *observability.Metrics
}

func NewInstrumentedGeocoder(coder Geocoder, metrics *observability.Metrics) *InstrumentedGeocoder {
	return &InstrumentedGeocoder{
		coder:   coder,
		metrics: metrics,
	}
}

func (i *InstrumentedGeocoder) Name() string {
	return i.coder.Name()
}

func (i *InstrumentedGeocoder) Reverse(ctx context.Context, coords Coordinates) (Address, error) {
	i.metrics.GeocodeInFlight.Inc()
	defer i.metrics.GeocodeInFlight.Dec()

	start := time.Now()
	addr, err := i.coder.Reverse(ctx, coords)
	i.metrics.GeocodeDuration.WithLabelValues(i.coder.Name()).Observe(time.Since(start).Seconds())
	i.metrics.GeocodeRequests.WithLabelValues(i.coder.Name(), outcome(addr, err)).Inc()

	return addr, err
}

func outcome(addr Address, err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return observability.OutcomeNetworkError
	case errors.Is(err, ErrDecode):
		return observability.OutcomeDecodeError
	case err != nil:
		return observability.OutcomeError
	case addr.IsEmpty():
		return observability.OutcomeEmpty
	default:
		return observability.OutcomeSuccess
	}
}
