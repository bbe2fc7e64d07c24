// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedGeocoder throttles the requests a Geocoder sends to its provider with a token
// bucket. Calls block until a token is available; every call still results in exactly one
// request to the wrapped Geocoder.
type RateLimitedGeocoder struct {
	coder   Geocoder
	limiter *rate.Limiter
}

// NewRateLimitedGeocoder wraps coder with a limiter that allows limit requests per second
// with the given burst. A limit of zero or less disables throttling.
func NewRateLimitedGeocoder(coder Geocoder, limit float64, burst int) *RateLimitedGeocoder {
	if burst < 1 {
		burst = 1
	}
	lim := rate.Inf
	if limit > 0 {
		lim = rate.Limit(limit)
	}
	return &RateLimitedGeocoder{
		coder:   coder,
		limiter: rate.NewLimiter(lim, burst),
	}
}

func (r *RateLimitedGeocoder) Name() string {
	return r.coder.Name()
}

// Reverse waits for the limiter and then delegates to the wrapped Geocoder. If ctx ends
// while waiting, no request is sent and ErrNetwork is returned.
func (r *RateLimitedGeocoder) Reverse(ctx context.Context, coords Coordinates) (Address, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Address{}, fmt.Errorf("%w: rate limit wait aborted: %w", ErrNetwork, err)
	}
	return r.coder.Reverse(ctx, coords)
}
