package adapter

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/features/geocoding/domain"
	"shipment-tracker/internal/features/geocoding/ports"
)

const geocodeKeyPrefix = "geocode:"

// CachedGeocoder memoizes successful lookups through the cache port, keyed by
// the normalized address text. Stale entries are tolerable; geocoding is
// best-effort and failures are never cached.
type CachedGeocoder struct {
	inner ports.Geocoder
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedGeocoder wraps a Geocoder with a TTL cache.
func NewCachedGeocoder(inner ports.Geocoder, c cache.Cache, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		inner: inner,
		cache: c,
		ttl:   ttl,
	}
}

// Resolve serves from cache when possible, otherwise delegates and caches the
// result. A cache failure is ignored in both directions.
func (g *CachedGeocoder) Resolve(ctx context.Context, address string) (domain.Location, error) {
	key := geocodeKeyPrefix + normalizeAddress(address)

	if data, err := g.cache.Get(ctx, key); err == nil {
		var loc domain.Location
		if err := json.Unmarshal(data, &loc); err == nil {
			return loc, nil
		}
	}

	loc, err := g.inner.Resolve(ctx, address)
	if err != nil {
		return domain.Location{}, err
	}

	if data, err := json.Marshal(loc); err == nil {
		_ = g.cache.Set(ctx, key, data, g.ttl)
	}

	return loc, nil
}

// normalizeAddress collapses case and surrounding whitespace so trivially
// different spellings share a cache entry.
func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
