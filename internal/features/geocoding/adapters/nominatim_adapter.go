package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shipment-tracker/internal/core/httpclient"
	"shipment-tracker/internal/features/geocoding/domain"
)

// NominatimAdapter implements the Geocoder port against a Nominatim-compatible
// search endpoint.
type NominatimAdapter struct {
	client  *http.Client
	baseURL string
}

// NewNominatimAdapter creates a geocoding adapter. The timeout bounds the
// whole HTTP exchange so slow geocoding never stalls a checkpoint write.
func NewNominatimAdapter(baseURL string, timeout time.Duration) *NominatimAdapter {
	return &NominatimAdapter{
		client:  httpclient.NewClient(timeout),
		baseURL: baseURL,
	}
}

// nominatimResult is the subset of the search response we care about.
// Nominatim returns lat/lon as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve looks up the first match for the address.
func (a *NominatimAdapter) Resolve(ctx context.Context, address string) (domain.Location, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", a.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("failed to create geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", "shipment-tracker")

	resp, err := a.client.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Location{}, fmt.Errorf("geocoder returned status: %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Location{}, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return domain.Location{}, fmt.Errorf("no geocoding result for address")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Location{}, fmt.Errorf("invalid latitude in geocoder response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Location{}, fmt.Errorf("invalid longitude in geocoder response: %w", err)
	}

	return domain.Location{Lat: lat, Lng: lng}, nil
}
