package domain

// Location is a resolved geographic point.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Fallback is the deterministic coordinate used when geocoding fails, times
// out, or is unconfigured. Checkpoint appends never fail on geocoding alone.
var Fallback = Location{Lat: 6.5244, Lng: 3.3792}
