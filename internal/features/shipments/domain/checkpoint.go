package domain

import (
	"time"
	"unicode/utf8"
)

// CheckpointStatus is the status label of a single history entry.
type CheckpointStatus string

const (
	StatusPending        CheckpointStatus = "Pending"
	StatusProcessing     CheckpointStatus = "Processing"
	StatusConfirmed      CheckpointStatus = "Confirmed"
	StatusPickedUp       CheckpointStatus = "Picked Up"
	StatusInTransit      CheckpointStatus = "In Transit"
	StatusOutForDelivery CheckpointStatus = "Out for Delivery"
	StatusDelivered      CheckpointStatus = "Delivered"
	StatusCancelled      CheckpointStatus = "Cancelled"
	StatusOnHold         CheckpointStatus = "On Hold"
)

// allStatuses is the closed set of accepted checkpoint statuses.
var allStatuses = map[CheckpointStatus]struct{}{
	StatusPending: {}, StatusProcessing: {}, StatusConfirmed: {},
	StatusPickedUp: {}, StatusInTransit: {}, StatusOutForDelivery: {},
	StatusDelivered: {}, StatusCancelled: {}, StatusOnHold: {},
}

// milestones is the ordered delivery path used for progress computation.
// Statuses outside this list (Cancelled, On Hold, ...) contribute no progress.
var milestones = []CheckpointStatus{
	StatusPending,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
}

// Valid reports whether the status belongs to the fixed enum.
func (s CheckpointStatus) Valid() bool {
	_, ok := allStatuses[s]
	return ok
}

// Progress returns the completion percentage for the status: its 1-based
// position among the milestones over the milestone count, or 0 for
// non-milestone statuses.
func (s CheckpointStatus) Progress() int {
	for i, m := range milestones {
		if s == m {
			return (i + 1) * 100 / len(milestones)
		}
	}
	return 0
}

// NoteMaxLength bounds the free-text note on a checkpoint.
const NoteMaxLength = 500

// Coordinates is a geographic point attached to a checkpoint.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are within bounds.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Checkpoint is one immutable entry in a shipment's status history.
type Checkpoint struct {
	// Status is the status label, restricted to the fixed enum.
	Status CheckpointStatus `json:"status"`
	// Location is the free-text place of the event.
	Location string `json:"location"`
	// Coordinates is the optional geocoded position of Location.
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	// Note is an optional free-text remark, bounded by NoteMaxLength.
	Note string `json:"note,omitempty"`
	// Timestamp is when the checkpoint was recorded.
	Timestamp time.Time `json:"timestamp"`
	// RecordedBy references the administrator who appended the entry.
	RecordedBy string `json:"recorded_by,omitempty"`
}

// validate checks the enum, location, note bound, and coordinate ranges.
func (cp Checkpoint) validate() error {
	fields := map[string]string{}
	if !cp.Status.Valid() {
		fields["status"] = "unrecognized status value"
	}
	if cp.Location == "" {
		fields["location"] = "location is required"
	}
	if utf8.RuneCountInString(cp.Note) > NoteMaxLength {
		fields["note"] = "note exceeds 500 characters"
	}
	if cp.Coordinates != nil && !cp.Coordinates.Valid() {
		fields["coordinates"] = "latitude must be in [-90,90] and longitude in [-180,180]"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
