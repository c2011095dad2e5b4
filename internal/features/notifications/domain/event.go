package domain

import (
	"time"

	shipdomain "shipment-tracker/internal/features/shipments/domain"
)

// TopicPrefix scopes checkpoint events; the full topic is the prefix plus the
// shipment's tracking code.
const TopicPrefix = "shipments.tracking."

// TopicForTrackingCode derives the pub/sub topic for a shipment.
func TopicForTrackingCode(code string) string {
	return TopicPrefix + shipdomain.NormalizeTrackingCode(code)
}

// CheckpointEvent is the payload published once per appended checkpoint. It
// carries the full shipment snapshot so subscribers need no follow-up read.
type CheckpointEvent struct {
	TrackingCode   string                      `json:"tracking_code"`
	Shipment       *shipdomain.Shipment        `json:"shipment"`
	Checkpoint     shipdomain.Checkpoint       `json:"checkpoint"`
	PreviousStatus shipdomain.CheckpointStatus `json:"previous_status"`
	OccurredAt     time.Time                   `json:"occurred_at"`
}
