package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Party identifies the sender or receiver of a shipment.
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Shipment is the aggregate root: the record plus its append-only checkpoint
// history. The derived fields (Status, CurrentLocation, ProgressPercentage,
// ActualDelivery) are recomputed eagerly on every history change and stored
// redundantly; reads never recompute them. History is mutated only through
// AppendCheckpoint.
type Shipment struct {
	// ID is the internal identifier, never part of the public lookup surface.
	ID string `json:"id"`
	// TrackingCode is the public, human-shareable identifier. Stored
	// uppercase, immutable after creation.
	TrackingCode string `json:"tracking_code"`

	Sender   Party `json:"sender"`
	Receiver Party `json:"receiver"`

	Origin      string `json:"origin"`
	Destination string `json:"destination"`

	// PackageDescription, WeightKg and Priority are optional metadata.
	PackageDescription string  `json:"package_description,omitempty"`
	WeightKg           float64 `json:"weight_kg,omitempty"`
	Priority           string  `json:"priority,omitempty"`
	// EstimatedDelivery is the promised delivery date, if one was given.
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`

	// History is the append-only checkpoint sequence, oldest first.
	History []Checkpoint `json:"history"`

	// Derived fields, see recompute.
	Status             CheckpointStatus `json:"status"`
	CurrentLocation    string           `json:"current_location"`
	ProgressPercentage int              `json:"progress_percentage"`
	ActualDelivery     *time.Time       `json:"actual_delivery,omitempty"`

	// CreatedBy is the administrator who created the record.
	CreatedBy string `json:"created_by"`
	// AssignedTo optionally routes the shipment to an administrator for
	// workflow purposes. It has no effect on access control.
	AssignedTo string `json:"assigned_to,omitempty"`

	// IsActive is the soft-delete flag; records are never physically removed.
	IsActive bool `json:"is_active"`

	// Version is the optimistic-concurrency stamp bumped on every write.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// maxRouteLength bounds the free-text origin/destination fields.
const maxRouteLength = 300

// NewShipmentInput carries everything needed to construct a shipment.
type NewShipmentInput struct {
	TrackingCode string
	Sender       Party
	Receiver     Party
	Origin       string
	Destination  string

	PackageDescription string
	WeightKg           float64
	Priority           string
	EstimatedDelivery  *time.Time

	CreatedBy  string
	AssignedTo string
}

// NewShipment validates the input and builds a shipment with an empty history
// and default derived state. The seed checkpoint, if any, is appended by the
// caller so geocoding stays outside the aggregate.
func NewShipment(in NewShipmentInput, now time.Time) (*Shipment, error) {
	fields := map[string]string{}

	if in.Sender.Name == "" {
		fields["sender.name"] = "sender name is required"
	}
	if in.Sender.Phone == "" {
		fields["sender.phone"] = "sender phone is required"
	}
	if in.Sender.Address == "" {
		fields["sender.address"] = "sender address is required"
	}
	if in.Receiver.Name == "" {
		fields["receiver.name"] = "receiver name is required"
	}
	if in.Receiver.Email == "" {
		fields["receiver.email"] = "receiver email is required"
	}
	if in.Receiver.Phone == "" {
		fields["receiver.phone"] = "receiver phone is required"
	}
	if in.Receiver.Address == "" {
		fields["receiver.address"] = "receiver address is required"
	}
	if in.Origin == "" {
		fields["origin"] = "origin is required"
	} else if len(in.Origin) > maxRouteLength {
		fields["origin"] = "origin exceeds 300 characters"
	}
	if in.Destination == "" {
		fields["destination"] = "destination is required"
	} else if len(in.Destination) > maxRouteLength {
		fields["destination"] = "destination exceeds 300 characters"
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	code := NormalizeTrackingCode(in.TrackingCode)
	if code == "" {
		code = GenerateTrackingCode(now)
	}

	sender := in.Sender
	sender.Email = strings.ToLower(sender.Email)
	receiver := in.Receiver
	receiver.Email = strings.ToLower(receiver.Email)

	s := &Shipment{
		ID:                 uuid.NewString(),
		TrackingCode:       code,
		Sender:             sender,
		Receiver:           receiver,
		Origin:             in.Origin,
		Destination:        in.Destination,
		PackageDescription: in.PackageDescription,
		WeightKg:           in.WeightKg,
		Priority:           in.Priority,
		EstimatedDelivery:  in.EstimatedDelivery,
		History:            []Checkpoint{},
		CreatedBy:          in.CreatedBy,
		AssignedTo:         in.AssignedTo,
		IsActive:           true,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.recompute()

	return s, nil
}

// AppendCheckpoint validates the entry, appends it to the history, and
// recomputes the derived fields. On validation failure the history is
// untouched. The timestamp defaults to append time.
func (s *Shipment) AppendCheckpoint(cp Checkpoint) (Checkpoint, error) {
	if cp.Timestamp.IsZero() {
		cp.Timestamp = time.Now().UTC()
	}
	if err := cp.validate(); err != nil {
		return Checkpoint{}, err
	}

	s.History = append(s.History, cp)
	s.recompute()
	s.UpdatedAt = cp.Timestamp

	return cp, nil
}

// recompute refreshes all derived fields from the history. ActualDelivery is
// write-once: the first Delivered checkpoint sets it and later entries,
// Delivered or not, leave it alone.
func (s *Shipment) recompute() {
	if len(s.History) == 0 {
		s.Status = StatusPending
		s.CurrentLocation = ""
		s.ProgressPercentage = StatusPending.Progress()
		return
	}

	last := s.History[len(s.History)-1]
	s.Status = last.Status
	s.CurrentLocation = last.Location
	s.ProgressPercentage = last.Status.Progress()

	if s.ActualDelivery == nil {
		for _, cp := range s.History {
			if cp.Status == StatusDelivered {
				ts := cp.Timestamp
				s.ActualDelivery = &ts
				break
			}
		}
	}
}

// VisibleTo reports whether the principal's account email grants read access:
// true when the stored lowercase sender or receiver email matches exactly.
// Administrative access is decided by the caller, not here.
func (s *Shipment) VisibleTo(email string) bool {
	if email == "" {
		return false
	}
	return s.Sender.Email == email || s.Receiver.Email == email
}
