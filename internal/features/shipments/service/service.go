package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shipment-tracker/internal/core/auth"
	"shipment-tracker/internal/core/logger"
	geodomain "shipment-tracker/internal/features/geocoding/domain"
	geoports "shipment-tracker/internal/features/geocoding/ports"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// maxCodeGenerationRetries bounds regeneration when an auto-generated
// tracking code happens to collide.
const maxCodeGenerationRetries = 5

// ShipmentServiceImpl implements ports.ShipmentService.
type ShipmentServiceImpl struct {
	repo           ports.ShipmentRepository
	geocoder       geoports.Geocoder
	notifier       ports.CheckpointNotifier
	geocodeTimeout time.Duration
}

// NewShipmentService wires the aggregate operations over their collaborators.
func NewShipmentService(repo ports.ShipmentRepository, geocoder geoports.Geocoder, notifier ports.CheckpointNotifier, geocodeTimeout time.Duration) *ShipmentServiceImpl {
	return &ShipmentServiceImpl{
		repo:           repo,
		geocoder:       geocoder,
		notifier:       notifier,
		geocodeTimeout: geocodeTimeout,
	}
}

// locate geocodes an address with a bounded timeout, degrading to the fixed
// fallback coordinate on any failure. A checkpoint write never fails because
// geocoding is slow or down.
func (s *ShipmentServiceImpl) locate(ctx context.Context, address string) *domain.Coordinates {
	ctx, cancel := context.WithTimeout(ctx, s.geocodeTimeout)
	defer cancel()

	loc, err := s.geocoder.Resolve(ctx, address)
	if err != nil {
		logger.Get().Debug("Geocoding failed, using fallback coordinate",
			zap.String("address", address),
			zap.Error(err),
		)
		loc = geodomain.Fallback
	}

	return &domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}
}

// Create validates and persists a new shipment, seeding its history with a
// Pending checkpoint at the origin. Only administrators create shipments.
func (s *ShipmentServiceImpl) Create(ctx context.Context, in ports.CreateShipmentInput, p auth.Principal) (*domain.Shipment, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	generated := strings.TrimSpace(in.TrackingCode) == ""

	shipment, err := domain.NewShipment(domain.NewShipmentInput{
		TrackingCode:       in.TrackingCode,
		Sender:             in.Sender,
		Receiver:           in.Receiver,
		Origin:             in.Origin,
		Destination:        in.Destination,
		PackageDescription: in.PackageDescription,
		WeightKg:           in.WeightKg,
		Priority:           in.Priority,
		EstimatedDelivery:  in.EstimatedDelivery,
		CreatedBy:          p.ID,
		AssignedTo:         in.AssignedTo,
	}, now)
	if err != nil {
		return nil, err
	}

	if _, err := shipment.AppendCheckpoint(domain.Checkpoint{
		Status:      domain.StatusPending,
		Location:    in.Origin,
		Coordinates: s.locate(ctx, in.Origin),
		Timestamp:   now,
		RecordedBy:  p.ID,
	}); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		err := s.repo.Create(ctx, shipment)
		if err == nil {
			return shipment, nil
		}
		if !errors.Is(err, domain.ErrCodeConflict) || !generated || attempt >= maxCodeGenerationRetries {
			return nil, err
		}
		shipment.TrackingCode = domain.GenerateTrackingCode(time.Now().UTC())
	}
}

// AppendCheckpoint geocodes the location, appends the entry under the
// repository's optimistic concurrency control, and fans the change out once
// the write is durable.
func (s *ShipmentServiceImpl) AppendCheckpoint(ctx context.Context, id string, in ports.AppendCheckpointInput, p auth.Principal) (*domain.Shipment, domain.Checkpoint, error) {
	if !p.IsAdmin() {
		return nil, domain.Checkpoint{}, domain.ErrForbidden
	}

	status := domain.CheckpointStatus(in.Status)
	if !status.Valid() {
		return nil, domain.Checkpoint{}, &domain.ValidationError{Fields: map[string]string{
			"status": "unrecognized status value",
		}}
	}
	if in.Location == "" {
		return nil, domain.Checkpoint{}, &domain.ValidationError{Fields: map[string]string{
			"location": "location is required",
		}}
	}

	coords := s.locate(ctx, in.Location)

	var appended domain.Checkpoint
	var previous domain.CheckpointStatus

	updated, err := s.repo.Update(ctx, id, func(cur *domain.Shipment) error {
		previous = cur.Status
		cp, err := cur.AppendCheckpoint(domain.Checkpoint{
			Status:      status,
			Location:    in.Location,
			Coordinates: coords,
			Note:        in.Note,
			RecordedBy:  p.ID,
		})
		if err != nil {
			return err
		}
		appended = cp
		return nil
	})
	if err != nil {
		return nil, domain.Checkpoint{}, err
	}

	// The checkpoint is persisted; notification failures are the fan-out's
	// problem from here on.
	s.notifier.CheckpointAppended(updated, appended, previous)

	return updated, appended, nil
}

// Get fetches one shipment under the caller's scope. Records the caller may
// not see are reported as not found, indistinguishable from absence.
func (s *ShipmentServiceImpl) Get(ctx context.Context, id string, p auth.Principal) (*domain.Shipment, error) {
	if !p.IsAuthenticated() {
		return nil, domain.ErrNotFound
	}

	shipment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := ports.ScopeFor(p)
	if !scope.Allows(shipment) {
		return nil, domain.ErrNotFound
	}
	if !shipment.IsActive && !p.IsAdmin() {
		return nil, domain.ErrNotFound
	}

	return shipment, nil
}

// List returns the scoped, filtered page.
func (s *ShipmentServiceImpl) List(ctx context.Context, filter ports.ListFilter, p auth.Principal) (*ports.ListResult, error) {
	if !p.IsAuthenticated() {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, filter, ports.ScopeFor(p))
}

// GetByTrackingCode is the public directory lookup: case-insensitive, active
// shipments only, no ownership scoping.
func (s *ShipmentServiceImpl) GetByTrackingCode(ctx context.Context, code string) (*domain.Shipment, error) {
	shipment, err := s.repo.GetByTrackingCode(ctx, domain.NormalizeTrackingCode(code))
	if err != nil {
		return nil, err
	}
	if !shipment.IsActive {
		return nil, domain.ErrNotFound
	}
	return shipment, nil
}

// UpdateDetails edits non-tracking metadata. The history, derived fields, and
// tracking code have no update path here.
func (s *ShipmentServiceImpl) UpdateDetails(ctx context.Context, id string, in ports.UpdateDetailsInput, p auth.Principal) (*domain.Shipment, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	return s.repo.Update(ctx, id, func(cur *domain.Shipment) error {
		if in.Sender != nil {
			sender := *in.Sender
			sender.Email = strings.ToLower(sender.Email)
			cur.Sender = sender
		}
		if in.Receiver != nil {
			if in.Receiver.Email == "" {
				return &domain.ValidationError{Fields: map[string]string{
					"receiver.email": "receiver email is required",
				}}
			}
			receiver := *in.Receiver
			receiver.Email = strings.ToLower(receiver.Email)
			cur.Receiver = receiver
		}
		if in.Destination != nil {
			if *in.Destination == "" {
				return &domain.ValidationError{Fields: map[string]string{
					"destination": "destination is required",
				}}
			}
			cur.Destination = *in.Destination
		}
		if in.PackageDescription != nil {
			cur.PackageDescription = *in.PackageDescription
		}
		if in.WeightKg != nil {
			cur.WeightKg = *in.WeightKg
		}
		if in.Priority != nil {
			cur.Priority = *in.Priority
		}
		if in.EstimatedDelivery != nil {
			eta := *in.EstimatedDelivery
			cur.EstimatedDelivery = &eta
		}
		if in.AssignedTo != nil {
			cur.AssignedTo = *in.AssignedTo
		}
		cur.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// Delete soft-deletes the shipment; the record stays in the store.
func (s *ShipmentServiceImpl) Delete(ctx context.Context, id string, p auth.Principal) error {
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}

	_, err := s.repo.Update(ctx, id, func(cur *domain.Shipment) error {
		cur.IsActive = false
		cur.UpdatedAt = time.Now().UTC()
		return nil
	})
	return err
}

var _ ports.ShipmentService = (*ShipmentServiceImpl)(nil)
