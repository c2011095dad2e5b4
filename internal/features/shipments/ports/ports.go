package ports

import (
	"context"
	"time"

	"shipment-tracker/internal/core/auth"
	"shipment-tracker/internal/features/shipments/domain"
)

// Scope restricts which shipments a query may return. It is derived from the
// caller's principal and applied inside the repository, before pagination, so
// page totals stay correct.
type Scope struct {
	// All grants unrestricted read access (administrators).
	All bool
	// Email restricts reads to shipments where the stored sender or receiver
	// email equals this value. Ignored when All is set.
	Email string
}

// ScopeFor maps a principal to its read scope.
func ScopeFor(p auth.Principal) Scope {
	if p.IsAdmin() {
		return Scope{All: true}
	}
	return Scope{Email: p.Email}
}

// Allows reports whether the scope grants read access to the shipment.
func (s Scope) Allows(shipment *domain.Shipment) bool {
	if s.All {
		return true
	}
	return shipment.VisibleTo(s.Email)
}

// ListFilter narrows and paginates shipment listings.
type ListFilter struct {
	// Status keeps only shipments whose current status matches.
	Status domain.CheckpointStatus
	// CodeContains keeps shipments whose tracking code contains the value,
	// case-insensitively.
	CodeContains string
	// CreatedBy keeps shipments created by the given administrator.
	CreatedBy string
	// CreatedFrom / CreatedTo bound the creation time (inclusive).
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	// IncludeInactive also returns soft-deleted shipments. Honored only for
	// administrative scopes.
	IncludeInactive bool

	// Page is 1-indexed; Limit is the page size.
	Page  int
	Limit int
}

// ListResult is one page of shipments plus the exact filtered total.
type ListResult struct {
	Items []domain.Shipment `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// CreateShipmentInput carries the request payload for shipment creation.
type CreateShipmentInput struct {
	// TrackingCode is optional; empty means generate one.
	TrackingCode string
	Sender       domain.Party
	Receiver     domain.Party
	Origin       string
	Destination  string

	PackageDescription string
	WeightKg           float64
	Priority           string
	EstimatedDelivery  *time.Time

	AssignedTo string
}

// AppendCheckpointInput carries a new history entry.
type AppendCheckpointInput struct {
	Status   string
	Location string
	Note     string
}

// UpdateDetailsInput edits non-tracking metadata. Nil fields are left as-is.
// Status, history, derived fields, and the tracking code have no update path
// here; they change only through checkpoint appends.
type UpdateDetailsInput struct {
	Sender             *domain.Party
	Receiver           *domain.Party
	Destination        *string
	PackageDescription *string
	WeightKg           *float64
	Priority           *string
	EstimatedDelivery  *time.Time
	AssignedTo         *string
}

// ShipmentService is the primary port for shipment operations.
type ShipmentService interface {
	Create(ctx context.Context, in CreateShipmentInput, p auth.Principal) (*domain.Shipment, error)
	AppendCheckpoint(ctx context.Context, id string, in AppendCheckpointInput, p auth.Principal) (*domain.Shipment, domain.Checkpoint, error)
	Get(ctx context.Context, id string, p auth.Principal) (*domain.Shipment, error)
	List(ctx context.Context, filter ListFilter, p auth.Principal) (*ListResult, error)
	GetByTrackingCode(ctx context.Context, code string) (*domain.Shipment, error)
	UpdateDetails(ctx context.Context, id string, in UpdateDetailsInput, p auth.Principal) (*domain.Shipment, error)
	Delete(ctx context.Context, id string, p auth.Principal) error
}

// ShipmentRepository is the secondary port for shipment persistence.
type ShipmentRepository interface {
	// Create persists a new shipment. Returns domain.ErrCodeConflict when the
	// tracking code is already claimed.
	Create(ctx context.Context, s *domain.Shipment) error

	// GetByID fetches one shipment or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)

	// GetByTrackingCode fetches by normalized code or domain.ErrNotFound.
	GetByTrackingCode(ctx context.Context, code string) (*domain.Shipment, error)

	// Update applies mutate to the current version of the shipment and
	// persists the result under an optimistic version check, retrying a
	// bounded number of times on concurrent-write conflicts.
	Update(ctx context.Context, id string, mutate func(*domain.Shipment) error) (*domain.Shipment, error)

	// List returns the scoped, filtered page ordered by creation time
	// descending, insertion order breaking ties.
	List(ctx context.Context, filter ListFilter, scope Scope) (*ListResult, error)
}

// CheckpointNotifier is the outbound port for the post-append fan-out. The
// call must not block on delivery; implementations detach their side effects.
type CheckpointNotifier interface {
	CheckpointAppended(shipment *domain.Shipment, cp domain.Checkpoint, previous domain.CheckpointStatus)
}
