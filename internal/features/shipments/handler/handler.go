package handler

import (
	"errors"
	"net/http"
	"time"

	"shipment-tracker/internal/core/auth"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	service ports.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		service: service,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// Fields carries per-field validation messages, when applicable.
	Fields map[string]string `json:"fields,omitempty"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	if ve, ok := domain.AsValidationError(err); ok {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "validation failed",
			Fields:  ve.Fields,
			RayID:   rayID(c),
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Message: "shipment not found",
			RayID:   rayID(c),
		})
	case errors.Is(err, domain.ErrCodeConflict):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Message: "tracking code already in use",
			RayID:   rayID(c),
		})
	case errors.Is(err, domain.ErrUpdateConflict):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Message: "shipment was modified concurrently, retry the request",
			RayID:   rayID(c),
		})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Message: "administrator capability required",
			RayID:   rayID(c),
		})
	}

	logger.Get().Error("Unhandled shipment error", zap.Error(err), zap.String("ray_id", rayID(c)))
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Message: "internal server error",
		RayID:   rayID(c),
	})
}

// PartyRequest carries sender or receiver contact details.
type PartyRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (p PartyRequest) toDomain() domain.Party {
	return domain.Party{Name: p.Name, Email: p.Email, Phone: p.Phone, Address: p.Address}
}

// CreateShipmentRequest represents the request body for creating a shipment.
type CreateShipmentRequest struct {
	TrackingCode       string       `json:"tracking_code"`
	Sender             PartyRequest `json:"sender"`
	Receiver           PartyRequest `json:"receiver"`
	Origin             string       `json:"origin"`
	Destination        string       `json:"destination"`
	PackageDescription string       `json:"package_description"`
	WeightKg           float64      `json:"weight_kg"`
	Priority           string       `json:"priority"`
	EstimatedDelivery  *time.Time   `json:"estimated_delivery"`
	AssignedTo         string       `json:"assigned_to"`
}

// Create godoc
// @Summary Create a shipment
// @Description Creates a shipment, seeding its history with a Pending checkpoint at the origin.
// @Tags shipments
// @Accept json
// @Produce json
// @Param shipment body CreateShipmentRequest true "Shipment details"
// @Success 201 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var req CreateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	shipment, err := h.service.Create(c.Context(), ports.CreateShipmentInput{
		TrackingCode:       req.TrackingCode,
		Sender:             req.Sender.toDomain(),
		Receiver:           req.Receiver.toDomain(),
		Origin:             req.Origin,
		Destination:        req.Destination,
		PackageDescription: req.PackageDescription,
		WeightKg:           req.WeightKg,
		Priority:           req.Priority,
		EstimatedDelivery:  req.EstimatedDelivery,
		AssignedTo:         req.AssignedTo,
	}, auth.FromCtx(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(shipment)
}

// AppendCheckpointRequest represents the request body for a new checkpoint.
type AppendCheckpointRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Note     string `json:"note"`
}

// AppendCheckpoint godoc
// @Summary Append a tracking checkpoint
// @Description Appends a checkpoint to the shipment history and triggers notifications.
// @Tags shipments
// @Accept json
// @Produce json
// @Param id path string true "Shipment ID"
// @Param checkpoint body AppendCheckpointRequest true "Checkpoint details"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id}/checkpoints [post]
func (h *ShipmentHandler) AppendCheckpoint(c *fiber.Ctx) error {
	var req AppendCheckpointRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	shipment, _, err := h.service.AppendCheckpoint(c.Context(), c.Params("id"), ports.AppendCheckpointInput{
		Status:   req.Status,
		Location: req.Location,
		Note:     req.Note,
	}, auth.FromCtx(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(shipment)
}

// Get godoc
// @Summary Get a shipment by id
// @Tags shipments
// @Produce json
// @Param id path string true "Shipment ID"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id} [get]
func (h *ShipmentHandler) Get(c *fiber.Ctx) error {
	shipment, err := h.service.Get(c.Context(), c.Params("id"), auth.FromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(shipment)
}

// List godoc
// @Summary List shipments
// @Description Lists shipments visible to the caller, filtered and paginated.
// @Tags shipments
// @Produce json
// @Param page query int false "1-indexed page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param status query string false "Filter by current status"
// @Param code query string false "Tracking code substring, case-insensitive"
// @Param created_by query string false "Filter by creating administrator"
// @Param from query string false "Creation time lower bound (RFC3339)"
// @Param to query string false "Creation time upper bound (RFC3339)"
// @Success 200 {object} ports.ListResult
// @Failure 400 {object} ErrorResponse
// @Router /shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	filter := ports.ListFilter{
		Status:          domain.CheckpointStatus(c.Query("status")),
		CodeContains:    c.Query("code"),
		CreatedBy:       c.Query("created_by"),
		IncludeInactive: c.QueryBool("include_inactive"),
		Page:            c.QueryInt("page", 1),
		Limit:           c.QueryInt("limit", 20),
	}

	if raw := c.Query("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: "invalid 'from' timestamp, expected RFC3339",
				RayID:   rayID(c),
			})
		}
		filter.CreatedFrom = &ts
	}
	if raw := c.Query("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: "invalid 'to' timestamp, expected RFC3339",
				RayID:   rayID(c),
			})
		}
		filter.CreatedTo = &ts
	}

	result, err := h.service.List(c.Context(), filter, auth.FromCtx(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// UpdateShipmentRequest represents the request body for metadata edits.
// Absent fields are left untouched. Status, history, derived fields, and the
// tracking code cannot be edited here.
type UpdateShipmentRequest struct {
	Sender             *PartyRequest `json:"sender"`
	Receiver           *PartyRequest `json:"receiver"`
	Destination        *string       `json:"destination"`
	PackageDescription *string       `json:"package_description"`
	WeightKg           *float64      `json:"weight_kg"`
	Priority           *string       `json:"priority"`
	EstimatedDelivery  *time.Time    `json:"estimated_delivery"`
	AssignedTo         *string       `json:"assigned_to"`
}

// Update godoc
// @Summary Edit shipment metadata
// @Tags shipments
// @Accept json
// @Produce json
// @Param id path string true "Shipment ID"
// @Param shipment body UpdateShipmentRequest true "Fields to update"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id} [patch]
func (h *ShipmentHandler) Update(c *fiber.Ctx) error {
	var req UpdateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	in := ports.UpdateDetailsInput{
		Destination:        req.Destination,
		PackageDescription: req.PackageDescription,
		WeightKg:           req.WeightKg,
		Priority:           req.Priority,
		EstimatedDelivery:  req.EstimatedDelivery,
		AssignedTo:         req.AssignedTo,
	}
	if req.Sender != nil {
		sender := req.Sender.toDomain()
		in.Sender = &sender
	}
	if req.Receiver != nil {
		receiver := req.Receiver.toDomain()
		in.Receiver = &receiver
	}

	shipment, err := h.service.UpdateDetails(c.Context(), c.Params("id"), in, auth.FromCtx(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(shipment)
}

// Delete godoc
// @Summary Soft-delete a shipment
// @Tags shipments
// @Produce json
// @Param id path string true "Shipment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id"), auth.FromCtx(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "shipment deactivated"})
}
