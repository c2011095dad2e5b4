package handler

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"time"

	notifdomain "shipment-tracker/internal/features/notifications/domain"
	notifports "shipment-tracker/internal/features/notifications/ports"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// streamKeepAlive is the interval between SSE comment lines that keep idle
// connections from being reaped by intermediaries.
const streamKeepAlive = 25 * time.Second

// TrackingHandler serves the public, unauthenticated tracking surface:
// lookup by tracking code and the live event stream.
type TrackingHandler struct {
	service    ports.ShipmentService
	subscriber notifports.EventSubscriber
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(service ports.ShipmentService, subscriber notifports.EventSubscriber) *TrackingHandler {
	return &TrackingHandler{
		service:    service,
		subscriber: subscriber,
	}
}

// PublicCheckpointView is a history entry without internal references.
type PublicCheckpointView struct {
	Status      domain.CheckpointStatus `json:"status"`
	Location    string                  `json:"location"`
	Coordinates *domain.Coordinates     `json:"coordinates,omitempty"`
	Note        string                  `json:"note,omitempty"`
	Timestamp   time.Time               `json:"timestamp"`
}

// PublicShipmentView is the directory-lookup projection of a shipment. It
// exposes no internal identifiers; the tracking code is the only key.
type PublicShipmentView struct {
	TrackingCode       string                  `json:"tracking_code"`
	SenderName         string                  `json:"sender_name"`
	ReceiverName       string                  `json:"receiver_name"`
	Origin             string                  `json:"origin"`
	Destination        string                  `json:"destination"`
	Status             domain.CheckpointStatus `json:"status"`
	CurrentLocation    string                  `json:"current_location"`
	ProgressPercentage int                     `json:"progress_percentage"`
	EstimatedDelivery  *time.Time              `json:"estimated_delivery,omitempty"`
	ActualDelivery     *time.Time              `json:"actual_delivery,omitempty"`
	History            []PublicCheckpointView  `json:"history"`
}

func toPublicView(s *domain.Shipment) PublicShipmentView {
	history := make([]PublicCheckpointView, 0, len(s.History))
	for _, cp := range s.History {
		history = append(history, PublicCheckpointView{
			Status:      cp.Status,
			Location:    cp.Location,
			Coordinates: cp.Coordinates,
			Note:        cp.Note,
			Timestamp:   cp.Timestamp,
		})
	}
	return PublicShipmentView{
		TrackingCode:       s.TrackingCode,
		SenderName:         s.Sender.Name,
		ReceiverName:       s.Receiver.Name,
		Origin:             s.Origin,
		Destination:        s.Destination,
		Status:             s.Status,
		CurrentLocation:    s.CurrentLocation,
		ProgressPercentage: s.ProgressPercentage,
		EstimatedDelivery:  s.EstimatedDelivery,
		ActualDelivery:     s.ActualDelivery,
		History:            history,
	}
}

// Track godoc
// @Summary Track a shipment by code
// @Description Public, case-insensitive lookup by tracking code.
// @Tags tracking
// @Produce json
// @Param code path string true "Tracking code"
// @Success 200 {object} PublicShipmentView
// @Failure 404 {object} ErrorResponse
// @Router /track/{code} [get]
func (h *TrackingHandler) Track(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "tracking code is required",
			RayID:   rayID(c),
		})
	}

	shipment, err := h.service.GetByTrackingCode(c.Context(), code)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(toPublicView(shipment))
}

// Stream godoc
// @Summary Stream live tracking events
// @Description Server-sent events for every checkpoint appended to the shipment.
// @Tags tracking
// @Produce text/event-stream
// @Param code path string true "Tracking code"
// @Success 200 {string} string "SSE stream"
// @Failure 404 {object} ErrorResponse
// @Router /track/{code}/stream [get]
func (h *TrackingHandler) Stream(c *fiber.Ctx) error {
	code := c.Params("code")

	// Reject unknown or inactive codes before holding a connection open.
	if _, err := h.service.GetByTrackingCode(c.Context(), code); err != nil {
		return respondError(c, err)
	}

	topic := notifdomain.TopicForTrackingCode(code)

	// The subscription must outlive this handler; it is torn down when the
	// client goes away and the stream writer returns.
	ctx, cancel := context.WithCancel(context.Background())

	events, unsubscribe, err := h.subscriber.Subscribe(ctx, topic)
	if err != nil {
		cancel()
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer unsubscribe()

		keepAlive := time.NewTicker(streamKeepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case payload, ok := <-events:
				if !ok {
					return
				}
				if _, err := fmt.Fprintf(w, "event: checkpoint\ndata: %s\n\n", payload); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
