package service

import (
	"context"
	"encoding/json"
	"time"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/notifications/domain"
	"shipment-tracker/internal/features/notifications/ports"
	shipdomain "shipment-tracker/internal/features/shipments/domain"

	"go.uber.org/zap"
)

// sideEffectTimeout bounds each detached side effect. The request that
// triggered the fan-out has already returned by the time this matters.
const sideEffectTimeout = 15 * time.Second

// Notifier fans a persisted checkpoint out to the receiver's inbox and the
// shipment's pub/sub topic. The two effects run detached and independently;
// neither failure reaches the caller, and a crash before they run means the
// notification is simply lost (at-most-once).
type Notifier struct {
	email ports.EmailSender
	bus   ports.EventPublisher
}

// NewNotifier wires the fan-out over its two collaborators.
func NewNotifier(email ports.EmailSender, bus ports.EventPublisher) *Notifier {
	return &Notifier{
		email: email,
		bus:   bus,
	}
}

// CheckpointAppended dispatches both side effects and returns immediately.
// Call it only after the checkpoint is durably persisted.
func (n *Notifier) CheckpointAppended(shipment *shipdomain.Shipment, cp shipdomain.Checkpoint, previous shipdomain.CheckpointStatus) {
	event := domain.CheckpointEvent{
		TrackingCode:   shipment.TrackingCode,
		Shipment:       shipment,
		Checkpoint:     cp,
		PreviousStatus: previous,
		OccurredAt:     time.Now().UTC(),
	}

	go n.notifyReceiver(shipment, cp, previous)
	go n.publishEvent(event)
}

// notifyReceiver emails the receiver only. Failures are logged and swallowed;
// no retry happens here.
func (n *Notifier) notifyReceiver(shipment *shipdomain.Shipment, cp shipdomain.Checkpoint, previous shipdomain.CheckpointStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	subject, htmlBody, textBody, err := renderStatusEmail(shipment, cp, previous)
	if err != nil {
		logger.Get().Error("Failed to render status email",
			zap.String("tracking_code", shipment.TrackingCode),
			zap.Error(err),
		)
		return
	}

	result, err := n.email.Send(ctx, ports.EmailMessage{
		To:      shipment.Receiver.Email,
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	})
	if err != nil {
		logger.Get().Warn("Status email not delivered",
			zap.String("tracking_code", shipment.TrackingCode),
			zap.String("to", shipment.Receiver.Email),
			zap.Error(err),
		)
		return
	}

	logger.Get().Debug("Status email sent",
		zap.String("tracking_code", shipment.TrackingCode),
		zap.String("message_id", result.MessageID),
	)
}

// publishEvent emits the checkpoint event on the shipment's topic.
func (n *Notifier) publishEvent(event domain.CheckpointEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Get().Error("Failed to marshal checkpoint event",
			zap.String("tracking_code", event.TrackingCode),
			zap.Error(err),
		)
		return
	}

	topic := domain.TopicForTrackingCode(event.TrackingCode)
	if err := n.bus.Publish(ctx, topic, payload); err != nil {
		logger.Get().Warn("Checkpoint event not published",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}
}
