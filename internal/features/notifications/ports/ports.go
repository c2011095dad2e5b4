package ports

import "context"

// EmailMessage is one outbound notification email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailResult reports a successful send.
type EmailResult struct {
	MessageID string
}

// EmailSender is the secondary port for the email collaborator. Errors are
// reported to the caller, which logs and absorbs them; delivery retries, if
// any, belong to the provider.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (EmailResult, error)
}

// EventPublisher emits fire-and-forget events on a topic. No acknowledgment
// is awaited and missed events are not replayed to late subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// EventSubscriber attaches to a topic. The returned channel closes when the
// context is done or cancel is called; cancel is safe to call more than once.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error)
}
