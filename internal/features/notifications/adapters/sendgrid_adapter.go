package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"shipment-tracker/internal/core/httpclient"
	"shipment-tracker/internal/features/notifications/ports"
)

const sendgridMailEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridAdapter implements the EmailSender port against the SendGrid v3
// Mail Send API.
type SendGridAdapter struct {
	client    *http.Client
	endpoint  string
	apiKey    string
	fromEmail string
	fromName  string
}

// NewSendGridAdapter creates the adapter with the production endpoint.
func NewSendGridAdapter(apiKey, fromEmail, fromName string) *SendGridAdapter {
	return &SendGridAdapter{
		client:    httpclient.NewClient(10 * time.Second),
		endpoint:  sendgridMailEndpoint,
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send posts the message to SendGrid.
func (a *SendGridAdapter) Send(ctx context.Context, msg ports.EmailMessage) (ports.EmailResult, error) {
	payload := sgMailPayload{
		Personalizations: []sgPersonalization{{
			To: []sgAddress{{Email: msg.To}},
		}},
		From:    sgAddress{Email: a.fromEmail, Name: a.fromName},
		Subject: msg.Subject,
		Content: []sgContent{
			{Type: "text/plain", Value: msg.Text},
			{Type: "text/html", Value: msg.HTML},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.EmailResult{}, fmt.Errorf("failed to marshal SendGrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.EmailResult{}, fmt.Errorf("failed to create SendGrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return ports.EmailResult{}, fmt.Errorf("SendGrid request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return ports.EmailResult{}, fmt.Errorf("SendGrid returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return ports.EmailResult{MessageID: resp.Header.Get("X-Message-Id")}, nil
}

// SendGrid v3 Mail Send API payload types.
type sgMailPayload struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ErrEmailDisabled is returned by DisabledSender for every send.
var ErrEmailDisabled = errors.New("email sending is not configured")

// DisabledSender stands in when no SendGrid key is configured. Every send
// fails with ErrEmailDisabled, which the fan-out logs and absorbs like any
// other delivery failure.
type DisabledSender struct{}

// NewDisabledSender creates the stand-in sender.
func NewDisabledSender() *DisabledSender {
	return &DisabledSender{}
}

// Send always reports the email collaborator as unavailable.
func (d *DisabledSender) Send(ctx context.Context, msg ports.EmailMessage) (ports.EmailResult, error) {
	return ports.EmailResult{}, ErrEmailDisabled
}
