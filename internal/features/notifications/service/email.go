package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	shipdomain "shipment-tracker/internal/features/shipments/domain"
)

// statusEmailTemplate renders the HTML body of a status-change notification.
var statusEmailTemplate = template.Must(template.New("status_email").Parse(`<html>
<body>
  <h2>Shipment {{.TrackingCode}} update</h2>
  <p>Your shipment status changed from <strong>{{.OldStatus}}</strong> to <strong>{{.NewStatus}}</strong>.</p>
  <p>Current location: {{.Location}}</p>
  {{if .Note}}<p>Note: {{.Note}}</p>{{end}}
  <p>Recorded at: {{.Timestamp}}</p>
  {{if .MapLink}}<p><a href="{{.MapLink}}">View on map</a></p>{{end}}
</body>
</html>`))

type statusEmailData struct {
	TrackingCode string
	OldStatus    shipdomain.CheckpointStatus
	NewStatus    shipdomain.CheckpointStatus
	Location     string
	Note         string
	Timestamp    string
	MapLink      string
}

// renderStatusEmail builds the subject, HTML, and plain-text bodies for a
// checkpoint notification addressed to the receiver.
func renderStatusEmail(s *shipdomain.Shipment, cp shipdomain.Checkpoint, previous shipdomain.CheckpointStatus) (subject, htmlBody, textBody string, err error) {
	data := statusEmailData{
		TrackingCode: s.TrackingCode,
		OldStatus:    previous,
		NewStatus:    cp.Status,
		Location:     cp.Location,
		Note:         cp.Note,
		Timestamp:    cp.Timestamp.UTC().Format("2 Jan 2006 15:04 MST"),
	}
	if cp.Coordinates != nil {
		data.MapLink = fmt.Sprintf("https://www.openstreetmap.org/?mlat=%f&mlon=%f",
			cp.Coordinates.Lat, cp.Coordinates.Lng)
	}

	var buf bytes.Buffer
	if err := statusEmailTemplate.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render status email: %w", err)
	}

	subject = fmt.Sprintf("Shipment %s update: %s", s.TrackingCode, cp.Status)

	var text strings.Builder
	fmt.Fprintf(&text, "Shipment %s status changed from %s to %s.\n", s.TrackingCode, previous, cp.Status)
	fmt.Fprintf(&text, "Current location: %s\n", cp.Location)
	if cp.Note != "" {
		fmt.Fprintf(&text, "Note: %s\n", cp.Note)
	}
	fmt.Fprintf(&text, "Recorded at: %s\n", data.Timestamp)
	if data.MapLink != "" {
		fmt.Fprintf(&text, "Map: %s\n", data.MapLink)
	}

	return subject, buf.String(), text.String(), nil
}
