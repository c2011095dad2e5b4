package domain

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() NewShipmentInput {
	return NewShipmentInput{
		Sender: Party{
			Name:    "Ada Obi",
			Phone:   "+2348012345678",
			Address: "12 Marina Rd, Lagos",
		},
		Receiver: Party{
			Name:    "Ben Carter",
			Email:   "Ben.Carter@Example.com",
			Phone:   "+13105551234",
			Address: "400 Main St, Los Angeles",
		},
		Origin:      "Lagos, Nigeria",
		Destination: "Los Angeles, CA",
		CreatedBy:   "admin-1",
	}
}

func TestNewShipment_Defaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	s, err := NewShipment(validInput(), now)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.NotEmpty(t, s.TrackingCode)
	assert.Equal(t, s.TrackingCode, NormalizeTrackingCode(s.TrackingCode), "stored code must be canonical")
	assert.Equal(t, StatusPending, s.Status)
	assert.Empty(t, s.CurrentLocation)
	assert.Equal(t, 20, s.ProgressPercentage)
	assert.Nil(t, s.ActualDelivery)
	assert.True(t, s.IsActive)
	assert.Equal(t, int64(1), s.Version)
	assert.Equal(t, "ben.carter@example.com", s.Receiver.Email, "receiver email stored lowercase")
}

func TestNewShipment_SuppliedCodeNormalized(t *testing.T) {
	in := validInput()
	in.TrackingCode = "  abc123xyz  "

	s, err := NewShipment(in, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "ABC123XYZ", s.TrackingCode)
}

func TestNewShipment_ValidationFields(t *testing.T) {
	in := NewShipmentInput{}

	_, err := NewShipment(in, time.Now())
	require.Error(t, err)

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "sender.name")
	assert.Contains(t, ve.Fields, "receiver.email")
	assert.Contains(t, ve.Fields, "origin")
	assert.Contains(t, ve.Fields, "destination")
}

func TestAppendCheckpoint_DerivedFieldsTrackLastEntry(t *testing.T) {
	s, err := NewShipment(validInput(), time.Now())
	require.NoError(t, err)

	steps := []struct {
		status   CheckpointStatus
		location string
		progress int
	}{
		{StatusPending, "Lagos, Nigeria", 20},
		{StatusPickedUp, "Lagos Hub", 40},
		{StatusInTransit, "Atlantic Transit", 60},
		{StatusOutForDelivery, "Los Angeles Depot", 80},
		{StatusDelivered, "Los Angeles, CA", 100},
	}

	for i, step := range steps {
		_, err := s.AppendCheckpoint(Checkpoint{Status: step.status, Location: step.location})
		require.NoError(t, err)

		assert.Len(t, s.History, i+1)
		assert.Equal(t, step.status, s.Status)
		assert.Equal(t, step.location, s.CurrentLocation)
		assert.Equal(t, step.progress, s.ProgressPercentage)
	}
}

func TestAppendCheckpoint_NonMilestoneProgressIsZero(t *testing.T) {
	s, err := NewShipment(validInput(), time.Now())
	require.NoError(t, err)

	for _, status := range []CheckpointStatus{StatusCancelled, StatusOnHold, StatusProcessing, StatusConfirmed} {
		_, err := s.AppendCheckpoint(Checkpoint{Status: status, Location: "Somewhere"})
		require.NoError(t, err)
		assert.Equal(t, 0, s.ProgressPercentage, "status %q must yield 0 progress", status)
	}
}

func TestAppendCheckpoint_ActualDeliveryWriteOnce(t *testing.T) {
	s, err := NewShipment(validInput(), time.Now())
	require.NoError(t, err)

	first := time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC)
	_, err = s.AppendCheckpoint(Checkpoint{Status: StatusDelivered, Location: "LA", Timestamp: first})
	require.NoError(t, err)
	require.NotNil(t, s.ActualDelivery)
	assert.Equal(t, first, *s.ActualDelivery)

	// A later Delivered entry with a different timestamp must not move it.
	second := first.Add(48 * time.Hour)
	_, err = s.AppendCheckpoint(Checkpoint{Status: StatusDelivered, Location: "LA again", Timestamp: second})
	require.NoError(t, err)
	assert.Equal(t, first, *s.ActualDelivery)

	// Nor does any other status.
	_, err = s.AppendCheckpoint(Checkpoint{Status: StatusOnHold, Location: "Depot"})
	require.NoError(t, err)
	assert.Equal(t, first, *s.ActualDelivery)
}

func TestAppendCheckpoint_InvalidStatusLeavesHistoryUntouched(t *testing.T) {
	s, err := NewShipment(validInput(), time.Now())
	require.NoError(t, err)

	_, err = s.AppendCheckpoint(Checkpoint{Status: StatusInTransit, Location: "Hub"})
	require.NoError(t, err)

	before := make([]Checkpoint, len(s.History))
	copy(before, s.History)

	_, err = s.AppendCheckpoint(Checkpoint{Status: "Teleported", Location: "Nowhere"})
	require.Error(t, err)

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "status")

	assert.Equal(t, before, s.History)
	assert.Equal(t, StatusInTransit, s.Status)
}

func TestAppendCheckpoint_NoteAndCoordinateBounds(t *testing.T) {
	s, err := NewShipment(validInput(), time.Now())
	require.NoError(t, err)

	long := make([]byte, NoteMaxLength+1)
	for i := range long {
		long[i] = 'x'
	}

	_, err = s.AppendCheckpoint(Checkpoint{Status: StatusInTransit, Location: "Hub", Note: string(long)})
	require.Error(t, err)

	_, err = s.AppendCheckpoint(Checkpoint{
		Status:      StatusInTransit,
		Location:    "Hub",
		Coordinates: &Coordinates{Lat: 91, Lng: 0},
	})
	require.Error(t, err)

	_, err = s.AppendCheckpoint(Checkpoint{
		Status:      StatusInTransit,
		Location:    "Hub",
		Coordinates: &Coordinates{Lat: 45, Lng: -181},
	})
	require.Error(t, err)

	assert.Empty(t, s.History)
}

func TestAppendCheckpoint_NoteBoundCountsCharacters(t *testing.T) {
	s, err := NewShipment(validInput(), time.Now())
	require.NoError(t, err)

	// 400 characters but 1200 bytes; the bound is on characters.
	multibyte := strings.Repeat("é", 400)

	_, err = s.AppendCheckpoint(Checkpoint{Status: StatusInTransit, Location: "Hub", Note: multibyte})
	require.NoError(t, err)

	_, err = s.AppendCheckpoint(Checkpoint{
		Status:   StatusInTransit,
		Location: "Hub",
		Note:     strings.Repeat("é", NoteMaxLength+1),
	})
	require.Error(t, err)

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "note")
}

func TestAppendCheckpoint_DefaultsTimestamp(t *testing.T) {
	s, err := NewShipment(validInput(), time.Now())
	require.NoError(t, err)

	cp, err := s.AppendCheckpoint(Checkpoint{Status: StatusPickedUp, Location: "Hub"})
	require.NoError(t, err)
	assert.False(t, cp.Timestamp.IsZero())
}

func TestVisibleTo(t *testing.T) {
	s, err := NewShipment(validInput(), time.Now())
	require.NoError(t, err)

	assert.True(t, s.VisibleTo("ben.carter@example.com"))
	assert.False(t, s.VisibleTo("Ben.Carter@Example.com"), "match is exact on the stored lowercase form")
	assert.False(t, s.VisibleTo("stranger@example.com"))
	assert.False(t, s.VisibleTo(""))
}

func TestGenerateTrackingCode_UniqueUnderConcurrency(t *testing.T) {
	const n = 1000

	var mu sync.Mutex
	codes := make(map[string]struct{}, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code := GenerateTrackingCode(time.Now())
			mu.Lock()
			codes[code] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, codes, n, "concurrent generation must not collide")
}

func TestNormalizeTrackingCode(t *testing.T) {
	assert.Equal(t, "ST9X2K4A7B", NormalizeTrackingCode(" st9x2k4a7b "))
}
