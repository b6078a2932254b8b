package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudEvent_RoundTrip(t *testing.T) {
	amount := 600.0
	evt := BookingEvent{
		BookingID:     uuid.New(),
		CabinID:       uuid.New(),
		UserID:        uuid.New(),
		StartDate:     "2026-06-01",
		EndDate:       "2026-06-05",
		Status:        "approved",
		PaymentStatus: "unpaid",
		PaymentAmount: &amount,
		OccurredAt:    time.Now().UTC().Truncate(time.Second),
	}

	ce, err := NewCloudEvent("cabin-booking", BookingApproved, evt)
	require.NoError(t, err)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.Equal(t, BookingApproved, ce.Type)
	assert.Equal(t, "cabin-booking", ce.Source)
	assert.NotEmpty(t, ce.ID)

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ce.ID, parsed.ID)

	var decoded BookingEvent
	require.NoError(t, parsed.ParseData(&decoded))
	assert.Equal(t, evt.BookingID, decoded.BookingID)
	assert.Equal(t, "approved", decoded.Status)
	require.NotNil(t, decoded.PaymentAmount)
	assert.Equal(t, 600.0, *decoded.PaymentAmount)
}

func TestParseCloudEvent_InvalidPayload(t *testing.T) {
	_, err := ParseCloudEvent([]byte("not json"))
	assert.Error(t, err)
}
