// Package events publishes booking lifecycle events to Kafka so downstream
// consumers (notification service, audit log) can react without this
// service knowing about them.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents carries all booking lifecycle events.
const TopicBookingEvents = "booking.events"

// Booking event types.
const (
	BookingCreated  = "booking.created"
	BookingUpdated  = "booking.updated"
	BookingApproved = "booking.approved"
	BookingRejected = "booking.rejected"
	BookingPaid     = "booking.paid"
	BookingDeleted  = "booking.deleted"
)

// BookingEvent is the payload published for every booking lifecycle change.
type BookingEvent struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	CabinID       uuid.UUID  `json:"cabin_id"`
	UserID        uuid.UUID  `json:"user_id"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	PaymentAmount *float64   `json:"payment_amount,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// CloudEvent is the envelope every published message is wrapped in,
// following the CloudEvents 1.0 attribute names.
type CloudEvent struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	SpecVersion string          `json:"specversion"`
	Type        string          `json:"type"`
	Time        time.Time       `json:"time"`
	Data        json.RawMessage `json:"data"`
}

// NewCloudEvent wraps data in a CloudEvent envelope.
func NewCloudEvent(source, eventType string, data interface{}) (CloudEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return CloudEvent{
		ID:          uuid.New().String(),
		Source:      source,
		SpecVersion: "1.0",
		Type:        eventType,
		Time:        time.Now().UTC(),
		Data:        payload,
	}, nil
}

// ParseCloudEvent decodes a CloudEvent from its wire form.
func ParseCloudEvent(raw []byte) (CloudEvent, error) {
	var ce CloudEvent
	if err := json.Unmarshal(raw, &ce); err != nil {
		return CloudEvent{}, fmt.Errorf("failed to parse cloud event: %w", err)
	}
	return ce, nil
}

// ParseData decodes the event payload into v.
func (e CloudEvent) ParseData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}
