package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_ShowWindow(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	start := "20:30"
	duration := 90

	b := &Booking{RequestedDate: date, RequestedTime: &start, EstimatedDuration: &duration}
	assert.Equal(t, time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC), b.ShowStartsAt())
	assert.Equal(t, time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC), b.ShowEndsAt())

	dateOnly := &Booking{RequestedDate: date}
	assert.Equal(t, date, dateOnly.ShowStartsAt())
	assert.Equal(t, date.AddDate(0, 0, 1), dateOnly.ShowEndsAt())
}

func TestBooking_CloneIsDeep(t *testing.T) {
	msg := "hello"
	b := &Booking{
		ID:             "b1",
		DoorFee:        NewMoney(1500),
		ArtistMessage:  &msg,
		LodgingDetails: []byte(`{"beds":1}`),
	}
	c := b.Clone()
	*c.DoorFee = 99
	*c.ArtistMessage = "changed"
	c.LodgingDetails[2] = 'X'

	assert.Equal(t, Money(1500), *b.DoorFee)
	assert.Equal(t, "hello", *b.ArtistMessage)
	assert.Equal(t, `{"beds":1}`, string(b.LodgingDetails))
}

func TestBookingStatus_Terminal(t *testing.T) {
	for _, s := range AllBookingStatuses {
		assert.True(t, s.IsValid())
	}
	assert.True(t, BookingStatusRejected.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.False(t, BookingStatusApproved.IsTerminal())
	assert.False(t, BookingStatus("approved").IsValid())
}
