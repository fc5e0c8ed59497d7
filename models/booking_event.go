package models

import "time"

// BookingEvent is one row of a booking's transition history. Rows are only
// ever appended, in the same transaction as the transition they record.
type BookingEvent struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	BookingID     string        `gorm:"column:booking_id;size:36;index;not null" json:"booking_id"`
	FromStatus    BookingStatus `gorm:"column:from_status;size:16" json:"from_status,omitempty"`
	ToStatus      BookingStatus `gorm:"column:to_status;size:16;not null" json:"to_status"`
	DoorFeeStatus DoorFeeStatus `gorm:"column:door_fee_status;size:16" json:"door_fee_status,omitempty"`
	DoorFee       *Money        `gorm:"column:door_fee_cents" json:"door_fee,omitempty"`
	ActorID       string        `gorm:"column:actor_id;size:36" json:"actor_id"`
	ActorRole     Role          `gorm:"column:actor_role;size:16" json:"actor_role"`
	Operation     string        `gorm:"column:operation;size:32" json:"operation"`
	Note          *string       `gorm:"column:note;type:text" json:"note,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
