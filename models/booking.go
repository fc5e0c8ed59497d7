package models

import (
	"time"

	"gorm.io/datatypes"
)

// Booking is a request from an artist to play a show at a host's venue.
// Status and DoorFeeStatus only change through the transitions in services.
type Booking struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ArtistID string `gorm:"column:artist_id;size:36;index;not null" json:"artist_id"`
	HostID   string `gorm:"column:host_id;size:36;index;not null" json:"host_id"`

	RequestedDate      time.Time `gorm:"column:requested_date;type:date;index;not null" json:"requested_date"`
	RequestedTime      *string   `gorm:"column:requested_time;size:5" json:"requested_time,omitempty"`
	EstimatedDuration  *int      `gorm:"column:estimated_duration" json:"estimated_duration,omitempty"`
	ExpectedAttendance *int      `gorm:"column:expected_attendance" json:"expected_attendance,omitempty"`

	// ArtistDoorFee is the artist's original ask and never changes after create.
	ArtistDoorFee *Money        `gorm:"column:artist_door_fee_cents" json:"artist_door_fee,omitempty"`
	DoorFee       *Money        `gorm:"column:door_fee_cents" json:"door_fee,omitempty"`
	DoorFeeStatus DoorFeeStatus `gorm:"column:door_fee_status;size:16;not null" json:"door_fee_status,omitempty"`

	Status BookingStatus `gorm:"column:status;size:16;index;not null" json:"status"`

	ArtistMessage    *string        `gorm:"column:artist_message;type:text" json:"artist_message,omitempty"`
	HostResponse     *string        `gorm:"column:host_response;type:text" json:"host_response,omitempty"`
	LodgingRequested bool           `gorm:"column:lodging_requested;not null" json:"lodging_requested"`
	LodgingDetails   datatypes.JSON `gorm:"column:lodging_details" json:"lodging_details,omitempty"`

	RequestedAt          time.Time  `gorm:"column:requested_at;not null" json:"requested_at"`
	RespondedAt          *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
	ConfirmationDeadline *time.Time `gorm:"column:confirmation_deadline" json:"confirmation_deadline,omitempty"`
	ConfirmedAt          *time.Time `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
	CompletedAt          *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	RejectedAt           *time.Time `gorm:"column:rejected_at" json:"rejected_at,omitempty"`
	CancelledAt          *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CancelledBy          *string    `gorm:"column:cancelled_by;size:36" json:"cancelled_by,omitempty"`
	CancelReason         *string    `gorm:"column:cancel_reason;type:text" json:"cancel_reason,omitempty"`

	Version   int       `gorm:"column:version;not null" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Artist *User `gorm:"foreignKey:ArtistID;references:ID" json:"-"`
	Host   *User `gorm:"foreignKey:HostID;references:ID" json:"-"`
}

// StateToken identifies the exact state a transition was computed from.
type StateToken struct {
	Version       int
	Status        BookingStatus
	DoorFeeStatus DoorFeeStatus
}

func (b *Booking) Token() StateToken {
	return StateToken{Version: b.Version, Status: b.Status, DoorFeeStatus: b.DoorFeeStatus}
}

// IsParty reports whether userID is the booking's artist or host.
func (b *Booking) IsParty(userID string) bool {
	return userID != "" && (userID == b.ArtistID || userID == b.HostID)
}

// ShowStartsAt combines RequestedDate and RequestedTime. Without a time the
// show is taken to start at midnight of the requested date.
func (b *Booking) ShowStartsAt() time.Time {
	y, m, d := b.RequestedDate.Date()
	loc := b.RequestedDate.Location()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if b.RequestedTime != nil {
		if t, err := time.Parse(TimeOfDayLayout, *b.RequestedTime); err == nil {
			start = start.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
	}
	return start
}

// ShowEndsAt is ShowStartsAt plus the estimated duration, or the end of the
// requested day when no time or duration is known.
func (b *Booking) ShowEndsAt() time.Time {
	start := b.ShowStartsAt()
	if b.RequestedTime == nil || b.EstimatedDuration == nil {
		y, m, d := b.RequestedDate.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, b.RequestedDate.Location()).AddDate(0, 0, 1)
	}
	return start.Add(time.Duration(*b.EstimatedDuration) * time.Minute)
}

// Clone returns a deep copy so callers can mutate it without aliasing.
func (b *Booking) Clone() *Booking {
	c := *b
	c.RequestedTime = cloneString(b.RequestedTime)
	c.EstimatedDuration = cloneInt(b.EstimatedDuration)
	c.ExpectedAttendance = cloneInt(b.ExpectedAttendance)
	c.ArtistDoorFee = b.ArtistDoorFee.Clone()
	c.DoorFee = b.DoorFee.Clone()
	c.ArtistMessage = cloneString(b.ArtistMessage)
	c.HostResponse = cloneString(b.HostResponse)
	if b.LodgingDetails != nil {
		c.LodgingDetails = append(datatypes.JSON(nil), b.LodgingDetails...)
	}
	c.RespondedAt = cloneTime(b.RespondedAt)
	c.ConfirmationDeadline = cloneTime(b.ConfirmationDeadline)
	c.ConfirmedAt = cloneTime(b.ConfirmedAt)
	c.CompletedAt = cloneTime(b.CompletedAt)
	c.RejectedAt = cloneTime(b.RejectedAt)
	c.CancelledAt = cloneTime(b.CancelledAt)
	c.CancelledBy = cloneString(b.CancelledBy)
	c.CancelReason = cloneString(b.CancelReason)
	c.Artist = nil
	c.Host = nil
	return &c
}

const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04"
)

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
