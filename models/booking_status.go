package models

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusApproved  BookingStatus = "APPROVED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

var AllBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusApproved,
	BookingStatusRejected,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected,
		BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// DoorFeeStatus tracks whose turn it is in the door-fee negotiation. The zero
// value means no negotiation is in progress.
type DoorFeeStatus string

const (
	DoorFeeStatusNone          DoorFeeStatus = ""
	DoorFeeStatusPendingHost   DoorFeeStatus = "PENDING_HOST"
	DoorFeeStatusPendingArtist DoorFeeStatus = "PENDING_ARTIST"
	DoorFeeStatusAgreed        DoorFeeStatus = "AGREED"
)

func (s DoorFeeStatus) IsValid() bool {
	switch s {
	case DoorFeeStatusNone, DoorFeeStatusPendingHost, DoorFeeStatusPendingArtist, DoorFeeStatusAgreed:
		return true
	}
	return false
}

// IsPending reports whether one of the parties still has to answer.
func (s DoorFeeStatus) IsPending() bool {
	return s == DoorFeeStatusPendingHost || s == DoorFeeStatusPendingArtist
}
