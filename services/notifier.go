package services

import (
	"time"

	"houseshow-backend/models"
)

// TransitionNotice is published after a transition has been committed.
type TransitionNotice struct {
	BookingID     string
	From          models.BookingStatus
	To            models.BookingStatus
	DoorFeeStatus models.DoorFeeStatus
	DoorFee       *models.Money
	Operation     Operation
	ActorID       string
	ActorRole     models.Role
	ArtistID      string
	HostID        string
	OccurredAt    time.Time
}

// Recipients are the parties that did not trigger the transition. System and
// admin transitions go to both.
func (n TransitionNotice) Recipients() []string {
	switch n.ActorID {
	case n.ArtistID:
		return []string{n.HostID}
	case n.HostID:
		return []string{n.ArtistID}
	}
	return []string{n.ArtistID, n.HostID}
}

// Notifier must not block; delivery happens elsewhere.
type Notifier interface {
	Publish(n TransitionNotice)
}

type nopNotifier struct{}

func (nopNotifier) Publish(TransitionNotice) {}
