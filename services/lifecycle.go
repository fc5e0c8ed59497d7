package services

import (
	"time"

	"houseshow-backend/models"
)

// Decision is the host's answer to a PENDING booking.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// FeeDecision is the answer of the party whose turn it is in the door-fee negotiation.
type FeeDecision string

const (
	FeeDecisionAccept  FeeDecision = "accept"
	FeeDecisionDecline FeeDecision = "decline"
)

// partyRole returns the role actor plays on b, or "" when actor is not one of
// its two parties. The claimed role has to match the seat the user occupies.
func partyRole(b *models.Booking, actor Actor) models.Role {
	switch {
	case actor.Role == models.RoleArtist && actor.UserID == b.ArtistID:
		return models.RoleArtist
	case actor.Role == models.RoleHost && actor.UserID == b.HostID:
		return models.RoleHost
	}
	return ""
}

func authorize(b *models.Booking, actor Actor, op Operation) error {
	role := partyRole(b, actor)
	var ok bool
	switch op {
	case OpRespond:
		ok = role == models.RoleHost
	case OpConfirm:
		ok = role == models.RoleArtist
	case OpCancel, OpResolveDoorFee, OpCounterDoorFee:
		ok = role != ""
	case OpMarkCompleted:
		ok = actor.isPrivileged()
	case OpView:
		ok = role != "" || actor.isPrivileged()
	}
	if !ok {
		return unauthorized(actor, op)
	}
	return nil
}

// turnOf is the door-fee status in which role is expected to answer.
func turnOf(role models.Role) models.DoorFeeStatus {
	switch role {
	case models.RoleArtist:
		return models.DoorFeeStatusPendingArtist
	case models.RoleHost:
		return models.DoorFeeStatusPendingHost
	}
	return models.DoorFeeStatusNone
}

func otherTurn(s models.DoorFeeStatus) models.DoorFeeStatus {
	if s == models.DoorFeeStatusPendingArtist {
		return models.DoorFeeStatusPendingHost
	}
	return models.DoorFeeStatusPendingArtist
}

// initialDoorFee applies the approval rule: the host's proposal binds only
// when it matches the artist's ask exactly, to the cent.
func initialDoorFee(ask, proposed *models.Money) (*models.Money, models.DoorFeeStatus) {
	switch {
	case proposed == nil:
		return ask.Clone(), models.DoorFeeStatusAgreed
	case ask == nil:
		return proposed.Clone(), models.DoorFeeStatusAgreed
	case ask.Equal(proposed):
		return ask.Clone(), models.DoorFeeStatusAgreed
	default:
		return proposed.Clone(), models.DoorFeeStatusPendingArtist
	}
}

func applyRespond(b *models.Booking, in RespondInput, now time.Time, window time.Duration) error {
	if b.Status != models.BookingStatusPending {
		return invalidState(b, OpRespond)
	}
	b.RespondedAt = &now
	b.HostResponse = in.HostResponse

	switch in.Decision {
	case DecisionReject:
		b.Status = models.BookingStatusRejected
		b.RejectedAt = &now
	case DecisionApprove:
		deadline := now.Add(window)
		b.Status = models.BookingStatusApproved
		b.ConfirmationDeadline = &deadline
		b.DoorFee, b.DoorFeeStatus = initialDoorFee(b.ArtistDoorFee, in.ProposedDoorFee)
	default:
		return NewValidationError("decision", "must be approve or reject")
	}
	return nil
}

func applyResolveDoorFee(b *models.Booking, role models.Role, decision FeeDecision, now time.Time) error {
	if b.Status != models.BookingStatusApproved || b.DoorFeeStatus != turnOf(role) {
		return invalidState(b, OpResolveDoorFee)
	}
	switch decision {
	case FeeDecisionAccept:
		b.DoorFeeStatus = models.DoorFeeStatusAgreed
	case FeeDecisionDecline:
		// doorFeeStatus stays where the negotiation stopped
		b.Status = models.BookingStatusRejected
		b.RejectedAt = &now
	default:
		return NewValidationError("decision", "must be accept or decline")
	}
	return nil
}

func applyCounterDoorFee(b *models.Booking, role models.Role, amount models.Money) error {
	if b.Status != models.BookingStatusApproved || b.DoorFeeStatus != turnOf(role) {
		return invalidState(b, OpCounterDoorFee)
	}
	if b.DoorFee.Equal(&amount) {
		return NewValidationError("door_fee", "matches the current offer, accept it instead")
	}
	b.DoorFee = &amount
	b.DoorFeeStatus = otherTurn(b.DoorFeeStatus)
	return nil
}

func applyConfirm(b *models.Booking, now time.Time) error {
	if b.Status != models.BookingStatusApproved || b.DoorFeeStatus != models.DoorFeeStatusAgreed {
		return invalidState(b, OpConfirm)
	}
	b.Status = models.BookingStatusConfirmed
	b.ConfirmedAt = &now
	b.DoorFeeStatus = models.DoorFeeStatusNone
	return nil
}

func applyCancel(b *models.Booking, actor Actor, reason *string, now time.Time) error {
	switch b.Status {
	case models.BookingStatusPending, models.BookingStatusApproved:
	default:
		return invalidState(b, OpCancel)
	}
	by := actor.UserID
	b.Status = models.BookingStatusCancelled
	b.CancelledAt = &now
	b.CancelledBy = &by
	b.CancelReason = reason
	b.DoorFeeStatus = models.DoorFeeStatusNone
	return nil
}

func applyMarkCompleted(b *models.Booking, now time.Time) error {
	if b.Status != models.BookingStatusConfirmed {
		return invalidState(b, OpMarkCompleted)
	}
	b.Status = models.BookingStatusCompleted
	b.CompletedAt = &now
	return nil
}

// allowedTransitions is the full status graph. Door-fee moves stay inside APPROVED.
var allowedTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusPending:   {models.BookingStatusApproved, models.BookingStatusRejected, models.BookingStatusCancelled},
	models.BookingStatusApproved:  {models.BookingStatusApproved, models.BookingStatusRejected, models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCompleted},
	models.BookingStatusRejected:  nil,
	models.BookingStatusCancelled: nil,
	models.BookingStatusCompleted: nil,
}

// CanTransition reports whether from → to is an edge of the booking lifecycle.
func CanTransition(from, to models.BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
