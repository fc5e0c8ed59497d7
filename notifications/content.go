package notifications

import (
	"fmt"

	"houseshow-backend/models"
	"houseshow-backend/services"
)

// Message is the channel-independent text of a notice.
type Message struct {
	Title string
	Body  string
}

func describe(n services.TransitionNotice) Message {
	switch n.To {
	case models.BookingStatusPending:
		return Message{"New Booking Request", "You have a new show request waiting for your answer."}
	case models.BookingStatusApproved:
		switch {
		case n.Operation == services.OpCounterDoorFee:
			return Message{"New Door Fee Offer", fmt.Sprintf("A door fee of %s was proposed for booking %s.", feeText(n.DoorFee), n.BookingID)}
		case n.DoorFeeStatus == models.DoorFeeStatusPendingArtist:
			return Message{"Booking Approved", fmt.Sprintf("Your booking %s was approved with a door fee of %s. Accept or counter it to continue.", n.BookingID, feeText(n.DoorFee))}
		case n.From == models.BookingStatusApproved:
			return Message{"Door Fee Agreed", fmt.Sprintf("The door fee for booking %s is settled at %s.", n.BookingID, feeText(n.DoorFee))}
		default:
			return Message{"Booking Approved", fmt.Sprintf("Your booking %s was approved. Confirm the show to lock it in.", n.BookingID)}
		}
	case models.BookingStatusRejected:
		if n.From == models.BookingStatusApproved {
			return Message{"Door Fee Declined", fmt.Sprintf("The door fee offer for booking %s was declined and the booking is closed.", n.BookingID)}
		}
		return Message{"Booking Rejected", fmt.Sprintf("Your booking %s has been rejected.", n.BookingID)}
	case models.BookingStatusConfirmed:
		return Message{"Show Confirmed", fmt.Sprintf("Booking %s is confirmed. See you at the show!", n.BookingID)}
	case models.BookingStatusCancelled:
		return Message{"Booking Cancelled", fmt.Sprintf("Booking %s has been cancelled.", n.BookingID)}
	case models.BookingStatusCompleted:
		return Message{"Show Completed", fmt.Sprintf("Booking %s is complete. Thanks for playing!", n.BookingID)}
	}
	return Message{"Booking Update", fmt.Sprintf("Booking %s has an update.", n.BookingID)}
}

func feeText(m *models.Money) string {
	if m == nil {
		return "no charge set"
	}
	return "$" + m.String()
}
