// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"houseshow-backend/models"
	"houseshow-backend/services"
	"houseshow-backend/utils"
)

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

// POST /api/bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req services.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadPayload(c, err)
		return
	}
	booking, err := bc.BookingSvc.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GET /api/bookings?status=&page=&limit=
func (bc *BookingController) GetBookings(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var filter services.ListFilter
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.BookingStatus(strings.ToUpper(raw))
		filter.Status = &status
	}
	var err error
	if filter.Page, err = queryInt(c, "page"); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidQuery", "page must be a number")
		return
	}
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidQuery", "limit must be a number")
		return
	}

	bookings, err := bc.BookingSvc.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GET /api/bookings/:id
func (bc *BookingController) GetBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// GET /api/bookings/:id/events
func (bc *BookingController) GetBookingEvents(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	events, err := bc.BookingSvc.History(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, events)
}

// POST /api/bookings/:id/respond
func (bc *BookingController) RespondBooking(c *gin.Context) {
	var req services.RespondInput
	bc.mutate(c, &req, func(actor services.Actor, id string) (*models.Booking, error) {
		return bc.BookingSvc.Respond(c.Request.Context(), actor, id, req)
	})
}

// POST /api/bookings/:id/door-fee/resolve
func (bc *BookingController) ResolveDoorFee(c *gin.Context) {
	var req services.ResolveDoorFeeInput
	bc.mutate(c, &req, func(actor services.Actor, id string) (*models.Booking, error) {
		return bc.BookingSvc.ResolveDoorFee(c.Request.Context(), actor, id, req)
	})
}

// POST /api/bookings/:id/door-fee/counter
func (bc *BookingController) CounterDoorFee(c *gin.Context) {
	var req services.CounterDoorFeeInput
	bc.mutate(c, &req, func(actor services.Actor, id string) (*models.Booking, error) {
		return bc.BookingSvc.CounterDoorFee(c.Request.Context(), actor, id, req)
	})
}

// POST /api/bookings/:id/confirm
func (bc *BookingController) ConfirmBooking(c *gin.Context) {
	bc.mutate(c, nil, func(actor services.Actor, id string) (*models.Booking, error) {
		return bc.BookingSvc.Confirm(c.Request.Context(), actor, id)
	})
}

// POST /api/bookings/:id/cancel (body optional)
func (bc *BookingController) CancelBooking(c *gin.Context) {
	var req services.CancelInput
	bc.mutate(c, optionalBody{&req}, func(actor services.Actor, id string) (*models.Booking, error) {
		return bc.BookingSvc.Cancel(c.Request.Context(), actor, id, req)
	})
}

// POST /api/admin/bookings/:id/complete
func (bc *BookingController) CompleteBooking(c *gin.Context) {
	bc.mutate(c, nil, func(actor services.Actor, id string) (*models.Booking, error) {
		return bc.BookingSvc.MarkCompleted(c.Request.Context(), actor, id)
	})
}

// ---------------------------
// helpers
// ---------------------------

type optionalBody struct{ dst any }

// mutate binds the body into req (nil means no body) and runs op for the
// booking named by :id.
func (bc *BookingController) mutate(c *gin.Context, req any, op func(actor services.Actor, id string) (*models.Booking, error)) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	switch body := req.(type) {
	case nil:
	case optionalBody:
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(body.dst); err != nil {
				respondBadPayload(c, err)
				return
			}
		}
	default:
		if err := c.ShouldBindJSON(body); err != nil {
			respondBadPayload(c, err)
			return
		}
	}

	booking, err := op(actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
