package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"houseshow-backend/middleware"
	"houseshow-backend/services"
	"houseshow-backend/utils"
)

// respondServiceError maps service errors onto HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	var (
		verr     *services.ValidationError
		authErr  *services.AuthorizationError
		stateErr *services.InvalidStateError
		conflict *services.ConcurrencyConflictError
	)
	switch {
	case errors.As(err, &verr):
		utils.JSONValidationError(c, http.StatusBadRequest, "some fields are missing or invalid", verr.Fields())
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.bookingNotFound", "booking not found")
	case errors.Is(err, services.ErrUserNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.userNotFound", "user not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "error.invalidCredentials", "invalid email or password")
	case errors.Is(err, services.ErrEmailTaken):
		utils.JSONError(c, http.StatusConflict, "error.emailTaken", "this email is already registered")
	case errors.As(err, &authErr):
		utils.JSONError(c, http.StatusForbidden, "error.forbidden", "you don't have permission to do this")
	case errors.As(err, &stateErr):
		utils.JSONError(c, http.StatusConflict, "error.invalidState", invalidStateMessage(stateErr))
	case errors.As(err, &conflict):
		utils.JSONError(c, http.StatusConflict, "error.concurrencyConflict", "this booking was just updated by someone else, reload it and try again")
	default:
		_ = c.Error(err)
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "something went wrong, please try again")
	}
}

func invalidStateMessage(e *services.InvalidStateError) string {
	switch e.Operation {
	case services.OpRespond:
		return "this request was already responded to"
	case services.OpConfirm:
		return "this booking can't be confirmed right now"
	case services.OpResolveDoorFee, services.OpCounterDoorFee:
		return "there is no door fee offer waiting for your answer"
	case services.OpCancel:
		return "this booking can no longer be cancelled"
	case services.OpMarkCompleted:
		return "only confirmed bookings can be completed"
	}
	return e.Error()
}

func respondBadPayload(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request body: "+err.Error())
}

func requireActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "authentication required")
		return services.Actor{}, false
	}
	return actor, true
}
