package services

import "houseshow-backend/models"

// Actor is the authenticated principal performing an operation.
type Actor struct {
	UserID string
	Role   models.Role
}

// SystemActor is used by internal triggers such as the completion sweeper.
var SystemActor = Actor{UserID: "system", Role: models.RoleSystem}

func (a Actor) IsZero() bool {
	return a.UserID == "" || a.Role == ""
}

func (a Actor) isPrivileged() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleSystem
}

// Operation names a booking operation in errors, logs and history rows.
type Operation string

const (
	OpCreate         Operation = "create"
	OpRespond        Operation = "respond"
	OpResolveDoorFee Operation = "resolve_door_fee"
	OpCounterDoorFee Operation = "counter_door_fee"
	OpConfirm        Operation = "confirm"
	OpCancel         Operation = "cancel"
	OpMarkCompleted  Operation = "mark_completed"
	OpView           Operation = "view"
)
