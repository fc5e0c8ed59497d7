package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"houseshow-backend/models"
)

type PushTokenInput struct {
	Token      string          `json:"token" validate:"required,max=255"`
	DeviceInfo json.RawMessage `json:"device_info,omitempty"`
}

type PushTokenService struct {
	store PushTokenStore
}

func NewPushTokenService(store PushTokenStore) *PushTokenService {
	return &PushTokenService{store: store}
}

// Register stores a device token for the actor; re-registering refreshes it.
func (s *PushTokenService) Register(ctx context.Context, actor Actor, in PushTokenInput) error {
	if actor.IsZero() {
		return unauthorized(actor, "register_push_token")
	}
	in.Token = strings.TrimSpace(in.Token)
	verr := validateInput(in)
	device := normalizeJSON(in.DeviceInfo)
	if device != nil && !json.Valid(device) {
		verr.Add("device_info", "must be valid JSON")
	}
	if !verr.empty() {
		return verr
	}
	return s.store.Upsert(ctx, &models.PushToken{
		UserID:     actor.UserID,
		Token:      in.Token,
		DeviceInfo: datatypes.JSON(device),
		UpdatedAt:  time.Now().UTC(),
	})
}

func (s *PushTokenService) Remove(ctx context.Context, actor Actor, token string) error {
	if actor.IsZero() {
		return unauthorized(actor, "remove_push_token")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return NewValidationError("token", "is required")
	}
	return s.store.Delete(ctx, actor.UserID, token)
}
