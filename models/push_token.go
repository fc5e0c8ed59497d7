package models

import (
	"time"

	"gorm.io/datatypes"
)

type PushToken struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     string         `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_push_tokens_user_token" json:"user_id"`
	Token      string         `gorm:"column:token;size:255;not null;uniqueIndex:idx_push_tokens_user_token" json:"token"`
	DeviceInfo datatypes.JSON `gorm:"column:device_info" json:"device_info,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
