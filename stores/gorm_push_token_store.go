package stores

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"houseshow-backend/models"
)

type GormPushTokenStore struct {
	db *gorm.DB
}

func NewGormPushTokenStore(db *gorm.DB) *GormPushTokenStore {
	return &GormPushTokenStore{db: db}
}

// Upsert inserts the token or refreshes its device info.
func (s *GormPushTokenStore) Upsert(ctx context.Context, t *models.PushToken) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"device_info", "updated_at"}),
	}).Create(t).Error
	if err != nil {
		return fmt.Errorf("save push token: %w", err)
	}
	return nil
}

func (s *GormPushTokenStore) Delete(ctx context.Context, userID, token string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.PushToken{}).Error
	if err != nil {
		return fmt.Errorf("delete push token: %w", err)
	}
	return nil
}

func (s *GormPushTokenStore) TokensForUsers(ctx context.Context, userIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []models.PushToken
	err := s.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load push tokens: %w", err)
	}
	for _, r := range rows {
		out[r.UserID] = append(out[r.UserID], r.Token)
	}
	return out, nil
}
