package repository

import (
	"context"
	"tutalearn_backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) Create(ctx context.Context, tx *gorm.DB, event *model.AnalyticsEvent) error {
	db := r.DB
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(event).Error
}

// RecentByType 按创建时间倒序取最近 limit 条指定类型事件
func (r *AnalyticsRepository) RecentByType(ctx context.Context, userID, eventType string, limit int) ([]model.AnalyticsEvent, error) {
	events := []model.AnalyticsEvent{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND event_type = ?", userID, eventType).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
