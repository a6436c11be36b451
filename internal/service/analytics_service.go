package service

import (
	"context"
	"encoding/json"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo *repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{AnalyticsRepo: analyticsRepo}
}

// RecordEvent 追加一条学习行为事件，课程完成事件只能由进度服务写入
func (s *AnalyticsService) RecordEvent(ctx context.Context, userID, eventType string, data map[string]interface{}) bool {
	if userID == "" || eventType == "" || model.IsServerEvent(eventType) {
		return false
	}

	event := &model.AnalyticsEvent{UserID: userID, EventType: eventType}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return false
		}
		event.EventData = datatypes.JSON(raw)
	}

	if err := s.AnalyticsRepo.Create(ctx, nil, event); err != nil {
		storageFailure("record_event", err, zap.String("user_id", userID), zap.String("event_type", eventType))
		return false
	}
	return true
}
