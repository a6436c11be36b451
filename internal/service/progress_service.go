package service

import (
	"context"
	"encoding/json"
	"time"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/repository"
	"tutalearn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProgressService struct {
	DB            *gorm.DB
	ProgressRepo  *repository.ProgressRepository
	AnalyticsRepo *repository.AnalyticsRepository
	Now           func() time.Time
}

func NewProgressService(db *gorm.DB, progressRepo *repository.ProgressRepository, analyticsRepo *repository.AnalyticsRepository) *ProgressService {
	return &ProgressService{
		DB:            db,
		ProgressRepo:  progressRepo,
		AnalyticsRepo: analyticsRepo,
		Now:           time.Now,
	}
}

// GetProgress lessonID 为空时返回用户全部课程进度，失败时返回空列表
func (s *ProgressService) GetProgress(ctx context.Context, userID, lessonID string) []model.ProgressRecord {
	records, err := s.ProgressRepo.FindByUser(ctx, userID, lessonID)
	if err != nil {
		storageFailure("get_progress", err, zap.String("user_id", userID), zap.String("lesson_id", lessonID))
		return []model.ProgressRecord{}
	}
	return records
}

// UpsertProgress 在同一事务内读取、合并并写回进度记录，首次完成时追加 lesson_complete 事件
func (s *ProgressService) UpsertProgress(ctx context.Context, userID, lessonID string, update model.ProgressUpdate) bool {
	if userID == "" || lessonID == "" {
		return false
	}
	if update.Status != nil && !update.Status.Valid() {
		logger.Log.Warn("rejecting progress update with unknown status",
			zap.String("user_id", userID),
			zap.String("status", string(*update.Status)))
		return false
	}

	now := s.Now()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.ProgressRepo.FindOne(ctx, tx, userID, lessonID)
		if err != nil {
			return err
		}

		isNew := record == nil
		if isNew {
			record = &model.ProgressRecord{
				UserID:   userID,
				LessonID: lessonID,
				Status:   model.StatusNotStarted,
			}
		}
		previous := record.Status

		mergeProgress(record, update, now)
		record.UpdatedAt = now

		if err := s.ProgressRepo.Save(ctx, tx, record, isNew); err != nil {
			return err
		}

		if record.Status != model.StatusCompleted || previous == model.StatusCompleted {
			return nil
		}
		data, _ := json.Marshal(map[string]interface{}{
			"lesson_id":  lessonID,
			"time_spent": record.TimeSpent,
		})
		return s.AnalyticsRepo.Create(ctx, tx, &model.AnalyticsEvent{
			UserID:    userID,
			EventType: model.EventLessonComplete,
			EventData: datatypes.JSON(data),
			CreatedAt: now,
		})
	})
	if err != nil {
		storageFailure("upsert_progress", err, zap.String("user_id", userID), zap.String("lesson_id", lessonID))
		return false
	}
	return true
}

// mergeProgress 除 time_spent 取最大值外其余字段后写覆盖
func mergeProgress(record *model.ProgressRecord, update model.ProgressUpdate, now time.Time) {
	if update.Status != nil {
		record.Status = *update.Status
	}
	if update.CompletionPercentage != nil {
		record.CompletionPercentage = clampPercentage(*update.CompletionPercentage)
	}
	if update.TimeSpent != nil && *update.TimeSpent > record.TimeSpent {
		record.TimeSpent = *update.TimeSpent
	}

	if update.StartedAt != nil {
		record.StartedAt = update.StartedAt
	} else if record.StartedAt == nil && record.Status != model.StatusNotStarted {
		t := now
		record.StartedAt = &t
	}

	if update.CompletedAt != nil {
		record.CompletedAt = update.CompletedAt
	} else if record.CompletedAt == nil && record.Status == model.StatusCompleted {
		t := now
		record.CompletedAt = &t
	}
}

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
