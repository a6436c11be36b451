package repository

import (
	"context"
	"errors"
	"tutalearn_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.DB
}

// FindByUser lessonID 为空时返回该用户全部进度
func (r *ProgressRepository) FindByUser(ctx context.Context, userID, lessonID string) ([]model.ProgressRecord, error) {
	records := []model.ProgressRecord{}
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if lessonID != "" {
		query = query.Where("lesson_id = ?", lessonID)
	}
	err := query.Order("updated_at DESC").Find(&records).Error
	return records, err
}

// FindOne 记录不存在时返回 (nil, nil)
func (r *ProgressRepository) FindOne(ctx context.Context, tx *gorm.DB, userID, lessonID string) (*model.ProgressRecord, error) {
	var record model.ProgressRecord
	err := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save 新记录以 (user_id, lesson_id) 冲突更新方式插入，并发首写不会产生重复行
func (r *ProgressRepository) Save(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord, isNew bool) error {
	db := r.conn(tx).WithContext(ctx)
	if !isNew {
		return db.Save(record).Error
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "completion_percentage", "time_spent", "started_at", "completed_at", "updated_at",
		}),
	}).Create(record).Error
}
