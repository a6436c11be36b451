package repository

import (
	"context"
	"fmt"
	"strings"
	"tutalearn_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

// List 返回满足过滤条件的启用课程，按创建时间倒序
func (r *LessonRepository) List(ctx context.Context, filter model.LessonFilter) ([]model.Lesson, error) {
	query := r.DB.WithContext(ctx).
		Model(&model.Lesson{}).
		Preload("Subject").
		Where("is_active = ?", true)

	if filter.SubjectID != "" {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.GradeLevel > 0 {
		query = query.Where("grade_level = ?", filter.GradeLevel)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(title_sw) LIKE ? OR LOWER(description) LIKE ? OR LOWER(description_sw) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	lessons := []model.Lesson{}
	if err := query.Order("created_at DESC").Order("id").Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// FindActiveByID 未找到时返回 gorm.ErrRecordNotFound
func (r *LessonRepository) FindActiveByID(ctx context.Context, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).
		Preload("Subject").
		Where("id = ? AND is_active = ?", id, true).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Omit("Subject").Create(lesson).Error
}

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) List(ctx context.Context) ([]model.Subject, error) {
	subjects := []model.Subject{}
	err := r.DB.WithContext(ctx).Order("name").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) FindByName(ctx context.Context, name string) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}
