package repository

import (
	"context"
	"errors"
	"time"
	"tutalearn_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.DB.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Save(ctx context.Context, profile *model.Profile) error {
	return r.DB.WithContext(ctx).Save(profile).Error
}

// UpdateLastSeen 首次访问的用户会自动建档
func (r *ProfileRepository) UpdateLastSeen(userID, email string) error {
	now := time.Now()
	profile := &model.Profile{
		ID:                userID,
		Email:             email,
		PreferredLanguage: model.DefaultLanguage,
		LastSeenAt:        &now,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_seen_at", "updated_at"}),
	}).Create(profile).Error
}

// FindOrCreate 资料不存在时以认证信息建档；与活跃度中间件并发建档时以已落库的记录为准
func (r *ProfileRepository) FindOrCreate(ctx context.Context, id, email string) (*model.Profile, error) {
	profile, err := r.FindByID(ctx, id)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &model.Profile{ID: id, Email: email, PreferredLanguage: model.DefaultLanguage}
	err = r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(created).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *ProfileRepository) FindByPhone(ctx context.Context, phone string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.DB.WithContext(ctx).Where("phone_number = ?", phone).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
