package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/repository"
	"tutalearn_backend/internal/util"
	"tutalearn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProfileService struct {
	ProfileRepo *repository.ProfileRepository
	Storage     *StorageService
}

func NewProfileService(profileRepo *repository.ProfileRepository, storage *StorageService) *ProfileService {
	return &ProfileService{ProfileRepo: profileRepo, Storage: storage}
}

// GetProfile 首次访问时自动建档
func (s *ProfileService) GetProfile(ctx context.Context, userID, email string) (*model.Profile, bool) {
	profile, err := s.ProfileRepo.FindOrCreate(ctx, userID, email)
	if err != nil {
		storageFailure("get_profile", err, zap.String("user_id", userID))
		return nil, false
	}
	return profile, true
}

// PreferredLanguage 读取失败或无资料时返回默认语言
func (s *ProfileService) PreferredLanguage(ctx context.Context, userID string) model.Language {
	if userID == "" {
		return model.DefaultLanguage
	}
	profile, err := s.ProfileRepo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			storageFailure("get_profile_language", err, zap.String("user_id", userID))
		}
		return model.DefaultLanguage
	}
	return model.ParseLanguage(string(profile.PreferredLanguage))
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID, email string, update model.ProfileUpdate) (*model.Profile, error) {
	if update.PreferredLanguage != nil && !update.PreferredLanguage.Valid() {
		return nil, util.ErrInvalidLanguage
	}

	profile, ok := s.GetProfile(ctx, userID, email)
	if !ok {
		return nil, util.ErrStorage
	}

	if update.FullName != nil {
		profile.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.PhoneNumber != nil {
		profile.PhoneNumber = FormatPhoneNumber(*update.PhoneNumber)
	}
	if update.PreferredLanguage != nil {
		profile.PreferredLanguage = *update.PreferredLanguage
	}
	if update.GradeLevel != nil {
		profile.GradeLevel = *update.GradeLevel
	}

	if err := s.ProfileRepo.Save(ctx, profile); err != nil {
		storageFailure("update_profile", err, zap.String("user_id", userID))
		return nil, util.ErrStorage
	}
	return profile, nil
}

// UploadAvatar 校验图片后上传到存储并更新头像地址
func (s *ProfileService) UploadAvatar(ctx context.Context, userID, email, filename string, file io.ReadSeeker, size int64) (*model.Profile, error) {
	contentType, err := util.ValidateImage(filename, file)
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	profile, ok := s.GetProfile(ctx, userID, email)
	if !ok {
		return nil, util.ErrStorage
	}

	objectName := fmt.Sprintf("avatars/%s/%s%s", userID, model.GenerateUUID(), strings.ToLower(filepath.Ext(filename)))
	url, err := s.Storage.Upload(ctx, objectName, file, size, contentType)
	if err != nil {
		logger.Log.Error("avatar upload failed", zap.String("user_id", userID), zap.Error(err))
		return nil, util.ErrStorage
	}

	profile.AvatarURL = url
	if err := s.ProfileRepo.Save(ctx, profile); err != nil {
		storageFailure("save_avatar", err, zap.String("user_id", userID))
		_ = s.Storage.Delete(ctx, objectName)
		return nil, util.ErrStorage
	}
	return profile, nil
}

// TouchLastSeen 由活跃度中间件异步调用
func (s *ProfileService) TouchLastSeen(userID, email string) {
	if err := s.ProfileRepo.UpdateLastSeen(userID, email); err != nil {
		logger.Log.Warn("update last seen failed", zap.String("user_id", userID), zap.Error(err))
	}
}
