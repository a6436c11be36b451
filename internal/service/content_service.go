package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/repository"
	"tutalearn_backend/pkg/logger"
	"tutalearn_backend/pkg/monitoring"
	"tutalearn_backend/pkg/tracing"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const lessonCacheKeyPrefix = "lessons:"

// 单课缓存上限，绕过 SaveLesson 下架的课程最多在该时长内仍可读到
const maxLessonCacheTTL = time.Minute

type ContentService struct {
	LessonRepo  *repository.LessonRepository
	SubjectRepo *repository.SubjectRepository
	Redis       *redis.Client
	CacheTTL    time.Duration
}

func NewContentService(lessonRepo *repository.LessonRepository, subjectRepo *repository.SubjectRepository, cfg *config.Config, rdb *redis.Client) *ContentService {
	return &ContentService{
		LessonRepo:  lessonRepo,
		SubjectRepo: subjectRepo,
		Redis:       rdb,
		CacheTTL:    cfg.Content.CacheTTL(),
	}
}

func storageFailure(operation string, err error, fields ...zap.Field) {
	monitoring.StorageFailures.WithLabelValues(operation).Inc()
	logger.Log.Error("storage operation failed", append(fields, zap.String("operation", operation), zap.Error(err))...)
}

// ListLessons 查询失败时返回空列表
func (s *ContentService) ListLessons(ctx context.Context, filter model.LessonFilter) []model.Lesson {
	ctx, span := tracing.StartSpan(ctx, "ContentService.ListLessons")
	defer span.End()

	key := lessonListCacheKey(filter)
	var cached []model.Lesson
	if s.cacheGet(ctx, key, &cached) {
		return cached
	}

	lessons, err := s.LessonRepo.List(ctx, filter)
	if err != nil {
		storageFailure("list_lessons", err)
		return []model.Lesson{}
	}

	s.cacheSet(ctx, key, lessons, s.CacheTTL)
	return lessons
}

// GetLesson 第二个返回值为 false 表示课程不存在或不可用
func (s *ContentService) GetLesson(ctx context.Context, id string) (*model.Lesson, bool) {
	if id == "" {
		return nil, false
	}

	key := lessonCacheKeyPrefix + "id:" + id
	var cached model.Lesson
	if s.cacheGet(ctx, key, &cached) {
		return &cached, true
	}

	lesson, err := s.LessonRepo.FindActiveByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false
	}
	if err != nil {
		storageFailure("get_lesson", err, zap.String("lesson_id", id))
		return nil, false
	}

	s.cacheSet(ctx, key, lesson, s.lessonCacheTTL())
	return lesson, true
}

func (s *ContentService) ListSubjects(ctx context.Context) []model.Subject {
	subjects, err := s.SubjectRepo.List(ctx)
	if err != nil {
		storageFailure("list_subjects", err)
		return []model.Subject{}
	}
	return subjects
}

// SaveLesson 以新 ID 写入课程（改编或生成的草稿），成功后清空课程缓存
func (s *ContentService) SaveLesson(ctx context.Context, lesson *model.Lesson) bool {
	lesson.ID = ""
	lesson.Subject = nil
	if err := s.LessonRepo.Create(ctx, lesson); err != nil {
		storageFailure("save_lesson", err, zap.String("title", lesson.Title))
		return false
	}
	s.invalidateCache(ctx)
	return true
}

// ResolveSubjectID 根据科目名称查找 ID，找不到时返回空字符串
func (s *ContentService) ResolveSubjectID(ctx context.Context, name string) string {
	subject, err := s.SubjectRepo.FindByName(ctx, name)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			storageFailure("find_subject", err, zap.String("subject", name))
		}
		return ""
	}
	return subject.ID
}

func lessonListCacheKey(f model.LessonFilter) string {
	return fmt.Sprintf("%slist:%s:%d:%s:%s:%s", lessonCacheKeyPrefix, f.SubjectID, f.GradeLevel, f.Difficulty, f.Language, f.Search)
}

func (s *ContentService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if s.Redis == nil {
		return false
	}
	data, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("lesson cache read failed", zap.String("key", key), zap.Error(err))
		}
		monitoring.CacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		monitoring.CacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	monitoring.CacheRequests.WithLabelValues("hit").Inc()
	return true
}

func (s *ContentService) lessonCacheTTL() time.Duration {
	if s.CacheTTL > 0 && s.CacheTTL < maxLessonCacheTTL {
		return s.CacheTTL
	}
	return maxLessonCacheTTL
}

func (s *ContentService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Log.Warn("lesson cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *ContentService) invalidateCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, lessonCacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("lesson cache invalidation failed", zap.Error(err))
	}
}
