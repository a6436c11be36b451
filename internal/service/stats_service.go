package service

import (
	"context"
	"time"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/repository"
	"tutalearn_backend/internal/util"
	"tutalearn_backend/pkg/tracing"

	"go.uber.org/zap"
)

type StatsService struct {
	ProgressRepo  *repository.ProgressRepository
	AnalyticsRepo *repository.AnalyticsRepository
	Location      *time.Location
	Now           func() time.Time
}

func NewStatsService(progressRepo *repository.ProgressRepository, analyticsRepo *repository.AnalyticsRepository, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{
		ProgressRepo:  progressRepo,
		AnalyticsRepo: analyticsRepo,
		Location:      loc,
		Now:           time.Now,
	}
}

// GetUserStats 任一读取失败都返回零值统计
func (s *StatsService) GetUserStats(ctx context.Context, userID string) model.UserStats {
	ctx, span := tracing.StartSpan(ctx, "StatsService.GetUserStats")
	defer span.End()

	records, err := s.ProgressRepo.FindByUser(ctx, userID, "")
	if err != nil {
		storageFailure("stats_progress", err, zap.String("user_id", userID))
		return model.UserStats{}
	}

	events, err := s.AnalyticsRepo.RecentByType(ctx, userID, model.EventLessonComplete, util.StreakWindowDays)
	if err != nil {
		storageFailure("stats_events", err, zap.String("user_id", userID))
		return model.UserStats{}
	}

	stats := model.UserStats{TotalLessons: len(records)}
	for _, r := range records {
		switch r.Status {
		case model.StatusCompleted:
			stats.CompletedLessons++
		case model.StatusInProgress:
			stats.InProgressLessons++
		}
		stats.TotalTimeSpent += r.TimeSpent
	}

	times := make([]time.Time, 0, len(events))
	for _, e := range events {
		times = append(times, e.CreatedAt)
	}
	stats.Streak = computeStreak(times, s.Now(), s.Location)
	return stats
}

// computeStreak 从今天起向前逐日检查，今天没有记录不打断连续天数
func computeStreak(events []time.Time, now time.Time, loc *time.Location) int {
	if len(events) == 0 {
		return 0
	}

	days := make(map[string]struct{}, len(events))
	for _, t := range events {
		days[t.In(loc).Format(util.DateFormat)] = struct{}{}
	}

	today := now.In(loc)
	streak := 0
	for i := 0; i < util.StreakWindowDays; i++ {
		key := today.AddDate(0, 0, -i).Format(util.DateFormat)
		if _, ok := days[key]; ok {
			streak++
			continue
		}
		if i > 0 {
			break
		}
	}
	return streak
}
