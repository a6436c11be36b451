package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/pkg/logger"

	"go.uber.org/zap"
)

const recommendationPrompt = `Based on a Grade %d student who has completed %d lessons, suggest 3 educational topics they should learn next. Focus on African contexts and examples. Format as a JSON array with objects containing: title, description, subject, difficulty (beginner/intermediate/advanced), estimatedTime (in minutes).

Example format:
[
  {
    "title": "Fractions with Ugali",
    "description": "Learn fractions using ugali portions and African food examples",
    "subject": "Mathematics",
    "difficulty": "beginner",
    "estimatedTime": 25
  }
]

Respond only with the JSON array, no other text.`

var defaultRecommendations = []model.Recommendation{
	{
		ID:            "rec-1",
		Title:         "African Wildlife Mathematics",
		Description:   "Learn counting and basic math using African animals like elephants, lions, and zebras",
		Subject:       "Mathematics",
		Difficulty:    model.Beginner,
		EstimatedTime: 20,
	},
	{
		ID:            "rec-2",
		Title:         "Farming and Plant Science",
		Description:   "Discover how maize, cassava, and other African crops grow and contribute to our diet",
		Subject:       "Science",
		Difficulty:    model.Intermediate,
		EstimatedTime: 30,
	},
	{
		ID:            "rec-3",
		Title:         "African History Heroes",
		Description:   "Learn about great African leaders and their contributions to our continent",
		Subject:       "History",
		Difficulty:    model.Intermediate,
		EstimatedTime: 25,
	},
}

type RecommendationService struct {
	Tutor *TutorService
	Stats *StatsService
}

func NewRecommendationService(tutor *TutorService, stats *StatsService) *RecommendationService {
	return &RecommendationService{Tutor: tutor, Stats: stats}
}

// Recommend 解析失败时返回固定的三条推荐
func (s *RecommendationService) Recommend(ctx context.Context, userID string, grade int, lang model.Language) []model.Recommendation {
	if grade <= 0 {
		grade = 5
	}
	completed := s.Stats.GetUserStats(ctx, userID).CompletedLessons

	answer := s.Tutor.AskTuta(ctx, TutorRequest{
		Question:   fmt.Sprintf(recommendationPrompt, grade, completed),
		Language:   lang,
		GradeLevel: grade,
	})
	if answer.Fallback {
		return cloneRecommendations(defaultRecommendations)
	}

	recs, err := parseRecommendations(answer.Answer)
	if err != nil {
		logger.Log.Warn("unparseable recommendation response", zap.String("user_id", userID), zap.Error(err))
		return cloneRecommendations(defaultRecommendations)
	}
	return recs
}

type rawRecommendation struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Subject       string  `json:"subject"`
	Difficulty    string  `json:"difficulty"`
	EstimatedTime float64 `json:"estimatedTime"`
}

// parseRecommendations 容忍 JSON 数组前后的说明文字，缺失字段使用默认值
func parseRecommendations(text string) ([]model.Recommendation, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var items []rawRecommendation
	if err := json.Unmarshal([]byte(text[start:end+1]), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty recommendation list")
	}

	recs := make([]model.Recommendation, 0, len(items))
	for i, item := range items {
		rec := model.Recommendation{
			ID:            fmt.Sprintf("rec-%d", i),
			Title:         item.Title,
			Description:   item.Description,
			Subject:       item.Subject,
			Difficulty:    model.Difficulty(item.Difficulty),
			EstimatedTime: int(item.EstimatedTime),
		}
		if rec.Title == "" {
			rec.Title = fmt.Sprintf("Lesson %d", i+1)
		}
		if rec.Description == "" {
			rec.Description = "AI-generated lesson recommendation"
		}
		if rec.Subject == "" {
			rec.Subject = "General"
		}
		if !rec.Difficulty.Valid() {
			rec.Difficulty = model.Beginner
		}
		if rec.EstimatedTime <= 0 {
			rec.EstimatedTime = 20
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func cloneRecommendations(in []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, len(in))
	copy(out, in)
	return out
}
