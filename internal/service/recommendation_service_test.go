package service

import (
	"context"
	"net/http"
	"testing"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendations(t *testing.T) {
	text := `Here are my picks:
[
  {"title": "Fractions with Ugali", "description": "Share ugali", "subject": "Mathematics", "difficulty": "beginner", "estimatedTime": 25},
  {"title": "", "difficulty": "expert"},
  {"title": "Rainfall", "subject": "Science", "difficulty": "advanced", "estimatedTime": 32.0}
]
Enjoy!`

	recs, err := parseRecommendations(text)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, model.Recommendation{
		ID: "rec-0", Title: "Fractions with Ugali", Description: "Share ugali",
		Subject: "Mathematics", Difficulty: model.Beginner, EstimatedTime: 25,
	}, recs[0])
	assert.Equal(t, model.Recommendation{
		ID: "rec-1", Title: "Lesson 2", Description: "AI-generated lesson recommendation",
		Subject: "General", Difficulty: model.Beginner, EstimatedTime: 20,
	}, recs[1])
	assert.Equal(t, model.Advanced, recs[2].Difficulty)
	assert.Equal(t, 32, recs[2].EstimatedTime)
}

func TestParseRecommendationsRejectsGarbage(t *testing.T) {
	for _, text := range []string{"", "no json here", "[not json]", "[]", "] backwards ["} {
		_, err := parseRecommendations(text)
		assert.Error(t, err, text)
	}
}

func newRecommendationFixture(t *testing.T, ai *AIService) *RecommendationService {
	db := newTestDB(t)
	stats := NewStatsService(repository.NewProgressRepository(db), repository.NewAnalyticsRepository(db), nil)
	return NewRecommendationService(NewTutorService(ai, nil), stats)
}

func TestRecommendUsesModelAnswer(t *testing.T) {
	srv, last := fakeCompletions(t, http.StatusOK, `[{"title":"Counting Cattle","subject":"Mathematics","difficulty":"beginner","estimatedTime":15}]`)
	svc := newRecommendationFixture(t, NewAIService(testAIConfig(srv.URL)))

	recs := svc.Recommend(context.Background(), "u1", 6, model.LanguageEnglish)
	require.Len(t, recs, 1)
	assert.Equal(t, "Counting Cattle", recs[0].Title)
	assert.Contains(t, last.Messages[len(last.Messages)-1].Content, "Grade 6 student who has completed 0 lessons")
}

func TestRecommendFallsBackToDefaults(t *testing.T) {
	srv, _ := fakeCompletions(t, http.StatusOK, "I think you should study more.")

	for name, ai := range map[string]*AIService{
		"unparseable": NewAIService(testAIConfig(srv.URL)),
		"no api key":  NewAIService(config.AIConfig{}),
	} {
		t.Run(name, func(t *testing.T) {
			recs := newRecommendationFixture(t, ai).Recommend(context.Background(), "u1", 0, model.LanguageEnglish)
			assert.Equal(t, defaultRecommendations, recs)

			recs[0].Title = "mutated"
			assert.Equal(t, "African Wildlife Mathematics", defaultRecommendations[0].Title)
		})
	}
}
