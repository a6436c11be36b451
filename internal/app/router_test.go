package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/util"
	"tutalearn_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		JWT:      config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		Storage:  config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
		WhatsApp: config.WhatsAppConfig{WebhookVerifyToken: "verify-me"},
	}

	db, err := database.InitDB(&cfg.Database, true)
	require.NoError(t, err)
	require.NoError(t, database.Seed(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	a := &App{Config: cfg, DB: db}
	return a.newRouter(cfg, db, nil), db
}

func call(t *testing.T, r http.Handler, method, target, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func firstLessonID(t *testing.T, db *gorm.DB) string {
	t.Helper()
	var lesson model.Lesson
	require.NoError(t, db.Where("is_active = ?", true).Order("grade_level ASC").First(&lesson).Error)
	return lesson.ID
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestServer(t)

	w, env := call(t, r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ok", data.Status)
	assert.Equal(t, "up", data.Components["database"])
	assert.Equal(t, "disabled", data.Components["cache"])
}

func TestPublicLessonRoutes(t *testing.T) {
	r, db := newTestServer(t)

	w, env := call(t, r, http.MethodGet, "/api/lessons", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lessons []model.LocalizedLesson
	require.NoError(t, json.Unmarshal(env.Data, &lessons))
	assert.NotEmpty(t, lessons)

	id := firstLessonID(t, db)
	w, env = call(t, r, http.MethodGet, "/api/lessons/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lesson model.LocalizedLesson
	require.NoError(t, json.Unmarshal(env.Data, &lesson))
	assert.Equal(t, id, lesson.ID)

	w, _ = call(t, r, http.MethodGet, "/api/lessons/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = call(t, r, http.MethodGet, "/api/lessons?grade_level=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentRoutesRequireToken(t *testing.T) {
	r, _ := newTestServer(t)

	for _, target := range []string{"/api/progress", "/api/stats", "/api/profile", "/api/recommendations"} {
		w, _ := call(t, r, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
}

func TestProgressFlow(t *testing.T) {
	r, db := newTestServer(t)
	token, err := util.GenerateJWT("student-1", "amani@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	lessonID := firstLessonID(t, db)

	w, env := call(t, r, http.MethodPut, "/api/progress/"+lessonID, token, map[string]interface{}{
		"status":               "in_progress",
		"completionPercentage": 40,
		"timeSpent":            10,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var records []model.ProgressRecord
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusInProgress, records[0].Status)
	assert.Equal(t, 40, records[0].CompletionPercentage)

	w, _ = call(t, r, http.MethodPut, "/api/progress/"+lessonID, token, map[string]interface{}{
		"status":               "completed",
		"completionPercentage": 100,
		"timeSpent":            25,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = call(t, r, http.MethodGet, "/api/progress", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusCompleted, records[0].Status)
	assert.Equal(t, 25, records[0].TimeSpent)

	w, env = call(t, r, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.UserStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.TotalLessons)
	assert.Equal(t, 1, stats.CompletedLessons)
	assert.Equal(t, 25, stats.TotalTimeSpent)
	assert.Equal(t, 1, stats.Streak)

	w, _ = call(t, r, http.MethodPut, "/api/progress/"+lessonID, token, map[string]interface{}{
		"status": "finished",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsEventRoute(t *testing.T) {
	r, db := newTestServer(t)
	token, err := util.GenerateJWT("student-2", "", testSecret, time.Hour)
	require.NoError(t, err)

	w, _ := call(t, r, http.MethodPost, "/api/analytics/events", token, map[string]interface{}{
		"eventType": "lesson_viewed",
		"eventData": map[string]interface{}{"lessonId": "x"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := call(t, r, http.MethodPost, "/api/analytics/events", token, map[string]interface{}{
		"eventType": model.EventLessonComplete,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, util.ErrReservedEvent.Error(), env.Message)

	var count int64
	require.NoError(t, db.Model(&model.AnalyticsEvent{}).Where("user_id = ?", "student-2").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w, env = call(t, r, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.UserStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 0, stats.Streak)
}

func TestTutorAskFallsBackWithoutKey(t *testing.T) {
	r, _ := newTestServer(t)
	token, err := util.GenerateJWT("student-3", "", testSecret, time.Hour)
	require.NoError(t, err)

	w, env := call(t, r, http.MethodPost, "/api/tutor/ask", token, map[string]interface{}{
		"question": "What is a fraction?",
		"language": "sw",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var answer struct {
		Answer   string `json:"answer"`
		Language string `json:"language"`
		Fallback bool   `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &answer))
	assert.True(t, answer.Fallback)
	assert.Equal(t, "sw", answer.Language)
	assert.NotEmpty(t, answer.Answer)
}

func TestWhatsAppWebhookVerification(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
