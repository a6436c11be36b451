package service

import (
	"testing"
	"time"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, true)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func mustCreateLesson(t *testing.T, db *gorm.DB, lesson model.Lesson) model.Lesson {
	t.Helper()
	require.NoError(t, db.Create(&lesson).Error)
	return lesson
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int { return &v }

func statusPtr(s model.ProgressStatus) *model.ProgressStatus { return &s }
