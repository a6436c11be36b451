package model

import (
	"time"
)

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

func (s ProgressStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ProgressRecord 用户在单个课程上的学习进度，(user_id, lesson_id) 唯一
// swagger:model ProgressRecord
type ProgressRecord struct {
	UUIDBase
	UserID               string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_lesson" json:"userId"`
	LessonID             string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_lesson" json:"lessonId"`
	Status               ProgressStatus `gorm:"size:20;default:'not_started'" json:"status"`
	CompletionPercentage int            `gorm:"default:0" json:"completionPercentage"`
	TimeSpent            int            `gorm:"default:0" json:"timeSpent"` // 分钟
	StartedAt            *time.Time     `json:"startedAt,omitempty"`
	CompletedAt          *time.Time     `json:"completedAt,omitempty"`
}

func (ProgressRecord) TableName() string {
	return "user_lesson_progress"
}

// ProgressUpdate 部分更新，nil 字段保持原值
type ProgressUpdate struct {
	Status               *ProgressStatus `json:"status"`
	CompletionPercentage *int            `json:"completionPercentage"`
	TimeSpent            *int            `json:"timeSpent"`
	StartedAt            *time.Time      `json:"startedAt"`
	CompletedAt          *time.Time      `json:"completedAt"`
}
