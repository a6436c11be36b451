package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventLessonComplete = "lesson_complete"
	EventTutorQuestion  = "tutor_question"
)

// IsServerEvent 由服务端写入的事件类型，客户端不能直接上报
func IsServerEvent(eventType string) bool {
	return eventType == EventLessonComplete
}

// AnalyticsEvent 只追加的学习行为事件
// swagger:model AnalyticsEvent
type AnalyticsEvent struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string         `gorm:"type:varchar(36);not null;index:idx_user_event_time,priority:1" json:"userId"`
	EventType string         `gorm:"size:50;not null;index:idx_user_event_time,priority:2" json:"eventType"`
	EventData datatypes.JSON `json:"eventData,omitempty"`
	CreatedAt time.Time      `gorm:"index:idx_user_event_time,priority:3" json:"createdAt"`
}

func (AnalyticsEvent) TableName() string {
	return "learning_analytics"
}

func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

// UserStats 学习统计汇总
type UserStats struct {
	TotalLessons      int `json:"totalLessons"`
	CompletedLessons  int `json:"completedLessons"`
	InProgressLessons int `json:"inProgressLessons"`
	TotalTimeSpent    int `json:"totalTimeSpent"`
	Streak            int `json:"streak"`
}

// Recommendation AI 推荐的下一步学习主题
type Recommendation struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Subject       string     `json:"subject"`
	Difficulty    Difficulty `json:"difficulty"`
	EstimatedTime int        `json:"estimatedTime"`
}
