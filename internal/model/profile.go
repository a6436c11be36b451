package model

import (
	"time"
)

// Profile 学生资料，ID 与认证服务签发的 subject 一致
// swagger:model Profile
type Profile struct {
	ID                string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email             string     `gorm:"size:255;index" json:"email"`
	FullName          string     `gorm:"size:255" json:"fullName"`
	AvatarURL         string     `gorm:"size:500" json:"avatarUrl,omitempty"`
	PhoneNumber       string     `gorm:"size:20" json:"phoneNumber,omitempty"`
	PreferredLanguage Language   `gorm:"size:5;default:'en'" json:"preferredLanguage"`
	GradeLevel        int        `gorm:"default:0" json:"gradeLevel"`
	LastSeenAt        *time.Time `json:"lastSeenAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}

type ProfileUpdate struct {
	FullName          *string   `json:"fullName"`
	PhoneNumber       *string   `json:"phoneNumber"`
	PreferredLanguage *Language `json:"preferredLanguage"`
	GradeLevel        *int      `json:"gradeLevel" binding:"omitempty,min=0,max=12"`
}
