package model

import (
	"gorm.io/datatypes"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSwahili Language = "sw"

	DefaultLanguage   = LanguageEnglish
	AlternateLanguage = LanguageSwahili
)

// ParseLanguage 未知语言代码一律按默认语言处理
func ParseLanguage(s string) Language {
	if Language(s) == LanguageSwahili {
		return LanguageSwahili
	}
	return LanguageEnglish
}

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageSwahili
}

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Lesson 课程内容。默认语言字段为英语，*_sw 为斯瓦希里语版本
// swagger:model Lesson
type Lesson struct {
	UUIDBase
	Title               string                      `gorm:"size:255;not null" json:"title"`
	TitleSw             string                      `gorm:"column:title_sw;size:255" json:"titleSw,omitempty"`
	Description         string                      `gorm:"type:text" json:"description"`
	DescriptionSw       string                      `gorm:"column:description_sw;type:text" json:"descriptionSw,omitempty"`
	Content             string                      `gorm:"type:text" json:"content"`
	ContentSw           string                      `gorm:"column:content_sw;type:text" json:"contentSw,omitempty"`
	SubjectID           string                      `gorm:"type:varchar(36);index" json:"subjectId"`
	Subject             *Subject                    `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	GradeLevel          int                         `gorm:"index" json:"gradeLevel"`
	Difficulty          Difficulty                  `gorm:"size:20;default:'beginner'" json:"difficulty"`
	Language            Language                    `gorm:"size:5;default:'en'" json:"language"`
	EstimatedDuration   int                         `gorm:"default:20" json:"estimatedDuration"`
	CulturalAdaptations datatypes.JSONSlice[string] `gorm:"type:json" json:"culturalAdaptations"`
	Source              string                      `gorm:"size:50;default:'manual'" json:"source"`
	IsActive            bool                        `gorm:"not null;index" json:"isActive"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// swagger:model Subject
type Subject struct {
	UUIDBase
	Name   string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	NameSw string `gorm:"column:name_sw;size:100" json:"nameSw,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}

// LessonFilter 课程列表查询条件，零值字段不参与过滤
type LessonFilter struct {
	SubjectID  string     `form:"subject_id" json:"subjectId"`
	GradeLevel int        `form:"grade_level" json:"gradeLevel"`
	Difficulty Difficulty `form:"difficulty" json:"difficulty"`
	Language   Language   `form:"language" json:"language"`
	Search     string     `form:"search" json:"search"`
}

// LocalizedLesson 按请求语言选好字段后的课程视图
type LocalizedLesson struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Content             string     `json:"content"`
	SubjectID           string     `json:"subjectId"`
	SubjectName         string     `json:"subjectName,omitempty"`
	GradeLevel          int        `json:"gradeLevel"`
	Difficulty          Difficulty `json:"difficulty"`
	Language            Language   `json:"language"`
	DisplayLanguage     Language   `json:"displayLanguage"`
	EstimatedDuration   int        `json:"estimatedDuration"`
	CulturalAdaptations []string   `json:"culturalAdaptations"`
	Source              string     `json:"source"`
	IsActive            bool       `json:"isActive"`
}
