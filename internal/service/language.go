package service

import (
	"strings"
	"tutalearn_backend/internal/model"
)

// pick 请求斯瓦希里语且译文非空时使用译文，否则回退到默认语言字段
func pick(lang model.Language, def, alt string) string {
	if lang == model.AlternateLanguage && strings.TrimSpace(alt) != "" {
		return alt
	}
	return def
}

// AdaptLesson 生成指定语言的课程视图，不修改入参
func AdaptLesson(lesson model.Lesson, lang model.Language) model.LocalizedLesson {
	adapted := model.LocalizedLesson{
		ID:                lesson.ID,
		Title:             pick(lang, lesson.Title, lesson.TitleSw),
		Description:       pick(lang, lesson.Description, lesson.DescriptionSw),
		Content:           pick(lang, lesson.Content, lesson.ContentSw),
		SubjectID:         lesson.SubjectID,
		GradeLevel:        lesson.GradeLevel,
		Difficulty:        lesson.Difficulty,
		Language:          lesson.Language,
		DisplayLanguage:   model.ParseLanguage(string(lang)),
		EstimatedDuration: lesson.EstimatedDuration,
		Source:            lesson.Source,
		IsActive:          lesson.IsActive,
	}
	if lesson.Subject != nil {
		adapted.SubjectName = pick(lang, lesson.Subject.Name, lesson.Subject.NameSw)
	}

	adapted.CulturalAdaptations = make([]string, len(lesson.CulturalAdaptations))
	copy(adapted.CulturalAdaptations, lesson.CulturalAdaptations)

	return adapted
}

func AdaptLessons(lessons []model.Lesson, lang model.Language) []model.LocalizedLesson {
	out := make([]model.LocalizedLesson, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, AdaptLesson(l, lang))
	}
	return out
}

// LocalizedSubject 科目名称的本地化视图
type LocalizedSubject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func AdaptSubjects(subjects []model.Subject, lang model.Language) []LocalizedSubject {
	out := make([]LocalizedSubject, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, LocalizedSubject{ID: s.ID, Name: pick(lang, s.Name, s.NameSw)})
	}
	return out
}
