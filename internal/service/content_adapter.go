package service

import (
	"fmt"
	"regexp"
	"strings"
	"tutalearn_backend/internal/model"
	"unicode/utf8"

	"gorm.io/datatypes"
)

type localReplacement struct {
	western string
	english string
	swahili string
}

var localReplacements = []localReplacement{
	{"pizza", "chapati", "chapati"},
	{"dollars", "shillings", "shilingi"},
	{"apples", "mangoes", "maembe"},
	{"hamburger", "ugali", "ugali"},
	{"subway", "matatu", "daladala"},
	{"snow", "rain", "mvua"},
}

var replacementPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(localReplacements))
	for i, r := range localReplacements {
		out[i] = regexp.MustCompile("(?i)" + regexp.QuoteMeta(r.western))
	}
	return out
}()

const (
	mathExampleEn = "\n\nExample: If you have 100 shillings and buy mandazi for 25 shillings, how much money do you have left?"
	mathExampleSw = "\n\nMfano: Ikiwa una shilingi 100 na unanunua viunga kwa shilingi 25, unabakia na pesa ngapi?"
)

// AdaptToLocalContext 把课程中的西方例子替换为本地例子，每次替换都会记录一条说明
func AdaptToLocalContext(lesson model.Lesson, lang model.Language) model.Lesson {
	lang = model.ParseLanguage(string(lang))
	view := AdaptLesson(lesson, lang)

	text := view.Content
	notes := []string{}
	for i, r := range localReplacements {
		if !replacementPatterns[i].MatchString(text) {
			continue
		}
		local := r.english
		if lang == model.LanguageSwahili {
			local = r.swahili
		}
		text = replacementPatterns[i].ReplaceAllLiteralString(text, local)
		notes = append(notes, fmt.Sprintf("Replaced %q with %q", r.western, local))
	}

	if lesson.Subject != nil && lesson.Subject.Name == "Mathematics" {
		if lang == model.LanguageSwahili {
			text += mathExampleSw
		} else {
			text += mathExampleEn
		}
		notes = append(notes, "Added local currency example")
	}

	duration := utf8.RuneCountInString(view.Content) / 10
	if duration == 0 {
		duration = 20
	}
	if duration < 15 {
		duration = 15
	}

	difficulty := lesson.Difficulty
	if difficulty == "" {
		difficulty = model.Beginner
	}

	return model.Lesson{
		UUIDBase:            model.UUIDBase{ID: lesson.ID + "_adapted"},
		Title:               view.Title,
		Description:         view.Description,
		Content:             text,
		SubjectID:           lesson.SubjectID,
		Subject:             lesson.Subject,
		GradeLevel:          lesson.GradeLevel,
		Difficulty:          difficulty,
		Language:            lang,
		EstimatedDuration:   duration,
		CulturalAdaptations: datatypes.JSONSlice[string](notes),
		Source:              "adapted_content",
		IsActive:            true,
	}
}

var subjectKeywords = []struct {
	subject  string
	keywords []string
}{
	{"Mathematics", []string{"math", "hesabu", "fraction", "number", "addition", "multiplication"}},
	{"Science", []string{"science", "sayansi", "plant", "animal", "photosynthesis", "biology"}},
	{"English", []string{"english", "reading", "writing", "grammar", "literature"}},
}

// InferSubject 按关键词推断主题所属科目
func InferSubject(topic string) string {
	topic = strings.ToLower(topic)
	for _, s := range subjectKeywords {
		for _, k := range s.keywords {
			if strings.Contains(topic, k) {
				return s.subject
			}
		}
	}
	return "General"
}

func difficultyForGrade(grade int) model.Difficulty {
	switch {
	case grade <= 3:
		return model.Beginner
	case grade <= 6:
		return model.Intermediate
	default:
		return model.Advanced
	}
}

// GenerateLessonDraft 生成带本地语境的课程草稿，SubjectID 由调用方根据科目名称补全
func GenerateLessonDraft(topic string, grade int, lang model.Language) (model.Lesson, string) {
	lang = model.ParseLanguage(string(lang))
	lesson := model.Lesson{
		GradeLevel:          grade,
		Difficulty:          difficultyForGrade(grade),
		Language:            lang,
		EstimatedDuration:   30,
		CulturalAdaptations: datatypes.JSONSlice[string]{"Generated with African cultural context"},
		Source:              "ai_generated",
		IsActive:            true,
	}
	if lang == model.LanguageSwahili {
		lesson.Title = "Kujifunza " + topic
		lesson.Description = "Masomo kuhusu " + topic
		lesson.Content = "Hapa tutajifunza kuhusu " + topic + ". Tutumia mifano ya mazingira yetu ya Afrika..."
	} else {
		lesson.Title = "Learning " + topic
		lesson.Description = "Lessons about " + topic
		lesson.Content = "Here we'll learn about " + topic + ". We'll use examples from our African environment..."
	}
	return lesson, InferSubject(topic)
}
