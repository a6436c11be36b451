package service

import (
	"testing"
	"tutalearn_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestPick(t *testing.T) {
	tests := []struct {
		name string
		lang model.Language
		def  string
		alt  string
		want string
	}{
		{"swahili with translation", model.LanguageSwahili, "Fractions", "Sehemu", "Sehemu"},
		{"swahili without translation", model.LanguageSwahili, "Fractions", "", "Fractions"},
		{"swahili whitespace translation", model.LanguageSwahili, "Fractions", "   ", "Fractions"},
		{"english ignores translation", model.LanguageEnglish, "Fractions", "Sehemu", "Fractions"},
		{"unknown language uses default", model.Language("fr"), "Fractions", "Sehemu", "Fractions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pick(tt.lang, tt.def, tt.alt))
		})
	}
}

func TestAdaptLesson(t *testing.T) {
	lesson := model.Lesson{
		UUIDBase:            model.UUIDBase{ID: "l1"},
		Title:               "Fractions",
		TitleSw:             "Sehemu",
		Description:         "Learn fractions",
		Content:             "Cut the chapati",
		ContentSw:           "Kata chapati",
		Subject:             &model.Subject{Name: "Mathematics", NameSw: "Hisabati"},
		Language:            model.LanguageEnglish,
		CulturalAdaptations: datatypes.JSONSlice[string]{"chapati"},
	}

	sw := AdaptLesson(lesson, model.LanguageSwahili)
	assert.Equal(t, "Sehemu", sw.Title)
	assert.Equal(t, "Learn fractions", sw.Description)
	assert.Equal(t, "Kata chapati", sw.Content)
	assert.Equal(t, "Hisabati", sw.SubjectName)
	assert.Equal(t, model.LanguageSwahili, sw.DisplayLanguage)
	assert.Equal(t, model.LanguageEnglish, sw.Language)

	en := AdaptLesson(lesson, model.LanguageEnglish)
	assert.Equal(t, "Fractions", en.Title)
	assert.Equal(t, "Mathematics", en.SubjectName)

	sw.CulturalAdaptations[0] = "changed"
	assert.Equal(t, "chapati", lesson.CulturalAdaptations[0])
}

func TestAdaptLessonsKeepsOrder(t *testing.T) {
	lessons := []model.Lesson{
		{UUIDBase: model.UUIDBase{ID: "a"}, Title: "A"},
		{UUIDBase: model.UUIDBase{ID: "b"}, Title: "B", TitleSw: "Bee"},
	}

	out := AdaptLessons(lessons, model.LanguageSwahili)
	assert.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Title)
	assert.Equal(t, "Bee", out[1].Title)
	assert.Empty(t, AdaptLessons(nil, model.LanguageEnglish))
}

func TestAdaptSubjects(t *testing.T) {
	subjects := []model.Subject{{Name: "Science", NameSw: "Sayansi"}, {Name: "Art"}}
	out := AdaptSubjects(subjects, model.LanguageSwahili)
	assert.Equal(t, "Sayansi", out[0].Name)
	assert.Equal(t, "Art", out[1].Name)
}
