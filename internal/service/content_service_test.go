package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContentFixture(t *testing.T) (*ContentService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewContentService(repository.NewLessonRepository(db), repository.NewSubjectRepository(db), &config.Config{}, nil)
	return svc, db
}

func seedLessons(t *testing.T, db *gorm.DB) (math model.Subject, lessons []model.Lesson) {
	math = model.Subject{Name: "Mathematics", NameSw: "Hisabati"}
	require.NoError(t, db.Create(&math).Error)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lessons = []model.Lesson{
		mustCreateLesson(t, db, model.Lesson{
			UUIDBase:    model.UUIDBase{CreatedAt: base},
			Title:       "Fractions with Chapati",
			TitleSw:     "Sehemu kwa Chapati",
			Description: "Learn fractions",
			SubjectID:   math.ID,
			GradeLevel:  4,
			Difficulty:  model.Beginner,
			Language:    model.LanguageEnglish,
			IsActive:    true,
		}),
		mustCreateLesson(t, db, model.Lesson{
			UUIDBase:      model.UUIDBase{CreatedAt: base.Add(time.Hour)},
			Title:         "Market Multiplication",
			Description:   "Count mangoes",
			DescriptionSw: "Hesabu maembe sokoni",
			SubjectID:     math.ID,
			GradeLevel:    5,
			Difficulty:    model.Intermediate,
			Language:      model.LanguageSwahili,
			IsActive:      true,
		}),
		mustCreateLesson(t, db, model.Lesson{
			UUIDBase:  model.UUIDBase{CreatedAt: base.Add(2 * time.Hour)},
			Title:     "Retired Fractions Lesson",
			SubjectID: math.ID,
			IsActive:  false,
		}),
	}
	return math, lessons
}

func TestListLessonsActiveNewestFirst(t *testing.T) {
	svc, db := newContentFixture(t)
	_, lessons := seedLessons(t, db)

	got := svc.ListLessons(context.Background(), model.LessonFilter{})
	require.Len(t, got, 2)
	assert.Equal(t, lessons[1].ID, got[0].ID)
	assert.Equal(t, lessons[0].ID, got[1].ID)
	require.NotNil(t, got[0].Subject)
	assert.Equal(t, "Mathematics", got[0].Subject.Name)
}

func TestListLessonsFilters(t *testing.T) {
	svc, db := newContentFixture(t)
	math, lessons := seedLessons(t, db)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter model.LessonFilter
		want   []string
	}{
		{"grade", model.LessonFilter{GradeLevel: 4}, []string{lessons[0].ID}},
		{"difficulty", model.LessonFilter{Difficulty: model.Intermediate}, []string{lessons[1].ID}},
		{"language", model.LessonFilter{Language: model.LanguageSwahili}, []string{lessons[1].ID}},
		{"subject", model.LessonFilter{SubjectID: math.ID}, []string{lessons[1].ID, lessons[0].ID}},
		{"unknown subject", model.LessonFilter{SubjectID: "missing"}, []string{}},
		{"search is case-insensitive", model.LessonFilter{Search: "FRACTIONS"}, []string{lessons[0].ID}},
		{"search covers swahili title", model.LessonFilter{Search: "sehemu"}, []string{lessons[0].ID}},
		{"search covers swahili description", model.LessonFilter{Search: "maembe"}, []string{lessons[1].ID}},
		{"inactive never matches", model.LessonFilter{Search: "retired"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ListLessons(ctx, tt.filter)
			ids := make([]string, 0, len(got))
			for _, l := range got {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestGetLesson(t *testing.T) {
	svc, db := newContentFixture(t)
	_, lessons := seedLessons(t, db)
	ctx := context.Background()

	got, ok := svc.GetLesson(ctx, lessons[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Fractions with Chapati", got.Title)

	_, ok = svc.GetLesson(ctx, lessons[2].ID)
	assert.False(t, ok, "inactive lessons are not returned")

	_, ok = svc.GetLesson(ctx, "does-not-exist")
	assert.False(t, ok)

	_, ok = svc.GetLesson(ctx, "")
	assert.False(t, ok)
}

func TestListLessonsStorageFailure(t *testing.T) {
	svc, db := newContentFixture(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	got := svc.ListLessons(context.Background(), model.LessonFilter{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, svc.ListSubjects(context.Background()))
}

func TestListSubjectsOrderedByName(t *testing.T) {
	svc, db := newContentFixture(t)
	require.NoError(t, db.Create(&[]model.Subject{{Name: "Science"}, {Name: "English"}}).Error)

	got := svc.ListSubjects(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, "English", got[0].Name)
}

func TestSaveLessonAssignsNewID(t *testing.T) {
	svc, db := newContentFixture(t)
	_, lessons := seedLessons(t, db)
	ctx := context.Background()

	adapted := AdaptToLocalContext(lessons[0], model.LanguageEnglish)
	require.True(t, svc.SaveLesson(ctx, &adapted))
	assert.NotEqual(t, lessons[0].ID+"_adapted", adapted.ID)

	got, ok := svc.GetLesson(ctx, adapted.ID)
	require.True(t, ok)
	assert.Equal(t, "adapted_content", got.Source)
}

func TestResolveSubjectID(t *testing.T) {
	svc, db := newContentFixture(t)
	math, _ := seedLessons(t, db)

	assert.Equal(t, math.ID, svc.ResolveSubjectID(context.Background(), "Mathematics"))
	assert.Equal(t, "", svc.ResolveSubjectID(context.Background(), "General"))
}

func TestAdaptToLocalContext(t *testing.T) {
	lesson := model.Lesson{
		UUIDBase:   model.UUIDBase{ID: "l1"},
		Title:      "Shopping",
		Content:    "Tom buys a Pizza for 5 dollars and rides the subway.",
		Subject:    &model.Subject{Name: "Mathematics"},
		GradeLevel: 3,
	}

	en := AdaptToLocalContext(lesson, model.LanguageEnglish)
	assert.Equal(t, "l1_adapted", en.ID)
	assert.Equal(t, "adapted_content", en.Source)
	assert.Equal(t, model.Beginner, en.Difficulty)
	assert.Equal(t, model.LanguageEnglish, en.Language)
	assert.Contains(t, en.Content, "Tom buys a chapati for 5 shillings and rides the matatu.")
	assert.Contains(t, en.Content, "100 shillings")
	assert.Equal(t, []string{
		`Replaced "pizza" with "chapati"`,
		`Replaced "dollars" with "shillings"`,
		`Replaced "subway" with "matatu"`,
		"Added local currency example",
	}, []string(en.CulturalAdaptations))
	assert.Equal(t, 15, en.EstimatedDuration)

	sw := AdaptToLocalContext(lesson, model.LanguageSwahili)
	assert.Contains(t, sw.Content, "shilingi")
	assert.Contains(t, sw.Content, "daladala")
	assert.True(t, strings.HasSuffix(sw.Content, "unabakia na pesa ngapi?"))
}

func TestAdaptToLocalContextNoReplacements(t *testing.T) {
	lesson := model.Lesson{Content: strings.Repeat("a", 400), Subject: &model.Subject{Name: "Science"}}

	got := AdaptToLocalContext(lesson, model.LanguageEnglish)
	assert.Empty(t, got.CulturalAdaptations)
	assert.Equal(t, lesson.Content, got.Content)
	assert.Equal(t, 40, got.EstimatedDuration)

	empty := AdaptToLocalContext(model.Lesson{}, model.LanguageEnglish)
	assert.Equal(t, 20, empty.EstimatedDuration)
}

func TestInferSubject(t *testing.T) {
	assert.Equal(t, "Mathematics", InferSubject("Adding Fractions"))
	assert.Equal(t, "Mathematics", InferSubject("hesabu ya soko"))
	assert.Equal(t, "Science", InferSubject("Photosynthesis in maize"))
	assert.Equal(t, "English", InferSubject("Reading stories"))
	assert.Equal(t, "General", InferSubject("Kenyan geography"))
}

func TestGenerateLessonDraft(t *testing.T) {
	lesson, subject := GenerateLessonDraft("fractions", 2, model.LanguageEnglish)
	assert.Equal(t, "Learning fractions", lesson.Title)
	assert.Equal(t, model.Beginner, lesson.Difficulty)
	assert.Equal(t, "ai_generated", lesson.Source)
	assert.Equal(t, "Mathematics", subject)

	lesson, _ = GenerateLessonDraft("mimea", 5, model.LanguageSwahili)
	assert.Equal(t, "Kujifunza mimea", lesson.Title)
	assert.Equal(t, model.Intermediate, lesson.Difficulty)
	assert.Equal(t, model.LanguageSwahili, lesson.Language)

	lesson, _ = GenerateLessonDraft("algebra", 8, "")
	assert.Equal(t, model.Advanced, lesson.Difficulty)
	assert.Equal(t, model.LanguageEnglish, lesson.Language)
}

func TestLessonCacheTTLIsCapped(t *testing.T) {
	assert.Equal(t, time.Minute, (&ContentService{CacheTTL: 5 * time.Minute}).lessonCacheTTL())
	assert.Equal(t, 30*time.Second, (&ContentService{CacheTTL: 30 * time.Second}).lessonCacheTTL())
	assert.Equal(t, time.Minute, (&ContentService{}).lessonCacheTTL())
}
