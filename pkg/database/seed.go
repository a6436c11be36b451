package database

import (
	"tutalearn_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seed 在表为空时写入默认科目与示例课程
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Subject{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	subjects := []*model.Subject{
		{Name: "Mathematics", NameSw: "Hisabati"},
		{Name: "Science", NameSw: "Sayansi"},
		{Name: "English", NameSw: "Kiingereza"},
		{Name: "History", NameSw: "Historia"},
		{Name: "Literature", NameSw: "Fasihi"},
	}
	if err := db.Create(&subjects).Error; err != nil {
		return err
	}
	bySubject := make(map[string]string, len(subjects))
	for _, s := range subjects {
		bySubject[s.Name] = s.ID
	}

	lessons := []*model.Lesson{
		{
			Title:               "Introduction to Fractions",
			TitleSw:             "Utangulizi wa Sehemu",
			Description:         "Learn about fractions using ugali and mandazi examples",
			DescriptionSw:       "Jifunze sehemu kwa kutumia mifano ya ugali na mandazi",
			Content:             "A fraction represents a part of a whole. Think of cutting a chapati into 4 equal pieces. If you eat 1 piece, you've eaten 1/4 of the chapati.",
			ContentSw:           "Sehemu ni kipande cha kitu kizima. Fikiria ukigawanya chapati katika vipande 4 sawa. Ukila kipande 1, umekula 1/4 ya chapati.",
			SubjectID:           bySubject["Mathematics"],
			GradeLevel:          4,
			Difficulty:          model.Beginner,
			Language:            model.LanguageEnglish,
			EstimatedDuration:   30,
			CulturalAdaptations: datatypes.JSONSlice[string]{"Uses chapati instead of pizza"},
			Source:              "manual",
			IsActive:            true,
		},
		{
			Title:             "Photosynthesis in African Plants",
			TitleSw:           "Usanisinuru katika Mimea ya Afrika",
			Description:       "How baobab trees and acacia make their own food",
			DescriptionSw:     "Jinsi mibuyu na miti ya migunga inavyotengeneza chakula chao",
			Content:           "Like how a baobab tree uses sunlight, water, and air to make its own food.",
			SubjectID:         bySubject["Science"],
			GradeLevel:        6,
			Difficulty:        model.Intermediate,
			Language:          model.LanguageEnglish,
			EstimatedDuration: 45,
			Source:            "manual",
			IsActive:          true,
		},
		{
			Title:             "Hesabu za Msingi",
			Description:       "Kujifunza hesabu kwa kutumia mifano ya soko",
			Content:           "Ikiwa kikapu kimoja kina maembe 12 na una vikapu 3, una maembe 12 × 3 = 36 jumla.",
			SubjectID:         bySubject["Mathematics"],
			GradeLevel:        3,
			Difficulty:        model.Beginner,
			Language:          model.LanguageSwahili,
			EstimatedDuration: 25,
			Source:            "manual",
			IsActive:          true,
		},
	}
	return db.Create(&lessons).Error
}
