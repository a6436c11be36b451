package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/pkg/logger"
	"tutalearn_backend/pkg/monitoring"

	"go.uber.org/zap"
)

type TutorRequest struct {
	UserID     string          `json:"-"`
	Question   string          `json:"question" binding:"required"`
	Language   model.Language  `json:"language"`
	Subject    string          `json:"subject"`
	GradeLevel int             `json:"gradeLevel"`
	History    []AIChatMessage `json:"history"`
}

type TutorAnswer struct {
	Answer   string         `json:"answer"`
	Language model.Language `json:"language"`
	Fallback bool           `json:"fallback"`
}

type TutorService struct {
	AI        *AIService
	Analytics *AnalyticsService
}

func NewTutorService(ai *AIService, analytics *AnalyticsService) *TutorService {
	return &TutorService{AI: ai, Analytics: analytics}
}

const (
	tutorPromptEn = "You are Tuta, a friendly AI tutor specializing in African education. Answer questions using African contexts and examples (like maize farming, ugali, African wildlife, local markets). Keep responses under 4 sentences and use simple language appropriate for African students."
	tutorPromptSw = "Wewe ni Tuta, mwalimu mzuri wa kielektroniki anayesaidia wanafunzi wa Afrika. Jibu maswali kwa kutumia mifano ya mazingira ya Afrika (kama vile mahindi, ugali, wanyamapori wa Afrika). Jibu kwa Kiswahili rahisi. Hakikisha majibu yako ni mafupi (chini ya sentensi 4) na rahisi kuelewa."
)

var tutorFallbacks = map[model.Language][]string{
	model.LanguageEnglish: {
		"I'm having trouble connecting right now, but I'd love to help! Try asking about math, science, or any school subject using examples from your daily life.",
		"Let me think about that... For now, try breaking your question into smaller parts or ask about something specific like fractions or plant growth.",
		"That's a great question! While I get my thoughts together, maybe try asking a math problem using shillings or a science question about African animals.",
	},
	model.LanguageSwahili: {
		"Nina tatizo la muunganisho sasa, lakini ningependa kusaidia! Jaribu kuuliza kuhusu hesabu, sayansi, au masomo mengine kwa kutumia mifano ya maisha yako ya kila siku.",
		"Acha nifikiria... Kwa sasa, jaribu kugawanya swali lako katika sehemu ndogo au uliza kitu maalum kama vipande au ukuaji wa mimea.",
		"Hilo ni swali zuri sana! Wakati napata mawazo yangu, labda jaribu kuuliza tatizo la hesabu kwa kutumia shilingi au swali la sayansi kuhusu wanyamapori wa Afrika.",
	},
}

var localExamples = map[string]map[model.Language]string{
	"fractions": {
		model.LanguageEnglish: "Think of cutting a chapati into 4 equal pieces. If you eat 1 piece, you've eaten 1/4 of the chapati.",
		model.LanguageSwahili: "Fikiria ukigawanya chapati katika vipande 4 sawa. Ukila kipande 1, umekula 1/4 ya chapati.",
	},
	"photosynthesis": {
		model.LanguageEnglish: "Like how a baobab tree uses sunlight, water, and air to make its own food - just like cooking ugali but the tree does it naturally!",
		model.LanguageSwahili: "Kama jinsi mti wa mbuyu unavyotumia jua, maji, na hewa kutengeneza chakula chake - kama kupika ugali lakini mti hufanya hivi kwa asili!",
	},
	"multiplication": {
		model.LanguageEnglish: "If one basket holds 12 mangoes and you have 3 baskets, you have 12 × 3 = 36 mangoes total.",
		model.LanguageSwahili: "Ikiwa kikapu kimoja kina maembe 12 na una vikapu 3, una maembe 12 × 3 = 36 jumla.",
	},
}

func buildTutorPrompt(lang model.Language, subject string, grade int) string {
	var b strings.Builder
	if lang == model.LanguageSwahili {
		b.WriteString(tutorPromptSw)
		if subject != "" {
			fmt.Fprintf(&b, " Swali ni kuhusu %s.", subject)
		}
		if grade > 0 {
			fmt.Fprintf(&b, " Mwanafunzi yu darasa la %d.", grade)
		}
		return b.String()
	}

	b.WriteString(tutorPromptEn)
	if subject != "" {
		fmt.Fprintf(&b, " The question is about %s.", subject)
	}
	if grade > 0 {
		fmt.Fprintf(&b, " The student is in grade %d.", grade)
	}
	return b.String()
}

func fallbackAnswer(lang model.Language) string {
	answers := tutorFallbacks[lang]
	return answers[rand.Intn(len(answers))]
}

// AskTuta 调用大模型回答学生问题，任何失败都返回同语言的兜底回答
func (s *TutorService) AskTuta(ctx context.Context, req TutorRequest) TutorAnswer {
	lang := model.ParseLanguage(string(req.Language))

	messages := []AIChatMessage{{Role: "system", Content: buildTutorPrompt(lang, req.Subject, req.GradeLevel)}}
	for _, h := range req.History {
		if h.Role != "user" && h.Role != "assistant" {
			continue
		}
		messages = append(messages, h)
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: req.Question})

	answer := TutorAnswer{Language: lang}
	content, err := s.AI.Chat(ctx, messages)
	if err != nil {
		logger.Log.Warn("tutor falling back to canned answer", zap.Error(err))
		monitoring.TutorAnswers.WithLabelValues("fallback").Inc()
		answer.Answer = fallbackAnswer(lang)
		answer.Fallback = true
	} else {
		monitoring.TutorAnswers.WithLabelValues("llm").Inc()
		answer.Answer = content
	}

	if req.UserID != "" && s.Analytics != nil {
		s.Analytics.RecordEvent(ctx, req.UserID, model.EventTutorQuestion, map[string]interface{}{
			"question": req.Question,
			"subject":  req.Subject,
			"language": string(lang),
			"fallback": answer.Fallback,
		})
	}
	return answer
}

// LocalExample 返回主题对应的本地化例子，未知主题返回空字符串
func LocalExample(topic string, lang model.Language) string {
	examples, ok := localExamples[strings.ToLower(strings.TrimSpace(topic))]
	if !ok {
		return ""
	}
	return examples[model.ParseLanguage(string(lang))]
}
