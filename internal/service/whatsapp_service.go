package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/repository"
	"tutalearn_backend/internal/util"
	"tutalearn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IncomingMessage struct {
	From      string    `json:"from"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"` // text | voice
}

// WebhookPayload WhatsApp Cloud API 回调结构中用到的部分
type WebhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text *struct {
						Body string `json:"body"`
					} `json:"text,omitempty"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type WhatsAppService struct {
	mu          sync.RWMutex
	config      config.WhatsAppConfig
	client      *http.Client
	Tutor       *TutorService
	ChatRepo    *repository.ChatRepository
	ProfileRepo *repository.ProfileRepository
}

func NewWhatsAppService(cfg config.WhatsAppConfig, tutor *TutorService, chatRepo *repository.ChatRepository, profileRepo *repository.ProfileRepository) *WhatsAppService {
	return &WhatsAppService{
		config:      cfg,
		client:      &http.Client{Timeout: 15 * time.Second},
		Tutor:       tutor,
		ChatRepo:    chatRepo,
		ProfileRepo: profileRepo,
	}
}

func (s *WhatsAppService) UpdateConfig(cfg config.WhatsAppConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

func (s *WhatsAppService) cfg() config.WhatsAppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *WhatsAppService) IsConfigured() bool {
	c := s.cfg()
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

// FormatPhoneNumber 去掉非数字字符，缺少国家码时按肯尼亚号码补全 254
func FormatPhoneNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if strings.HasPrefix(cleaned, "0") {
		return "254" + cleaned[1:]
	}
	if !strings.HasPrefix(cleaned, "254") && len(cleaned) == 9 {
		return "254" + cleaned
	}
	return cleaned
}

// ChatURL 生成 wa.me 点击聊天链接
func ChatURL(phone, message string) string {
	link := "https://wa.me/" + FormatPhoneNumber(phone)
	if message == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

func (s *WhatsAppService) VerifyWebhook(mode, token, challenge string) (string, bool) {
	if mode == "subscribe" && token != "" && token == s.cfg().WebhookVerifyToken {
		return challenge, true
	}
	return "", false
}

// ParseIncoming 只取第一个变更中的第一条消息
func ParseIncoming(payload WebhookPayload) (*IncomingMessage, bool) {
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return nil, false
	}
	messages := payload.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 {
		return nil, false
	}

	m := messages[0]
	msg := &IncomingMessage{
		From:      m.From,
		Timestamp: time.Now(),
		Type:      "voice",
	}
	if m.Type == "text" {
		msg.Type = "text"
	}
	if m.Text != nil {
		msg.Body = m.Text.Body
	}
	return msg, true
}

func (s *WhatsAppService) SendMessage(ctx context.Context, to, body string) bool {
	c := s.cfg()
	if c.AccessToken == "" || c.PhoneNumberID == "" {
		logger.Log.Warn(util.ErrWhatsAppDisabled.Error(), zap.String("to", to))
		return false
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	})

	endpoint := fmt.Sprintf("%s/%s/messages", strings.TrimRight(c.APIBaseURL, "/"), c.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		logger.Log.Error("build WhatsApp request failed", zap.Error(err))
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Error("WhatsApp send failed", zap.String("to", to), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Log.Warn("WhatsApp send rejected", zap.String("to", to), zap.Int("status", resp.StatusCode))
		return false
	}
	return true
}

// Simulate 未接入 WhatsApp Business API 时的演示回复
func Simulate(question string) string {
	replies := []string{
		"Karibu! I received your question about '" + question + "'. Let me help you learn!",
		"Great question! In African context, we can explain this using examples from our daily life.",
		"Pole! Let me break this down for you using familiar examples like farming or market scenarios.",
	}
	return replies[rand.Intn(len(replies))]
}

// HandleIncoming 收到的消息交给 Tuta 回答，再通过 WhatsApp 回复并记录会话。
// 号码能匹配到学生资料时使用其偏好语言并关联用户
func (s *WhatsAppService) HandleIncoming(ctx context.Context, msg *IncomingMessage) *model.WhatsAppChat {
	if msg == nil || strings.TrimSpace(msg.Body) == "" {
		return nil
	}

	phone := FormatPhoneNumber(msg.From)
	req := TutorRequest{Question: msg.Body, Language: model.DefaultLanguage}
	if s.ProfileRepo != nil {
		profile, err := s.ProfileRepo.FindByPhone(ctx, phone)
		if err == nil {
			req.UserID = profile.ID
			req.Language = profile.PreferredLanguage
			req.GradeLevel = profile.GradeLevel
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			storageFailure("find_profile_by_phone", err, zap.String("phone", phone))
		}
	}
	answer := s.Tutor.AskTuta(ctx, req)

	if !s.SendMessage(ctx, phone, answer.Answer) {
		logger.Log.Warn("WhatsApp reply not delivered", zap.String("phone", phone))
	}

	modelUsed := "fallback"
	if !answer.Fallback {
		modelUsed = s.Tutor.AI.ModelName()
	}
	chat := &model.WhatsAppChat{
		UserID:      req.UserID,
		PhoneNumber: phone,
		Message:     msg.Body,
		Response:    answer.Answer,
		AIModelUsed: modelUsed,
	}
	if err := s.ChatRepo.Create(ctx, chat); err != nil {
		storageFailure("save_whatsapp_chat", err, zap.String("phone", phone))
	}
	return chat
}
