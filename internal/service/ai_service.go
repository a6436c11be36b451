package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/util"
)

// AIService OpenAI 兼容的 chat/completions 客户端（默认指向 Groq）
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// UpdateConfig 配置热更新时替换 API Key 和模型
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.client = &http.Client{Timeout: cfg.Timeout()}
}

func (s *AIService) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.APIKey != ""
}

func (s *AIService) snapshot() (config.AIConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

func (s *AIService) Chat(ctx context.Context, messages []AIChatMessage) (string, error) {
	cfg, client := s.snapshot()
	if cfg.APIKey == "" {
		return "", util.ErrTutorNotAvailable
	}

	reqBody := ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) > 0 && result.Choices[0].Message.Content != "" {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

func (s *AIService) ModelName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Model
}
