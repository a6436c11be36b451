package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0712 345 678", "254712345678"},
		{"+254-712-345-678", "254712345678"},
		{"712345678", "254712345678"},
		{"254712345678", "254712345678"},
		{"+1 (555) 010-9999", "15550109999"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhoneNumber(tt.raw), tt.raw)
	}
}

func TestChatURL(t *testing.T) {
	assert.Equal(t, "https://wa.me/254712345678", ChatURL("0712345678", ""))
	assert.Equal(t, "https://wa.me/254712345678?text=Habari%20Tuta%21%20%26%20more", ChatURL("0712345678", "Habari Tuta! & more"))
}

func TestVerifyWebhook(t *testing.T) {
	svc := NewWhatsAppService(config.WhatsAppConfig{WebhookVerifyToken: "tutalearn_webhook_verify"}, nil, nil, nil)

	challenge, ok := svc.VerifyWebhook("subscribe", "tutalearn_webhook_verify", "12345")
	assert.True(t, ok)
	assert.Equal(t, "12345", challenge)

	_, ok = svc.VerifyWebhook("subscribe", "wrong", "12345")
	assert.False(t, ok)
	_, ok = svc.VerifyWebhook("unsubscribe", "tutalearn_webhook_verify", "12345")
	assert.False(t, ok)
}

func decodePayload(t *testing.T, raw string) WebhookPayload {
	t.Helper()
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestParseIncoming(t *testing.T) {
	msg, ok := ParseIncoming(decodePayload(t, `{"entry":[{"changes":[{"value":{"messages":[
		{"from":"254712345678","type":"text","text":{"body":"What is 1/2?"}},
		{"from":"254700000000","type":"text","text":{"body":"second"}}
	]}}]}]}`))
	require.True(t, ok)
	assert.Equal(t, "254712345678", msg.From)
	assert.Equal(t, "What is 1/2?", msg.Body)
	assert.Equal(t, "text", msg.Type)

	voice, ok := ParseIncoming(decodePayload(t, `{"entry":[{"changes":[{"value":{"messages":[{"from":"1","type":"audio"}]}}]}]}`))
	require.True(t, ok)
	assert.Equal(t, "voice", voice.Type)
	assert.Equal(t, "", voice.Body)

	for _, raw := range []string{`{}`, `{"entry":[]}`, `{"entry":[{"changes":[]}]}`, `{"entry":[{"changes":[{"value":{"statuses":[{}]}}]}]}`} {
		_, ok := ParseIncoming(decodePayload(t, raw))
		assert.False(t, ok, raw)
	}
}

type sentMessage struct {
	path  string
	auth  string
	body  map[string]interface{}
	count int
}

func fakeGraphAPI(t *testing.T, status int) (*httptest.Server, *sentMessage) {
	t.Helper()
	sent := &sentMessage{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sent.count++
		sent.path = r.URL.Path
		sent.auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent.body))
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, sent
}

func TestSendMessage(t *testing.T) {
	srv, sent := fakeGraphAPI(t, http.StatusOK)
	svc := NewWhatsAppService(config.WhatsAppConfig{
		APIBaseURL:    srv.URL,
		AccessToken:   "token",
		PhoneNumberID: "42",
	}, nil, nil, nil)

	require.True(t, svc.IsConfigured())
	assert.True(t, svc.SendMessage(context.Background(), "254712345678", "Karibu"))
	assert.Equal(t, "/42/messages", sent.path)
	assert.Equal(t, "Bearer token", sent.auth)
	assert.Equal(t, "whatsapp", sent.body["messaging_product"])
	assert.Equal(t, "254712345678", sent.body["to"])
	assert.Equal(t, map[string]interface{}{"body": "Karibu"}, sent.body["text"])
}

func TestSendMessageFailures(t *testing.T) {
	rejecting, _ := fakeGraphAPI(t, http.StatusBadRequest)

	unconfigured := NewWhatsAppService(config.WhatsAppConfig{APIBaseURL: rejecting.URL}, nil, nil, nil)
	assert.False(t, unconfigured.IsConfigured())
	assert.False(t, unconfigured.SendMessage(context.Background(), "1", "x"))

	rejected := NewWhatsAppService(config.WhatsAppConfig{APIBaseURL: rejecting.URL, AccessToken: "t", PhoneNumberID: "1"}, nil, nil, nil)
	assert.False(t, rejected.SendMessage(context.Background(), "1", "x"))
}

func TestSimulate(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.NotEmpty(t, Simulate("fractions"))
	}
}

func TestHandleIncoming(t *testing.T) {
	db := newTestDB(t)
	profiles := repository.NewProfileRepository(db)
	chats := repository.NewChatRepository(db)
	require.NoError(t, db.Create(&model.Profile{
		ID:                "u1",
		PhoneNumber:       "254712345678",
		PreferredLanguage: model.LanguageSwahili,
	}).Error)

	graph, sent := fakeGraphAPI(t, http.StatusOK)
	analytics := NewAnalyticsService(repository.NewAnalyticsRepository(db))
	tutor := NewTutorService(NewAIService(config.AIConfig{}), analytics)
	svc := NewWhatsAppService(config.WhatsAppConfig{
		APIBaseURL:    graph.URL,
		AccessToken:   "token",
		PhoneNumberID: "42",
	}, tutor, chats, profiles)

	chat := svc.HandleIncoming(context.Background(), &IncomingMessage{From: "0712345678", Body: "Sehemu ni nini?"})
	require.NotNil(t, chat)
	assert.Equal(t, "u1", chat.UserID)
	assert.Equal(t, "254712345678", chat.PhoneNumber)
	assert.Equal(t, "fallback", chat.AIModelUsed)
	assert.True(t, isFallback(model.LanguageSwahili, chat.Response))
	assert.Equal(t, 1, sent.count)
	assert.Equal(t, chat.Response, sent.body["text"].(map[string]interface{})["body"])

	stored, err := chats.ListByPhone(context.Background(), "254712345678", 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Sehemu ni nini?", stored[0].Message)

	assert.Nil(t, svc.HandleIncoming(context.Background(), &IncomingMessage{From: "1", Body: "  "}))
	assert.Nil(t, svc.HandleIncoming(context.Background(), nil))
}
