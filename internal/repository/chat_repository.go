package repository

import (
	"context"
	"tutalearn_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) Create(ctx context.Context, chat *model.WhatsAppChat) error {
	return r.DB.WithContext(ctx).Create(chat).Error
}

func (r *ChatRepository) ListByPhone(ctx context.Context, phone string, limit int) ([]model.WhatsAppChat, error) {
	chats := []model.WhatsAppChat{}
	err := r.DB.WithContext(ctx).
		Where("phone_number = ?", phone).
		Order("created_at DESC").
		Limit(limit).
		Find(&chats).Error
	return chats, err
}
