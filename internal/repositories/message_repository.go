package repositories

import (
	"context"

	"gorm.io/gorm"

	"aichat_backend/internal/models"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

// Create сохраняет новое сообщение
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.DB.WithContext(ctx).Create(message).Error
}

// FindByID возвращает сообщение по ID
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	err := r.DB.WithContext(ctx).First(&message, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// FindByConversation возвращает страницу сообщений беседы, новые первыми
func (r *MessageRepository) FindByConversation(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

// CountByConversation считает сообщения беседы
func (r *MessageRepository) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}
