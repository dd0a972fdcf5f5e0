package repositories

import (
	"context"

	"gorm.io/gorm"

	"aichat_backend/internal/models"
)

type ConversationRepository struct {
	DB *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

// WithTx возвращает копию репозитория, работающую в транзакции
func (r *ConversationRepository) WithTx(tx *gorm.DB) *ConversationRepository {
	return &ConversationRepository{DB: tx}
}

// FindByID возвращает беседу по ID
func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.DB.WithContext(ctx).First(&conversation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// Create создает новую беседу
func (r *ConversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	return r.DB.WithContext(ctx).Create(conversation).Error
}

// Save сохраняет изменения беседы
func (r *ConversationRepository) Save(ctx context.Context, conversation *models.Conversation) error {
	return r.DB.WithContext(ctx).Save(conversation).Error
}

// UpdateOwner обновляет владельца беседы
func (r *ConversationRepository) UpdateOwner(ctx context.Context, conversationID, ownerUserID string) error {
	return r.DB.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("owner_user_id", ownerUserID).Error
}

// UpdateLastMessage обновляет последнее сообщение в беседе
func (r *ConversationRepository) UpdateLastMessage(ctx context.Context, conversationID, messageID string) error {
	return r.DB.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_id", messageID).Error
}

// FindAllByUser возвращает все беседы, в которых пользователь активен
func (r *ConversationRepository) FindAllByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.DB.WithContext(ctx).
		Joins("JOIN conversation_members cm ON cm.conversation_id = conversations.id").
		Where("cm.user_id = ? AND cm.is_active = ?", userID, true).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}
