package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"aichat_backend/internal/models"
)

type MembershipRepository struct {
	DB *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{DB: db}
}

// WithTx возвращает копию репозитория, работающую в транзакции
func (r *MembershipRepository) WithTx(tx *gorm.DB) *MembershipRepository {
	return &MembershipRepository{DB: tx}
}

// FindByConversationAndUser возвращает строку участника по составному ключу.
// Отсутствие строки - не ошибка: возвращается (nil, nil).
func (r *MembershipRepository) FindByConversationAndUser(ctx context.Context, conversationID, userID string) (*models.ConversationMember, error) {
	var member models.ConversationMember
	err := r.DB.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Create создает строку участника
func (r *MembershipRepository) Create(ctx context.Context, member *models.ConversationMember) error {
	return r.DB.WithContext(ctx).Create(member).Error
}

// Save сохраняет изменения строки участника
func (r *MembershipRepository) Save(ctx context.Context, member *models.ConversationMember) error {
	return r.DB.WithContext(ctx).Save(member).Error
}

// CountActive считает активных участников беседы.
// Тот же фильтр is_active, что и в проверке вместимости при приглашении.
func (r *MembershipRepository) CountActive(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.ConversationMember{}).
		Where("conversation_id = ? AND is_active = ?", conversationID, true).
		Count(&count).Error
	return count, err
}

// FindActiveMembers возвращает активных участников с данными пользователя.
// Владелец всегда первый, дальше по возрастанию joined_at.
func (r *MembershipRepository) FindActiveMembers(ctx context.Context, conversationID string) ([]models.ConversationMember, error) {
	var members []models.ConversationMember
	err := r.DB.WithContext(ctx).
		Where("conversation_id = ? AND is_active = ?", conversationID, true).
		Order("CASE WHEN role = 'owner' THEN 0 ELSE 1 END, joined_at ASC").
		Preload("User").
		Find(&members).Error
	return members, err
}

// CountActiveOwners считает активных владельцев беседы (инвариант: всегда 1)
func (r *MembershipRepository) CountActiveOwners(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.ConversationMember{}).
		Where("conversation_id = ? AND role = ? AND is_active = ?", conversationID, models.RoleOwner, true).
		Count(&count).Error
	return count, err
}
