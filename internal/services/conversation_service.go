package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"aichat_backend/internal/appErrors"
	"aichat_backend/internal/models"
	"aichat_backend/internal/repositories"
)

type ConversationService struct {
	db            *gorm.DB
	conversations *repositories.ConversationRepository
	members       *repositories.MembershipRepository
	membership    *MembershipService
	defaultMax    int
}

func NewConversationService(
	db *gorm.DB,
	conversations *repositories.ConversationRepository,
	members *repositories.MembershipRepository,
	membership *MembershipService,
	defaultMaxUsers int,
) *ConversationService {
	if defaultMaxUsers <= 0 {
		defaultMaxUsers = 10
	}
	return &ConversationService{
		db:            db,
		conversations: conversations,
		members:       members,
		membership:    membership,
		defaultMax:    defaultMaxUsers,
	}
}

type CreateConversationInput struct {
	Title            string  `json:"title" validate:"required,max=200"`
	MaxUsers         int     `json:"max_users" validate:"omitempty,min=2,max=500"`
	AllowUserInvites *bool   `json:"allow_user_invites,omitempty"`
	AIModelID        *string `json:"ai_model_id,omitempty"`
}

// CreateConversation создает беседу и активную строку владельца одной транзакцией
func (s *ConversationService) CreateConversation(ctx context.Context, creatorID string, input CreateConversationInput) (*models.Conversation, error) {
	maxUsers := input.MaxUsers
	if maxUsers == 0 {
		maxUsers = s.defaultMax
	}
	allowInvites := true
	if input.AllowUserInvites != nil {
		allowInvites = *input.AllowUserInvites
	}

	conversation := &models.Conversation{
		Title:            input.Title,
		OwnerUserID:      creatorID,
		MaxUsers:         maxUsers,
		AllowUserInvites: allowInvites,
		AIModelID:        input.AIModelID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.conversations.WithTx(tx).Create(ctx, conversation); err != nil {
			return err
		}

		owner := &models.ConversationMember{
			ConversationID: conversation.ID,
			UserID:         creatorID,
			Role:           models.RoleOwner,
			IsActive:       true,
			CanWrite:       true,
			CanInvite:      true,
			CanModerate:    true,
			InvitedBy:      creatorID,
			JoinedAt:       time.Now(),
		}
		return s.members.WithTx(tx).Create(ctx, owner)
	})
	if err != nil {
		return nil, err
	}

	return conversation, nil
}

// GetConversation возвращает беседу, доступ только участникам
func (s *ConversationService) GetConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	hasAccess, err := s.membership.HasAccess(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, appErrors.ErrNoPermission
	}

	conversation, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrConversationNotFound
		}
		return nil, err
	}
	return conversation, nil
}

// ListUserConversations возвращает беседы, где пользователь активен
func (s *ConversationService) ListUserConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.conversations.FindAllByUser(ctx, userID)
}

type UpdateConversationInput struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,max=200"`
	MaxUsers         *int    `json:"max_users,omitempty" validate:"omitempty,min=2,max=500"`
	AllowUserInvites *bool   `json:"allow_user_invites,omitempty"`
	AIModelID        *string `json:"ai_model_id,omitempty"`
}

// UpdateConversation меняет настройки беседы, только владелец
func (s *ConversationService) UpdateConversation(ctx context.Context, conversationID, userID string, input UpdateConversationInput) (*models.Conversation, error) {
	conversation, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrConversationNotFound
		}
		return nil, err
	}
	if conversation.OwnerUserID != userID {
		return nil, appErrors.ErrNoPermission
	}

	if input.Title != nil {
		conversation.Title = *input.Title
	}
	if input.MaxUsers != nil {
		conversation.MaxUsers = *input.MaxUsers
	}
	if input.AllowUserInvites != nil {
		conversation.AllowUserInvites = *input.AllowUserInvites
	}
	if input.AIModelID != nil {
		conversation.AIModelID = input.AIModelID
	}

	if err := s.conversations.Save(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}
