package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"aichat_backend/internal/appErrors"
	"aichat_backend/internal/logger"
	"aichat_backend/internal/models"
	"aichat_backend/internal/repositories"
)

// MessageBroadcaster доставляет новое сообщение активным участникам (realtime)
type MessageBroadcaster interface {
	BroadcastToUsers(userIDs []string, payload any)
}

// AIReplyEnqueuer ставит фоновую задачу на ответ ассистента
type AIReplyEnqueuer interface {
	EnqueueAIReply(ctx context.Context, conversationID, triggerUserID string) error
}

type MessageService struct {
	conversations  *repositories.ConversationRepository
	messages       *repositories.MessageRepository
	membership     *MembershipService
	classification *ClassificationService
	broadcaster    MessageBroadcaster
	enqueuer       AIReplyEnqueuer
}

func NewMessageService(
	conversations *repositories.ConversationRepository,
	messages *repositories.MessageRepository,
	membership *MembershipService,
	classification *ClassificationService,
) *MessageService {
	return &MessageService{
		conversations:  conversations,
		messages:       messages,
		membership:     membership,
		classification: classification,
	}
}

// SetBroadcaster подключает realtime доставку
func (s *MessageService) SetBroadcaster(b MessageBroadcaster) {
	s.broadcaster = b
}

// SetEnqueuer подключает очередь задач ассистента
func (s *MessageService) SetEnqueuer(e AIReplyEnqueuer) {
	s.enqueuer = e
}

type SendMessageInput struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	Content        string `json:"content" validate:"required,max=10000"`
}

// SendMessage сохраняет сообщение. Право на запись проверяется через фасад
// членства непосредственно перед записью.
func (s *MessageService) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*models.Message, error) {
	canWrite, err := s.membership.CanWrite(ctx, input.ConversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !canWrite {
		return nil, appErrors.ErrCannotWrite
	}

	conversation, err := s.conversations.FindByID(ctx, input.ConversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrConversationNotFound
		}
		return nil, err
	}

	message := &models.Message{
		ConversationID: input.ConversationID,
		SenderID:       senderID,
		Content:        input.Content,
		AgeRating:      s.classification.Classify(input.Content),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := s.conversations.UpdateLastMessage(ctx, input.ConversationID, message.ID); err != nil {
		return nil, err
	}

	s.fanOut(ctx, message)

	if conversation.AIModelID != nil && s.enqueuer != nil {
		if err := s.enqueuer.EnqueueAIReply(ctx, input.ConversationID, senderID); err != nil {
			// Очередь недоступна - сообщение уже сохранено, не откатываем
			logger.CtxWithError(ctx, "failed to enqueue ai reply", err, "conversation_id", input.ConversationID)
		}
	}

	return message, nil
}

// CreateAssistantMessage записывает ответ ассистента (вызывается из воркера)
func (s *MessageService) CreateAssistantMessage(ctx context.Context, conversationID, modelID, content string) (*models.Message, error) {
	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       modelID,
		Content:        content,
		AgeRating:      s.classification.Classify(content),
		IsAssistant:    true,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	if err := s.conversations.UpdateLastMessage(ctx, conversationID, message.ID); err != nil {
		return nil, err
	}

	s.fanOut(ctx, message)
	return message, nil
}

// GetMessages возвращает страницу сообщений, доступ только участникам
func (s *MessageService) GetMessages(ctx context.Context, conversationID, userID string, page, pageSize int) ([]models.Message, int64, error) {
	hasAccess, err := s.membership.HasAccess(ctx, conversationID, userID)
	if err != nil {
		return nil, 0, err
	}
	if !hasAccess {
		return nil, 0, appErrors.ErrNoPermission
	}

	total, err := s.messages.CountByConversation(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}

	messages, err := s.messages.FindByConversation(ctx, conversationID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (s *MessageService) fanOut(ctx context.Context, message *models.Message) {
	if s.broadcaster == nil {
		return
	}

	members, err := s.membership.GetActiveMembers(ctx, message.ConversationID)
	if err != nil {
		logger.CtxWithError(ctx, "failed to load members for fan-out", err, "conversation_id", message.ConversationID)
		return
	}

	userIDs := make([]string, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}
	s.broadcaster.BroadcastToUsers(userIDs, message)
}
