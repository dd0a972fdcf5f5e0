package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"aichat_backend/internal/appErrors"
	"aichat_backend/internal/logger"
	"aichat_backend/internal/models"
	"aichat_backend/internal/permissions"
	"aichat_backend/internal/repositories"
)

// InviteNotifier уведомляет пользователя о приглашении (best-effort)
type InviteNotifier interface {
	NotifyInvite(invitedUserID, inviterUserID, conversationTitle string)
}

// MembershipService управляет жизненным циклом участия в беседах и отвечает
// на запросы доступа. Состояния строки участника: нет строки -> приглашен
// (is_active=false) -> активен -> неактивен (выход/исключение) -> активен
// (реактивация повторным приглашением, минуя join).
type MembershipService struct {
	db            *gorm.DB
	conversations *repositories.ConversationRepository
	members       *repositories.MembershipRepository
	notifier      InviteNotifier
}

func NewMembershipService(
	db *gorm.DB,
	conversations *repositories.ConversationRepository,
	members *repositories.MembershipRepository,
) *MembershipService {
	return &MembershipService{
		db:            db,
		conversations: conversations,
		members:       members,
	}
}

// SetNotifier подключает уведомления о приглашениях
func (s *MembershipService) SetNotifier(n InviteNotifier) {
	s.notifier = n
}

// InviteUser приглашает пользователя в беседу. Свежее приглашение оставляет
// строку неактивной до JoinConversation; повторное приглашение ушедшего
// участника реактивирует ту же строку сразу.
func (s *MembershipService) InviteUser(ctx context.Context, conversationID, invitedUserID, inviterID string) (*models.ConversationMember, error) {
	conversation, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrConversationNotFound
		}
		return nil, err
	}

	inviter, err := s.members.FindByConversationAndUser(ctx, conversationID, inviterID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanInvite(inviter) {
		return nil, appErrors.ErrNoPermission
	}

	activeCount, err := s.members.CountActive(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if activeCount >= int64(conversation.MaxUsers) {
		return nil, appErrors.ErrCapacityExceeded
	}

	existing, err := s.members.FindByConversationAndUser(ctx, conversationID, invitedUserID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.IsActive {
			return nil, appErrors.ErrAlreadyMember
		}
		// Реактивация: та же строка, обновляем invited_by.
		// Вместимость уже проверена выше, join не требуется.
		existing.IsActive = true
		existing.InvitedBy = inviterID
		if existing.JoinedAt.IsZero() {
			existing.JoinedAt = time.Now()
		}
		if err := s.members.Save(ctx, existing); err != nil {
			return nil, err
		}
		s.notifyInvite(ctx, invitedUserID, inviterID, conversation.Title)
		return existing, nil
	}

	member := &models.ConversationMember{
		ConversationID: conversationID,
		UserID:         invitedUserID,
		Role:           models.RoleMember,
		IsActive:       false,
		CanWrite:       true,
		CanInvite:      conversation.AllowUserInvites,
		CanModerate:    false,
		InvitedBy:      inviterID,
	}
	if err := s.members.Create(ctx, member); err != nil {
		// Гонка двух приглашений: уникальный ключ поглощает дубликат
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, appErrors.ErrAlreadyMember
		}
		return nil, err
	}

	s.notifyInvite(ctx, invitedUserID, inviterID, conversation.Title)
	return member, nil
}

// JoinConversation принимает приглашение: переводит строку в активное состояние
func (s *MembershipService) JoinConversation(ctx context.Context, conversationID, userID string) (*models.ConversationMember, error) {
	member, err := s.members.FindByConversationAndUser(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, appErrors.ErrNoInvitation
	}
	if member.IsActive {
		return nil, appErrors.ErrAlreadyMember
	}

	member.IsActive = true
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	if err := s.members.Save(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// LeaveConversation выводит участника из беседы. Владелец выйти не может:
// сначала передача владения, иначе беседа останется без владельца.
func (s *MembershipService) LeaveConversation(ctx context.Context, conversationID, userID string) (*models.ConversationMember, error) {
	member, err := s.members.FindByConversationAndUser(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil || !member.IsActive {
		return nil, appErrors.ErrNotMember
	}
	if member.Role == models.RoleOwner {
		return nil, appErrors.ErrOwnerCannotLeave
	}

	member.IsActive = false
	if err := s.members.Save(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// KickUser исключает участника из беседы
func (s *MembershipService) KickUser(ctx context.Context, conversationID, targetUserID, moderatorUserID string) (*models.ConversationMember, error) {
	moderator, err := s.members.FindByConversationAndUser(ctx, conversationID, moderatorUserID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanModerate(moderator) {
		return nil, appErrors.ErrNoPermission
	}

	target, err := s.members.FindByConversationAndUser(ctx, conversationID, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil || !target.IsActive {
		return nil, appErrors.ErrNotMember
	}
	if target.Role == models.RoleOwner {
		return nil, appErrors.ErrCannotKickOwner
	}

	target.IsActive = false
	if err := s.members.Save(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// TransferOwnership атомарно передает владение: понижает текущего владельца до
// модератора, повышает нового владельца и обновляет owner_user_id беседы.
// Все три записи коммитятся вместе или не коммитятся вовсе - частичное
// применение оставило бы беседу с нулем или двумя владельцами.
func (s *MembershipService) TransferOwnership(ctx context.Context, conversationID, newOwnerID, currentOwnerID string) error {
	current, err := s.members.FindByConversationAndUser(ctx, conversationID, currentOwnerID)
	if err != nil {
		return err
	}
	if current == nil || !current.IsActive || current.Role != models.RoleOwner {
		return appErrors.ErrNoPermission
	}

	newOwner, err := s.members.FindByConversationAndUser(ctx, conversationID, newOwnerID)
	if err != nil {
		return err
	}
	if newOwner == nil || !newOwner.IsActive {
		return appErrors.ErrInvalidNewOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members := s.members.WithTx(tx)
		conversations := s.conversations.WithTx(tx)

		current.Role = models.RoleModerator
		current.CanModerate = true
		if err := members.Save(ctx, current); err != nil {
			return err
		}

		newOwner.Role = models.RoleOwner
		newOwner.CanWrite = true
		newOwner.CanInvite = true
		newOwner.CanModerate = true
		if err := members.Save(ctx, newOwner); err != nil {
			return err
		}

		return conversations.UpdateOwner(ctx, conversationID, newOwnerID)
	})
}

// PermissionsPatch - частичное обновление прав участника
type PermissionsPatch struct {
	Role        *models.MemberRole `json:"role,omitempty" validate:"omitempty,member_role"`
	CanWrite    *bool              `json:"can_write,omitempty"`
	CanInvite   *bool              `json:"can_invite,omitempty"`
	CanModerate *bool              `json:"can_moderate,omitempty"`
}

// UpdateMemberPermissions применяет patch к строке участника. Строку владельца
// может менять только сам владелец (самоправка разрешена осознанно, см. DESIGN.md).
func (s *MembershipService) UpdateMemberPermissions(ctx context.Context, conversationID, targetUserID, moderatorUserID string, patch PermissionsPatch) (*models.ConversationMember, error) {
	moderator, err := s.members.FindByConversationAndUser(ctx, conversationID, moderatorUserID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanManagePermissions(moderator) {
		return nil, appErrors.ErrNoPermission
	}

	target, err := s.members.FindByConversationAndUser(ctx, conversationID, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, appErrors.ErrNotMember
	}
	if target.Role == models.RoleOwner && moderatorUserID != targetUserID {
		return nil, appErrors.ErrCannotModifyOwner
	}

	if patch.Role != nil {
		target.Role = *patch.Role
	}
	if patch.CanWrite != nil {
		target.CanWrite = *patch.CanWrite
	}
	if patch.CanInvite != nil {
		target.CanInvite = *patch.CanInvite
	}
	if patch.CanModerate != nil {
		target.CanModerate = *patch.CanModerate
	}

	if err := s.members.Save(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// HasAccess - активен ли пользователь в беседе
func (s *MembershipService) HasAccess(ctx context.Context, conversationID, userID string) (bool, error) {
	member, err := s.members.FindByConversationAndUser(ctx, conversationID, userID)
	if err != nil {
		return false, err
	}
	return member != nil && member.IsActive, nil
}

// CanWrite - может ли пользователь писать в беседу
func (s *MembershipService) CanWrite(ctx context.Context, conversationID, userID string) (bool, error) {
	member, err := s.members.FindByConversationAndUser(ctx, conversationID, userID)
	if err != nil {
		return false, err
	}
	return permissions.CanWrite(member), nil
}

// GetActiveMembers возвращает активных участников: владелец первым,
// остальные по возрастанию joined_at
func (s *MembershipService) GetActiveMembers(ctx context.Context, conversationID string) ([]models.ConversationMember, error) {
	return s.members.FindActiveMembers(ctx, conversationID)
}

// GetUserMembership возвращает строку участника или nil
func (s *MembershipService) GetUserMembership(ctx context.Context, conversationID, userID string) (*models.ConversationMember, error) {
	return s.members.FindByConversationAndUser(ctx, conversationID, userID)
}

// CountActiveMembers считает активных участников
func (s *MembershipService) CountActiveMembers(ctx context.Context, conversationID string) (int64, error) {
	return s.members.CountActive(ctx, conversationID)
}

func (s *MembershipService) notifyInvite(ctx context.Context, invitedUserID, inviterID, title string) {
	if s.notifier == nil {
		return
	}
	logger.CtxInfo(ctx, "sending invite notification", "invited_user_id", invitedUserID)
	s.notifier.NotifyInvite(invitedUserID, inviterID, title)
}
