package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"aichat_backend/database"
	"aichat_backend/internal/appErrors"
	"aichat_backend/internal/models"
	"aichat_backend/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type membershipFixture struct {
	db            *gorm.DB
	membership    *MembershipService
	conversations *ConversationService
	members       *repositories.MembershipRepository
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	t.Helper()

	db := newTestDB(t)
	conversationRepo := repositories.NewConversationRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)

	membership := NewMembershipService(db, conversationRepo, membershipRepo)
	conversations := NewConversationService(db, conversationRepo, membershipRepo, membership, 10)

	return &membershipFixture{
		db:            db,
		membership:    membership,
		conversations: conversations,
		members:       membershipRepo,
	}
}

func (f *membershipFixture) createUser(t *testing.T, name string) string {
	t.Helper()

	user := &models.User{
		Email:        name + "@example.com",
		PasswordHash: "hash",
		DisplayName:  name,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user.ID
}

func (f *membershipFixture) createConversation(t *testing.T, ownerID string, maxUsers int) *models.Conversation {
	t.Helper()

	conversation, err := f.conversations.CreateConversation(context.Background(), ownerID, CreateConversationInput{
		Title:    "test conversation",
		MaxUsers: maxUsers,
	})
	require.NoError(t, err)
	return conversation
}

func (f *membershipFixture) reload(t *testing.T, conversationID, userID string) *models.ConversationMember {
	t.Helper()

	member, err := f.members.FindByConversationAndUser(context.Background(), conversationID, userID)
	require.NoError(t, err)
	require.NotNil(t, member)
	return member
}

func (f *membershipFixture) requireSingleActiveOwner(t *testing.T, conversationID string) {
	t.Helper()

	count, err := f.members.CountActiveOwners(context.Background(), conversationID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateConversation_OwnerIsActiveMember(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	conversation := f.createConversation(t, owner, 10)

	member := f.reload(t, conversation.ID, owner)
	assert.Equal(t, models.RoleOwner, member.Role)
	assert.True(t, member.IsActive)
	assert.True(t, member.CanWrite)
	assert.True(t, member.CanInvite)
	assert.True(t, member.CanModerate)
	assert.False(t, member.JoinedAt.IsZero())

	count, err := f.membership.CountActiveMembers(ctx, conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	f.requireSingleActiveOwner(t, conversation.ID)
}

func TestInviteUser_CreatesInactiveRow(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	invited := f.createUser(t, "invited")
	conversation := f.createConversation(t, owner, 10)

	member, err := f.membership.InviteUser(ctx, conversation.ID, invited, owner)
	require.NoError(t, err)

	assert.Equal(t, models.RoleMember, member.Role)
	assert.False(t, member.IsActive)
	assert.True(t, member.CanWrite)
	assert.True(t, member.CanInvite) // наследует allow_user_invites беседы
	assert.False(t, member.CanModerate)
	assert.Equal(t, owner, member.InvitedBy)

	// Приглашенный без join еще не участник
	hasAccess, err := f.membership.HasAccess(ctx, conversation.ID, invited)
	require.NoError(t, err)
	assert.False(t, hasAccess)

	count, err := f.membership.CountActiveMembers(ctx, conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInviteUser_ConversationNotFound(t *testing.T) {
	f := newMembershipFixture(t)

	owner := f.createUser(t, "owner")
	invited := f.createUser(t, "invited")

	_, err := f.membership.InviteUser(context.Background(), "00000000-0000-0000-0000-000000000000", invited, owner)
	assert.ErrorIs(t, err, appErrors.ErrConversationNotFound)
}

func TestInviteUser_RequiresInvitePermission(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	outsider := f.createUser(t, "outsider")
	invited := f.createUser(t, "invited")
	conversation := f.createConversation(t, owner, 10)

	// Не участник вовсе
	_, err := f.membership.InviteUser(ctx, conversation.ID, invited, outsider)
	assert.ErrorIs(t, err, appErrors.ErrNoPermission)

	// Участник с отозванным правом приглашать
	stripped := f.createUser(t, "stripped")
	_, err = f.membership.InviteUser(ctx, conversation.ID, stripped, owner)
	require.NoError(t, err)
	_, err = f.membership.JoinConversation(ctx, conversation.ID, stripped)
	require.NoError(t, err)

	off := false
	_, err = f.membership.UpdateMemberPermissions(ctx, conversation.ID, stripped, owner, PermissionsPatch{CanInvite: &off})
	require.NoError(t, err)

	_, err = f.membership.InviteUser(ctx, conversation.ID, invited, stripped)
	assert.ErrorIs(t, err, appErrors.ErrNoPermission)
}

func TestInviteUser_CapacityExceeded(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	second := f.createUser(t, "second")
	third := f.createUser(t, "third")
	conversation := f.createConversation(t, owner, 2)

	_, err := f.membership.InviteUser(ctx, conversation.ID, second, owner)
	require.NoError(t, err)
	_, err = f.membership.JoinConversation(ctx, conversation.ID, second)
	require.NoError(t, err)

	// Беседа заполнена: активных двое при max_users = 2
	_, err = f.membership.InviteUser(ctx, conversation.ID, third, owner)
	assert.ErrorIs(t, err, appErrors.ErrCapacityExceeded)

	// Вместимость проверяется до разбора существующей строки: даже для
	// уже активного участника полная беседа отвечает переполнением
	_, err = f.membership.InviteUser(ctx, conversation.ID, second, owner)
	assert.ErrorIs(t, err, appErrors.ErrCapacityExceeded)
}

func TestInviteUser_AlreadyMember(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	member := f.createUser(t, "member")
	conversation := f.createConversation(t, owner, 10)

	_, err := f.membership.InviteUser(ctx, conversation.ID, member, owner)
	require.NoError(t, err)
	_, err = f.membership.JoinConversation(ctx, conversation.ID, member)
	require.NoError(t, err)

	_, err = f.membership.InviteUser(ctx, conversation.ID, member, owner)
	assert.ErrorIs(t, err, appErrors.ErrAlreadyMember)
}

func TestInviteUser_ReactivatesSameRow(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	moderator := f.createUser(t, "moderator")
	member := f.createUser(t, "member")
	conversation := f.createConversation(t, owner, 10)

	invited, err := f.membership.InviteUser(ctx, conversation.ID, member, owner)
	require.NoError(t, err)
	originalID := invited.ID

	_, err = f.membership.JoinConversation(ctx, conversation.ID, member)
	require.NoError(t, err)
	firstJoin := f.reload(t, conversation.ID, member).JoinedAt

	_, err = f.membership.LeaveConversation(ctx, conversation.ID, member)
	require.NoError(t, err)

	// Второй приглашающий для проверки обновления invited_by
	_, err = f.membership.InviteUser(ctx, conversation.ID, moderator, owner)
	require.NoError(t, err)
	_, err = f.membership.JoinConversation(ctx, conversation.ID, moderator)
	require.NoError(t, err)

	reactivated, err := f.membership.InviteUser(ctx, conversation.ID, member, moderator)
	require.NoError(t, err)

	// Та же строка, участник сразу активен, join не нужен
	assert.Equal(t, originalID, reactivated.ID)
	assert.True(t, reactivated.IsActive)
	assert.Equal(t, moderator, reactivated.InvitedBy)
	assert.Equal(t, firstJoin.Unix(), reactivated.JoinedAt.Unix())

	hasAccess, err := f.membership.HasAccess(ctx, conversation.ID, member)
	require.NoError(t, err)
	assert.True(t, hasAccess)

	_, err = f.membership.JoinConversation(ctx, conversation.ID, member)
	assert.ErrorIs(t, err, appErrors.ErrAlreadyMember)
}

func TestJoinConversation(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	invited := f.createUser(t, "invited")
	uninvited := f.createUser(t, "uninvited")
	conversation := f.createConversation(t, owner, 10)

	// Без приглашения войти нельзя
	_, err := f.membership.JoinConversation(ctx, conversation.ID, uninvited)
	assert.ErrorIs(t, err, appErrors.ErrNoInvitation)

	_, err = f.membership.InviteUser(ctx, conversation.ID, invited, owner)
	require.NoError(t, err)

	member, err := f.membership.JoinConversation(ctx, conversation.ID, invited)
	require.NoError(t, err)
	assert.True(t, member.IsActive)
	assert.False(t, member.JoinedAt.IsZero())

	// Повторный join не идемпотентен
	_, err = f.membership.JoinConversation(ctx, conversation.ID, invited)
	assert.ErrorIs(t, err, appErrors.ErrAlreadyMember)
}

func TestLeaveConversation(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	member := f.createUser(t, "member")
	outsider := f.createUser(t, "outsider")
	conversation := f.createConversation(t, owner, 10)

	_, err := f.membership.LeaveConversation(ctx, conversation.ID, outsider)
	assert.ErrorIs(t, err, appErrors.ErrNotMember)

	// Владелец заперт до передачи владения
	_, err = f.membership.LeaveConversation(ctx, conversation.ID, owner)
	assert.ErrorIs(t, err, appErrors.ErrOwnerCannotLeave)

	_, err = f.membership.InviteUser(ctx, conversation.ID, member, owner)
	require.NoError(t, err)
	_, err = f.membership.JoinConversation(ctx, conversation.ID, member)
	require.NoError(t, err)

	left, err := f.membership.LeaveConversation(ctx, conversation.ID, member)
	require.NoError(t, err)
	assert.False(t, left.IsActive)

	hasAccess, err := f.membership.HasAccess(ctx, conversation.ID, member)
	require.NoError(t, err)
	assert.False(t, hasAccess)

	// Ушедший участник уйти повторно не может
	_, err = f.membership.LeaveConversation(ctx, conversation.ID, member)
	assert.ErrorIs(t, err, appErrors.ErrNotMember)

	f.requireSingleActiveOwner(t, conversation.ID)
}

func TestKickUser(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	member := f.createUser(t, "member")
	victim := f.createUser(t, "victim")
	conversation := f.createConversation(t, owner, 10)

	for _, userID := range []string{member, victim} {
		_, err := f.membership.InviteUser(ctx, conversation.ID, userID, owner)
		require.NoError(t, err)
		_, err = f.membership.JoinConversation(ctx, conversation.ID, userID)
		require.NoError(t, err)
	}

	// Рядовой участник модерировать не может
	_, err := f.membership.KickUser(ctx, conversation.ID, victim, member)
	assert.ErrorIs(t, err, appErrors.ErrNoPermission)

	// Владельца исключить нельзя
	_, err = f.membership.KickUser(ctx, conversation.ID, owner, owner)
	assert.ErrorIs(t, err, appErrors.ErrCannotKickOwner)

	kicked, err := f.membership.KickUser(ctx, conversation.ID, victim, owner)
	require.NoError(t, err)
	assert.False(t, kicked.IsActive)

	// Неактивного участника исключить повторно нельзя
	_, err = f.membership.KickUser(ctx, conversation.ID, victim, owner)
	assert.ErrorIs(t, err, appErrors.ErrNotMember)

	f.requireSingleActiveOwner(t, conversation.ID)
}

func TestTransferOwnership(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	successor := f.createUser(t, "successor")
	conversation := f.createConversation(t, owner, 10)

	_, err := f.membership.InviteUser(ctx, conversation.ID, successor, owner)
	require.NoError(t, err)
	_, err = f.membership.JoinConversation(ctx, conversation.ID, successor)
	require.NoError(t, err)

	// Не владелец передавать не может
	err = f.membership.TransferOwnership(ctx, conversation.ID, owner, successor)
	assert.ErrorIs(t, err, appErrors.ErrNoPermission)

	require.NoError(t, f.membership.TransferOwnership(ctx, conversation.ID, successor, owner))

	demoted := f.reload(t, conversation.ID, owner)
	assert.Equal(t, models.RoleModerator, demoted.Role)
	assert.True(t, demoted.CanModerate)
	assert.True(t, demoted.IsActive)

	promoted := f.reload(t, conversation.ID, successor)
	assert.Equal(t, models.RoleOwner, promoted.Role)
	assert.True(t, promoted.CanWrite)
	assert.True(t, promoted.CanInvite)
	assert.True(t, promoted.CanModerate)

	var reloaded models.Conversation
	require.NoError(t, f.db.First(&reloaded, "id = ?", conversation.ID).Error)
	assert.Equal(t, successor, reloaded.OwnerUserID)

	f.requireSingleActiveOwner(t, conversation.ID)

	// Бывший владелец теперь может выйти
	_, err = f.membership.LeaveConversation(ctx, conversation.ID, owner)
	require.NoError(t, err)
}

func TestTransferOwnership_ToInactiveMember(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	invited := f.createUser(t, "invited")
	outsider := f.createUser(t, "outsider")
	conversation := f.createConversation(t, owner, 10)

	_, err := f.membership.InviteUser(ctx, conversation.ID, invited, owner)
	require.NoError(t, err)

	// Приглашенный, но не вошедший
	err = f.membership.TransferOwnership(ctx, conversation.ID, invited, owner)
	assert.ErrorIs(t, err, appErrors.ErrInvalidNewOwner)

	// Не участник
	err = f.membership.TransferOwnership(ctx, conversation.ID, outsider, owner)
	assert.ErrorIs(t, err, appErrors.ErrInvalidNewOwner)

	f.requireSingleActiveOwner(t, conversation.ID)
}

func TestTransferOwnership_RollsBackOnFailure(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	successor := f.createUser(t, "successor")
	conversation := f.createConversation(t, owner, 10)

	_, err := f.membership.InviteUser(ctx, conversation.ID, successor, owner)
	require.NoError(t, err)
	_, err = f.membership.JoinConversation(ctx, conversation.ID, successor)
	require.NoError(t, err)

	// Ломаем последнюю из трех записей: обновление owner_user_id беседы
	const callbackName = "test:fail_conversations_update"
	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register(callbackName, func(tx *gorm.DB) {
		if tx.Statement.Table == "conversations" {
			_ = tx.AddError(errors.New("injected storage failure"))
		}
	}))
	defer func() {
		require.NoError(t, f.db.Callback().Update().Remove(callbackName))
	}()

	err = f.membership.TransferOwnership(ctx, conversation.ID, successor, owner)
	require.Error(t, err)

	// Откат полный: роли и owner_user_id не изменились
	assert.Equal(t, models.RoleOwner, f.reload(t, conversation.ID, owner).Role)
	assert.Equal(t, models.RoleMember, f.reload(t, conversation.ID, successor).Role)

	var reloaded models.Conversation
	require.NoError(t, f.db.First(&reloaded, "id = ?", conversation.ID).Error)
	assert.Equal(t, owner, reloaded.OwnerUserID)

	f.requireSingleActiveOwner(t, conversation.ID)
}

func TestUpdateMemberPermissions(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	moderator := f.createUser(t, "moderator")
	member := f.createUser(t, "member")
	conversation := f.createConversation(t, owner, 10)

	for _, userID := range []string{moderator, member} {
		_, err := f.membership.InviteUser(ctx, conversation.ID, userID, owner)
		require.NoError(t, err)
		_, err = f.membership.JoinConversation(ctx, conversation.ID, userID)
		require.NoError(t, err)
	}

	// Рядовой участник права менять не может
	off := false
	_, err := f.membership.UpdateMemberPermissions(ctx, conversation.ID, moderator, member, PermissionsPatch{CanWrite: &off})
	assert.ErrorIs(t, err, appErrors.ErrNoPermission)

	// Владелец повышает до модератора
	modRole := models.RoleModerator
	on := true
	updated, err := f.membership.UpdateMemberPermissions(ctx, conversation.ID, moderator, owner, PermissionsPatch{
		Role:        &modRole,
		CanModerate: &on,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)
	assert.True(t, updated.CanModerate)

	// Patch затрагивает только переданные поля
	assert.True(t, updated.CanWrite)
	assert.True(t, updated.CanInvite)

	// Модератор отключает запись рядовому участнику
	updated, err = f.membership.UpdateMemberPermissions(ctx, conversation.ID, member, moderator, PermissionsPatch{CanWrite: &off})
	require.NoError(t, err)
	assert.False(t, updated.CanWrite)

	canWrite, err := f.membership.CanWrite(ctx, conversation.ID, member)
	require.NoError(t, err)
	assert.False(t, canWrite)

	// Доступ на чтение при этом сохраняется
	hasAccess, err := f.membership.HasAccess(ctx, conversation.ID, member)
	require.NoError(t, err)
	assert.True(t, hasAccess)

	// Строку владельца модератор трогать не может
	_, err = f.membership.UpdateMemberPermissions(ctx, conversation.ID, owner, moderator, PermissionsPatch{CanWrite: &off})
	assert.ErrorIs(t, err, appErrors.ErrCannotModifyOwner)

	// Самоправка владельца разрешена
	updated, err = f.membership.UpdateMemberPermissions(ctx, conversation.ID, owner, owner, PermissionsPatch{CanInvite: &off})
	require.NoError(t, err)
	assert.False(t, updated.CanInvite)
}

func TestGetActiveMembers_OwnerFirst(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	first := f.createUser(t, "first")
	second := f.createUser(t, "second")
	gone := f.createUser(t, "gone")
	conversation := f.createConversation(t, owner, 10)

	base := time.Now()
	for i, userID := range []string{first, second, gone} {
		_, err := f.membership.InviteUser(ctx, conversation.ID, userID, owner)
		require.NoError(t, err)
		_, err = f.membership.JoinConversation(ctx, conversation.ID, userID)
		require.NoError(t, err)

		// Детерминированный порядок joined_at
		require.NoError(t, f.db.Model(&models.ConversationMember{}).
			Where("conversation_id = ? AND user_id = ?", conversation.ID, userID).
			Update("joined_at", base.Add(time.Duration(i+1)*time.Minute)).Error)
	}

	_, err := f.membership.LeaveConversation(ctx, conversation.ID, gone)
	require.NoError(t, err)

	// Владелец первым даже с самым поздним joined_at
	require.NoError(t, f.db.Model(&models.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conversation.ID, owner).
		Update("joined_at", base.Add(time.Hour)).Error)

	members, err := f.membership.GetActiveMembers(ctx, conversation.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)

	assert.Equal(t, owner, members[0].UserID)
	assert.Equal(t, first, members[1].UserID)
	assert.Equal(t, second, members[2].UserID)

	// Данные пользователя подгружены
	require.NotNil(t, members[0].User)
	assert.Equal(t, "owner", members[0].User.DisplayName)
}

func TestGetUserMembership(t *testing.T) {
	f := newMembershipFixture(t)
	ctx := context.Background()

	owner := f.createUser(t, "owner")
	outsider := f.createUser(t, "outsider")
	conversation := f.createConversation(t, owner, 10)

	member, err := f.membership.GetUserMembership(ctx, conversation.ID, owner)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, models.RoleOwner, member.Role)

	member, err = f.membership.GetUserMembership(ctx, conversation.ID, outsider)
	require.NoError(t, err)
	assert.Nil(t, member)
}
