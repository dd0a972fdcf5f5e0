package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aichat_backend/internal/models"
)

func member(role models.MemberRole, active, write, invite, moderate bool) *models.ConversationMember {
	return &models.ConversationMember{
		Role:        role,
		IsActive:    active,
		CanWrite:    write,
		CanInvite:   invite,
		CanModerate: moderate,
	}
}

func TestCanInvite(t *testing.T) {
	assert.True(t, CanInvite(member(models.RoleMember, true, true, true, false)))
	assert.False(t, CanInvite(member(models.RoleMember, true, true, false, false)))
	// Неактивный участник теряет все права независимо от флагов
	assert.False(t, CanInvite(member(models.RoleMember, false, true, true, false)))
	assert.False(t, CanInvite(nil))
}

func TestCanWrite(t *testing.T) {
	assert.True(t, CanWrite(member(models.RoleMember, true, true, false, false)))
	assert.False(t, CanWrite(member(models.RoleMember, true, false, false, false)))
	assert.False(t, CanWrite(member(models.RoleOwner, false, true, true, true)))
	assert.False(t, CanWrite(nil))
}

func TestCanModerate(t *testing.T) {
	assert.True(t, CanModerate(member(models.RoleModerator, true, true, false, true)))
	// Флаг не выводится из роли: модератор без can_moderate не модерирует
	assert.False(t, CanModerate(member(models.RoleModerator, true, true, false, false)))
	// И наоборот: рядовой участник с флагом - модерирует
	assert.True(t, CanModerate(member(models.RoleMember, true, true, false, true)))
	assert.False(t, CanModerate(nil))
}

func TestCanManagePermissions(t *testing.T) {
	assert.True(t, CanManagePermissions(member(models.RoleOwner, true, true, true, true)))
	assert.True(t, CanManagePermissions(member(models.RoleModerator, true, true, false, false)))
	assert.False(t, CanManagePermissions(member(models.RoleMember, true, true, true, true)))
	assert.False(t, CanManagePermissions(member(models.RoleOwner, false, true, true, true)))
	assert.False(t, CanManagePermissions(nil))

	// Владелец со снятым can_moderate сохраняет управление правами
	assert.True(t, CanManagePermissions(member(models.RoleOwner, true, false, false, false)))
}
