// Package permissions содержит чистые предикаты над уже загруженной строкой
// участника. Никакого I/O: вызывающая сторона обязана перечитать строку из
// базы перед действием, состояние прав не кэшируется.
package permissions

import (
	"aichat_backend/internal/models"
)

// CanInvite - может ли участник приглашать в беседу
func CanInvite(m *models.ConversationMember) bool {
	return m != nil && m.IsActive && m.CanInvite
}

// CanWrite - может ли участник писать в беседу
func CanWrite(m *models.ConversationMember) bool {
	return m != nil && m.IsActive && m.CanWrite
}

// CanModerate - может ли участник модерировать (исключать других)
func CanModerate(m *models.ConversationMember) bool {
	return m != nil && m.IsActive && m.CanModerate
}

// CanManagePermissions - может ли участник менять права других.
// Завязано на роль, а не на флаги: владелец со снятым can_moderate
// все равно управляет правами.
func CanManagePermissions(m *models.ConversationMember) bool {
	if m == nil || !m.IsActive {
		return false
	}
	return m.Role == models.RoleOwner || m.Role == models.RoleModerator
}
