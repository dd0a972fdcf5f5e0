package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberRole - роль участника беседы
type MemberRole string

const (
	RoleOwner     MemberRole = "owner"
	RoleModerator MemberRole = "moderator"
	RoleMember    MemberRole = "member"
)

// ConversationMember - участник беседы. Строка создается один раз на пару
// (conversation_id, user_id) и никогда не удаляется: выход и исключение
// только сбрасывают is_active, повторное приглашение реактивирует ту же строку.
type ConversationMember struct {
	ID             string     `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID string     `gorm:"uniqueIndex:idx_conversation_user;not null" json:"conversation_id"`
	UserID         string     `gorm:"uniqueIndex:idx_conversation_user;not null" json:"user_id"`
	Role           MemberRole `gorm:"type:varchar(20);default:'member'" json:"role"`
	IsActive       bool       `gorm:"default:false;index" json:"is_active"`
	CanWrite       bool       `json:"can_write"`
	CanInvite      bool       `gorm:"default:false" json:"can_invite"`
	CanModerate    bool       `gorm:"default:false" json:"can_moderate"`
	InvitedBy      string     `json:"invited_by"`
	JoinedAt       time.Time  `json:"joined_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate генерирует UUID, если ID не задан
func (m *ConversationMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
