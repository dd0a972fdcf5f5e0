package models

type Conversation struct {
	BaseModel
	Title            string  `gorm:"type:varchar(200)" json:"title"`
	OwnerUserID      string  `gorm:"index;not null" json:"owner_user_id"`
	MaxUsers         int     `gorm:"default:10" json:"max_users"`
	AllowUserInvites bool    `json:"allow_user_invites"`
	AIModelID        *string `gorm:"index" json:"ai_model_id,omitempty"`
	LastMessageID    *string `gorm:"index" json:"last_message_id,omitempty"`

	Members     []ConversationMember `gorm:"foreignKey:ConversationID" json:"members,omitempty"`
	LastMessage *Message             `gorm:"foreignKey:LastMessageID" json:"last_message,omitempty"`
}
