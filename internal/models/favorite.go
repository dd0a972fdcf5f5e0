package models

// Favorite - закладка пользователя на беседу
type Favorite struct {
	BaseModel
	UserID         string `gorm:"uniqueIndex:idx_user_conversation;not null" json:"user_id"`
	ConversationID string `gorm:"uniqueIndex:idx_user_conversation;not null" json:"conversation_id"`

	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
}
