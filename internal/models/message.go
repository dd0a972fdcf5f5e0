package models

// AgeRating - возрастной рейтинг содержимого сообщения
type AgeRating string

const (
	RatingEveryone AgeRating = "everyone"
	RatingTeen     AgeRating = "teen"
	RatingMature   AgeRating = "mature"
)

type Message struct {
	BaseModel
	ConversationID string    `gorm:"index;not null" json:"conversation_id"`
	SenderID       string    `gorm:"index;not null" json:"sender_id"`
	Content        string    `gorm:"type:text" json:"content"`
	AgeRating      AgeRating `gorm:"type:varchar(20);default:'everyone'" json:"age_rating"`
	IsAssistant    bool      `gorm:"default:false" json:"is_assistant"`
}
