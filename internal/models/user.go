package models

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	DisplayName  string `gorm:"type:varchar(100)" json:"display_name"`

	Memberships []ConversationMember `gorm:"foreignKey:UserID" json:"-"`
}
