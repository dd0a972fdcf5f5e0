package database

import (
	"gorm.io/gorm"

	"aichat_backend/internal/models"
)

// Migrate выполняет автомиграцию всех моделей
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AIModel{},
		&models.Conversation{},
		&models.ConversationMember{},
		&models.Message{},
		&models.Favorite{},
		&models.Upload{},
	)
}
