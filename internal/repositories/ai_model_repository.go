package repositories

import (
	"context"

	"gorm.io/gorm"

	"aichat_backend/internal/models"
)

type AIModelRepository struct {
	DB *gorm.DB
}

func NewAIModelRepository(db *gorm.DB) *AIModelRepository {
	return &AIModelRepository{DB: db}
}

// FindEnabled возвращает включенные модели каталога
func (r *AIModelRepository) FindEnabled(ctx context.Context) ([]models.AIModel, error) {
	var aiModels []models.AIModel
	err := r.DB.WithContext(ctx).
		Where("is_enabled = ?", true).
		Order("name ASC").
		Find(&aiModels).Error
	return aiModels, err
}

// FindByID возвращает модель по ID
func (r *AIModelRepository) FindByID(ctx context.Context, id string) (*models.AIModel, error) {
	var aiModel models.AIModel
	err := r.DB.WithContext(ctx).First(&aiModel, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &aiModel, nil
}

// Save создает или обновляет запись каталога
func (r *AIModelRepository) Save(ctx context.Context, aiModel *models.AIModel) error {
	return r.DB.WithContext(ctx).Save(aiModel).Error
}
