package repositories

import (
	"context"

	"gorm.io/gorm"

	"aichat_backend/internal/models"
)

type UploadRepository struct {
	DB *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{DB: db}
}

// Create сохраняет запись о загруженном файле
func (r *UploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	return r.DB.WithContext(ctx).Create(upload).Error
}

// FindByID возвращает запись по ID
func (r *UploadRepository) FindByID(ctx context.Context, id string) (*models.Upload, error) {
	var upload models.Upload
	err := r.DB.WithContext(ctx).First(&upload, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// FindAllByUser возвращает файлы пользователя
func (r *UploadRepository) FindAllByUser(ctx context.Context, userID string) ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error
	return uploads, err
}
