package repositories

import (
	"context"

	"gorm.io/gorm"

	"aichat_backend/internal/models"
)

type FavoriteRepository struct {
	DB *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{DB: db}
}

// Create добавляет беседу в избранное
func (r *FavoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	return r.DB.WithContext(ctx).Create(favorite).Error
}

// Delete убирает беседу из избранного
func (r *FavoriteRepository) Delete(ctx context.Context, userID, conversationID string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		Delete(&models.Favorite{}).Error
}

// FindAllByUser возвращает избранные беседы пользователя
func (r *FavoriteRepository) FindAllByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Conversation").
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// Exists проверяет, есть ли беседа в избранном пользователя
func (r *FavoriteRepository) Exists(ctx context.Context, userID, conversationID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		Count(&count).Error
	return count > 0, err
}
