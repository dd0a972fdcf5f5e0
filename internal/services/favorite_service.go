package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"aichat_backend/internal/appErrors"
	"aichat_backend/internal/models"
	"aichat_backend/internal/repositories"
)

type FavoriteService struct {
	favorites  *repositories.FavoriteRepository
	membership *MembershipService
}

func NewFavoriteService(favorites *repositories.FavoriteRepository, membership *MembershipService) *FavoriteService {
	return &FavoriteService{
		favorites:  favorites,
		membership: membership,
	}
}

// AddFavorite добавляет беседу в избранное. Только для участников.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, conversationID string) (*models.Favorite, error) {
	hasAccess, err := s.membership.HasAccess(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, appErrors.ErrNoPermission
	}

	favorite := &models.Favorite{
		UserID:         userID,
		ConversationID: conversationID,
	}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, appErrors.ErrAlreadyFavorite
		}
		return nil, err
	}
	return favorite, nil
}

// RemoveFavorite убирает беседу из избранного
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, conversationID string) error {
	return s.favorites.Delete(ctx, userID, conversationID)
}

// ListFavorites возвращает избранные беседы пользователя
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	return s.favorites.FindAllByUser(ctx, userID)
}
