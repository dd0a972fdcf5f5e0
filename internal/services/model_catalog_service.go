package services

import (
	"context"
	"encoding/json"
	"time"

	"aichat_backend/internal/cache"
	"aichat_backend/internal/logger"
	"aichat_backend/internal/models"
	"aichat_backend/internal/repositories"
)

const modelCatalogCacheKey = "catalog:ai_models"

// ModelCatalogService отдает read-mostly каталог LLM моделей.
// Список оборачивается в cache-aside с TTL; кэш сбрасывается при изменении.
type ModelCatalogService struct {
	aiModels *repositories.AIModelRepository
	cache    cache.Cache
	ttl      time.Duration
}

func NewModelCatalogService(aiModels *repositories.AIModelRepository, c cache.Cache, ttl time.Duration) *ModelCatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ModelCatalogService{
		aiModels: aiModels,
		cache:    c,
		ttl:      ttl,
	}
}

// ListModels возвращает включенные модели, по возможности из кэша
func (s *ModelCatalogService) ListModels(ctx context.Context) ([]models.AIModel, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, modelCatalogCacheKey)
		if err == nil {
			var result []models.AIModel
			if jsonErr := json.Unmarshal([]byte(cached), &result); jsonErr == nil {
				return result, nil
			}
		} else if err != cache.ErrMiss {
			logger.CtxWithError(ctx, "model catalog cache read failed", err)
		}
	}

	result, err := s.aiModels.FindEnabled(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, jsonErr := json.Marshal(result); jsonErr == nil {
			if err := s.cache.Set(ctx, modelCatalogCacheKey, string(data), s.ttl); err != nil {
				logger.CtxWithError(ctx, "model catalog cache write failed", err)
			}
		}
	}

	return result, nil
}

// GetModel возвращает модель каталога по ID
func (s *ModelCatalogService) GetModel(ctx context.Context, id string) (*models.AIModel, error) {
	return s.aiModels.FindByID(ctx, id)
}

// UpsertModel создает или обновляет запись каталога и сбрасывает кэш
func (s *ModelCatalogService) UpsertModel(ctx context.Context, aiModel *models.AIModel) error {
	if err := s.aiModels.Save(ctx, aiModel); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, modelCatalogCacheKey); err != nil {
			logger.CtxWithError(ctx, "model catalog cache invalidation failed", err)
		}
	}
	return nil
}
