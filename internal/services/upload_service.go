package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"aichat_backend/internal/models"
	"aichat_backend/internal/repositories"
	"aichat_backend/internal/storage"
)

type UploadService struct {
	uploads *repositories.UploadRepository
	storage storage.Storage
}

func NewUploadService(uploads *repositories.UploadRepository, st storage.Storage) *UploadService {
	return &UploadService{
		uploads: uploads,
		storage: st,
	}
}

// Upload сохраняет файл в object storage и создает запись в БД
func (s *UploadService) Upload(ctx context.Context, userID, fileName, contentType string, size int64, reader io.Reader) (*models.Upload, error) {
	ext := filepath.Ext(fileName)
	path := fmt.Sprintf("uploads/%s/%d%s", uuid.New().String(), time.Now().UnixNano(), ext)

	if err := s.storage.Save(ctx, path, reader, contentType); err != nil {
		return nil, fmt.Errorf("storage save: %w", err)
	}

	url, err := s.storage.GetURL(ctx, path)
	if err != nil {
		return nil, err
	}

	upload := &models.Upload{
		UserID:      userID,
		FileName:    fileName,
		StoragePath: path,
		ContentType: contentType,
		Size:        size,
		URL:         url,
	}
	if err := s.uploads.Create(ctx, upload); err != nil {
		return nil, err
	}
	return upload, nil
}

// ListUserUploads возвращает файлы пользователя
func (s *UploadService) ListUserUploads(ctx context.Context, userID string) ([]models.Upload, error) {
	return s.uploads.FindAllByUser(ctx, userID)
}
