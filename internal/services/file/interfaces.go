package fileservice

import (
	"context"
	"time"

	"cloudstorage/internal/models"
)

type FileRepository interface {
	Save(ctx context.Context, file *models.File) error
	FileByOwnerAndName(ctx context.Context, ownerID string, filename string) (*models.File, error)
	DeleteByOwnerAndName(ctx context.Context, ownerID string, filename string) (int64, error)
	Rename(ctx context.Context, ownerID string, filename string, newFilename string, editedAt time.Time) (int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.FileInfo, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}

type IdentityResolver interface {
	UserByToken(ctx context.Context, authHeader string) (*models.User, error)
}
