package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"cloudstorage/internal/models"
)

type AuthService interface {
	Login(ctx context.Context, login string, password string) (string, error)
	Logout(ctx context.Context, authHeader string) error
}

type FileService interface {
	Upload(ctx context.Context, authHeader string, filename string, content io.Reader) error
	Delete(ctx context.Context, authHeader string, filename string) error
	Download(ctx context.Context, authHeader string, filename string) ([]byte, error)
	Rename(ctx context.Context, authHeader string, filename string, newFilename string) error
	List(ctx context.Context, authHeader string, limit int) ([]models.FileInfo, error)
}

type Metrics interface {
	ObserveRequest(method string, route string, status int, elapsed time.Duration)
	Handler() http.Handler
}
