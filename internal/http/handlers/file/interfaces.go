package file

import (
	"context"
	"io"

	"cloudstorage/internal/models"
)

const pkg = "fileHandler/"

const (
	authTokenHeader = "auth-token"
	formFileField   = "file"
	multipartMemory = 32 << 20
)

type FileUploader interface {
	Upload(ctx context.Context, authHeader string, filename string, content io.Reader) error
}

type FileDeleter interface {
	Delete(ctx context.Context, authHeader string, filename string) error
}

type FileProvider interface {
	Download(ctx context.Context, authHeader string, filename string) ([]byte, error)
	List(ctx context.Context, authHeader string, limit int) ([]models.FileInfo, error)
}

type FileRenamer interface {
	Rename(ctx context.Context, authHeader string, filename string, newFilename string) error
}
