package fileservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"cloudstorage/internal/models"

	uuid "github.com/satori/go.uuid"
)

const pkg = "fileService/"

// FileService scopes every storage operation to the owner of the presented token.
type FileService struct {
	log      *slog.Logger
	fileRepo FileRepository
	cache    Cache
	identity IdentityResolver
	now      func() time.Time

	// Cached lists live under a key carrying the owner's list generation.
	// A mutation bumps the generation after its storage write, so a list
	// read before the write can only be cached under a retired key. The
	// epoch keeps lists cached by an earlier process out of reach.
	epoch string
	genMu sync.Mutex
	gens  map[string]uint64
}

func New(
	log *slog.Logger,
	fileRepo FileRepository,
	cache Cache,
	identity IdentityResolver,
) *FileService {
	return &FileService{
		log:      log,
		fileRepo: fileRepo,
		cache:    cache,
		identity: identity,
		now:      time.Now,
		epoch:    uuid.NewV4().String(),
		gens:     make(map[string]uint64),
	}
}

func (fs *FileService) Upload(ctx context.Context, authHeader string, filename string, content io.Reader) error {
	op := pkg + "Upload"

	log := fs.log.With(slog.String("op", op))

	log.Debug("attempting to upload file", slog.String("filename", filename))

	owner, err := fs.resolveOwner(ctx, op, authHeader)
	if err != nil {
		return err
	}

	if isBlank(filename) || content == nil {
		log.Warn("empty filename or content")
		return fmt.Errorf("%s: %w", op, models.ErrInputData)
	}

	data, err := io.ReadAll(content)
	if err != nil {
		log.Warn("failed to read file content", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInputData)
	}

	file := &models.File{
		OwnerID:  owner.ID,
		Filename: filename,
		Size:     int64(len(data)),
		Content:  data,
		EditedAt: fs.now().UTC(),
	}

	if err := fs.fileRepo.Save(ctx, file); err != nil {
		log.Error("failed to save file", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	fs.invalidateList(ctx, log, owner.ID)

	log.Debug("file uploaded successfully", slog.String("filename", filename), slog.Int64("size", file.Size))

	return nil
}

func (fs *FileService) Delete(ctx context.Context, authHeader string, filename string) error {
	op := pkg + "Delete"

	log := fs.log.With(slog.String("op", op))

	log.Debug("attempting to delete file", slog.String("filename", filename))

	owner, err := fs.resolveOwner(ctx, op, authHeader)
	if err != nil {
		return err
	}

	if isBlank(filename) {
		log.Warn("empty filename")
		return fmt.Errorf("%s: %w", op, models.ErrInputData)
	}

	deleted, err := fs.fileRepo.DeleteByOwnerAndName(ctx, owner.ID, filename)
	if err != nil {
		log.Error("failed to delete file", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if deleted == 0 {
		log.Warn("nothing deleted", slog.String("filename", filename))
		return fmt.Errorf("%s: %w", op, models.ErrDeleteFailed)
	}

	fs.invalidateList(ctx, log, owner.ID)

	log.Debug("file deleted successfully", slog.String("filename", filename))

	return nil
}

func (fs *FileService) Download(ctx context.Context, authHeader string, filename string) ([]byte, error) {
	op := pkg + "Download"

	log := fs.log.With(slog.String("op", op))

	log.Debug("attempting to download file", slog.String("filename", filename))

	owner, err := fs.resolveOwner(ctx, op, authHeader)
	if err != nil {
		return nil, err
	}

	if isBlank(filename) {
		log.Warn("empty filename")
		return nil, fmt.Errorf("%s: %w", op, models.ErrInputData)
	}

	file, err := fs.fileRepo.FileByOwnerAndName(ctx, owner.ID, filename)
	if err != nil {
		if errors.Is(err, models.ErrFileNotFound) {
			log.Warn("file not found", slog.String("filename", filename))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInputData)
		}
		log.Error("failed to get file", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if len(file.Content) == 0 {
		log.Warn("file has no content", slog.String("filename", filename))
		return nil, fmt.Errorf("%s: %w", op, models.ErrUploadFailed)
	}

	log.Debug("file downloaded successfully", slog.String("filename", filename), slog.Int64("size", file.Size))

	return file.Content, nil
}

func (fs *FileService) Rename(ctx context.Context, authHeader string, filename string, newFilename string) error {
	op := pkg + "Rename"

	log := fs.log.With(slog.String("op", op))

	log.Debug("attempting to rename file", slog.String("filename", filename), slog.String("new_filename", newFilename))

	owner, err := fs.resolveOwner(ctx, op, authHeader)
	if err != nil {
		return err
	}

	if isBlank(filename) || isBlank(newFilename) {
		log.Warn("empty filename")
		return fmt.Errorf("%s: %w", op, models.ErrInputData)
	}

	if _, err := fs.fileRepo.FileByOwnerAndName(ctx, owner.ID, filename); err != nil {
		if errors.Is(err, models.ErrFileNotFound) {
			log.Warn("file not found", slog.String("filename", filename))
			return fmt.Errorf("%s: %w", op, models.ErrInputData)
		}
		log.Error("failed to get file", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if newFilename == filename {
		log.Warn("new filename equals the current one")
		return fmt.Errorf("%s: %w", op, models.ErrRenameFailed)
	}

	renamed, err := fs.fileRepo.Rename(ctx, owner.ID, filename, newFilename, fs.now().UTC())
	if err != nil {
		var uniqueErr *models.UniqueConstraintError
		if errors.As(err, &uniqueErr) {
			log.Warn("target filename already taken", slog.String("new_filename", newFilename))
			return fmt.Errorf("%s: %w", op, models.ErrRenameFailed)
		}
		log.Error("failed to rename file", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if renamed == 0 {
		log.Warn("nothing renamed", slog.String("filename", filename))
		return fmt.Errorf("%s: %w", op, models.ErrRenameFailed)
	}

	fs.invalidateList(ctx, log, owner.ID)

	log.Debug("file renamed successfully", slog.String("filename", filename), slog.String("new_filename", newFilename))

	return nil
}

// List returns at most limit files of the caller, ordered by filename.
func (fs *FileService) List(ctx context.Context, authHeader string, limit int) ([]models.FileInfo, error) {
	op := pkg + "List"

	log := fs.log.With(slog.String("op", op))

	log.Debug("attempting to list files", slog.Int("limit", limit))

	owner, err := fs.resolveOwner(ctx, op, authHeader)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		log.Warn("non-positive limit", slog.Int("limit", limit))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInputData)
	}

	files, err := fs.ownerFiles(ctx, log, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(files) > limit {
		files = files[:limit]
	}

	log.Debug("files listed successfully", slog.Int("count", len(files)), slog.String("owner_id", owner.ID))

	return files, nil
}

func (fs *FileService) resolveOwner(ctx context.Context, op string, authHeader string) (*models.User, error) {
	user, err := fs.identity.UserByToken(ctx, authHeader)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return user, nil
}

// ownerFiles reads the owner's full list through the cache.
func (fs *FileService) ownerFiles(ctx context.Context, log *slog.Logger, ownerID string) ([]models.FileInfo, error) {
	cacheKey := fs.listCacheKey(ownerID, fs.listGeneration(ownerID))

	filesJSON, err := fs.cache.Get(ctx, cacheKey)
	if err == nil && filesJSON != "" {
		files, err := jsonToFiles(filesJSON)
		if err == nil {
			return files, nil
		}
		log.Warn("failed to parse cached file list", slog.String("error", err.Error()))
	} else if err != nil {
		log.Warn("failed to get file list from cache", slog.String("error", err.Error()))
	}

	files, err := fs.fileRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Error("failed to list files", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	filesJSON, err = filesToJSON(files)
	if err != nil {
		log.Error("failed to convert files to json", slog.String("error", err.Error()))
		return files, nil
	}

	if err := fs.cache.Set(ctx, cacheKey, filesJSON); err != nil {
		log.Warn("failed to set file list in cache", slog.String("error", err.Error()))
	}

	return files, nil
}

// invalidateList must run after the storage write it accounts for.
func (fs *FileService) invalidateList(ctx context.Context, log *slog.Logger, ownerID string) {
	fs.genMu.Lock()
	retired := fs.gens[ownerID]
	fs.gens[ownerID] = retired + 1
	fs.genMu.Unlock()

	if err := fs.cache.Del(ctx, fs.listCacheKey(ownerID, retired)); err != nil {
		log.Warn("failed to drop retired file list", slog.String("error", err.Error()))
	}
}

func (fs *FileService) listGeneration(ownerID string) uint64 {
	fs.genMu.Lock()
	defer fs.genMu.Unlock()

	return fs.gens[ownerID]
}

func (fs *FileService) listCacheKey(ownerID string, gen uint64) string {
	return fmt.Sprintf("files:%s:%s:%d", ownerID, fs.epoch, gen)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func jsonToFiles(s string) ([]models.FileInfo, error) {
	var files []models.FileInfo

	if err := json.Unmarshal([]byte(s), &files); err != nil {
		return nil, err
	}

	return files, nil
}

func filesToJSON(files []models.FileInfo) (string, error) {
	res, err := json.Marshal(files)
	if err != nil {
		return "", err
	}

	return string(res), nil
}
