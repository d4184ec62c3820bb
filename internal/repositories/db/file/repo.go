package filerepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloudstorage/internal/entities"
	"cloudstorage/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "fileRepo/"

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// Save stores the file. An existing (owner, filename) pair is overwritten.
func (r *repository) Save(ctx context.Context, file *models.File) error {
	op := pkg + "Save"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO files (owner_id, filename, size, content, edited_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, filename) DO UPDATE
		SET size = EXCLUDED.size, content = EXCLUDED.content, edited_at = EXCLUDED.edited_at`,
		file.OwnerID, file.Filename, file.Size, file.Content, file.EditedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) FileByOwnerAndName(ctx context.Context, ownerID string, filename string) (*models.File, error) {
	op := pkg + "FileByOwnerAndName"

	rawFile := entities.File{}

	err := r.db.GetContext(ctx, &rawFile,
		`SELECT
			f.id AS id,
			f.owner_id AS owner_id,
			f.filename AS filename,
			f.size AS size,
			f.content AS content,
			f.edited_at AS edited_at
		FROM files f
		WHERE f.owner_id = $1 AND f.filename = $2`,
		ownerID, filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrFileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.File{
		ID:       rawFile.ID,
		OwnerID:  rawFile.OwnerID,
		Filename: rawFile.Filename,
		Size:     rawFile.Size,
		Content:  rawFile.Content,
		EditedAt: rawFile.EditedAt,
	}, nil
}

// DeleteByOwnerAndName returns the number of deleted rows.
func (r *repository) DeleteByOwnerAndName(ctx context.Context, ownerID string, filename string) (int64, error) {
	op := pkg + "DeleteByOwnerAndName"

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM files WHERE owner_id = $1 AND filename = $2`,
		ownerID, filename)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return affected, nil
}

// Rename returns the number of renamed rows. A collision with a sibling
// filename is reported as *models.UniqueConstraintError.
func (r *repository) Rename(ctx context.Context, ownerID string, filename string, newFilename string, editedAt time.Time) (int64, error) {
	op := pkg + "Rename"

	res, err := r.db.ExecContext(ctx,
		`UPDATE files SET filename = $1, edited_at = $2 WHERE owner_id = $3 AND filename = $4`,
		newFilename, editedAt, ownerID, filename)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, &models.UniqueConstraintError{
				Constraint: pgErr.Constraint,
				Err:        models.ErrUNIQUEConstraintFailed,
			}
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return affected, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]models.FileInfo, error) {
	op := pkg + "ListByOwner"

	rawFiles := make([]entities.FileInfo, 0)

	err := r.db.SelectContext(ctx, &rawFiles,
		`SELECT
			f.filename AS filename,
			f.size AS size
		FROM files f
		WHERE f.owner_id = $1
		ORDER BY f.filename ASC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	files := make([]models.FileInfo, 0, len(rawFiles))

	for _, rawFile := range rawFiles {
		files = append(files, models.FileInfo{
			Filename: rawFile.Filename,
			Size:     rawFile.Size,
		})
	}

	return files, nil
}
