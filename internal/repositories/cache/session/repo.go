package cachesessionrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloudstorage/internal/models"
	cacherepo "cloudstorage/internal/repositories/cache"
)

const pkg = "sessionRepo/"

var errSessionExpired = errors.New("session already expired")

// repository is the active session registry: raw token -> session.
// Entries live exactly as long as the token they describe.
type repository struct {
	cache cacherepo.Cache
	now   func() time.Time
}

func New(cache cacherepo.Cache) *repository {
	return &repository{
		cache: cache,
		now:   time.Now,
	}
}

func (r *repository) SaveSession(ctx context.Context, token string, session models.Session) error {
	op := pkg + "SaveSession"

	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("%s: %w", op, errSessionExpired)
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.cache.Set(ctx, token, string(raw), ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteSession is idempotent: deleting an unknown token is not an error.
func (r *repository) DeleteSession(ctx context.Context, token string) error {
	op := pkg + "DeleteSession"

	if err := r.cache.Del(ctx, token).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) SessionByToken(ctx context.Context, token string) (*models.Session, error) {
	op := pkg + "SessionByToken"

	raw, err := r.cache.Get(ctx, token).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if raw == "" {
		return nil, models.ErrSessionNotFound
	}

	var session models.Session

	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &session, nil
}
