package authservice

import (
	"context"

	"cloudstorage/internal/lib/token"
	"cloudstorage/internal/models"
)

type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, login string, password string) (*models.User, error)
}

type TokenCodec interface {
	Issue(subject string) (token.Token, error)
	Parse(value string) (*token.Claims, error)
}

type SessionStorer interface {
	SaveSession(ctx context.Context, token string, session models.Session) error
	DeleteSession(ctx context.Context, token string) error
	SessionByToken(ctx context.Context, token string) (*models.Session, error)
}
