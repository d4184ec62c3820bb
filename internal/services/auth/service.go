package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloudstorage/internal/models"
)

const pkg = "authService/"

// BearerPrefix must precede the raw token in the auth-token header.
const BearerPrefix = "Bearer "

type AuthService struct {
	log           *slog.Logger
	verifier      CredentialVerifier
	codec         TokenCodec
	sessionStorer SessionStorer
}

func New(
	log *slog.Logger,
	verifier CredentialVerifier,
	codec TokenCodec,
	sessionStorer SessionStorer,
) *AuthService {
	return &AuthService{
		log:           log,
		verifier:      verifier,
		codec:         codec,
		sessionStorer: sessionStorer,
	}
}

// Login verifies the credentials, issues a token and records it as an active session.
func (a *AuthService) Login(ctx context.Context, login string, password string) (string, error) {
	op := pkg + "Login"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to login user")

	user, err := a.verifier.VerifyCredentials(ctx, login, password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			log.Info("invalid credentials", slog.String("login", login))
			return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		log.Error("failed to verify credentials", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	tok, err := a.codec.Issue(user.Login)
	if err != nil {
		log.Error("failed to issue token", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	session := models.Session{
		UserID:    user.ID,
		Login:     user.Login,
		ExpiresAt: tok.ExpiresAt,
	}

	if err := a.sessionStorer.SaveSession(ctx, tok.Value, session); err != nil {
		log.Error("failed to store session", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user logged in successfully", slog.String("login", user.Login), slog.Time("expires_at", tok.ExpiresAt))

	return tok.Value, nil
}

// Logout revokes the presented token. A header without the bearer prefix or an
// unknown token leaves nothing to revoke and is not an error.
func (a *AuthService) Logout(ctx context.Context, authHeader string) error {
	op := pkg + "Logout"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to logout user")

	raw, ok := stripBearer(authHeader)
	if !ok {
		log.Debug("token does not begin with bearer prefix, nothing to revoke")
		return nil
	}

	if err := a.sessionStorer.DeleteSession(ctx, raw); err != nil {
		log.Error("failed to delete session", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user logged out successfully")

	return nil
}

// UserByToken resolves the identity behind an auth-token header. The token
// must be an active session and still pass signature and expiry checks.
func (a *AuthService) UserByToken(ctx context.Context, authHeader string) (*models.User, error) {
	op := pkg + "UserByToken"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to resolve user by token")

	raw, ok := stripBearer(authHeader)
	if !ok {
		log.Warn("token does not begin with bearer prefix")
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	session, err := a.sessionStorer.SessionByToken(ctx, raw)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Warn("session not found")
			return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
		}
		log.Error("failed to get session by token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	claims, err := a.codec.Parse(raw)
	if err != nil {
		log.Warn("token rejected", slog.String("error", err.Error()))

		if err := a.sessionStorer.DeleteSession(ctx, raw); err != nil {
			log.Error("failed to drop stale session", slog.String("error", err.Error()))
		}

		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	if claims.Subject != session.Login {
		log.Warn("token subject does not match session", slog.String("subject", claims.Subject))
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	log.Debug("user resolved successfully", slog.String("login", session.Login))

	return &models.User{
		ID:    session.UserID,
		Login: session.Login,
	}, nil
}

func stripBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}

	raw := header[len(BearerPrefix):]
	if raw == "" {
		return "", false
	}

	return raw, true
}
