package userservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloudstorage/internal/models"
	"cloudstorage/internal/validator"

	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"
)

const pkg = "userService/"

// dummyHash is compared against when the login is unknown so that both
// failure paths spend the same bcrypt time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-0"), bcrypt.DefaultCost)

type UserService struct {
	log          *slog.Logger
	userAdder    UserAdder
	userProvider UserProvider
}

func New(
	log *slog.Logger,
	userAdder UserAdder,
	userProvider UserProvider) *UserService {
	return &UserService{
		log:          log,
		userAdder:    userAdder,
		userProvider: userProvider,
	}
}

// Register creates an identity with a bcrypt hash of password and returns its id.
func (u *UserService) Register(ctx context.Context, login string, password string) (string, error) {
	op := pkg + "Register"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to register user")

	if !validator.IsValidLogin(login) || !validator.IsValidPassword(password) {
		log.Warn("invalid login or password format")
		return "", models.ErrInvalidParams
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", slog.String("error", err.Error()))
		return "", models.ErrInternal
	}

	user := models.User{
		ID:       uuid.NewV4().String(),
		Login:    login,
		PassHash: passHash,
	}

	err = u.userAdder.AddUser(ctx, user)
	if err != nil {
		var uce *models.UniqueConstraintError
		if errors.As(err, &uce) {
			log.Warn("user already exists", slog.String("constraint", uce.Constraint))
			return "", models.ErrUserExists
		}
		log.Error("failed to add user", slog.String("error", err.Error()))
		return "", models.ErrFailedToAddUser
	}

	log.Debug("user registered successfully", slog.String("user_id", user.ID))

	return user.ID, nil
}

// VerifyCredentials returns the identity whose stored hash matches password.
// Unknown login, wrong password and disabled accounts all yield
// models.ErrInvalidCredentials.
func (u *UserService) VerifyCredentials(ctx context.Context, login string, password string) (*models.User, error) {
	op := pkg + "VerifyCredentials"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to verify credentials")

	user, err := u.userProvider.UserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			log.Info("unknown identity", slog.String("login", login))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		log.Error("failed to get user by login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("credential mismatch", slog.String("login", login))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	if !models.CanAuthenticate(user) {
		log.Warn("account can not authenticate", slog.String("login", login))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	log.Debug("credentials verified")

	return user, nil
}
