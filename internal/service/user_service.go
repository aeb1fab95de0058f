package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"sharely/internal/database"
	"sharely/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	db     *database.DB
	logger *zerolog.Logger
}

func NewUserService(db *database.DB, logger *zerolog.Logger) *UserService {
	return &UserService{db: db, logger: logger}
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: malformed email %q", ErrInvalidInput, email)
	}
	return nil
}

func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if strings.TrimSpace(user.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateEmail(user.Email); err != nil {
		return nil, err
	}

	if err := s.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, user.Email)
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be blank", ErrInvalidInput)
	}
	if patch.Email != nil {
		if err := validateEmail(*patch.Email); err != nil {
			return nil, err
		}
	}

	user, err := s.db.UpdateUser(ctx, id, patch)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	if errors.Is(err, database.ErrDuplicateEmail) {
		return nil, fmt.Errorf("%w: email is already registered", ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	err := s.db.DeleteUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return err
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.db.GetUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return user, err
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.db.GetAllUsers(ctx)
}
