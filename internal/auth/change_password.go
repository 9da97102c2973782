package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockpulse/stockpulse-backend/pkg/config"
	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
	pkgerrors "github.com/stockpulse/stockpulse-backend/pkg/errors"
	"github.com/stockpulse/stockpulse-backend/pkg/security"
)

// ChangePasswordService rotates the password for an authenticated user.
type ChangePasswordService interface {
	ChangePassword(ctx context.Context, user *models.User, req ChangePasswordRequest) error
}

type passwordUserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// ChangePasswordServiceParams names the dependencies for the password rotation flow.
type ChangePasswordServiceParams struct {
	UserRepo       passwordUserRepository
	PasswordConfig config.PasswordConfig
}

type changePasswordService struct {
	users       passwordUserRepository
	passwordCfg config.PasswordConfig
}

// NewChangePasswordService builds a password rotation service.
func NewChangePasswordService(params ChangePasswordServiceParams) (ChangePasswordService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &changePasswordService{
		users:       params.UserRepo,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *changePasswordService) ChangePassword(ctx context.Context, user *models.User, req ChangePasswordRequest) error {
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	// Reload the row so the comparison uses the current hash, not the one
	// captured when the request was authenticated.
	current, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	valid, err := security.VerifyPassword(req.CurrentPassword, current.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeValidation, "current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}
