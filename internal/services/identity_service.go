package services

import (
	"errors"

	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/repository"
	"gorm.io/gorm"
)

// IdentityService verifies that a caller's user id maps to an existing,
// active account. Every mutating operation in the task, rating and
// report services runs this check first.
type IdentityService struct {
	userRepo repository.UserRepository
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(userRepo repository.UserRepository) *IdentityService {
	return &IdentityService{userRepo: userRepo}
}

// EnsureActive returns the user when it exists and is active. The
// context string names the action being attempted so the error message
// tells the caller what was denied, e.g. "accept tasks".
func (s *IdentityService) EnsureActive(userID, context string) (*models.User, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty.")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User with ID '%s' does not exist in the system.", userID)
		}
		return nil, apperrors.Unavailable(err, "failed to verify user %s", userID)
	}

	if !user.IsActive {
		return nil, apperrors.Forbidden("User account is deactivated. Please reactivate your account to %s.", context)
	}

	return user, nil
}
