package services

import (
	"errors"
	"strings"

	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/repository"
	"github.com/pupskillswap/skillswap-api/internal/utils"
	"gorm.io/gorm"
)

// UserService owns profile existence and the active flag the core
// services validate against. Profiles have no lifecycle of their own;
// deactivate/reactivate just flips is_active.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterInput represents input for creating a profile
type RegisterInput struct {
	UserID   string
	FullName string
	Email    string
	Skill    string
	Bio      *string
}

// Register creates the profile row for an authenticated user id
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, apperrors.InvalidInput("Full name cannot be empty.")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.InvalidInput("A valid email address is required.")
	}
	skill := strings.ToLower(strings.TrimSpace(input.Skill))
	if skill == "" {
		return nil, apperrors.InvalidInput("Skill cannot be empty.")
	}

	if _, err := s.userRepo.FindByID(input.UserID); err == nil {
		return nil, apperrors.Conflict("A profile already exists for this user.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Unavailable(err, "failed to check existing profile")
	}

	user := &models.User{
		ID:       input.UserID,
		FullName: fullName,
		Email:    email,
		Skill:    skill,
		Bio:      input.Bio,
		IsActive: true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("A profile already exists for this user.")
		}
		return nil, apperrors.Unavailable(err, "failed to create profile")
	}

	return user, nil
}

// Get returns a profile by id
func (s *UserService) Get(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User with ID '%s' does not exist in the system.", userID)
		}
		return nil, apperrors.Unavailable(err, "failed to find user %s", userID)
	}
	return user, nil
}

// UpdateInput represents a partial profile update
type UpdateInput struct {
	FullName *string
	Skill    *string
	Bio      *string
}

// Update applies the provided profile fields
func (s *UserService) Update(userID string, input UpdateInput) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.FullName != nil {
		trimmed := strings.TrimSpace(*input.FullName)
		if trimmed == "" {
			return nil, apperrors.InvalidInput("Full name cannot be empty.")
		}
		user.FullName = trimmed
		changed = true
	}
	if input.Skill != nil {
		trimmed := strings.ToLower(strings.TrimSpace(*input.Skill))
		if trimmed == "" {
			return nil, apperrors.InvalidInput("Skill cannot be empty.")
		}
		user.Skill = trimmed
		changed = true
	}
	if input.Bio != nil {
		user.Bio = input.Bio
		changed = true
	}

	if !changed {
		return nil, apperrors.InvalidInput("No valid fields to update.")
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.Unavailable(err, "failed to update user %s", userID)
	}

	return user, nil
}

// Deactivate hides the user from listings and blocks all mutating
// operations until reactivation.
func (s *UserService) Deactivate(userID string) error {
	return s.setActive(userID, false)
}

// Reactivate restores a deactivated account
func (s *UserService) Reactivate(userID string) error {
	return s.setActive(userID, true)
}

func (s *UserService) setActive(userID string, active bool) error {
	if err := s.userRepo.SetActive(userID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("User with ID '%s' does not exist in the system.", userID)
		}
		return apperrors.Unavailable(err, "failed to update user %s", userID)
	}
	return nil
}

// List returns active users, optionally filtered by skill
func (s *UserService) List(skill *string, pageToken string, limit int) ([]models.User, *string, error) {
	filter := repository.UserFilter{Skill: skill, Limit: limit}
	return s.listPage(filter, pageToken)
}

// Search returns active users whose name or skill contains the query
func (s *UserService) Search(query string, pageToken string, limit int) ([]models.User, *string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil, apperrors.InvalidInput("Search query cannot be empty.")
	}
	filter := repository.UserFilter{Query: &trimmed, Limit: limit}
	return s.listPage(filter, pageToken)
}

func (s *UserService) listPage(filter repository.UserFilter, pageToken string) ([]models.User, *string, error) {
	if pageToken != "" {
		cursor, err := utils.DecodeCursor(pageToken)
		if err != nil {
			return nil, nil, err
		}
		filter.Cursor = cursor
	}

	users, err := s.userRepo.List(filter)
	if err != nil {
		return nil, nil, apperrors.Unavailable(err, "failed to list users")
	}

	if filter.Limit <= 0 || len(users) <= filter.Limit {
		return users, nil, nil
	}
	users = users[:filter.Limit]
	last := users[len(users)-1]
	token, err := utils.EncodeCursor(utils.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to encode page token")
	}
	return users, &token, nil
}
