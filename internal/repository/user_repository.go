package repository

import (
	"strings"

	"github.com/pupskillswap/skillswap-api/internal/database"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create persists a new user profile
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by id
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves changed profile fields
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// SetActive flips the active flag
func (r *GormUserRepository) SetActive(id string, active bool) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves active users matching the filter, newest first
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, error) {
	query := r.db.Model(&models.User{}).Where("is_active = ?", true)

	if filter.Skill != nil {
		query = query.Where("skill = ?", strings.ToLower(*filter.Skill))
	}
	if filter.Query != nil {
		pattern := "%" + strings.ToLower(strings.TrimSpace(*filter.Query)) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(skill) LIKE ?", pattern, pattern)
	}

	query = query.Scopes(database.AfterCursor(filter.Cursor), database.NewestFirst)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit + 1)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
