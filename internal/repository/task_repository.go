package repository

import (
	"github.com/pupskillswap/skillswap-api/internal/database"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a non-deleted task by id with optional preloading
func (r *GormTaskRepository) FindByID(id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves non-deleted tasks matching the filter, newest first
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PostedBy != nil {
		query = query.Where("posted_by = ?", *filter.PostedBy)
	}
	if filter.AcceptedBy != nil {
		query = query.Where("accepted_by = ?", *filter.AcceptedBy)
	}
	if filter.ExcludePostedBy != nil {
		query = query.Where("posted_by <> ?", *filter.ExcludePostedBy)
	}

	query = query.Scopes(database.AfterCursor(filter.Cursor), database.NewestFirst)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit + 1)
	}

	var tasks []models.Task
	if err := query.Preload("Poster").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// CountOpenByTitle counts non-deleted open tasks with the title
func (r *GormTaskRepository) CountOpenByTitle(title string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("title = ? AND status = ?", title, models.TaskStatusOpen).
		Count(&count).Error
	return count, err
}

// UpdateTransition writes the task's lifecycle snapshot guarded by the
// version read. The WHERE clause is the whole concurrency story: a
// writer holding a stale version affects zero rows and loses the race.
func (r *GormTaskRepository) UpdateTransition(task *models.Task, expectedVersion uint64) error {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND version = ?", task.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       task.Status,
			"accepted_by":  task.AcceptedBy,
			"accepted_at":  task.AcceptedAt,
			"completed_by": task.CompletedBy,
			"completed_at": task.CompletedAt,
			"version":      task.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleWrite
	}
	return nil
}

// Delete soft-deletes the task if its version is still expectedVersion
func (r *GormTaskRepository) Delete(id string, expectedVersion uint64) error {
	result := r.db.Where("id = ? AND version = ?", id, expectedVersion).
		Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleWrite
	}
	return nil
}
