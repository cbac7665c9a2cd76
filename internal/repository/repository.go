package repository

import (
	"errors"

	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/utils"
)

// ErrStaleWrite is returned by conditional writes when the row changed
// between the caller's read and its write. The caller lost the race and
// must re-read before deciding anything.
var ErrStaleWrite = errors.New("record changed since read")

// TaskFilter holds filtering options for listing tasks. All list
// queries page by cursor in (created_at, id) descending order.
type TaskFilter struct {
	Status          *models.TaskStatus
	PostedBy        *string
	AcceptedBy      *string
	ExcludePostedBy *string
	Cursor          *utils.Cursor
	Limit           int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a new task
	Create(task *models.Task) error

	// FindByID finds a non-deleted task by id with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// List retrieves non-deleted tasks matching the filter, newest
	// first. Returns up to Limit+1 rows so the caller can detect a
	// further page.
	List(filter TaskFilter) ([]models.Task, error)

	// CountOpenByTitle counts non-deleted open tasks with the title
	CountOpenByTitle(title string) (int64, error)

	// UpdateTransition writes the task's lifecycle snapshot, asserting
	// the version is still expectedVersion. Returns ErrStaleWrite when
	// another writer got there first.
	UpdateTransition(task *models.Task, expectedVersion uint64) error

	// Delete soft-deletes the task, asserting the version is still
	// expectedVersion. Returns ErrStaleWrite on a lost race.
	Delete(id string, expectedVersion uint64) error
}

// RatingFilter holds filtering options for listing ratings
type RatingFilter struct {
	ToUserID       *string
	FromUserID     *string
	TaskID         *string
	IncludeFlagged bool
	Cursor         *utils.Cursor
	Limit          int
}

// RatingRepository defines the interface for rating data access
type RatingRepository interface {
	// Create persists a new rating
	Create(rating *models.Rating) error

	// FindByID finds a rating by id
	FindByID(id string) (*models.Rating, error)

	// FindByTriple finds the rating for (from, to, task), if any
	FindByTriple(fromUserID, toUserID, taskID string) (*models.Rating, error)

	// List retrieves ratings matching the filter, newest first, up to
	// Limit+1 rows.
	List(filter RatingFilter) ([]models.Rating, error)

	// StatsForUser aggregates the unflagged ratings received by a user
	StatsForUser(userID string) (*models.RatingStats, error)

	// Flag writes the rating's moderation fields, asserting the version
	// is still expectedVersion. Returns ErrStaleWrite on a lost race.
	Flag(rating *models.Rating, expectedVersion uint64) error
}

// ReportFilter holds filtering options for listing reports
type ReportFilter struct {
	FromUserID *string
	ToUserID   *string
	TaskID     *string
	Status     *models.ReportStatus
	Cursor     *utils.Cursor
	Limit      int
}

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// Create persists a new report
	Create(report *models.Report) error

	// FindByID finds a report by id
	FindByID(id string) (*models.Report, error)

	// FindByTriple finds the report for (from, to, task), if any
	FindByTriple(fromUserID, toUserID, taskID string) (*models.Report, error)

	// List retrieves reports matching the filter, newest first, up to
	// Limit+1 rows.
	List(filter ReportFilter) ([]models.Report, error)

	// Withdraw moves a report from pending to withdrawn. Returns
	// ErrStaleWrite when the report is no longer pending.
	Withdraw(id string) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Skill  *string
	Query  *string
	Cursor *utils.Cursor
	Limit  int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create persists a new user profile
	Create(user *models.User) error

	// FindByID finds a user by id
	FindByID(id string) (*models.User, error)

	// Update saves changed profile fields
	Update(user *models.User) error

	// SetActive flips the active flag
	SetActive(id string, active bool) error

	// List retrieves active users matching the filter, newest first,
	// up to Limit+1 rows.
	List(filter UserFilter) ([]models.User, error)
}
