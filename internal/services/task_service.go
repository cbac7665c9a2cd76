package services

import (
	"errors"
	"strings"
	"time"

	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/repository"
	"github.com/pupskillswap/skillswap-api/internal/utils"
	"gorm.io/gorm"
)

// TaskService owns the task lifecycle state machine:
//
//	open -> accepted -> completed
//	open -> cancelled
//	open -> deleted (soft)
//
// completed, cancelled and deleted are terminal. Transitions write a
// full snapshot guarded by the version read, so of two racing writers
// exactly one succeeds and the other observes a conflict.
type TaskService struct {
	taskRepo repository.TaskRepository
	identity *IdentityService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, identity *IdentityService) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		identity: identity,
	}
}

// CreateTaskInput represents input for posting a task
type CreateTaskInput struct {
	PostedBy      string
	Title         string
	Description   string
	Tags          []string
	Location      *string
	PreferredTime *string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status          *string
	PostedBy        *string
	AcceptedBy      *string
	ExcludePostedBy *string
	PageToken       string
	Limit           int
}

// Create validates and persists a new open task
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, error) {
	if _, err := s.identity.EnsureActive(input.PostedBy, "post tasks"); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.InvalidInput("Title cannot be empty.")
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.InvalidInput("Description cannot be empty.")
	}
	if len(strings.Fields(description)) < 5 {
		return nil, apperrors.InvalidInput("Description must contain at least 5 words.")
	}

	if len(input.Tags) == 0 {
		return nil, apperrors.InvalidInput("At least one tag is required.")
	}
	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		trimmed := strings.TrimSpace(tag)
		if len(trimmed) < 2 {
			return nil, apperrors.InvalidInput("Each tag must be at least 2 characters long.")
		}
		tags = append(tags, trimmed)
	}

	var location *string
	if input.Location != nil {
		trimmed := strings.TrimSpace(*input.Location)
		if len(trimmed) < 2 {
			return nil, apperrors.InvalidInput("Location must be at least 2 characters long.")
		}
		location = &trimmed
	}

	var preferredTime *time.Time
	if input.PreferredTime != nil && *input.PreferredTime != "" {
		parsed, err := time.Parse(time.RFC3339, *input.PreferredTime)
		if err != nil {
			return nil, apperrors.InvalidInput("Preferred time must be a valid RFC3339 timestamp.")
		}
		preferredTime = &parsed
	}

	count, err := s.taskRepo.CountOpenByTitle(title)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to check title uniqueness")
	}
	if count > 0 {
		return nil, apperrors.Conflict("An open task titled '%s' already exists.", title)
	}

	task := &models.Task{
		Title:         title,
		Description:   description,
		Tags:          tags,
		Location:      location,
		PreferredTime: preferredTime,
		Status:        models.TaskStatusOpen,
		PostedBy:      input.PostedBy,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, apperrors.Unavailable(err, "failed to create task")
	}

	return task, nil
}

// Accept transitions an open task to accepted on behalf of userID
func (s *TaskService) Accept(taskID, userID string) (*models.Task, error) {
	if _, err := s.identity.EnsureActive(userID, "accept tasks"); err != nil {
		return nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusOpen {
		return nil, s.notOpenError(task, "accepted")
	}
	if task.PostedBy == userID {
		return nil, apperrors.Forbidden("You cannot accept your own task.")
	}

	// Re-read the accepted slot immediately before writing. Two callers
	// can both pass the open check above; the second read plus the
	// version guard below turns the loser into a conflict.
	current, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	if current.AcceptedBy != nil {
		return nil, apperrors.Conflict("Task is already accepted by %s.", *current.AcceptedBy)
	}

	now := time.Now().UTC()
	current.Status = models.TaskStatusAccepted
	current.AcceptedBy = &userID
	current.AcceptedAt = &now
	readVersion := current.Version
	current.Version = readVersion + 1

	if err := s.taskRepo.UpdateTransition(current, readVersion); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			return nil, s.lostRaceError(taskID, "accept")
		}
		return nil, apperrors.Unavailable(err, "failed to accept task %s", taskID)
	}

	return current, nil
}

// Complete transitions an accepted task to completed. Only the user
// recorded in accepted_by may complete.
func (s *TaskService) Complete(taskID, userID string) (*models.Task, error) {
	if _, err := s.identity.EnsureActive(userID, "complete tasks"); err != nil {
		return nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	switch task.Status {
	case models.TaskStatusAccepted:
	case models.TaskStatusOpen:
		return nil, apperrors.InvalidState("Task must be accepted before it can be completed.")
	case models.TaskStatusCompleted:
		return nil, apperrors.InvalidState("Task is already completed.")
	default:
		return nil, apperrors.InvalidState("Task is currently '%s' and cannot be completed.", task.Status)
	}

	if task.AcceptedBy == nil || *task.AcceptedBy != userID {
		return nil, apperrors.Forbidden("Only the user who accepted this task can complete it.")
	}

	current, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	if current.CompletedBy != nil {
		return nil, apperrors.Conflict("Task has already been completed by %s.", *current.CompletedBy)
	}

	now := time.Now().UTC()
	current.Status = models.TaskStatusCompleted
	current.CompletedBy = &userID
	current.CompletedAt = &now
	readVersion := current.Version
	current.Version = readVersion + 1

	if err := s.taskRepo.UpdateTransition(current, readVersion); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			return nil, s.lostRaceError(taskID, "complete")
		}
		return nil, apperrors.Unavailable(err, "failed to complete task %s", taskID)
	}

	return current, nil
}

// Cancel transitions an open task to cancelled. Poster only.
func (s *TaskService) Cancel(taskID, userID string) (*models.Task, error) {
	if _, err := s.identity.EnsureActive(userID, "cancel tasks"); err != nil {
		return nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if task.PostedBy != userID {
		return nil, apperrors.Forbidden("Only the poster can cancel this task.")
	}
	if task.Status != models.TaskStatusOpen {
		return nil, s.notOpenError(task, "cancelled")
	}

	task.Status = models.TaskStatusCancelled
	readVersion := task.Version
	task.Version = readVersion + 1

	if err := s.taskRepo.UpdateTransition(task, readVersion); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			return nil, s.lostRaceError(taskID, "cancel")
		}
		return nil, apperrors.Unavailable(err, "failed to cancel task %s", taskID)
	}

	return task, nil
}

// Delete soft-deletes a task. Poster only, and only while no other
// participant holds the task: open and cancelled tasks may go,
// accepted and completed tasks may not.
func (s *TaskService) Delete(taskID, userID string) error {
	if _, err := s.identity.EnsureActive(userID, "delete tasks"); err != nil {
		return err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if task.PostedBy != userID {
		return apperrors.Forbidden("You can only delete your own tasks.")
	}
	switch task.Status {
	case models.TaskStatusAccepted:
		return apperrors.Conflict("Task is currently held by %s and cannot be deleted.", *task.AcceptedBy)
	case models.TaskStatusCompleted:
		return apperrors.Conflict("Task was completed by %s and cannot be deleted.", *task.CompletedBy)
	}

	if err := s.taskRepo.Delete(taskID, task.Version); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			return s.lostRaceError(taskID, "delete")
		}
		return apperrors.Unavailable(err, "failed to delete task %s", taskID)
	}

	return nil
}

// Get returns a non-deleted task with its poster loaded
func (s *TaskService) Get(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Poster")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task with ID '%s' does not exist.", taskID)
		}
		return nil, apperrors.Unavailable(err, "failed to find task %s", taskID)
	}
	return task, nil
}

// List returns non-deleted tasks matching the filters, newest first,
// with an opaque token for the next page.
func (s *TaskService) List(input ListTasksInput) ([]models.Task, *string, error) {
	filter := repository.TaskFilter{
		PostedBy:        input.PostedBy,
		AcceptedBy:      input.AcceptedBy,
		ExcludePostedBy: input.ExcludePostedBy,
		Limit:           input.Limit,
	}

	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		switch status {
		case models.TaskStatusOpen, models.TaskStatusAccepted, models.TaskStatusCompleted, models.TaskStatusCancelled:
			filter.Status = &status
		default:
			return nil, nil, apperrors.InvalidInput("Unknown task status '%s'.", *input.Status)
		}
	}

	if input.PageToken != "" {
		cursor, err := utils.DecodeCursor(input.PageToken)
		if err != nil {
			return nil, nil, err
		}
		filter.Cursor = cursor
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, nil, apperrors.Unavailable(err, "failed to list tasks")
	}

	tasks, nextToken, err := trimTaskPage(tasks, input.Limit)
	if err != nil {
		return nil, nil, err
	}
	return tasks, nextToken, nil
}

// findTask loads a task, mapping a missing row to NotFound
func (s *TaskService) findTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task with ID '%s' does not exist.", taskID)
		}
		return nil, apperrors.Unavailable(err, "failed to find task %s", taskID)
	}
	return task, nil
}

// notOpenError explains why a transition requiring an open task failed,
// naming the current holder when there is one.
func (s *TaskService) notOpenError(task *models.Task, action string) error {
	switch task.Status {
	case models.TaskStatusAccepted:
		return apperrors.Conflict("Task is already accepted by %s.", *task.AcceptedBy)
	case models.TaskStatusCompleted:
		return apperrors.InvalidState("Task is already completed and cannot be %s.", action)
	case models.TaskStatusCancelled:
		return apperrors.InvalidState("Task is cancelled and cannot be %s.", action)
	default:
		return apperrors.Conflict("Task is currently '%s' and cannot be %s.", task.Status, action)
	}
}

// lostRaceError re-reads after a stale write so the conflict names the
// user who won the race, when that is still observable.
func (s *TaskService) lostRaceError(taskID, action string) error {
	current, err := s.taskRepo.FindByID(taskID)
	if err == nil && current.AcceptedBy != nil {
		return apperrors.Conflict("Task is already accepted by %s.", *current.AcceptedBy)
	}
	return apperrors.Conflict("Task changed while trying to %s it. Please re-read and try again.", action)
}

func trimTaskPage(tasks []models.Task, limit int) ([]models.Task, *string, error) {
	if limit <= 0 || len(tasks) <= limit {
		return tasks, nil, nil
	}
	tasks = tasks[:limit]
	last := tasks[len(tasks)-1]
	token, err := utils.EncodeCursor(utils.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to encode page token")
	}
	return tasks, &token, nil
}
