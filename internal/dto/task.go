package dto

import (
	"time"

	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	TaskID        string            `json:"task_id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Tags          []string          `json:"tags"`
	Location      *string           `json:"location,omitempty"`
	PreferredTime *time.Time        `json:"preferred_time,omitempty"`
	Status        models.TaskStatus `json:"status"`
	PostedBy      string            `json:"posted_by"`
	AcceptedBy    *string           `json:"accepted_by,omitempty"`
	AcceptedAt    *time.Time        `json:"accepted_at,omitempty"`
	CompletedBy   *string           `json:"completed_by,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	Version       uint64            `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	Poster        *UserDTO          `json:"poster,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO          `json:"tasks"`
	Pagination utils.PageResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		TaskID:        task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Tags:          task.Tags,
		Location:      task.Location,
		PreferredTime: task.PreferredTime,
		Status:        task.Status,
		PostedBy:      task.PostedBy,
		AcceptedBy:    task.AcceptedBy,
		AcceptedAt:    task.AcceptedAt,
		CompletedBy:   task.CompletedBy,
		CompletedAt:   task.CompletedAt,
		Version:       task.Version,
		CreatedAt:     task.CreatedAt,
	}

	// Include poster if preloaded
	if task.Poster != nil && task.Poster.ID != "" {
		poster := ToUserDTO(*task.Poster)
		dto.Poster = &poster
	}

	return dto
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, nextToken *string) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Pagination: utils.PageResponse{
			Count:         len(items),
			NextPageToken: nextToken,
			HasMore:       nextToken != nil,
		},
	}
}
