package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/pupskillswap/skillswap-api/internal/dto"
	"github.com/pupskillswap/skillswap-api/internal/middleware"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/services"
	"github.com/pupskillswap/skillswap-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask posts a new open task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	type CreateTaskRequest struct {
		Title         string   `json:"title" binding:"required"`
		Description   string   `json:"description" binding:"required"`
		Tags          []string `json:"tags" binding:"required"`
		Location      *string  `json:"location"`
		PreferredTime *string  `json:"preferred_time"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidInput("Invalid request body."))
		return
	}

	task, err := h.taskService.Create(services.CreateTaskInput{
		PostedBy:      userID,
		Title:         req.Title,
		Description:   req.Description,
		Tags:          req.Tags,
		Location:      req.Location,
		PreferredTime: req.PreferredTime,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task by id
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.Get(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListTasks returns tasks matching the query filters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	params := utils.GetPageParams(c)
	input := services.ListTasksInput{
		PageToken: params.PageToken,
		Limit:     params.Limit,
	}

	if status := c.Query("status"); status != "" {
		input.Status = &status
	}

	// mine=posted / mine=accepted are the "my tasks" views; browse=true
	// hides the caller's own postings from the marketplace feed.
	switch c.Query("mine") {
	case "posted":
		input.PostedBy = &userID
	case "accepted":
		input.AcceptedBy = &userID
	}
	if c.Query("browse") == "true" {
		input.ExcludePostedBy = &userID
	}

	tasks, nextToken, err := h.taskService.List(input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, nextToken))
}

// AcceptTask transitions an open task to accepted
func (h *TaskHandler) AcceptTask(c *gin.Context) {
	h.transition(c, h.taskService.Accept)
}

// CompleteTask transitions an accepted task to completed
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	h.transition(c, h.taskService.Complete)
}

// CancelTask transitions an open task to cancelled
func (h *TaskHandler) CancelTask(c *gin.Context) {
	h.transition(c, h.taskService.Cancel)
}

// DeleteTask soft-deletes an open or cancelled task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	if err := h.taskService.Delete(c.Param("id"), userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *TaskHandler) transition(c *gin.Context, op func(taskID, userID string) (*models.Task, error)) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	result, err := op(c.Param("id"), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*result))
}
