package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/pupskillswap/skillswap-api/internal/dto"
	"github.com/pupskillswap/skillswap-api/internal/middleware"
	"github.com/pupskillswap/skillswap-api/internal/services"
	"github.com/pupskillswap/skillswap-api/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates the caller's profile
func (h *UserHandler) Register(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	type RegisterRequest struct {
		FullName string  `json:"full_name" binding:"required"`
		Email    string  `json:"email" binding:"required"`
		Skill    string  `json:"skill" binding:"required"`
		Bio      *string `json:"bio"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidInput("Invalid request body."))
		return
	}

	user, err := h.userService.Register(services.RegisterInput{
		UserID:   userID,
		FullName: req.FullName,
		Email:    req.Email,
		Skill:    req.Skill,
		Bio:      req.Bio,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProfileDTO(*user))
}

// GetMe returns the caller's own profile
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	user, err := h.userService.Get(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
}

// GetUser returns a user's public profile
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateMe applies a partial update to the caller's profile
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	type UpdateRequest struct {
		FullName *string `json:"full_name"`
		Skill    *string `json:"skill"`
		Bio      *string `json:"bio"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidInput("Invalid request body."))
		return
	}

	user, err := h.userService.Update(userID, services.UpdateInput{
		FullName: req.FullName,
		Skill:    req.Skill,
		Bio:      req.Bio,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
}

// ListUsers returns active users, optionally filtered by skill
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPageParams(c)

	var skill *string
	if v := c.Query("skill"); v != "" {
		skill = &v
	}

	users, nextToken, err := h.userService.List(skill, params.PageToken, params.Limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, nextToken))
}

// SearchUsers returns active users matching a name/skill query
func (h *UserHandler) SearchUsers(c *gin.Context) {
	params := utils.GetPageParams(c)

	users, nextToken, err := h.userService.Search(c.Query("query"), params.PageToken, params.Limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, nextToken))
}

// DeactivateMe turns off the caller's account
func (h *UserHandler) DeactivateMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	if err := h.userService.Deactivate(userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}

// ReactivateUser restores a deactivated account
func (h *UserHandler) ReactivateUser(c *gin.Context) {
	if err := h.userService.Reactivate(c.Param("id")); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User reactivated successfully"})
}
