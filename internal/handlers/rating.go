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

type RatingHandler struct {
	ratingService *services.RatingService
}

func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// SubmitRating rates the other participant of a completed task
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	type SubmitRatingRequest struct {
		ToUserID string  `json:"to_user_id" binding:"required"`
		TaskID   string  `json:"task_id" binding:"required"`
		Score    int     `json:"score" binding:"required"`
		Comment  *string `json:"comment"`
	}

	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidInput("Invalid request body."))
		return
	}

	rating, err := h.ratingService.Submit(c.Request.Context(), services.SubmitRatingInput{
		FromUserID: userID,
		ToUserID:   req.ToUserID,
		TaskID:     req.TaskID,
		Score:      req.Score,
		Comment:    req.Comment,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRatingDTO(*rating))
}

// FlagRating marks a rating as inappropriate
func (h *RatingHandler) FlagRating(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	type FlagRatingRequest struct {
		Reason string `json:"reason" binding:"required"`
	}

	var req FlagRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidInput("Invalid request body."))
		return
	}

	if err := h.ratingService.Flag(c.Request.Context(), c.Param("id"), userID, req.Reason); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rating has been flagged and will be reviewed."})
}

// ListRatingsForUser returns ratings received by a user with stats
func (h *RatingHandler) ListRatingsForUser(c *gin.Context) {
	requesterID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	params := utils.GetPageParams(c)
	includeFlagged := c.Query("include_flagged") == "true"

	ratings, stats, nextToken, err := h.ratingService.ListForUser(
		c.Request.Context(), c.Param("id"), requesterID, includeFlagged, params.PageToken, params.Limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRatingListResponse(ratings, stats, nextToken))
}

// ListMyGivenRatings returns ratings the caller has submitted
func (h *RatingHandler) ListMyGivenRatings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	params := utils.GetPageParams(c)
	ratings, nextToken, err := h.ratingService.ListGivenBy(userID, params.PageToken, params.Limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRatingListResponse(ratings, nil, nextToken))
}

// ListMyReceivedRatings returns ratings the caller has received
func (h *RatingHandler) ListMyReceivedRatings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	params := utils.GetPageParams(c)
	ratings, stats, nextToken, err := h.ratingService.ListForUser(
		c.Request.Context(), userID, userID, false, params.PageToken, params.Limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRatingListResponse(ratings, stats, nextToken))
}

// ListRatingsForTask returns the ratings attached to a task
func (h *RatingHandler) ListRatingsForTask(c *gin.Context) {
	requesterID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	params := utils.GetPageParams(c)
	ratings, task, nextToken, err := h.ratingService.ListForTask(
		c.Param("id"), requesterID, params.PageToken, params.Limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	response := dto.ToRatingListResponse(ratings, nil, nextToken)
	c.JSON(http.StatusOK, gin.H{
		"ratings":    response.Ratings,
		"pagination": response.Pagination,
		"task_info": gin.H{
			"task_id":      task.ID,
			"title":        task.Title,
			"status":       task.Status,
			"posted_by":    task.PostedBy,
			"completed_by": task.CompletedBy,
		},
	})
}
