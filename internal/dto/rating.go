package dto

import (
	"time"

	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/utils"
)

// RatingDTO represents a rating in API responses
type RatingDTO struct {
	RatingID   string     `json:"rating_id"`
	FromUserID string     `json:"from_user_id"`
	ToUserID   string     `json:"to_user_id"`
	TaskID     string     `json:"task_id"`
	TaskTitle  string     `json:"task_title"`
	Score      int        `json:"score"`
	Comment    *string    `json:"comment,omitempty"`
	IsFlagged  bool       `json:"is_flagged"`
	FlagReason *string    `json:"flag_reason,omitempty"`
	FlaggedBy  *string    `json:"flagged_by,omitempty"`
	FlaggedAt  *time.Time `json:"flagged_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RatingListResponse represents a paginated list of ratings
type RatingListResponse struct {
	Ratings    []RatingDTO         `json:"ratings"`
	Statistics *models.RatingStats `json:"statistics,omitempty"`
	Pagination utils.PageResponse  `json:"pagination"`
}

// ToRatingDTO converts a Rating model to RatingDTO
func ToRatingDTO(rating models.Rating) RatingDTO {
	return RatingDTO{
		RatingID:   rating.ID,
		FromUserID: rating.FromUserID,
		ToUserID:   rating.ToUserID,
		TaskID:     rating.TaskID,
		TaskTitle:  rating.TaskTitle,
		Score:      rating.Score,
		Comment:    rating.Comment,
		IsFlagged:  rating.IsFlagged,
		FlagReason: rating.FlagReason,
		FlaggedBy:  rating.FlaggedBy,
		FlaggedAt:  rating.FlaggedAt,
		CreatedAt:  rating.CreatedAt,
	}
}

// ToRatingListResponse converts a page of ratings to RatingListResponse
func ToRatingListResponse(ratings []models.Rating, stats *models.RatingStats, nextToken *string) RatingListResponse {
	items := make([]RatingDTO, len(ratings))
	for i, rating := range ratings {
		items[i] = ToRatingDTO(rating)
	}

	return RatingListResponse{
		Ratings:    items,
		Statistics: stats,
		Pagination: utils.PageResponse{
			Count:         len(items),
			NextPageToken: nextToken,
			HasMore:       nextToken != nil,
		},
	}
}
