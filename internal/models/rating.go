package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one participant's evaluation of the other for a completed
// task. The (from, to, task) triple is unique: each direction of a
// completed task can be rated exactly once.
type Rating struct {
	ID         string  `gorm:"type:varchar(36);primarykey" json:"rating_id"`
	FromUserID string  `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_ratings_from_to_task" json:"from_user_id"`
	ToUserID   string  `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_ratings_from_to_task" json:"to_user_id"`
	TaskID     string  `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_ratings_from_to_task" json:"task_id"`
	Score      int     `gorm:"not null" json:"score"`
	Comment    *string `gorm:"type:varchar(500)" json:"comment,omitempty"`

	// Denormalized for display in listings
	TaskTitle string `gorm:"type:varchar(255)" json:"task_title"`

	// Moderation sub-state, set at most once by Flag
	IsFlagged  bool       `gorm:"not null;default:false;index" json:"is_flagged"`
	FlagReason *string    `gorm:"type:varchar(500)" json:"flag_reason,omitempty"`
	FlaggedBy  *string    `gorm:"type:varchar(64)" json:"flagged_by,omitempty"`
	FlaggedAt  *time.Time `json:"flagged_at,omitempty"`

	Version   uint64    `gorm:"not null;default:1" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate assigns the rating id and initial version
func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Version == 0 {
		r.Version = 1
	}
	return nil
}

// RatingStats summarizes the visible ratings received by a user.
// Histogram always carries all five score buckets, zero-filled.
type RatingStats struct {
	Count     int64         `json:"total_ratings"`
	Average   float64       `json:"average_rating"`
	Histogram map[int]int64 `json:"rating_distribution"`
}
