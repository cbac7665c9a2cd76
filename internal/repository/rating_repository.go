package repository

import (
	"math"

	"github.com/pupskillswap/skillswap-api/internal/constants"
	"github.com/pupskillswap/skillswap-api/internal/database"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"gorm.io/gorm"
)

// GormRatingRepository is a GORM implementation of RatingRepository
type GormRatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new RatingRepository
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &GormRatingRepository{db: db}
}

// Create persists a new rating
func (r *GormRatingRepository) Create(rating *models.Rating) error {
	return r.db.Create(rating).Error
}

// FindByID finds a rating by id
func (r *GormRatingRepository) FindByID(id string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.First(&rating, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// FindByTriple finds the rating for (from, to, task), if any
func (r *GormRatingRepository) FindByTriple(fromUserID, toUserID, taskID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.Where("from_user_id = ? AND to_user_id = ? AND task_id = ?",
		fromUserID, toUserID, taskID).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// List retrieves ratings matching the filter, newest first
func (r *GormRatingRepository) List(filter RatingFilter) ([]models.Rating, error) {
	query := r.db.Model(&models.Rating{})

	if filter.ToUserID != nil {
		query = query.Where("to_user_id = ?", *filter.ToUserID)
	}
	if filter.FromUserID != nil {
		query = query.Where("from_user_id = ?", *filter.FromUserID)
	}
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if !filter.IncludeFlagged {
		query = query.Where("is_flagged = ?", false)
	}

	query = query.Scopes(database.AfterCursor(filter.Cursor), database.NewestFirst)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit + 1)
	}

	var ratings []models.Rating
	if err := query.Find(&ratings).Error; err != nil {
		return nil, err
	}

	return ratings, nil
}

// StatsForUser aggregates the unflagged ratings received by a user
func (r *GormRatingRepository) StatsForUser(userID string) (*models.RatingStats, error) {
	type bucket struct {
		Score int
		Count int64
	}

	var buckets []bucket
	err := r.db.Model(&models.Rating{}).
		Select("score, COUNT(*) AS count").
		Where("to_user_id = ? AND is_flagged = ?", userID, false).
		Group("score").
		Find(&buckets).Error
	if err != nil {
		return nil, err
	}

	stats := &models.RatingStats{
		Histogram: make(map[int]int64, constants.MaxScore),
	}
	for score := constants.MinScore; score <= constants.MaxScore; score++ {
		stats.Histogram[score] = 0
	}

	var sum int64
	for _, b := range buckets {
		stats.Histogram[b.Score] = b.Count
		stats.Count += b.Count
		sum += int64(b.Score) * b.Count
	}
	if stats.Count > 0 {
		avg := float64(sum) / float64(stats.Count)
		stats.Average = math.Round(avg*100) / 100
	}

	return stats, nil
}

// Flag writes the rating's moderation fields guarded by the version
// read, refusing to re-flag a row another caller flagged first.
func (r *GormRatingRepository) Flag(rating *models.Rating, expectedVersion uint64) error {
	result := r.db.Model(&models.Rating{}).
		Where("id = ? AND version = ? AND is_flagged = ?", rating.ID, expectedVersion, false).
		Updates(map[string]interface{}{
			"is_flagged":  true,
			"flag_reason": rating.FlagReason,
			"flagged_by":  rating.FlaggedBy,
			"flagged_at":  rating.FlaggedAt,
			"version":     rating.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleWrite
	}
	return nil
}
