package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/pupskillswap/skillswap-api/internal/cache"
	"github.com/pupskillswap/skillswap-api/internal/constants"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/repository"
	"github.com/pupskillswap/skillswap-api/internal/utils"
	"gorm.io/gorm"
)

// RatingService records ratings between the two participants of a
// completed task. It reads tasks to validate eligibility but never
// writes them.
type RatingService struct {
	ratingRepo repository.RatingRepository
	taskRepo   repository.TaskRepository
	identity   *IdentityService
	stats      *cache.RatingStatsCache
}

// NewRatingService creates a new RatingService. statsCache may be nil
// when Redis is not configured.
func NewRatingService(ratingRepo repository.RatingRepository, taskRepo repository.TaskRepository, identity *IdentityService, statsCache *cache.RatingStatsCache) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		taskRepo:   taskRepo,
		identity:   identity,
		stats:      statsCache,
	}
}

// SubmitRatingInput represents input for creating a rating
type SubmitRatingInput struct {
	FromUserID string
	ToUserID   string
	TaskID     string
	Score      int
	Comment    *string
}

// Submit validates and persists a rating for a completed task
func (s *RatingService) Submit(ctx context.Context, input SubmitRatingInput) (*models.Rating, error) {
	if input.FromUserID == input.ToUserID {
		return nil, apperrors.InvalidInput("You cannot rate yourself. Please select a different user to rate.")
	}

	if input.Score < constants.MinScore || input.Score > constants.MaxScore {
		return nil, apperrors.InvalidInput("Rating must be an integer between %d and %d.", constants.MinScore, constants.MaxScore)
	}

	var comment *string
	if input.Comment != nil {
		trimmed := strings.TrimSpace(*input.Comment)
		if len(trimmed) > 0 {
			if len(trimmed) < constants.MinCommentLength {
				return nil, apperrors.InvalidInput("Comment must be at least %d characters long if provided.", constants.MinCommentLength)
			}
			if len(trimmed) > constants.MaxCommentLength {
				return nil, apperrors.InvalidInput("Comment is too long. Maximum %d characters allowed.", constants.MaxCommentLength)
			}
			comment = &trimmed
		}
	}

	if _, err := s.identity.EnsureActive(input.FromUserID, "create ratings"); err != nil {
		return nil, err
	}
	if _, err := s.identity.EnsureActive(input.ToUserID, "receive ratings"); err != nil {
		return nil, err
	}

	task, err := s.findTask(input.TaskID)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusCompleted {
		return nil, apperrors.InvalidState("You can only rate completed tasks. This task is currently '%s'.", task.Status)
	}

	if !isRatingRole(task, input.FromUserID) {
		return nil, apperrors.Forbidden("You can only rate users you have worked with on completed tasks.")
	}
	if !isRatingRole(task, input.ToUserID) {
		return nil, apperrors.InvalidInput("You can only rate users who were involved in this task.")
	}
	if sameRole(task, input.FromUserID, input.ToUserID) {
		return nil, apperrors.InvalidInput("Invalid rating: cannot rate someone with the same role in the task.")
	}

	if _, err := s.ratingRepo.FindByTriple(input.FromUserID, input.ToUserID, input.TaskID); err == nil {
		return nil, apperrors.Conflict("You have already rated this user for this task. Each user can only be rated once per completed task.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Unavailable(err, "failed to check existing rating")
	}

	rating := &models.Rating{
		FromUserID: input.FromUserID,
		ToUserID:   input.ToUserID,
		TaskID:     input.TaskID,
		Score:      input.Score,
		Comment:    comment,
		TaskTitle:  task.Title,
	}

	if err := s.ratingRepo.Create(rating); err != nil {
		// The unique index backstops the pre-write check above: a
		// concurrent duplicate surfaces here as a conflict, not a 500.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("You have already rated this user for this task. Each user can only be rated once per completed task.")
		}
		return nil, apperrors.Unavailable(err, "failed to create rating")
	}

	s.invalidateStats(ctx, input.ToUserID)
	return rating, nil
}

// Flag marks a rating as inappropriate. One-way: a flagged rating
// stays flagged.
func (s *RatingService) Flag(ctx context.Context, ratingID, flaggedBy, reason string) error {
	trimmed := strings.TrimSpace(reason)
	if len(trimmed) < constants.MinFlagReasonLength {
		return apperrors.InvalidInput("Flag reason must be at least %d characters long and explain why you're flagging this rating.", constants.MinFlagReasonLength)
	}
	if len(trimmed) > constants.MaxFlagReasonLength {
		return apperrors.InvalidInput("Flag reason is too long. Maximum %d characters allowed.", constants.MaxFlagReasonLength)
	}

	if _, err := s.identity.EnsureActive(flaggedBy, "flag ratings"); err != nil {
		return err
	}

	rating, err := s.ratingRepo.FindByID(ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Rating with ID '%s' does not exist.", ratingID)
		}
		return apperrors.Unavailable(err, "failed to find rating %s", ratingID)
	}

	if rating.IsFlagged {
		return apperrors.Conflict("This rating has already been flagged and is under review.")
	}
	if rating.FromUserID == flaggedBy {
		return apperrors.Forbidden("You cannot flag your own ratings.")
	}

	now := time.Now().UTC()
	rating.IsFlagged = true
	rating.FlagReason = &trimmed
	rating.FlaggedBy = &flaggedBy
	rating.FlaggedAt = &now
	readVersion := rating.Version
	rating.Version = readVersion + 1

	if err := s.ratingRepo.Flag(rating, readVersion); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			return apperrors.Conflict("This rating has already been flagged and is under review.")
		}
		return apperrors.Unavailable(err, "failed to flag rating %s", ratingID)
	}

	s.invalidateStats(ctx, rating.ToUserID)
	return nil
}

// ListForUser returns the ratings received by a user together with
// aggregate statistics. Flagged ratings are hidden unless
// includeFlagged is set.
func (s *RatingService) ListForUser(ctx context.Context, userID, requesterID string, includeFlagged bool, pageToken string, limit int) ([]models.Rating, *models.RatingStats, *string, error) {
	if _, err := s.identity.EnsureActive(requesterID, "view ratings"); err != nil {
		return nil, nil, nil, err
	}
	if _, err := s.identity.EnsureActive(userID, "have ratings"); err != nil {
		return nil, nil, nil, err
	}

	filter := repository.RatingFilter{
		ToUserID:       &userID,
		IncludeFlagged: includeFlagged,
		Limit:          limit,
	}
	ratings, nextToken, err := s.listPage(filter, pageToken)
	if err != nil {
		return nil, nil, nil, err
	}

	stats, err := s.statsForUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	return ratings, stats, nextToken, nil
}

// ListGivenBy returns the ratings a user has submitted
func (s *RatingService) ListGivenBy(userID, pageToken string, limit int) ([]models.Rating, *string, error) {
	if _, err := s.identity.EnsureActive(userID, "view your given ratings"); err != nil {
		return nil, nil, err
	}

	filter := repository.RatingFilter{
		FromUserID:     &userID,
		IncludeFlagged: true,
		Limit:          limit,
	}
	return s.listPage(filter, pageToken)
}

// ListForTask returns the ratings attached to a task. Only the task's
// participants may look.
func (s *RatingService) ListForTask(taskID, requesterID, pageToken string, limit int) ([]models.Rating, *models.Task, *string, error) {
	if _, err := s.identity.EnsureActive(requesterID, "view task ratings"); err != nil {
		return nil, nil, nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, nil, nil, err
	}

	if !task.IsParticipant(requesterID) {
		return nil, nil, nil, apperrors.Forbidden("You can only view ratings for tasks you were involved in.")
	}

	filter := repository.RatingFilter{
		TaskID:         &taskID,
		IncludeFlagged: true,
		Limit:          limit,
	}
	ratings, nextToken, err := s.listPage(filter, pageToken)
	if err != nil {
		return nil, nil, nil, err
	}

	return ratings, task, nextToken, nil
}

func (s *RatingService) listPage(filter repository.RatingFilter, pageToken string) ([]models.Rating, *string, error) {
	if pageToken != "" {
		cursor, err := utils.DecodeCursor(pageToken)
		if err != nil {
			return nil, nil, err
		}
		filter.Cursor = cursor
	}

	ratings, err := s.ratingRepo.List(filter)
	if err != nil {
		return nil, nil, apperrors.Unavailable(err, "failed to list ratings")
	}

	if filter.Limit <= 0 || len(ratings) <= filter.Limit {
		return ratings, nil, nil
	}
	ratings = ratings[:filter.Limit]
	last := ratings[len(ratings)-1]
	token, err := utils.EncodeCursor(utils.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to encode page token")
	}
	return ratings, &token, nil
}

func (s *RatingService) statsForUser(ctx context.Context, userID string) (*models.RatingStats, error) {
	if cached, ok := s.stats.Get(ctx, userID); ok {
		return cached, nil
	}

	stats, err := s.ratingRepo.StatsForUser(userID)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to aggregate ratings for user %s", userID)
	}

	if err := s.stats.Set(ctx, userID, stats); err != nil {
		log.Printf("rating stats cache set failed for user %s: %v", userID, err)
	}
	return stats, nil
}

// invalidateStats drops the cached aggregate after a write. A cache
// failure only degrades freshness, so it is logged and swallowed.
func (s *RatingService) invalidateStats(ctx context.Context, userID string) {
	if err := s.stats.Invalidate(ctx, userID); err != nil {
		log.Printf("rating stats cache invalidation failed for user %s: %v", userID, err)
	}
}

func (s *RatingService) findTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task with ID '%s' does not exist.", taskID)
		}
		return nil, apperrors.Unavailable(err, "failed to find task %s", taskID)
	}
	return task, nil
}

// isRatingRole reports whether userID occupies one of the two rateable
// roles on a completed task: poster or completer.
func isRatingRole(task *models.Task, userID string) bool {
	if task.PostedBy == userID {
		return true
	}
	return task.CompletedBy != nil && *task.CompletedBy == userID
}

// sameRole reports whether both users occupy the same role on the
// task, which would make the rating a disguised self-rating.
func sameRole(task *models.Task, a, b string) bool {
	if task.PostedBy == a && task.PostedBy == b {
		return true
	}
	if task.CompletedBy != nil && *task.CompletedBy == a && *task.CompletedBy == b {
		return true
	}
	return false
}
