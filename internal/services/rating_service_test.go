package services

import (
	"context"
	"strings"
	"testing"

	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/repository"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RatingServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	tasks   *TaskService
	service *RatingService
	ctx     context.Context
}

func (suite *RatingServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.ctx = context.Background()

	taskRepo := repository.NewTaskRepository(suite.db)
	ratingRepo := repository.NewRatingRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	identity := NewIdentityService(userRepo)
	suite.tasks = NewTaskService(taskRepo, identity)
	suite.service = NewRatingService(ratingRepo, taskRepo, identity, nil)

	seedUser(suite.T(), suite.db, "alice", true)
	seedUser(suite.T(), suite.db, "bob", true)
	seedUser(suite.T(), suite.db, "carol", true)
}

// completedTask runs a task through the full lifecycle: alice posts,
// bob accepts and completes.
func (suite *RatingServiceTestSuite) completedTask(title string) *models.Task {
	task, err := suite.tasks.Create(CreateTaskInput{
		PostedBy:    "alice",
		Title:       title,
		Description: "Help me fix my leaking kitchen sink",
		Tags:        []string{"plumbing"},
	})
	suite.Require().NoError(err)
	_, err = suite.tasks.Accept(task.ID, "bob")
	suite.Require().NoError(err)
	completed, err := suite.tasks.Complete(task.ID, "bob")
	suite.Require().NoError(err)
	return completed
}

func (suite *RatingServiceTestSuite) submit(from, to, taskID string, score int) (*models.Rating, error) {
	return suite.service.Submit(suite.ctx, SubmitRatingInput{
		FromUserID: from,
		ToUserID:   to,
		TaskID:     taskID,
		Score:      score,
	})
}

func (suite *RatingServiceTestSuite) TestSubmitRating() {
	task := suite.completedTask("Fix my sink")
	comment := "Quick and tidy work"

	rating, err := suite.service.Submit(suite.ctx, SubmitRatingInput{
		FromUserID: "alice",
		ToUserID:   "bob",
		TaskID:     task.ID,
		Score:      5,
		Comment:    &comment,
	})

	suite.NoError(err)
	suite.NotEmpty(rating.ID)
	suite.Equal(5, rating.Score)
	suite.Equal(task.Title, rating.TaskTitle)
	suite.False(rating.IsFlagged)
	suite.Require().NotNil(rating.Comment)
	suite.Equal(comment, *rating.Comment)
}

func (suite *RatingServiceTestSuite) TestBothDirections() {
	task := suite.completedTask("Fix my sink")

	_, err := suite.submit("alice", "bob", task.ID, 5)
	suite.NoError(err)
	_, err = suite.submit("bob", "alice", task.ID, 4)
	suite.NoError(err)
}

func (suite *RatingServiceTestSuite) TestDuplicateRating() {
	task := suite.completedTask("Fix my sink")
	_, err := suite.submit("alice", "bob", task.ID, 5)
	suite.Require().NoError(err)

	_, err = suite.submit("alice", "bob", task.ID, 3)
	suite.True(apperrors.IsKind(err, apperrors.KindConflict))
}

func (suite *RatingServiceTestSuite) TestSelfRating() {
	task := suite.completedTask("Fix my sink")

	_, err := suite.submit("alice", "alice", task.ID, 5)
	suite.True(apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func (suite *RatingServiceTestSuite) TestScoreOutOfRange() {
	task := suite.completedTask("Fix my sink")

	for _, score := range []int{0, 6, -1} {
		_, err := suite.submit("alice", "bob", task.ID, score)
		suite.True(apperrors.IsKind(err, apperrors.KindInvalidInput), "score %d", score)
	}
}

func (suite *RatingServiceTestSuite) TestCommentLength() {
	task := suite.completedTask("Fix my sink")

	short := "ok"
	_, err := suite.service.Submit(suite.ctx, SubmitRatingInput{
		FromUserID: "alice", ToUserID: "bob", TaskID: task.ID, Score: 5, Comment: &short,
	})
	suite.True(apperrors.IsKind(err, apperrors.KindInvalidInput))

	long := strings.Repeat("a", 501)
	_, err = suite.service.Submit(suite.ctx, SubmitRatingInput{
		FromUserID: "alice", ToUserID: "bob", TaskID: task.ID, Score: 5, Comment: &long,
	})
	suite.True(apperrors.IsKind(err, apperrors.KindInvalidInput))

	// Whitespace-only comments are treated as absent.
	blank := "   "
	rating, err := suite.service.Submit(suite.ctx, SubmitRatingInput{
		FromUserID: "alice", ToUserID: "bob", TaskID: task.ID, Score: 5, Comment: &blank,
	})
	suite.NoError(err)
	suite.Nil(rating.Comment)
}

func (suite *RatingServiceTestSuite) TestRatingNonCompletedTask() {
	task, err := suite.tasks.Create(CreateTaskInput{
		PostedBy:    "alice",
		Title:       "Fix my sink",
		Description: "Help me fix my leaking kitchen sink",
		Tags:        []string{"plumbing"},
	})
	suite.Require().NoError(err)

	_, err = suite.submit("alice", "bob", task.ID, 5)
	suite.True(apperrors.IsKind(err, apperrors.KindInvalidState))

	_, err = suite.tasks.Accept(task.ID, "bob")
	suite.Require().NoError(err)

	_, err = suite.submit("alice", "bob", task.ID, 5)
	suite.True(apperrors.IsKind(err, apperrors.KindInvalidState))
}

func (suite *RatingServiceTestSuite) TestRaterNotInvolved() {
	task := suite.completedTask("Fix my sink")

	_, err := suite.submit("carol", "bob", task.ID, 5)
	suite.True(apperrors.IsKind(err, apperrors.KindForbidden))
}

func (suite *RatingServiceTestSuite) TestTargetNotInvolved() {
	task := suite.completedTask("Fix my sink")

	_, err := suite.submit("alice", "carol", task.ID, 5)
	suite.True(apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func (suite *RatingServiceTestSuite) TestRatingMissingTask() {
	_, err := suite.submit("alice", "bob", "missing", 5)
	suite.True(apperrors.IsKind(err, apperrors.KindNotFound))
}

func (suite *RatingServiceTestSuite) TestFlagRating() {
	task := suite.completedTask("Fix my sink")
	rating, err := suite.submit("alice", "bob", task.ID, 1)
	suite.Require().NoError(err)

	err = suite.service.Flag(suite.ctx, rating.ID, "bob", "This rating is retaliatory and unfair")
	suite.NoError(err)

	flagged, err := repository.NewRatingRepository(suite.db).FindByID(rating.ID)
	suite.Require().NoError(err)
	suite.True(flagged.IsFlagged)
	suite.Require().NotNil(flagged.FlaggedBy)
	suite.Equal("bob", *flagged.FlaggedBy)
	suite.NotNil(flagged.FlaggedAt)
}

func (suite *RatingServiceTestSuite) TestFlagTwice() {
	task := suite.completedTask("Fix my sink")
	rating, err := suite.submit("alice", "bob", task.ID, 1)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Flag(suite.ctx, rating.ID, "bob", "This rating is retaliatory and unfair"))

	err = suite.service.Flag(suite.ctx, rating.ID, "carol", "Still looks inappropriate to me")
	suite.True(apperrors.IsKind(err, apperrors.KindConflict))
}

func (suite *RatingServiceTestSuite) TestFlagOwnRating() {
	task := suite.completedTask("Fix my sink")
	rating, err := suite.submit("alice", "bob", task.ID, 1)
	suite.Require().NoError(err)

	err = suite.service.Flag(suite.ctx, rating.ID, "alice", "I regret leaving this rating now")
	suite.True(apperrors.IsKind(err, apperrors.KindForbidden))
}

func (suite *RatingServiceTestSuite) TestFlagReasonTooShort() {
	task := suite.completedTask("Fix my sink")
	rating, err := suite.submit("alice", "bob", task.ID, 1)
	suite.Require().NoError(err)

	err = suite.service.Flag(suite.ctx, rating.ID, "bob", "unfair")
	suite.True(apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func (suite *RatingServiceTestSuite) TestFlagMissingRating() {
	err := suite.service.Flag(suite.ctx, "missing", "bob", "This rating does not even exist")
	suite.True(apperrors.IsKind(err, apperrors.KindNotFound))
}

func (suite *RatingServiceTestSuite) TestStats() {
	task1 := suite.completedTask("Fix my sink")
	task2 := suite.completedTask("Walk my dog")

	_, err := suite.submit("alice", "bob", task1.ID, 5)
	suite.Require().NoError(err)
	_, err = suite.submit("alice", "bob", task2.ID, 4)
	suite.Require().NoError(err)

	_, stats, _, err := suite.service.ListForUser(suite.ctx, "bob", "alice", false, "", 10)
	suite.Require().NoError(err)
	suite.Equal(int64(2), stats.Count)
	suite.Equal(4.5, stats.Average)
	suite.Equal(int64(1), stats.Histogram[5])
	suite.Equal(int64(1), stats.Histogram[4])
	suite.Equal(int64(0), stats.Histogram[1])
}

func (suite *RatingServiceTestSuite) TestStatsEmpty() {
	_, stats, _, err := suite.service.ListForUser(suite.ctx, "carol", "alice", false, "", 10)
	suite.Require().NoError(err)
	suite.Equal(int64(0), stats.Count)
	suite.Equal(0.0, stats.Average)
	suite.Len(stats.Histogram, 5)
}

func (suite *RatingServiceTestSuite) TestFlaggedHiddenFromReceivedList() {
	task := suite.completedTask("Fix my sink")
	rating, err := suite.submit("alice", "bob", task.ID, 1)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.service.Flag(suite.ctx, rating.ID, "bob", "This rating is retaliatory and unfair"))

	ratings, stats, _, err := suite.service.ListForUser(suite.ctx, "bob", "carol", false, "", 10)
	suite.Require().NoError(err)
	suite.Empty(ratings)
	suite.Equal(int64(0), stats.Count)

	ratings, _, _, err = suite.service.ListForUser(suite.ctx, "bob", "carol", true, "", 10)
	suite.Require().NoError(err)
	suite.Len(ratings, 1)
}

func (suite *RatingServiceTestSuite) TestListGivenBy() {
	task1 := suite.completedTask("Fix my sink")
	task2 := suite.completedTask("Walk my dog")
	_, err := suite.submit("alice", "bob", task1.ID, 5)
	suite.Require().NoError(err)
	_, err = suite.submit("alice", "bob", task2.ID, 4)
	suite.Require().NoError(err)
	_, err = suite.submit("bob", "alice", task1.ID, 3)
	suite.Require().NoError(err)

	ratings, _, err := suite.service.ListGivenBy("alice", "", 10)
	suite.Require().NoError(err)
	suite.Len(ratings, 2)
}

func (suite *RatingServiceTestSuite) TestListForTask() {
	task := suite.completedTask("Fix my sink")
	_, err := suite.submit("alice", "bob", task.ID, 5)
	suite.Require().NoError(err)

	ratings, got, _, err := suite.service.ListForTask(task.ID, "bob", "", 10)
	suite.Require().NoError(err)
	suite.Len(ratings, 1)
	suite.Equal(task.ID, got.ID)
}

func (suite *RatingServiceTestSuite) TestListForTaskByOutsider() {
	task := suite.completedTask("Fix my sink")

	_, _, _, err := suite.service.ListForTask(task.ID, "carol", "", 10)
	suite.True(apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestRatingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RatingServiceTestSuite))
}
