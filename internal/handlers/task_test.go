package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pupskillswap/skillswap-api/internal/constants"
	"github.com/pupskillswap/skillswap-api/internal/database"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/repository"
	"github.com/pupskillswap/skillswap-api/internal/services"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *services.TaskService
	handler *TaskHandler
}

func (suite *TaskHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(db))
	suite.db = db

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	identity := services.NewIdentityService(userRepo)
	suite.service = services.NewTaskService(taskRepo, identity)
	suite.handler = NewTaskHandler(suite.service)

	for _, id := range []string{"alice", "bob"} {
		suite.Require().NoError(db.Create(&models.User{
			ID:       id,
			FullName: "User " + id,
			Email:    id + "@example.com",
			Skill:    "plumbing",
			IsActive: true,
		}).Error)
	}
}

// authedContext builds a test context carrying an authenticated user id
func (suite *TaskHandlerTestSuite) authedContext(userID string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/", &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.Set(constants.ContextKeyUserID, userID)
	}
	return c, recorder
}

func (suite *TaskHandlerTestSuite) createTask(postedBy string) *models.Task {
	task, err := suite.service.Create(services.CreateTaskInput{
		PostedBy:    postedBy,
		Title:       "Fix my sink",
		Description: "Help me fix my leaking kitchen sink",
		Tags:        []string{"plumbing"},
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	c, recorder := suite.authedContext("alice", gin.H{
		"title":       "Fix my sink",
		"description": "Help me fix my leaking kitchen sink",
		"tags":        []string{"plumbing"},
	})

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusCreated, recorder.Code)

	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	suite.Equal("open", body["status"])
	suite.Equal("alice", body["posted_by"])
	suite.NotEmpty(body["task_id"])
}

func (suite *TaskHandlerTestSuite) TestCreateTaskMissingFields() {
	c, recorder := suite.authedContext("alice", gin.H{"title": "Fix my sink"})

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskUnauthenticated() {
	c, recorder := suite.authedContext("", gin.H{
		"title":       "Fix my sink",
		"description": "Help me fix my leaking kitchen sink",
		"tags":        []string{"plumbing"},
	})

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusUnauthorized, recorder.Code)
}

func (suite *TaskHandlerTestSuite) TestAcceptTask() {
	task := suite.createTask("alice")

	c, recorder := suite.authedContext("bob", nil)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.AcceptTask(c)

	suite.Equal(http.StatusOK, recorder.Code)

	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	suite.Equal("accepted", body["status"])
	suite.Equal("bob", body["accepted_by"])
}

func (suite *TaskHandlerTestSuite) TestAcceptOwnTask() {
	task := suite.createTask("alice")

	c, recorder := suite.authedContext("alice", nil)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.AcceptTask(c)

	suite.Equal(http.StatusForbidden, recorder.Code)
}

func (suite *TaskHandlerTestSuite) TestAcceptTakenTaskConflict() {
	task := suite.createTask("alice")
	_, err := suite.service.Accept(task.ID, "bob")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.Create(&models.User{
		ID: "carol", FullName: "Carol", Email: "carol@example.com", Skill: "painting", IsActive: true,
	}).Error)

	c, recorder := suite.authedContext("carol", nil)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.AcceptTask(c)

	suite.Equal(http.StatusConflict, recorder.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTaskByNonPoster() {
	task := suite.createTask("alice")

	c, recorder := suite.authedContext("bob", nil)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.DeleteTask(c)

	suite.Equal(http.StatusForbidden, recorder.Code)
}

func (suite *TaskHandlerTestSuite) TestGetMissingTask() {
	c, recorder := suite.authedContext("alice", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	suite.handler.GetTask(c)

	suite.Equal(http.StatusNotFound, recorder.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
