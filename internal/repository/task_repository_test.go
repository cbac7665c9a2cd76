package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (TaskRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewTaskRepository(db), mock
}

func guardedTask(version uint64) *models.Task {
	now := time.Now().UTC()
	acceptedBy := "bob"
	return &models.Task{
		ID:         "task-1",
		Status:     models.TaskStatusAccepted,
		AcceptedBy: &acceptedBy,
		AcceptedAt: &now,
		Version:    version + 1,
	}
}

func TestUpdateTransitionGuardsOnVersion(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("UPDATE `tasks` SET .* WHERE \\(id = \\? AND version = \\?\\)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateTransition(guardedTask(3), 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTransitionStaleVersion(t *testing.T) {
	repo, mock := newMockRepository(t)

	// Zero rows matched means another writer bumped the version first.
	mock.ExpectExec("UPDATE `tasks` SET .* WHERE \\(id = \\? AND version = \\?\\)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateTransition(guardedTask(3), 3)
	assert.ErrorIs(t, err, ErrStaleWrite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteIsSoftAndGuarded(t *testing.T) {
	repo, mock := newMockRepository(t)

	// Soft delete: an UPDATE setting deleted_at, never a DELETE.
	mock.ExpectExec("UPDATE `tasks` SET `deleted_at`=\\? WHERE \\(id = \\? AND version = \\?\\)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete("task-1", 2)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStaleVersion(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("UPDATE `tasks` SET `deleted_at`=\\? WHERE \\(id = \\? AND version = \\?\\)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete("task-1", 2)
	assert.ErrorIs(t, err, ErrStaleWrite)
	assert.NoError(t, mock.ExpectationsWereMet())
}
