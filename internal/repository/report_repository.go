package repository

import (
	"github.com/pupskillswap/skillswap-api/internal/database"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"gorm.io/gorm"
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// Create persists a new report
func (r *GormReportRepository) Create(report *models.Report) error {
	return r.db.Create(report).Error
}

// FindByID finds a report by id
func (r *GormReportRepository) FindByID(id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// FindByTriple finds the report for (from, to, task), if any
func (r *GormReportRepository) FindByTriple(fromUserID, toUserID, taskID string) (*models.Report, error) {
	var report models.Report
	err := r.db.Where("from_user_id = ? AND to_user_id = ? AND task_id = ?",
		fromUserID, toUserID, taskID).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// List retrieves reports matching the filter, newest first
func (r *GormReportRepository) List(filter ReportFilter) ([]models.Report, error) {
	query := r.db.Model(&models.Report{})

	if filter.FromUserID != nil {
		query = query.Where("from_user_id = ?", *filter.FromUserID)
	}
	if filter.ToUserID != nil {
		query = query.Where("to_user_id = ?", *filter.ToUserID)
	}
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	query = query.Scopes(database.AfterCursor(filter.Cursor), database.NewestFirst)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit + 1)
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}

	return reports, nil
}

// Withdraw moves a report from pending to withdrawn. The status guard
// in the WHERE clause makes the transition race-safe.
func (r *GormReportRepository) Withdraw(id string) error {
	result := r.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", id, models.ReportStatusPending).
		Update("status", models.ReportStatusWithdrawn)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleWrite
	}
	return nil
}
