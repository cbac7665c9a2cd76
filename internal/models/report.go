package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
	ReportStatusWithdrawn ReportStatus = "withdrawn"
)

// Report is a complaint by one participant of a task against another.
// Reports are never hard-deleted; the author may withdraw one while it
// is still pending.
type Report struct {
	ID         string       `gorm:"type:varchar(36);primarykey" json:"report_id"`
	FromUserID string       `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_reports_from_to_task" json:"from_user_id"`
	ToUserID   string       `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_reports_from_to_task" json:"to_user_id"`
	TaskID     string       `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_reports_from_to_task" json:"task_id"`
	Reason     string       `gorm:"type:varchar(1000);not null" json:"reason"`
	Status     ReportStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"-"`
}

// BeforeCreate assigns the report id
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
