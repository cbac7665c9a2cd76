package dto

import (
	"time"

	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/utils"
)

// ReportDTO represents a report in API responses
type ReportDTO struct {
	ReportID   string              `json:"report_id"`
	FromUserID string              `json:"from_user_id"`
	ToUserID   string              `json:"to_user_id"`
	TaskID     string              `json:"task_id"`
	Reason     string              `json:"reason"`
	Status     models.ReportStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ReportListResponse represents a paginated list of reports
type ReportListResponse struct {
	Reports    []ReportDTO        `json:"reports"`
	Pagination utils.PageResponse `json:"pagination"`
}

// ToReportDTO converts a Report model to ReportDTO
func ToReportDTO(report models.Report) ReportDTO {
	return ReportDTO{
		ReportID:   report.ID,
		FromUserID: report.FromUserID,
		ToUserID:   report.ToUserID,
		TaskID:     report.TaskID,
		Reason:     report.Reason,
		Status:     report.Status,
		CreatedAt:  report.CreatedAt,
	}
}

// ToReportListResponse converts a page of reports to ReportListResponse
func ToReportListResponse(reports []models.Report, nextToken *string) ReportListResponse {
	items := make([]ReportDTO, len(reports))
	for i, report := range reports {
		items[i] = ToReportDTO(report)
	}

	return ReportListResponse{
		Reports: items,
		Pagination: utils.PageResponse{
			Count:         len(items),
			NextPageToken: nextToken,
			HasMore:       nextToken != nil,
		},
	}
}
