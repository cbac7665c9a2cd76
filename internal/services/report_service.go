package services

import (
	"errors"
	"strings"

	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/pupskillswap/skillswap-api/internal/constants"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/repository"
	"github.com/pupskillswap/skillswap-api/internal/utils"
	"gorm.io/gorm"
)

// ReportService records complaints between participants of a shared
// task. Unlike ratings, a report is valid in any non-deleted task
// status, and its author may withdraw it while it is still pending.
type ReportService struct {
	reportRepo repository.ReportRepository
	taskRepo   repository.TaskRepository
	identity   *IdentityService
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo repository.ReportRepository, taskRepo repository.TaskRepository, identity *IdentityService) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		taskRepo:   taskRepo,
		identity:   identity,
	}
}

// SubmitReportInput represents input for creating a report
type SubmitReportInput struct {
	FromUserID string
	ToUserID   string
	TaskID     string
	Reason     string
}

// Submit validates and persists a report
func (s *ReportService) Submit(input SubmitReportInput) (*models.Report, error) {
	reason := strings.TrimSpace(input.Reason)
	if len(reason) < constants.MinReportReasonLength {
		return nil, apperrors.InvalidInput("Report reason must be at least %d characters long.", constants.MinReportReasonLength)
	}
	if len(reason) > constants.MaxReportReasonLength {
		return nil, apperrors.InvalidInput("Report reason is too long. Maximum %d characters allowed.", constants.MaxReportReasonLength)
	}

	if input.FromUserID == input.ToUserID {
		return nil, apperrors.InvalidInput("You cannot report yourself.")
	}

	if _, err := s.identity.EnsureActive(input.FromUserID, "submit reports"); err != nil {
		return nil, err
	}
	if _, err := s.identity.EnsureActive(input.ToUserID, "be reported"); err != nil {
		return nil, err
	}

	task, err := s.findTask(input.TaskID)
	if err != nil {
		return nil, err
	}

	if !task.IsParticipant(input.FromUserID) {
		return nil, apperrors.Forbidden("You can only report users from tasks you were involved in.")
	}
	if !task.IsParticipant(input.ToUserID) {
		return nil, apperrors.InvalidInput("You can only report users who were involved in this task.")
	}

	if _, err := s.reportRepo.FindByTriple(input.FromUserID, input.ToUserID, input.TaskID); err == nil {
		return nil, apperrors.Conflict("You have already reported this user for this task.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Unavailable(err, "failed to check existing report")
	}

	report := &models.Report{
		FromUserID: input.FromUserID,
		ToUserID:   input.ToUserID,
		TaskID:     input.TaskID,
		Reason:     reason,
		Status:     models.ReportStatusPending,
	}

	if err := s.reportRepo.Create(report); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("You have already reported this user for this task.")
		}
		return nil, apperrors.Unavailable(err, "failed to create report")
	}

	return report, nil
}

// Withdraw moves a pending report to withdrawn. Author only.
func (s *ReportService) Withdraw(reportID, userID string) error {
	if _, err := s.identity.EnsureActive(userID, "withdraw reports"); err != nil {
		return err
	}

	report, err := s.findReport(reportID)
	if err != nil {
		return err
	}

	if report.FromUserID != userID {
		return apperrors.Forbidden("Only the author of a report can withdraw it.")
	}
	if report.Status != models.ReportStatusPending {
		return apperrors.Conflict("Report is '%s' and can no longer be withdrawn.", report.Status)
	}

	if err := s.reportRepo.Withdraw(reportID); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			return apperrors.Conflict("Report is no longer pending and cannot be withdrawn.")
		}
		return apperrors.Unavailable(err, "failed to withdraw report %s", reportID)
	}

	return nil
}

// Get returns a report to one of its two parties
func (s *ReportService) Get(reportID, requesterID string) (*models.Report, error) {
	if _, err := s.identity.EnsureActive(requesterID, "view reports"); err != nil {
		return nil, err
	}

	report, err := s.findReport(reportID)
	if err != nil {
		return nil, err
	}

	if report.FromUserID != requesterID && report.ToUserID != requesterID {
		return nil, apperrors.Forbidden("You can only view reports you are a party to.")
	}

	return report, nil
}

// ListSent returns the reports a user has filed
func (s *ReportService) ListSent(userID string, status *string, pageToken string, limit int) ([]models.Report, *string, error) {
	if _, err := s.identity.EnsureActive(userID, "view your reports"); err != nil {
		return nil, nil, err
	}

	filter := repository.ReportFilter{FromUserID: &userID, Limit: limit}
	if err := applyStatusFilter(&filter, status); err != nil {
		return nil, nil, err
	}
	return s.listPage(filter, pageToken)
}

// ListReceived returns the reports filed against a user
func (s *ReportService) ListReceived(userID string, status *string, pageToken string, limit int) ([]models.Report, *string, error) {
	if _, err := s.identity.EnsureActive(userID, "view reports against you"); err != nil {
		return nil, nil, err
	}

	filter := repository.ReportFilter{ToUserID: &userID, Limit: limit}
	if err := applyStatusFilter(&filter, status); err != nil {
		return nil, nil, err
	}
	return s.listPage(filter, pageToken)
}

// ListForTask returns the reports attached to a task. Only the task's
// participants may look.
func (s *ReportService) ListForTask(taskID, requesterID, pageToken string, limit int) ([]models.Report, *string, error) {
	if _, err := s.identity.EnsureActive(requesterID, "view task reports"); err != nil {
		return nil, nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, nil, err
	}

	if !task.IsParticipant(requesterID) {
		return nil, nil, apperrors.Forbidden("You can only view reports for tasks you were involved in.")
	}

	filter := repository.ReportFilter{TaskID: &taskID, Limit: limit}
	return s.listPage(filter, pageToken)
}

func (s *ReportService) listPage(filter repository.ReportFilter, pageToken string) ([]models.Report, *string, error) {
	if pageToken != "" {
		cursor, err := utils.DecodeCursor(pageToken)
		if err != nil {
			return nil, nil, err
		}
		filter.Cursor = cursor
	}

	reports, err := s.reportRepo.List(filter)
	if err != nil {
		return nil, nil, apperrors.Unavailable(err, "failed to list reports")
	}

	if filter.Limit <= 0 || len(reports) <= filter.Limit {
		return reports, nil, nil
	}
	reports = reports[:filter.Limit]
	last := reports[len(reports)-1]
	token, err := utils.EncodeCursor(utils.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to encode page token")
	}
	return reports, &token, nil
}

func applyStatusFilter(filter *repository.ReportFilter, status *string) error {
	if status == nil {
		return nil
	}
	parsed := models.ReportStatus(*status)
	switch parsed {
	case models.ReportStatusPending, models.ReportStatusReviewed, models.ReportStatusResolved,
		models.ReportStatusDismissed, models.ReportStatusWithdrawn:
		filter.Status = &parsed
		return nil
	default:
		return apperrors.InvalidInput("Unknown report status '%s'.", *status)
	}
}

func (s *ReportService) findReport(reportID string) (*models.Report, error) {
	report, err := s.reportRepo.FindByID(reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Report with ID '%s' does not exist.", reportID)
		}
		return nil, apperrors.Unavailable(err, "failed to find report %s", reportID)
	}
	return report, nil
}

func (s *ReportService) findTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task with ID '%s' does not exist.", taskID)
		}
		return nil, apperrors.Unavailable(err, "failed to find task %s", taskID)
	}
	return task, nil
}
