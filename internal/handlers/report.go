package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/pupskillswap/skillswap-api/internal/dto"
	"github.com/pupskillswap/skillswap-api/internal/middleware"
	"github.com/pupskillswap/skillswap-api/internal/models"
	"github.com/pupskillswap/skillswap-api/internal/services"
	"github.com/pupskillswap/skillswap-api/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SubmitReport files a complaint against another task participant
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	type SubmitReportRequest struct {
		ToUserID string `json:"to_user_id" binding:"required"`
		TaskID   string `json:"task_id" binding:"required"`
		Reason   string `json:"reason" binding:"required"`
	}

	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidInput("Invalid request body."))
		return
	}

	report, err := h.reportService.Submit(services.SubmitReportInput{
		FromUserID: userID,
		ToUserID:   req.ToUserID,
		TaskID:     req.TaskID,
		Reason:     req.Reason,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReportDTO(*report))
}

// WithdrawReport withdraws a pending report filed by the caller
func (h *ReportHandler) WithdrawReport(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	if err := h.reportService.Withdraw(c.Param("id"), userID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report withdrawn successfully"})
}

// GetReport returns a report to one of its parties
func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	report, err := h.reportService.Get(c.Param("id"), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReportDTO(*report))
}

// ListMySentReports returns reports the caller has filed
func (h *ReportHandler) ListMySentReports(c *gin.Context) {
	h.listMine(c, h.reportService.ListSent)
}

// ListMyReceivedReports returns reports filed against the caller
func (h *ReportHandler) ListMyReceivedReports(c *gin.Context) {
	h.listMine(c, h.reportService.ListReceived)
}

// ListReportsForTask returns the reports attached to a task
func (h *ReportHandler) ListReportsForTask(c *gin.Context) {
	requesterID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	params := utils.GetPageParams(c)
	reports, nextToken, err := h.reportService.ListForTask(
		c.Param("id"), requesterID, params.PageToken, params.Limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReportListResponse(reports, nextToken))
}

func (h *ReportHandler) listMine(c *gin.Context, op func(userID string, status *string, pageToken string, limit int) ([]models.Report, *string, error)) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
		return
	}

	params := utils.GetPageParams(c)
	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}

	reports, nextToken, err := op(userID, status, params.PageToken, params.Limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReportListResponse(reports, nextToken))
}
