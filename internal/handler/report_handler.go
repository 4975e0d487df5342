package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"surveydesk/internal/service"
)

// ReportHandler serves aggregated statistics to administrators and managers.
type ReportHandler struct {
	reports service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Overview godoc
// @Summary Response counts and latest submission
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Overview
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reports/overview [get]
func (h *ReportHandler) Overview(c echo.Context) error {
	overview, err := h.reports.Overview(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, overview)
}

// HPO godoc
// @Summary HPO statistics per domain and item
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ScoredReport
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reports/hpo [get]
func (h *ReportHandler) HPO(c echo.Context) error {
	report, err := h.reports.Scored(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Leadership godoc
// @Summary Leadership answer distribution per question
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.LeadershipReport
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reports/lideranca [get]
func (h *ReportHandler) Leadership(c echo.Context) error {
	report, err := h.reports.Leadership(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, report)
}
