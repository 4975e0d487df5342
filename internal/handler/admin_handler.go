package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"surveydesk/internal/service"
)

const csvContentType = "text/csv; charset=utf-8"

// AdminHandler serves raw exports and the destructive clear operation.
type AdminHandler struct {
	surveys service.SurveyService
	reports service.ReportService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(surveys service.SurveyService, reports service.ReportService) *AdminHandler {
	return &AdminHandler{surveys: surveys, reports: reports}
}

// ExportHPO godoc
// @Summary Export HPO responses as CSV
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "responses.csv"
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /export/hpo.csv [get]
func (h *AdminHandler) ExportHPO(c echo.Context) error {
	data, err := h.reports.ExportScoredCSV(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return attachment(c, "responses.csv", data)
}

// ExportLeadership godoc
// @Summary Export leadership responses as CSV
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "lideranca_responses.csv"
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /export/lideranca.csv [get]
func (h *AdminHandler) ExportLeadership(c echo.Context) error {
	data, err := h.reports.ExportLeadershipCSV(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return attachment(c, "lideranca_responses.csv", data)
}

// ClearResponses godoc
// @Summary Delete every response of both questionnaires
// @Description Irreversible.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /responses [delete]
func (h *AdminHandler) ClearResponses(c echo.Context) error {
	if err := h.surveys.ClearAll(c.Request().Context()); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "all responses deleted",
	})
}

func attachment(c echo.Context, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, csvContentType, data)
}
