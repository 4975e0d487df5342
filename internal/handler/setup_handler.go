package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "surveydesk/internal/errors"
)

// SetupResponse tells an operator what configuration is missing.
type SetupResponse struct {
	apperrors.ErrorResponse
	Reason       string `json:"reason"`
	Instructions string `json:"instructions"`
}

// SetupHandler answers every request while the server has no usable database.
type SetupHandler struct {
	reason       string
	instructions string
}

// NewSetupHandler creates a handler reporting why setup is required and how to fix it.
func NewSetupHandler(reason error, instructions string) *SetupHandler {
	msg := ""
	if reason != nil {
		msg = reason.Error()
	}
	return &SetupHandler{reason: msg, instructions: instructions}
}

// Instructions godoc
// @Summary Setup instructions
// @Description Returned for every route while the database is not configured.
// @Tags setup
// @Produce json
// @Failure 503 {object} SetupResponse
// @Router /setup [get]
func (h *SetupHandler) Instructions(c echo.Context) error {
	httpErr := apperrors.MapErrorToHTTP(apperrors.ErrSetupRequired)
	return c.JSON(http.StatusServiceUnavailable, SetupResponse{
		ErrorResponse: httpErr.ToErrorResponse(),
		Reason:        h.reason,
		Instructions:  h.instructions,
	})
}
