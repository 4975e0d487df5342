package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "surveydesk/internal/errors"
	"surveydesk/internal/model"
	"surveydesk/internal/service"
)

// SurveyHandler accepts questionnaire submissions.
type SurveyHandler struct {
	surveys service.SurveyService
}

// NewSurveyHandler creates a new survey handler.
func NewSurveyHandler(surveys service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// HPORequest carries one score per item column (a1..g2).
type HPORequest struct {
	Scores  map[string]int `json:"scores" validate:"required"`
	Comment string         `json:"comentario"`
}

// LeadershipRequest carries every answer of one leadership session.
type LeadershipRequest struct {
	Answers []model.LeadershipAnswer `json:"answers" validate:"required,min=1,dive"`
}

// SubmissionResponse identifies a stored submission.
type SubmissionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// QuestionnairesResponse describes both questionnaires for rendering a form.
type QuestionnairesResponse struct {
	ScoreMin   int                        `json:"score_min"`
	ScoreMax   int                        `json:"score_max"`
	Domains    []model.Domain             `json:"domains"`
	Leadership []model.LeadershipQuestion `json:"lideranca"`
	Responses  []string                   `json:"lideranca_responses"`
}

// Questionnaires godoc
// @Summary Questionnaire definitions
// @Tags surveys
// @Produce json
// @Success 200 {object} QuestionnairesResponse
// @Router /questionnaires [get]
func (h *SurveyHandler) Questionnaires(c echo.Context) error {
	return c.JSON(http.StatusOK, QuestionnairesResponse{
		ScoreMin:   model.ScoreMin,
		ScoreMax:   model.ScoreMax,
		Domains:    model.Domains,
		Leadership: model.LeadershipQuestions,
		Responses:  []string{model.ResponseYes, model.ResponseNo},
	})
}

// SubmitHPO godoc
// @Summary Submit an HPO questionnaire
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body HPORequest true "Scores keyed by item column"
// @Success 201 {object} SubmissionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /surveys/hpo [post]
func (h *SurveyHandler) SubmitHPO(c echo.Context) error {
	var req HPORequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	scores, err := scoresFromColumns(req.Scores)
	if err != nil {
		return fail(err)
	}

	sessionID, err := h.surveys.SubmitScored(c.Request().Context(), scores, req.Comment)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, SubmissionResponse{
		SessionID: sessionID,
		Message:   "response saved",
	})
}

// SubmitLeadership godoc
// @Summary Submit a leadership questionnaire
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LeadershipRequest true "Answers"
// @Success 201 {object} SubmissionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /surveys/lideranca [post]
func (h *SurveyHandler) SubmitLeadership(c echo.Context) error {
	var req LeadershipRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sessionID, err := h.surveys.SubmitLeadership(c.Request().Context(), req.Answers)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, SubmissionResponse{
		SessionID: sessionID,
		Message:   "responses saved",
	})
}

// scoresFromColumns orders a column-keyed score map into item order.
func scoresFromColumns(byColumn map[string]int) ([model.ItemCount]int, error) {
	var scores [model.ItemCount]int
	columns := model.ScoreColumns()
	if len(byColumn) != len(columns) {
		return scores, fmt.Errorf("%w: expected %d scores, got %d", apperrors.ErrValidation, len(columns), len(byColumn))
	}
	for i, col := range columns {
		v, ok := byColumn[col]
		if !ok {
			return scores, fmt.Errorf("%w: missing score for %s", apperrors.ErrValidation, col)
		}
		scores[i] = v
	}
	return scores, nil
}
