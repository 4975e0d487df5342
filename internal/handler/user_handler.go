package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "surveydesk/internal/errors"
	"surveydesk/internal/model"
	"surveydesk/internal/service"
)

// UserHandler exposes account management to administrators.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest is the payload for a new account.
type CreateUserRequest struct {
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Role     model.Role `json:"role" validate:"required,oneof=administrador gestor"`
}

// CreateUserResponse reports whether the account was written.
type CreateUserResponse struct {
	Created bool   `json:"created"`
	Message string `json:"message"`
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} CreateUserResponse
// @Success 200 {object} CreateUserResponse "username already exists"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.svc.Add(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		return fail(err)
	}
	if !created {
		return c.JSON(http.StatusOK, CreateUserResponse{Created: false, Message: "username already exists"})
	}
	return c.JSON(http.StatusCreated, CreateUserResponse{Created: true, Message: "user created"})
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Delete user
// @Description Administrators cannot delete their own account.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return fail(apperrors.ErrValidation)
	}
	claims, ok := CurrentClaims(c)
	if !ok {
		return unauthorized()
	}
	if claims.UserID == uint(id) {
		return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
			Error: "you cannot delete your own account",
			Code:  "FORBIDDEN",
		})
	}
	if err := h.svc.Remove(c.Request().Context(), uint(id)); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
