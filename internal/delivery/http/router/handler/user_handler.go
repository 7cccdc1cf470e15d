// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/delivery/http/response"
	"accounts/internal/errors"
	"accounts/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const msgInvalidBody = "Invalid request body"

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc usecase.AccountUsecase
}

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	Usecase usecase.AccountUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{uc: params.Usecase}
}

// Register handles POST /users/register.
func (h *UserHandler) Register(c echo.Context) error {
	input := new(usecase.RegisterInput)
	if err := c.Bind(input); err != nil {
		return response.BadRequest(c, msgInvalidBody)
	}

	if err := h.uc.Register(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, usecase.RegisteredMessage)
}

// Login handles POST /users/login.
func (h *UserHandler) Login(c echo.Context) error {
	input := new(usecase.LoginInput)
	if err := c.Bind(input); err != nil {
		return response.BadRequest(c, msgInvalidBody)
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, output)
}

// GetProfile handles GET /users for the authenticated caller.
func (h *UserHandler) GetProfile(c echo.Context) error {
	view, err := h.uc.GetProfile(c.Request().Context(), deliverycontext.GetUserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, view)
}

// UpdateProfile handles POST /users?id=.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	input := new(usecase.UpdateProfileInput)
	if err := c.Bind(input); err != nil {
		return response.BadRequest(c, msgInvalidBody)
	}

	view, err := h.uc.UpdateProfile(c.Request().Context(), deliverycontext.GetUserID(c), c.QueryParam("id"), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, view)
}

// ChangePassword handles POST /users/password?id=.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	input := new(usecase.ChangePasswordInput)
	if err := c.Bind(input); err != nil {
		return response.BadRequest(c, msgInvalidBody)
	}

	output, err := h.uc.ChangePassword(c.Request().Context(), deliverycontext.GetUserID(c), c.QueryParam("id"), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, output)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
