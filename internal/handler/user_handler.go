package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/service"
)

// UserHandler handles user and profile endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Password        *string `json:"password" validate:"omitempty,min=6"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// ListUsers godoc
// @Summary List users with their task counts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.UserWithTaskCounts
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context(), actor)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "USER_NOT_FOUND", errors.ErrUserNotFound.Error())
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), actor, id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Profile(c.Request().Context(), actor)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION",
		})
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actor, service.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteProfile godoc
// @Summary Delete own account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/profile [delete]
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteAccount(c.Request().Context(), actor); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "account deleted",
	})
}
