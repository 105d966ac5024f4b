package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hetx19/Task-Manager-Backend/internal/service"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary Global dashboard over all tasks
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /tasks/dashboard-data [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	dashboard, err := h.dashboardService.Global(c.Request().Context(), actor)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

// GetUserDashboard godoc
// @Summary Dashboard over tasks assigned to the actor
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks/user-dashboard-data [get]
func (h *DashboardHandler) GetUserDashboard(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	dashboard, err := h.dashboardService.Scoped(c.Request().Context(), actor)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dashboard)
}
