package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hetx19/Task-Manager-Backend/internal/report"
	"github.com/hetx19/Task-Manager-Backend/internal/service"
)

// ReportHandler handles report export endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportTasks godoc
// @Summary Export all tasks as a spreadsheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /reports/export/tasks [get]
func (h *ReportHandler) ExportTasks(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	buf, err := h.reportService.ExportTasks(c.Request().Context(), actor)
	if err != nil {
		return serviceError(err)
	}
	return h.download(c, "tasks_report", buf.Bytes())
}

// ExportUsers godoc
// @Summary Export all users with task counts as a spreadsheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /reports/export/users [get]
func (h *ReportHandler) ExportUsers(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	buf, err := h.reportService.ExportUsers(c.Request().Context(), actor)
	if err != nil {
		return serviceError(err)
	}
	return h.download(c, "users_report", buf.Bytes())
}

func (h *ReportHandler) download(c echo.Context, name string, data []byte) error {
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, report.ContentType, data)
}
