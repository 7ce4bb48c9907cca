package echo

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	report    app.GetProductivityReport
	export    app.ExportProductivityReport
	metrics   app.GetProductivityMetrics
	dashboard app.GetDashboard
}

func NewReportHandler(report app.GetProductivityReport, export app.ExportProductivityReport, metrics app.GetProductivityMetrics, dashboard app.GetDashboard) *ReportHandler {
	return &ReportHandler{report: report, export: export, metrics: metrics, dashboard: dashboard}
}

func reportInput(c echo.Context) app.GetProductivityReportInput {
	return app.GetProductivityReportInput{
		FilterBy: c.QueryParam("filter_by"),
		FilterID: c.QueryParam("filter_id"),
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
	}
}

func (h *ReportHandler) Productivity(c echo.Context) error {
	out, err := h.report.Execute(c.Request().Context(), reportInput(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ReportHandler) ExportProductivity(c echo.Context) error {
	out, err := h.export.Execute(c.Request().Context(), reportInput(c))
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", out.FileName))
	return c.Blob(http.StatusOK, mimeXLSX, out.Content)
}

func (h *ReportHandler) Metrics(c echo.Context) error {
	out, err := h.metrics.Execute(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ReportHandler) Dashboard(c echo.Context) error {
	out, err := h.dashboard.Execute(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
