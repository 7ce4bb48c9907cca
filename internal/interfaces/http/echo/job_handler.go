package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
)

type JobHandler struct {
	importJob   app.ImportJob
	syncBranch  app.SyncBranchJobs
	recalculate app.RecalculateJobAreas
	getJob      app.GetJob
	listJobs    app.ListJobs
	schedule    app.ScheduleJob
	assignItems app.AssignItems
}

type JobUseCases struct {
	Import      app.ImportJob
	Sync        app.SyncBranchJobs
	Recalculate app.RecalculateJobAreas
	Get         app.GetJob
	List        app.ListJobs
	Schedule    app.ScheduleJob
	Assign      app.AssignItems
}

type importJobRequest struct {
	ExternalJobID string `json:"external_job_id"`
	Branch        string `json:"branch"`
}

type scheduleJobRequest struct {
	ScheduledDate string `json:"scheduled_date"`
}

type assignItemsRequest struct {
	ItemIDs          []string `json:"item_ids"`
	InstallerIDs     []string `json:"installer_ids"`
	DifficultyLevel  *int     `json:"difficulty_level"`
	ScenarioCategory *string  `json:"scenario_category"`
}

func NewJobHandler(uc JobUseCases) *JobHandler {
	return &JobHandler{
		importJob:   uc.Import,
		syncBranch:  uc.Sync,
		recalculate: uc.Recalculate,
		getJob:      uc.Get,
		listJobs:    uc.List,
		schedule:    uc.Schedule,
		assignItems: uc.Assign,
	}
}

func (h *JobHandler) ImportJob(c echo.Context) error {
	var req importJobRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.importJob.Execute(c.Request().Context(), app.ImportJobInput{
		ExternalJobID: req.ExternalJobID,
		Branch:        req.Branch,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *JobHandler) SyncBranch(c echo.Context) error {
	out, err := h.syncBranch.Execute(c.Request().Context(), app.SyncBranchJobsInput{
		Branch: c.Param("branch"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *JobHandler) RecalculateAreas(c echo.Context) error {
	out, err := h.recalculate.Execute(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *JobHandler) GetJob(c echo.Context) error {
	out, err := h.getJob.Execute(c.Request().Context(), app.GetJobInput{ID: c.Param("id")})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *JobHandler) AssignItems(c echo.Context) error {
	var req assignItemsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.assignItems.Execute(c.Request().Context(), app.AssignItemsInput{
		JobID:            c.Param("id"),
		ItemIDs:          req.ItemIDs,
		InstallerIDs:     req.InstallerIDs,
		DifficultyLevel:  req.DifficultyLevel,
		ScenarioCategory: req.ScenarioCategory,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *JobHandler) ListJobs(c echo.Context) error {
	out, err := h.listJobs.Execute(c.Request().Context(), app.ListJobsInput{
		Status:      c.QueryParam("status"),
		Branch:      c.QueryParam("branch"),
		InstallerID: c.QueryParam("installer_id"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *JobHandler) ScheduleJob(c echo.Context) error {
	var req scheduleJobRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.schedule.Execute(c.Request().Context(), app.ScheduleJobInput{
		JobID: c.Param("id"),
		Date:  req.ScheduledDate,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
