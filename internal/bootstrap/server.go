package bootstrap

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpecho "github.com/mohammadpnp/field-productivity/internal/interfaces/http/echo"
)

func NewHTTPServer(c *Container) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit(c.Config.HTTP.BodyLimit))
	server.Use(httpecho.RequestLogger(c.Logger))
	server.Use(httpecho.RequestMetrics(c.Metrics.HTTP))

	uc := c.UseCases
	jobHandler := httpecho.NewJobHandler(httpecho.JobUseCases{
		Import:      uc.ImportJob,
		Sync:        uc.SyncBranchJobs,
		Recalculate: uc.RecalculateJobAreas,
		Get:         uc.GetJob,
		List:        uc.ListJobs,
		Schedule:    uc.ScheduleJob,
		Assign:      uc.AssignItems,
	})
	sessionHandler := httpecho.NewSessionHandler(httpecho.SessionUseCases{
		CheckIn:    uc.CheckIn,
		Pause:      uc.PauseSession,
		Resume:     uc.ResumeSession,
		CheckOut:   uc.CheckOut,
		ListPauses: uc.ListSessionPauses,
		Delete:     uc.DeleteSession,
		List:       uc.ListSessions,
		Detail:     uc.GetSessionDetail,
	})
	reportHandler := httpecho.NewReportHandler(uc.ProductivityReport, uc.ExportReport, uc.ProductivityMetrics, uc.Dashboard)
	catalogHandler := httpecho.NewCatalogHandler(httpecho.CatalogUseCases{
		CreateFamily:           uc.CreateFamily,
		ListFamilies:           uc.ListFamilies,
		CreateInstaller:        uc.CreateInstaller,
		ListInstallers:         uc.ListInstallers,
		UpdateInstaller:        uc.UpdateInstaller,
		ListBenchmarks:         uc.ListBenchmarks,
		RecomputeBenchmarks:    uc.RecomputeBenchmarks,
		EstimateInstallTime:    uc.EstimateInstallTime,
		RecordInstalledProduct: uc.RecordInstalledProduct,
		ListInstalledProducts:  uc.ListInstalledProducts,
	}, c.Photos)

	httpecho.RegisterRoutes(server, jobHandler, sessionHandler, reportHandler, catalogHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	server.GET("/metrics", echo.WrapHandler(c.Metrics.Handler()))

	return server
}
