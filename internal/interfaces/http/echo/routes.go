package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, jobs *JobHandler, sessions *SessionHandler, reports *ReportHandler, catalog *CatalogHandler) {
	api := server.Group("/api/v1", CallerIdentity())

	if jobs != nil {
		api.POST("/jobs/import", jobs.ImportJob)
		api.POST("/jobs/sync/:branch", jobs.SyncBranch)
		api.POST("/jobs/recalculate-areas", jobs.RecalculateAreas)
		api.GET("/jobs", jobs.ListJobs)
		api.GET("/jobs/:id", jobs.GetJob)
		api.PUT("/jobs/:id/assign", jobs.AssignItems)
		api.PUT("/jobs/:id/schedule", jobs.ScheduleJob)
	}

	if sessions != nil {
		api.POST("/jobs/:id/checkins", sessions.CheckIn)
		api.GET("/sessions", sessions.List)
		api.GET("/sessions/:id", sessions.Detail)
		api.POST("/sessions/:id/pause", sessions.Pause)
		api.POST("/sessions/:id/resume", sessions.Resume)
		api.PUT("/sessions/:id/checkout", sessions.CheckOut)
		api.GET("/sessions/:id/pauses", sessions.ListPauses)
		api.DELETE("/sessions/:id", sessions.Delete)
	}

	if reports != nil {
		api.GET("/reports/productivity", reports.Productivity)
		api.GET("/reports/productivity/export", reports.ExportProductivity)
		api.GET("/metrics/productivity", reports.Metrics)
		api.GET("/dashboard", reports.Dashboard)
	}

	if catalog != nil {
		api.GET("/families", catalog.ListFamilies)
		api.POST("/families", catalog.CreateFamily)
		api.GET("/installers", catalog.ListInstallers)
		api.POST("/installers", catalog.CreateInstaller)
		api.PUT("/installers/:id", catalog.UpdateInstaller)
		api.GET("/benchmarks", catalog.ListBenchmarks)
		api.POST("/benchmarks/recompute", catalog.RecomputeBenchmarks)
		api.GET("/benchmarks/estimate", catalog.EstimateInstallTime)
		api.GET("/installed-products", catalog.ListInstalledProducts)
		api.POST("/installed-products", catalog.RecordInstalledProduct)
		api.GET("/photos/:ref", catalog.Photo)
	}
}
