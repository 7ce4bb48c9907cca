package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gorm.io/gorm"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
	"github.com/mohammadpnp/field-productivity/internal/config"
	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/cache"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/export"
	infrafile "github.com/mohammadpnp/field-productivity/internal/infrastructure/file"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/holdprint"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/repository"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/taxonomy"
	"github.com/mohammadpnp/field-productivity/internal/observability"
)

const reportCachePrefix = "fpt:report"

// UseCases is every application operation, wired to its adapters.
type UseCases struct {
	ImportJob              app.ImportJob
	SyncBranchJobs         app.SyncBranchJobs
	RecalculateJobAreas    app.RecalculateJobAreas
	GetJob                 app.GetJob
	ListJobs               app.ListJobs
	ScheduleJob            app.ScheduleJob
	AssignItems            app.AssignItems
	CheckIn                app.CheckIn
	PauseSession           app.PauseSession
	ResumeSession          app.ResumeSession
	CheckOut               app.CheckOut
	ListSessionPauses      app.ListSessionPauses
	DeleteSession          app.DeleteSession
	ListSessions           app.ListSessions
	GetSessionDetail       app.GetSessionDetail
	CreateFamily           app.CreateFamily
	ListFamilies           app.ListFamilies
	CreateInstaller        app.CreateInstaller
	ListInstallers         app.ListInstallers
	UpdateInstaller        app.UpdateInstaller
	ListBenchmarks         app.ListBenchmarks
	RecomputeBenchmarks    app.RecomputeBenchmarks
	EstimateInstallTime    app.EstimateInstallTime
	RecordInstalledProduct app.RecordInstalledProduct
	ListInstalledProducts  app.ListInstalledProducts
	ProductivityReport     app.GetProductivityReport
	ExportReport           app.ExportProductivityReport
	ProductivityMetrics    app.GetProductivityMetrics
	Dashboard              app.GetDashboard
}

type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *gorm.DB
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Metrics  *observability.Metrics
	Photos   *infrafile.PhotoStore
	UseCases UseCases
}

// NewContainer opens the database, applies migrations, seeds the family
// catalogue and builds every use case.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	tax, err := taxonomy.Load(cfg.Taxonomy.File)
	if err != nil {
		return nil, err
	}

	gdb, err := db.Open(db.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, Logger: logger, DB: gdb}

	if err := db.Migrate(gdb); err != nil {
		c.Close()
		return nil, err
	}
	seeded, err := db.SeedFamilies(ctx, gdb, tax, uuid.NewString)
	if err != nil {
		c.Close()
		return nil, err
	}
	if seeded > 0 {
		logger.Info("seeded product families", zap.Int("count", seeded))
	}

	if c.Metrics, err = observability.NewMetrics(); err != nil {
		c.Close()
		return nil, err
	}
	if c.Photos, err = infrafile.NewPhotoStore(cfg.Photos.Dir); err != nil {
		c.Close()
		return nil, err
	}

	stores := app.Stores{
		Tx:         repository.NewTransactor(gdb),
		Jobs:       repository.NewJobRepository(gdb),
		Installers: repository.NewInstallerRepository(gdb),
		Sessions:   repository.NewSessionRepository(gdb),
		Pauses:     repository.NewPauseLogRepository(gdb),
		Products:   repository.NewInstalledProductRepository(gdb),
		Benchmarks: repository.NewBenchmarkRepository(gdb),
		Families:   repository.NewFamilyRepository(gdb),
	}

	var benchmarkWriter app.BenchmarkWriter = stores.Benchmarks
	if cfg.Database.Driver == db.DriverPostgres {
		if c.Pool, err = pgxpool.New(ctx, cfg.Database.URL); err != nil {
			c.Close()
			return nil, fmt.Errorf("create pgx pool: %w", err)
		}
		benchmarkWriter = repository.NewBenchmarkBulkWriter(c.Pool)
	}

	var reports app.ReportCache
	if cfg.Redis.Enabled() {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(ctx, c.Redis); err != nil {
			logger.Warn("report cache unavailable, serving uncached reports", zap.Error(err))
		} else {
			reports = cache.NewReportCache(c.Redis, reportCachePrefix, cfg.Redis.ReportTTL)
		}
	}

	source := holdprint.NewClient(holdprint.Config{
		BaseURL:    cfg.Holdprint.BaseURL,
		APIKeys:    cfg.Holdprint.APIKeys(),
		Timeout:    cfg.Holdprint.Timeout,
		RetryCount: cfg.Holdprint.Retries,
	}, logger)

	families := cache.NewFamilyCache(stores.Families, cfg.Taxonomy.FamilyCacheTTL)
	aggregator := domain.NewAreaAggregator(tax)
	rt := app.Runtime{Logger: logger, Telemetry: c.Metrics.Productivity}

	c.UseCases = UseCases{
		ImportJob:              app.NewImportJob(source, stores.Jobs, aggregator, reports, rt),
		SyncBranchJobs:         app.NewSyncBranchJobs(source, stores.Jobs, aggregator, app.SyncConfig{Workers: cfg.Sync.Workers}, reports, rt),
		RecalculateJobAreas:    app.NewRecalculateJobAreas(stores, aggregator, cfg.Sync.Workers, reports, rt),
		GetJob:                 app.NewGetJob(stores.Jobs),
		ListJobs:               app.NewListJobs(stores.Jobs),
		ScheduleJob:            app.NewScheduleJob(stores, rt),
		AssignItems:            app.NewAssignItems(stores, reports, rt),
		CheckIn:                app.NewCheckIn(stores, c.Photos, rt),
		PauseSession:           app.NewPauseSession(stores, rt),
		ResumeSession:          app.NewResumeSession(stores, rt),
		CheckOut:               app.NewCheckOut(stores, c.Photos, families, reports, rt),
		ListSessionPauses:      app.NewListSessionPauses(stores),
		DeleteSession:          app.NewDeleteSession(stores, reports, rt),
		ListSessions:           app.NewListSessions(stores.Sessions),
		GetSessionDetail:       app.NewGetSessionDetail(stores),
		CreateFamily:           app.NewCreateFamily(stores.Families, families, rt),
		ListFamilies:           app.NewListFamilies(stores.Families),
		CreateInstaller:        app.NewCreateInstaller(stores.Installers, rt),
		ListInstallers:         app.NewListInstallers(stores.Installers),
		UpdateInstaller:        app.NewUpdateInstaller(stores.Installers, rt),
		ListBenchmarks:         app.NewListBenchmarks(stores.Benchmarks),
		RecomputeBenchmarks:    app.NewRecomputeBenchmarks(stores.Products, benchmarkWriter, rt),
		EstimateInstallTime:    app.NewEstimateInstallTime(stores.Benchmarks),
		RecordInstalledProduct: app.NewRecordInstalledProduct(stores, families, reports, rt),
		ListInstalledProducts:  app.NewListInstalledProducts(stores.Products),
		ProductivityReport:     app.NewGetProductivityReport(stores, tax, reports, rt),
		ExportReport:           app.NewExportProductivityReport(stores, tax, export.NewReportWorkbook(), rt),
		ProductivityMetrics:    app.NewGetProductivityMetrics(stores.Products, tax),
		Dashboard:              app.NewGetDashboard(stores),
	}

	return c, nil
}

func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
