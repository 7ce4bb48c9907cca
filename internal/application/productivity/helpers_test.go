package productivity_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/cache"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/repository"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeSource struct {
	jobs    []domain.RawJob
	listErr error
}

func (f *fakeSource) FetchJob(ctx context.Context, branch, externalID string) (domain.RawJob, error) {
	for _, j := range f.jobs {
		if j.ExternalID == externalID {
			return j, nil
		}
	}
	return domain.RawJob{}, domain.ErrUpstreamJobMissing
}

func (f *fakeSource) ListJobs(ctx context.Context, branch string) ([]domain.RawJob, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.jobs, nil
}

func storeFrontJob(externalID string) domain.RawJob {
	return domain.RawJob{
		ExternalID: externalID,
		Title:      "Loja Centro",
		ClientName: "Cliente",
		Products: []domain.RawProduct{
			{Name: "Lona 3x2m", Quantity: 1},
			{Name: "Adesivo vitrine", Quantity: 2, Description: "Largura: 1m\nAltura: 0,5m"},
		},
	}
}

// harness wires the use cases to repositories over an in-memory sqlite
// database seeded with the default family catalogue.
type harness struct {
	stores   app.Stores
	clock    *testClock
	rt       app.Runtime
	families *cache.FamilyCache
	source   *fakeSource
	tax      domain.Taxonomy
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Open(db.Config{
		Driver:   db.DriverSQLite,
		DSN:      "file:app_" + name + "?mode=memory&cache=shared",
		LogLevel: gormlogger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	closeOnCleanup(t, gdb)

	tax := domain.DefaultTaxonomy()
	_, err = db.SeedFamilies(context.Background(), gdb, tax, uuid.NewString)
	require.NoError(t, err)

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
	clock := &testClock{now: t0}
	return &harness{
		stores:   stores,
		clock:    clock,
		rt:       app.Runtime{Clock: clock.Now},
		families: cache.NewFamilyCache(stores.Families, time.Minute),
		source:   &fakeSource{jobs: []domain.RawJob{storeFrontJob("4242")}},
		tax:      tax,
	}
}

func closeOnCleanup(t *testing.T, gdb *gorm.DB) {
	t.Helper()

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
}

func managerCtx() context.Context {
	return app.WithCaller(context.Background(), app.Caller{UserID: "user-m", Role: app.RoleManager})
}

func installerCtx(installerID string) context.Context {
	return app.WithCaller(context.Background(), app.Caller{UserID: "user-" + installerID, Role: app.RoleInstaller, InstallerID: installerID})
}

func (h *harness) importJob(t *testing.T) app.JobView {
	t.Helper()

	aggregator := domain.NewAreaAggregator(h.tax)
	job, err := app.NewImportJob(h.source, h.stores.Jobs, aggregator, nil, h.rt).Execute(managerCtx(), app.ImportJobInput{
		ExternalJobID: "4242",
		Branch:        "poa",
	})
	require.NoError(t, err)
	return job
}

func (h *harness) installer(t *testing.T, name string) string {
	t.Helper()

	v, err := app.NewCreateInstaller(h.stores.Installers, h.rt).Execute(managerCtx(), app.CreateInstallerInput{
		FullName: name,
		Branch:   "POA",
	})
	require.NoError(t, err)
	return v.ID
}

func (h *harness) familyID(t *testing.T, name string) string {
	t.Helper()

	id, err := h.families.IDByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, id, "family %s not seeded", name)
	return *id
}

func itemByName(t *testing.T, job app.JobView, name string) app.LineItemView {
	t.Helper()

	for _, it := range job.Items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("item %q not found in job", name)
	return app.LineItemView{}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
