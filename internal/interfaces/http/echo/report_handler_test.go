package echo_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
	httpecho "github.com/mohammadpnp/field-productivity/internal/interfaces/http/echo"
)

type fakeReport struct {
	got app.GetProductivityReportInput
}

func (f *fakeReport) Execute(ctx context.Context, in app.GetProductivityReportInput) (app.ProductivityReportView, error) {
	f.got = in
	return app.ProductivityReportView{FilterBy: in.FilterBy, Summary: app.ReportSummaryView{Sessions: 3}}, nil
}

type fakeExport struct{}

func (fakeExport) Execute(ctx context.Context, in app.GetProductivityReportInput) (app.ExportProductivityReportOutput, error) {
	return app.ExportProductivityReportOutput{FileName: "produtividade.xlsx", Content: []byte("PK")}, nil
}

type fakeEstimate struct {
	got app.EstimateInstallTimeInput
}

func (f *fakeEstimate) Execute(ctx context.Context, in app.EstimateInstallTimeInput) (app.EstimateInstallTimeOutput, error) {
	f.got = in
	return app.EstimateInstallTimeOutput{EstimatedMin: 120, SampleCount: 4}, nil
}

type fakePhotos struct{}

func (fakePhotos) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("jpeg-bytes")), nil
}

type fakeObserver struct {
	route  string
	status int
}

func (f *fakeObserver) Observe(method, route string, status int, elapsed time.Duration) {
	f.route, f.status = route, status
}

func TestProductivityReportPassesFilters(t *testing.T) {
	t.Parallel()

	fake := &fakeReport{}
	e := echo.New()
	httpecho.RegisterRoutes(e, nil, nil, httpecho.NewReportHandler(fake, fakeExport{}, nil, nil), nil)

	req := asManager(newRequest(http.MethodGet, "/api/v1/reports/productivity?filter_by=family&filter_id=Adesivos&date_from=2026-03-01&date_to=2026-03-31", ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := app.GetProductivityReportInput{FilterBy: "family", FilterID: "Adesivos", DateFrom: "2026-03-01", DateTo: "2026-03-31"}
	if fake.got != want {
		t.Fatalf("unexpected input: %#v", fake.got)
	}
}

func TestProductivityExportIsAttachment(t *testing.T) {
	t.Parallel()

	e := echo.New()
	httpecho.RegisterRoutes(e, nil, nil, httpecho.NewReportHandler(&fakeReport{}, fakeExport{}, nil, nil), nil)

	req := asManager(newRequest(http.MethodGet, "/api/v1/reports/productivity/export", ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(got, "produtividade.xlsx") {
		t.Fatalf("unexpected content disposition: %q", got)
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "application/vnd.openxmlformats") {
		t.Fatalf("unexpected content type: %q", rec.Header().Get(echo.HeaderContentType))
	}
}

func TestEstimateRequiresQueryParams(t *testing.T) {
	t.Parallel()

	fake := &fakeEstimate{}
	e := echo.New()
	httpecho.RegisterRoutes(e, nil, nil, nil, httpecho.NewCatalogHandler(httpecho.CatalogUseCases{EstimateInstallTime: fake}, fakePhotos{}))

	req := asManager(newRequest(http.MethodGet, "/api/v1/benchmarks/estimate?family_id=fam-1", ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	req = asManager(newRequest(http.MethodGet, "/api/v1/benchmarks/estimate?family_id=fam-1&complexity_level=2&height_category=high&area_m2=30", ""))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.got.ComplexityLevel != 2 || fake.got.AreaM2 != 30 || fake.got.HeightCategory != "high" {
		t.Fatalf("unexpected input: %#v", fake.got)
	}
}

func TestPhotoStreamsContent(t *testing.T) {
	t.Parallel()

	e := echo.New()
	httpecho.RegisterRoutes(e, nil, nil, nil, httpecho.NewCatalogHandler(httpecho.CatalogUseCases{}, fakePhotos{}))

	req := asManager(newRequest(http.MethodGet, "/api/v1/photos/abc.jpg", ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderContentType) != "image/jpeg" {
		t.Fatalf("unexpected content type: %q", rec.Header().Get(echo.HeaderContentType))
	}
}

func TestRequestMetricsObservesRoute(t *testing.T) {
	t.Parallel()

	observer := &fakeObserver{}
	e := echo.New()
	e.Use(httpecho.RequestMetrics(observer))
	httpecho.RegisterRoutes(e, nil, nil, httpecho.NewReportHandler(&fakeReport{}, fakeExport{}, nil, nil), nil)

	req := asManager(newRequest(http.MethodGet, "/api/v1/reports/productivity", ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if observer.route != "/api/v1/reports/productivity" || observer.status != http.StatusOK {
		t.Fatalf("unexpected observation: %#v", observer)
	}
}

type fakeDashboard struct{}

func (fakeDashboard) Execute(ctx context.Context) (app.DashboardView, error) {
	return app.DashboardView{
		TotalJobs:    3,
		JobsByStatus: map[string]int{"finished": 2, "awaiting": 1},
	}, nil
}

type fakeUpdateInstaller struct {
	got app.UpdateInstallerInput
}

func (f *fakeUpdateInstaller) Execute(ctx context.Context, in app.UpdateInstallerInput) (app.InstallerView, error) {
	f.got = in
	return app.InstallerView{ID: in.ID}, nil
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	e := echo.New()
	httpecho.RegisterRoutes(e, nil, nil, httpecho.NewReportHandler(nil, nil, nil, fakeDashboard{}), nil)

	req := asManager(newRequest(http.MethodGet, "/api/v1/dashboard", ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data, ok := decodeBody(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %s", rec.Body.String())
	}
	byStatus, ok := data["jobs_by_status"].(map[string]any)
	if !ok || byStatus["finished"] != float64(2) {
		t.Fatalf("unexpected jobs_by_status: %#v", data["jobs_by_status"])
	}
}

func TestUpdateInstallerSendsOnlyPresentFields(t *testing.T) {
	t.Parallel()

	fake := &fakeUpdateInstaller{}
	e := echo.New()
	httpecho.RegisterRoutes(e, nil, nil, nil, httpecho.NewCatalogHandler(httpecho.CatalogUseCases{UpdateInstaller: fake}, fakePhotos{}))

	req := asAdmin(newRequest(http.MethodPut, "/api/v1/installers/inst-a", `{"phone":"51 9999-0000"}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.got.ID != "inst-a" {
		t.Fatalf("unexpected id: %q", fake.got.ID)
	}
	if fake.got.Phone == nil || *fake.got.Phone != "51 9999-0000" {
		t.Fatalf("unexpected phone: %#v", fake.got.Phone)
	}
	if fake.got.FullName != nil || fake.got.Branch != nil {
		t.Fatalf("absent fields should stay nil: %#v", fake.got)
	}
}
