package echo_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
	httpecho "github.com/mohammadpnp/field-productivity/internal/interfaces/http/echo"
)

type fakeImportJob struct {
	got app.ImportJobInput
	out app.JobView
	err error
}

func (f *fakeImportJob) Execute(ctx context.Context, in app.ImportJobInput) (app.JobView, error) {
	f.got = in
	return f.out, f.err
}

type fakeGetJob struct {
	err error
}

func (f *fakeGetJob) Execute(ctx context.Context, in app.GetJobInput) (app.JobView, error) {
	if f.err != nil {
		return app.JobView{}, f.err
	}
	return app.JobView{ID: in.ID, Status: "awaiting"}, nil
}

type fakeAssignItems struct {
	got app.AssignItemsInput
}

func (f *fakeAssignItems) Execute(ctx context.Context, in app.AssignItemsInput) (app.JobView, error) {
	f.got = in
	return app.JobView{ID: in.JobID}, nil
}

func newJobServer(uc httpecho.JobUseCases) *echo.Echo {
	e := echo.New()
	httpecho.RegisterRoutes(e, httpecho.NewJobHandler(uc), nil, nil, nil)
	return e
}

func TestImportJobCreated(t *testing.T) {
	t.Parallel()

	fake := &fakeImportJob{out: app.JobView{ID: "job-1", ExternalJobID: "4242", Branch: "POA"}}
	e := newJobServer(httpecho.JobUseCases{Import: fake})

	req := asManager(newRequest(http.MethodPost, "/api/v1/jobs/import", `{"external_job_id":"4242","branch":"POA"}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if fake.got.ExternalJobID != "4242" || fake.got.Branch != "POA" {
		t.Fatalf("unexpected input: %#v", fake.got)
	}
	data, ok := decodeBody(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %s", rec.Body.String())
	}
	if data["id"] != "job-1" {
		t.Fatalf("unexpected id: %#v", data["id"])
	}
}

func TestImportJobErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: job 4242 already imported", app.ErrConflict), http.StatusConflict, "conflict"},
		{fmt.Errorf("%w: unknown branch", app.ErrValidation), http.StatusBadRequest, "validation_error"},
		{fmt.Errorf("%w: timeout", app.ErrUpstream), http.StatusBadGateway, "upstream_unavailable"},
		{fmt.Errorf("%w: role", app.ErrForbidden), http.StatusForbidden, "forbidden"},
		{fmt.Errorf("%w: disk full", app.ErrStorage), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		e := newJobServer(httpecho.JobUseCases{Import: &fakeImportJob{err: tc.err}})
		req := asManager(newRequest(http.MethodPost, "/api/v1/jobs/import", `{"external_job_id":"4242","branch":"POA"}`))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
		if code := errorCode(t, rec); code != tc.code {
			t.Fatalf("%v: expected code %s, got %s", tc.err, tc.code, code)
		}
	}
}

func TestImportJobBadJSON(t *testing.T) {
	t.Parallel()

	e := newJobServer(httpecho.JobUseCases{Import: &fakeImportJob{}})
	req := asManager(newRequest(http.MethodPost, "/api/v1/jobs/import", `{"external_job_id":`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetJobNotFound(t *testing.T) {
	t.Parallel()

	e := newJobServer(httpecho.JobUseCases{Get: &fakeGetJob{err: fmt.Errorf("%w: job", app.ErrNotFound)}})
	req := asManager(newRequest(http.MethodGet, "/api/v1/jobs/missing", ""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAssignItemsPassesPathAndBody(t *testing.T) {
	t.Parallel()

	fake := &fakeAssignItems{}
	e := newJobServer(httpecho.JobUseCases{Assign: fake})
	body := `{"item_ids":["item-1"],"installer_ids":["inst-a","inst-b"],"difficulty_level":3}`
	req := asManager(newRequest(http.MethodPut, "/api/v1/jobs/job-1/assign", body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.got.JobID != "job-1" || len(fake.got.InstallerIDs) != 2 {
		t.Fatalf("unexpected input: %#v", fake.got)
	}
	if fake.got.DifficultyLevel == nil || *fake.got.DifficultyLevel != 3 {
		t.Fatalf("unexpected difficulty: %#v", fake.got.DifficultyLevel)
	}
}

func TestRequestsWithoutIdentityAreRejected(t *testing.T) {
	t.Parallel()

	e := newJobServer(httpecho.JobUseCases{Get: &fakeGetJob{}})

	req := newRequest(http.MethodGet, "/api/v1/jobs/job-1", "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without headers, got %d", rec.Code)
	}

	req = newRequest(http.MethodGet, "/api/v1/jobs/job-1", "")
	req.Header.Set(httpecho.HeaderUserID, "user-1")
	req.Header.Set(httpecho.HeaderUserRole, "supervisor")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown role, got %d", rec.Code)
	}
}

type fakeListJobs struct {
	got    app.ListJobsInput
	caller app.Caller
}

func (f *fakeListJobs) Execute(ctx context.Context, in app.ListJobsInput) ([]app.JobView, error) {
	f.got = in
	f.caller, _ = app.CallerFrom(ctx)
	return []app.JobView{{ID: "job-1"}, {ID: "job-2"}}, nil
}

type fakeScheduleJob struct {
	got app.ScheduleJobInput
	err error
}

func (f *fakeScheduleJob) Execute(ctx context.Context, in app.ScheduleJobInput) (app.JobView, error) {
	f.got = in
	return app.JobView{ID: in.JobID}, f.err
}

func TestListJobsPassesFiltersAndCaller(t *testing.T) {
	t.Parallel()

	fake := &fakeListJobs{}
	e := newJobServer(httpecho.JobUseCases{List: fake})
	req := asInstaller(newRequest(http.MethodGet, "/api/v1/jobs?status=installing&branch=poa", ""), "inst-a")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.got.Status != "installing" || fake.got.Branch != "poa" {
		t.Fatalf("unexpected input: %#v", fake.got)
	}
	if fake.caller.InstallerID != "inst-a" {
		t.Fatalf("unexpected caller: %#v", fake.caller)
	}
	data, ok := decodeBody(t, rec)["data"].([]any)
	if !ok || len(data) != 2 {
		t.Fatalf("unexpected data payload: %s", rec.Body.String())
	}
}

func TestScheduleJob(t *testing.T) {
	t.Parallel()

	fake := &fakeScheduleJob{}
	e := newJobServer(httpecho.JobUseCases{Schedule: fake})
	req := asManager(newRequest(http.MethodPut, "/api/v1/jobs/job-1/schedule", `{"scheduled_date":"2026-03-12"}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.got.JobID != "job-1" || fake.got.Date != "2026-03-12" {
		t.Fatalf("unexpected input: %#v", fake.got)
	}

	fake = &fakeScheduleJob{err: fmt.Errorf("%w: invalid date", app.ErrValidation)}
	e = newJobServer(httpecho.JobUseCases{Schedule: fake})
	req = asManager(newRequest(http.MethodPut, "/api/v1/jobs/job-1/schedule", `{"scheduled_date":"12/03"}`))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "validation_error" {
		t.Fatalf("unexpected code %s", code)
	}
}
