package productivity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

func adminCtx() context.Context {
	return app.WithCaller(context.Background(), app.Caller{UserID: "user-admin", Role: app.RoleAdmin})
}

func TestListingsAreScopedByRole(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	job := h.importJob(t)
	ana := h.installer(t, "Ana")
	bruno := h.installer(t, "Bruno")
	lona := itemByName(t, job, "Lona 3x2m")

	_, err := app.NewAssignItems(h.stores, nil, h.rt).Execute(managerCtx(), app.AssignItemsInput{
		JobID:        job.ID,
		ItemIDs:      []string{lona.ID},
		InstallerIDs: []string{ana},
	})
	require.NoError(t, err)

	session, err := app.NewCheckIn(h.stores, nil, h.rt).Execute(installerCtx(ana), app.CheckInInput{JobID: job.ID, ItemID: lona.ID})
	require.NoError(t, err)

	listJobs := app.NewListJobs(h.stores.Jobs)
	all, err := listJobs.Execute(managerCtx(), app.ListJobsInput{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, string(domain.JobInstalling), all[0].Status)

	mine, err := listJobs.Execute(installerCtx(ana), app.ListJobsInput{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	// an installer cannot widen the scope by naming someone else
	none, err := listJobs.Execute(installerCtx(bruno), app.ListJobsInput{InstallerID: ana})
	require.NoError(t, err)
	assert.Empty(t, none)

	finished, err := listJobs.Execute(managerCtx(), app.ListJobsInput{Status: "finished"})
	require.NoError(t, err)
	assert.Empty(t, finished)

	_, err = listJobs.Execute(managerCtx(), app.ListJobsInput{Status: "cancelled"})
	require.ErrorIs(t, err, app.ErrValidation)

	listSessions := app.NewListSessions(h.stores.Sessions)
	sessions, err := listSessions.Execute(managerCtx(), app.ListSessionsInput{JobID: job.ID})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, session.ID, sessions[0].ID)

	sessions, err = listSessions.Execute(installerCtx(bruno), app.ListSessionsInput{JobID: job.ID})
	require.NoError(t, err)
	assert.Empty(t, sessions)

	sessions, err = listSessions.Execute(installerCtx(ana), app.ListSessionsInput{Status: "in_progress"})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	_, err = listSessions.Execute(managerCtx(), app.ListSessionsInput{Status: "done"})
	require.ErrorIs(t, err, app.ErrValidation)

	detail := app.NewGetSessionDetail(h.stores)
	got, err := detail.Execute(managerCtx(), app.GetSessionDetailInput{SessionID: session.ID})
	require.NoError(t, err)
	require.NotNil(t, got.Job)
	assert.Equal(t, "Loja Centro", got.Job.Title)
	require.NotNil(t, got.Installer)
	assert.Equal(t, "Ana", got.Installer.FullName)
	assert.Empty(t, got.Pauses)

	_, err = detail.Execute(installerCtx(ana), app.GetSessionDetailInput{SessionID: session.ID})
	require.ErrorIs(t, err, app.ErrForbidden)
	_, err = detail.Execute(managerCtx(), app.GetSessionDetailInput{SessionID: "missing"})
	require.ErrorIs(t, err, app.ErrNotFound)
}

func TestScheduleJob(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	job := h.importJob(t)
	schedule := app.NewScheduleJob(h.stores, h.rt)

	got, err := schedule.Execute(managerCtx(), app.ScheduleJobInput{JobID: job.ID, Date: "2026-03-12"})
	require.NoError(t, err)
	require.NotNil(t, got.ScheduledDate)
	assert.True(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC).Equal(*got.ScheduledDate))

	stored, err := app.NewGetJob(h.stores.Jobs).Execute(managerCtx(), app.GetJobInput{ID: job.ID})
	require.NoError(t, err)
	require.NotNil(t, stored.ScheduledDate)
	assert.Equal(t, string(domain.JobAwaiting), stored.Status)
	assert.Len(t, stored.Items, 2)

	cleared, err := schedule.Execute(managerCtx(), app.ScheduleJobInput{JobID: job.ID})
	require.NoError(t, err)
	assert.Nil(t, cleared.ScheduledDate)

	_, err = schedule.Execute(managerCtx(), app.ScheduleJobInput{JobID: job.ID, Date: "12/03/2026"})
	require.ErrorIs(t, err, app.ErrValidation)
	_, err = schedule.Execute(managerCtx(), app.ScheduleJobInput{JobID: "missing", Date: "2026-03-12"})
	require.ErrorIs(t, err, app.ErrNotFound)
	_, err = schedule.Execute(installerCtx("inst-a"), app.ScheduleJobInput{JobID: job.ID, Date: "2026-03-12"})
	require.ErrorIs(t, err, app.ErrForbidden)
}

func TestUpdateInstallerIsAdminOnly(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ana := h.installer(t, "Ana")
	update := app.NewUpdateInstaller(h.stores.Installers, h.rt)

	_, err := update.Execute(managerCtx(), app.UpdateInstallerInput{ID: ana, Phone: strPtr("51 9999-0000")})
	require.ErrorIs(t, err, app.ErrForbidden)

	got, err := update.Execute(adminCtx(), app.UpdateInstallerInput{ID: ana, Phone: strPtr("51 9999-0000"), Branch: strPtr("sp")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FullName)
	assert.Equal(t, "SP", got.Branch)
	assert.Equal(t, "51 9999-0000", got.Phone)

	_, err = update.Execute(adminCtx(), app.UpdateInstallerInput{ID: ana, FullName: strPtr("  ")})
	require.ErrorIs(t, err, app.ErrValidation)
	_, err = update.Execute(adminCtx(), app.UpdateInstallerInput{ID: "missing", Phone: strPtr("1")})
	require.ErrorIs(t, err, app.ErrNotFound)
}

func TestDashboardCounts(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	dashboard := app.NewGetDashboard(h.stores)

	empty, err := dashboard.Execute(managerCtx())
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalJobs)
	assert.Equal(t, 0, empty.JobsByStatus[string(domain.JobAwaiting)])

	job := h.importJob(t)
	ana := h.installer(t, "Ana")
	gps := &app.GeoPoint{Latitude: -30.03, Longitude: -51.23}
	session, err := app.NewCheckIn(h.stores, nil, h.rt).Execute(installerCtx(ana), app.CheckInInput{
		JobID: job.ID,
		GPS:   gps,
		Photo: "aGVsbG8=",
	})
	require.NoError(t, err)
	h.clock.Set(t0.Add(45 * time.Minute))
	_, err = app.NewCheckOut(h.stores, nil, h.families, nil, h.rt).Execute(installerCtx(ana), app.CheckOutInput{
		SessionID: session.ID,
		Photo:     "aGVsbG8=",
		GPS:       gps,
	})
	require.NoError(t, err)

	got, err := dashboard.Execute(managerCtx())
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalJobs)
	assert.Equal(t, 1, got.JobsByStatus[string(domain.JobFinished)])
	assert.Equal(t, 1, got.TotalSessions)
	assert.Equal(t, 1, got.CompletedSessions)
	assert.Equal(t, 0, got.OpenSessions)
	assert.InDelta(t, 45.0, got.AvgNetDurationMin, 1e-9)
	assert.Equal(t, 1, got.TotalInstallers)

	_, err = dashboard.Execute(installerCtx(ana))
	require.ErrorIs(t, err, app.ErrForbidden)
}
