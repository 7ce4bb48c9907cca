package productivity_test

import (
	"errors"
	"testing"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

func TestNewDashboardFillsEveryStatus(t *testing.T) {
	t.Parallel()

	d := domain.NewDashboard(
		map[domain.JobStatus]int{domain.JobFinished: 2, domain.JobInstalling: 1},
		domain.SessionStats{Total: 5, Completed: 3, AvgNetDurationMin: 41.666},
		4,
	)

	if d.TotalJobs != 3 {
		t.Fatalf("expected 3 jobs, got %d", d.TotalJobs)
	}
	if len(d.JobsByStatus) != 5 {
		t.Fatalf("expected every status, got %#v", d.JobsByStatus)
	}
	if n, ok := d.JobsByStatus[domain.JobAwaiting]; !ok || n != 0 {
		t.Fatalf("expected awaiting=0, got %d (present=%v)", n, ok)
	}
	if d.OpenSessions != 2 {
		t.Fatalf("expected 2 open sessions, got %d", d.OpenSessions)
	}
	if d.Sessions.AvgNetDurationMin != 41.67 {
		t.Fatalf("expected 41.67 average, got %v", d.Sessions.AvgNetDurationMin)
	}
	if d.TotalInstallers != 4 {
		t.Fatalf("expected 4 installers, got %d", d.TotalInstallers)
	}
}

func TestInstallerApply(t *testing.T) {
	t.Parallel()

	inst, err := domain.NewInstaller("i1", "u1", "Ana", "sp", "", t0)
	if err != nil {
		t.Fatalf("new installer: %v", err)
	}

	name, branch := "  Ana Souza ", "rj"
	if err := inst.Apply(domain.InstallerUpdate{FullName: &name, Branch: &branch}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if inst.FullName != "Ana Souza" || inst.Branch != "RJ" || inst.Phone != "" {
		t.Fatalf("unexpected installer: %#v", inst)
	}

	blank := " "
	if err := inst.Apply(domain.InstallerUpdate{FullName: &blank}); !errors.Is(err, domain.ErrInvalidInstallerName) {
		t.Fatalf("expected ErrInvalidInstallerName, got %v", err)
	}
	if inst.FullName != "Ana Souza" {
		t.Fatalf("rejected update changed the name to %q", inst.FullName)
	}
}
