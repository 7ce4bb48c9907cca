package productivity

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type ListJobsInput struct {
	Status      string
	Branch      string
	InstallerID string
}

type ListJobs interface {
	Execute(ctx context.Context, in ListJobsInput) ([]JobView, error)
}

type listJobs struct {
	jobs domain.JobRepository
}

func NewListJobs(jobs domain.JobRepository) ListJobs {
	return &listJobs{jobs: jobs}
}

// Execute lists every job for managers. Installers only see jobs holding
// one of their assignments, whatever InstallerID they pass.
func (uc *listJobs) Execute(ctx context.Context, in ListJobsInput) ([]JobView, error) {
	caller, err := requireRole(ctx, RoleAdmin, RoleManager, RoleInstaller)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseJobStatus(in.Status)
	if err != nil {
		return nil, classify(err)
	}
	filter := domain.JobFilter{
		Status:      status,
		Branch:      strings.ToUpper(strings.TrimSpace(in.Branch)),
		InstallerID: strings.TrimSpace(in.InstallerID),
	}
	if caller.Role == RoleInstaller {
		if strings.TrimSpace(caller.InstallerID) == "" {
			return nil, fmt.Errorf("%w: caller is not linked to an installer", ErrForbidden)
		}
		filter.InstallerID = caller.InstallerID
	}

	jobs, err := uc.jobs.List(ctx, filter)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]JobView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobView(j))
	}
	return out, nil
}

type ScheduleJobInput struct {
	JobID string
	// Date is a calendar date or RFC 3339 timestamp. Empty clears the schedule.
	Date string
}

type ScheduleJob interface {
	Execute(ctx context.Context, in ScheduleJobInput) (JobView, error)
}

type scheduleJob struct {
	stores Stores
	rt     Runtime
}

func NewScheduleJob(stores Stores, rt Runtime) ScheduleJob {
	return &scheduleJob{stores: stores, rt: rt.withDefaults()}
}

func (uc *scheduleJob) Execute(ctx context.Context, in ScheduleJobInput) (JobView, error) {
	if _, err := requireManager(ctx); err != nil {
		return JobView{}, err
	}
	id := strings.TrimSpace(in.JobID)
	if id == "" {
		return JobView{}, validation("job id is required")
	}
	date, err := domain.ParseReportDate(in.Date, false)
	if err != nil {
		return JobView{}, classify(err)
	}
	if date != nil {
		utc := date.UTC()
		date = &utc
	}

	var job *domain.Job
	err = uc.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		job, err = uc.stores.Jobs.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		job.ScheduledDate = date
		job.UpdatedAt = uc.rt.Clock()
		return uc.stores.Jobs.Save(txCtx, job)
	})
	if err != nil {
		return JobView{}, classify(err)
	}
	uc.rt.Logger.Info("job scheduled", zap.String("job_id", job.ID), zap.Timep("scheduled_date", date))
	return toJobView(*job), nil
}
