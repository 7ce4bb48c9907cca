package productivity

import (
	"context"
	"strings"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type GetJobInput struct {
	ID string
}

type GetJob interface {
	Execute(ctx context.Context, in GetJobInput) (JobView, error)
}

type getJob struct {
	jobs domain.JobRepository
}

func NewGetJob(jobs domain.JobRepository) GetJob {
	return &getJob{jobs: jobs}
}

func (uc *getJob) Execute(ctx context.Context, in GetJobInput) (JobView, error) {
	if _, err := requireRole(ctx, RoleAdmin, RoleManager, RoleInstaller); err != nil {
		return JobView{}, err
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return JobView{}, validation("job id is required")
	}
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil {
		return JobView{}, classify(err)
	}
	return toJobView(*job), nil
}
