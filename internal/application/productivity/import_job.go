package productivity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type ImportJobInput struct {
	ExternalJobID string
	Branch        string
}

type ImportJob interface {
	Execute(ctx context.Context, in ImportJobInput) (JobView, error)
}

type importJob struct {
	source   domain.JobSource
	jobs     domain.JobRepository
	importer jobImporter
	reports  ReportCache
	rt       Runtime
}

func NewImportJob(source domain.JobSource, jobs domain.JobRepository, aggregator domain.AreaAggregator, reports ReportCache, rt Runtime) ImportJob {
	rt = rt.withDefaults()
	return &importJob{
		source:   source,
		jobs:     jobs,
		importer: jobImporter{jobs: jobs, aggregator: aggregator, rt: rt},
		reports:  reports,
		rt:       rt,
	}
}

func (uc *importJob) Execute(ctx context.Context, in ImportJobInput) (JobView, error) {
	if _, err := requireManager(ctx); err != nil {
		return JobView{}, err
	}
	externalID := strings.TrimSpace(in.ExternalJobID)
	branch := normalizeBranch(in.Branch)
	if externalID == "" {
		return JobView{}, validation("external_job_id is required")
	}
	if branch == "" {
		return JobView{}, validation("branch is required")
	}

	existing, err := uc.jobs.ExistingExternalIDs(ctx, []string{externalID})
	if err != nil {
		return JobView{}, classify(err)
	}
	if existing[externalID] {
		return JobView{}, classify(domain.ErrJobAlreadyImported)
	}

	raw, err := uc.source.FetchJob(ctx, branch, externalID)
	if err != nil {
		return JobView{}, upstreamError(err)
	}
	if raw.ExternalID == "" {
		raw.ExternalID = externalID
	}

	job, err := uc.importer.create(ctx, raw, branch)
	if err != nil {
		return JobView{}, err
	}
	invalidateReports(ctx, uc.reports, uc.rt.Logger)
	return toJobView(job), nil
}

// jobImporter turns an upstream job into a stored job with tagged items.
type jobImporter struct {
	jobs       domain.JobRepository
	aggregator domain.AreaAggregator
	rt         Runtime
}

func (i jobImporter) create(ctx context.Context, raw domain.RawJob, branch string) (domain.Job, error) {
	now := i.rt.Clock()
	job := domain.Job{
		ID:            i.rt.NewID(),
		ExternalJobID: raw.ExternalID,
		Title:         strings.TrimSpace(raw.Title),
		ClientName:    strings.TrimSpace(raw.ClientName),
		Branch:        branch,
		Status:        domain.JobAwaiting,
		RawProducts:   raw.Products,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	job.ApplyAreaSummary(i.aggregator.Aggregate(raw.Products), i.rt.NewID)

	if err := i.jobs.Create(ctx, &job); err != nil {
		return domain.Job{}, classify(err)
	}
	i.rt.Telemetry.JobImported(branch)
	i.rt.Logger.Info("job imported",
		zap.String("job_id", job.ID),
		zap.String("external_job_id", job.ExternalJobID),
		zap.String("branch", branch),
		zap.Int("items", job.TotalItems),
		zap.Float64("area_m2", job.AreaM2),
	)
	return job, nil
}

func upstreamError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUpstreamJobMissing), errors.Is(err, domain.ErrInvalidBranch):
		return classify(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}

func normalizeBranch(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
