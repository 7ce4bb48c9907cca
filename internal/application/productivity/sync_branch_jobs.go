package productivity

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

const maxStoredFailures = 100

type SyncBranchJobsInput struct {
	Branch string
}

type SyncFailure struct {
	ExternalJobID string `json:"external_job_id"`
	Reason        string `json:"reason"`
}

type SyncBranchJobsOutput struct {
	Branch         string        `json:"branch"`
	ProcessedCount int           `json:"processed"`
	ImportedCount  int           `json:"imported"`
	SkippedCount   int           `json:"skipped"`
	FailedCount    int           `json:"failed"`
	Failures       []SyncFailure `json:"failures"`
}

type SyncBranchJobs interface {
	Execute(ctx context.Context, in SyncBranchJobsInput) (SyncBranchJobsOutput, error)
}

type SyncConfig struct {
	Workers int
}

type syncBranchJobs struct {
	source   domain.JobSource
	jobs     domain.JobRepository
	importer jobImporter
	cfg      SyncConfig
	reports  ReportCache
	rt       Runtime
}

func NewSyncBranchJobs(source domain.JobSource, jobs domain.JobRepository, aggregator domain.AreaAggregator, cfg SyncConfig, reports ReportCache, rt Runtime) SyncBranchJobs {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	rt = rt.withDefaults()
	return &syncBranchJobs{
		source:   source,
		jobs:     jobs,
		importer: jobImporter{jobs: jobs, aggregator: aggregator, rt: rt},
		cfg:      cfg,
		reports:  reports,
		rt:       rt,
	}
}

func (uc *syncBranchJobs) Execute(ctx context.Context, in SyncBranchJobsInput) (SyncBranchJobsOutput, error) {
	if _, err := requireManager(ctx); err != nil {
		return SyncBranchJobsOutput{}, err
	}
	branch := normalizeBranch(in.Branch)
	if branch == "" {
		return SyncBranchJobsOutput{}, validation("branch is required")
	}

	rawJobs, err := uc.source.ListJobs(ctx, branch)
	if err != nil {
		return SyncBranchJobsOutput{}, upstreamError(err)
	}

	ids := make([]string, 0, len(rawJobs))
	for _, raw := range rawJobs {
		ids = append(ids, raw.ExternalID)
	}
	existing, err := uc.jobs.ExistingExternalIDs(ctx, ids)
	if err != nil {
		return SyncBranchJobsOutput{}, classify(err)
	}

	out := SyncBranchJobsOutput{Branch: branch, Failures: []SyncFailure{}}
	var mu sync.Mutex
	fail := func(externalID, reason string) {
		out.FailedCount++
		if len(out.Failures) < maxStoredFailures {
			out.Failures = append(out.Failures, SyncFailure{ExternalJobID: externalID, Reason: truncateReason(reason)})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.Workers)
	seen := map[string]bool{}
	for _, raw := range rawJobs {
		externalID := strings.TrimSpace(raw.ExternalID)
		mu.Lock()
		out.ProcessedCount++
		skip := externalID == "" || existing[externalID] || seen[externalID]
		switch {
		case externalID == "":
			fail("", "upstream job without id")
		case skip:
			out.SkippedCount++
		}
		mu.Unlock()
		if skip {
			continue
		}
		seen[externalID] = true
		raw.ExternalID = externalID

		raw := raw
		g.Go(func() error {
			_, err := uc.importer.create(gctx, raw, branch)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				out.ImportedCount++
			case isAny(err, []error{domain.ErrJobAlreadyImported}):
				out.SkippedCount++
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				fail(externalID, err.Error())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SyncBranchJobsOutput{}, err
	}
	if out.ImportedCount > 0 {
		invalidateReports(ctx, uc.reports, uc.rt.Logger)
	}

	uc.rt.Logger.Info("branch sync finished",
		zap.String("branch", branch),
		zap.Int("processed", out.ProcessedCount),
		zap.Int("imported", out.ImportedCount),
		zap.Int("skipped", out.SkippedCount),
		zap.Int("failed", out.FailedCount),
	)
	return out, nil
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	return reason[:maxLen]
}
