package productivity

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

// installedProductRecorder emits the records of a completed session and folds
// them into the benchmarks. It runs inside the checkout transaction.
type installedProductRecorder struct {
	products   domain.InstalledProductRepository
	families   FamilyLookup
	benchmarks benchmarkAggregator
	rt         Runtime
}

func (r installedProductRecorder) record(ctx context.Context, job domain.Job, s domain.WorkSession) ([]domain.InstalledProduct, error) {
	complexity, height, scenario := recordTags(job, s)
	records := domain.RecordsForSession(job, s, domain.RecordContext{
		Complexity: complexity,
		Height:     height,
		Scenario:   scenario,
		Now:        r.rt.Clock(),
		NewID:      r.rt.NewID,
		Families:   r.resolver(ctx),
	})
	if err := r.products.Create(ctx, records); err != nil {
		return nil, err
	}
	if err := r.benchmarks.fold(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// resolver never fails: an unknown or unreachable family leaves the record
// without a family id.
func (r installedProductRecorder) resolver(ctx context.Context) domain.FamilyResolver {
	return func(name string) *string {
		if r.families == nil {
			return nil
		}
		id, err := r.families.IDByName(ctx, name)
		if err != nil {
			r.rt.Logger.Warn("family lookup failed", zap.String("family", name), zap.Error(err))
			return nil
		}
		return id
	}
}

// recordTags picks the context tags for a session's records: values given at
// checkout first, then the item assignment, then the defaults.
func recordTags(job domain.Job, s domain.WorkSession) (int, domain.HeightCategory, domain.ScenarioCategory) {
	complexity := domain.DefaultComplexity
	height := domain.DefaultHeight
	scenario := domain.DefaultScenario

	if !s.IsWholeJob() {
		if a, ok := job.Assignment(s.ItemID, s.InstallerID); ok {
			if a.DifficultyLevel != nil {
				complexity = *a.DifficultyLevel
			}
			if a.ScenarioCategory != nil {
				scenario = *a.ScenarioCategory
			}
		}
	}
	if s.ComplexityLevel != nil {
		complexity = *s.ComplexityLevel
	}
	if s.HeightCategory != nil {
		height = *s.HeightCategory
	}
	if s.ScenarioCategory != nil {
		scenario = *s.ScenarioCategory
	}
	return complexity, height, scenario
}

type benchmarkAggregator struct {
	benchmarks domain.BenchmarkRepository
	rt         Runtime
}

// fold merges every eligible record; records without a family or a positive
// productivity are skipped silently.
func (a benchmarkAggregator) fold(ctx context.Context, records []domain.InstalledProduct) error {
	for _, rec := range records {
		key, value, ok := rec.BenchmarkSample()
		if !ok {
			continue
		}
		if err := a.benchmarks.Fold(ctx, key, value, a.rt.Clock()); err != nil {
			return err
		}
		a.rt.Telemetry.BenchmarkFolded()
	}
	return nil
}
