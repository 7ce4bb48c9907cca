package productivity

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type ListBenchmarks interface {
	Execute(ctx context.Context) ([]BenchmarkView, error)
}

type listBenchmarks struct {
	benchmarks domain.BenchmarkRepository
}

func NewListBenchmarks(benchmarks domain.BenchmarkRepository) ListBenchmarks {
	return &listBenchmarks{benchmarks: benchmarks}
}

func (uc *listBenchmarks) Execute(ctx context.Context) ([]BenchmarkView, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}
	list, err := uc.benchmarks.List(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]BenchmarkView, 0, len(list))
	for _, b := range list {
		out = append(out, toBenchmarkView(b))
	}
	return out, nil
}

// BenchmarkWriter replaces the whole benchmark table in one transaction.
type BenchmarkWriter interface {
	ReplaceAll(ctx context.Context, benchmarks []domain.Benchmark) error
}

type RecomputeBenchmarksOutput struct {
	Records    int `json:"records"`
	Benchmarks int `json:"benchmarks"`
}

type RecomputeBenchmarks interface {
	Execute(ctx context.Context) (RecomputeBenchmarksOutput, error)
}

type recomputeBenchmarks struct {
	products domain.InstalledProductRepository
	writer   BenchmarkWriter
	rt       Runtime
}

func NewRecomputeBenchmarks(products domain.InstalledProductRepository, writer BenchmarkWriter, rt Runtime) RecomputeBenchmarks {
	return &recomputeBenchmarks{products: products, writer: writer, rt: rt.withDefaults()}
}

// Execute rebuilds every benchmark from the surviving installed-product
// records, dropping the contribution of deleted sessions.
func (uc *recomputeBenchmarks) Execute(ctx context.Context) (RecomputeBenchmarksOutput, error) {
	if _, err := requireManager(ctx); err != nil {
		return RecomputeBenchmarksOutput{}, err
	}
	records, err := uc.products.List(ctx, "")
	if err != nil {
		return RecomputeBenchmarksOutput{}, classify(err)
	}
	rebuilt := domain.RebuildBenchmarks(records, uc.rt.Clock(), uc.rt.NewID)
	if err := uc.writer.ReplaceAll(ctx, rebuilt); err != nil {
		return RecomputeBenchmarksOutput{}, classify(err)
	}

	uc.rt.Logger.Info("benchmarks recomputed", zap.Int("records", len(records)), zap.Int("benchmarks", len(rebuilt)))
	return RecomputeBenchmarksOutput{Records: len(records), Benchmarks: len(rebuilt)}, nil
}

type EstimateInstallTimeInput struct {
	FamilyID         string
	ComplexityLevel  int
	HeightCategory   string
	ScenarioCategory string
	AreaM2           float64
}

type EstimateInstallTimeOutput struct {
	EstimatedMin          float64 `json:"estimated_min"`
	AvgProductivityM2PerH float64 `json:"avg_productivity_m2_per_h"`
	SampleCount           int     `json:"sample_count"`
}

type EstimateInstallTime interface {
	Execute(ctx context.Context, in EstimateInstallTimeInput) (EstimateInstallTimeOutput, error)
}

type estimateInstallTime struct {
	benchmarks domain.BenchmarkRepository
}

func NewEstimateInstallTime(benchmarks domain.BenchmarkRepository) EstimateInstallTime {
	return &estimateInstallTime{benchmarks: benchmarks}
}

func (uc *estimateInstallTime) Execute(ctx context.Context, in EstimateInstallTimeInput) (EstimateInstallTimeOutput, error) {
	if _, err := requireManager(ctx); err != nil {
		return EstimateInstallTimeOutput{}, err
	}
	familyID := strings.TrimSpace(in.FamilyID)
	if familyID == "" {
		return EstimateInstallTimeOutput{}, validation("family_id is required")
	}
	if in.AreaM2 <= 0 {
		return EstimateInstallTimeOutput{}, validation("area_m2 must be positive")
	}
	if err := domain.ValidateComplexity(in.ComplexityLevel); err != nil {
		return EstimateInstallTimeOutput{}, classify(err)
	}
	height := domain.DefaultHeight
	if h, err := parseOptionalHeight(&in.HeightCategory); err != nil {
		return EstimateInstallTimeOutput{}, err
	} else if h != nil {
		height = *h
	}
	scenario := domain.DefaultScenario
	if sc, err := parseOptionalScenario(&in.ScenarioCategory); err != nil {
		return EstimateInstallTimeOutput{}, err
	} else if sc != nil {
		scenario = *sc
	}

	b, err := uc.benchmarks.Get(ctx, domain.BenchmarkKey{
		FamilyID:         familyID,
		ComplexityLevel:  in.ComplexityLevel,
		HeightCategory:   height,
		ScenarioCategory: scenario,
	})
	if err != nil {
		return EstimateInstallTimeOutput{}, classify(err)
	}
	minutes, ok := b.EstimateMinutes(in.AreaM2)
	if !ok {
		return EstimateInstallTimeOutput{}, classify(domain.ErrBenchmarkNotFound)
	}
	return EstimateInstallTimeOutput{
		EstimatedMin:          minutes,
		AvgProductivityM2PerH: domain.Round2(b.AvgProductivityM2PerH),
		SampleCount:           b.SampleCount,
	}, nil
}
